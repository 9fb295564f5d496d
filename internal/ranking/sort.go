package ranking

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/petermazzocco/picture-picker/models"
)

var ErrUnknownSortMode = errors.New("unknown sort mode")

type SortMode string

const (
	CaptureDateOldest SortMode = "capture-date-oldest"
	CaptureDateNewest SortMode = "capture-date-newest"
	DateAddedOldest   SortMode = "date-added-oldest"
	DateAddedNewest   SortMode = "date-added-newest"
	ScoreHighest      SortMode = "score-highest"
	ScoreLowest       SortMode = "score-lowest"

	DefaultSortMode = CaptureDateNewest
)

var SortModes = []SortMode{
	CaptureDateOldest,
	CaptureDateNewest,
	DateAddedOldest,
	DateAddedNewest,
	ScoreHighest,
	ScoreLowest,
}

func ParseSortMode(s string) (SortMode, error) {
	mode := SortMode(s)
	if !slices.Contains(SortModes, mode) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortMode, s)
	}
	return mode, nil
}

type ranked struct {
	photo   models.Photo
	score   int
	capture time.Time
}

// Sort orders photos in place. The sort is stable: photos that compare equal
// keep their input order.
func Sort(photos []models.Photo, mode SortMode) error {
	compare, err := comparator(mode)
	if err != nil {
		return err
	}

	items := make([]ranked, len(photos))
	for i := range photos {
		items[i] = ranked{
			photo:   photos[i],
			score:   Score(&photos[i]),
			capture: captureTime(&photos[i]),
		}
	}

	slices.SortStableFunc(items, compare)

	for i := range items {
		photos[i] = items[i].photo
	}
	return nil
}

func comparator(mode SortMode) (func(a, b ranked) int, error) {
	switch mode {
	case CaptureDateOldest:
		return func(a, b ranked) int {
			return a.capture.Compare(b.capture)
		}, nil
	case CaptureDateNewest:
		return func(a, b ranked) int {
			return b.capture.Compare(a.capture)
		}, nil
	case DateAddedOldest:
		return func(a, b ranked) int {
			return a.photo.CreatedAt.Compare(b.photo.CreatedAt)
		}, nil
	case DateAddedNewest:
		return func(a, b ranked) int {
			return b.photo.CreatedAt.Compare(a.photo.CreatedAt)
		}, nil
	case ScoreHighest:
		return func(a, b ranked) int {
			if c := cmp.Compare(b.score, a.score); c != 0 {
				return c
			}
			return a.capture.Compare(b.capture)
		}, nil
	case ScoreLowest:
		return func(a, b ranked) int {
			if c := cmp.Compare(a.score, b.score); c != 0 {
				return c
			}
			return a.capture.Compare(b.capture)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortMode, mode)
	}
}

// captureTime treats a missing capture date as the earliest possible time.
func captureTime(p *models.Photo) time.Time {
	if p.CaptureDate == nil {
		return time.Time{}
	}
	return *p.CaptureDate
}
