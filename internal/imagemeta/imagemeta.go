package imagemeta

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/h2non/bimg"
)

var ErrNotImage = errors.New("not a supported image")

// Metadata is what ingestion records about an uploaded image.
type Metadata struct {
	Width       int
	Height      int
	Type        string
	CaptureDate *time.Time
}

// Extractor reads Metadata from raw image bytes.
type Extractor interface {
	Extract(data []byte) (Metadata, error)
}

// Bimg extracts metadata with libvips through bimg.
type Bimg struct{}

func (Bimg) Extract(data []byte) (Metadata, error) {
	if bimg.DetermineImageType(data) == bimg.UNKNOWN {
		return Metadata{}, ErrNotImage
	}

	meta, err := bimg.NewImage(data).Metadata()
	if err != nil {
		return Metadata{}, fmt.Errorf("reading image metadata: %w", err)
	}
	if meta.Size.Width <= 0 || meta.Size.Height <= 0 {
		return Metadata{}, fmt.Errorf("%w: zero dimensions", ErrNotImage)
	}

	return Metadata{
		Width:       meta.Size.Width,
		Height:      meta.Size.Height,
		Type:        meta.Type,
		CaptureDate: ParseCaptureDate(meta.EXIF.DateTimeOriginal),
	}, nil
}

// exifLayouts are the DateTimeOriginal formats seen in the wild, the EXIF
// standard one first.
var exifLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
	"2006:01:02T15:04:05",
	time.RFC3339,
}

// ParseCaptureDate parses an EXIF DateTimeOriginal value. EXIF carries no
// zone, so the result is in UTC. Empty, blanked ("0000:00:00 00:00:00") or
// unparsable values yield nil.
func ParseCaptureDate(raw string) *time.Time {
	// libvips appends a description: "2019:01:01 10:00:00 (2019:01:01 10:00:00, ASCII, 20 components, 20 bytes)"
	if i := strings.Index(raw, " ("); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	if raw == "" || strings.HasPrefix(raw, "0000") {
		return nil
	}

	for _, layout := range exifLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}
