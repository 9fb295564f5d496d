package handlers

import (
	"time"

	"github.com/petermazzocco/picture-picker/internal/ranking"
	"github.com/petermazzocco/picture-picker/models"
)

// PhotoView is a photo as seen by one user, with its tally.
type PhotoView struct {
	ID          uint       `json:"id"`
	AlbumID     uint       `json:"albumId"`
	CreatorID   uint       `json:"creatorId"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	MimeType    string     `json:"mimeType"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	CaptureDate *time.Time `json:"captureDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	ranking.Counts
	Score  int `json:"score"`
	MyVote int `json:"myVote"`
}

func newPhotoView(p *models.Photo, userID uint) PhotoView {
	counts := ranking.Tally(p.Votes)
	return PhotoView{
		ID:          p.ID,
		AlbumID:     p.AlbumID,
		CreatorID:   p.CreatorID,
		Title:       p.Title,
		URL:         p.URL,
		MimeType:    p.MimeType,
		Width:       p.Width,
		Height:      p.Height,
		CaptureDate: p.CaptureDate,
		CreatedAt:   p.CreatedAt,
		Counts:      counts,
		Score:       counts.Score(),
		MyVote:      ranking.UserState(p.Votes, userID).Value(),
	}
}

// AlbumSummary is an album without its photos.
type AlbumSummary struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatorID   uint      `json:"creatorId"`
	CreatorName string    `json:"creatorName,omitempty"`
	PhotoCount  int       `json:"photoCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newAlbumSummary(a *models.Album) AlbumSummary {
	s := AlbumSummary{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		CreatorID:   a.CreatorID,
		PhotoCount:  a.PhotoCount,
		CreatedAt:   a.CreatedAt,
	}
	if a.Creator != nil {
		s.CreatorName = a.Creator.Name
	}
	return s
}

// AlbumView is an album with its photos in the requested order.
type AlbumView struct {
	AlbumSummary
	SharedWith []models.User    `json:"sharedWith"`
	Sort       ranking.SortMode `json:"sort"`
	Photos     []PhotoView      `json:"photos"`
}

func newAlbumView(a *models.Album, mode ranking.SortMode, userID uint) AlbumView {
	photos := make([]PhotoView, 0, len(a.Photos))
	for i := range a.Photos {
		photos = append(photos, newPhotoView(&a.Photos[i], userID))
	}
	shared := a.SharedWith
	if shared == nil {
		shared = []models.User{}
	}
	return AlbumView{
		AlbumSummary: newAlbumSummary(a),
		SharedWith:   shared,
		Sort:         mode,
		Photos:       photos,
	}
}
