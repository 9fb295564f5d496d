package models

import (
	"slices"
	"time"
)

type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;unique" json:"email"`
}

type Album struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `json:"description"`
	CreatorID   uint      `gorm:"not null;index" json:"creatorId"`
	Creator     *User     `json:"creator,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	SharedWith  []User    `json:"sharedWith" gorm:"many2many:album_shares;constraint:OnDelete:CASCADE;"`
	Photos      []Photo   `json:"photos,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
	PhotoCount  int       `json:"photoCount" gorm:"->;-:migration"`
}

// CanAccess reports whether the user created the album or had it shared with them.
// SharedWith must be loaded.
func (a *Album) CanAccess(userID uint) bool {
	if a.CreatorID == userID {
		return true
	}
	return slices.ContainsFunc(a.SharedWith, func(u User) bool {
		return u.ID == userID
	})
}

// Photo attributes other than Votes are written once at ingestion.
type Photo struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	AlbumID     uint       `gorm:"not null;index" json:"albumId"`
	Album       *Album     `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatorID   uint       `gorm:"not null" json:"creatorId"`
	Title       string     `json:"title"`
	ObjectName  string     `gorm:"not null;uniqueIndex" json:"-"`
	URL         string     `json:"url"`
	MimeType    string     `json:"mimeType"`
	Width       int        `gorm:"not null" json:"width"`
	Height      int        `gorm:"not null" json:"height"`
	CaptureDate *time.Time `json:"captureDate"`
	Votes       []Vote     `json:"votes" gorm:"constraint:OnDelete:CASCADE;"`
}

// Vote is a single user's opinion on a photo. At most one row exists per
// (photo, user) and Value is always +1 or -1 while it does.
type Vote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	PhotoID   uint      `gorm:"not null;uniqueIndex:idx_votes_photo_user,priority:1" json:"photoId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_votes_photo_user,priority:2;index" json:"userId"`
	User      *User     `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Value     int       `gorm:"not null;check:value = 1 OR value = -1" json:"value"`
}
