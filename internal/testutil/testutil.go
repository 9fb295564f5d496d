package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/petermazzocco/picture-picker/internal/config"
	"github.com/petermazzocco/picture-picker/internal/store"
	"github.com/petermazzocco/picture-picker/models"
)

// NewStore opens an in-memory SQLite database with the schema applied.
// The database is closed when the test completes.
func NewStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := store.Open(config.DatabaseConfig{Type: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	s := store.New(db)
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

// CreateUser inserts a user with the given name.
func CreateUser(t *testing.T, s *store.Store, name string) *models.User {
	t.Helper()

	user, err := s.UpsertUserByEmail(context.Background(), name, name+"@example.com")
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateAlbum inserts an album owned by creator and shares it with sharedWith.
func CreateAlbum(t *testing.T, s *store.Store, creator *models.User, title string, sharedWith ...*models.User) *models.Album {
	t.Helper()

	ctx := context.Background()
	album := &models.Album{Title: title, CreatorID: creator.ID}
	if err := s.CreateAlbum(ctx, album); err != nil {
		t.Fatalf("Failed to create test album: %v", err)
	}
	for _, u := range sharedWith {
		if err := s.ShareAlbum(ctx, album, u); err != nil {
			t.Fatalf("Failed to share test album: %v", err)
		}
	}
	return album
}

var photoSeq atomic.Int64

// CreatePhoto inserts a 640x480 photo into album. captureDate may be nil.
func CreatePhoto(t *testing.T, s *store.Store, album *models.Album, title string, captureDate *time.Time) *models.Photo {
	t.Helper()

	name := fmt.Sprintf("photos/%d/%d_%s", album.ID, photoSeq.Add(1), title)
	photo := &models.Photo{
		AlbumID:     album.ID,
		CreatorID:   album.CreatorID,
		Title:       title,
		ObjectName:  name,
		URL:         "http://objects.test/" + name,
		MimeType:    "image/jpeg",
		Width:       640,
		Height:      480,
		CaptureDate: captureDate,
	}
	if err := s.CreatePhoto(context.Background(), photo); err != nil {
		t.Fatalf("Failed to create test photo: %v", err)
	}
	return photo
}

// Date returns a pointer to midnight UTC on the given day.
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// MakeRequest creates an HTTP test request with an optional JSON body.
func MakeRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// DecodeJSON decodes the response body into v.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
