package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/petermazzocco/picture-picker/internal/config"
)

var ErrNotFound = errors.New("object not found")

// Store holds uploaded photo bytes.
type Store interface {
	// Put stores body under key and returns the URL it can be fetched from.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// NewFromConfig creates a Store implementation based on the storage config type.
func NewFromConfig(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "s3":
		return NewS3(ctx, cfg)
	case "memory":
		return NewMemory(cfg.PublicURL), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// ObjectName generates a unique key for a photo uploaded into an album.
func ObjectName(albumID uint, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = "upload"
	}
	return fmt.Sprintf("photos/%d/%s_%s", albumID, uuid.New().String(), base)
}

// PublicURL joins a base URL and an object key.
func PublicURL(base, key string) string {
	return CleanURL(strings.TrimRight(base, "/") + "/" + key)
}

func CleanURL(urlStr string) string {
	urlStr = strings.ReplaceAll(urlStr, " ", "%20")
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}

	return parsedURL.String()
}
