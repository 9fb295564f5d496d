package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/petermazzocco/picture-picker/internal/imagemeta"
	"github.com/petermazzocco/picture-picker/internal/objectstore"
	"github.com/petermazzocco/picture-picker/models"
)

const (
	maxUploadMemory = 32 << 20
	maxPhotoSize    = 25 << 20

	// MaxBatchFiles and MaxBatchSize bound one upload request. Every file of
	// a batch is held in memory until the whole batch has been inspected.
	MaxBatchFiles = 20
	MaxBatchSize  = 100 << 20
)

type upload struct {
	filename    string
	contentType string
	data        []byte
	meta        imagemeta.Metadata
}

// UploadPhotos handles POST /api/albums/{id}/photos
func (h *Handler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	albumID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	album, err := h.store.FindAlbum(r.Context(), albumID)
	if err != nil {
		h.fail(w, r, err, "failed to load album")
		return
	}
	if !album.CanAccess(uid) {
		errorResponse(w, http.StatusForbidden, "you do not have access to this album")
		return
	}

	// Parse multipart form
	r.Body = http.MaxBytesReader(w, r.Body, MaxBatchSize)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds the %d MB limit", MaxBatchSize>>20))
			return
		}
		errorResponse(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		errorResponse(w, http.StatusBadRequest, "no files uploaded")
		return
	}
	if len(headers) > MaxBatchFiles {
		errorResponse(w, http.StatusBadRequest, fmt.Sprintf("at most %d files per upload", MaxBatchFiles))
		return
	}

	// Read and inspect every file before storing any of them
	uploads := make([]upload, 0, len(headers))
	for _, header := range headers {
		u, err := h.readUpload(header)
		if err != nil {
			if errors.Is(err, imagemeta.ErrNotImage) {
				errorResponse(w, http.StatusBadRequest, fmt.Sprintf("%s is not a supported image", header.Filename))
				return
			}
			errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		uploads = append(uploads, u)
	}

	views := make([]PhotoView, 0, len(uploads))
	for _, u := range uploads {
		photo, err := h.storePhoto(r, album, uid, u)
		if err != nil {
			h.fail(w, r, err, "failed to store photo")
			return
		}
		views = append(views, newPhotoView(photo, uid))
	}

	h.logger.Info("photos uploaded", "album_id", album.ID, "user_id", uid, "count", len(views))
	jsonResponse(w, http.StatusCreated, views)
}

func (h *Handler) readUpload(header *multipart.FileHeader) (upload, error) {
	if header.Size > maxPhotoSize {
		return upload{}, fmt.Errorf("%s exceeds the %d MB limit", header.Filename, maxPhotoSize>>20)
	}

	file, err := header.Open()
	if err != nil {
		return upload{}, fmt.Errorf("opening %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return upload{}, fmt.Errorf("reading %s: %w", header.Filename, err)
	}

	meta, err := h.extractor.Extract(data)
	if err != nil {
		return upload{}, err
	}

	return upload{
		filename:    header.Filename,
		contentType: contentType(header.Header.Get("Content-Type"), meta.Type),
		data:        data,
		meta:        meta,
	}, nil
}

// storePhoto writes the bytes to the object store and records the photo. The
// object is removed again if the database insert fails.
func (h *Handler) storePhoto(r *http.Request, album *models.Album, uid uint, u upload) (*models.Photo, error) {
	key := objectstore.ObjectName(album.ID, u.filename)
	url, err := h.objects.Put(r.Context(), key, bytes.NewReader(u.data), int64(len(u.data)), u.contentType)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", key, err)
	}

	photo := &models.Photo{
		AlbumID:     album.ID,
		CreatorID:   uid,
		Title:       title(u.filename),
		ObjectName:  key,
		URL:         url,
		MimeType:    u.contentType,
		Width:       u.meta.Width,
		Height:      u.meta.Height,
		CaptureDate: u.meta.CaptureDate,
	}
	if err := h.store.CreatePhoto(r.Context(), photo); err != nil {
		if delErr := h.objects.Delete(r.Context(), key); delErr != nil {
			h.logger.Warn("failed to remove orphaned object", "error", delErr, "key", key)
		}
		return nil, err
	}
	return photo, nil
}

func contentType(declared, imageType string) string {
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	if imageType != "" {
		return "image/" + imageType
	}
	return "application/octet-stream"
}

// title is the filename without directory or extension.
func title(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
