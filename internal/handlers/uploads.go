package handlers

import (
	"errors"
	"image"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	applog "backbar/internal/log"
)

const (
	maxImageUploadSize = 8 << 20 // 8 MiB
	thumbnailSize      = 256
)

var (
	uploadDir     string
	uploadBaseURL = "/uploads"
)

// ConfigureUploads sets where ingredient images are written and the URL
// prefix they are served under. An empty dir disables uploads.
func ConfigureUploads(dir, baseURL string) {
	uploadDir = dir
	if baseURL = strings.TrimRight(baseURL, "/"); baseURL != "" {
		uploadBaseURL = baseURL
	}
}

type uploadResponse struct {
	FileURL      string `json:"file_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// UploadImage stores an ingredient or recipe photo with a square thumbnail.
func UploadImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if uploadDir == "" {
		writeJSONError(w, http.StatusServiceUnavailable, "uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			writeJSONError(w, http.StatusBadRequest, "file is required")
			return
		}
		applog.Debug(r.Context(), "failed to read image upload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "Upload is too large or invalid.")
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		applog.Debug(r.Context(), "rejected image upload", "error", err)
		writeJSONError(w, http.StatusUnsupportedMediaType, "file is not a supported image")
		return
	}

	name := uuid.NewString()
	response, err := saveImage(name, img)
	if err != nil {
		applog.Error(r.Context(), "failed to store image upload", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to store image")
		return
	}
	applog.Info(r.Context(), "image uploaded", "file", response.FileURL)
	writeJSON(w, http.StatusCreated, response)
}

func saveImage(name string, img image.Image) (uploadResponse, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return uploadResponse{}, err
	}
	original := name + ".jpg"
	thumb := name + "_thumb.jpg"
	if err := imaging.Save(img, filepath.Join(uploadDir, original), imaging.JPEGQuality(85)); err != nil {
		return uploadResponse{}, err
	}
	thumbnail := imaging.Thumbnail(img, thumbnailSize, thumbnailSize, imaging.Lanczos)
	if err := imaging.Save(thumbnail, filepath.Join(uploadDir, thumb), imaging.JPEGQuality(80)); err != nil {
		return uploadResponse{}, err
	}
	return uploadResponse{
		FileURL:      path.Join(uploadBaseURL, original),
		ThumbnailURL: path.Join(uploadBaseURL, thumb),
	}, nil
}
