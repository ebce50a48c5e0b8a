// File: internal/handlers/upload_handler.go
package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bookmyseva/backend/internal/services/storage"
)

const maxUploadBytes = 10 << 20 // 10MB

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/gif":       true,
	"application/pdf": true,
	"audio/mpeg":      true,
}

// UploadHandler stores files in the object bucket and returns their
// public URL. Keys are date-prefixed uuids so filenames never collide.
type UploadHandler struct {
	Storage storage.Provider
}

func NewUploadHandler(provider storage.Provider) *UploadHandler {
	return &UploadHandler{Storage: provider}
}

// Upload handles POST /upload with a multipart "file" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "file too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		respondError(w, http.StatusUnsupportedMediaType, "unsupported file type")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("uploads/%s/%s%s", time.Now().Format("2006/01"), uuid.New().String(), ext)

	result, err := h.Storage.Upload(r.Context(), key, file, header.Size, contentType)
	if err != nil {
		log.Printf("[UploadHandler] Upload failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not store file")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}
