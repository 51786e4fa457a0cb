// Package upload implements the photo upload service: accepting images,
// listing and deleting a user's photos, serving stored files and triggering
// emotion tagging in the background.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"memorybank/internal/database"
	"memorybank/internal/httpx"
	"memorybank/internal/models"
	"memorybank/internal/storage"
	"memorybank/internal/tagging"
)

const ServiceName = "upload-service"

type App struct {
	Storage       storage.Storage
	Photos        *database.PhotoRepository
	Usage         *database.UsageRepository
	Tagger        tagging.Dispatcher
	MaxUploadSize int64
}

func (app *App) UploadPhotoHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		httpx.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}
	app.Usage.Record(r.Context(), ServiceName, "POST /photos", userID)

	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)
	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		httpx.Error(w, http.StatusBadRequest, "File too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		httpx.Error(w, http.StatusBadRequest, "File must be an image")
		return
	}

	key, err := app.Storage.SaveFile(file, storage.FileInfo{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	})
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, fmt.Sprintf("Error uploading photo: %v", err))
		return
	}

	relativePath := "uploads/" + key
	photo, err := app.Photos.Insert(r.Context(), userID, relativePath, time.Now())
	if err != nil {
		app.Storage.DeleteFile(key)
		httpx.Error(w, http.StatusInternalServerError, fmt.Sprintf("Error uploading photo: %v", err))
		return
	}

	// Fire and forget: the uploader never waits for tagging, and a failed
	// attempt is logged but not retried.
	go app.dispatchTagging(photo.ID, relativePath)

	httpx.JSON(w, http.StatusOK, photo)
}

func (app *App) dispatchTagging(photoID int64, filePath string) {
	if app.Tagger == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	log.Printf("Calling emotion service for photo %d", photoID)
	if err := app.Tagger.TagPhoto(ctx, photoID, filePath); err != nil {
		log.Printf("Error calling emotion service for photo %d: %v", photoID, err)
		return
	}
	log.Printf("Successfully tagged photo %d", photoID)
}

func (app *App) ListPhotosHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		httpx.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}
	app.Usage.Record(r.Context(), ServiceName, "GET /photos", userID)

	photos, err := app.Photos.ListByUser(r.Context(), userID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, fmt.Sprintf("Error fetching photos: %v", err))
		return
	}
	if photos == nil {
		photos = []models.Photo{}
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"photos": photos})
}

func (app *App) DeletePhotoHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		httpx.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}
	photoID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid photo id")
		return
	}
	app.Usage.Record(r.Context(), ServiceName, fmt.Sprintf("DELETE /photos/%d", photoID), userID)

	photo, err := app.Photos.GetOwned(r.Context(), photoID, userID)
	if errors.Is(err, database.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "Photo not found or access denied")
		return
	}
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, fmt.Sprintf("Error deleting photo: %v", err))
		return
	}

	if err := app.Photos.Delete(r.Context(), photoID, userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Photo not found or access denied")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, fmt.Sprintf("Error deleting photo: %v", err))
		return
	}

	// Best-effort file removal. The record is already gone.
	key := filepath.Base(photo.FilePath)
	if err := app.Storage.DeleteFile(key); err != nil {
		log.Printf("Warning: Could not delete file %s: %v", key, err)
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":  "Photo deleted successfully",
		"photo_id": photoID,
	})
}

type emotionWithEmoji struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

func (app *App) EmotionsHandler(w http.ResponseWriter, r *http.Request) {
	app.Usage.Record(r.Context(), ServiceName, "GET /emotions", "")

	emotions, err := app.Photos.DistinctEmotions(r.Context())
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, fmt.Sprintf("Error fetching emotions: %v", err))
		return
	}
	if emotions == nil {
		emotions = []string{}
	}

	withEmoji := make([]emotionWithEmoji, 0, len(emotions))
	for _, emotion := range emotions {
		withEmoji = append(withEmoji, emotionWithEmoji{
			Name:  emotion,
			Emoji: models.EmojiFor(emotion),
		})
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"emotions":            emotions,
		"emotions_with_emoji": withEmoji,
		"emoji_map":           models.EmojiMap,
	})
}

func (app *App) ServeImageHandler(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	file, err := app.Storage.OpenFile(key)
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "Image not found")
		return
	}
	defer file.Close()

	mimeType := mime.TypeByExtension(filepath.Ext(key))
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	w.Header().Set("Content-Type", mimeType)

	if statter, ok := file.(interface{ Stat() (os.FileInfo, error) }); ok {
		if stat, err := statter.Stat(); err == nil {
			// ServeContent handles Range requests automatically.
			http.ServeContent(w, r, key, stat.ModTime(), file)
			return
		}
	}
	io.Copy(w, file)
}
