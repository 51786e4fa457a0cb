// Package emotion implements the tagging service: it locates an uploaded
// photo, runs the vision classifier over it and writes the result back onto
// the photo record.
package emotion

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"memorybank/internal/ai"
	"memorybank/internal/database"
	"memorybank/internal/httpx"
	"memorybank/internal/models"
)

const ServiceName = "emotion-service"

type App struct {
	Classifier ai.EmotionClassifier
	Photos     *database.PhotoRepository
	Usage      *database.UsageRepository

	// UploadDir is the primary blob root; files not found locally are
	// fetched from the upload service over HTTP, trying UploadBaseURLs in
	// order with FetchTimeout per attempt.
	UploadDir      string
	UploadBaseURLs []string
	FetchTimeout   time.Duration
}

type tagPhotoRequest struct {
	PhotoID  int64  `json:"photo_id"`
	FilePath string `json:"file_path"`
}

func (app *App) TagPhotoHandler(w http.ResponseWriter, r *http.Request) {
	app.Usage.Record(r.Context(), ServiceName, "POST /tag-photo", "")

	var req tagPhotoRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	log.Printf("Processing photo_id=%d, file_path=%s", req.PhotoID, req.FilePath)

	if app.Classifier == nil {
		httpx.Error(w, http.StatusInternalServerError, "Emotion classifier not configured. Check API key and service logs.")
		return
	}

	path, err := app.resolveFile(r.Context(), req.FilePath)
	if err != nil {
		log.Printf("Could not locate photo file: %v", err)
		httpx.Error(w, http.StatusNotFound, fmt.Sprintf("Photo file not found: %s", req.FilePath))
		return
	}

	imageData, err := os.ReadFile(path)
	if err != nil {
		httpx.Error(w, http.StatusNotFound, fmt.Sprintf("Photo file not found: %s", req.FilePath))
		return
	}

	result, err := app.Classifier.Classify(r.Context(), imageData)
	if err != nil {
		// Classifier failures degrade to the fixed fallback tag rather
		// than surfacing.
		log.Printf("Error analyzing image for photo %d: %v", req.PhotoID, err)
		result = models.FallbackTagResult()
	}

	if err := app.Photos.UpdateTagResult(r.Context(), req.PhotoID, result); err != nil {
		httpx.Error(w, http.StatusInternalServerError, fmt.Sprintf("Error updating photo in database: %v", err))
		return
	}

	httpx.JSON(w, http.StatusOK, result)
}

// resolveFile tries the path under the local blob roots first, then falls
// back to fetching the file from the upload service.
func (app *App) resolveFile(ctx context.Context, filePath string) (string, error) {
	trimmed := strings.TrimLeft(filePath, "/")
	filename := filepath.Base(trimmed)

	candidates := []string{
		filepath.Join(app.UploadDir, filename),
		trimmed,
		filePath,
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			log.Printf("Found file at: %s", candidate)
			return candidate, nil
		}
	}

	return app.fetchFromUploadService(ctx, trimmed, filename)
}

func (app *App) fetchFromUploadService(ctx context.Context, urlPath, filename string) (string, error) {
	timeout := app.FetchTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	for _, base := range app.UploadBaseURLs {
		url := strings.TrimRight(base, "/") + "/" + urlPath
		log.Printf("Attempting to download from: %s", url)

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			continue
		}
		resp, err := client.Do(req)
		if err != nil {
			log.Printf("Failed to connect to %s: %v", url, err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			continue
		}

		if err := os.MkdirAll(app.UploadDir, 0755); err != nil {
			resp.Body.Close()
			return "", fmt.Errorf("failed to create upload directory: %w", err)
		}
		tempPath := filepath.Join(app.UploadDir, "temp_"+filename)
		dst, err := os.Create(tempPath)
		if err != nil {
			resp.Body.Close()
			return "", fmt.Errorf("failed to create temp file: %w", err)
		}
		_, copyErr := io.Copy(dst, resp.Body)
		resp.Body.Close()
		dst.Close()
		if copyErr != nil {
			os.Remove(tempPath)
			return "", fmt.Errorf("failed to save downloaded file: %w", copyErr)
		}

		log.Printf("Downloaded file from upload service to: %s", tempPath)
		return tempPath, nil
	}

	return "", fmt.Errorf("could not download file from upload service (tried %v)", app.UploadBaseURLs)
}

// HealthHandler reports degraded when no classifier is configured, so the
// upload pipeline's silent tagging failures are at least visible here.
func (app *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if app.Classifier == nil {
		status = "degraded"
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":             status,
		"service":            ServiceName,
		"openai_initialized": app.Classifier != nil,
	})
}
