// Package search implements the photo search service: conjunctive filtering
// of photo records by user, emotion and date range.
package search

import (
	"fmt"
	"net/http"
	"time"

	"memorybank/internal/database"
	"memorybank/internal/httpx"
	"memorybank/internal/models"
)

const ServiceName = "search-service"

type App struct {
	Photos *database.PhotoRepository
	Usage  *database.UsageRepository
}

type photoResult struct {
	PhotoID           int64             `json:"photo_id"`
	Emotion           string            `json:"emotion"`
	Emotions          []string          `json:"emotions,omitempty"`
	EmotionEmojis     map[string]string `json:"emotion_emojis,omitempty"`
	Caption           *string           `json:"caption"`
	FilePath          string            `json:"file_path"`
	UploadedAt        string            `json:"uploaded_at"`
	EmotionConfidence *float64          `json:"emotion_confidence"`
}

func (app *App) SearchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	app.Usage.Record(r.Context(), ServiceName, "GET /search", query.Get("user_id"))

	filter := database.SearchFilter{
		UserID:  query.Get("user_id"),
		Emotion: query.Get("emotion"),
	}

	if raw := query.Get("from_date"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "Invalid from_date format. Use YYYY-MM-DD")
			return
		}
		filter.From = &from
	}
	if raw := query.Get("to_date"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "Invalid to_date format. Use YYYY-MM-DD")
			return
		}
		// Date filters are inclusive: extend to the end of the day.
		to = to.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		filter.To = &to
	}

	photos, err := app.Photos.Search(r.Context(), filter)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, fmt.Sprintf("Error searching photos: %v", err))
		return
	}

	results := make([]photoResult, 0, len(photos))
	for _, photo := range photos {
		results = append(results, toResult(photo))
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"results": results})
}

func toResult(photo models.Photo) photoResult {
	emotion := "neutral"
	if photo.Emotion != nil && *photo.Emotion != "" {
		emotion = *photo.Emotion
	}
	result := photoResult{
		PhotoID:           photo.ID,
		Emotion:           emotion,
		Caption:           photo.Caption,
		FilePath:          photo.FilePath,
		UploadedAt:        photo.UploadedAt.Format(time.RFC3339),
		EmotionConfidence: photo.EmotionConfidence,
	}
	if len(photo.Emotions) > 0 {
		result.Emotions = photo.Emotions
	}
	if len(photo.EmotionEmojis) > 0 {
		result.EmotionEmojis = photo.EmotionEmojis
	}
	return result
}
