// Package timeline implements the emotional timeline service: a user's
// tagged photos bucketed by day, week or month with per-emotion counts.
package timeline

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"memorybank/internal/database"
	"memorybank/internal/httpx"
)

const ServiceName = "timeline-service"

type App struct {
	Photos *database.PhotoRepository
	Usage  *database.UsageRepository
}

type dataPoint struct {
	Period   string         `json:"period"`
	Emotions map[string]int `json:"emotions"`
}

func (app *App) TimelineHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	app.Usage.Record(r.Context(), ServiceName, "GET /timeline", userID)

	if userID == "" {
		httpx.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	bucket := r.URL.Query().Get("bucket")
	if bucket == "" {
		bucket = "month"
	}
	if bucket != "month" && bucket != "week" && bucket != "day" {
		httpx.Error(w, http.StatusBadRequest, "bucket must be 'month', 'week', or 'day'")
		return
	}

	photos, err := app.Photos.ListTagged(r.Context(), userID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, fmt.Sprintf("Error fetching timeline: %v", err))
		return
	}

	periods := make(map[string]map[string]int)
	for _, photo := range photos {
		period := formatPeriod(photo.UploadedAt, bucket)
		if periods[period] == nil {
			periods[period] = make(map[string]int)
		}

		emotions := photo.Emotions
		if len(emotions) == 0 && photo.Emotion != "" {
			emotions = []string{photo.Emotion}
		}
		if len(emotions) == 0 {
			emotions = []string{"neutral"}
		}

		for _, emotion := range emotions {
			emotion = strings.ToLower(strings.TrimSpace(emotion))
			if emotion == "" {
				emotion = "neutral"
			}
			periods[period][emotion]++
		}
	}

	keys := make([]string, 0, len(periods))
	for period := range periods {
		keys = append(keys, period)
	}
	sort.Strings(keys)

	data := make([]dataPoint, 0, len(keys))
	for _, period := range keys {
		data = append(data, dataPoint{Period: period, Emotions: periods[period]})
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"data":    data,
	})
}

// formatPeriod renders the bucket key: "2026-08" for month, ISO week
// "2026-W35" for week, "2026-08-28" for day.
func formatPeriod(t time.Time, bucket string) string {
	switch bucket {
	case "week":
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case "day":
		return t.Format("2006-01-02")
	default:
		return t.Format("2006-01")
	}
}
