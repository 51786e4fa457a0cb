// Package admin implements the usage analytics service.
package admin

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"memorybank/internal/database"
	"memorybank/internal/httpx"
)

const ServiceName = "admin-service"

type App struct {
	Usage *database.UsageRepository
}

func (app *App) UsageHandler(w http.ResponseWriter, r *http.Request) {
	app.Usage.Record(r.Context(), ServiceName, "GET /admin/usage", "")

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = parsed
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	summary, err := app.Usage.Summary(r.Context(), start, end)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, fmt.Sprintf("Error fetching usage stats: %v", err))
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"summary":      summary,
		"period_start": start.Format(time.RFC3339),
		"period_end":   end.Format(time.RFC3339),
	})
}
