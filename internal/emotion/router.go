package emotion

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"memorybank/internal/httpx"
)

func NewRouter(app *App, corsOrigins string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(httpx.CORS(corsOrigins))

	r.Get("/health", app.HealthHandler)
	r.Post("/tag-photo", app.TagPhotoHandler)

	return r
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
