package upload

import (
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

	r.Get("/health", httpx.Health(ServiceName))
	r.Post("/photos", app.UploadPhotoHandler)
	r.Get("/photos", app.ListPhotosHandler)
	r.Delete("/photos/{id}", app.DeletePhotoHandler)
	r.Get("/emotions", app.EmotionsHandler)
	r.Get("/uploads/*", app.ServeImageHandler)

	return r
}
