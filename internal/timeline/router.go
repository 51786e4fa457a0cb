package timeline

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
	r.Get("/timeline", app.TimelineHandler)

	return r
}
