// Package httpx holds the response helpers and middleware shared by every
// service binary.
package httpx

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// Error writes an error response in the {"detail": ...} shape all services
// use.
func Error(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, map[string]string{"detail": detail})
}

// Health returns the standard health handler for a service.
func Health(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": service,
		})
	}
}

// CORS builds the cross-origin middleware from a comma-separated origin list
// ("*" allows everything).
func CORS(origins string) func(http.Handler) http.Handler {
	allowed := []string{"*"}
	if origins != "" && origins != "*" {
		allowed = strings.Split(origins, ",")
		for i := range allowed {
			allowed[i] = strings.TrimSpace(allowed[i])
		}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
}
