// Package config assembles service configuration from environment variables
// with hard-coded defaults, the same way each binary would otherwise do it
// inline in main.
package config

import (
	"log"
	"os"
	"strconv"

	"memorybank/internal/database"
)

// Getenv returns the value of key, or def when unset or empty.
func Getenv(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

// Port returns the PORT env var, falling back to the service's default.
func Port(def string) string {
	return Getenv("PORT", def)
}

// DBConfig builds the database configuration. DB_TYPE selects sqlite
// (development default) or postgres (production).
func DBConfig() database.Config {
	dbType := Getenv("DB_TYPE", "sqlite")

	cfg := database.Config{Type: dbType}
	if dbType == "postgres" {
		cfg.Host = Getenv("DB_HOST", "localhost")
		port, err := strconv.Atoi(Getenv("DB_PORT", "5432"))
		if err != nil {
			log.Fatal("Invalid DB_PORT:", err)
		}
		cfg.Port = port
		cfg.User = Getenv("DB_USER", "user")
		cfg.Password = Getenv("DB_PASSWORD", "pass")
		cfg.Name = Getenv("DB_NAME", "memorybank")
	} else {
		cfg.SQLitePath = Getenv("DB_PATH", "./memorybank.db")
	}
	return cfg
}

// MigrationsPath returns the directory holding the per-dialect migration
// files.
func MigrationsPath() string {
	return Getenv("MIGRATIONS_PATH", "./migrations")
}

// UploadDir returns the blob root shared by the upload and emotion services.
func UploadDir() string {
	return Getenv("UPLOAD_DIR", "./uploads")
}

// CORSOrigins returns the allowed cross-origin list.
func CORSOrigins() string {
	return Getenv("CORS_ORIGINS", "*")
}
