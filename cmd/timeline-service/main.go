package main

import (
	"log"
	"net/http"

	"memorybank/internal/config"
	"memorybank/internal/database"
	"memorybank/internal/timeline"
)

func main() {
	port := config.Port("8004")

	db, err := database.NewDB(config.DBConfig())
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	migrationsPath := config.MigrationsPath()
	log.Printf("Running database migrations from %s", migrationsPath)
	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	app := &timeline.App{
		Photos: database.NewPhotoRepository(db),
		Usage:  database.NewUsageRepository(db),
	}

	router := timeline.NewRouter(app, config.CORSOrigins())

	log.Printf("Timeline service starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}
