package main

import (
	"log"
	"net/http"

	"memorybank/internal/admin"
	"memorybank/internal/config"
	"memorybank/internal/database"
)

func main() {
	port := config.Port("8005")

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

	app := &admin.App{
		Usage: database.NewUsageRepository(db),
	}

	router := admin.NewRouter(app, config.CORSOrigins())

	log.Printf("Admin service starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}
