package main

import (
	"log"
	"net/http"
	"strconv"

	"memorybank/internal/config"
	"memorybank/internal/database"
	"memorybank/internal/storage"
	"memorybank/internal/tagging"
	"memorybank/internal/upload"
)

func main() {
	port := config.Port("8001")

	maxSize, err := strconv.ParseInt(config.Getenv("MAX_UPLOAD_SIZE", "10485760"), 10, 64)
	if err != nil {
		log.Fatal("Invalid MAX_UPLOAD_SIZE:", err)
	}

	uploadDir := config.UploadDir()
	localStorage, err := storage.NewLocalStorage(uploadDir)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}

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

	emotionServiceURL := config.Getenv("EMOTION_SERVICE_URL", "http://localhost:8002")

	app := &upload.App{
		Storage:       localStorage,
		Photos:        database.NewPhotoRepository(db),
		Usage:         database.NewUsageRepository(db),
		Tagger:        tagging.NewClient(emotionServiceURL),
		MaxUploadSize: maxSize,
	}

	router := upload.NewRouter(app, config.CORSOrigins())

	log.Printf("Upload service starting on port %s", port)
	log.Printf("Upload directory: %s", uploadDir)
	log.Printf("Emotion service URL: %s", emotionServiceURL)
	log.Printf("Max upload size: %d bytes", maxSize)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}
