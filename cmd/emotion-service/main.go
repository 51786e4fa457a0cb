package main

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"memorybank/internal/ai"
	"memorybank/internal/config"
	"memorybank/internal/database"
	"memorybank/internal/emotion"
)

func main() {
	port := config.Port("8002")

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

	aiConfig := ai.NewConfig()
	aiConfig.OpenAIAPIKey = config.Getenv("OPENAI_API_KEY", "")
	if raw := config.Getenv("MAX_IMAGE_SIZE", ""); raw != "" {
		if maxSize, err := strconv.Atoi(raw); err == nil {
			aiConfig.MaxImageSize = maxSize
		}
	}

	var classifier ai.EmotionClassifier
	if aiConfig.OpenAIAPIKey != "" {
		classifier = ai.NewOpenAIClient(aiConfig)
		log.Printf("OpenAI classifier initialized")
	} else {
		log.Printf("Warning: OPENAI_API_KEY not set, emotion tagging will fail until it is")
	}

	uploadURLs := strings.Split(
		config.Getenv("UPLOAD_SERVICE_URLS", "http://upload-service:8001,http://localhost:8001"), ",")
	for i := range uploadURLs {
		uploadURLs[i] = strings.TrimSpace(uploadURLs[i])
	}

	app := &emotion.App{
		Classifier:     classifier,
		Photos:         database.NewPhotoRepository(db),
		Usage:          database.NewUsageRepository(db),
		UploadDir:      config.UploadDir(),
		UploadBaseURLs: uploadURLs,
		FetchTimeout:   10 * time.Second,
	}

	router := emotion.NewRouter(app, config.CORSOrigins())

	log.Printf("Emotion service starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}
