// Command retag re-runs emotion tagging for photos that never got tagged,
// going through the public service endpoints rather than the database.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"memorybank/internal/models"
)

func main() {
	var (
		uploadURL  = flag.String("upload-url", "http://localhost:8001", "Upload service base URL")
		emotionURL = flag.String("emotion-url", "http://localhost:8002", "Emotion service base URL")
		userID     = flag.String("user", "default", "User whose photos to retag")
	)
	flag.Parse()

	listClient := &http.Client{Timeout: 10 * time.Second}
	// Tagging waits on the vision API, so each photo can take a while.
	tagClient := &http.Client{Timeout: 120 * time.Second}

	photos, err := fetchPhotos(listClient, *uploadURL, *userID)
	if err != nil {
		log.Fatal("Failed to fetch photos:", err)
	}
	fmt.Printf("Found %d total photos\n", len(photos))

	var untagged []models.Photo
	for _, photo := range photos {
		if photo.Emotion == nil || *photo.Emotion == "" {
			untagged = append(untagged, photo)
		}
	}
	fmt.Printf("Photos without emotions: %d\n", len(untagged))
	if len(untagged) == 0 {
		fmt.Println("All photos already have emotions")
		return
	}

	if err := checkEmotionService(listClient, *emotionURL); err != nil {
		log.Fatal(err)
	}

	success, failed := 0, 0
	for i, photo := range untagged {
		fmt.Printf("[%d/%d] Processing photo %d... ", i+1, len(untagged), photo.ID)

		result, err := tagPhoto(tagClient, *emotionURL, photo.ID, photo.FilePath)
		if err != nil {
			fmt.Printf("FAILED: %v\n", err)
			failed++
			continue
		}
		fmt.Printf("%s (confidence: %.2f)\n", result.PrimaryEmotion, result.Confidence)
		success++
	}

	fmt.Printf("\nDone: %d tagged, %d failed\n", success, failed)
}

func fetchPhotos(client *http.Client, baseURL, userID string) ([]models.Photo, error) {
	resp, err := client.Get(fmt.Sprintf("%s/photos?user_id=%s", baseURL, userID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload service returned status %d", resp.StatusCode)
	}

	var payload struct {
		Photos []models.Photo `json:"photos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Photos, nil
}

func checkEmotionService(client *http.Client, baseURL string) error {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return fmt.Errorf("emotion service not responding: %w", err)
	}
	defer resp.Body.Close()

	var health struct {
		Status            string `json:"status"`
		OpenAIInitialized bool   `json:"openai_initialized"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("failed to decode health response: %w", err)
	}
	if !health.OpenAIInitialized {
		fmt.Println("WARNING: classifier not initialized, tagging will fall back to neutral")
	}
	return nil
}

func tagPhoto(client *http.Client, baseURL string, photoID int64, filePath string) (*models.TagResult, error) {
	body, err := json.Marshal(map[string]any{
		"photo_id":  photoID,
		"file_path": filePath,
	})
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(baseURL+"/tag-photo", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var result models.TagResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
