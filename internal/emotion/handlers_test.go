package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"memorybank/internal/database"
	"memorybank/internal/models"
)

type fakeClassifier struct {
	result    *models.TagResult
	err       error
	lastImage []byte
}

func (f *fakeClassifier) Classify(ctx context.Context, imageData []byte) (*models.TagResult, error) {
	f.lastImage = imageData
	return f.result, f.err
}

func setupTestApp(t *testing.T) (*App, *database.PhotoRepository) {
	t.Helper()

	db, err := database.NewDB(database.Config{
		Type:       "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	photos := database.NewPhotoRepository(db)
	app := &App{
		Photos:       photos,
		Usage:        database.NewUsageRepository(db),
		UploadDir:    t.TempDir(),
		FetchTimeout: 2 * time.Second,
	}
	return app, photos
}

func postTagPhoto(t *testing.T, handler http.Handler, photoID int64, filePath string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]any{"photo_id": photoID, "file_path": filePath})
	req := httptest.NewRequest("POST", "/tag-photo", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestTagPhoto_LocalFile(t *testing.T) {
	app, photos := setupTestApp(t)
	app.Classifier = &fakeClassifier{result: &models.TagResult{
		Caption:        "a quiet sunset over the bay",
		PrimaryEmotion: "peaceful",
		Emotions:       []string{"peaceful", "nostalgic"},
		EmotionEmojis:  map[string]string{"peaceful": "☮️", "nostalgic": "📷"},
		Confidence:     0.9,
	}}
	router := NewRouter(app, "*")

	imageBytes := []byte("jpeg bytes")
	if err := os.WriteFile(filepath.Join(app.UploadDir, "sunset.jpg"), imageBytes, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	photo, err := photos.Insert(context.Background(), "alice", "uploads/sunset.jpg", time.Now())
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	rec := postTagPhoto(t, router, photo.ID, "uploads/sunset.jpg")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result models.TagResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.PrimaryEmotion != "peaceful" || result.Confidence != 0.9 {
		t.Errorf("Unexpected result: %+v", result)
	}

	classifier := app.Classifier.(*fakeClassifier)
	if !bytes.Equal(classifier.lastImage, imageBytes) {
		t.Error("Classifier did not receive the file contents")
	}

	updated, err := photos.GetOwned(context.Background(), photo.ID, "alice")
	if err != nil {
		t.Fatalf("GetOwned: %v", err)
	}
	if updated.Caption == nil || *updated.Caption != "a quiet sunset over the bay" {
		t.Errorf("Caption not persisted: %+v", updated.Caption)
	}
	if updated.Emotion == nil || *updated.Emotion != "peaceful" {
		t.Errorf("Emotion not persisted: %+v", updated.Emotion)
	}
	if len(updated.Emotions) != 2 || updated.Emotions[1] != "nostalgic" {
		t.Errorf("Emotion list not persisted: %v", updated.Emotions)
	}
}

func TestTagPhoto_FetchesFromUploadService(t *testing.T) {
	app, photos := setupTestApp(t)
	app.Classifier = &fakeClassifier{result: models.FallbackTagResult()}

	imageBytes := []byte("remote image bytes")
	uploadService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/uploads/remote.jpg" {
			w.Write(imageBytes)
			return
		}
		http.NotFound(w, r)
	}))
	defer uploadService.Close()
	app.UploadBaseURLs = []string{"http://127.0.0.1:1", uploadService.URL}

	photo, err := photos.Insert(context.Background(), "alice", "uploads/remote.jpg", time.Now())
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	rec := postTagPhoto(t, NewRouter(app, "*"), photo.ID, "uploads/remote.jpg")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Unreachable hosts are skipped and the download lands next to the
	// local files under a temp_ prefix.
	saved, err := os.ReadFile(filepath.Join(app.UploadDir, "temp_remote.jpg"))
	if err != nil {
		t.Fatalf("Expected downloaded copy: %v", err)
	}
	if !bytes.Equal(saved, imageBytes) {
		t.Error("Downloaded copy does not match served bytes")
	}
}

func TestTagPhoto_FileNotFound(t *testing.T) {
	app, _ := setupTestApp(t)
	app.Classifier = &fakeClassifier{result: models.FallbackTagResult()}

	rec := postTagPhoto(t, NewRouter(app, "*"), 42, "uploads/missing.jpg")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Detail != "Photo file not found: uploads/missing.jpg" {
		t.Errorf("Unexpected detail: %q", body.Detail)
	}
}

func TestTagPhoto_ClassifierErrorFallsBack(t *testing.T) {
	app, photos := setupTestApp(t)
	app.Classifier = &fakeClassifier{err: errors.New("rate limited")}
	router := NewRouter(app, "*")

	if err := os.WriteFile(filepath.Join(app.UploadDir, "broken.jpg"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	photo, err := photos.Insert(context.Background(), "alice", "uploads/broken.jpg", time.Now())
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	rec := postTagPhoto(t, router, photo.ID, "uploads/broken.jpg")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	updated, err := photos.GetOwned(context.Background(), photo.ID, "alice")
	if err != nil {
		t.Fatalf("GetOwned: %v", err)
	}
	if updated.Caption == nil || *updated.Caption != "a photo" {
		t.Errorf("Expected fallback caption, got %+v", updated.Caption)
	}
	if updated.Emotion == nil || *updated.Emotion != "neutral" {
		t.Errorf("Expected fallback emotion, got %+v", updated.Emotion)
	}
	if updated.EmotionConfidence == nil || *updated.EmotionConfidence != 0.5 {
		t.Errorf("Expected fallback confidence, got %+v", updated.EmotionConfidence)
	}
}

func TestTagPhoto_NoClassifier(t *testing.T) {
	app, _ := setupTestApp(t)

	rec := postTagPhoto(t, NewRouter(app, "*"), 1, "uploads/a.jpg")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
}

func TestHealth_ReportsClassifierState(t *testing.T) {
	app, _ := setupTestApp(t)
	router := NewRouter(app, "*")

	check := func(wantStatus string, wantInitialized bool) {
		t.Helper()
		req := httptest.NewRequest("GET", "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var body struct {
			Status            string `json:"status"`
			OpenAIInitialized bool   `json:"openai_initialized"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if body.Status != wantStatus || body.OpenAIInitialized != wantInitialized {
			t.Errorf("Got status=%q initialized=%v, want %q/%v",
				body.Status, body.OpenAIInitialized, wantStatus, wantInitialized)
		}
	}

	check("degraded", false)
	app.Classifier = &fakeClassifier{result: models.FallbackTagResult()}
	check("healthy", true)
}
