package ai

import (
	"context"

	"memorybank/internal/models"
)

// EmotionClassifier turns an image into a caption plus emotion tags. The
// emotion service receives one via injection so tests can substitute a
// deterministic fake.
type EmotionClassifier interface {
	Classify(ctx context.Context, imageData []byte) (*models.TagResult, error)
}

type Config struct {
	OpenAIAPIKey string
	MaxImageSize int
}

func NewConfig() *Config {
	return &Config{
		MaxImageSize: 512,
	}
}
