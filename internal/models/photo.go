package models

import (
	"encoding/json"
	"time"
)

// Photo is one row of the photos table. Caption, Emotion and
// EmotionConfidence stay nil until the emotion service has tagged the photo.
type Photo struct {
	ID                int64             `json:"id"`
	UserID            string            `json:"user_id"`
	FilePath          string            `json:"file_path"`
	UploadedAt        time.Time         `json:"uploaded_at"`
	Caption           *string           `json:"caption"`
	Emotion           *string           `json:"emotion"`
	EmotionConfidence *float64          `json:"emotion_confidence"`
	Emotions          []string          `json:"emotions"`
	EmotionEmojis     map[string]string `json:"emotion_emojis"`
}

// DecodeEmotionLists fills Emotions and EmotionEmojis from their serialized
// column values. Older rows carry only the single emotion column, so a
// missing or unreadable emotions_json falls back to a one-element list built
// from it.
func (p *Photo) DecodeEmotionLists(emotionsJSON, emojisJSON string) {
	p.Emotions = nil
	if emotionsJSON != "" {
		if err := json.Unmarshal([]byte(emotionsJSON), &p.Emotions); err != nil {
			p.Emotions = nil
		}
	}
	if len(p.Emotions) == 0 && p.Emotion != nil && *p.Emotion != "" {
		p.Emotions = []string{*p.Emotion}
	}
	if p.Emotions == nil {
		p.Emotions = []string{}
	}

	p.EmotionEmojis = map[string]string{}
	if emojisJSON != "" {
		if err := json.Unmarshal([]byte(emojisJSON), &p.EmotionEmojis); err != nil {
			p.EmotionEmojis = map[string]string{}
		}
	}
}
