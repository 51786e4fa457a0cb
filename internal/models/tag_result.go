package models

// TagResult is the outcome of classifying one photo: a caption, the dominant
// emotion, the full detected emotion list with per-emotion emojis, and a
// confidence for the primary emotion in [0,1].
type TagResult struct {
	Caption        string            `json:"caption"`
	PrimaryEmotion string            `json:"emotion"`
	Emotions       []string          `json:"emotions"`
	EmotionEmojis  map[string]string `json:"emotion_emojis"`
	Confidence     float64           `json:"emotion_confidence"`
}

// FallbackTagResult is returned whenever classification fails for any reason,
// so a photo never ends up with a half-filled tag.
func FallbackTagResult() *TagResult {
	return &TagResult{
		Caption:        "a photo",
		PrimaryEmotion: "neutral",
		Emotions:       []string{"neutral"},
		EmotionEmojis:  map[string]string{"neutral": DefaultEmoji},
		Confidence:     0.5,
	}
}
