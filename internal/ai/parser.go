package ai

import (
	"strconv"
	"strings"

	"memorybank/internal/models"
)

// ParseTagResponse scans the classifier's free-text reply for the five known
// field prefixes and builds a TagResult. Unrecognized lines are ignored and
// every field has a default, so a reply missing fields still yields a usable
// result rather than an error.
//
// Policies: emotions are comma-split, lower-cased and quote-trimmed; emojis
// pair positionally with emotions, padded with the default glyph when the
// model supplies too few; confidence is clamped to [0,1] and defaults to 0.5
// when unparseable; the primary emotion is inserted at the front of the list
// when the model left it out.
func ParseTagResponse(text string) *models.TagResult {
	caption := "a photo"
	primaryEmotion := "neutral"
	emotions := []string{"neutral"}
	confidence := 0.5
	var emojis []string
	haveEmojis := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "CAPTION:"):
			caption = strings.TrimSpace(strings.TrimPrefix(line, "CAPTION:"))
		case strings.HasPrefix(line, "EMOTIONS:"):
			parsed := splitList(strings.TrimPrefix(line, "EMOTIONS:"), true)
			if len(parsed) > 0 {
				emotions = parsed
			}
		case strings.HasPrefix(line, "EMOTION_EMOJIS:"):
			emojis = splitList(strings.TrimPrefix(line, "EMOTION_EMOJIS:"), false)
			haveEmojis = true
		case strings.HasPrefix(line, "PRIMARY_EMOTION:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "PRIMARY_EMOTION:"))
			primaryEmotion = strings.Trim(strings.ToLower(raw), `"'`)
		case strings.HasPrefix(line, "CONFIDENCE:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "CONFIDENCE:"))
			if value, err := strconv.ParseFloat(raw, 64); err == nil {
				confidence = clamp(value, 0.0, 1.0)
			} else {
				confidence = 0.5
			}
		}
	}

	// Pair emojis with emotions by index, short lists padded with the
	// default glyph.
	emotionEmojis := map[string]string{"neutral": models.DefaultEmoji}
	if haveEmojis {
		emotionEmojis = make(map[string]string, len(emotions))
		for i, emotion := range emotions {
			if i < len(emojis) {
				emotionEmojis[emotion] = emojis[i]
			} else {
				emotionEmojis[emotion] = models.DefaultEmoji
			}
		}
	}

	if len(emotions) == 1 && emotions[0] == "neutral" && primaryEmotion != "neutral" {
		emotions = []string{primaryEmotion}
	}
	if primaryEmotion != "neutral" && !contains(emotions, primaryEmotion) {
		emotions = append([]string{primaryEmotion}, emotions...)
	}
	for _, emotion := range emotions {
		if _, ok := emotionEmojis[emotion]; !ok {
			emotionEmojis[emotion] = models.DefaultEmoji
		}
	}

	return &models.TagResult{
		Caption:        caption,
		PrimaryEmotion: primaryEmotion,
		Emotions:       emotions,
		EmotionEmojis:  emotionEmojis,
		Confidence:     confidence,
	}
}

func splitList(raw string, lower bool) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if lower {
			item = strings.ToLower(item)
		}
		item = strings.Trim(item, `"'`)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
