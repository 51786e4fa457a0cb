package models

import "strings"

// DefaultEmoji is used for any emotion without a known mapping.
const DefaultEmoji = "😐"

// EmojiMap is the static emotion-to-emoji lookup used by the distinct-emotion
// listing. The classifier supplies its own emojis per photo; this table only
// covers emotions surfaced without one.
var EmojiMap = map[string]string{
	"happy":        "😊",
	"sad":          "😢",
	"calm":         "😌",
	"stressed":     "😰",
	"excited":      "🎉",
	"neutral":      "😐",
	"angry":        "😠",
	"anxious":      "😟",
	"content":      "😊",
	"disappointed": "😞",
	"energetic":    "⚡",
	"frustrated":   "😤",
	"grateful":     "🙏",
	"joyful":       "😄",
	"lonely":       "😔",
	"peaceful":     "☮️",
	"proud":        "😎",
	"relaxed":      "😌",
	"surprised":    "😲",
	"tired":        "😴",
	"worried":      "😟",
}

// EmojiFor returns the emoji for an emotion name, case-insensitively.
func EmojiFor(emotion string) string {
	if emoji, ok := EmojiMap[strings.ToLower(emotion)]; ok {
		return emoji
	}
	return DefaultEmoji
}
