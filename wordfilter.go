// this file implements the comment word filter
package main

import (
	"os"
	"strings"
)

// defaultBannedWords is intentionally short; stations override it with the
// BANNED_WORDS env var (comma separated).
var defaultBannedWords = []string{"badword1", "badword2", "badword3"}

func loadBannedWords() []string {
	raw := os.Getenv("BANNED_WORDS")
	if raw == "" {
		return defaultBannedWords
	}
	words := make([]string, 0)
	for _, w := range strings.Split(raw, ",") {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return defaultBannedWords
	}
	return words
}

func containsOffensive(words []string, text string) bool {
	text = strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
