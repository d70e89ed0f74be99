package service

import (
    "strings"
    "unicode/utf8"
)

// TweetMaxChars is the platform's length ceiling.
const TweetMaxChars = 280

// TruncateTweet cuts text down to limit characters, preferring a word boundary when
// one exists past the midpoint, and marks the cut with an ellipsis. The result is
// deterministic for a given input.
func TruncateTweet(text string, limit int) (string, bool) {
    if utf8.RuneCountInString(text) <= limit {
        return text, false
    }

    runes := []rune(text)
    cut := runes[:limit-1] // leave room for the ellipsis

    truncated := string(cut)
    if idx := strings.LastIndexByte(truncated, ' '); idx > limit/2 {
        truncated = truncated[:idx]
    }
    return strings.TrimRight(truncated, " ") + "…", true
}
