package generation

import (
    "fmt"
    "strings"
)

// Fallbacks used when the model's two-line answer cannot be parsed.
const (
    FallbackTweet       = "Check out our latest updates! #tech"
    FallbackImagePrompt = "A modern tech background with abstract nodes."
)

// BuildCampaignPrompt asks the model for exactly two lines: the tweet itself and an
// image prompt describing a visual for it. Parsing of the answer lives in
// ParseGenerated.
func BuildCampaignPrompt(goal, topic string) string {
    return fmt.Sprintf(`You are a social media manager.
Topic: %s
Campaign Goal: %s

Output exactly two lines:
Line 1: The tweet text (under 280 characters).
Line 2: A comprehensive image prompt to generate a visual for this tweet.
Do not add any labels like 'Tweet:' or 'Image Prompt:'. Just the content.`, topic, goal)
}

// BuildReplyPrompt asks for a single short reply to an inbound mention.
func BuildReplyPrompt(mentionText, authorUsername string) string {
    return fmt.Sprintf(`You are a friendly social media manager replying on behalf of the brand.
@%s mentioned us with: %q

Write a single short reply tweet (under 280 characters). Be helpful and on-topic.
Output only the reply text, no labels or quotes.`, authorUsername, mentionText)
}

// ParseGenerated splits the model answer into tweet text and image prompt. Models
// sometimes ignore the no-labels instruction, so known labels are stripped; missing
// or empty lines fall back to generic defaults.
func ParseGenerated(raw string) (tweetText, imagePrompt string) {
    lines := []string{}
    for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
        if trimmed := strings.TrimSpace(line); trimmed != "" {
            lines = append(lines, trimmed)
        }
    }

    if len(lines) >= 1 {
        tweetText = strings.TrimSpace(strings.TrimPrefix(lines[0], "Tweet:"))
    }
    if len(lines) >= 2 {
        imagePrompt = strings.TrimSpace(strings.TrimPrefix(lines[1], "Image Prompt:"))
    }

    if tweetText == "" {
        tweetText = FallbackTweet
    }
    if imagePrompt == "" {
        imagePrompt = FallbackImagePrompt
    }
    return tweetText, imagePrompt
}
