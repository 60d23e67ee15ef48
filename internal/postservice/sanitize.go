package postservice

import "regexp"

var scriptTagRX = regexp.MustCompile(`(?i)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

// sanitizeContent strips script tags from Markdown content before it is
// stored. Content is served back to browsers as rendered Markdown, so script
// blocks must never survive the write path.
func sanitizeContent(content string) string {
	return scriptTagRX.ReplaceAllString(content, "")
}
