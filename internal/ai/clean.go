package ai

import (
	"regexp"
	"strings"
)

var (
	leadingFence  = regexp.MustCompile("(?i)^```[a-z]*\\s*")
	trailingFence = regexp.MustCompile("\\s*```\\s*$")
	leadingLabel  = regexp.MustCompile(`(?i)^(json\b|html\b|response:|result:)\s*`)
)

// CleanResponse strips markdown code fences and answer labels the model wraps its output in.
func CleanResponse(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = leadingFence.ReplaceAllString(cleaned, "")
	cleaned = trailingFence.ReplaceAllString(cleaned, "")
	cleaned = leadingLabel.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}
