package vision

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Fingerprint derives a stable message identity from the detected text:
// lowercase, whitespace collapsed, md5 over the result. Two captures of
// the same message produce the same fingerprint even when the screenshot
// bytes differ.
func Fingerprint(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	if normalized == "" {
		return ""
	}
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// stripFences removes a markdown code fence around the model output.
// Gemini regularly wraps the requested JSON in ```json blocks despite
// being told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+len("```"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}
	return s
}
