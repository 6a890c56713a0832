package vision

import (
	"os"
	"strings"
)

// LoadPersona reads the persona text from the runtime dir, falling back
// to the built-in default when the file is absent or empty.
func LoadPersona(path string, maxReplyWords int) Persona {
	p := Persona{
		Text:          DefaultPersonaText,
		MaxReplyWords: maxReplyWords,
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	if text := strings.TrimSpace(string(content)); text != "" {
		p.Text = text
	}
	return p
}
