package vision

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPersona_MissingFile(t *testing.T) {
	p := LoadPersona(filepath.Join(t.TempDir(), "PERSONA.md"), 20)
	if p.Text != DefaultPersonaText {
		t.Errorf("expected default persona, got %q", p.Text)
	}
	if p.MaxReplyWords != 20 {
		t.Errorf("max reply words = %d, want 20", p.MaxReplyWords)
	}
}

func TestLoadPersona_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PERSONA.md")
	if err := os.WriteFile(path, []byte("You are extremely formal.\n"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	p := LoadPersona(path, 10)
	if p.Text != "You are extremely formal." {
		t.Errorf("persona text = %q", p.Text)
	}
}

func TestLoadPersona_EmptyFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PERSONA.md")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	p := LoadPersona(path, 20)
	if p.Text != DefaultPersonaText {
		t.Errorf("expected default persona for empty file, got %q", p.Text)
	}
}
