package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/glancebot/internal/core"
	"github.com/sandevgo/glancebot/pkg/retry"
)

func TestFingerprint_NormalizesText(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"identical", "Hello there", "Hello there", true},
		{"case insensitive", "Hello There", "hello there", true},
		{"whitespace collapsed", "hello   there\n", " hello there", true},
		{"different text", "hello", "goodbye", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fingerprint(tt.a) == Fingerprint(tt.b)
			if got != tt.same {
				t.Errorf("Fingerprint(%q) == Fingerprint(%q) = %v, want %v", tt.a, tt.b, got, tt.same)
			}
		})
	}
}

func TestFingerprint_EmptyText(t *testing.T) {
	if fp := Fingerprint("   \n\t"); fp != "" {
		t.Errorf("expected empty fingerprint for blank text, got %q", fp)
	}
}

func TestStripFences(t *testing.T) {
	want := `{"should_reply": true}`
	tests := []struct {
		name  string
		input string
	}{
		{"bare json", `{"should_reply": true}`},
		{"json fence", "```json\n{\"should_reply\": true}\n```"},
		{"plain fence", "```\n{\"should_reply\": true}\n```"},
		{"fence with preamble", "Here you go:\n```json\n{\"should_reply\": true}\n```"},
		{"surrounding whitespace", "  {\"should_reply\": true}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.input); got != want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.input, got, want)
			}
		})
	}
}

func modelResponse(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	g := NewGemini("test-key", "models/gemini-2.5-flash", Persona{})
	g.baseURL = server.URL
	g.retrier = retry.NewRetrier(&retry.Config{MaxRetries: 0})
	return g
}

func TestGemini_Interpret(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		text := "```json\n{\"should_reply\": true, \"message_detected\": \"good morning!\", \"reply\": \"morning! ☀️\"}\n```"
		w.Write([]byte(modelResponse(text)))
	})

	shot := core.Capture{PNG: []byte("png"), TakenAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	obs, present, err := g.Interpret(context.Background(), shot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !present {
		t.Fatal("expected a message to be present")
	}
	if obs.Text != "good morning!" {
		t.Errorf("text = %q", obs.Text)
	}
	if obs.Reply != "morning! ☀️" {
		t.Errorf("reply = %q", obs.Reply)
	}
	if obs.Fingerprint != Fingerprint("good morning!") {
		t.Errorf("fingerprint = %q", obs.Fingerprint)
	}
	if !obs.ObservedAt.Equal(shot.TakenAt) {
		t.Errorf("observed at = %v, want capture time", obs.ObservedAt)
	}
}

func TestGemini_Interpret_NoReplyNeeded(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(modelResponse(`{"should_reply": false, "message_detected": "", "reply": ""}`)))
	})

	_, present, err := g.Interpret(context.Background(), core.Capture{PNG: []byte("png")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if present {
		t.Fatal("expected no message present")
	}
}

func TestGemini_Interpret_MalformedJSON(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(modelResponse("Sorry, I can't read this image.")))
	})

	_, _, err := g.Interpret(context.Background(), core.Capture{PNG: []byte("png")})
	if err == nil {
		t.Fatal("expected error for non-JSON model output")
	}
}

func TestGemini_Interpret_HTTPError(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, _, err := g.Interpret(context.Background(), core.Capture{PNG: []byte("png")})
	if err == nil {
		t.Fatal("expected error for http failure")
	}
}

func TestGemini_PromptIncludesPersona(t *testing.T) {
	g := NewGemini("k", "m", Persona{Text: "You are a pirate.", MaxReplyWords: 7})
	prompt := g.buildPrompt()

	if want := "You are a pirate."; !strings.Contains(prompt, want) {
		t.Errorf("prompt missing persona text %q", want)
	}
	if want := "under 7 words"; !strings.Contains(prompt, want) {
		t.Errorf("prompt missing word cap %q", want)
	}
}
