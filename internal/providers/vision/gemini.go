// Package vision wraps the Gemini vision API: it looks at a chat capture,
// decides whether the newest message needs a reply, and composes one.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/glancebot/internal/core"
	"github.com/sandevgo/glancebot/pkg/retry"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// DefaultPersonaText is used when the runtime dir has no PERSONA.md.
const DefaultPersonaText = `You are a friendly, witty friend who gives clever automated replies.
Keep responses SHORT (1-2 sentences max), casual, and sometimes sarcastic.
Use emojis occasionally but don't overdo it.`

// Persona shapes the tone and length of generated replies.
type Persona struct {
	Text          string
	MaxReplyWords int
}

type Gemini struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	persona Persona
	retrier *retry.Retrier
}

func NewGemini(apiKey, model string, persona Persona) *Gemini {
	if persona.Text == "" {
		persona.Text = DefaultPersonaText
	}
	if persona.MaxReplyWords <= 0 {
		persona.MaxReplyWords = 20
	}
	return &Gemini{
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		model:   model,
		persona: persona,
		retrier: retry.NewDefaultRetrier(),
	}
}

// interpretation is the JSON contract the model is asked to follow.
type interpretation struct {
	ShouldReply     bool   `json:"should_reply"`
	MessageDetected string `json:"message_detected"`
	Reply           string `json:"reply"`
}

func (g *Gemini) Interpret(ctx context.Context, shot core.Capture) (core.Observation, bool, error) {
	raw, err := g.generate(ctx, []part{
		{Text: g.buildPrompt()},
		{InlineData: &inlineData{MimeType: "image/png", Data: base64.StdEncoding.EncodeToString(shot.PNG)}},
	})
	if err != nil {
		return core.Observation{}, false, err
	}

	var result interpretation
	if err := json.Unmarshal([]byte(stripFences(raw)), &result); err != nil {
		return core.Observation{}, false, fmt.Errorf("malformed model response: %w", err)
	}

	if !result.ShouldReply || result.Reply == "" || result.MessageDetected == "" {
		return core.Observation{}, false, nil
	}

	return core.Observation{
		Fingerprint: Fingerprint(result.MessageDetected),
		Text:        result.MessageDetected,
		Reply:       result.Reply,
		ObservedAt:  shot.TakenAt,
	}, true, nil
}

// Ping sends a minimal text-only request to verify the credential works.
func (g *Gemini) Ping(ctx context.Context) (string, error) {
	return g.generate(ctx, []part{{Text: "Say 'API works!' in 2 words"}})
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

// generate calls the generateContent endpoint and returns the first
// candidate's text. Transport-level failures are retried with backoff;
// anything the model said comes back verbatim for the caller to parse.
func (g *Gemini) generate(ctx context.Context, parts []part) (string, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": parts},
		},
		"generationConfig": map[string]any{
			"temperature": 0.7,
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/%s:generateContent", g.baseURL, g.model)

	var body []byte
	err = g.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", g.apiKey)

		resp, err := g.client.Do(req)
		if err != nil {
			return fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidates: %s", string(body))
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

func (g *Gemini) buildPrompt() string {
	return fmt.Sprintf(`%s

Analyze this chat screenshot.

Task:
1. Check if there's a recent message that needs a reply (look at the LAST message in the chat)
2. If yes, read the message content
3. Generate a SHORT, witty, contextual reply

Response format (JSON):
{
    "should_reply": true/false,
    "message_detected": "the actual message you see",
    "reply": "your witty response here"
}

Important rules:
- Only reply to the MOST RECENT message
- If it's just a casual "hi/hello", make it funny
- If it's "good morning", be creative (not boring)
- If it's a question, give a clever answer
- If it's spam/repeated, acknowledge it sarcastically
- Keep replies under %d words
- Return ONLY valid JSON, no other text`, g.persona.Text, g.persona.MaxReplyWords)
}
