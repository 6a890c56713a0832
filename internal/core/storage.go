package core

import (
	"context"
	"time"
)

// CycleRecord is one diagnostic row describing a finished scan cycle.
// Written only in debug mode; never read back by the bot itself.
type CycleRecord struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	Outcome     string    `json:"outcome"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Decision    string    `json:"decision,omitempty"`
	Reply       string    `json:"reply,omitempty"`
	ImagePath   string    `json:"image_path,omitempty"`
	Detail      string    `json:"detail,omitempty"`
}

type DiagnosticsRepository interface {
	// SaveCapture persists the raw capture and returns its path.
	SaveCapture(ctx context.Context, id string, png []byte) (string, error)
	RecordCycle(ctx context.Context, rec CycleRecord) error
}
