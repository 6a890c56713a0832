package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandevgo/glancebot/internal/core"
)

// Diagnostics is the debug-mode cycle log: one row per scan cycle plus the
// raw capture on disk. The bot never reads any of this back; it exists so
// an operator can reconstruct what the bot saw and why it decided what it
// decided.
type Diagnostics struct {
	db       *sql.DB
	debugDir string
}

func NewDiagnostics(db *sql.DB, debugDir string) *Diagnostics {
	return &Diagnostics{db: db, debugDir: debugDir}
}

func (d *Diagnostics) SaveCapture(ctx context.Context, id string, png []byte) (string, error) {
	if err := os.MkdirAll(d.debugDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug directory: %w", err)
	}

	name := fmt.Sprintf("chat_%s_%s.png", time.Now().Format("20060102_150405"), shortID(id))
	path := filepath.Join(d.debugDir, name)
	if err := os.WriteFile(path, png, 0644); err != nil {
		return "", fmt.Errorf("failed to write capture: %w", err)
	}
	return path, nil
}

func (d *Diagnostics) RecordCycle(ctx context.Context, rec core.CycleRecord) error {
	query := `INSERT INTO cycles (id, started_at, outcome, fingerprint, decision, reply, image_path, detail)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.ExecContext(ctx, query,
		rec.ID, rec.StartedAt, rec.Outcome, rec.Fingerprint, rec.Decision, rec.Reply, rec.ImagePath, rec.Detail)
	if err != nil {
		return fmt.Errorf("failed to insert cycle: %w", err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
