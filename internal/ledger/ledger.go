// Package ledger keeps the in-process record of sent replies. It is the
// only state the rate policy consults and it lives for the lifetime of
// the process; nothing here touches disk.
package ledger

import (
	"time"

	"github.com/sandevgo/glancebot/internal/core"
)

// Ledger is an append-only list of reply events. The watcher is the
// single reader and writer, so no locking is needed.
type Ledger struct {
	records []core.ReplyRecord
}

func New() *Ledger {
	return &Ledger{}
}

// Record appends a reply event. It never fails.
func (l *Ledger) Record(fingerprint string, now time.Time) {
	l.records = append(l.records, core.ReplyRecord{
		Fingerprint: fingerprint,
		RepliedAt:   now,
	})
}

// LastReplyTime returns the most recent reply time for the fingerprint,
// or false if it was never replied to.
func (l *Ledger) LastReplyTime(fingerprint string) (time.Time, bool) {
	for i := len(l.records) - 1; i >= 0; i-- {
		if l.records[i].Fingerprint == fingerprint {
			return l.records[i].RepliedAt, true
		}
	}
	return time.Time{}, false
}

// CountSince returns the number of replies sent within the trailing window.
func (l *Ledger) CountSince(now time.Time, window time.Duration) int {
	cutoff := now.Add(-window)
	count := 0
	for _, rec := range l.records {
		if !rec.RepliedAt.Before(cutoff) {
			count++
		}
	}
	return count
}

// OldestSince returns the oldest reply time still inside the trailing
// window, or false when the window is empty. Used to tell callers when
// the hourly cap frees up.
func (l *Ledger) OldestSince(now time.Time, window time.Duration) (time.Time, bool) {
	cutoff := now.Add(-window)
	var oldest time.Time
	found := false
	for _, rec := range l.records {
		if rec.RepliedAt.Before(cutoff) {
			continue
		}
		if !found || rec.RepliedAt.Before(oldest) {
			oldest = rec.RepliedAt
			found = true
		}
	}
	return oldest, found
}

// Prune drops records older than the horizon. Callers must pass a horizon
// of at least max(cooldown, rate window) so no record still relevant to an
// active cooldown or the trailing hour is lost.
func (l *Ledger) Prune(now time.Time, horizon time.Duration) {
	cutoff := now.Add(-horizon)
	kept := l.records[:0]
	for _, rec := range l.records {
		if !rec.RepliedAt.Before(cutoff) {
			kept = append(kept, rec)
		}
	}
	l.records = kept
}

func (l *Ledger) Len() int {
	return len(l.records)
}
