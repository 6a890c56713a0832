// Package policy decides whether a reply is permitted right now. It is a
// pure function over the reply history; it never mutates anything.
package policy

import (
	"time"

	"github.com/sandevgo/glancebot/internal/core"
)

// RateWindow is the trailing window the reply cap applies to.
const RateWindow = time.Hour

type Config struct {
	Cooldown          time.Duration
	MaxRepliesPerHour int
}

// History is the read side of the ledger.
type History interface {
	LastReplyTime(fingerprint string) (time.Time, bool)
	CountSince(now time.Time, window time.Duration) int
	OldestSince(now time.Time, window time.Duration) (time.Time, bool)
}

// Decide returns the verdict for replying to the fingerprint at `now`.
// The cooldown check runs before the hourly cap: when both would deny,
// the per-message signal wins.
func Decide(fingerprint string, now time.Time, history History, cfg Config) core.Decision {
	if last, ok := history.LastReplyTime(fingerprint); ok {
		if elapsed := now.Sub(last); elapsed < cfg.Cooldown {
			return core.Decision{
				Verdict:    core.VerdictDeniedCooldown,
				RetryAfter: cfg.Cooldown - elapsed,
			}
		}
	}

	// A non-positive cap means replying is disabled, never unlimited.
	if cfg.MaxRepliesPerHour <= 0 {
		return core.Decision{
			Verdict:    core.VerdictDeniedHourlyCap,
			RetryAfter: RateWindow,
		}
	}

	if history.CountSince(now, RateWindow) >= cfg.MaxRepliesPerHour {
		retryAfter := RateWindow
		if oldest, ok := history.OldestSince(now, RateWindow); ok {
			retryAfter = oldest.Add(RateWindow).Sub(now)
		}
		return core.Decision{
			Verdict:    core.VerdictDeniedHourlyCap,
			RetryAfter: retryAfter,
		}
	}

	return core.Decision{Verdict: core.VerdictAllowed}
}
