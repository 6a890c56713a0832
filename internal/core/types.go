package core

import "time"

const (
	GlanceName    = "GlanceBot"
	GlanceVersion = "0.1.0"
)

// Observation is one interpreted capture result. It lives for a single
// scan cycle and is never persisted.
type Observation struct {
	Fingerprint string    `json:"fingerprint"`
	Text        string    `json:"text"`
	Reply       string    `json:"reply"`
	ObservedAt  time.Time `json:"observed_at"`
}

// ReplyRecord is one entry in the history ledger. Records are append-only
// and aged out once older than the pruning horizon.
type ReplyRecord struct {
	Fingerprint string    `json:"fingerprint"`
	RepliedAt   time.Time `json:"replied_at"`
}

type Verdict int

const (
	VerdictAllowed Verdict = iota
	VerdictDeniedCooldown
	VerdictDeniedHourlyCap
)

func (v Verdict) String() string {
	switch v {
	case VerdictAllowed:
		return "allowed"
	case VerdictDeniedCooldown:
		return "denied_cooldown"
	case VerdictDeniedHourlyCap:
		return "denied_hourly_cap"
	default:
		return "unknown"
	}
}

// Decision is the rate policy outcome for one observation. RetryAfter is
// zero for allowed decisions and the earliest re-check distance otherwise.
type Decision struct {
	Verdict    Verdict
	RetryAfter time.Duration
}

func (d Decision) Allowed() bool {
	return d.Verdict == VerdictAllowed
}
