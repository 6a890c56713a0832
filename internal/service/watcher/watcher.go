// Package watcher drives the scan -> interpret -> decide -> reply cycle.
// One cycle runs to completion before the next begins; the ledger is only
// ever touched from inside a cycle, so replies and their ledger writes can
// never interleave or end up half-applied.
package watcher

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/glancebot/internal/core"
	"github.com/sandevgo/glancebot/internal/ledger"
	"github.com/sandevgo/glancebot/internal/policy"
	"github.com/sandevgo/glancebot/pkg/log"
)

type State int

const (
	StateIdle State = iota
	StateScanning
	StateInterpreting
	StateDeciding
	StateReplying
	StateSleeping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateInterpreting:
		return "interpreting"
	case StateDeciding:
		return "deciding"
	case StateReplying:
		return "replying"
	case StateSleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

type Config struct {
	Cooldown          time.Duration
	ScanInterval      time.Duration
	MaxRepliesPerHour int

	// DispatchBackoff is added to the next sleep after a failed send so a
	// persistently broken dispatcher is not hammered every cycle.
	DispatchBackoff time.Duration
}

// Deps are the watcher's collaborators. Clock and Ledger default to the
// system clock and a fresh ledger; Diagnostics may be nil.
type Deps struct {
	Capture     core.CaptureProvider
	Interpreter core.Interpreter
	Dispatcher  core.Dispatcher
	Clock       core.Clock
	Ledger      *ledger.Ledger
	Diagnostics core.DiagnosticsRepository
}

type Watcher struct {
	cfg     Config
	capture core.CaptureProvider
	interp  core.Interpreter
	sender  core.Dispatcher
	clock   core.Clock
	ledger  *ledger.Ledger
	diag    core.DiagnosticsRepository

	state State
	done  chan struct{}
}

func New(cfg Config, deps Deps) *Watcher {
	if deps.Clock == nil {
		deps.Clock = core.SystemClock()
	}
	if deps.Ledger == nil {
		deps.Ledger = ledger.New()
	}
	return &Watcher{
		cfg:     cfg,
		capture: deps.Capture,
		interp:  deps.Interpreter,
		sender:  deps.Dispatcher,
		clock:   deps.Clock,
		ledger:  deps.Ledger,
		diag:    deps.Diagnostics,
		state:   StateIdle,
		done:    make(chan struct{}),
	}
}

// Start runs scan cycles until the context is cancelled or Shutdown is
// called. Cancellation is honored at the sleeping boundary at the latest.
func (w *Watcher) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().
		Dur("scan_interval", w.cfg.ScanInterval).
		Dur("cooldown", w.cfg.Cooldown).
		Int("max_replies_per_hour", w.cfg.MaxRepliesPerHour).
		Msg("watcher started")

	for {
		wait := w.RunCycle(ctx)

		w.state = StateSleeping
		select {
		case <-ctx.Done():
			return nil
		case <-w.done:
			return nil
		case <-w.clock.After(wait):
		}
		w.state = StateIdle
	}
}

func (w *Watcher) Shutdown(ctx context.Context) error {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	return nil
}

// State reports the last state the loop reached. Only meaningful from the
// watcher's own goroutine and from tests driving RunCycle directly.
func (w *Watcher) State() State {
	return w.state
}

func (w *Watcher) Ledger() *ledger.Ledger {
	return w.ledger
}

// RunCycle executes one full cycle and returns how long to sleep before
// the next one. Every non-fatal failure is absorbed here: the cycle is
// skipped, nothing propagates past it.
func (w *Watcher) RunCycle(ctx context.Context) time.Duration {
	logger := log.FromCtx(ctx)

	now := w.clock.Now()
	w.ledger.Prune(now, w.pruneHorizon())

	trace := core.CycleRecord{
		ID:        uuid.NewString(),
		StartedAt: now,
	}

	w.state = StateScanning
	shot, err := w.capture.Capture(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("capture failed, skipping cycle")
		trace.Outcome = "capture_failed"
		trace.Detail = err.Error()
		w.recordDiagnostics(ctx, trace)
		return w.cfg.ScanInterval
	}
	trace.ImagePath = w.saveCapture(ctx, trace.ID, shot.PNG)

	w.state = StateInterpreting
	obs, present, err := w.interp.Interpret(ctx, shot)
	if err != nil {
		logger.Warn().Err(err).Msg("interpretation failed, skipping cycle")
		trace.Outcome = "interpret_failed"
		trace.Detail = err.Error()
		w.recordDiagnostics(ctx, trace)
		return w.cfg.ScanInterval
	}
	if !present || obs.Fingerprint == "" {
		logger.Debug().Msg("no new message requiring a reply")
		trace.Outcome = "no_message"
		w.recordDiagnostics(ctx, trace)
		return w.cfg.ScanInterval
	}
	trace.Fingerprint = obs.Fingerprint

	w.state = StateDeciding
	decision := policy.Decide(obs.Fingerprint, w.clock.Now(), w.ledger, policy.Config{
		Cooldown:          w.cfg.Cooldown,
		MaxRepliesPerHour: w.cfg.MaxRepliesPerHour,
	})
	trace.Decision = decision.Verdict.String()
	if !decision.Allowed() {
		logger.Info().
			Str("fingerprint", obs.Fingerprint).
			Str("verdict", decision.Verdict.String()).
			Dur("retry_after", decision.RetryAfter).
			Msg("reply denied by policy")
		trace.Outcome = "denied"
		w.recordDiagnostics(ctx, trace)
		return w.cfg.ScanInterval
	}

	w.state = StateReplying
	if err := w.sender.Dispatch(ctx, obs.Reply); err != nil {
		// No ledger write: the next eligible cycle may retry this message.
		logger.Warn().Err(err).Str("fingerprint", obs.Fingerprint).Msg("dispatch failed")
		trace.Outcome = "dispatch_failed"
		trace.Detail = err.Error()
		w.recordDiagnostics(ctx, trace)
		return w.cfg.ScanInterval + w.cfg.DispatchBackoff
	}

	w.ledger.Record(obs.Fingerprint, w.clock.Now())
	logger.Info().
		Str("fingerprint", obs.Fingerprint).
		Str("message", obs.Text).
		Str("reply", obs.Reply).
		Msg("reply sent")
	trace.Outcome = "replied"
	trace.Reply = obs.Reply
	w.recordDiagnostics(ctx, trace)
	return w.cfg.ScanInterval
}

// pruneHorizon keeps every record still relevant to an active cooldown or
// the trailing rate window.
func (w *Watcher) pruneHorizon() time.Duration {
	if w.cfg.Cooldown > policy.RateWindow {
		return w.cfg.Cooldown
	}
	return policy.RateWindow
}

func (w *Watcher) saveCapture(ctx context.Context, id string, png []byte) string {
	if w.diag == nil {
		return ""
	}
	path, err := w.diag.SaveCapture(ctx, id, png)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to save debug capture")
		return ""
	}
	return path
}

// recordDiagnostics never influences the cycle: store errors are logged
// and dropped.
func (w *Watcher) recordDiagnostics(ctx context.Context, rec core.CycleRecord) {
	if w.diag == nil {
		return
	}
	if err := w.diag.RecordCycle(ctx, rec); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to record cycle diagnostics")
	}
}
