package core

import (
	"context"
	"time"
)

// Capture is a single screenshot of the chat window.
type Capture struct {
	PNG     []byte
	TakenAt time.Time
}

type CaptureProvider interface {
	Capture(ctx context.Context) (Capture, error)
}

// Interpreter reads a capture and reports whether the chat shows a new
// message that needs a reply. The second return value is false when no
// such message is visible. Fingerprint derivation belongs to the
// interpreter; the rest of the system treats it as opaque.
type Interpreter interface {
	Interpret(ctx context.Context, shot Capture) (Observation, bool, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, text string) error
}

// Clock abstracts time for the watcher so tests can drive cycles with a
// fake instead of sleeping.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

func SystemClock() Clock {
	return systemClock{}
}
