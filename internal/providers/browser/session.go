// Package browser renders the chat page in a Chrome instance driven over
// CDP and exposes the two operations the watcher needs: capture the
// window and deliver a reply through the message input box.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sandevgo/glancebot/internal/config"
	"github.com/sandevgo/glancebot/internal/core"
	"github.com/sandevgo/glancebot/pkg/log"
)

type Session struct {
	cfg     *config.BrowserConfig
	browser *rod.Browser
	page    *rod.Page
}

// NewSession launches Chrome (or attaches to BROWSER_CONTROL_URL) and
// opens the chat page. The first run against WhatsApp Web needs a visible
// browser so the operator can scan the QR code.
func NewSession(ctx context.Context, cfg *config.BrowserConfig) (*Session, error) {
	controlURL := cfg.ControlURL
	if controlURL == "" {
		url, err := launcher.New().Headless(cfg.Headless).Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: cfg.ChatURL})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("open chat page: %w", err)
	}

	if err := page.Timeout(cfg.NavTimeout()).WaitLoad(); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("url", cfg.ChatURL).Msg("chat page load timed out, continuing")
	}

	return &Session{cfg: cfg, browser: b, page: page}, nil
}

func (s *Session) Capture(ctx context.Context) (core.Capture, error) {
	png, err := s.page.Context(ctx).Screenshot(false, nil)
	if err != nil {
		return core.Capture{}, fmt.Errorf("screenshot: %w", err)
	}
	return core.Capture{PNG: png, TakenAt: time.Now()}, nil
}

func (s *Session) Dispatch(ctx context.Context, text string) error {
	page := s.page.Context(ctx)

	el, err := page.Element(s.cfg.InputSelector)
	if err != nil {
		return fmt.Errorf("message input not found: %w", err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("focus message input: %w", err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("type reply: %w", err)
	}
	if err := page.Keyboard.Press(input.Enter); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}

// Health reports the chat page's current URL and title, used by the
// setup checker.
func (s *Session) Health(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return fmt.Sprintf("%s (%s)", info.Title, info.URL), nil
}

func (s *Session) Close() error {
	return s.browser.Close()
}
