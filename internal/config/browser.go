package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/glancebot/pkg/log"
)

type BrowserConfig struct {
	ChatURL    string `env:"CHAT_URL" envDefault:"https://web.whatsapp.com"`
	Headless   bool   `env:"BROWSER_HEADLESS" envDefault:"false"`
	ControlURL string `env:"BROWSER_CONTROL_URL"`

	// CSS selector of the message input box on the chat page. The default
	// matches the WhatsApp Web composer.
	InputSelector string `env:"CHAT_INPUT_SELECTOR" envDefault:"footer div[contenteditable='true']"`

	NavTimeoutSeconds int `env:"BROWSER_NAV_TIMEOUT" envDefault:"30"`
}

func NewBrowserConfig(ctx context.Context) *BrowserConfig {
	c := &BrowserConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Browser config")
	}
	return c
}

func (c BrowserConfig) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSeconds) * time.Second
}
