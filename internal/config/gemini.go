package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/glancebot/pkg/log"
)

type GeminiConfig struct {
	APIKey        string `env:"GOOGLE_API_KEY,required,notEmpty"`
	Model         string `env:"GEMINI_MODEL" envDefault:"models/gemini-2.5-flash"`
	MaxReplyWords int    `env:"MAX_REPLY_WORDS" envDefault:"20"`
}

// NewGeminiConfig terminates the process when GOOGLE_API_KEY is missing:
// the bot cannot do anything useful without the credential.
func NewGeminiConfig(ctx context.Context) *GeminiConfig {
	c := &GeminiConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Gemini config: set GOOGLE_API_KEY in .env")
	}
	return c
}
