package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/glancebot/pkg/log"
)

type PolicyConfig struct {
	CooldownSeconds        int  `env:"REPLY_COOLDOWN" envDefault:"300"`
	ScanIntervalSeconds    int  `env:"SCAN_INTERVAL" envDefault:"20"`
	MaxRepliesPerHour      int  `env:"MAX_REPLIES_PER_HOUR" envDefault:"10"`
	DispatchBackoffSeconds int  `env:"DISPATCH_BACKOFF" envDefault:"5"`
	DebugMode              bool `env:"DEBUG_MODE" envDefault:"false"`
}

func NewPolicyConfig(ctx context.Context) *PolicyConfig {
	c := &PolicyConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Policy config")
	}
	return c
}

func (c PolicyConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

func (c PolicyConfig) ScanInterval() time.Duration {
	return time.Duration(c.ScanIntervalSeconds) * time.Second
}

func (c PolicyConfig) DispatchBackoff() time.Duration {
	return time.Duration(c.DispatchBackoffSeconds) * time.Second
}
