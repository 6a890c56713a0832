package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/glancebot/internal/config"
	"github.com/sandevgo/glancebot/internal/core"
	"github.com/sandevgo/glancebot/internal/providers/browser"
	"github.com/sandevgo/glancebot/internal/providers/vision"
	"github.com/sandevgo/glancebot/internal/service/watcher"
	"github.com/sandevgo/glancebot/internal/storage/sqlite"
	"github.com/sandevgo/glancebot/pkg/log"
	"github.com/sandevgo/glancebot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	policyCfg := config.NewPolicyConfig(ctx)
	geminiCfg := config.NewGeminiConfig(ctx)
	browserCfg := config.NewBrowserConfig(ctx)

	logger.Info().
		Int("scan_interval_s", policyCfg.ScanIntervalSeconds).
		Int("cooldown_s", policyCfg.CooldownSeconds).
		Int("max_replies_per_hour", policyCfg.MaxRepliesPerHour).
		Bool("debug_mode", policyCfg.DebugMode).
		Str("model", geminiCfg.Model).
		Str("chat_url", browserCfg.ChatURL).
		Msg("configuration loaded")

	// 2. Chat window (capture + dispatch)
	session, err := browser.NewSession(ctx, browserCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open chat window")
	}
	services = append(services, srv.NewCleanup(session.Close))

	// 3. Vision interpreter
	persona := vision.LoadPersona(appCfg.GetPersonaPath(), geminiCfg.MaxReplyWords)
	interpreter := vision.NewGemini(geminiCfg.APIKey, geminiCfg.Model, persona)

	// 4. Diagnostics store (debug mode only; nil otherwise)
	var diagnostics core.DiagnosticsRepository
	if policyCfg.DebugMode {
		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize diagnostics storage")
		}
		services = append(services, srv.NewCleanup(db.Close))
		diagnostics = sqlite.NewDiagnostics(db, appCfg.GetDebugDir())
	}

	// 5. Watcher
	w := watcher.New(watcher.Config{
		Cooldown:          policyCfg.Cooldown(),
		ScanInterval:      policyCfg.ScanInterval(),
		MaxRepliesPerHour: policyCfg.MaxRepliesPerHour,
		DispatchBackoff:   policyCfg.DispatchBackoff(),
	}, watcher.Deps{
		Capture:     session,
		Interpreter: interpreter,
		Dispatcher:  session,
		Diagnostics: diagnostics,
	})
	services = append(services, w)

	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
