package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/sandevgo/glancebot/internal/config"
	"github.com/sandevgo/glancebot/internal/providers/browser"
	"github.com/sandevgo/glancebot/internal/providers/vision"
	"github.com/sandevgo/glancebot/internal/service/ui"
	"github.com/spf13/cobra"
)

var skipBrowser bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the setup before starting the bot",
	Long:  `Checks the runtime directory, the Gemini credential and the chat page, and reports what is missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		_ = initEnv(ctx, config.GetRuntimePath())

		ok := true
		report := func(name string, err error, detail string) {
			if err != nil {
				ok = false
				fmt.Printf("%s %s: %v\n", ui.FailStyle.Render("✗"), name, err)
				return
			}
			if detail != "" {
				fmt.Printf("%s %s: %s\n", ui.OkStyle.Render("✓"), name, detail)
				return
			}
			fmt.Printf("%s %s\n", ui.OkStyle.Render("✓"), name)
		}

		fmt.Println(ui.TitleStyle.Render("GlanceBot setup check"))

		runtimePath := config.GetRuntimePath()
		report("runtime directory", os.MkdirAll(runtimePath, 0755), runtimePath)

		apiKey := os.Getenv("GOOGLE_API_KEY")
		if apiKey == "" {
			report("GOOGLE_API_KEY", fmt.Errorf("not set — add it to %s", filepath.Join(runtimePath, ".env")), "")
		} else {
			report("GOOGLE_API_KEY", nil, maskKey(apiKey))

			geminiCfg := config.NewGeminiConfig(ctx)
			g := vision.NewGemini(geminiCfg.APIKey, geminiCfg.Model, vision.Persona{})

			pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			resp, err := g.Ping(pingCtx)
			cancel()
			report("gemini api", err, strings.TrimSpace(resp))
		}

		if skipBrowser {
			fmt.Printf("%s chat window: skipped\n", ui.DescStyle.Render("-"))
		} else {
			browserCfg := config.NewBrowserConfig(ctx)
			session, err := browser.NewSession(ctx, browserCfg)
			if err != nil {
				report("chat window", err, "")
			} else {
				detail, herr := session.Health(ctx)
				report("chat window", herr, detail)
				_ = session.Close()
			}
		}

		if !ok {
			return fmt.Errorf("setup incomplete, fix the issues above and run the check again")
		}
		fmt.Println(ui.OkStyle.Render("all checks passed, run 'glance start'"))
		return nil
	},
}

func maskKey(key string) string {
	if len(key) <= 14 {
		return "set"
	}
	return key[:10] + "..." + key[len(key)-4:]
}

func init() {
	checkCmd.Flags().BoolVar(&skipBrowser, "skip-browser", false, "skip launching the browser")
	rootCmd.AddCommand(checkCmd)
}
