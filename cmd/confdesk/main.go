// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/olegiv/confdesk/internal/client"
	"github.com/olegiv/confdesk/internal/config"
	"github.com/olegiv/confdesk/internal/logging"
	"github.com/olegiv/confdesk/internal/page"
	"github.com/olegiv/confdesk/internal/render"
	"github.com/olegiv/confdesk/internal/router"
	"github.com/olegiv/confdesk/internal/session"
	"github.com/olegiv/confdesk/internal/shell"
	"github.com/olegiv/confdesk/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// overrides holds command-line values that take precedence over the environment.
type overrides struct {
	apiURL   string
	logLevel string
	noColor  bool
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o overrides
	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}

	cmd := &cobra.Command{
		Use:           "confdesk",
		Short:         "Browse and administer conferences from the terminal",
		Long:          "confdesk is an interactive client for the conference service.\n\nEnvironment variables use the CONFDESK_ prefix, e.g. CONFDESK_API_URL.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := run(cmd.Context(), o, info); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "confdesk: %v\n", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&o.apiURL, "api-url", "", "Conference service URL (overrides CONFDESK_API_URL)")
	cmd.Flags().StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides CONFDESK_LOG_LEVEL)")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), info.String())
		},
	})

	return cmd
}

func run(ctx context.Context, o overrides, info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyOverrides(cfg, o); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logOut, closeLog, err := openLog(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog()

	// WARN and above also land in the in-memory journal shown by `diag`.
	journal := logging.NewJournal(cfg.JournalSize)
	textHandler := slog.NewTextHandler(logOut, handlerOptions(cfg))
	logger := slog.New(logging.NewJournalHandler(textHandler, journal))
	slog.SetDefault(logger)

	opts := []client.Option{
		client.WithLogger(logger),
		client.WithUserAgent(info.UserAgent()),
	}
	if cfg.HTTPTimeout > 0 {
		opts = append(opts, client.WithTimeout(cfg.HTTPTimeout))
	}
	if cfg.RateLimited() {
		opts = append(opts, client.WithRateLimit(cfg.RequestsPerSecond, cfg.RequestBurst))
	}
	api := client.New(cfg.APIURL, opts...)

	store := session.New(api,
		session.WithLogger(logger),
		session.WithLegacyFallback(cfg.LegacyRoleFallback),
	)
	ctx = session.NewContext(ctx, store)
	pages := page.New(api, store, router.New(), logger)
	app := shell.NewApp(pages, render.New(os.Stdout, cfg.NoColor), journal)

	logger.Debug("starting shell", "api_url", api.BaseURL(), "env", cfg.Env)

	sh := shell.New(ctx, shell.Options{
		App:     app,
		Version: info.Version,
		NoColor: cfg.NoColor,
		Spinner: true,
	})
	defer sh.Close()
	sh.Run()
	return nil
}

// handlerOptions adds source locations to log records in development.
func handlerOptions(cfg *config.Config) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:     cfg.SlogLevel(),
		AddSource: cfg.IsDevelopment(),
	}
}

// applyOverrides copies set flags onto cfg and re-validates it.
func applyOverrides(cfg *config.Config, o overrides) error {
	if o.apiURL != "" {
		cfg.APIURL = o.apiURL
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.noColor {
		cfg.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
