package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"talentpipe/pkg/api"
	"talentpipe/pkg/auth"
	"talentpipe/pkg/config"
	"talentpipe/pkg/coordinator"
	"talentpipe/pkg/logger"
	"talentpipe/pkg/ratelimit"
	"talentpipe/pkg/retry"
	"talentpipe/pkg/storage"
	"talentpipe/pkg/ui"
)

// app holds the collaborators every command is built from
type app struct {
	cfg      *config.Config
	log      logger.Logger
	state    *storage.Store
	tokens   *auth.TokenStore
	projects *auth.ProjectSelector
	client   *api.Client
}

type appOptions struct {
	flags map[string]interface{}
	// fullScreen drops console logs while the full-screen view owns the
	// terminal; a configured log file still receives them
	fullScreen bool
}

// loadApp reads configuration and wires the stores and the API client
func loadApp(opts appOptions) (*app, error) {
	flags := opts.flags
	if flags == nil {
		flags = map[string]interface{}{}
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	if baseURL != "" {
		flags["base-url"] = baseURL
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	var logTo io.Writer
	if opts.fullScreen && cfg.UI.Mode == "tui" {
		logTo = io.Discard
	}
	log, err := newLogger(cfg, logTo)
	if err != nil {
		return nil, err
	}
	logger.SetLogger(log)

	state, err := storage.Open(cfg.State.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}

	creds, err := auth.NewManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential manager: %w", err)
	}
	tokens := auth.NewTokenStore(creds, state, cfg.API.BaseURL)

	resolved, err := resolveBaseURL(cfg, tokens)
	if err != nil {
		return nil, err
	}

	readRetry := retry.DefaultConfig()
	readRetry.MaxAttempts = cfg.API.ReadRetries + 1
	readRetry.Logger = log

	client := api.NewClient(tokens, api.Options{
		BaseURL:   resolved,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
		Limiter:   ratelimit.PerMinute(cfg.API.RequestsPerMinute),
		Retry:     readRetry,
		Logger:    log,
	})

	return &app{
		cfg:      cfg,
		log:      log,
		state:    state,
		tokens:   tokens,
		projects: auth.NewProjectSelector(state),
		client:   client,
	}, nil
}

// resolveBaseURL prefers an explicitly configured URL, then the stored
// override, then the default
func resolveBaseURL(cfg *config.Config, tokens *auth.TokenStore) (string, error) {
	if cfg.API.BaseURL != config.DefaultBaseURL {
		return strings.TrimRight(cfg.API.BaseURL, "/"), nil
	}
	return tokens.BaseURL()
}

func newLogger(cfg *config.Config, w io.Writer) (logger.Logger, error) {
	if cfg.Logging.File != "" || w == nil {
		return logger.New(&cfg.Logging)
	}
	return logger.NewWithWriter(&cfg.Logging, w)
}

func (a *app) coordinator(opts ...coordinator.Option) *coordinator.Coordinator {
	return coordinator.New(a.client, a.tokens, a.projects, a.cfg.Pipeline, a.log, opts...)
}

// mustLoadApp loads the app or exits with a printed error
func mustLoadApp(opts appOptions) *app {
	a, err := loadApp(opts)
	if err != nil {
		fatal("Failed to start", err)
	}
	return a
}

// fatal prints msg and err and exits with status 1
func fatal(msg string, err error) {
	ui.Out = os.Stderr
	ui.PrintError(msg, err)
	os.Exit(1)
}
