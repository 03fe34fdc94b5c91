// Package app provides the application context and dependency management
// for the govmatch CLI: configuration, logging, the rule set and the
// verification client, shared by every command.
package app

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/govmatch/internal/appcontext"
	"github.com/agentstation/govmatch/internal/cmd/alerts"
	"github.com/agentstation/govmatch/internal/llm"
	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/rules"
)

// App represents the govmatch application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Set when WithLogger supplied the logger; flags then leave it alone
	fixedLogger bool

	// Replaces the stderr alert writer when set
	alerts alerts.Writer

	// Configured rule set (lazy-loaded)
	mu    sync.Mutex
	rules *rules.Rules

	newVerifier func(ctx context.Context, cfg llm.Config) (llm.Verifier, error)
}

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the environment and the
// default config file locations; options can replace any part of it.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		newVerifier: func(ctx context.Context, cfg llm.Config) (llm.Verifier, error) {
			return llm.NewGeminiClient(ctx, cfg)
		},
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Alerts returns the status notification writer.
func (a *App) Alerts() alerts.Writer {
	if a.alerts != nil {
		return a.alerts
	}
	return alerts.NewTerminalWriter(os.Stderr, a.config.NoColor, a.config.Quiet)
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Output
}

// Workers returns the configured matching worker pool size.
func (a *App) Workers() int {
	return a.config.Workers
}

// Rules loads path when given. Otherwise it returns the configured rule set,
// loading it once.
func (a *App) Rules(path string) (*rules.Rules, error) {
	if path != "" {
		return rules.Load(path)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.rules != nil {
		return a.rules, nil
	}
	r, err := rules.Load(a.config.RulesFile)
	if err != nil {
		return nil, err
	}
	if a.config.RulesFile != "" {
		a.logger.Debug().Str("path", a.config.RulesFile).Msg("Loaded rules file")
	}
	a.rules = r
	return r, nil
}

// Verifier creates the verification client for model.
func (a *App) Verifier(ctx context.Context, model string) (llm.Verifier, error) {
	cfg := a.config.VerifierConfig(model)
	v, err := a.newVerifier(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("backend", string(cfg.Backend)).Str("model", cfg.Model).Msg("Verification client ready")
	return v, nil
}

// reload re-reads the configuration from configFile.
func (a *App) reload(configFile string) error {
	config, err := LoadConfig(configFile)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.config = config
	a.rules = nil
	a.mu.Unlock()
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "cannot be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		a.fixedLogger = true
		return nil
	}
}

// WithAlerts sets a custom alert writer.
func WithAlerts(w alerts.Writer) Option {
	return func(a *App) error {
		a.alerts = w
		return nil
	}
}

// WithVerifierFactory replaces how verification clients are created
// (useful for testing).
func WithVerifierFactory(f func(ctx context.Context, cfg llm.Config) (llm.Verifier, error)) Option {
	return func(a *App) error {
		a.newVerifier = f
		return nil
	}
}
