// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface rather than the
// concrete App type so they can be tested with Mock.
package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/govmatch/internal/cmd/alerts"
	"github.com/agentstation/govmatch/internal/llm"
	"github.com/agentstation/govmatch/pkg/rules"
)

// Interface defines the application context interface that commands need.
type Interface interface {
	// Logger returns the configured logger instance.
	// Commands should use this for all logging operations.
	Logger() *zerolog.Logger

	// Alerts returns the writer for status notifications. They go to
	// stderr so structured output on stdout stays parseable.
	Alerts() alerts.Writer

	// OutputFormat returns the configured output format (table, json, yaml, wide).
	OutputFormat() string

	// Rules loads the rule set from path, or from the configured rules file
	// when path is empty. With neither, the built-in defaults are returned.
	Rules(path string) (*rules.Rules, error)

	// Workers returns the configured size of the matching worker pool.
	Workers() int

	// Verifier creates the verification client for model. An empty model
	// uses the configured one.
	Verifier(ctx context.Context, model string) (llm.Verifier, error)

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
