package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/govmatch/internal/cmd/alerts"
	"github.com/agentstation/govmatch/internal/llm"
	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/rules"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	AlertsFunc       func() alerts.Writer
	OutputFormatFunc func() string
	RulesFunc        func(path string) (*rules.Rules, error)
	WorkersFunc      func() int
	VerifierFunc     func(ctx context.Context, model string) (llm.Verifier, error)
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// Alerts returns the writer using the mock function or a discarding writer.
func (m *Mock) Alerts() alerts.Writer {
	if m.AlertsFunc != nil {
		return m.AlertsFunc()
	}
	return alerts.DiscardWriter
}

// OutputFormat returns the format using the mock function or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Rules returns rules using the mock function, or loads path with the
// defaults as fallback.
func (m *Mock) Rules(path string) (*rules.Rules, error) {
	if m.RulesFunc != nil {
		return m.RulesFunc(path)
	}
	return rules.Load(path)
}

// Workers returns the pool size using the mock function or the default.
func (m *Mock) Workers() int {
	if m.WorkersFunc != nil {
		return m.WorkersFunc()
	}
	return constants.DefaultWorkers
}

// Verifier returns a verifier using the mock function or nil.
func (m *Mock) Verifier(ctx context.Context, model string) (llm.Verifier, error) {
	if m.VerifierFunc != nil {
		return m.VerifierFunc(ctx, model)
	}
	return nil, nil
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
