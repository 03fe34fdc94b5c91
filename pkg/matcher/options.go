package matcher

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/logging"
	"github.com/agentstation/govmatch/pkg/rules"
)

// options configures an Engine.
type options struct {
	rules   *rules.Rules
	workers int
	logger  *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		rules:   rules.Default(),
		workers: constants.DefaultWorkers,
	}
}

// Option is a function that configures an Engine.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns engine options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithRules replaces the built-in rule set.
func WithRules(r *rules.Rules) Option {
	return func(o *options) error {
		if r == nil {
			return &errors.ValidationError{
				Field:   "rules",
				Message: "cannot be nil",
			}
		}
		o.rules = r
		return nil
	}
}

// WithWorkers sets the size of the MatchAll worker pool.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 1 || n > constants.MaxWorkers {
			return &errors.ValidationError{
				Field:   "workers",
				Value:   n,
				Message: "must be between 1 and 64",
			}
		}
		o.workers = n
		return nil
	}
}

// WithLogger sets the engine logger. Without it the engine logs through the
// logger carried by the context passed to MatchAll, or the package default.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

func (o *options) loggerOrDefault() *zerolog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return logging.Default()
}
