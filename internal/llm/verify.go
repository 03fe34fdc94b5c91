package llm

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/agentstation/govmatch/internal/prompts"
	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/logging"
)

// Verifier answers a single prompt.
type Verifier interface {
	Verify(ctx context.Context, prompt string) (Verdict, error)
}

// VerifierFunc allows functions to implement Verifier.
type VerifierFunc func(context.Context, string) (Verdict, error)

// Verify implements the Verifier interface.
func (f VerifierFunc) Verify(ctx context.Context, prompt string) (Verdict, error) {
	return f(ctx, prompt)
}

// Verdicts are the answers of a verification run in prompt order.
type Verdicts []Verdict

// ByID indexes the verdicts by record id.
func (vs Verdicts) ByID() map[string]Verdict {
	out := make(map[string]Verdict, len(vs))
	for _, v := range vs {
		out[v.ID] = v
	}
	return out
}

// Failed counts the verdicts that carry an error.
func (vs Verdicts) Failed() int {
	n := 0
	for _, v := range vs {
		if v.Error != "" {
			n++
		}
	}
	return n
}

// VerifyAll sends the prompts one at a time, waiting on limiter before each
// call. A nil limiter does not throttle. A failed prompt is recorded in its
// verdict and the run continues; only cancellation stops it early, returning
// the verdicts collected so far with a CanceledError.
func VerifyAll(ctx context.Context, v Verifier, ps []prompts.Prompt, limiter *rate.Limiter) (Verdicts, error) {
	logger := logging.FromContext(ctx)
	out := make(Verdicts, 0, len(ps))

	for i, p := range ps {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return out, canceled(ctx, err, i, len(ps))
			}
		}
		if err := ctx.Err(); err != nil {
			return out, canceled(ctx, err, i, len(ps))
		}

		verdict, err := v.Verify(ctx, p.Prompt)
		if err != nil {
			if ctx.Err() != nil {
				return out, canceled(ctx, ctx.Err(), i, len(ps))
			}
			logger.Warn().Err(err).
				Str("record_id", p.ID).
				Bool("rate_limited", errors.IsRateLimited(err)).
				Bool("unavailable", errors.IsProviderUnavailable(err)).
				Msg("Verification failed")
			verdict = Verdict{Confidence: ConfidenceNone, Error: err.Error()}
		}
		verdict.ID = p.ID
		out = append(out, verdict)
		logVerdict(logger, verdict, i+1, len(ps))
	}
	return out, nil
}

func logVerdict(logger *zerolog.Logger, v Verdict, done, total int) {
	ev := logger.Debug().
		Str("record_id", v.ID).
		Str("confidence", string(v.Confidence)).
		Int("done", done).
		Int("total", total)
	if v.ProposalID != nil {
		ev = ev.Str("proposal_id", *v.ProposalID)
	}
	ev.Msg("Verified record")
}

func canceled(ctx context.Context, err error, processed, total int) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	return &errors.CanceledError{Operation: "verify", Processed: processed, Total: total, Err: err}
}
