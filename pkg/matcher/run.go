package matcher

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/logging"
	"github.com/agentstation/govmatch/pkg/records"
)

// Run is the outcome of matching every record of one source.
type Run struct {
	Source  records.Source   `json:"source" yaml:"source"`
	Results []records.Result `json:"results" yaml:"results"`
	Summary Summary          `json:"summary" yaml:"summary"`
}

// Summary contains statistics about a run.
type Summary struct {
	Source    records.Source         `json:"source" yaml:"source"`
	Total     int                    `json:"total" yaml:"total"`
	Resolved  int                    `json:"resolved" yaml:"resolved"`
	MatchRate float64                `json:"match_rate" yaml:"match_rate"`
	Buckets   map[records.Bucket]int `json:"buckets" yaml:"buckets"`
	Methods   map[records.Method]int `json:"methods" yaml:"methods"`
}

// Count returns the number of results in bucket b.
func (s Summary) Count(b records.Bucket) int {
	return s.Buckets[b]
}

// MatchAll matches recs as records of source on a bounded worker pool.
// Results are in input order. When ctx is canceled scheduling stops and a
// CanceledError is returned.
func (e *Engine) MatchAll(ctx context.Context, source records.Source, recs []records.Record) (*Run, error) {
	if err := source.Validate(); err != nil {
		return nil, errors.NewValidationError("source", source, err.Error())
	}
	logger := e.logger
	if !e.ownLogger {
		logger = logging.FromContext(ctx)
	}

	results := make([]records.Result, len(recs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	scheduled := 0
	for i := range recs {
		if gctx.Err() != nil {
			break
		}
		scheduled++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec := recs[i]
			rec.Source = source
			results[i] = e.Match(rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil || ctx.Err() != nil {
		if err == nil {
			err = ctx.Err()
		}
		logger.Warn().
			Str("source", string(source)).
			Int("scheduled", scheduled).
			Int("total", len(recs)).
			Msg("Matching canceled")
		return nil, &errors.CanceledError{
			Operation: "match " + string(source),
			Processed: scheduled,
			Total:     len(recs),
			Err:       err,
		}
	}

	run := &Run{Source: source, Results: results, Summary: Summarize(source, results)}
	logger.Info().
		Str("source", string(source)).
		Int("total", run.Summary.Total).
		Int("resolved", run.Summary.Resolved).
		Float64("match_rate", run.Summary.MatchRate).
		Msg("Matching complete")
	return run, nil
}

// Summarize counts results per bucket and method.
func Summarize(source records.Source, results []records.Result) Summary {
	s := Summary{
		Source:  source,
		Total:   len(results),
		Buckets: make(map[records.Bucket]int),
		Methods: make(map[records.Method]int),
	}
	for _, b := range records.Buckets(source) {
		s.Buckets[b] = 0
	}
	for _, r := range results {
		s.Buckets[r.Bucket]++
		if r.Method != records.MethodNone {
			s.Methods[r.Method]++
		}
		if r.Bucket.Resolved() {
			s.Resolved++
		}
	}
	if s.Total > 0 {
		s.MatchRate = 100 * float64(s.Resolved) / float64(s.Total)
	}
	return s
}

// Buckets groups the results by bucket, preserving input order within each.
// Every bucket of the source is present, possibly empty.
func (r *Run) Buckets() map[records.Bucket][]records.Result {
	out := make(map[records.Bucket][]records.Result)
	for _, b := range records.Buckets(r.Source) {
		out[b] = []records.Result{}
	}
	for _, res := range r.Results {
		out[res.Bucket] = append(out[res.Bucket], res)
	}
	return out
}

// Assignments maps the id of every record in a resolved bucket to its
// proposal id. Low-confidence matches are not assigned.
func (r *Run) Assignments() map[string]string {
	out := make(map[string]string)
	for _, res := range r.Results {
		if res.Bucket.Resolved() && res.ProposalID != nil {
			out[res.SourceID] = *res.ProposalID
		}
	}
	return out
}
