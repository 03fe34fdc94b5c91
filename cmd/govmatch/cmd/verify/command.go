// Package verify implements the verify command.
package verify

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/agentstation/govmatch/internal/appcontext"
	"github.com/agentstation/govmatch/internal/cmd/alerts"
	"github.com/agentstation/govmatch/internal/cmd/output"
	"github.com/agentstation/govmatch/internal/cmd/table"
	"github.com/agentstation/govmatch/internal/dataset"
	"github.com/agentstation/govmatch/internal/llm"
	"github.com/agentstation/govmatch/internal/prompts"
	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/logging"
)

// Flags holds the verify command flags.
type Flags struct {
	Prompts string
	Output  string
	Model   string
	RPS     float64
	Limit   int
}

// NewCommand creates the verify command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "verify",
		GroupID: "core",
		Short:   "Ask Gemini to confirm matches for a prompt file",
		Long: `Verify sends each prompt of a prompt file to Gemini and records the
proposal it picks, its confidence and its reasoning.

Requests are sent one at a time under a rate limit. A failed request is
recorded in its verdict and the run continues. On interrupt the verdicts
collected so far are still written.

Requires GEMINI_API_KEY (or GOOGLE_API_KEY), or a Vertex AI project.`,
		Example: `  govmatch verify --prompts prompts/tally_prompts.json
  govmatch verify --prompts prompts/snapshot_prompts.json --model gemini-2.5-pro --rps 0.5
  govmatch verify --prompts prompts/tally_prompts.json --limit 10 --out verdicts/tally.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.Prompts, "prompts", "", "prompt file written by the prompts command")
	cmd.Flags().StringVar(&flags.Output, "out", "", "verdicts file (default verdicts.json next to the prompt file)")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Gemini model (default from config)")
	cmd.Flags().Float64Var(&flags.RPS, "rps", constants.DefaultVerifyRate, "requests per second")
	cmd.Flags().IntVar(&flags.Limit, "limit", 0, "verify only the first N prompts")
	_ = cmd.MarkFlagRequired("prompts")

	return cmd
}

// Execute verifies the prompts, writes the verdicts and prints a breakdown
// by confidence.
func Execute(ctx context.Context, app appcontext.Interface, flags *Flags, w io.Writer) error {
	logger := app.Logger()

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	if flags.RPS <= 0 {
		return errors.NewValidationError("rps", flags.RPS, "must be positive")
	}
	if flags.Limit < 0 {
		return errors.NewValidationError("limit", flags.Limit, "must not be negative")
	}

	ps, err := prompts.Load(flags.Prompts)
	if err != nil {
		return err
	}
	if flags.Limit > 0 && len(ps) > flags.Limit {
		ps = ps[:flags.Limit]
	}

	verifier, err := app.Verifier(ctx, flags.Model)
	if err != nil {
		return err
	}

	out := flags.Output
	if out == "" {
		out = filepath.Join(filepath.Dir(flags.Prompts), constants.VerdictsFile)
	}

	limiter := rate.NewLimiter(rate.Limit(flags.RPS), 1)
	verdicts, runErr := llm.VerifyAll(logging.WithLogger(ctx, logger), verifier, ps, limiter)
	if err := dataset.WriteJSON(out, verdicts); err != nil {
		return err
	}
	logger.Info().
		Int("verdicts", len(verdicts)).
		Int("failed", verdicts.Failed()).
		Str("path", out).
		Msg("Wrote verdicts")
	if failed := verdicts.Failed(); failed > 0 {
		alert := alerts.Warningf("%d of %d verifications failed; rerun them with a lower --rps", failed, len(verdicts))
		for _, v := range verdicts {
			if v.Error != "" {
				alert.WithDetails(v.ID + ": " + v.Error)
			}
		}
		_ = app.Alerts().WriteAlert(alert)
	}
	_ = app.Alerts().WriteAlert(alerts.Successf("Wrote %d verdicts to %s", len(verdicts), out))
	if runErr != nil {
		return runErr
	}

	format = output.DetectFormat(string(format))
	var data any = verdicts
	if format == output.FormatTable || format == output.FormatWide {
		data = breakdown(verdicts)
	}
	return output.NewFormatter(format).Format(w, data)
}

func breakdown(vs llm.Verdicts) output.Data {
	counts := make(map[string]int)
	for _, v := range vs {
		key := string(v.Confidence)
		if v.Error != "" {
			key = "error"
		}
		counts[key]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, strconv.Itoa(counts[k]), table.FormatPercent(counts[k], len(vs))})
	}
	return output.Data{
		Headers:         []string{"Confidence", "Count", "Share"},
		Rows:            rows,
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignRight, table.AlignRight},
	}
}
