// Package prompts implements the prompts command.
package prompts

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/govmatch/internal/appcontext"
	"github.com/agentstation/govmatch/internal/cmd/alerts"
	"github.com/agentstation/govmatch/internal/cmd/output"
	"github.com/agentstation/govmatch/internal/cmd/table"
	"github.com/agentstation/govmatch/internal/dataset"
	"github.com/agentstation/govmatch/internal/prompts"
	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/matcher"
	"github.com/agentstation/govmatch/pkg/records"
)

// Flags holds the prompts command flags.
type Flags struct {
	Proposals        string
	Snapshot         string
	Tally            string
	OutDir           string
	RulesFile        string
	DescriptionLimit int
}

// Stats counts the prompts written for one source.
type Stats struct {
	Source    records.Source `json:"source" yaml:"source"`
	Generated int            `json:"generated" yaml:"generated"`
	Skipped   int            `json:"skipped" yaml:"skipped"`
	Path      string         `json:"path" yaml:"path"`
}

// NewCommand creates the prompts command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "prompts",
		GroupID: "core",
		Short:   "Generate verification prompts for a language model",
		Long: `Prompts renders one verification prompt per tracker record, listing every
candidate proposal, for review by a language model.

Records the matcher excludes (Snapshot grants and elections, junk Tally
titles) get no prompt. Prompts are written to snapshot_prompts.json and
tally_prompts.json in the output directory.`,
		Example: `  govmatch prompts --proposals proposal.json --snapshot snapshot_stage.json --tally tally_stage.json
  govmatch prompts --proposals proposal.json --tally tally_stage.json --out-dir prompts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.Proposals, "proposals", "", "canonical proposal list (JSON array)")
	cmd.Flags().StringVar(&flags.Snapshot, "snapshot", "", "Snapshot export (JSON array)")
	cmd.Flags().StringVar(&flags.Tally, "tally", "", "Tally export (JSON array)")
	cmd.Flags().StringVar(&flags.OutDir, "out-dir", "prompts", "directory for the prompt files")
	cmd.Flags().StringVar(&flags.RulesFile, "rules", "", "rules file deciding which records are skipped")
	cmd.Flags().IntVar(&flags.DescriptionLimit, "description-limit", constants.PromptDescriptionLimit, "characters of a description kept in a prompt")
	_ = cmd.MarkFlagRequired("proposals")
	cmd.MarkFlagsOneRequired("snapshot", "tally")

	return cmd
}

// Execute generates and writes the prompt files, then prints per-source counts.
func Execute(_ context.Context, app appcontext.Interface, flags *Flags, w io.Writer) error {
	logger := app.Logger()

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	r, err := app.Rules(flags.RulesFile)
	if err != nil {
		return err
	}
	proposals, err := dataset.LoadProposals(flags.Proposals)
	if err != nil {
		return err
	}
	engine, err := matcher.New(proposals, matcher.WithRules(r), matcher.WithLogger(logger))
	if err != nil {
		return err
	}
	gen, err := prompts.New(proposals, engine, prompts.WithDescriptionLimit(flags.DescriptionLimit))
	if err != nil {
		return err
	}

	inputs := []struct {
		source records.Source
		path   string
		output string
	}{
		{records.SourceTally, flags.Tally, constants.TallyPromptFile},
		{records.SourceSnapshot, flags.Snapshot, constants.SnapshotPromptFile},
	}

	var stats []Stats
	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		ds, err := dataset.LoadRecords(in.path, in.source)
		if err != nil {
			return err
		}
		ps, skipped, err := gen.Generate(in.source, ds.Records)
		if err != nil {
			return err
		}
		out := filepath.Join(flags.OutDir, in.output)
		if err := prompts.Write(out, ps); err != nil {
			return err
		}
		logger.Info().
			Str("source", string(in.source)).
			Int("generated", len(ps)).
			Int("skipped", skipped).
			Str("path", out).
			Msg("Wrote prompts")
		_ = app.Alerts().WriteAlert(alerts.Successf("Wrote %d %s prompts to %s", len(ps), in.source, out).
			WithDetails(fmt.Sprintf("%d records skipped", skipped)))
		stats = append(stats, Stats{Source: in.source, Generated: len(ps), Skipped: skipped, Path: out})
	}

	format = output.DetectFormat(string(format))
	var data any = stats
	if format == output.FormatTable || format == output.FormatWide {
		data = statsTable(stats)
	}
	return output.NewFormatter(format).Format(w, data)
}

func statsTable(stats []Stats) output.Data {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			string(s.Source),
			table.FormatNumber(int64(s.Generated)),
			strconv.Itoa(s.Skipped),
			s.Path,
		})
	}
	return output.Data{
		Headers:         []string{"Source", "Prompts", "Skipped", "File"},
		Rows:            rows,
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignRight, table.AlignRight, table.AlignLeft},
	}
}
