// Package match implements the match command.
package match

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/govmatch/internal/appcontext"
	"github.com/agentstation/govmatch/internal/report"
)

// Flags holds the match command flags.
type Flags struct {
	Proposals    string
	Snapshot     string
	Tally        string
	OutDir       string
	RulesFile    string
	Workers      int
	ReportFormat string
	NoReport     bool
}

// NewCommand creates the match command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "match",
		GroupID: "core",
		Short:   "Match tracker records to forum proposals",
		Long: `Match assigns each Snapshot and Tally record to the forum proposal it
belongs to.

The command will:
• Load the canonical proposal list and the tracker exports
• Classify records (protocol grants, elections, junk titles)
• Apply manual overrides, forum links and fuzzy title matching
• Write snapshot_stage_final.json and tally_stage_final.json with proposal_id set
• Write the review report and print a summary

Only confident matches are written; low-confidence candidates appear in the
review report for manual inspection.`,
		Example: `  govmatch match --proposals proposal.json --snapshot snapshot_stage.json --tally tally_stage.json
  govmatch match --proposals proposal.json --tally tally_stage.json --out-dir out
  govmatch match --proposals proposal.json --snapshot snapshot_stage.json --report-format markdown
  govmatch match --proposals proposal.json --tally tally_stage.json --rules rules.yaml -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.Proposals, "proposals", "", "canonical proposal list (JSON array)")
	cmd.Flags().StringVar(&flags.Snapshot, "snapshot", "", "Snapshot export (JSON array)")
	cmd.Flags().StringVar(&flags.Tally, "tally", "", "Tally export (JSON array)")
	cmd.Flags().StringVar(&flags.OutDir, "out-dir", ".", "directory for the matched datasets and the review report")
	cmd.Flags().StringVar(&flags.RulesFile, "rules", "", "rules file overriding thresholds, patterns and overrides")
	cmd.Flags().IntVar(&flags.Workers, "workers", 0, "matching worker pool size (default from config)")
	cmd.Flags().StringVar(&flags.ReportFormat, "report-format", string(report.FormatJSON), "review report format: json, yaml, markdown")
	_ = cmd.RegisterFlagCompletionFunc("report-format", cobra.FixedCompletions(
		[]string{string(report.FormatJSON), string(report.FormatYAML), string(report.FormatMarkdown)},
		cobra.ShellCompDirectiveNoFileComp))
	cmd.Flags().BoolVar(&flags.NoReport, "no-report", false, "skip writing the review report")
	_ = cmd.MarkFlagRequired("proposals")
	cmd.MarkFlagsOneRequired("snapshot", "tally")

	return cmd
}
