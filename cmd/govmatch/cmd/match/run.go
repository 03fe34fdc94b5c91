package match

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/agentstation/govmatch/internal/appcontext"
	"github.com/agentstation/govmatch/internal/cmd/alerts"
	"github.com/agentstation/govmatch/internal/cmd/output"
	"github.com/agentstation/govmatch/internal/dataset"
	"github.com/agentstation/govmatch/internal/report"
	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/matcher"
	"github.com/agentstation/govmatch/pkg/records"
)

type input struct {
	source records.Source
	path   string
	output string
}

// Execute runs the matching pipeline and prints the run summaries to w.
func Execute(ctx context.Context, app appcontext.Interface, flags *Flags, w io.Writer) error {
	logger := app.Logger()
	notify := app.Alerts()

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))
	var reportFormat report.Format
	if !flags.NoReport {
		if reportFormat, err = report.ParseFormat(flags.ReportFormat); err != nil {
			return err
		}
	}

	r, err := app.Rules(flags.RulesFile)
	if err != nil {
		return err
	}
	workers := flags.Workers
	if workers == 0 {
		workers = app.Workers()
	}

	proposals, err := dataset.LoadProposals(flags.Proposals)
	if err != nil {
		return err
	}
	engine, err := matcher.New(proposals,
		matcher.WithRules(r),
		matcher.WithWorkers(workers),
		matcher.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	logger.Info().
		Int("proposals", len(proposals)).
		Int("collisions", len(engine.SlugCollisions())).
		Msg("Proposal index built")
	if collisions := engine.SlugCollisions(); len(collisions) > 0 {
		alert := alerts.Warningf("%d forum slugs are shared by several proposals; the last one listed wins", len(collisions))
		for _, c := range collisions {
			alert.WithDetails(fmt.Sprintf("%s: %v", c.Slug, c.IDs))
		}
		_ = notify.WriteAlert(alert)
	}

	inputs := []input{
		{records.SourceSnapshot, flags.Snapshot, constants.SnapshotOutputFile},
		{records.SourceTally, flags.Tally, constants.TallyOutputFile},
	}

	var runs []*matcher.Run
	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		ds, err := dataset.LoadRecords(in.path, in.source)
		if err != nil {
			return err
		}
		run, err := engine.MatchAll(ctx, in.source, ds.Records)
		if err != nil {
			return err
		}
		out := filepath.Join(flags.OutDir, in.output)
		if err := ds.WriteAssigned(out, run.Assignments()); err != nil {
			return err
		}
		logger.Info().Str("source", string(in.source)).Str("path", out).Msg("Wrote matched dataset")
		_ = notify.WriteAlert(alerts.Successf("Matched %d of %d %s records", run.Summary.Resolved, run.Summary.Total, in.source).
			WithDetails("written to " + out))
		runs = append(runs, run)
	}

	if !flags.NoReport {
		path, err := report.Build(engine.SlugCollisions(), runs...).WriteFile(flags.OutDir, reportFormat)
		if err != nil {
			return err
		}
		logger.Info().Str("path", path).Msg("Wrote review report")
		_ = notify.WriteAlert(alerts.Successf("Review report written to %s", path))
	}

	return output.WriteRuns(w, runs, format)
}
