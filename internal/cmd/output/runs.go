package output

import (
	"io"

	"github.com/agentstation/govmatch/internal/cmd/table"
	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/matcher"
	"github.com/agentstation/govmatch/pkg/records"
)

// SummaryTable converts a run summary to table data.
func SummaryTable(s matcher.Summary) Data {
	buckets := records.Buckets(s.Source)
	counts := make([]table.BucketCount, 0, len(buckets))
	for _, b := range buckets {
		counts = append(counts, table.BucketCount{Bucket: b, Count: s.Count(b)})
	}
	return Data(table.SummaryToTableData(s.Source, counts, s.Total, s.Resolved))
}

// RunsToData builds the value printed for runs in the given format. Tables
// show one summary per run and, when wide, the low-confidence results of each
// run ordered by score. Structured formats get the summaries.
func RunsToData(runs []*matcher.Run, format Format) any {
	switch format {
	case FormatTable, FormatWide, "":
		var out []Data
		for _, run := range runs {
			out = append(out, SummaryTable(run.Summary))
		}
		if format == FormatWide {
			for _, run := range runs {
				low := table.ByScoreDesc(run.Buckets()[records.BucketLowConfidence])
				if len(low) == 0 {
					continue
				}
				out = append(out, Data(table.ResultsToTableData(low, constants.ReviewSampleSize)))
			}
		}
		return out
	default:
		summaries := make([]matcher.Summary, 0, len(runs))
		for _, run := range runs {
			summaries = append(summaries, run.Summary)
		}
		return summaries
	}
}

// WriteRuns formats runs to w.
func WriteRuns(w io.Writer, runs []*matcher.Run, format Format) error {
	return NewFormatter(format).Format(w, RunsToData(runs, format))
}
