package report

import (
	"io"
	"strings"

	md "github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/govmatch/internal/cmd/table"
	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/records"
)

func (r *Review) writeMarkdown(w io.Writer) error {
	doc := md.NewMarkdown(w)
	doc.H1("Proposal Matching Review")
	caser := cases.Title(language.English)

	for _, s := range r.Sections {
		doc.H2(caser.String(string(s.Source)))
		doc.PlainTextf("%s of %s records resolved (%s).",
			table.FormatNumber(int64(s.Summary.Resolved)),
			table.FormatNumber(int64(s.Summary.Total)),
			table.FormatPercent(s.Summary.Resolved, s.Summary.Total))
		doc.LF()

		counts := make([]table.BucketCount, 0, len(s.Groups))
		for _, g := range s.Groups {
			counts = append(counts, table.BucketCount{Bucket: g.Bucket, Count: len(g.Results)})
		}
		doc.Table(tableSet(table.SummaryToTableData(s.Source, counts, s.Summary.Total, s.Summary.Resolved)))

		if link := s.Group(records.BucketMatchedByLink); len(link) > 0 {
			doc.H3("Matched by forum link (sample)")
			doc.Table(tableSet(table.ResultsToTableData(link, constants.ReviewSampleSize)))
			if extra := len(link) - constants.ReviewSampleSize; extra > 0 {
				doc.PlainTextf("... and %d more matched by forum link.", extra)
				doc.LF()
			}
		}

		doc.H3("Low confidence")
		if low := s.Group(records.BucketLowConfidence); len(low) > 0 {
			doc.Table(tableSet(table.ResultsToTableData(table.ByScoreDesc(low), 0)))
		} else {
			doc.PlainText("None.")
			doc.LF()
		}

		doc.H3("Unmatched")
		if unmatched := s.Group(records.BucketUnmatched); len(unmatched) > 0 {
			doc.Table(tableSet(table.UnmatchedToTableData(unmatched, 0)))
		} else {
			doc.PlainText("None.")
			doc.LF()
		}
	}

	if len(r.Collisions) > 0 {
		doc.H2("Slug collisions")
		doc.PlainText("These slugs are claimed by several proposals; lookups resolve to the last one.")
		doc.LF()
		doc.Table(tableSet(table.CollisionsToTableData(r.Collisions)))
	}
	return doc.Build()
}

// tableSet converts table data to a markdown table, escaping cell pipes.
func tableSet(d table.Data) md.TableSet {
	rows := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.ReplaceAll(cell, "|", `\|`)
		}
		rows[i] = cells
	}
	return md.TableSet{Header: d.Headers, Rows: rows}
}
