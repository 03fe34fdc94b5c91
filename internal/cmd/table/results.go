// Package table provides common table formatting utilities for CLI commands
// and the review report.
package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/records"
	"github.com/agentstation/govmatch/pkg/slugindex"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// BucketCount is one row of a run summary.
type BucketCount struct {
	Bucket records.Bucket
	Count  int
}

// SummaryToTableData renders bucket counts with their share of total.
func SummaryToTableData(source records.Source, counts []BucketCount, total, resolved int) Data {
	rows := make([][]string, 0, len(counts)+1)
	for _, c := range counts {
		rows = append(rows, []string{
			string(source),
			BucketLabel(c.Bucket),
			FormatNumber(int64(c.Count)),
			FormatPercent(c.Count, total),
		})
	}
	rows = append(rows, []string{
		string(source),
		"Total resolved",
		FormatNumber(int64(resolved)),
		FormatPercent(resolved, total),
	})
	return Data{
		Headers:         []string{"Source", "Bucket", "Count", "Share"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight},
	}
}

// ResultsToTableData lists match results. A positive limit keeps only the
// first limit rows.
func ResultsToTableData(results []records.Result, limit int) Data {
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			FormatScore(r.Score),
			Truncate(r.Title, 50),
			Truncate(derefOr(r.MatchedTitle, "-"), 50),
			FormatMethod(r),
		})
	}
	return Data{
		Headers:         []string{"Score", "Title", "Matched Title", "Method"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft},
	}
}

// UnmatchedToTableData lists unmatched results with the links found in them.
func UnmatchedToTableData(results []records.Result, limit int) Data {
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.SourceID,
			Truncate(r.Title, 70),
			string(r.Category),
			FormatLinks(r.Links, 2),
		})
	}
	return Data{
		Headers: []string{"ID", "Title", "Category", "Links"},
		Rows:    rows,
	}
}

// CollisionsToTableData lists slugs claimed by more than one proposal.
func CollisionsToTableData(collisions []slugindex.Collision) Data {
	rows := make([][]string, 0, len(collisions))
	for _, c := range collisions {
		rows = append(rows, []string{c.Slug, strings.Join(c.IDs, ", "), c.IDs[len(c.IDs)-1]})
	}
	return Data{
		Headers: []string{"Slug", "Proposals", "Resolves To"},
		Rows:    rows,
	}
}

// ByScoreDesc returns a copy of results ordered by descending score. Ties
// keep their input order.
func ByScoreDesc(results []records.Result) []records.Result {
	out := append([]records.Result(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScoreValue() > out[j].ScoreValue()
	})
	return out
}

// BucketLabel returns the display name of a bucket.
func BucketLabel(b records.Bucket) string {
	switch b {
	case records.BucketMatchedByLink:
		return "Matched by forum link"
	case records.BucketMatchedByTitle:
		return "Matched by title"
	case records.BucketMatched:
		return "Matched"
	case records.BucketLowConfidence:
		return "Low confidence"
	case records.BucketProtocolGrantSpecific:
		return "Protocol grant (no forum)"
	case records.BucketElection:
		return "Election (no forum)"
	case records.BucketUnmatched:
		return "Unmatched"
	default:
		return string(b)
	}
}

// FormatScore formats an optional score with no decimals.
func FormatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return strconv.FormatFloat(*score, 'f', 0, 64)
}

// FormatMethod shows the method, with the matched slug for link matches.
func FormatMethod(r records.Result) string {
	if r.Method == records.MethodNone {
		return "-"
	}
	if r.Method == records.MethodForumLink && r.MatchedSlug != "" {
		return fmt.Sprintf("%s (%s)", r.Method, Truncate(r.MatchedSlug, constants.MatchedSlugDisplayLength))
	}
	return string(r.Method)
}

// FormatLinks joins up to max links.
func FormatLinks(links []records.Link, max int) string {
	if len(links) == 0 {
		return "-"
	}
	parts := make([]string, 0, max)
	for i, l := range links {
		if i == max {
			parts = append(parts, fmt.Sprintf("+%d", len(links)-max))
			break
		}
		parts = append(parts, l.String())
	}
	return strings.Join(parts, ", ")
}

// FormatPercent formats part/total as a percentage with one decimal.
func FormatPercent(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(part)/float64(total))
}

// FormatNumber formats large numbers with comma separators.
func FormatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}

	// Add commas every 3 digits
	result := ""
	for i, r := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(r)
	}
	return result
}

// Truncate shortens s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n]) + "..."
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
