package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/govmatch/internal/cmd/table"
	"github.com/agentstation/govmatch/pkg/matcher"
	"github.com/agentstation/govmatch/pkg/records"
)

func testRun() *matcher.Run {
	matched := records.NewResult(records.Record{ID: "t1", Title: "Fund the Gaming Catalyst", Source: records.SourceTally})
	matched.Assign("P3", "Fund the Gaming Catalyst Program", 95, records.MethodTitleFuzzy)
	matched.Bucket = records.BucketMatched

	low := records.NewResult(records.Record{ID: "t2", Title: "Catalyst follow up", Source: records.SourceTally})
	low.Assign("P3", "Fund the Gaming Catalyst Program", 64, records.MethodTitleFuzzy)
	low.Bucket = records.BucketLowConfidence
	low.Category = records.CategoryLowConfidence

	none := records.NewResult(records.Record{ID: "t3", Title: "Something else", Source: records.SourceTally})

	results := []records.Result{matched, low, none}
	return &matcher.Run{Source: records.SourceTally, Results: results, Summary: matcher.Summarize(records.SourceTally, results)}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"wide", FormatWide, false},
		{"", "", false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestJSONFormatterDoesNotEscapeHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, map[string]string{"title": "A & B <c>"}))
	assert.Contains(t, buf.String(), `"A & B <c>"`)
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := Data{
		Headers:         []string{"Name", "Count"},
		Rows:            [][]string{{"matched", "12"}},
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignRight},
	}
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))
	out := buf.String()
	assert.Contains(t, out, "matched")
	assert.Contains(t, out, "12")
}

func TestWriteRunsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRuns(&buf, []*matcher.Run{testRun()}, FormatTable))
	out := buf.String()
	assert.Contains(t, out, "Low confidence")
	assert.Contains(t, out, "Total resolved")
	assert.NotContains(t, out, "Catalyst follow up")
}

func TestWriteRunsWide(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRuns(&buf, []*matcher.Run{testRun()}, FormatWide))
	assert.Contains(t, buf.String(), "Catalyst follow up")
}

func TestWriteRunsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRuns(&buf, []*matcher.Run{testRun()}, FormatJSON))

	var got []matcher.Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Total)
	assert.Equal(t, 1, got[0].Resolved)
	assert.Equal(t, 1, got[0].Count(records.BucketLowConfidence))
}

func TestWriteRunsYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRuns(&buf, []*matcher.Run{testRun()}, FormatYAML))
	assert.Contains(t, buf.String(), "source: tally")
	assert.Contains(t, buf.String(), "total: 3")
}
