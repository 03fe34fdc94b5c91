package prompts_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/govmatch/internal/prompts"
	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/logging"
	"github.com/agentstation/govmatch/pkg/matcher"
	"github.com/agentstation/govmatch/pkg/records"
)

func proposals() []records.Proposal {
	return []records.Proposal{
		{ID: "P1", Title: "Treasury &amp; Grants", Author: "alice"},
		{ID: "P2", Title: "Fund the Gaming Catalyst Program"},
	}
}

func newGenerator(t *testing.T, opts ...prompts.Option) *prompts.Generator {
	t.Helper()
	e, err := matcher.New(proposals(), matcher.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	g, err := prompts.New(proposals(), e, opts...)
	require.NoError(t, err)
	return g
}

func TestGenerateSnapshot(t *testing.T) {
	g := newGenerator(t)
	recs := []records.Record{
		{ID: "s1", Title: "Gaming &amp; Catalyst", Author: "bob", Body: "Fund games"},
		{ID: "s2", Title: ""},
		{ID: "s3", Title: "Security Council Election Cohort 1"},
		{ID: "s4", Title: "Arcade STIP Proposal - Round 1"},
		{ID: "s5", Title: "No body"},
	}

	got, skipped, err := g.Generate(records.SourceSnapshot, recs)
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, got, 2)

	p := got[0]
	assert.Equal(t, "s1", p.ID)
	assert.Equal(t, "Gaming & Catalyst", p.Title)
	assert.True(t, strings.HasPrefix(p.Prompt, "You are matching a governance proposal from Snapshot to its canonical forum proposal from the Arbitrum DAO forum."))
	assert.Contains(t, p.Prompt, "## Snapshot Entry to Match:")
	assert.Contains(t, p.Prompt, "- **Title**: Gaming & Catalyst\n")
	assert.Contains(t, p.Prompt, "- **Author**: bob\n")
	assert.Contains(t, p.Prompt, "**Description excerpt**:\nFund games\n")
	assert.Contains(t, p.Prompt, "## Candidate Forum Proposals (2 total):")
	assert.Contains(t, p.Prompt, "- **ID**: `P1`\n  **Title**: Treasury & Grants\n  **Author**: alice\n\n- **ID**: `P2`\n  **Title**: Fund the Gaming Catalyst Program\n  **Author**: Unknown\n")
	assert.Contains(t, p.Prompt, `{"proposal_id": "the-matching-uuid-or-null"`)

	assert.Contains(t, got[1].Prompt, "No description available")
	assert.Contains(t, got[1].Prompt, "- **Author**: Unknown\n")
}

func TestGenerateTally(t *testing.T) {
	g := newGenerator(t)
	recs := []records.Record{
		{ID: "t1", Title: "AIP 4"},
		{ID: "t2", Title: "ab"},
		{ID: "t3", Title: "Security Council Election Cohort 1", Body: "elect"},
	}

	got, skipped, err := g.Generate(records.SourceTally, recs)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, got, 1)
	assert.Equal(t, "t3", got[0].ID)
	assert.Contains(t, got[0].Prompt, "from Tally to its canonical")
	assert.Contains(t, got[0].Prompt, "Analyze the Tally entry")
}

func TestGenerateUnknownSource(t *testing.T) {
	_, _, err := newGenerator(t).Generate(records.Source("discourse"), nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestGenerateSkipsGrantTitlesInAnyCase(t *testing.T) {
	g := newGenerator(t)
	recs := []records.Record{
		{ID: "s1", Title: "foo stip addendum"},
		{ID: "s2", Title: "Gaming Catalyst"},
	}

	got, skipped, err := g.Generate(records.SourceSnapshot, recs)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, got, 1)
	assert.Equal(t, "s2", got[0].ID)
}

func TestNewRequiresSkipper(t *testing.T) {
	_, err := prompts.New(proposals(), nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"empty", "", 10, "No description available"},
		{"short", "a &lt;b&gt;", 10, "a <b>"},
		{"exact", "abcde", 5, "abcde"},
		{"long", "abcdef", 5, "abcde...[truncated]"},
		{"runes", "ééééé€", 5, "ééééé...[truncated]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prompts.Excerpt(tt.text, tt.limit))
		})
	}
}

func TestDescriptionLimitOption(t *testing.T) {
	g := newGenerator(t, prompts.WithDescriptionLimit(4), prompts.WithForumName("Example forum"))
	got, _, err := g.Generate(records.SourceSnapshot, []records.Record{{ID: "s1", Title: "Fund games", Body: "abcdefgh"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Prompt, "abcd...[truncated]")
	assert.Contains(t, got[0].Prompt, "from the Example forum.")
}

func TestWriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts", "tally_prompts.json")
	in := []prompts.Prompt{{ID: "t1", Title: "A <b>", Prompt: "match A <b>"}}
	require.NoError(t, prompts.Write(path, in))

	got, err := prompts.Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	require.NoError(t, prompts.Write(path, nil))
	got, err = prompts.Load(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}
