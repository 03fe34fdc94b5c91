package rules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/overrides"
	"github.com/agentstation/govmatch/pkg/records"
	"github.com/agentstation/govmatch/pkg/rules"
)

func TestDefault(t *testing.T) {
	r := rules.Default()
	require.NoError(t, r.Validate())

	assert.Equal(t, "forum.arbitrum.foundation", r.ForumDomain)
	assert.Equal(t, 70.0, r.Thresholds.SlugAccept)
	assert.Equal(t, 55.0, r.Thresholds.SnapshotTitleFloor)
	assert.Equal(t, 75.0, r.Thresholds.TallyHighConfidence)
	assert.Len(t, r.Overrides.For(records.SourceTally), 5)
	assert.Len(t, r.Overrides.For(records.SourceSnapshot), 1)
	assert.Equal(t, []string{"stip"}, r.LinkFilter.Tokens)
	assert.Len(t, r.Patterns.Election, 9)
	assert.Equal(t, 3, r.Patterns.MinLength)
}

func TestParseMergesOverDefaults(t *testing.T) {
	doc := `
thresholds:
  tally_high_confidence: 80
overrides:
  snapshot:
    - key: Gaming Catalyst
      proposal_id: p-gaming
link_filter:
  tokens: []
`
	r, err := rules.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, 80.0, r.Thresholds.TallyHighConfidence)
	assert.Equal(t, 60.0, r.Thresholds.TallyTitleFloor, "unset threshold keeps default")
	assert.Equal(t, []overrides.Entry{{Key: "Gaming Catalyst", ProposalID: "p-gaming"}}, r.Overrides.Snapshot)
	assert.Len(t, r.Overrides.Tally, 5, "tally table untouched")
	assert.Empty(t, r.LinkFilter.Tokens)
	assert.Equal(t, rules.Default().LinkFilter.Contains, r.LinkFilter.Contains)
	assert.Equal(t, "forum.arbitrum.foundation", r.ForumDomain)
}

func TestParseRejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"threshold out of range", "thresholds:\n  slug_accept: 120\n"},
		{"negative threshold", "thresholds:\n  tally_link: -1\n"},
		{"empty override key", "overrides:\n  tally:\n    - key: \"\"\n      proposal_id: x\n"},
		{"bad election regex", "patterns:\n  election:\n    - \"Election(\"\n"},
		{"domain with path", "forum_domain: forum.example.org/t\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rules.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := rules.Parse([]byte("thresholds:\n  bogus: 1\n"))
	require.Error(t, err)

	var pe *errors.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestLoad(t *testing.T) {
	r, err := rules.Load("")
	require.NoError(t, err)
	assert.Equal(t, rules.Default(), r)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("forum_domain: forum.example.org\n"), 0o600))
	r, err = rules.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "forum.example.org", r.ForumDomain)

	_, err = rules.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr))
}

func TestYAMLRoundTrip(t *testing.T) {
	data, err := rules.Default().YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "tally_high_confidence: 75")

	r, err := rules.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, rules.Default(), r)
}
