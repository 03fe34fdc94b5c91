package titlematch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/govmatch/pkg/records"
	"github.com/agentstation/govmatch/pkg/similarity"
	"github.com/agentstation/govmatch/pkg/titlematch"
)

func universe() []records.Proposal {
	return []records.Proposal{
		{ID: "P1", Title: "AIP 5: Security Council Expansion", Author: "alice"},
		{ID: "P2", Title: "Fund the Gaming Catalyst &amp; Builders"},
		{ID: "P3", Title: "Treasury Management"},
	}
}

func TestMatch(t *testing.T) {
	m := titlematch.New(universe())
	require.Equal(t, 3, m.Len())

	t.Run("near identical after normalization", func(t *testing.T) {
		c, ok := m.Match("AIP 5 Security Council Expansion", 55)
		require.True(t, ok)
		assert.Equal(t, "P1", c.ID)
		assert.Equal(t, "AIP 5: Security Council Expansion", c.Title)
		assert.GreaterOrEqual(t, c.Score, 90.0)
	})

	t.Run("substring uses discounted partial ratio", func(t *testing.T) {
		c, ok := m.Match("[Draft] Gaming Catalyst", 55)
		require.True(t, ok)
		assert.Equal(t, "P2", c.ID)
		assert.Equal(t, "Fund the Gaming Catalyst & Builders", c.Title, "title is entity decoded")
		assert.InDelta(t, 95.0, c.Score, 1e-9)
	})

	t.Run("no shared runes", func(t *testing.T) {
		c, ok := m.Match("zzzzqqqq", 55)
		assert.False(t, ok)
		assert.Empty(t, c.ID)
		assert.Zero(t, c.Score)
	})

	t.Run("shared space still scores below floor", func(t *testing.T) {
		c, ok := m.Match("zzzz qqqq", 55)
		assert.False(t, ok)
		assert.Empty(t, c.ID)
		assert.Greater(t, c.Score, 0.0)
		assert.Less(t, c.Score, 55.0)
	})

	t.Run("below floor reports best score", func(t *testing.T) {
		c, ok := m.Match("Treasury Mgmt", 99)
		assert.False(t, ok)
		assert.Empty(t, c.ID)
		assert.Greater(t, c.Score, 50.0)
	})
}

func TestMatchScoreIsCombinedMetric(t *testing.T) {
	m := titlematch.New(universe())
	c, ok := m.Match("Security Council Expansion Proposal", 0)
	require.True(t, ok)
	assert.Equal(t, "P1", c.ID)
	assert.Equal(t, similarity.Combined("security council expansion proposal", "5: security council expansion"), c.Score)
}

func TestMatchTieKeepsFirst(t *testing.T) {
	m := titlematch.New([]records.Proposal{
		{ID: "A", Title: "Alpha"},
		{ID: "B", Title: "alpha"},
	})
	c, ok := m.Match("ALPHA", 55)
	require.True(t, ok)
	assert.Equal(t, "A", c.ID)
	assert.Equal(t, 100.0, c.Score)
}

func TestMatchEmptyUniverse(t *testing.T) {
	c, ok := titlematch.New(nil).Match("anything", 0)
	assert.False(t, ok)
	assert.Zero(t, c.Score)
}
