package slugindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/govmatch/pkg/records"
	"github.com/agentstation/govmatch/pkg/slugindex"
)

func testProposals() []records.Proposal {
	return []records.Proposal{
		{ID: "P1", Title: "AIP-1: Arbitrum Improvement Proposal Framework"},
		{ID: "P2", Title: "[Draft] Treasury Management"},
		{ID: "P3", Title: "Treasury Management"},
		{ID: "P4", Title: "!!!"},
	}
}

func TestBuildKeys(t *testing.T) {
	ix := slugindex.Build(testProposals())

	assert.Equal(t, []string{
		"aip-1-arbitrum-improvement-proposal-framework",
		"1-arbitrum-improvement-proposal-framework",
		"draft-treasury-management",
		"treasury-management",
	}, ix.Keys())
	assert.Equal(t, 4, ix.Len())
}

func TestCollisions(t *testing.T) {
	ix := slugindex.Build(testProposals())

	collisions := ix.Collisions()
	require.Len(t, collisions, 1)
	assert.Equal(t, "treasury-management", collisions[0].Slug)
	assert.Equal(t, []string{"P2", "P3"}, collisions[0].IDs)

	id, score, ok := ix.Resolve("treasury-management")
	assert.True(t, ok)
	assert.Equal(t, "P3", id, "last write wins")
	assert.Equal(t, 100.0, score)
}

func TestResolve(t *testing.T) {
	ix := slugindex.Build(testProposals())

	t.Run("exact", func(t *testing.T) {
		id, score, ok := ix.Resolve("aip-1-arbitrum-improvement-proposal-framework")
		assert.True(t, ok)
		assert.Equal(t, "P1", id)
		assert.Equal(t, 100.0, score)
	})

	t.Run("fuzzy", func(t *testing.T) {
		id, score, ok := ix.Resolve("treasury-managment")
		assert.True(t, ok)
		assert.Equal(t, "P3", id)
		assert.InDelta(t, 97.3, score, 0.1)
	})

	t.Run("miss keeps best score", func(t *testing.T) {
		id, score, ok := ix.Resolve("completely-unrelated-words")
		assert.False(t, ok)
		assert.Empty(t, id)
		assert.Less(t, score, 70.0)
	})

	t.Run("empty slug", func(t *testing.T) {
		_, _, ok := ix.Resolve("")
		assert.False(t, ok)
	})
}

func TestResolveThreshold(t *testing.T) {
	ix := slugindex.Build(testProposals(), slugindex.WithThreshold(99))

	id, score, ok := ix.Resolve("treasury-managment")
	assert.False(t, ok)
	assert.Empty(t, id)
	assert.Greater(t, score, 90.0)
}

func TestResolveTieKeepsFirstKey(t *testing.T) {
	ix := slugindex.Build([]records.Proposal{
		{ID: "A", Title: "abc"},
		{ID: "B", Title: "abd"},
	})
	id, _, ok := ix.Resolve("abcd")
	assert.True(t, ok)
	assert.Equal(t, "A", id)
}

func TestEmptyIndex(t *testing.T) {
	ix := slugindex.Build(nil)
	assert.Zero(t, ix.Len())
	assert.Empty(t, ix.Collisions())

	_, score, ok := ix.Resolve("anything")
	assert.False(t, ok)
	assert.Zero(t, score)
}
