package overrides_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/overrides"
)

func TestLookup(t *testing.T) {
	table, err := overrides.New(overrides.DefaultTally())
	require.NoError(t, err)
	assert.Equal(t, 5, table.Len())

	tests := []struct {
		title string
		want  string
		ok    bool
	}{
		{"ArbOS 20 Upgrade Discussion", "8b760c14-6f2b-4069-b326-23653e5c20f9", true},
		{"[Constitutional] AIP: arbos 20 atlas", "8b760c14-6f2b-4069-b326-23653e5c20f9", true},
		{"AIP: BoLD + Infura Nova Validator", "4c1d960e-0ff6-47ba-92cf-d0612f84d2f6", true},
		{"Safeguarding Software Developers’ Rights", "08bc7918-8046-444c-b689-ebea647cb0ee", true},
		{"ArbOS 2 activation", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			id, ok := table.Lookup(tt.title)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestLookupOrder(t *testing.T) {
	table, err := overrides.New([]overrides.Entry{
		{Key: "arbos", ProposalID: "first"},
		{Key: "ArbOS 20", ProposalID: "second"},
	})
	require.NoError(t, err)

	id, ok := table.Lookup("ArbOS 20")
	assert.True(t, ok)
	assert.Equal(t, "first", id)
}

func TestSnapshotDefaults(t *testing.T) {
	table, err := overrides.New(overrides.DefaultSnapshot())
	require.NoError(t, err)

	_, ok := table.Lookup("ArbOS 20 Upgrade Discussion")
	assert.False(t, ok)
	_, ok = table.Lookup("Safeguarding Software Developers")
	assert.True(t, ok)
}

func TestNewRejectsEmptyEntries(t *testing.T) {
	_, err := overrides.New([]overrides.Entry{{Key: " ", ProposalID: "x"}})
	assert.True(t, errors.IsValidationError(err))

	_, err = overrides.New([]overrides.Entry{{Key: "x"}})
	assert.True(t, errors.IsValidationError(err))
}

func TestNilTable(t *testing.T) {
	var table *overrides.Table
	_, ok := table.Lookup("anything")
	assert.False(t, ok)
	assert.Zero(t, table.Len())
	assert.Nil(t, table.Entries())
}
