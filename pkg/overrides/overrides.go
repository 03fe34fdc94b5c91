// Package overrides holds the manual title-to-proposal assignments that take
// precedence over every automatic strategy.
package overrides

import (
	"strings"

	"github.com/agentstation/govmatch/pkg/errors"
)

// Entry assigns ProposalID to any title containing Key, ignoring case.
type Entry struct {
	Key        string `yaml:"key" json:"key"`
	ProposalID string `yaml:"proposal_id" json:"proposal_id"`
}

// Table is an ordered override list; earlier entries win.
type Table struct {
	entries []Entry
	lowered []string
}

// New validates entries and returns a table preserving their order.
func New(entries []Entry) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		lowered: make([]string, 0, len(entries)),
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Key) == "" {
			return nil, errors.NewValidationError("overrides.key", i, "override key must not be empty")
		}
		if strings.TrimSpace(e.ProposalID) == "" {
			return nil, errors.NewValidationError("overrides.proposal_id", e.Key, "override target must not be empty")
		}
		t.entries = append(t.entries, e)
		t.lowered = append(t.lowered, strings.ToLower(e.Key))
	}
	return t, nil
}

// Lookup returns the proposal id of the first entry whose key occurs in title.
func (t *Table) Lookup(title string) (string, bool) {
	if t == nil || title == "" {
		return "", false
	}
	lower := strings.ToLower(title)
	for i, key := range t.lowered {
		if strings.Contains(lower, key) {
			return t.entries[i].ProposalID, true
		}
	}
	return "", false
}

// Entries returns a copy of the table in lookup order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	return append([]Entry(nil), t.entries...)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// DefaultTally returns the built-in tally overrides.
func DefaultTally() []Entry {
	return []Entry{
		{Key: "ArbOS 20", ProposalID: "8b760c14-6f2b-4069-b326-23653e5c20f9"},
		{Key: "BoLD + Infura Nova Validator", ProposalID: "4c1d960e-0ff6-47ba-92cf-d0612f84d2f6"},
		{Key: "Subsidy Fund Proposal from the ADPC", ProposalID: "5b5c2bee-ea99-411a-afbb-a1df3f8d1b11"},
		{Key: "ArbOS 51", ProposalID: "a952f794-6c33-453b-9e30-83e67dda98e2"},
		{Key: "Safeguarding Software Developers", ProposalID: "08bc7918-8046-444c-b689-ebea647cb0ee"},
	}
}

// DefaultSnapshot returns the built-in snapshot overrides.
func DefaultSnapshot() []Entry {
	return []Entry{
		{Key: "Safeguarding Software Developers", ProposalID: "08bc7918-8046-444c-b689-ebea647cb0ee"},
	}
}
