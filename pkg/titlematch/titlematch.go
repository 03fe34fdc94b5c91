// Package titlematch finds the canonical proposal whose title best matches a
// record title.
package titlematch

import (
	"github.com/agentstation/govmatch/pkg/records"
	"github.com/agentstation/govmatch/pkg/similarity"
	"github.com/agentstation/govmatch/pkg/textnorm"
)

// Candidate is the best scoring proposal for a query.
type Candidate struct {
	ID    string  `json:"id" yaml:"id"`
	Title string  `json:"title" yaml:"title"`
	Score float64 `json:"score" yaml:"score"`
}

type entry struct {
	id         string
	title      string
	normalized string
}

// Matcher holds the proposal universe with titles normalized once. It is
// immutable and safe for concurrent use.
type Matcher struct {
	entries []entry
}

// New precomputes the normalized title of every proposal.
func New(proposals []records.Proposal) *Matcher {
	m := &Matcher{entries: make([]entry, len(proposals))}
	for i, p := range proposals {
		m.entries[i] = entry{
			id:         p.ID,
			title:      textnorm.Unescape(p.Title),
			normalized: textnorm.Normalize(p.Title),
		}
	}
	return m
}

// Len returns the size of the universe.
func (m *Matcher) Len() int {
	return len(m.entries)
}

// Match scores the normalized query against every proposal with the combined
// metric. The scan is exhaustive and the first proposal at the strictly
// highest score wins. ok is false when no proposal reaches minScore; the
// returned candidate then only carries the best score seen.
func (m *Matcher) Match(title string, minScore float64) (Candidate, bool) {
	query := textnorm.Normalize(title)
	best := Candidate{}
	found := false
	for _, e := range m.entries {
		if s := similarity.Combined(query, e.normalized); s > best.Score {
			best = Candidate{ID: e.id, Title: e.title, Score: s}
			found = true
		}
	}
	if !found || best.Score < minScore {
		return Candidate{Score: best.Score}, false
	}
	return best, true
}
