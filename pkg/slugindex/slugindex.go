// Package slugindex maps forum-style slugs derived from proposal titles back to
// proposal ids, with exact and fuzzy lookup.
package slugindex

import (
	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/records"
	"github.com/agentstation/govmatch/pkg/similarity"
	"github.com/agentstation/govmatch/pkg/textnorm"
)

// Collision is a slug claimed by more than one proposal. IDs are in insertion
// order; the last one is the id the index resolves to.
type Collision struct {
	Slug string   `json:"slug" yaml:"slug"`
	IDs  []string `json:"ids" yaml:"ids"`
}

// Index is immutable after Build and safe for concurrent lookups.
type Index struct {
	keys      []string
	ids       map[string]string
	claimants map[string][]string
	threshold float64
}

// Option configures an Index.
type Option func(*Index)

// WithThreshold sets the minimum fuzzy score at which Resolve accepts a key.
func WithThreshold(score float64) Option {
	return func(ix *Index) {
		ix.threshold = score
	}
}

// Build indexes every proposal under the slug of its raw title and the slug
// of its normalized title. A key shared by several proposals resolves to the
// one inserted last but keeps the position of its first insertion.
func Build(proposals []records.Proposal, opts ...Option) *Index {
	ix := &Index{
		ids:       make(map[string]string, 2*len(proposals)),
		claimants: make(map[string][]string),
		threshold: constants.SlugAcceptScore,
	}
	for _, opt := range opts {
		opt(ix)
	}
	for _, p := range proposals {
		ix.insert(textnorm.Slugify(p.Title), p.ID)
		ix.insert(textnorm.Slugify(textnorm.Normalize(p.Title)), p.ID)
	}
	return ix
}

func (ix *Index) insert(key, id string) {
	if key == "" {
		return
	}
	prev, seen := ix.ids[key]
	if !seen {
		ix.keys = append(ix.keys, key)
		ix.claimants[key] = []string{id}
	} else if prev != id {
		ix.claimants[key] = append(ix.claimants[key], id)
	}
	ix.ids[key] = id
}

// Resolve finds the proposal a slug refers to. An exact key scores 100.
// Otherwise every key is scored with the edit-similarity ratio in insertion
// order and the first key at the strictly highest score is the candidate; it
// is returned when it clears the threshold. On a miss the best score seen is
// still returned.
func (ix *Index) Resolve(slug string) (id string, score float64, ok bool) {
	if id, hit := ix.ids[slug]; hit {
		return id, constants.MaxScore, true
	}
	best := 0.0
	bestKey := ""
	for _, key := range ix.keys {
		if s := similarity.Ratio(slug, key); s > best {
			best, bestKey = s, key
		}
	}
	if bestKey != "" && best >= ix.threshold {
		return ix.ids[bestKey], best, true
	}
	return "", best, false
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int {
	return len(ix.keys)
}

// Keys returns the keys in first-insertion order.
func (ix *Index) Keys() []string {
	return append([]string(nil), ix.keys...)
}

// Collisions lists keys claimed by more than one proposal, in key order.
func (ix *Index) Collisions() []Collision {
	var out []Collision
	for _, key := range ix.keys {
		if ids := ix.claimants[key]; len(ids) > 1 {
			out = append(out, Collision{Slug: key, IDs: append([]string(nil), ids...)})
		}
	}
	return out
}
