// Package matcher assigns canonical proposal ids to tracker records. For each
// record it classifies, checks the manual overrides, then weighs a title match
// against any forum links in the record body and buckets the outcome by
// confidence.
package matcher

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/govmatch/pkg/classify"
	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/links"
	"github.com/agentstation/govmatch/pkg/overrides"
	"github.com/agentstation/govmatch/pkg/records"
	"github.com/agentstation/govmatch/pkg/rules"
	"github.com/agentstation/govmatch/pkg/slugindex"
	"github.com/agentstation/govmatch/pkg/textnorm"
	"github.com/agentstation/govmatch/pkg/titlematch"
)

// Engine holds the read-only matching context built from the proposal
// universe. It is safe for concurrent use.
type Engine struct {
	rules      *rules.Rules
	thresholds rules.Thresholds
	proposals  []records.Proposal
	byID       map[string]records.Proposal

	slugs     *slugindex.Index
	titles    *titlematch.Matcher
	extractor *links.Extractor
	filter    links.Filter

	snapshotClassifier *classify.Classifier
	promptClassifier   *classify.Classifier
	tallyClassifier    *classify.Classifier
	snapshotOverrides  *overrides.Table
	tallyOverrides     *overrides.Table

	workers   int
	logger    *zerolog.Logger
	ownLogger bool
}

// New builds an Engine over proposals.
func New(proposals []records.Proposal, opts ...Option) (*Engine, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	if err := o.rules.Validate(); err != nil {
		return nil, err
	}

	logger := o.loggerOrDefault()
	byID := make(map[string]records.Proposal, len(proposals))
	for i, p := range proposals {
		if p.ID == "" {
			return nil, errors.NewValidationError("proposals.id", i, "proposal id must not be empty")
		}
		if _, dup := byID[p.ID]; dup {
			logger.Warn().Str("proposal_id", p.ID).Msg("Duplicate proposal id; keeping the first")
			continue
		}
		byID[p.ID] = p
	}

	extractor, err := links.NewExtractor(o.rules.ForumDomain)
	if err != nil {
		return nil, err
	}
	snapshotClassifier, err := classify.NewSnapshot(o.rules.Patterns)
	if err != nil {
		return nil, err
	}
	promptClassifier, err := classify.NewPromptSkip(o.rules.Patterns)
	if err != nil {
		return nil, err
	}
	snapshotOverrides, err := overrides.New(o.rules.Overrides.Snapshot)
	if err != nil {
		return nil, err
	}
	tallyOverrides, err := overrides.New(o.rules.Overrides.Tally)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		rules:              o.rules,
		thresholds:         o.rules.Thresholds,
		proposals:          append([]records.Proposal(nil), proposals...),
		byID:               byID,
		slugs:              slugindex.Build(proposals, slugindex.WithThreshold(o.rules.Thresholds.SlugAccept)),
		titles:             titlematch.New(proposals),
		extractor:          extractor,
		filter:             o.rules.LinkFilter,
		snapshotClassifier: snapshotClassifier,
		promptClassifier:   promptClassifier,
		tallyClassifier:    classify.NewTally(o.rules.Patterns),
		snapshotOverrides:  snapshotOverrides,
		tallyOverrides:     tallyOverrides,
		workers:            o.workers,
		logger:             logger,
		ownLogger:          o.logger != nil,
	}
	e.logIndex()
	return e, nil
}

func (e *Engine) logIndex() {
	collisions := e.slugs.Collisions()
	e.logger.Debug().
		Int("proposals", len(e.proposals)).
		Int("slug_keys", e.slugs.Len()).
		Int("slug_collisions", len(collisions)).
		Msg("Built matching index")
	for _, c := range collisions {
		e.logger.Warn().
			Str("slug", c.Slug).
			Strs("proposal_ids", c.IDs).
			Msg("Slug claimed by several proposals; last one wins")
	}
	for _, table := range []*overrides.Table{e.tallyOverrides, e.snapshotOverrides} {
		for _, entry := range table.Entries() {
			if _, ok := e.byID[entry.ProposalID]; !ok {
				e.logger.Warn().
					Str("key", entry.Key).
					Str("proposal_id", entry.ProposalID).
					Msg("Override target is not in the proposal universe")
			}
		}
	}
}

// Rules returns the effective rule set.
func (e *Engine) Rules() *rules.Rules {
	return e.rules
}

// Proposals returns the proposal universe in input order.
func (e *Engine) Proposals() []records.Proposal {
	return e.proposals
}

// Proposal looks up a proposal by id.
func (e *Engine) Proposal(id string) (records.Proposal, bool) {
	p, ok := e.byID[id]
	return p, ok
}

// SlugCollisions lists the slugs claimed by more than one proposal.
func (e *Engine) SlugCollisions() []slugindex.Collision {
	return e.slugs.Collisions()
}

// Match matches a single record according to its source. A record with an
// unknown source is returned unmatched.
func (e *Engine) Match(rec records.Record) records.Result {
	var res records.Result
	switch rec.Source {
	case records.SourceSnapshot:
		res = e.matchSnapshot(rec)
	case records.SourceTally:
		res = e.matchTally(rec)
	default:
		res = records.NewResult(rec)
	}
	e.logger.Debug().
		Str("source", string(rec.Source)).
		Str("record_id", rec.ID).
		Str("bucket", string(res.Bucket)).
		Str("method", string(res.Method)).
		Float64("score", res.ScoreValue()).
		Msg("Matched record")
	return res
}

// Excluded reports whether rec is removed from matching before any candidate
// is searched: snapshot records without a title or classified as grant
// specific or election, and garbage tally records.
func (e *Engine) Excluded(rec records.Record) bool {
	switch rec.Source {
	case records.SourceSnapshot:
		return rec.Title == "" || e.snapshotClassifier.Classify(rec.Title).Excluded()
	case records.SourceTally:
		return e.tallyClassifier.Classify(rec.Title).Excluded()
	default:
		return false
	}
}

// SkipPrompt reports whether rec gets no verification prompt. It follows
// Excluded except that snapshot grant-specific titles are recognized in any
// case.
func (e *Engine) SkipPrompt(rec records.Record) bool {
	if rec.Source == records.SourceSnapshot {
		return rec.Title == "" || e.promptClassifier.Classify(rec.Title).Excluded()
	}
	return e.Excluded(rec)
}

func (e *Engine) matchSnapshot(rec records.Record) records.Result {
	res := records.NewResult(rec)
	th := e.thresholds

	if rec.Title == "" {
		res.Links = e.extract(rec.Body)
		return res
	}

	switch e.snapshotClassifier.Classify(rec.Title) {
	case records.CategoryProtocolGrantSpecific:
		res.Category = records.CategoryProtocolGrantSpecific
		res.Bucket = records.BucketProtocolGrantSpecific
		res.Links = e.extract(rec.Body)
		return res
	case records.CategoryElection:
		res.Category = records.CategoryElection
		res.Bucket = records.BucketElection
		return res
	}

	if id, ok := e.snapshotOverrides.Lookup(rec.Title); ok {
		e.assignOverride(&res, id)
		res.Bucket = records.BucketMatchedByTitle
		return res
	}

	res.Links = e.extract(rec.Body)
	title, titleOK := e.titles.Match(rec.Title, th.SnapshotTitleFloor)
	link, linkOK := e.bestLink(res.Links)

	switch {
	case titleOK && title.Score >= th.SnapshotHighConfidence:
		e.assignTitle(&res, title)
	case linkOK && link.score >= th.SnapshotHighConfidence:
		e.assignLink(&res, link)
	case titleOK:
		e.assignTitle(&res, title)
	case linkOK && link.score >= th.SnapshotLinkFloor:
		e.assignLink(&res, link)
	}

	switch {
	case !res.Matched():
		res.Bucket = records.BucketUnmatched
	case res.ScoreValue() >= th.SnapshotHighConfidence && res.Method == records.MethodForumLink:
		res.Bucket = records.BucketMatchedByLink
	case res.ScoreValue() >= th.SnapshotHighConfidence:
		res.Bucket = records.BucketMatchedByTitle
	default:
		res.Bucket = records.BucketLowConfidence
		res.Category = records.CategoryLowConfidence
	}
	return res
}

func (e *Engine) matchTally(rec records.Record) records.Result {
	res := records.NewResult(rec)
	th := e.thresholds

	if e.tallyClassifier.Classify(rec.Title) == records.CategoryGarbage {
		res.Category = records.CategoryGarbage
		return res
	}

	if id, ok := e.tallyOverrides.Lookup(rec.Title); ok {
		e.assignOverride(&res, id)
	} else {
		res.Links = e.extract(rec.Body)
		title, titleOK := e.titles.Match(rec.Title, th.TallyTitleFloor)
		link, linkOK := e.bestLink(res.Links)

		switch {
		case linkOK && link.score >= th.TallyLink && !titleOK:
			e.assignLink(&res, link)
		case titleOK:
			e.assignTitle(&res, title)
		}
	}

	switch {
	case !res.Matched():
		res.Bucket = records.BucketUnmatched
	case res.ScoreValue() >= th.TallyHighConfidence:
		res.Bucket = records.BucketMatched
	default:
		res.Bucket = records.BucketLowConfidence
		res.Category = records.CategoryLowConfidence
	}
	return res
}

func (e *Engine) extract(body string) []records.Link {
	found := e.extractor.Extract(body)
	if found == nil {
		return []records.Link{}
	}
	return found
}

type linkCandidate struct {
	id    string
	slug  string
	score float64
}

// bestLink resolves every non-generic link and keeps the first one at the
// strictly highest accepted score.
func (e *Engine) bestLink(ls []records.Link) (linkCandidate, bool) {
	var best linkCandidate
	found := false
	for _, l := range ls {
		if e.filter.Excluded(l.Slug) {
			continue
		}
		id, score, ok := e.slugs.Resolve(l.Slug)
		if ok && score > best.score {
			best = linkCandidate{id: id, slug: l.Slug, score: score}
			found = true
		}
	}
	return best, found
}

func (e *Engine) assignOverride(res *records.Result, id string) {
	res.Assign(id, e.canonicalTitle(id), constants.MaxScore, records.MethodManualOverride)
}

func (e *Engine) assignTitle(res *records.Result, c titlematch.Candidate) {
	res.Assign(c.ID, c.Title, c.Score, records.MethodTitleFuzzy)
}

func (e *Engine) assignLink(res *records.Result, c linkCandidate) {
	res.Assign(c.id, e.canonicalTitle(c.id), c.score, records.MethodForumLink)
	res.MatchedSlug = c.slug
}

// canonicalTitle returns the decoded title of id, or "" for ids outside the
// universe.
func (e *Engine) canonicalTitle(id string) string {
	p, ok := e.byID[id]
	if !ok {
		return ""
	}
	return textnorm.Unescape(p.Title)
}
