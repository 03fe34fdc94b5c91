package records

// Method tags how a candidate was assigned.
type Method string

const (
	MethodNone           Method = ""
	MethodManualOverride Method = "manual_override"
	MethodTitleFuzzy     Method = "title_fuzzy"
	MethodForumLink      Method = "forum_link_slug"
)

// Category is the classification of a record. The set is closed.
type Category string

const (
	CategoryStandard              Category = "standard"
	CategoryProtocolGrantSpecific Category = "protocol_grant_specific"
	CategoryElection              Category = "election"
	CategoryGarbage               Category = "garbage"
	CategoryLowConfidence         Category = "low_confidence"
)

// Categories lists every valid category.
func Categories() []Category {
	return []Category{
		CategoryStandard,
		CategoryProtocolGrantSpecific,
		CategoryElection,
		CategoryGarbage,
		CategoryLowConfidence,
	}
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Excluded reports whether the category removes a record from matching.
func (c Category) Excluded() bool {
	return c == CategoryProtocolGrantSpecific || c == CategoryElection || c == CategoryGarbage
}

// Bucket is the terminal review group of a result.
type Bucket string

const (
	BucketMatchedByLink         Bucket = "matched_by_link"
	BucketMatchedByTitle        Bucket = "matched_by_title"
	BucketMatched               Bucket = "matched"
	BucketLowConfidence         Bucket = "low_confidence"
	BucketProtocolGrantSpecific Bucket = "protocol_grant_specific"
	BucketElection              Bucket = "election"
	BucketUnmatched             Bucket = "unmatched"
)

// Buckets returns the review buckets of a source in display order.
func Buckets(source Source) []Bucket {
	if source == SourceTally {
		return []Bucket{BucketMatched, BucketLowConfidence, BucketUnmatched}
	}
	return []Bucket{
		BucketMatchedByLink,
		BucketMatchedByTitle,
		BucketLowConfidence,
		BucketProtocolGrantSpecific,
		BucketElection,
		BucketUnmatched,
	}
}

// Resolved reports whether records in the bucket receive a proposal id in the
// written datasets.
func (b Bucket) Resolved() bool {
	return b == BucketMatched || b == BucketMatchedByLink || b == BucketMatchedByTitle
}

// Result is the outcome of matching one record. A result has a ProposalID if
// and only if it has a Score.
type Result struct {
	SourceID     string   `json:"id" yaml:"id"`
	Source       Source   `json:"source" yaml:"source"`
	Title        string   `json:"title" yaml:"title"`
	Author       string   `json:"author,omitempty" yaml:"author,omitempty"`
	ProposalID   *string  `json:"proposal_id" yaml:"proposal_id"`
	MatchedTitle *string  `json:"matched_title" yaml:"matched_title"`
	Score        *float64 `json:"score" yaml:"score"`
	Method       Method   `json:"method,omitempty" yaml:"method,omitempty"`
	MatchedSlug  string   `json:"matched_slug,omitempty" yaml:"matched_slug,omitempty"`
	Category     Category `json:"category" yaml:"category"`
	Bucket       Bucket   `json:"bucket" yaml:"bucket"`
	Links        []Link   `json:"forum_links" yaml:"forum_links"`
}

// NewResult starts an unmatched, standard result for a record.
func NewResult(rec Record) Result {
	return Result{
		SourceID: rec.ID,
		Source:   rec.Source,
		Title:    rec.Title,
		Author:   rec.Author,
		Category: CategoryStandard,
		Bucket:   BucketUnmatched,
		Links:    []Link{},
	}
}

// Matched reports whether a candidate was assigned.
func (r *Result) Matched() bool {
	return r.ProposalID != nil
}

// Assign sets the candidate, its score and the method together so the
// candidate/score invariant cannot be broken half way.
func (r *Result) Assign(proposalID, matchedTitle string, score float64, method Method) {
	id := proposalID
	s := score
	r.ProposalID = &id
	r.Score = &s
	r.Method = method
	if matchedTitle != "" {
		t := matchedTitle
		r.MatchedTitle = &t
	} else {
		r.MatchedTitle = nil
	}
}

// ScoreValue returns the score, or 0 when no candidate was assigned.
func (r *Result) ScoreValue() float64 {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

// ProposalIDValue returns the assigned proposal id or "".
func (r *Result) ProposalIDValue() string {
	if r.ProposalID == nil {
		return ""
	}
	return *r.ProposalID
}
