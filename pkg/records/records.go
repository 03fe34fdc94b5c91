// Package records defines the data model shared by the matching engine and its
// collaborators: canonical proposals, source records from the two trackers, the
// links found in record bodies, and the per-record match result.
package records

import "fmt"

// Source identifies which external tracker a record came from.
type Source string

const (
	// SourceSnapshot records carry a markdown body and use the permissive policy.
	SourceSnapshot Source = "snapshot"
	// SourceTally records carry a description and use the stricter policy.
	SourceTally Source = "tally"
)

// String returns the string representation of a source.
func (s Source) String() string {
	return string(s)
}

// BodyField returns the JSON field holding the free text of a record.
func (s Source) BodyField() string {
	if s == SourceTally {
		return "description"
	}
	return "body"
}

// Validate reports whether the source is one of the known trackers.
func (s Source) Validate() error {
	switch s {
	case SourceSnapshot, SourceTally:
		return nil
	default:
		return fmt.Errorf("unknown source %q", string(s))
	}
}

// Proposal is a canonical forum proposal. The full set is the fixed universe
// every record is matched against.
type Proposal struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Author string `json:"author_name,omitempty" yaml:"author_name,omitempty"`
}

// Record is a governance record from one of the trackers. Optional fields are
// empty when absent in the input.
type Record struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Author string `json:"author_name,omitempty" yaml:"author_name,omitempty"`
	Body   string `json:"body,omitempty" yaml:"body,omitempty"`
	Source Source `json:"source" yaml:"source"`
}

// Link is a forum topic reference found in a record body.
type Link struct {
	Slug    string `json:"slug" yaml:"slug"`
	TopicID *int64 `json:"topic_id" yaml:"topic_id"`
}

// String renders the link as a forum path fragment.
func (l Link) String() string {
	if l.TopicID == nil {
		return l.Slug
	}
	return fmt.Sprintf("%s/%d", l.Slug, *l.TopicID)
}
