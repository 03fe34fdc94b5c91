// Package rules holds the tunable heuristics of the matching engine: score
// thresholds, manual override tables, the generic link filter and the
// classifier pattern families. Built-in defaults can be partially replaced by
// a YAML rules file.
package rules

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/govmatch/pkg/classify"
	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/links"
	"github.com/agentstation/govmatch/pkg/overrides"
	"github.com/agentstation/govmatch/pkg/records"
)

// Thresholds are the score cut-offs of the selection and bucketing policy,
// all on the 0-100 scale.
type Thresholds struct {
	SlugAccept             float64 `yaml:"slug_accept" json:"slug_accept"`
	SnapshotTitleFloor     float64 `yaml:"snapshot_title_floor" json:"snapshot_title_floor"`
	SnapshotLinkFloor      float64 `yaml:"snapshot_link_floor" json:"snapshot_link_floor"`
	SnapshotHighConfidence float64 `yaml:"snapshot_high_confidence" json:"snapshot_high_confidence"`
	TallyTitleFloor        float64 `yaml:"tally_title_floor" json:"tally_title_floor"`
	TallyLink              float64 `yaml:"tally_link" json:"tally_link"`
	TallyHighConfidence    float64 `yaml:"tally_high_confidence" json:"tally_high_confidence"`
}

// Overrides are the manual assignment tables per source.
type Overrides struct {
	Tally    []overrides.Entry `yaml:"tally" json:"tally"`
	Snapshot []overrides.Entry `yaml:"snapshot" json:"snapshot"`
}

// For returns the table of source.
func (o Overrides) For(source records.Source) []overrides.Entry {
	if source == records.SourceTally {
		return o.Tally
	}
	return o.Snapshot
}

// Rules is the complete, effective rule set.
type Rules struct {
	ForumDomain string            `yaml:"forum_domain" json:"forum_domain"`
	Thresholds  Thresholds        `yaml:"thresholds" json:"thresholds"`
	Overrides   Overrides         `yaml:"overrides" json:"overrides"`
	LinkFilter  links.Filter      `yaml:"link_filter" json:"link_filter"`
	Patterns    classify.Patterns `yaml:"patterns" json:"patterns"`
}

// Default returns the built-in rule set.
func Default() *Rules {
	return &Rules{
		ForumDomain: constants.DefaultForumDomain,
		Thresholds: Thresholds{
			SlugAccept:             constants.SlugAcceptScore,
			SnapshotTitleFloor:     constants.SnapshotTitleFloor,
			SnapshotLinkFloor:      constants.SnapshotLinkFloor,
			SnapshotHighConfidence: constants.SnapshotHighConfidence,
			TallyTitleFloor:        constants.TallyTitleFloor,
			TallyLink:              constants.TallyLinkScore,
			TallyHighConfidence:    constants.TallyHighConfidence,
		},
		Overrides: Overrides{
			Tally:    overrides.DefaultTally(),
			Snapshot: overrides.DefaultSnapshot(),
		},
		LinkFilter: links.DefaultFilter(),
		Patterns:   classify.DefaultPatterns(),
	}
}

// Load reads a YAML rules file and merges it over the defaults. An empty path
// returns the defaults.
func Load(path string) (*Rules, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // rules path is supplied by the operator
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	return r, nil
}

// Parse merges YAML rules over the defaults and validates the result. Keys
// present in the document replace the default value; lists are replaced
// whole, never appended to.
func Parse(data []byte) (*Rules, error) {
	var p patch
	if err := yaml.UnmarshalWithOptions(data, &p, yaml.Strict()); err != nil {
		return nil, errors.NewParseError("yaml", "", yaml.FormatError(err, false, true), err)
	}
	r := Default()
	p.apply(r)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks threshold ranges and that every table and pattern can be
// built.
func (r *Rules) Validate() error {
	checks := []struct {
		field string
		value float64
	}{
		{"thresholds.slug_accept", r.Thresholds.SlugAccept},
		{"thresholds.snapshot_title_floor", r.Thresholds.SnapshotTitleFloor},
		{"thresholds.snapshot_link_floor", r.Thresholds.SnapshotLinkFloor},
		{"thresholds.snapshot_high_confidence", r.Thresholds.SnapshotHighConfidence},
		{"thresholds.tally_title_floor", r.Thresholds.TallyTitleFloor},
		{"thresholds.tally_link", r.Thresholds.TallyLink},
		{"thresholds.tally_high_confidence", r.Thresholds.TallyHighConfidence},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > constants.MaxScore {
			return errors.NewValidationError(c.field, c.value, "must be between 0 and 100")
		}
	}
	if r.Patterns.MinLength < 0 {
		return errors.NewValidationError("patterns.min_title_length", r.Patterns.MinLength, "must not be negative")
	}
	if _, err := links.NewExtractor(r.ForumDomain); err != nil {
		return err
	}
	if _, err := overrides.New(r.Overrides.Tally); err != nil {
		return fmt.Errorf("tally overrides: %w", err)
	}
	if _, err := overrides.New(r.Overrides.Snapshot); err != nil {
		return fmt.Errorf("snapshot overrides: %w", err)
	}
	if _, err := classify.NewSnapshot(r.Patterns); err != nil {
		return err
	}
	return nil
}

// YAML renders the rule set in the rules file format.
func (r *Rules) YAML() ([]byte, error) {
	data, err := yaml.MarshalWithOptions(r, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("marshaling rules: %w", err)
	}
	return data, nil
}
