// Package classify tags records that belong to non-matchable families before
// any matching is attempted.
package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/records"
)

// Default pattern families.
var (
	// GrantSpecificPatterns are case sensitive and anchored at the end of the
	// title: per-protocol incentive applications that have no forum proposal.
	GrantSpecificPatterns = []string{
		`STIP Proposal - Round 1$`,
		`STIP Addendum$`,
		`LTIPP Council Recommended Proposal$`,
		`STIP Bridge Challenge$`,
		`LTIPP \[Post Council Feedback\]$`,
	}

	// ElectionPatterns match anywhere in the title, ignoring case.
	ElectionPatterns = []string{
		`Security Council.*Election`,
		`reconfirmation.*council`,
		`D\.A\.O\..*Elections`,
		`Domain Allocator Election`,
		`Council Election`,
		`ARDC.*Election`,
		`Advisor Elections`,
		`Election of.*Members`,
		`Election of.*Manager`,
	}

	// GarbageTitles are known junk tally titles, compared after trimming.
	GarbageTitles = []string{"art dra", "Arcubtang", "AIP 4"}
)

// Predicate reports whether a title belongs to a family.
type Predicate func(title string) bool

// Rule is a tagged predicate.
type Rule struct {
	Category records.Category
	Match    Predicate
}

// Classifier evaluates its rules in order; the first match wins.
type Classifier struct {
	rules []Rule
}

// New returns a classifier over rules.
func New(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the category of title, or CategoryStandard when no rule
// matches.
func (c *Classifier) Classify(title string) records.Category {
	for _, r := range c.rules {
		if r.Match(title) {
			return r.Category
		}
	}
	return records.CategoryStandard
}

// Patterns holds the configurable inputs of the two default classifiers.
type Patterns struct {
	GrantSpecific []string `yaml:"grant_specific" json:"grant_specific"`
	Election      []string `yaml:"election" json:"election"`
	GarbageTitles []string `yaml:"garbage_titles" json:"garbage_titles"`
	MinLength     int      `yaml:"min_title_length" json:"min_title_length"`
}

// DefaultPatterns returns copies of the built-in families.
func DefaultPatterns() Patterns {
	return Patterns{
		GrantSpecific: append([]string(nil), GrantSpecificPatterns...),
		Election:      append([]string(nil), ElectionPatterns...),
		GarbageTitles: append([]string(nil), GarbageTitles...),
		MinLength:     constants.MinTitleLength,
	}
}

// NewSnapshot builds the snapshot classifier: grant-specific, then election.
func NewSnapshot(p Patterns) (*Classifier, error) {
	return newSnapshot(p, false)
}

// NewPromptSkip builds the classifier deciding which snapshot records get no
// verification prompt. It applies the snapshot families with every pattern
// ignoring case, so "Foo stip addendum" is skipped even though matching
// treats it as a standard title.
func NewPromptSkip(p Patterns) (*Classifier, error) {
	return newSnapshot(p, true)
}

func newSnapshot(p Patterns, foldGrants bool) (*Classifier, error) {
	grant, err := AnyPattern("grant_specific", p.GrantSpecific, foldGrants)
	if err != nil {
		return nil, err
	}
	election, err := AnyPattern("election", p.Election, true)
	if err != nil {
		return nil, err
	}
	return New(
		Rule{Category: records.CategoryProtocolGrantSpecific, Match: grant},
		Rule{Category: records.CategoryElection, Match: election},
	), nil
}

// NewTally builds the tally classifier, which only screens out garbage.
func NewTally(p Patterns) *Classifier {
	return New(Rule{Category: records.CategoryGarbage, Match: Garbage(p.GarbageTitles, p.MinLength)})
}

// AnyPattern compiles patterns into a predicate matching when any of them is
// found in the title.
func AnyPattern(family string, patterns []string, ignoreCase bool) (Predicate, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		expr := p
		if ignoreCase {
			expr = `(?i)` + p
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, errors.NewValidationError("patterns."+family, p, err.Error())
		}
		compiled = append(compiled, re)
	}
	return func(title string) bool {
		for _, re := range compiled {
			if re.MatchString(title) {
				return true
			}
		}
		return false
	}, nil
}

// Garbage returns a predicate matching block-listed titles and titles shorter
// than minLength runes once trimmed. Empty titles are garbage.
func Garbage(blocklist []string, minLength int) Predicate {
	blocked := make(map[string]struct{}, len(blocklist))
	for _, b := range blocklist {
		blocked[strings.TrimSpace(b)] = struct{}{}
	}
	return func(title string) bool {
		t := strings.TrimSpace(title)
		if utf8.RuneCountInString(t) < minLength {
			return true
		}
		_, ok := blocked[t]
		return ok
	}
}
