// Package links extracts forum topic references from free-form proposal text.
package links

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/records"
)

// Extractor finds topic links for a single forum domain.
type Extractor struct {
	domain string
	re     *regexp.Regexp
}

// NewExtractor returns an Extractor for domain. An empty domain selects the
// default forum.
func NewExtractor(domain string) (*Extractor, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		domain = constants.DefaultForumDomain
	}
	if strings.ContainsAny(domain, "/ \t") {
		return nil, errors.NewValidationError("forum_domain", domain, "must be a bare host name")
	}
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(domain) + `/t/([a-zA-Z0-9_-]+)(?:/(\d+))?`)
	if err != nil {
		return nil, errors.WrapValidation("forum_domain", err)
	}
	return &Extractor{domain: domain, re: re}, nil
}

// Domain returns the forum host the extractor matches.
func (e *Extractor) Domain() string {
	return e.domain
}

// Extract returns every topic link in body in order of appearance. Slugs are
// lowercased; duplicates are kept. A link without a numeric suffix, or whose
// suffix does not fit an int64, has a nil TopicID.
func (e *Extractor) Extract(body string) []records.Link {
	if body == "" {
		return nil
	}
	matches := e.re.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]records.Link, 0, len(matches))
	for _, m := range matches {
		link := records.Link{Slug: strings.ToLower(m[1])}
		if m[2] != "" {
			if id, err := strconv.ParseInt(m[2], 10, 64); err == nil {
				link.TopicID = &id
			}
		}
		out = append(out, link)
	}
	return out
}

// Filter excludes links that point at program-wide reference threads rather
// than a specific proposal.
type Filter struct {
	// Contains lists substrings; a slug containing any of them is excluded.
	Contains []string `yaml:"contains" json:"contains"`
	// Tokens lists whole hyphen-separated slug tokens that exclude a slug.
	Tokens []string `yaml:"tokens" json:"tokens"`
}

// DefaultFilter returns the built-in generic reference filter.
func DefaultFilter() Filter {
	return Filter{
		Contains: []string{"short-term-incentive", "arbitrum-arbos-upgrades"},
		Tokens:   []string{"stip"},
	}
}

// Excluded reports whether slug is a generic reference.
func (f Filter) Excluded(slug string) bool {
	slug = strings.ToLower(slug)
	for _, s := range f.Contains {
		if s != "" && strings.Contains(slug, strings.ToLower(s)) {
			return true
		}
	}
	if len(f.Tokens) == 0 {
		return false
	}
	for _, tok := range strings.Split(slug, "-") {
		for _, t := range f.Tokens {
			if strings.EqualFold(tok, t) {
				return true
			}
		}
	}
	return false
}

// Keep returns the links in ls that are not excluded, preserving order.
func (f Filter) Keep(ls []records.Link) []records.Link {
	var out []records.Link
	for _, l := range ls {
		if !f.Excluded(l.Slug) {
			out = append(out, l)
		}
	}
	return out
}
