package rules

import (
	"github.com/agentstation/govmatch/pkg/overrides"
)

// patch mirrors Rules with optional fields so a rules file can set any subset
// of values.
type patch struct {
	ForumDomain *string `yaml:"forum_domain"`
	Thresholds  *struct {
		SlugAccept             *float64 `yaml:"slug_accept"`
		SnapshotTitleFloor     *float64 `yaml:"snapshot_title_floor"`
		SnapshotLinkFloor      *float64 `yaml:"snapshot_link_floor"`
		SnapshotHighConfidence *float64 `yaml:"snapshot_high_confidence"`
		TallyTitleFloor        *float64 `yaml:"tally_title_floor"`
		TallyLink              *float64 `yaml:"tally_link"`
		TallyHighConfidence    *float64 `yaml:"tally_high_confidence"`
	} `yaml:"thresholds"`
	Overrides *struct {
		Tally    *[]overrides.Entry `yaml:"tally"`
		Snapshot *[]overrides.Entry `yaml:"snapshot"`
	} `yaml:"overrides"`
	LinkFilter *struct {
		Contains *[]string `yaml:"contains"`
		Tokens   *[]string `yaml:"tokens"`
	} `yaml:"link_filter"`
	Patterns *struct {
		GrantSpecific *[]string `yaml:"grant_specific"`
		Election      *[]string `yaml:"election"`
		GarbageTitles *[]string `yaml:"garbage_titles"`
		MinLength     *int      `yaml:"min_title_length"`
	} `yaml:"patterns"`
}

func (p *patch) apply(r *Rules) {
	setString(&r.ForumDomain, p.ForumDomain)

	if t := p.Thresholds; t != nil {
		setFloat(&r.Thresholds.SlugAccept, t.SlugAccept)
		setFloat(&r.Thresholds.SnapshotTitleFloor, t.SnapshotTitleFloor)
		setFloat(&r.Thresholds.SnapshotLinkFloor, t.SnapshotLinkFloor)
		setFloat(&r.Thresholds.SnapshotHighConfidence, t.SnapshotHighConfidence)
		setFloat(&r.Thresholds.TallyTitleFloor, t.TallyTitleFloor)
		setFloat(&r.Thresholds.TallyLink, t.TallyLink)
		setFloat(&r.Thresholds.TallyHighConfidence, t.TallyHighConfidence)
	}
	if o := p.Overrides; o != nil {
		if o.Tally != nil {
			r.Overrides.Tally = *o.Tally
		}
		if o.Snapshot != nil {
			r.Overrides.Snapshot = *o.Snapshot
		}
	}
	if f := p.LinkFilter; f != nil {
		setStrings(&r.LinkFilter.Contains, f.Contains)
		setStrings(&r.LinkFilter.Tokens, f.Tokens)
	}
	if pt := p.Patterns; pt != nil {
		setStrings(&r.Patterns.GrantSpecific, pt.GrantSpecific)
		setStrings(&r.Patterns.Election, pt.Election)
		setStrings(&r.Patterns.GarbageTitles, pt.GarbageTitles)
		if pt.MinLength != nil {
			r.Patterns.MinLength = *pt.MinLength
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setStrings(dst *[]string, v *[]string) {
	if v != nil {
		*dst = *v
	}
}
