package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/govmatch/pkg/textnorm"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"draft and proposal prefixes", "[Draft] Proposal: Foo  Bar", "foo bar"},
		{"aip prefix keeps number", "AIP 5: Security Council Expansion", "5: security council expansion"},
		{"constitutional tag", "[Constitutional] AIP-1.2 Foundation Amendments", "aip-1.2 foundation amendments"},
		{"non constitutional with colon", "Non-Constitutional: Fund the Gaming Catalyst", "fund the gaming catalyst"},
		{"nonconstitutional unhyphenated", "[NonConstitutional] Treasury Plan", "treasury plan"},
		{"rfc", "RFC: Arbitrum Research & Development Collective", "arbitrum research & development collective"},
		{"hash heading", "# Subsidy Fund", "subsidy fund"},
		{"updated marker", "[UPDATED] Proposal to Extend STIP", "proposal to extend stip"},
		{"updated after final", "[FINAL] Updated Gaming Catalyst", "gaming catalyst"},
		{"html entities", "Treasury &amp; Grants", "treasury & grants"},
		{"whitespace collapse", "  A\t\tB \n C  ", "a b c"},
		{"non-breaking spaces", "[Draft]&nbsp;Proposal:&nbsp;Foo Bar", "foo bar"},
		{"raw non-breaking space after tag", "RFC:\u00a0Treasury\u00a0Plan", "treasury plan"},
		{"empty", "", ""},
		{"prefix only once", "Draft Draft Thing", "draft thing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textnorm.Normalize(tt.input))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Foo Bar! 2.0", "foo-bar-20"},
		{"AIP-1: Arbitrum Improvement Proposal Framework", "aip-1-arbitrum-improvement-proposal-framework"},
		{"  --Leading and trailing--  ", "leading-and-trailing"},
		{"a - b", "a-b"},
		{"snake_case stays", "snake_case-stays"},
		{"Treasury &amp; Grants", "treasury-grants"},
		{"Café Über", "café-über"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, textnorm.Slugify(tt.input))
		})
	}
}

func TestSlugifyOfNormalizeDiffers(t *testing.T) {
	title := "[Non-Constitutional] Gaming Catalyst Program"
	assert.Equal(t, "non-constitutional-gaming-catalyst-program", textnorm.Slugify(title))
	assert.Equal(t, "gaming-catalyst-program", textnorm.Slugify(textnorm.Normalize(title)))
}
