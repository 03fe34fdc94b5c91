// Package prompts renders verification prompts asking a language model to
// pick the forum proposal a tracker record belongs to.
package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/govmatch/internal/dataset"
	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/records"
	"github.com/agentstation/govmatch/pkg/textnorm"
)

const (
	noDescription = "No description available"
	truncated     = "...[truncated]"
)

// Prompt is one rendered prompt.
type Prompt struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Prompt string `json:"prompt" yaml:"prompt"`
}

// Skipper decides which records get no prompt. *matcher.Engine implements it.
type Skipper interface {
	SkipPrompt(rec records.Record) bool
}

// Generator renders prompts against a fixed candidate list.
type Generator struct {
	tmpl       *template.Template
	candidates string
	count      int
	skip       Skipper
	forum      string
	limit      int
}

// Option configures a Generator.
type Option func(*Generator)

// WithDescriptionLimit sets how many characters of a description are kept.
func WithDescriptionLimit(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.limit = n
		}
	}
}

// WithForumName sets how the forum is named in prompts.
func WithForumName(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.forum = name
		}
	}
}

// New prepares a generator for proposals. Records skip reports true for
// are not prompted.
func New(proposals []records.Proposal, skip Skipper, opts ...Option) (*Generator, error) {
	if skip == nil {
		return nil, errors.NewValidationError("skipper", nil, "is required")
	}
	tmpl, err := template.New("prompt").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing prompt template: %w", err)
	}
	g := &Generator{
		tmpl:       tmpl,
		candidates: candidateList(proposals),
		count:      len(proposals),
		skip:       skip,
		forum:      "Arbitrum DAO forum",
		limit:      constants.PromptDescriptionLimit,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate renders a prompt for every record of source that is not skipped,
// in input order, and returns the number skipped.
func (g *Generator) Generate(source records.Source, recs []records.Record) ([]Prompt, int, error) {
	if err := source.Validate(); err != nil {
		return nil, 0, errors.NewValidationError("source", source, err.Error())
	}
	label := cases.Title(language.English).String(string(source))

	out := make([]Prompt, 0, len(recs))
	skipped := 0
	for _, rec := range recs {
		rec.Source = source
		if g.skip.SkipPrompt(rec) {
			skipped++
			continue
		}
		text, err := g.render(label, rec)
		if err != nil {
			return nil, skipped, err
		}
		out = append(out, Prompt{ID: rec.ID, Title: textnorm.Unescape(rec.Title), Prompt: text})
	}
	return out, skipped, nil
}

func (g *Generator) render(label string, rec records.Record) (string, error) {
	var b strings.Builder
	err := g.tmpl.Execute(&b, promptData{
		Source:         label,
		Forum:          g.forum,
		ID:             rec.ID,
		Title:          orDefault(textnorm.Unescape(rec.Title), "No title"),
		Author:         orDefault(rec.Author, "Unknown"),
		Description:    Excerpt(rec.Body, g.limit),
		CandidateCount: g.count,
		Candidates:     g.candidates,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt for %s: %w", rec.ID, err)
	}
	return b.String(), nil
}

// Excerpt unescapes HTML entities in text and cuts it to limit characters.
func Excerpt(text string, limit int) string {
	if text == "" {
		return noDescription
	}
	text = textnorm.Unescape(text)
	rs := []rune(text)
	if len(rs) > limit {
		return string(rs[:limit]) + truncated
	}
	return text
}

func candidateList(proposals []records.Proposal) string {
	var b strings.Builder
	for i, p := range proposals {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- **ID**: `%s`\n", p.ID)
		fmt.Fprintf(&b, "  **Title**: %s\n", textnorm.Unescape(p.Title))
		fmt.Fprintf(&b, "  **Author**: %s\n", orDefault(p.Author, "Unknown"))
	}
	return b.String()
}

// Write saves prompts as a JSON array.
func Write(path string, ps []Prompt) error {
	if ps == nil {
		ps = []Prompt{}
	}
	return dataset.WriteJSON(path, ps)
}

// Load reads a prompt file written by Write.
func Load(path string) ([]Prompt, error) {
	var ps []Prompt
	if err := dataset.ReadJSON(path, &ps); err != nil {
		return nil, err
	}
	for i, p := range ps {
		if p.ID == "" || p.Prompt == "" {
			return nil, errors.NewParseError("json", path, fmt.Sprintf("entry %d: id and prompt are required", i), nil)
		}
	}
	return ps, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
