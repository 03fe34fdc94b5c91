// Package llm asks a language model to confirm which forum proposal a
// tracker record belongs to.
package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentstation/govmatch/pkg/errors"
)

// Confidence is the model's certainty about a verdict.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// Valid reports whether c is one of the known levels.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceNone:
		return true
	default:
		return false
	}
}

// Verdict is the model's answer for one record. ProposalID is nil when the
// model found no match.
type Verdict struct {
	ID         string     `json:"id" yaml:"id"`
	ProposalID *string    `json:"proposal_id" yaml:"proposal_id"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
	Reasoning  string     `json:"reasoning" yaml:"reasoning"`
	Error      string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Matched reports whether the verdict names a proposal.
func (v Verdict) Matched() bool {
	return v.ProposalID != nil
}

// ParseVerdict decodes a model answer. Markdown code fences around the JSON
// are tolerated, and a "null" proposal id string counts as no match.
func ParseVerdict(text string) (Verdict, error) {
	body := stripFences(text)
	if body == "" {
		return Verdict{}, errors.NewParseError("json", "", "empty answer", nil)
	}

	var raw struct {
		ProposalID *string `json:"proposal_id"`
		Confidence string  `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	if err := dec.Decode(&raw); err != nil {
		return Verdict{}, errors.NewParseError("json", "", fmt.Sprintf("decoding answer: %v", err), err)
	}

	v := Verdict{
		Confidence: Confidence(strings.ToLower(strings.TrimSpace(raw.Confidence))),
		Reasoning:  raw.Reasoning,
	}
	if !v.Confidence.Valid() {
		return Verdict{}, errors.NewParseError("json", "", fmt.Sprintf("unknown confidence %q", raw.Confidence), nil)
	}
	if raw.ProposalID != nil {
		id := strings.TrimSpace(*raw.ProposalID)
		if id != "" && !strings.EqualFold(id, "null") {
			v.ProposalID = &id
		}
	}
	return v, nil
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
