// Package report builds the review report of a matching run: every result
// grouped by review bucket, plus per-source summaries and the slug collisions
// found while indexing.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/matcher"
	"github.com/agentstation/govmatch/pkg/records"
	"github.com/agentstation/govmatch/pkg/slugindex"
)

// Format is a report encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a report format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", errors.NewValidationError("report-format", s, "must be one of: json, yaml, markdown")
	}
}

// Ext returns the file extension used for the format.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Group is the results of one bucket in input order.
type Group struct {
	Bucket  records.Bucket   `json:"bucket" yaml:"bucket"`
	Results []records.Result `json:"results" yaml:"results"`
}

// Section is the part of the review covering one source.
type Section struct {
	Source  records.Source  `json:"source" yaml:"source"`
	Summary matcher.Summary `json:"summary" yaml:"summary"`
	Groups  []Group         `json:"groups" yaml:"groups"`
}

// Group returns the results of bucket b.
func (s *Section) Group(b records.Bucket) []records.Result {
	for _, g := range s.Groups {
		if g.Bucket == b {
			return g.Results
		}
	}
	return nil
}

// Review is the full review report.
type Review struct {
	Sections   []*Section            `json:"sections" yaml:"sections"`
	Collisions []slugindex.Collision `json:"slug_collisions" yaml:"slug_collisions"`
}

// Build groups the results of each run by bucket. Nil runs are skipped.
func Build(collisions []slugindex.Collision, runs ...*matcher.Run) *Review {
	review := &Review{Collisions: collisions}
	if review.Collisions == nil {
		review.Collisions = []slugindex.Collision{}
	}
	for _, run := range runs {
		if run == nil {
			continue
		}
		byBucket := run.Buckets()
		section := &Section{Source: run.Source, Summary: run.Summary}
		for _, b := range records.Buckets(run.Source) {
			section.Groups = append(section.Groups, Group{Bucket: b, Results: byBucket[b]})
		}
		review.Sections = append(review.Sections, section)
	}
	return review
}

// Section returns the section of source, or nil.
func (r *Review) Section(source records.Source) *Section {
	for _, s := range r.Sections {
		if s.Source == source {
			return s
		}
	}
	return nil
}

// Encode writes the review to w in format f.
func (r *Review) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		data, err := yaml.MarshalWithOptions(r, yaml.Indent(2), yaml.IndentSequence(true))
		if err != nil {
			return fmt.Errorf("encoding review: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatMarkdown:
		return r.writeMarkdown(w)
	default:
		return errors.NewValidationError("report-format", f, "unsupported report format")
	}
}

// WriteFile writes the review into dir as review_report_final.<ext> and
// returns the path written.
func (r *Review) WriteFile(dir string, f Format) (string, error) {
	var buf bytes.Buffer
	if err := r.Encode(&buf, f); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return "", errors.WrapIO("mkdir", dir, err)
	}
	path := filepath.Join(dir, constants.ReviewReportBase+"."+f.Ext())
	if err := os.WriteFile(path, buf.Bytes(), constants.FilePermissions); err != nil {
		return "", errors.WrapIO("write", path, err)
	}
	return path, nil
}
