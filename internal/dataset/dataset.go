// Package dataset reads the proposal and tracker exports and writes them back
// with the resolved proposal ids filled in.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/records"
)

// ProposalIDField is the member written into every record of an output file.
const ProposalIDField = "proposal_id"

// Dataset is a tracker export: the typed records the engine matches and the
// raw objects they were decoded from, index for index.
type Dataset struct {
	Source  records.Source
	Path    string
	Records []records.Record
	Objects []Object
}

// LoadProposals reads the canonical proposal list.
func LoadProposals(path string) ([]records.Proposal, error) {
	objects, err := readObjects(path)
	if err != nil {
		return nil, err
	}
	out := make([]records.Proposal, len(objects))
	for i, obj := range objects {
		fields, err := decodeFields(path, i, obj, "title", "author_name")
		if err != nil {
			return nil, err
		}
		out[i] = records.Proposal{ID: fields.id, Title: fields.values["title"], Author: fields.values["author_name"]}
	}
	return out, nil
}

// LoadRecords reads a tracker export. The body of each record comes from the
// source's body field.
func LoadRecords(path string, source records.Source) (*Dataset, error) {
	if err := source.Validate(); err != nil {
		return nil, errors.NewValidationError("source", source, err.Error())
	}
	objects, err := readObjects(path)
	if err != nil {
		return nil, err
	}
	body := source.BodyField()
	ds := &Dataset{Source: source, Path: path, Records: make([]records.Record, len(objects)), Objects: objects}
	for i, obj := range objects {
		fields, err := decodeFields(path, i, obj, "title", "author_name", body)
		if err != nil {
			return nil, err
		}
		ds.Records[i] = records.Record{
			ID:     fields.id,
			Title:  fields.values["title"],
			Author: fields.values["author_name"],
			Body:   fields.values[body],
			Source: source,
		}
	}
	return ds, nil
}

// Assigned returns copies of the raw objects with proposal_id set to the
// assigned id, or null for records without an assignment.
func (d *Dataset) Assigned(assignments map[string]string) ([]Object, error) {
	out := make([]Object, len(d.Objects))
	for i, obj := range d.Objects {
		value := json.RawMessage("null")
		if id, ok := assignments[d.Records[i].ID]; ok {
			raw, err := json.Marshal(id)
			if err != nil {
				return nil, err
			}
			value = raw
		}
		out[i] = obj.Clone().Set(ProposalIDField, value)
	}
	return out, nil
}

// WriteAssigned writes the dataset with assignments applied to path.
func (d *Dataset) WriteAssigned(path string, assignments map[string]string) error {
	objects, err := d.Assigned(assignments)
	if err != nil {
		return err
	}
	return WriteJSON(path, objects)
}

// WriteJSON writes v as indented JSON, creating parent directories. HTML
// characters are left unescaped.
func WriteJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("mkdir", dir, err)
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// ReadJSON decodes the JSON file at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec // paths come from the command line
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return parseError(path, data, err)
	}
	return nil
}

func readObjects(path string) ([]Object, error) {
	var objects []Object
	if err := ReadJSON(path, &objects); err != nil {
		return nil, err
	}
	return objects, nil
}

type decoded struct {
	id     string
	values map[string]string
}

// decodeFields extracts the required string id and the optional string
// fields of one object. Missing and null optional fields are empty.
func decodeFields(path string, index int, obj Object, optional ...string) (decoded, error) {
	out := decoded{values: make(map[string]string, len(optional))}

	raw, ok := obj.Get("id")
	if !ok {
		return out, errors.NewParseError("json", path, fmt.Sprintf("entry %d: missing id", index), nil)
	}
	id, isNull, err := stringValue(raw)
	if err != nil || isNull || id == "" {
		return out, errors.NewParseError("json", path, fmt.Sprintf("entry %d: id must be a non-empty string", index), err)
	}
	out.id = id

	for _, key := range optional {
		raw, ok := obj.Get(key)
		if !ok {
			continue
		}
		s, _, err := stringValue(raw)
		if err != nil {
			return out, errors.NewParseError("json", path, fmt.Sprintf("entry %d (%s): field %q must be a string", index, id, key), err)
		}
		out.values[key] = s
	}
	return out, nil
}

func stringValue(raw json.RawMessage) (string, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return "", true, nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false, err
	}
	return s, false, nil
}

func parseError(path string, data []byte, err error) error {
	pe := errors.NewParseError("json", path, err.Error(), err)
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		pe.Line, pe.Column = position(data, syntax.Offset)
	}
	return pe
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
