package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/govmatch/pkg/errors"
	"github.com/agentstation/govmatch/pkg/records"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProposals(t *testing.T) {
	path := writeFile(t, "proposals.json", `[
  {"id": "P1", "title": "AIP 5: Security Council Expansion", "author_name": "alice", "votes": 12},
  {"id": "P2", "title": "Treasury &amp; Grants", "author_name": null}
]`)

	got, err := LoadProposals(path)
	require.NoError(t, err)
	assert.Equal(t, []records.Proposal{
		{ID: "P1", Title: "AIP 5: Security Council Expansion", Author: "alice"},
		{ID: "P2", Title: "Treasury &amp; Grants"},
	}, got)
}

func TestLoadRecordsUsesSourceBodyField(t *testing.T) {
	content := `[{"id": "r1", "title": "T", "body": "snap body", "description": "tally body"}]`

	snap, err := LoadRecords(writeFile(t, "snapshot.json", content), records.SourceSnapshot)
	require.NoError(t, err)
	assert.Equal(t, "snap body", snap.Records[0].Body)
	assert.Equal(t, records.SourceSnapshot, snap.Records[0].Source)

	tal, err := LoadRecords(writeFile(t, "tally.json", content), records.SourceTally)
	require.NoError(t, err)
	assert.Equal(t, "tally body", tal.Records[0].Body)
}

func TestLoadRecordsMissingOptionalFields(t *testing.T) {
	ds, err := LoadRecords(writeFile(t, "snapshot.json", `[{"id": "r1"}]`), records.SourceSnapshot)
	require.NoError(t, err)
	assert.Equal(t, records.Record{ID: "r1", Source: records.SourceSnapshot}, ds.Records[0])
}

func TestLoadRecordsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[{\"id\": \"r1\",\n  \"title\": }]"},
		{"not an array", `{"id": "r1"}`},
		{"element not an object", `["r1"]`},
		{"null element", `[null]`},
		{"missing id", `[{"title": "T"}]`},
		{"numeric id", `[{"id": 7}]`},
		{"empty id", `[{"id": ""}]`},
		{"non string title", `[{"id": "r1", "title": 5}]`},
		{"non string body", `[{"id": "r1", "body": {"md": "x"}}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRecords(writeFile(t, "in.json", tt.content), records.SourceSnapshot)
			require.Error(t, err)
			var pe *errors.ParseError
			require.True(t, errors.As(err, &pe), "got %T: %v", err, err)
			assert.Equal(t, "json", pe.Format)
		})
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := LoadRecords(writeFile(t, "in.json", "[{\"id\": \"r1\",\n  \"title\": }]"), records.SourceSnapshot)
	var pe *errors.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
	assert.Greater(t, pe.Column, 1)
}

func TestLoadRecordsMissingFile(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "missing.json"), records.SourceTally)
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr))

	_, err = LoadRecords("whatever.json", records.Source("discourse"))
	assert.True(t, errors.IsValidationError(err))
}

func TestWriteAssignedPreservesFieldOrder(t *testing.T) {
	in := writeFile(t, "tally.json", `[
  {"title": "A <b>&</b>", "id": "t1", "proposal_id": "stale", "extra": [1, 2.50, {"z": 1, "a": 2}]},
  {"id": "t2", "title": "B", "description": null}
]`)
	ds, err := LoadRecords(in, records.SourceTally)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "nested", "tally_stage_final.json")
	require.NoError(t, ds.WriteAssigned(out, map[string]string{"t2": "P9"}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var objects []Object
	require.NoError(t, json.Unmarshal(data, &objects))
	require.Len(t, objects, 2)

	keys := func(o Object) []string {
		var ks []string
		for _, f := range o {
			ks = append(ks, f.Key)
		}
		return ks
	}
	assert.Equal(t, []string{"title", "id", "proposal_id", "extra"}, keys(objects[0]))
	assert.Equal(t, []string{"id", "title", "description", "proposal_id"}, keys(objects[1]))

	pid, _ := objects[0].Get("proposal_id")
	assert.JSONEq(t, `null`, string(pid), "unresolved records are reset to null")
	pid, _ = objects[1].Get("proposal_id")
	assert.JSONEq(t, `"P9"`, string(pid))

	extra, _ := objects[0].Get("extra")
	assert.JSONEq(t, `[1, 2.50, {"z": 1, "a": 2}]`, string(extra))
	assert.Contains(t, string(data), `2.50`, "numbers are copied verbatim")
	assert.Contains(t, string(data), `"A <b>&</b>"`, "html is not escaped")

	// The loaded dataset itself is untouched.
	pid, _ = ds.Objects[0].Get("proposal_id")
	assert.JSONEq(t, `"stale"`, string(pid))
}

func TestObjectSet(t *testing.T) {
	var o Object
	o = o.Set("a", json.RawMessage(`1`))
	o = o.Set("b", json.RawMessage(`2`))
	o = o.Set("a", json.RawMessage(`3`))

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"b":2}`, string(data))
}
