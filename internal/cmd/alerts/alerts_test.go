package alerts

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertString(t *testing.T) {
	tests := []struct {
		name  string
		alert *Alert
		want  string
	}{
		{"success", NewSuccess("done"), "✓ done"},
		{"warning", Warningf("%d failed", 3), "! 3 failed"},
		{"info", NewInfo("note"), "i note"},
		{"error with cause", NewError("write failed").WithError(errors.New("disk full")), "✗ write failed: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.alert.String())
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "success", LevelSuccess.String())
	assert.Equal(t, "unknown(9)", Level(9).String())
}

func TestTerminalWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewTerminalWriter(&buf, false, false)

	require.NoError(t, w.WriteAlert(Successf("wrote %s", "out.json").WithDetails("3 records", "1 unmatched")))
	require.NoError(t, w.WriteAlert(NewInfo("info line")))

	assert.Equal(t, "✓ wrote out.json\n   3 records\n   1 unmatched\ni info line\n", buf.String())
}

func TestTerminalWriterQuiet(t *testing.T) {
	var buf bytes.Buffer
	w := NewTerminalWriter(&buf, false, true)

	require.NoError(t, w.WriteAlert(NewSuccess("hidden")))
	require.NoError(t, w.WriteAlert(NewInfo("hidden")))
	require.NoError(t, w.WriteAlert(NewWarning("shown")))
	require.NoError(t, w.WriteAlert(NewError("shown too")))

	assert.Equal(t, "! shown\n✗ shown too\n", buf.String())
}

func TestTerminalWriterColor(t *testing.T) {
	var buf bytes.Buffer
	w := NewTerminalWriter(&buf, false, false).WithConfig(WriterConfig{UseColor: true, MinLevel: LevelSuccess})

	require.NoError(t, w.WriteAlert(NewWarning("careful")))
	assert.Equal(t, "\033[33m! careful\033[0m\n", buf.String())
}

func TestCollector(t *testing.T) {
	c := &Collector{}
	require.NoError(t, c.WriteAlert(NewSuccess("a")))
	require.NoError(t, DiscardWriter.WriteAlert(NewSuccess("dropped")))
	require.NoError(t, c.WriteAlert(NewWarning("b")))

	assert.Equal(t, []string{"✓ a", "! b"}, c.Messages())
}
