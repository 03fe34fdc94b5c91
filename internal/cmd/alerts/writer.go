package alerts

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Writer handles alert output.
type Writer interface {
	WriteAlert(alert *Alert) error
}

// WriterFunc is an adapter to allow functions to be used as Writers.
type WriterFunc func(*Alert) error

// WriteAlert calls the function.
func (f WriterFunc) WriteAlert(alert *Alert) error {
	return f(alert)
}

// DiscardWriter is a Writer that discards all alerts.
var DiscardWriter Writer = WriterFunc(func(*Alert) error { return nil })

// Collector records alerts in memory (useful for testing).
type Collector struct {
	Alerts []*Alert
}

// WriteAlert implements Writer.
func (c *Collector) WriteAlert(alert *Alert) error {
	c.Alerts = append(c.Alerts, alert)
	return nil
}

// Messages returns the headline of every collected alert.
func (c *Collector) Messages() []string {
	out := make([]string, len(c.Alerts))
	for i, a := range c.Alerts {
		out[i] = a.String()
	}
	return out
}

// WriterConfig configures alert output behavior.
type WriterConfig struct {
	ShowDetails bool
	UseColor    bool
	// MinLevel drops alerts less severe than it; LevelWarning hides
	// info and success messages.
	MinLevel Level
}

// TerminalWriter writes alerts as text lines.
type TerminalWriter struct {
	writer io.Writer
	config WriterConfig
}

// NewTerminalWriter creates a TerminalWriter. Color is used only when w is a
// terminal and noColor is unset; quiet hides everything below warnings.
func NewTerminalWriter(w io.Writer, noColor, quiet bool) *TerminalWriter {
	minLevel := LevelSuccess
	if quiet {
		minLevel = LevelWarning
	}
	return &TerminalWriter{
		writer: w,
		config: WriterConfig{
			ShowDetails: true,
			UseColor:    !noColor && isTerminal(w),
			MinLevel:    minLevel,
		},
	}
}

// WithConfig sets the writer configuration.
func (tw *TerminalWriter) WithConfig(config WriterConfig) *TerminalWriter {
	tw.config = config
	return tw
}

// WriteAlert writes an alert followed by its indented details.
func (tw *TerminalWriter) WriteAlert(alert *Alert) error {
	if alert.Level > tw.config.MinLevel {
		return nil
	}

	message := alert.String()
	if tw.config.UseColor {
		message = alert.Level.Color() + message + resetColor
	}
	if _, err := fmt.Fprintln(tw.writer, message); err != nil {
		return err
	}

	if tw.config.ShowDetails {
		for _, detail := range alert.Details {
			if _, err := fmt.Fprintf(tw.writer, "   %s\n", detail); err != nil {
				return err
			}
		}
	}
	return nil
}

// isTerminal checks if the writer is a terminal (for color support).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
