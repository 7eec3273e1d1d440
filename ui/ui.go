package ui

import (
	"encoding/json"
	"io"
)

// Severity is the visual weight of a piece of text.
type Severity uint8

const (
	SeverityInfo     Severity = iota // plain
	SeveritySuccess                  // green
	SeverityWarn                     // yellow
	SeverityError                    // red
	SeverityCritical                 // bold
)

// StyledText is a plain string annotated with a Severity. It marshals to
// JSON as the bare string.
type StyledText struct {
	Text     string
	Severity Severity
}

func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// UI is everything a raise3 command needs from the terminal. TerminalUI is
// used in production, RecordingUI in tests.
type UI interface {
	// Style colors t according to its severity. Implementations without
	// colors return t.Text.
	Style(t StyledText) string

	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	// Error prints a failure. It does not exit.
	Error(format string, args ...any)
	Critical(format string, args ...any)

	// Section prints a "===== title =====" separator.
	Section(title string)

	// KeyValue prints label/value rows with values aligned on one column.
	KeyValue(rows [][2]string)

	// Table prints a bordered table. A nil headers slice omits the header row.
	Table(headers []string, rows [][]string)

	// Spinner animates msg until the returned stop function is called.
	// It is a no-op when the output is not a terminal.
	Spinner(msg string) func()

	// Ask reads one line, looping until validate accepts it. nil accepts
	// anything.
	Ask(validate func(string) error) string

	// Choose lists options and returns the 0-based index picked by the user.
	Choose(prompt string, options []string) int

	// Indent returns a child UI one level deeper sharing the same streams.
	Indent() UI

	// Writer returns the output stream with the current indentation applied.
	Writer() io.Writer
}
