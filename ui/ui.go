package ui

import (
	"encoding/json"
	"io"
)

// Severity classifies how loudly a piece of inline text is rendered.
type Severity uint8

const (
	SeverityInfo     Severity = iota // plain
	SeveritySuccess                  // green
	SeverityWarn                     // yellow
	SeverityError                    // red
	SeverityCritical                 // bold
)

// StyledText pairs a plain string with a Severity. It marshals to JSON as
// the plain string.
type StyledText struct {
	Text     string
	Severity Severity
}

func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// UI is everything the ethwallet commands need from a terminal.
//
// TerminalUI is used by the binary. RecordingUI captures calls for tests and
// serves scripted answers to Ask and Confirm.
type UI interface {
	// Style colours t according to its severity. Implementations without
	// colours return t.Text.
	Style(t StyledText) string

	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	// Error prints a failure. It doesn't exit.
	Error(format string, args ...any)
	// Critical prints data the user has to review before signing, or the
	// proof of a transaction that was just broadcast.
	Critical(format string, args ...any)

	// Section prints "===== title =====".
	Section(title string)

	// KeyValue prints label/value rows with the values aligned.
	KeyValue(rows [][2]string)

	// Table prints a bordered table. A nil headers slice omits the header row.
	Table(headers []string, rows [][]string)

	// Spinner animates msg until the returned stop function is called.
	Spinner(msg string) func()

	// Ask reads one line after a "> " prompt, repeating until validate
	// accepts it. A nil validate accepts anything.
	Ask(validate func(string) error) string

	// AskSecret reads one line without echoing it.
	AskSecret(prompt string) (string, error)

	// Confirm asks a yes/no question.
	Confirm(prompt string, defaultYes bool) bool

	// Indent returns a child UI one level deeper sharing the same streams.
	Indent() UI

	// Writer returns a writer that indents every line at the current level.
	Writer() io.Writer
}
