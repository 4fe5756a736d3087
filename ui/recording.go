package ui

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Entry is one recorded UI call.
type Entry struct {
	Method string
	Value  string
}

type recordingState struct {
	entries []Entry
	inputs  []string
	nextIdx int
	buf     bytes.Buffer
}

// RecordingUI implements UI for tests. Output calls are recorded as entries
// and Ask, AskSecret and Confirm consume the scripted inputs in order. Running
// out of inputs panics with the name of the caller.
type RecordingUI struct {
	state       *recordingState
	indentLevel int
}

func NewRecordingUI(scriptedInputs ...string) *RecordingUI {
	return &RecordingUI{state: &recordingState{inputs: scriptedInputs}}
}

func (r *RecordingUI) record(method, value string) {
	r.state.entries = append(r.state.entries, Entry{Method: method, Value: value})
}

func (r *RecordingUI) nextInput(caller string) string {
	if r.state.nextIdx >= len(r.state.inputs) {
		panic(fmt.Sprintf("RecordingUI: no scripted input left for %s (consumed %d)", caller, r.state.nextIdx))
	}
	input := r.state.inputs[r.state.nextIdx]
	r.state.nextIdx++
	return input
}

func (r *RecordingUI) Style(t StyledText) string { return t.Text }

func (r *RecordingUI) Info(format string, args ...any) {
	r.record("Info", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Success(format string, args ...any) {
	r.record("Success", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Warn(format string, args ...any) {
	r.record("Warn", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Error(format string, args ...any) {
	r.record("Error", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Critical(format string, args ...any) {
	r.record("Critical", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Section(title string) { r.record("Section", title) }

// KeyValue records every row as "label: value".
func (r *RecordingUI) KeyValue(rows [][2]string) {
	for _, row := range rows {
		r.record("KeyValue", row[0]+": "+row[1])
	}
}

// Table records each row with its cells joined by " | ".
func (r *RecordingUI) Table(headers []string, rows [][]string) {
	if len(headers) > 0 {
		r.record("TableHeader", strings.Join(headers, " | "))
	}
	for _, row := range rows {
		r.record("Table", strings.Join(row, " | "))
	}
}

func (r *RecordingUI) Spinner(msg string) func() {
	r.record("Spinner", msg)
	return func() {}
}

// Ask panics when the scripted input fails validation since no user is
// around to correct it.
func (r *RecordingUI) Ask(validate func(string) error) string {
	input := r.nextInput("Ask")
	r.record("Ask", input)
	if validate != nil {
		if err := validate(input); err != nil {
			panic(fmt.Sprintf("RecordingUI: scripted input %q failed validation: %s", input, err))
		}
	}
	return input
}

// AskSecret never records the answer.
func (r *RecordingUI) AskSecret(prompt string) (string, error) {
	r.record("AskSecret", prompt)
	return r.nextInput("AskSecret"), nil
}

func (r *RecordingUI) Confirm(prompt string, defaultYes bool) bool {
	r.record("Confirm", prompt)
	input := strings.ToLower(strings.TrimSpace(r.nextInput("Confirm")))
	if input == "" {
		return defaultYes
	}
	return input == "y" || input == "yes"
}

func (r *RecordingUI) Indent() UI {
	return &RecordingUI{state: r.state, indentLevel: r.indentLevel + 1}
}

func (r *RecordingUI) Writer() io.Writer { return &r.state.buf }

func (r *RecordingUI) Entries() []Entry { return r.state.entries }

// Values returns the values recorded for method, in order.
func (r *RecordingUI) Values(method string) []string {
	var out []string
	for _, e := range r.state.entries {
		if e.Method == method {
			out = append(out, e.Value)
		}
	}
	return out
}

// HasMessage reports whether any entry contains substr, ignoring case.
func (r *RecordingUI) HasMessage(substr string) bool {
	lower := strings.ToLower(substr)
	for _, e := range r.state.entries {
		if strings.Contains(strings.ToLower(e.Value), lower) {
			return true
		}
	}
	return false
}

// Output returns what was written to Writer.
func (r *RecordingUI) Output() string { return r.state.buf.String() }
