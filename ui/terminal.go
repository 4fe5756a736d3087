package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/logrusorgru/aurora"
	runewidth "github.com/mattn/go-runewidth"
	indent "github.com/openconfig/goyang/pkg/indent"
	"golang.org/x/term"
)

const (
	indentUnit   = "  "
	sectionWidth = 56
	promptPrefix = "> "
)

// TerminalUI writes to stdout and reads from stdin. Colours are only used
// when stdout is a terminal.
type TerminalUI struct {
	indentLevel int
	out         io.Writer
	in          *bufio.Reader
	inFd        int
	isTerminal  bool
	au          aurora.Aurora
}

func NewTerminalUI() *TerminalUI {
	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	return &TerminalUI{
		out:        os.Stdout,
		in:         bufio.NewReader(os.Stdin),
		inFd:       int(os.Stdin.Fd()),
		isTerminal: isTerminal,
		au:         aurora.NewAurora(isTerminal),
	}
}

// NewTerminalUIWithStreams builds a colourless TerminalUI over arbitrary
// streams.
func NewTerminalUIWithStreams(out io.Writer, in io.Reader) *TerminalUI {
	return &TerminalUI{
		out:  out,
		in:   bufio.NewReader(in),
		inFd: -1,
		au:   aurora.NewAurora(false),
	}
}

func (u *TerminalUI) prefix() string {
	return strings.Repeat(indentUnit, u.indentLevel)
}

func (u *TerminalUI) writeLine(line string) {
	fmt.Fprintf(u.out, "%s%s\n", u.prefix(), line)
}

func (u *TerminalUI) Style(t StyledText) string {
	switch t.Severity {
	case SeveritySuccess:
		return u.au.Green(t.Text).String()
	case SeverityWarn:
		return u.au.Yellow(t.Text).String()
	case SeverityError:
		return u.au.Red(t.Text).String()
	case SeverityCritical:
		return u.au.Bold(t.Text).String()
	default:
		return t.Text
	}
}

func (u *TerminalUI) Info(format string, args ...any) {
	u.writeLine(fmt.Sprintf(format, args...))
}

func (u *TerminalUI) Success(format string, args ...any) {
	u.writeLine(u.Style(StyledText{fmt.Sprintf(format, args...), SeveritySuccess}))
}

func (u *TerminalUI) Warn(format string, args ...any) {
	u.writeLine(u.Style(StyledText{fmt.Sprintf(format, args...), SeverityWarn}))
}

func (u *TerminalUI) Error(format string, args ...any) {
	u.writeLine(u.Style(StyledText{fmt.Sprintf(format, args...), SeverityError}))
}

func (u *TerminalUI) Critical(format string, args ...any) {
	u.writeLine(u.Style(StyledText{fmt.Sprintf(format, args...), SeverityCritical}))
}

func (u *TerminalUI) Section(title string) {
	titled := " " + title + " "
	bars := sectionWidth - runewidth.StringWidth(titled)
	if bars < 6 {
		bars = 6
	}
	left := bars / 2
	line := strings.Repeat("=", left) + titled + strings.Repeat("=", bars-left)
	fmt.Fprintf(u.out, "\n%s%s\n\n", u.prefix(), line)
}

func (u *TerminalUI) Ask(validate func(string) error) string {
	for {
		fmt.Fprintf(u.out, "%s%s", u.prefix(), promptPrefix)
		text, _ := u.in.ReadString('\n')
		input := strings.TrimRight(text, "\r\n")
		if validate == nil {
			return input
		}
		err := validate(input)
		if err == nil {
			return input
		}
		u.Error("%s", err)
	}
}

// AskSecret falls back to a plain line read when stdin isn't a terminal so
// keys can be piped in.
func (u *TerminalUI) AskSecret(prompt string) (string, error) {
	fmt.Fprintf(u.out, "%s%s: ", u.prefix(), prompt)
	if u.inFd >= 0 && term.IsTerminal(u.inFd) {
		secret, err := term.ReadPassword(u.inFd)
		fmt.Fprintln(u.out)
		if err != nil {
			return "", fmt.Errorf("couldn't read secret: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}
	text, err := u.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("couldn't read secret: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (u *TerminalUI) Confirm(prompt string, defaultYes bool) bool {
	options := "[Y/n]"
	if !defaultYes {
		options = "[y/N]"
	}
	u.Info("%s %s", prompt, options)
	input := strings.ToLower(strings.TrimSpace(u.Ask(func(s string) error {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "y", "yes", "n", "no":
			return nil
		}
		return fmt.Errorf("please enter y or n")
	})))
	if input == "" {
		return defaultYes
	}
	return input == "y" || input == "yes"
}

func (u *TerminalUI) KeyValue(rows [][2]string) {
	maxLabel := 0
	for _, r := range rows {
		if w := runewidth.StringWidth(r[0]); w > maxLabel {
			maxLabel = w
		}
	}
	for _, r := range rows {
		label := r[0] + strings.Repeat(" ", maxLabel-runewidth.StringWidth(r[0]))
		u.writeLine(label + "  " + r[1])
	}
}

func cellWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

// Table measures cells without their ANSI codes so styled values keep the
// columns aligned.
func (u *TerminalUI) Table(headers []string, rows [][]string) {
	ncols := len(headers)
	for _, r := range rows {
		if len(r) > ncols {
			ncols = len(r)
		}
	}
	if ncols == 0 {
		return
	}
	widths := make([]int, ncols)
	for _, r := range append([][]string{headers}, rows...) {
		for i, c := range r {
			if w := cellWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	border := func(s string) string { return borderStyle.Render(s) }
	rule := func(left, mid, right string) string {
		parts := make([]string, ncols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return border(left + strings.Join(parts, mid) + right)
	}
	renderRow := func(cells []string) string {
		parts := make([]string, ncols)
		for i := range parts {
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			parts[i] = " " + val + strings.Repeat(" ", widths[i]-cellWidth(val)) + " "
		}
		return border("│") + strings.Join(parts, border("│")) + border("│")
	}

	u.writeLine(rule("┌", "┬", "┐"))
	if len(headers) > 0 {
		u.writeLine(renderRow(headers))
		u.writeLine(rule("├", "┼", "┤"))
	}
	for _, r := range rows {
		u.writeLine(renderRow(r))
	}
	u.writeLine(rule("└", "┴", "┘"))
}

func (u *TerminalUI) Spinner(msg string) func() {
	if !u.isTerminal {
		u.writeLine(msg)
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(u.out))
	s.Prefix = u.prefix()
	s.Suffix = " " + msg
	s.Start()
	return func() {
		s.Stop()
		fmt.Fprintln(u.out)
	}
}

func (u *TerminalUI) Indent() UI {
	return &TerminalUI{
		indentLevel: u.indentLevel + 1,
		out:         u.out,
		in:          u.in,
		inFd:        u.inFd,
		isTerminal:  u.isTerminal,
		au:          u.au,
	}
}

func (u *TerminalUI) Writer() io.Writer {
	if u.indentLevel == 0 {
		return u.out
	}
	return indent.NewWriter(u.out, u.prefix())
}
