// Package output handles styled command output and format selection.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Mode selects how command output is formatted.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
)

// Styles holds the lipgloss styles used by text output.
type Styles struct {
	Header1   lipgloss.Style
	Header2   lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	ModelPath lipgloss.Style
}

// NewStyles builds styles bound to r, so color is only emitted when the
// destination supports it.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:   r.NewStyle().Bold(true),
		Bold:      r.NewStyle().Bold(true),
		Muted:     r.NewStyle().Foreground(lipgloss.Color("8")),
		Success:   r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:   r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:     r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		ModelPath: r.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

// Renderer writes command output to stdout and status messages to stderr.
type Renderer struct {
	out    io.Writer
	err    io.Writer
	mode   Mode
	styles *Styles
	errSty *Styles
}

// NewRenderer creates a renderer. An empty mode means ModeAuto.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		out:    out,
		err:    errOut,
		mode:   mode,
		styles: NewStyles(lipgloss.NewRenderer(out)),
		errSty: NewStyles(lipgloss.NewRenderer(errOut)),
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// EffectiveMode resolves ModeAuto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if IsTerminal(r.out) {
		return ModeText
	}
	return ModeMarkdown
}

// Styles returns styles for stdout.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the stdout writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the stderr writer.
func (r *Renderer) ErrWriter() io.Writer { return r.err }

// Println writes a line to stdout.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted output to stdout.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Success writes a status line to stderr.
func (r *Renderer) Success(s string) {
	_, _ = fmt.Fprintln(r.err, r.errSty.Success.Render(s))
}

// Warn writes a warning line to stderr.
func (r *Renderer) Warn(s string) {
	_, _ = fmt.Fprintln(r.err, r.errSty.Warning.Render(s))
}

// Error writes an error line to stderr.
func (r *Renderer) Error(s string) {
	_, _ = fmt.Fprintln(r.err, r.errSty.Error.Render(s))
}
