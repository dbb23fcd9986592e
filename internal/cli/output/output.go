// Package output renders CLI results in the configured output mode.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// OutputMode selects how results are written.
type OutputMode string

// Output modes.
const (
	ModeAuto  OutputMode = "auto"
	ModeText  OutputMode = "text"
	ModeTable OutputMode = "table"
	ModeJSON  OutputMode = "json"
)

// Mode converts a configuration value to an OutputMode. Unknown values
// become ModeAuto.
func Mode(s string) OutputMode {
	switch OutputMode(s) {
	case ModeText, ModeTable, ModeJSON:
		return OutputMode(s)
	default:
		return ModeAuto
	}
}

// Styles are the lipgloss styles used for terminal output.
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Header  lipgloss.Style
	Alias   lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when color is false.
func NewStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{Success: plain, Error: plain, Warning: plain, Muted: plain, Header: plain, Alias: plain}
	}
	return &Styles{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Header:  lipgloss.NewStyle().Bold(true).Underline(true),
		Alias:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// Renderer writes command output.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer. TTY detection looks at out.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: NewStyles(isTTY),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Mode returns the effective mode: auto resolves to text.
func (r *Renderer) Mode() OutputMode {
	if r.mode == ModeAuto {
		return ModeText
	}
	return r.mode
}

// Styles returns the active styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the diagnostics writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Println writes a line.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section header.
func (r *Renderer) Header(title string) {
	r.Println(r.styles.Header.Render(title))
}

// Success writes an OK line.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render("OK") + "   " + msg)
}

// Fail writes a FAIL line.
func (r *Renderer) Fail(msg string) {
	r.Println(r.styles.Error.Render("FAIL") + " " + msg)
}

// Muted renders s in the muted style.
func (r *Renderer) Muted(s string) string {
	return r.styles.Muted.Render(s)
}

// Error writes an error to the diagnostics writer.
func (r *Renderer) Error(err error) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("Error:")+" "+err.Error())
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
