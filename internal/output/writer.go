package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ALT-F4-LLC/softdesk/internal/render"
	"github.com/ALT-F4-LLC/softdesk/internal/service"
)

// Writer renders softdesk command results. JSON mode writes the same
// envelopes the HTTP API returns, on Stdout. Human mode writes styled text,
// with diagnostics on Stderr.
type Writer struct {
	JSONMode  bool
	QuietMode bool
	Color     bool
	Stdout    io.Writer
	Stderr    io.Writer
}

// New creates a Writer on os.Stdout and os.Stderr. Color follows the terminal.
func New(jsonMode, quietMode bool) *Writer {
	return &Writer{
		JSONMode:  jsonMode,
		QuietMode: quietMode,
		Color:     render.ColorsEnabled(),
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Success writes data in a success envelope, or message in human mode.
// Multi-line messages (tables, detail views) are printed untouched.
func (w *Writer) Success(data any, message string) {
	if w.JSONMode {
		writeJSONSuccess(w.Stdout, data, message)
		return
	}
	if message == "" {
		return
	}
	if strings.Contains(message, "\n") || !w.Color {
		fmt.Fprintln(w.Stdout, message)
		return
	}
	fmt.Fprintf(w.Stdout, "%s %s\n", w.badge("✔", "2", ""), message)
}

// Error reports err under code and returns the matching exit code.
func (w *Writer) Error(err error, code ErrorCode) int {
	if w.JSONMode {
		writeJSONError(w.Stdout, err, code)
	} else {
		w.writeHumanError(err, code)
	}
	return ExitCodeForError(code)
}

// Fail is Error with the code derived from err by CodeFor.
func (w *Writer) Fail(err error) int {
	return w.Error(err, CodeFor(err))
}

// writeHumanError prints the message, then the offending field and the
// error code when there is one.
func (w *Writer) writeHumanError(err error, code ErrorCode) {
	fmt.Fprintf(w.Stderr, "%s %s\n", w.badge("✘", "1", "Error:"), err)

	var fe *service.FieldError
	if errors.As(err, &fe) {
		fmt.Fprintf(w.Stderr, "  %s %s\n", w.dim("field:"), fe.Field)
	}
	if code != ErrGeneral {
		fmt.Fprintf(w.Stderr, "  %s %s\n", w.dim("code: "), code)
	}
}

// Info writes a note to Stderr. Quiet and JSON modes drop it.
func (w *Writer) Info(format string, args ...any) {
	if w.QuietMode || w.JSONMode {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if !w.Color {
		fmt.Fprintln(w.Stderr, msg)
		return
	}
	fmt.Fprintf(w.Stderr, "%s %s\n", w.badge("ℹ", "8", ""), w.dim(msg))
}

// Warn writes a warning to Stderr. It survives quiet mode but not JSON mode.
func (w *Writer) Warn(format string, args ...any) {
	if w.JSONMode {
		return
	}
	fmt.Fprintf(w.Stderr, "%s %s\n", w.badge("⚠", "3", "Warning:"), fmt.Sprintf(format, args...))
}

// badge renders an icon and optional label in color. Without color only the
// label is kept.
func (w *Writer) badge(icon, color, label string) string {
	if !w.Color {
		return label
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(label != "")
	if label == "" {
		return style.Render(icon)
	}
	return style.Render(icon + " " + label)
}

func (w *Writer) dim(s string) string {
	if !w.Color {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(s)
}
