// Package report prints slot actions to the operator's console.
package report

import (
	"io"

	"github.com/fatih/color"

	"markestedt/clipslots/slots"
)

var (
	green  = color.New(color.FgGreen)
	cyan   = color.New(color.FgCyan)
	yellow = color.New(color.FgYellow)
	faint  = color.New(color.Faint)
)

// SetColor forces colored output on or off. Without it, color is used only
// when stdout is a terminal and NO_COLOR is unset.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// Reporter writes one line per slot action
type Reporter struct {
	w io.Writer
}

// New creates a reporter writing to w
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Stdout creates a reporter on color-aware standard output
func Stdout() *Reporter {
	return New(color.Output)
}

// Handle prints the change. It has the signature of a slots subscriber.
func (r *Reporter) Handle(c slots.Change) {
	label := slots.Label(c.Slot)
	switch c.Kind {
	case slots.Copied:
		green.Fprintf(r.w, "Saved %s to %s.\n", c.Content, label)
	case slots.Pasted:
		cyan.Fprintf(r.w, "Pasted %s from %s.\n", c.Content, label)
	case slots.PasteEmpty:
		yellow.Fprintf(r.w, "No value stored at %s.\n", label)
	case slots.Reset:
		faint.Fprintf(r.w, "%s reset.\n", label)
	}
}
