package ast

import (
	"fmt"
	"strings"
)

// TextWriter accumulates the text form, indenting two spaces per open
// S-expression.
type TextWriter struct {
	b     strings.Builder
	depth int
}

// NewTextWriter returns an empty writer.
func NewTextWriter() *TextWriter {
	return &TextWriter{}
}

// Line writes one instruction or atom on its own line.
func (w *TextWriter) Line(s string) {
	for i := 0; i < w.depth; i++ {
		w.b.WriteString("  ")
	}
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

// Linef is Line with formatting.
func (w *TextWriter) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Open starts an S-expression whose head is the formatted text.
func (w *TextWriter) Open(format string, args ...any) {
	w.Line("(" + fmt.Sprintf(format, args...))
	w.depth++
}

// Close ends the innermost S-expression.
func (w *TextWriter) Close() {
	w.depth--
	w.Line(")")
}

// String returns the text written so far.
func (w *TextWriter) String() string {
	return w.b.String()
}
