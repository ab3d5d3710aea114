// Package writer builds indented source text line by line.
package writer

import (
	"fmt"
	"strings"
)

// Writer accumulates source text and tracks the indentation of the line
// being written.
type Writer struct {
	sb          strings.Builder
	indent      string
	level       int
	prefix      string
	needsIndent bool
	// trailing counts the newlines at the end of the buffer, capped at 2
	trailing int
}

// New creates a Writer that indents with unit, e.g. "  " or "    ".
func New(unit string) *Writer {
	return &Writer{indent: unit, needsIndent: true}
}

// Indent increases the indentation level.
func (w *Writer) Indent() {
	w.level++
	w.prefix = strings.Repeat(w.indent, w.level)
}

// Dedent decreases the indentation level.
func (w *Writer) Dedent() {
	if w.level == 0 {
		return
	}
	w.level--
	w.prefix = strings.Repeat(w.indent, w.level)
}

// Write writes s without a newline, indenting first if at the start of a line.
func (w *Writer) Write(s string) {
	if s == "" {
		return
	}
	if w.needsIndent {
		w.sb.WriteString(w.prefix)
		w.needsIndent = false
	}
	w.sb.WriteString(s)
	w.trailing = 0
}

// Writef is the formatted form of Write.
func (w *Writer) Writef(format string, args ...interface{}) {
	w.Write(fmt.Sprintf(format, args...))
}

// Line writes s followed by a newline.
func (w *Writer) Line(s string) {
	w.Write(s)
	w.Newline()
}

// Linef is the formatted form of Line.
func (w *Writer) Linef(format string, args ...interface{}) {
	w.Writef(format, args...)
	w.Newline()
}

// Newline ends the current line.
func (w *Writer) Newline() {
	w.sb.WriteByte('\n')
	w.needsIndent = true
	if w.trailing < 2 {
		w.trailing++
	}
}

// BlankLine separates blocks with exactly one empty line. It does nothing at
// the start of the buffer or when the previous line is already blank.
func (w *Writer) BlankLine() {
	if w.sb.Len() == 0 || w.trailing >= 2 {
		return
	}
	if w.trailing == 0 {
		w.Newline()
	}
	w.Newline()
}

// Block writes opener, the indented content and closer on their own lines.
func (w *Writer) Block(opener, closer string, content func()) {
	w.Line(opener)
	w.Indent()
	content()
	w.Dedent()
	w.Line(closer)
}

// Comment writes a "//" comment line for every line of text.
func (w *Writer) Comment(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			w.Line("//")
			continue
		}
		w.Linef("// %s", line)
	}
}

// String returns the text written so far.
func (w *Writer) String() string {
	return w.sb.String()
}
