package writer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_Write(t *testing.T) {
	w := New("  ")
	w.Write("hello")
	w.Write(" world")
	w.Write("")

	assert.Equal(t, "hello world", w.String())
}

func TestWriter_Indentation(t *testing.T) {
	w := New("    ")
	w.Line("class A {")
	w.Indent()
	w.Line("val x: Int")
	w.Indent()
	w.Linef("// %d", 2)
	w.Dedent()
	w.Dedent()
	w.Dedent() // no-op at level 0
	w.Line("}")

	assert.Equal(t, "class A {\n    val x: Int\n        // 2\n}\n", w.String())
}

func TestWriter_Block(t *testing.T) {
	w := New("  ")
	w.Block("if (data) {", "}", func() {
		w.Line("Object.assign(this, data);")
	})

	assert.Equal(t, "if (data) {\n  Object.assign(this, data);\n}\n", w.String())
}

func TestWriter_BlankLine(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		want  string
	}{
		{
			name:  "empty buffer",
			write: func(w *Writer) { w.BlankLine() },
			want:  "",
		},
		{
			name: "after a full line",
			write: func(w *Writer) {
				w.Line("a")
				w.BlankLine()
				w.Line("b")
			},
			want: "a\n\nb\n",
		},
		{
			name: "collapses repeats",
			write: func(w *Writer) {
				w.Line("a")
				w.BlankLine()
				w.BlankLine()
				w.Line("b")
			},
			want: "a\n\nb\n",
		},
		{
			name: "mid line",
			write: func(w *Writer) {
				w.Write("a")
				w.BlankLine()
				w.Write("b")
			},
			want: "a\n\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New("\t")
			tt.write(w)
			assert.Equal(t, tt.want, w.String())
		})
	}
}

func TestWriter_BlankLineDoesNotIndent(t *testing.T) {
	w := New("  ")
	w.Indent()
	w.Line("a")
	w.BlankLine()
	w.Line("b")

	assert.Equal(t, "  a\n\n  b\n", w.String())
}

func TestWriter_Comment(t *testing.T) {
	w := New("  ")
	w.Comment("Code generated by jsonmodel.\n\nDo not edit.\n")

	assert.Equal(t, "// Code generated by jsonmodel.\n//\n// Do not edit.\n", w.String())
}
