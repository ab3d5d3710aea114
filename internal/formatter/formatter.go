// Package formatter post-processes generated source before it is written.
package formatter

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mcncl/jsonmodel/internal/generator/writer"
)

// Formatter normalizes generated code and prepends an optional file header.
type Formatter struct {
	header string
	log    zerolog.Logger
}

// NewFormatter creates a Formatter. header is written as // line comments;
// an empty header adds nothing.
func NewFormatter(header string, log zerolog.Logger) *Formatter {
	return &Formatter{header: strings.TrimSpace(header), log: log}
}

// Format strips trailing whitespace, collapses runs of blank lines, ends the
// code with exactly one newline and prepends the header. Code whose brackets
// or quotes do not pair up is still returned, with a warning: JSON keys are
// not escaped, so a key such as "it's" reaches the output verbatim.
func (f *Formatter) Format(code string) string {
	// Handle empty input
	if strings.TrimSpace(code) == "" {
		return ""
	}

	if err := checkBalanced(code); err != nil {
		f.log.Warn().Err(err).Msg("generated code may not compile")
	}

	var b strings.Builder
	if f.header != "" {
		b.WriteString(commentLines(f.header))
		b.WriteString("\n")
	}
	b.WriteString(normalizeLines(code))
	return b.String()
}

func commentLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	w := writer.New("")
	w.Comment(strings.Join(lines, "\n"))
	return w.String()
}

func normalizeLines(code string) string {
	lines := strings.Split(strings.ReplaceAll(code, "\r\n", "\n"), "\n")
	result := make([]string, 0, len(lines))
	blank := true // drops leading blank lines

	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		result = append(result, line)
	}

	for len(result) > 0 && result[len(result)-1] == "" {
		result = result[:len(result)-1]
	}
	return strings.Join(result, "\n") + "\n"
}

var closing = map[rune]rune{')': '(', ']': '[', '}': '{'}

// checkBalanced matches brackets outside string literals and line comments.
func checkBalanced(code string) error {
	var stack []rune
	var quote rune
	escaped := false
	line := 1

	runes := []rune(code)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' {
			line++
		}

		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			case r == '\n':
				return fmt.Errorf("unterminated string literal on line %d", line-1)
			}
			continue
		}

		switch r {
		case '\'', '"', '`':
			quote = r
		case '/':
			if i+1 < len(runes) && runes[i+1] == '/' {
				for i < len(runes) && runes[i] != '\n' {
					i++
				}
				line++
			}
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != closing[r] {
				return fmt.Errorf("unexpected '%c' on line %d", r, line)
			}
			stack = stack[:len(stack)-1]
		}
	}

	if quote != 0 {
		return fmt.Errorf("unterminated string literal")
	}
	if len(stack) > 0 {
		return fmt.Errorf("unclosed '%c'", stack[len(stack)-1])
	}
	return nil
}
