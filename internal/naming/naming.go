// Package naming normalizes JSON keys into target-language identifiers.
//
// The conversions are intentionally narrow: only the first character is
// case-mapped, and every "_x" or "-x" pair after it collapses into an
// upper-cased "x". Inputs outside that rule are handled best-effort:
//
//   - consecutive separators collapse one pair at a time ("a__b" -> "a_b")
//   - a trailing separator is kept ("a_" -> "A_")
//   - a leading separator is kept because it is the first character ("_id" -> "_id")
//   - non-ASCII letters are mapped with the unicode package
//   - characters that are not valid in identifiers (spaces, dots, quotes,
//     leading digits) pass through unchanged. A key like "it's" therefore
//     yields code that does not compile; the generate command writes it
//     anyway and logs a warning.
//   - an empty key yields an empty identifier
//   - reserved words of the target languages ("class", "default", "in", "is",
//     "object", "val") are not escaped and come out verbatim
package naming

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

// ToPascalCase upper-cases the first character of s and folds separators.
func ToPascalCase(s string) string {
	return convert(s, unicode.ToUpper)
}

// ToCamelCase lower-cases the first character of s and folds separators.
func ToCamelCase(s string) string {
	return convert(s, unicode.ToLower)
}

func convert(s string, first func(rune) rune) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(first(runes[0]))

	for i := 1; i < len(runes); i++ {
		r := runes[i]
		if (r == '_' || r == '-') && i+1 < len(runes) {
			b.WriteRune(unicode.ToUpper(runes[i+1]))
			i++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FileStyle selects a file naming convention.
type FileStyle int

const (
	// PascalFile keeps the identifier as is, e.g. "UserProfile".
	PascalFile FileStyle = iota
	// SnakeFile converts to snake_case, e.g. "user_profile".
	SnakeFile
)

// FileName derives a file name (without extension) from a model identifier.
func FileName(name string, style FileStyle, suffix string) string {
	base := name + suffix
	switch style {
	case SnakeFile:
		return strcase.ToSnake(base)
	default:
		return base
	}
}
