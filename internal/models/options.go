package models

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonmodel/internal/errors"
)

// Language selects the target of code emission.
type Language string

const (
	TypeScript Language = "typescript"
	Dart       Language = "dart"
	Kotlin     Language = "kotlin"
)

// Serialization styles recognized per language.
const (
	StyleNone = "none"

	StyleClassTransformer = "class-transformer"
	StyleTypeOnly         = "type-only"

	StyleJSONSerializable = "@JsonSerializable"
	StyleManual           = "fromJson/toJson"

	StyleKotlinx = "@Serializable"
	StyleJackson = "Jackson"
	StyleGson    = "Gson"
)

// DefaultKotlinPackage is used when GenerationOptions.PackageName is empty.
const DefaultKotlinPackage = "com.example.models"

var languages = []Language{TypeScript, Dart, Kotlin}

var languageAliases = map[string]Language{
	"typescript": TypeScript,
	"ts":         TypeScript,
	"dart":       Dart,
	"kotlin":     Kotlin,
	"kt":         Kotlin,
}

var serializationStyles = map[Language][]string{
	TypeScript: {StyleNone, StyleClassTransformer, StyleTypeOnly},
	Dart:       {StyleNone, StyleJSONSerializable, StyleManual},
	Kotlin:     {StyleNone, StyleKotlinx, StyleJackson, StyleGson},
}

// Languages returns the supported target languages in display order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// ParseLanguage resolves a language name or alias.
func ParseLanguage(name string) (Language, error) {
	lang, ok := languageAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", errors.NewOptionsError(fmt.Sprintf("unsupported language '%s'", name), errors.ErrUnsupportedLanguage)
	}
	return lang, nil
}

// SerializationStyles returns the styles accepted for a language, "none" first.
func SerializationStyles(lang Language) []string {
	styles := serializationStyles[lang]
	out := make([]string, len(styles))
	copy(out, styles)
	return out
}

// GenerationOptions configures a single generation call. It is passed by value
// and never modified by the engine.
type GenerationOptions struct {
	IncludeConstructor bool
	NullSafety         bool
	SerializationStyle string
	// PackageName is the Kotlin package; other languages ignore it.
	PackageName string
}

// DefaultOptions mirrors the defaults of the interactive tool.
func DefaultOptions() GenerationOptions {
	return GenerationOptions{
		IncludeConstructor: true,
		NullSafety:         true,
		SerializationStyle: StyleNone,
	}
}

// Style returns the serialization style, treating an empty value as "none".
func (o GenerationOptions) Style() string {
	if o.SerializationStyle == "" {
		return StyleNone
	}
	return o.SerializationStyle
}

// Package returns the Kotlin package name, falling back to the default.
func (o GenerationOptions) Package() string {
	if o.PackageName == "" {
		return DefaultKotlinPackage
	}
	return o.PackageName
}

// Validate checks the options against the style table of lang.
func (o GenerationOptions) Validate(lang Language) error {
	styles, ok := serializationStyles[lang]
	if !ok {
		return errors.NewOptionsError(fmt.Sprintf("unsupported language '%s'", lang), errors.ErrUnsupportedLanguage)
	}
	style := o.Style()
	for _, s := range styles {
		if s == style {
			return nil
		}
	}
	return errors.NewOptionsError(
		fmt.Sprintf("serialization style '%s' is not available for %s (choose one of: %s)", style, lang, strings.Join(styles, ", ")),
		errors.ErrUnsupportedStyle,
	)
}
