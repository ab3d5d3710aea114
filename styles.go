package main

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonmodel/internal/models"
)

// StylesCmd prints the serialization styles accepted per language.
type StylesCmd struct {
	Language string `arg:"" optional:"" help:"Only list the styles of this language."`
}

// Run prints one line per language, default style first.
func (s *StylesCmd) Run(rc *RunContext) error {
	langs := rc.Engine.Languages()
	if s.Language != "" {
		lang, err := models.ParseLanguage(s.Language)
		if err != nil {
			return err
		}
		langs = []models.Language{lang}
	}

	for _, lang := range langs {
		ext, err := rc.Engine.FileExtension(lang)
		if err != nil {
			return err
		}
		fmt.Fprintf(rc.Stdout, "%s (%s): %s\n", lang, ext, strings.Join(models.SerializationStyles(lang), ", "))
	}
	return nil
}
