// Package engine turns a parsed JSON document into model source code for one
// target language.
package engine

import (
	"github.com/mcncl/jsonmodel/internal/analyzer"
	"github.com/mcncl/jsonmodel/internal/generator"
	"github.com/mcncl/jsonmodel/internal/models"
)

// Engine dispatches extraction results to the emitter registered for a language.
// It keeps no state between calls and is safe for concurrent use.
type Engine struct {
	registry *generator.Registry
}

// New creates an Engine backed by registry, or by generator.DefaultRegistry when nil.
func New(registry *generator.Registry) *Engine {
	if registry == nil {
		registry = generator.DefaultRegistry
	}
	return &Engine{registry: registry}
}

var defaultEngine = New(nil)

// Generate extracts the models of document and renders them with the
// emitter for lang. The only error raised for a supported language is the
// structure error from extraction; emission itself cannot fail.
func (e *Engine) Generate(document models.JSONValue, rootName string, lang models.Language, opts models.GenerationOptions) (models.Output, error) {
	emitter, err := e.registry.Get(lang)
	if err != nil {
		return models.Output{}, err
	}

	result, err := analyzer.Extract(document, rootName, opts)
	if err != nil {
		return models.Output{}, err
	}

	return emitter.Emit(result.Root, result.Nested, opts), nil
}

// FileExtension returns the extension customary for files of lang.
func (e *Engine) FileExtension(lang models.Language) (string, error) {
	emitter, err := e.registry.Get(lang)
	if err != nil {
		return "", err
	}
	return emitter.FileExtension(), nil
}

// Languages returns the languages the engine can emit.
func (e *Engine) Languages() []models.Language {
	return e.registry.Languages()
}

// Generate runs the default engine.
func Generate(document models.JSONValue, rootName string, lang models.Language, opts models.GenerationOptions) (models.Output, error) {
	return defaultEngine.Generate(document, rootName, lang, opts)
}

// FileExtension returns the extension for lang from the default engine.
func FileExtension(lang models.Language) (string, error) {
	return defaultEngine.FileExtension(lang)
}

// Languages returns the languages of the default engine.
func Languages() []models.Language {
	return defaultEngine.Languages()
}

// Styles returns the serialization styles accepted for lang.
func Styles(lang models.Language) []string {
	return models.SerializationStyles(lang)
}
