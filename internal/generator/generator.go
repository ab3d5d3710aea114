// Package generator defines the contract shared by the per-language emitters
// and the registry used to look them up.
package generator

import "github.com/mcncl/jsonmodel/internal/models"

// Emitter renders a root model and its nested models as source text for one
// target language. Emit never fails for a well-formed model set: nested
// models are written first, then the root.
type Emitter interface {
	Emit(root models.Model, nested []models.Model, opts models.GenerationOptions) models.Output

	// Language returns the target language served by the emitter.
	Language() models.Language

	// FileExtension returns the customary extension for generated files (e.g. ".ts").
	FileExtension() string
}
