package generator

import (
	"fmt"
	"sync"

	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/models"
)

// Factory creates an Emitter.
type Factory func() Emitter

// Registry manages the available emitters.
type Registry struct {
	mu       sync.RWMutex
	emitters map[models.Language]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		emitters: make(map[models.Language]Factory),
	}
}

// Register adds or replaces the factory for a language.
func (r *Registry) Register(lang models.Language, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emitters[lang] = factory
}

// Get returns a new emitter for lang.
func (r *Registry) Get(lang models.Language) (Emitter, error) {
	r.mu.RLock()
	factory, ok := r.emitters[lang]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NewOptionsError(fmt.Sprintf("no emitter registered for '%s'", lang), errors.ErrUnsupportedLanguage)
	}
	return factory(), nil
}

// Languages returns the registered languages, in the display order of
// models.Languages.
func (r *Registry) Languages() []models.Language {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Language, 0, len(r.emitters))
	for _, lang := range models.Languages() {
		if _, ok := r.emitters[lang]; ok {
			out = append(out, lang)
		}
	}
	return out
}
