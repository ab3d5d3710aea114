package generator

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/models"
)

type mockEmitter struct {
	lang models.Language
}

func (m *mockEmitter) Emit(root models.Model, _ []models.Model, _ models.GenerationOptions) models.Output {
	return models.Output{Code: "mock " + root.Name, FileName: root.Name}
}

func (m *mockEmitter) Language() models.Language { return m.lang }

func (m *mockEmitter) FileExtension() string { return ".mock" }

func TestRegistry_Empty(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Languages())

	e, err := r.Get(models.TypeScript)
	assert.Nil(t, e)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrUnsupportedLanguage))
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register(models.Kotlin, func() Emitter { return &mockEmitter{lang: models.Kotlin} })

	e, err := r.Get(models.Kotlin)
	require.NoError(t, err)
	assert.Equal(t, models.Kotlin, e.Language())

	out := e.Emit(models.Model{Name: "User"}, nil, models.DefaultOptions())
	assert.Equal(t, "mock User", out.Code)
}

func TestRegistry_LanguagesFollowDisplayOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(models.Kotlin, func() Emitter { return &mockEmitter{lang: models.Kotlin} })
	r.Register(models.TypeScript, func() Emitter { return &mockEmitter{lang: models.TypeScript} })

	assert.Equal(t, []models.Language{models.TypeScript, models.Kotlin}, r.Languages())
}

func TestDefaultRegistry(t *testing.T) {
	assert.Equal(t, models.Languages(), DefaultRegistry.Languages())

	extensions := map[models.Language]string{
		models.TypeScript: ".ts",
		models.Dart:       ".dart",
		models.Kotlin:     ".kt",
	}
	for lang, ext := range extensions {
		e, err := DefaultRegistry.Get(lang)
		require.NoError(t, err)
		assert.Equal(t, lang, e.Language())
		assert.Equal(t, ext, e.FileExtension())
	}
}
