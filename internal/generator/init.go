package generator

import (
	"github.com/mcncl/jsonmodel/internal/generator/dart"
	"github.com/mcncl/jsonmodel/internal/generator/kotlin"
	"github.com/mcncl/jsonmodel/internal/generator/typescript"
	"github.com/mcncl/jsonmodel/internal/models"
)

// DefaultRegistry holds the built-in emitters.
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(models.TypeScript, func() Emitter {
		return typescript.NewEmitter()
	})
	DefaultRegistry.Register(models.Dart, func() Emitter {
		return dart.NewEmitter()
	})
	DefaultRegistry.Register(models.Kotlin, func() Emitter {
		return kotlin.NewEmitter()
	})
}
