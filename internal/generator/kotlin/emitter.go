// Package kotlin renders models as Kotlin data classes or plain classes with
// kotlinx.serialization, Jackson or Gson annotations.
package kotlin

import (
	"strings"

	"github.com/mcncl/jsonmodel/internal/generator/writer"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/naming"
)

// Emitter generates Kotlin source.
type Emitter struct{}

// NewEmitter creates a new Kotlin emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Language returns the target language.
func (e *Emitter) Language() models.Language {
	return models.Kotlin
}

// FileExtension returns the file extension for generated files.
func (e *Emitter) FileExtension() string {
	return ".kt"
}

// rename maps a serialization style to the annotation that renames a
// property and the import that provides it.
var rename = map[string]struct{ annotation, importPath string }{
	models.StyleKotlinx: {"SerialName", "kotlinx.serialization.SerialName"},
	models.StyleJackson: {"JsonProperty", "com.fasterxml.jackson.annotation.JsonProperty"},
	models.StyleGson:    {"SerializedName", "com.google.gson.annotations.SerializedName"},
}

// Emit renders the package header, imports, nested models and then the root.
func (e *Emitter) Emit(root models.Model, nested []models.Model, opts models.GenerationOptions) models.Output {
	w := writer.New("    ")
	style := opts.Style()

	all := models.AnalysisResult{Root: root, Nested: nested}.Models()

	w.Linef("package %s", opts.Package())

	if imports := importsFor(all, style); len(imports) > 0 {
		w.BlankLine()
		for _, imp := range imports {
			w.Linef("import %s", imp)
		}
	}

	for _, m := range all {
		w.BlankLine()
		writeClass(w, m, opts.IncludeConstructor, style)
	}

	return models.Output{
		Code:     w.String(),
		FileName: naming.FileName(root.Name, naming.PascalFile, ""),
	}
}

func importsFor(all []models.Model, style string) []string {
	var imports []string
	if r, ok := rename[style]; ok {
		for _, m := range all {
			if m.HasRenamedProperties() {
				imports = append(imports, r.importPath)
				break
			}
		}
	}
	if style == models.StyleKotlinx {
		imports = append(imports, "kotlinx.serialization.Serializable")
	}
	return imports
}

func writeClass(w *writer.Writer, m models.Model, constructor bool, style string) {
	if style == models.StyleKotlinx {
		w.Line("@Serializable")
	}
	// neither an empty data class nor empty braces are useful
	if len(m.Properties) == 0 {
		w.Linef("class %s", m.Name)
		return
	}

	if constructor {
		w.Block("data class "+m.Name+"(", ")", func() {
			for i, p := range m.Properties {
				writeRename(w, p, style)
				sep := ","
				if i == len(m.Properties)-1 {
					sep = ""
				}
				if p.IsNullable {
					w.Linef("val %s: %s = null%s", p.Name, declaredType(p), sep)
				} else {
					w.Linef("val %s: %s%s", p.Name, declaredType(p), sep)
				}
			}
		})
		return
	}

	w.Block("class "+m.Name+" {", "}", func() {
		for _, p := range m.Properties {
			writeRename(w, p, style)
			w.Linef("var %s: %s = %s", p.Name, declaredType(p), initialValue(p))
		}
	})
}

func writeRename(w *writer.Writer, p models.Property, style string) {
	if !p.Renamed() {
		return
	}
	if r, ok := rename[style]; ok {
		w.Linef("@%s(%s)", r.annotation, quote(p.JSONKey))
	}
}

func declaredType(p models.Property) string {
	if p.IsNullable {
		return typeOf(p.Type) + "?"
	}
	return typeOf(p.Type)
}

func typeOf(t models.TypeDescriptor) string {
	switch t.Kind {
	case models.Primitive:
		switch t.Primitive {
		case models.String:
			return "String"
		case models.Integer:
			return "Int"
		case models.Float:
			return "Double"
		default:
			return "Boolean"
		}
	case models.Array:
		if t.Elem == nil {
			return "List<Any>"
		}
		return "List<" + typeOf(*t.Elem) + ">"
	case models.Reference:
		return t.Ref
	case models.Object:
		return "Map<String, Any?>"
	default:
		return "Any"
	}
}

func initialValue(p models.Property) string {
	if p.IsNullable {
		return "null"
	}
	switch p.Type.Kind {
	case models.Primitive:
		switch p.Type.Primitive {
		case models.String:
			return `""`
		case models.Integer:
			return "0"
		case models.Float:
			return "0.0"
		default:
			return "false"
		}
	case models.Array:
		return "listOf()"
	case models.Reference:
		return p.Type.Ref + "()"
	case models.Object:
		return "mapOf()"
	default:
		return "Any()"
	}
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "\n", `\n`)

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
