// Package typescript renders models as TypeScript classes or interfaces.
package typescript

import (
	"strings"

	"github.com/mcncl/jsonmodel/internal/generator/writer"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/naming"
)

// Emitter generates TypeScript source.
type Emitter struct{}

// NewEmitter creates a new TypeScript emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Language returns the target language.
func (e *Emitter) Language() models.Language {
	return models.TypeScript
}

// FileExtension returns the file extension for generated files.
func (e *Emitter) FileExtension() string {
	return ".ts"
}

// Emit renders nested models first, then the root. The "type-only" style
// produces interfaces; every other style produces classes.
func (e *Emitter) Emit(root models.Model, nested []models.Model, opts models.GenerationOptions) models.Output {
	w := writer.New("  ")
	style := opts.Style()

	all := models.AnalysisResult{Root: root, Nested: nested}.Models()

	if style == models.StyleClassTransformer {
		if imports := decoratorImports(all); len(imports) > 0 {
			w.Linef("import { %s } from 'class-transformer';", strings.Join(imports, ", "))
		}
	}

	for _, m := range all {
		w.BlankLine()
		if style == models.StyleTypeOnly {
			writeInterface(w, m)
		} else {
			writeClass(w, m, opts.IncludeConstructor, style == models.StyleClassTransformer)
		}
	}

	return models.Output{
		Code:     w.String(),
		FileName: naming.FileName(root.Name, naming.PascalFile, "Model"),
	}
}

func writeInterface(w *writer.Writer, m models.Model) {
	if len(m.Properties) == 0 {
		w.Linef("export interface %s {}", m.Name)
		return
	}
	w.Block("export interface "+m.Name+" {", "}", func() {
		for _, p := range m.Properties {
			w.Linef("%s%s: %s;", p.Name, optionalMarker(p), typeOf(p.Type))
		}
	})
}

func writeClass(w *writer.Writer, m models.Model, constructor, decorators bool) {
	if len(m.Properties) == 0 && !constructor {
		w.Linef("export class %s {}", m.Name)
		return
	}

	w.Block("export class "+m.Name+" {", "}", func() {
		for _, p := range m.Properties {
			if decorators {
				if p.Renamed() {
					w.Linef("@Expose({ name: %s })", quote(p.JSONKey))
				}
				if ref, ok := p.Type.ReferencedModel(); ok {
					w.Linef("@Type(() => %s)", ref)
				}
			}
			w.Linef("%s%s: %s%s;", p.Name, optionalMarker(p), typeOf(p.Type), initializer(p))
		}

		if !constructor {
			return
		}
		if len(m.Properties) > 0 {
			w.BlankLine()
		}
		w.Block("constructor(data?: Partial<"+m.Name+">) {", "}", func() {
			w.Block("if (data) {", "}", func() {
				w.Line("Object.assign(this, data);")
			})
		})
	})
}

// decoratorImports lists the class-transformer decorators used by models, sorted.
func decoratorImports(all []models.Model) []string {
	var expose, typ bool
	for _, m := range all {
		expose = expose || m.HasRenamedProperties()
		typ = typ || m.HasModelReferences()
	}
	var out []string
	if expose {
		out = append(out, "Expose")
	}
	if typ {
		out = append(out, "Type")
	}
	return out
}

func optionalMarker(p models.Property) string {
	if p.IsNullable {
		return "?"
	}
	return ""
}

func typeOf(t models.TypeDescriptor) string {
	switch t.Kind {
	case models.Primitive:
		switch t.Primitive {
		case models.String:
			return "string"
		case models.Boolean:
			return "boolean"
		default:
			return "number"
		}
	case models.Array:
		if t.Elem == nil {
			return "any[]"
		}
		return typeOf(*t.Elem) + "[]"
	case models.Reference:
		return t.Ref
	case models.Object:
		return "Record<string, any>"
	default:
		return "any"
	}
}

// initializer returns the " = value" suffix for a class field. Optional
// fields and fields typed any are left undefined.
func initializer(p models.Property) string {
	if p.IsNullable {
		return ""
	}
	v := defaultValue(p.Type)
	if v == "" {
		return ""
	}
	return " = " + v
}

func defaultValue(t models.TypeDescriptor) string {
	switch t.Kind {
	case models.Primitive:
		switch t.Primitive {
		case models.String:
			return "''"
		case models.Boolean:
			return "false"
		default:
			return "0"
		}
	case models.Array:
		return "[]"
	case models.Reference:
		return "new " + t.Ref + "()"
	case models.Object:
		return "{}"
	default:
		return ""
	}
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)

func quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}
