// Package dart renders models as Dart classes, optionally with
// json_serializable annotations or hand-written fromJson/toJson methods.
package dart

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonmodel/internal/generator/writer"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/naming"
)

// Emitter generates Dart source.
type Emitter struct{}

// NewEmitter creates a new Dart emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Language returns the target language.
func (e *Emitter) Language() models.Language {
	return models.Dart
}

// FileExtension returns the file extension for generated files.
func (e *Emitter) FileExtension() string {
	return ".dart"
}

// Emit renders nested models first, then the root.
func (e *Emitter) Emit(root models.Model, nested []models.Model, opts models.GenerationOptions) models.Output {
	w := writer.New("  ")
	style := opts.Style()
	fileName := naming.FileName(root.Name, naming.SnakeFile, "")

	if style == models.StyleJSONSerializable {
		w.Line("import 'package:json_annotation/json_annotation.dart';")
		w.BlankLine()
		w.Linef("part '%s.g.dart';", fileName)
	}

	for _, m := range (models.AnalysisResult{Root: root, Nested: nested}).Models() {
		w.BlankLine()
		writeClass(w, m, opts.IncludeConstructor, style)
	}

	return models.Output{Code: w.String(), FileName: fileName}
}

// classWriter writes the sections of one class body, separated by blank lines.
type classWriter struct {
	w     *writer.Writer
	m     models.Model
	wrote bool
}

func (c *classWriter) section(content func()) {
	if c.wrote {
		c.w.BlankLine()
	}
	content()
	c.wrote = true
}

func writeClass(w *writer.Writer, m models.Model, constructor bool, style string) {
	annotated := style == models.StyleJSONSerializable
	manual := style == models.StyleManual

	if annotated {
		w.Line("@JsonSerializable()")
	}
	if len(m.Properties) == 0 && !constructor && !annotated && !manual {
		w.Linef("class %s {}", m.Name)
		return
	}

	w.Block("class "+m.Name+" {", "}", func() {
		c := &classWriter{w: w, m: m}
		if len(m.Properties) > 0 {
			c.section(func() { c.fields(constructor, annotated) })
		}
		switch {
		case constructor:
			c.section(c.constructor)
		case annotated || manual:
			// declaring fromJson removes the implicit default constructor
			c.section(func() { w.Linef("%s();", m.Name) })
		}
		switch {
		case annotated:
			c.section(func() {
				w.Linef("factory %s.fromJson(Map<String, dynamic> json) => _$%sFromJson(json);", m.Name, m.Name)
			})
			c.section(func() {
				w.Linef("Map<String, dynamic> toJson() => _$%sToJson(this);", m.Name)
			})
		case manual:
			c.section(func() { c.fromJSON(constructor) })
			c.section(c.toJSON)
		}
	})
}

func (c *classWriter) fields(constructor, annotated bool) {
	for _, p := range c.m.Properties {
		if annotated && p.Renamed() {
			c.w.Linef("@JsonKey(name: %s)", quote(p.JSONKey))
		}
		switch {
		case constructor:
			c.w.Linef("final %s %s;", declaredType(p), p.Name)
		case p.IsNullable || p.Type.Kind == models.Dynamic:
			c.w.Linef("%s %s;", declaredType(p), p.Name)
		default:
			c.w.Linef("%s %s = %s;", declaredType(p), p.Name, defaultValue(p.Type))
		}
	}
}

func (c *classWriter) constructor() {
	if len(c.m.Properties) == 0 {
		c.w.Linef("%s();", c.m.Name)
		return
	}
	c.w.Block(c.m.Name+"({", "});", func() {
		for _, p := range c.m.Properties {
			if required(p) {
				c.w.Linef("required this.%s,", p.Name)
			} else {
				c.w.Linef("this.%s,", p.Name)
			}
		}
	})
}

// fromJSON writes a factory that calls the constructor with named arguments,
// or builds the instance with cascades when there is no constructor.
func (c *classWriter) fromJSON(constructor bool) {
	c.w.Block("factory "+c.m.Name+".fromJson(Map<String, dynamic> json) {", "}", func() {
		props := c.m.Properties
		if len(props) == 0 {
			c.w.Linef("return %s();", c.m.Name)
			return
		}

		if constructor {
			c.w.Block("return "+c.m.Name+"(", ");", func() {
				for _, p := range props {
					c.w.Linef("%s: %s,", p.Name, decode(p.Type, jsonAccess(p), p.IsNullable, 0))
				}
			})
			return
		}

		c.w.Linef("return %s()", c.m.Name)
		c.w.Indent()
		for i, p := range props {
			end := ""
			if i == len(props)-1 {
				end = ";"
			}
			c.w.Linef("..%s = %s%s", p.Name, decode(p.Type, jsonAccess(p), p.IsNullable, 0), end)
		}
		c.w.Dedent()
	})
}

func (c *classWriter) toJSON() {
	c.w.Block("Map<String, dynamic> toJson() {", "}", func() {
		if len(c.m.Properties) == 0 {
			c.w.Line("return {};")
			return
		}
		c.w.Block("return {", "};", func() {
			for _, p := range c.m.Properties {
				c.w.Linef("%s: %s,", quote(p.JSONKey), encode(p.Type, p.Name, p.IsNullable, 0))
			}
		})
	})
}

func jsonAccess(p models.Property) string {
	return "json[" + quote(p.JSONKey) + "]"
}

// decode returns the expression converting the raw JSON value src to type t.
// Values that need no conversion are passed through.
func decode(t models.TypeDescriptor, src string, nullable bool, depth int) string {
	switch t.Kind {
	case models.Reference:
		if nullable {
			return fmt.Sprintf("%s != null ? %s.fromJson(%s) : null", src, t.Ref, src)
		}
		return fmt.Sprintf("%s.fromJson(%s)", t.Ref, src)
	case models.Primitive:
		if t.Primitive != models.Float {
			return src
		}
		if nullable {
			return fmt.Sprintf("(%s as num?)?.toDouble()", src)
		}
		return fmt.Sprintf("(%s as num).toDouble()", src)
	case models.Array:
		elem := models.DynamicType()
		if t.Elem != nil {
			elem = *t.Elem
		}
		if !needsConversion(elem) {
			if nullable {
				return fmt.Sprintf("%s != null ? List<%s>.from(%s) : null", src, typeOf(elem), src)
			}
			return fmt.Sprintf("List<%s>.from(%s)", typeOf(elem), src)
		}
		v := elementVar(depth)
		body := decode(elem, v, false, depth+1)
		if nullable {
			return fmt.Sprintf("(%s as List?)?.map((%s) => %s).toList()", src, v, body)
		}
		return fmt.Sprintf("(%s as List).map((%s) => %s).toList()", src, v, body)
	default:
		return src
	}
}

// encode returns the expression converting field value name back to JSON.
func encode(t models.TypeDescriptor, name string, nullable bool, depth int) string {
	access := "."
	if nullable {
		access = "?."
	}
	switch t.Kind {
	case models.Reference:
		return name + access + "toJson()"
	case models.Array:
		if _, ok := t.ReferencedModel(); !ok || t.Elem == nil {
			return name
		}
		v := elementVar(depth)
		return fmt.Sprintf("%s%smap((%s) => %s).toList()", name, access, v, encode(*t.Elem, v, false, depth+1))
	default:
		return name
	}
}

func needsConversion(t models.TypeDescriptor) bool {
	switch t.Kind {
	case models.Reference, models.Array:
		return true
	case models.Primitive:
		return t.Primitive == models.Float
	default:
		return false
	}
}

func elementVar(depth int) string {
	if depth == 0 {
		return "e"
	}
	return fmt.Sprintf("e%d", depth)
}

func required(p models.Property) bool {
	return !p.IsNullable && p.Type.Kind != models.Dynamic
}

// declaredType appends the nullable marker, except to dynamic which already
// admits null.
func declaredType(p models.Property) string {
	t := typeOf(p.Type)
	if p.IsNullable && p.Type.Kind != models.Dynamic {
		return t + "?"
	}
	return t
}

func typeOf(t models.TypeDescriptor) string {
	switch t.Kind {
	case models.Primitive:
		switch t.Primitive {
		case models.String:
			return "String"
		case models.Integer:
			return "int"
		case models.Float:
			return "double"
		default:
			return "bool"
		}
	case models.Array:
		if t.Elem == nil {
			return "List<dynamic>"
		}
		return "List<" + typeOf(*t.Elem) + ">"
	case models.Reference:
		return t.Ref
	case models.Object:
		return "Map<String, dynamic>"
	default:
		return "dynamic"
	}
}

func defaultValue(t models.TypeDescriptor) string {
	switch t.Kind {
	case models.Primitive:
		switch t.Primitive {
		case models.String:
			return "''"
		case models.Integer:
			return "0"
		case models.Float:
			return "0.0"
		default:
			return "false"
		}
	case models.Array:
		return "[]"
	case models.Reference:
		return t.Ref + "()"
	case models.Object:
		return "{}"
	default:
		return "null"
	}
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `$`, `\$`, "\n", `\n`)

func quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}
