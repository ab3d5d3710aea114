package models

import "fmt"

// Kind tags the variant held by a TypeDescriptor.
type Kind int

const (
	Dynamic   Kind = iota // unknown or untyped, e.g. a null value
	Primitive             // string, integer, float or boolean
	Array                 // homogeneous sequence, see TypeDescriptor.Elem
	Reference             // points at a Model by name
	Object                // object past the extraction depth, rendered as an untyped map
)

func (k Kind) String() string {
	switch k {
	case Dynamic:
		return "dynamic"
	case Primitive:
		return "primitive"
	case Array:
		return "array"
	case Reference:
		return "reference"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// PrimitiveKind identifies a scalar JSON type.
type PrimitiveKind string

const (
	String  PrimitiveKind = "string"
	Integer PrimitiveKind = "integer"
	Float   PrimitiveKind = "float"
	Boolean PrimitiveKind = "boolean"
)

// TypeDescriptor is the inferred semantic type of a JSON value.
type TypeDescriptor struct {
	Kind      Kind
	Primitive PrimitiveKind   // set when Kind == Primitive
	Elem      *TypeDescriptor // set when Kind == Array
	Ref       string          // model name when Kind == Reference
}

// DynamicType returns the untyped descriptor.
func DynamicType() TypeDescriptor {
	return TypeDescriptor{Kind: Dynamic}
}

// PrimitiveType returns a scalar descriptor.
func PrimitiveType(p PrimitiveKind) TypeDescriptor {
	return TypeDescriptor{Kind: Primitive, Primitive: p}
}

// ArrayOf returns a sequence descriptor with the given element type.
func ArrayOf(elem TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: Array, Elem: &elem}
}

// ReferenceTo returns a descriptor pointing at the named model.
func ReferenceTo(name string) TypeDescriptor {
	return TypeDescriptor{Kind: Reference, Ref: name}
}

// GenericObject returns the descriptor for an object that is not expanded into a model.
func GenericObject() TypeDescriptor {
	return TypeDescriptor{Kind: Object}
}

// Innermost follows array element types down to the first non-array descriptor.
func (t TypeDescriptor) Innermost() TypeDescriptor {
	for t.Kind == Array && t.Elem != nil {
		t = *t.Elem
	}
	return t
}

// ReferencedModel returns the model name this descriptor points at, either
// directly or through any number of array levels.
func (t TypeDescriptor) ReferencedModel() (string, bool) {
	inner := t.Innermost()
	if inner.Kind != Reference {
		return "", false
	}
	return inner.Ref, true
}

// WithInnermost returns a copy of t whose innermost descriptor is replaced by inner.
func (t TypeDescriptor) WithInnermost(inner TypeDescriptor) TypeDescriptor {
	if t.Kind != Array || t.Elem == nil {
		return inner
	}
	return ArrayOf(t.Elem.WithInnermost(inner))
}

// Equal reports whether two descriptors describe the same type.
func (t TypeDescriptor) Equal(other TypeDescriptor) bool {
	if t.Kind != other.Kind || t.Primitive != other.Primitive || t.Ref != other.Ref {
		return false
	}
	if t.Kind == Array {
		if t.Elem == nil || other.Elem == nil {
			return t.Elem == other.Elem
		}
		return t.Elem.Equal(*other.Elem)
	}
	return true
}

func (t TypeDescriptor) String() string {
	switch t.Kind {
	case Primitive:
		return string(t.Primitive)
	case Array:
		if t.Elem == nil {
			return "array<dynamic>"
		}
		return "array<" + t.Elem.String() + ">"
	case Reference:
		return "ref<" + t.Ref + ">"
	default:
		return t.Kind.String()
	}
}

// Property is one field of a Model.
type Property struct {
	Name       string // camelCase identifier
	JSONKey    string // original key, kept for serialization mapping
	Type       TypeDescriptor
	IsNullable bool
	IsArray    bool
	IsObject   bool
}

// Renamed reports whether the identifier differs from the original key.
func (p Property) Renamed() bool {
	return p.Name != p.JSONKey
}

// Model is a named, ordered collection of properties that becomes one
// generated class, interface or data type.
type Model struct {
	Name       string
	Properties []Property
}

// Equivalent reports whether two models have the same fields with the same types.
func (m Model) Equivalent(other Model) bool {
	if len(m.Properties) != len(other.Properties) {
		return false
	}
	for i, p := range m.Properties {
		q := other.Properties[i]
		if p.Name != q.Name || p.JSONKey != q.JSONKey || p.IsNullable != q.IsNullable || !p.Type.Equal(q.Type) {
			return false
		}
	}
	return true
}

// AnalysisResult holds the root model and the nested models discovered one
// level below it, in the order their owning properties appear.
type AnalysisResult struct {
	Root   Model
	Nested []Model
}

// Models returns every model in emission order: nested models first, then the root.
func (r AnalysisResult) Models() []Model {
	out := make([]Model, 0, len(r.Nested)+1)
	out = append(out, r.Nested...)
	return append(out, r.Root)
}

// HasRenamedProperties reports whether any property identifier differs from its key.
func (m Model) HasRenamedProperties() bool {
	for _, p := range m.Properties {
		if p.Renamed() {
			return true
		}
	}
	return false
}

// HasModelReferences reports whether any property points at another model,
// directly or through arrays.
func (m Model) HasModelReferences() bool {
	for _, p := range m.Properties {
		if _, ok := p.Type.ReferencedModel(); ok {
			return true
		}
	}
	return false
}
