package analyzer

import (
	"fmt"

	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/naming"
)

// DefaultRootName is the default name for the root model if not specified.
const DefaultRootName = "Model"

// Analyzer builds the root model of a document and the models of its
// object-valued properties. Nested objects are expanded exactly one level
// deep; anything below that is typed as a generic object.
//
// An Analyzer is single-use: create one per document.
type Analyzer struct {
	options models.GenerationOptions
	// modelNames tracks used model names to avoid collisions
	modelNames map[string]bool
	// byBase groups nested models by the name inference suggested for them
	byBase map[string][]int
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(opts models.GenerationOptions) *Analyzer {
	return &Analyzer{
		options:    opts,
		modelNames: make(map[string]bool),
		byBase:     make(map[string][]int),
	}
}

// Extract runs a fresh Analyzer over document.
func Extract(document models.JSONValue, rootName string, opts models.GenerationOptions) (models.AnalysisResult, error) {
	return NewAnalyzer(opts).Analyze(models.IntermediateRepresentation{Root: document}, rootName)
}

// Analyze processes the parsed document and returns the root model and its nested models.
func (a *Analyzer) Analyze(ir models.IntermediateRepresentation, rootName string) (models.AnalysisResult, error) {
	obj, err := representativeObject(ir.Root)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	if rootName == "" {
		rootName = DefaultRootName
	}
	rootName = naming.ToPascalCase(rootName)
	a.modelNames[rootName] = true

	members := obj.Members()
	root := models.Model{
		Name:       rootName,
		Properties: make([]models.Property, 0, len(members)),
	}
	for _, m := range members {
		root.Properties = append(root.Properties, a.buildProperty(m.Key, m.Value, false))
	}

	nested := make([]models.Model, 0)
	for i, m := range members {
		prop := root.Properties[i]
		ref, ok := prop.Type.ReferencedModel()
		if !ok {
			continue
		}
		source := firstObject(m.Value)
		if source == nil {
			continue
		}

		candidate := models.Model{
			Name:       ref,
			Properties: make([]models.Property, 0, source.Len()),
		}
		for _, nm := range source.Members() {
			candidate.Properties = append(candidate.Properties, a.buildProperty(nm.Key, nm.Value, true))
		}

		finalName, isNew := a.findOrAddModel(candidate, nested)
		if finalName != ref {
			root.Properties[i].Type = prop.Type.WithInnermost(models.ReferenceTo(finalName))
		}
		if isNew {
			candidate.Name = finalName
			a.byBase[ref] = append(a.byBase[ref], len(nested))
			nested = append(nested, candidate)
		}
	}

	return models.AnalysisResult{Root: root, Nested: nested}, nil
}

// buildProperty infers one property. Inside a nested model, objects are not
// expanded any further and fall back to the generic object type.
func (a *Analyzer) buildProperty(key string, value models.JSONValue, nested bool) models.Property {
	typ := Infer(value)
	if nested {
		if _, ok := typ.ReferencedModel(); ok {
			typ = typ.WithInnermost(models.GenericObject())
		}
	}

	_, isArray := value.(models.JSONArray)
	obj, isObject := value.(*models.JSONObject)
	isObject = isObject && obj != nil

	return models.Property{
		Name:       naming.ToCamelCase(key),
		JSONKey:    key,
		Type:       typ,
		IsNullable: value == nil || a.options.NullSafety,
		IsArray:    isArray,
		IsObject:   isObject,
	}
}

// findOrAddModel reuses a structurally identical nested model that was
// suggested under the same name, otherwise reserves a unique name.
func (a *Analyzer) findOrAddModel(candidate models.Model, nested []models.Model) (string, bool) {
	for _, idx := range a.byBase[candidate.Name] {
		existing := nested[idx]
		if candidate.Equivalent(existing) {
			return existing.Name, false
		}
	}
	return a.generateUniqueModelName(candidate.Name), true
}

// generateUniqueModelName ensures that the model name is unique by appending a number if needed.
func (a *Analyzer) generateUniqueModelName(baseName string) string {
	name := baseName
	for n := 1; a.modelNames[name]; n++ {
		name = fmt.Sprintf("%s%d", baseName, n)
	}
	a.modelNames[name] = true
	return name
}

// representativeObject unwraps a leading array and checks that what is left
// is an object.
func representativeObject(root models.JSONValue) (*models.JSONObject, error) {
	if arr, ok := root.(models.JSONArray); ok {
		if len(arr) == 0 {
			return nil, errors.NewStructureError("document is an empty array")
		}
		root = arr[0]
	}

	switch v := root.(type) {
	case *models.JSONObject:
		if v == nil {
			return nil, errors.NewStructureError("document is null")
		}
		return v, nil
	case nil:
		return nil, errors.NewStructureError("document is null")
	case models.JSONArray:
		return nil, errors.NewStructureError("document is an array whose first element is an array")
	default:
		return nil, errors.NewStructureError(fmt.Sprintf("document is a %s, expected an object", describe(v)))
	}
}

// firstObject follows first elements of nested arrays down to an object.
func firstObject(value models.JSONValue) *models.JSONObject {
	for {
		switch v := value.(type) {
		case *models.JSONObject:
			return v
		case models.JSONArray:
			if len(v) == 0 {
				return nil
			}
			value = v[0]
		default:
			return nil
		}
	}
}

func describe(value models.JSONValue) string {
	t := Infer(value)
	if t.Kind == models.Primitive {
		return string(t.Primitive)
	}
	return t.Kind.String()
}
