package analyzer

import (
	"encoding/json"
	"math"

	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/naming"
)

// PlaceholderModelName names the model of an object that has no keys, or
// whose first key is empty.
const PlaceholderModelName = "EmptyObject"

// Infer maps a JSON value to its TypeDescriptor. Objects become references
// named after their first key; arrays take the type of their first element.
func Infer(value models.JSONValue) models.TypeDescriptor {
	switch v := value.(type) {
	case nil:
		return models.DynamicType()
	case bool:
		return models.PrimitiveType(models.Boolean)
	case string:
		return models.PrimitiveType(models.String)
	case json.Number:
		return inferNumber(v)
	case float64:
		return classifyFloat(v)
	case int, int32, int64:
		return models.PrimitiveType(models.Integer)
	case models.JSONArray:
		if len(v) == 0 {
			return models.ArrayOf(models.DynamicType())
		}
		return models.ArrayOf(Infer(v[0]))
	case *models.JSONObject:
		if v == nil {
			return models.DynamicType()
		}
		return models.ReferenceTo(referenceName(v))
	default:
		return models.DynamicType()
	}
}

func referenceName(obj *models.JSONObject) string {
	key, ok := obj.FirstKey()
	if !ok || key == "" {
		return PlaceholderModelName
	}
	return naming.ToPascalCase(key)
}

func inferNumber(num json.Number) models.TypeDescriptor {
	if _, err := num.Int64(); err == nil {
		return models.PrimitiveType(models.Integer)
	}
	f, err := num.Float64()
	if err != nil {
		// out of float64 range; still a number
		return models.PrimitiveType(models.Float)
	}
	return classifyFloat(f)
}

// classifyFloat treats any value without a fractional component as an
// integer, so 1.0 and 1e3 are integers.
func classifyFloat(f float64) models.TypeDescriptor {
	if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Trunc(f) == f {
		return models.PrimitiveType(models.Integer)
	}
	return models.PrimitiveType(models.Float)
}
