package engine

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonmodel/internal/models"
)

// wideDocument builds an object with fieldCount members of mixed types.
func wideDocument(fieldCount int) models.JSONValue {
	obj := models.NewJSONObject()
	for i := 0; i < fieldCount; i++ {
		switch i % 5 {
		case 0:
			obj.Set(fmt.Sprintf("string_field_%d", i), fmt.Sprintf("value_%d", i))
		case 1:
			obj.Set(fmt.Sprintf("int_field_%d", i), json.Number(fmt.Sprint(i)))
		case 2:
			obj.Set(fmt.Sprintf("bool_field_%d", i), i%2 == 0)
		case 3:
			obj.Set(fmt.Sprintf("float_field_%d", i), json.Number(fmt.Sprintf("%d.5", i)))
		case 4:
			nested := models.NewJSONObject()
			nested.Set(fmt.Sprintf("id_%d", i), json.Number(fmt.Sprint(i)))
			nested.Set("name", fmt.Sprintf("Object %d", i))
			nested.Set("children", models.JSONArray{models.NewJSONObject()})
			obj.Set(fmt.Sprintf("object_field_%d", i), nested)
		}
	}
	return obj
}

func BenchmarkGenerate(b *testing.B) {
	sizes := []int{10, 100, 1000}

	for _, lang := range Languages() {
		for _, size := range sizes {
			doc := wideDocument(size)
			opts := models.DefaultOptions()
			opts.SerializationStyle = Styles(lang)[1]

			b.Run(fmt.Sprintf("%s/Fields%d", lang, size), func(b *testing.B) {
				_, err := Generate(doc, "Bench", lang, opts)
				require.NoError(b, err)

				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					_, _ = Generate(doc, "Bench", lang, opts)
				}
			})
		}
	}
}
