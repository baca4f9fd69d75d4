package parser

import (
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cast"

	pkgopenapi "github.com/goliatone/go-cogform/pkg/openapi"
)

const orderExtensionKey = "x-order"

// convertSchema copies the kin-openapi tree into the neutral Schema type.
// Composition lists are kept intact. A reference already being expanded
// further up the stack is returned as a bare Ref so cycles terminate.
func convertSchema(ref *openapi3.SchemaRef, stack []string) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	if ref.Value == nil {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}
	if ref.Ref != "" {
		if slices.Contains(stack, ref.Ref) {
			return pkgopenapi.Schema{Ref: ref.Ref}
		}
		stack = append(stack, ref.Ref)
	}

	src := ref.Value
	schema := pkgopenapi.Schema{
		Ref:         ref.Ref,
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Order:       extractOrder(src.Extensions),
	}

	if len(src.Required) > 0 {
		schema.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		schema.Enum = append([]any(nil), src.Enum...)
	}
	if src.Min != nil {
		value := *src.Min
		schema.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		schema.Maximum = &value
	}
	if len(src.Properties) > 0 {
		schema.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		for name, property := range src.Properties {
			schema.Properties[name] = convertSchema(property, stack)
		}
	}
	if src.Items != nil {
		items := convertSchema(src.Items, stack)
		schema.Items = &items
	}
	schema.AllOf = convertRefs(src.AllOf, stack)
	schema.AnyOf = convertRefs(src.AnyOf, stack)
	schema.OneOf = convertRefs(src.OneOf, stack)
	return schema
}

func convertRefs(refs openapi3.SchemaRefs, stack []string) []pkgopenapi.Schema {
	if len(refs) == 0 {
		return nil
	}
	out := make([]pkgopenapi.Schema, 0, len(refs))
	for _, ref := range refs {
		out = append(out, convertSchema(ref, stack))
	}
	return out
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

func extractOrder(extensions map[string]any) *float64 {
	raw, ok := extensions[orderExtensionKey]
	if !ok || raw == nil {
		return nil
	}
	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil
	}
	return &value
}
