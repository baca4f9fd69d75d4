package model

import (
	pkgopenapi "github.com/goliatone/go-cogform/pkg/openapi"
)

// MergeComposition flattens allOf, anyOf and oneOf into a single schema.
// Subschemas are overlaid key by key in order (later wins) on top of the
// outer schema, then the outer description and default are re-applied since
// those describe the property rather than the referenced type.
func MergeComposition(schema pkgopenapi.Schema) pkgopenapi.Schema {
	if !schema.HasComposition() {
		return schema
	}

	merged := schema.Clone()
	merged.AllOf, merged.AnyOf, merged.OneOf = nil, nil, nil

	var parts []pkgopenapi.Schema
	parts = append(parts, schema.AllOf...)
	parts = append(parts, schema.AnyOf...)
	parts = append(parts, schema.OneOf...)
	for _, part := range parts {
		overlay(&merged, MergeComposition(part))
	}

	if schema.Description != "" {
		merged.Description = schema.Description
	}
	if schema.Default != nil {
		merged.Default = schema.Default
	}
	if schema.Order != nil {
		merged.Order = schema.Order
	}
	return merged
}

func overlay(target *pkgopenapi.Schema, src pkgopenapi.Schema) {
	if src.Type != "" {
		target.Type = src.Type
	}
	if src.Format != "" {
		target.Format = src.Format
	}
	if src.Title != "" {
		target.Title = src.Title
	}
	if src.Description != "" {
		target.Description = src.Description
	}
	if src.Default != nil {
		target.Default = src.Default
	}
	if len(src.Enum) > 0 {
		target.Enum = append([]any(nil), src.Enum...)
	}
	if src.Minimum != nil {
		target.Minimum = src.Minimum
	}
	if src.Maximum != nil {
		target.Maximum = src.Maximum
	}
	if src.Items != nil {
		target.Items = src.Items
	}
	if len(src.Properties) > 0 {
		if target.Properties == nil {
			target.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		}
		for name, property := range src.Properties {
			target.Properties[name] = property
		}
	}
	if len(src.Required) > 0 {
		target.Required = append(target.Required, src.Required...)
	}
}
