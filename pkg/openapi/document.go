package openapi

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Source identifies where an API description originated so loaders can
// operate on files, fs.FS entries, or URLs without leaking implementation
// details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Document wraps the raw API description and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Schema is the provider-neutral view of one schema node. Composition
// keywords are preserved as-is; the model builder flattens them before
// classification.
type Schema struct {
	Ref         string            `json:"ref,omitempty"`
	Type        string            `json:"type,omitempty"`
	Format      string            `json:"format,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	Enum        []any             `json:"enum,omitempty"`
	Minimum     *float64          `json:"minimum,omitempty"`
	Maximum     *float64          `json:"maximum,omitempty"`
	Order       *float64          `json:"x-order,omitempty"`
	Required    []string          `json:"required,omitempty"`
	Properties  map[string]Schema `json:"properties,omitempty"`
	Items       *Schema           `json:"items,omitempty"`
	AllOf       []Schema          `json:"allOf,omitempty"`
	AnyOf       []Schema          `json:"anyOf,omitempty"`
	OneOf       []Schema          `json:"oneOf,omitempty"`
}

// HasComposition reports whether any composition keyword is present.
func (s Schema) HasComposition() bool {
	return len(s.AllOf) > 0 || len(s.AnyOf) > 0 || len(s.OneOf) > 0
}

// Clone creates a deep copy of the schema tree to avoid accidental mutation.
func (s Schema) Clone() Schema {
	cloned := s
	if len(s.Required) > 0 {
		cloned.Required = append([]string(nil), s.Required...)
	}
	if len(s.Enum) > 0 {
		cloned.Enum = append([]any(nil), s.Enum...)
	}
	if s.Minimum != nil {
		value := *s.Minimum
		cloned.Minimum = &value
	}
	if s.Maximum != nil {
		value := *s.Maximum
		cloned.Maximum = &value
	}
	if s.Order != nil {
		value := *s.Order
		cloned.Order = &value
	}
	if len(s.Properties) > 0 {
		cloned.Properties = make(map[string]Schema, len(s.Properties))
		for k, v := range s.Properties {
			cloned.Properties[k] = v.Clone()
		}
	}
	if s.Items != nil {
		items := s.Items.Clone()
		cloned.Items = &items
	}
	cloned.AllOf = cloneSchemas(s.AllOf)
	cloned.AnyOf = cloneSchemas(s.AnyOf)
	cloned.OneOf = cloneSchemas(s.OneOf)
	return cloned
}

func cloneSchemas(in []Schema) []Schema {
	if len(in) == 0 {
		return nil
	}
	out := make([]Schema, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

// DebugString renders the schema for logging without exposing
// implementation details.
func (s Schema) DebugString() string {
	summary := fmt.Sprintf("type=%s", s.Type)
	if s.Format != "" {
		summary += fmt.Sprintf(",format=%s", s.Format)
	}
	if s.Ref != "" {
		summary += fmt.Sprintf(",ref=%s", s.Ref)
	}
	if len(s.Enum) > 0 {
		summary += fmt.Sprintf(",enum=%d", len(s.Enum))
	}
	if len(s.Properties) > 0 {
		summary += fmt.Sprintf(",properties=%d", len(s.Properties))
	}
	if s.HasComposition() {
		summary += fmt.Sprintf(",composed=%d", len(s.AllOf)+len(s.AnyOf)+len(s.OneOf))
	}
	return summary
}

// Property pairs an input name with its schema.
type Property struct {
	Name   string `json:"name"`
	Schema Schema `json:"schema"`
}

// Schemas is the parser result: input properties in form order plus the
// output schema, when the document declares one.
type Schemas struct {
	Title  string     `json:"title,omitempty"`
	Input  []Property `json:"input"`
	Output *Schema    `json:"output,omitempty"`
}

// OrderProperties sorts a property map by its x-order extension, ascending.
// Properties without an order sort last; ties fall back to the name so the
// result is deterministic.
func OrderProperties(properties map[string]Schema) []Property {
	ordered := make([]Property, 0, len(properties))
	for name, schema := range properties {
		ordered = append(ordered, Property{Name: name, Schema: schema})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		oi, oj := orderOf(ordered[i].Schema), orderOf(ordered[j].Schema)
		if oi != oj {
			return oi < oj
		}
		return ordered[i].Name < ordered[j].Name
	})
	return ordered
}

func orderOf(s Schema) float64 {
	if s.Order == nil {
		return math.Inf(1)
	}
	return *s.Order
}
