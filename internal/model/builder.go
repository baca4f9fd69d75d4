package model

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"

	pkgopenapi "github.com/goliatone/go-cogform/pkg/openapi"
)

// Input bundles everything the builder needs to produce a FormModel.
type Input struct {
	Schemas     pkgopenapi.Schemas
	Examples    map[string]any
	OutputTags  []string
	Title       string
	Description string
}

// Builder converts parsed prediction schemas into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	return &Builder{opts: opts}
}

// Build classifies every input property in order and derives the output
// slots. When no output tags are supplied they are inferred from the output
// schema.
func (b *Builder) Build(in Input) (FormModel, error) {
	form := FormModel{
		Title:       in.Title,
		Description: in.Description,
		Fields:      make([]Field, 0, len(in.Schemas.Input)),
	}
	if form.Title == "" {
		form.Title = in.Schemas.Title
	}

	seen := make(map[string]struct{}, len(in.Schemas.Input))
	for _, property := range in.Schemas.Input {
		if property.Name == "" {
			return FormModel{}, errors.New("model builder: input property without a name")
		}
		if _, dup := seen[property.Name]; dup {
			return FormModel{}, fmt.Errorf("model builder: duplicate input property %q", property.Name)
		}
		seen[property.Name] = struct{}{}

		var example any
		if in.Examples != nil {
			example = in.Examples[property.Name]
		}
		form.Fields = append(form.Fields, b.ClassifyInput(property, example))
	}

	tags := in.OutputTags
	if tags == nil && in.Schemas.Output != nil {
		tags = OutputTagsFromSchema(*in.Schemas.Output)
	}
	form.Slots = ClassifyOutputs(tags)
	return form, nil
}

// ClassifyInput maps one schema property to a field descriptor. The example
// value is only consulted for uri strings. Unrecognised shapes fall back to
// free text.
func (b *Builder) ClassifyInput(property pkgopenapi.Property, example any) Field {
	schema := MergeComposition(property.Schema)

	field := Field{
		Name:  property.Name,
		Label: schema.Title,
		Help:  schema.Description,
	}
	if field.Label == "" {
		field.Label = b.opts.Labeler(property.Name)
	}

	switch {
	case len(schema.Enum) > 0:
		field.Kind = FieldKindEnum
		field.Choices = append([]any(nil), schema.Enum...)
		field.Default = schema.Default
	case isNumeric(schema.Type) && truthyBound(schema.Minimum) && truthyBound(schema.Maximum):
		field.Kind = FieldKindRange
		field.Min = cloneFloat(schema.Minimum)
		field.Max = cloneFloat(schema.Maximum)
		if schema.Type == "integer" {
			field.Step = 1
		}
		field.Default = numericDefault(schema.Type, schema.Default)
	case schema.Type == "integer":
		field.Kind = FieldKindInteger
		field.Default = numericDefault(schema.Type, schema.Default)
	case schema.Type == "number":
		field.Kind = FieldKindFloat
		field.Default = numericDefault(schema.Type, schema.Default)
	case schema.Type == "boolean":
		field.Kind = FieldKindBoolean
		if value, err := cast.ToBoolE(schema.Default); err == nil && schema.Default != nil {
			field.Default = value
		}
	case schema.Type == "string" && schema.Format == "uri":
		field.Kind = FieldKindFile
		field.FileKind = FileKindGeneric
		if example != nil {
			switch DetectFileType(example) {
			case TagImage:
				field.FileKind = FileKindImage
			case TagAudio:
				field.FileKind = FileKindAudio
			case TagVideo:
				field.FileKind = FileKindVideo
			case TagList:
				field.Multiple = true
			}
		}
	default:
		field.Kind = FieldKindText
		if schema.Default != nil {
			field.Default = cast.ToString(schema.Default)
		}
	}
	return field
}

// ClassifyOutputs maps coarse type tags onto slot descriptors. Unknown tags
// become structured slots and an empty list yields one structured slot.
func ClassifyOutputs(tags []string) []Slot {
	if len(tags) == 0 {
		return []Slot{{Index: 0, Kind: SlotKindStructured}}
	}
	slots := make([]Slot, len(tags))
	for i, tag := range tags {
		slots[i] = Slot{Index: i, Kind: slotKindForTag(tag)}
	}
	return slots
}

func slotKindForTag(tag string) SlotKind {
	switch tag {
	case TagImage:
		return SlotKindImage
	case TagAudio:
		return SlotKindAudio
	case TagVideo:
		return SlotKindVideo
	case TagString:
		return SlotKindText
	default:
		return SlotKindStructured
	}
}

// OutputTagsFromSchema infers one tag from the declared output schema for
// documents that ship without example outputs.
func OutputTagsFromSchema(schema pkgopenapi.Schema) []string {
	schema = MergeComposition(schema)
	switch schema.Type {
	case "":
		return nil
	case "array":
		return []string{TagList}
	case "object":
		return []string{TagJSON}
	default:
		return []string{TagString}
	}
}

func isNumeric(schemaType string) bool {
	return schemaType == "integer" || schemaType == "number"
}

func truthyBound(value *float64) bool {
	return value != nil && *value != 0
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func numericDefault(schemaType string, value any) any {
	if value == nil {
		return nil
	}
	if schemaType == "integer" {
		if n, err := cast.ToInt64E(value); err == nil {
			return n
		}
		return nil
	}
	if f, err := cast.ToFloat64E(value); err == nil {
		return f
	}
	return nil
}
