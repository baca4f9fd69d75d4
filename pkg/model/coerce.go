package model

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Value is one submitted field value. Slices of Value preserve field
// declaration order.
type Value struct {
	Name  string
	Value any
}

// Coerce converts a raw form value (usually a string from a web post or a
// terminal prompt) into the type the field kind calls for. Empty strings
// coerce to nil so the payload builder can omit them.
func Coerce(field Field, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}

	switch field.Kind {
	case FieldKindInteger:
		return toInt(field, raw)
	case FieldKindFloat:
		return toFloat(field, raw)
	case FieldKindRange:
		if field.Step == 1 {
			return toInt(field, raw)
		}
		return toFloat(field, raw)
	case FieldKindBoolean:
		if s, ok := raw.(string); ok && strings.EqualFold(s, "on") {
			return true, nil
		}
		value, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, fmt.Errorf("model: field %q: %w", field.Name, err)
		}
		return value, nil
	case FieldKindEnum:
		target := cast.ToString(raw)
		for _, choice := range field.Choices {
			if cast.ToString(choice) == target {
				return choice, nil
			}
		}
		return nil, fmt.Errorf("model: field %q: %q is not a valid choice", field.Name, target)
	case FieldKindFile:
		switch v := raw.(type) {
		case []string:
			return cast.ToSlice(v), nil
		default:
			return v, nil
		}
	default:
		value, err := cast.ToStringE(raw)
		if err != nil {
			return nil, fmt.Errorf("model: field %q: %w", field.Name, err)
		}
		return value, nil
	}
}

// CoerceValues coerces raw values for every field in the form and returns them
// in declaration order. Names not declared by the form are ignored.
func CoerceValues(form FormModel, raw map[string]any) ([]Value, error) {
	values := make([]Value, 0, len(form.Fields))
	for _, field := range form.Fields {
		input, ok := raw[field.Name]
		if !ok {
			continue
		}
		value, err := Coerce(field, input)
		if err != nil {
			return nil, err
		}
		values = append(values, Value{Name: field.Name, Value: value})
	}
	return values, nil
}

func toInt(field Field, raw any) (any, error) {
	value, err := cast.ToInt64E(raw)
	if err != nil {
		return nil, fmt.Errorf("model: field %q: %w", field.Name, err)
	}
	return value, nil
}

func toFloat(field Field, raw any) (any, error) {
	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil, fmt.Errorf("model: field %q: %w", field.Name, err)
	}
	return value, nil
}
