// Package tui collects form values in a terminal. It renders a FormModel as a
// sequence of prompts, one per field in declaration order.
package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"

	"github.com/goliatone/go-cogform/pkg/model"
	"github.com/goliatone/go-cogform/pkg/render"
)

// Name is the registry key of the terminal renderer.
const Name = "tui"

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	files             afero.Fs
	submitTransformer SubmitTransformer
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output,
// OS filesystem).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		files:        afero.NewOsFs(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(nil)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Render prompts for every field and serializes the answers.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, form, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(values)
}

// Collect prompts for every field and returns the coerced answers in
// declaration order. Empty answers are kept as nil so callers can tell a
// skipped field from an unknown one.
func (r *Renderer) Collect(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]model.Value, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	if form.Title != "" {
		if err := r.info(ctx, form.Title); err != nil {
			return nil, err
		}
	}
	for _, msg := range opts.FormErrors {
		if err := r.errorf(ctx, "%s", msg); err != nil {
			return nil, err
		}
	}

	state := NewState(opts.Values, opts.Errors)
	for _, field := range form.Fields {
		for _, msg := range state.ErrorsFor(field.Name) {
			if err := r.errorf(ctx, "%s: %s", field.Label, msg); err != nil {
				return nil, err
			}
		}
		value, err := r.promptField(ctx, field, state)
		if err != nil {
			return nil, err
		}
		state.SetValue(field.Name, value)
	}

	values := make([]model.Value, 0, len(form.Fields))
	for _, field := range form.Fields {
		value, _ := state.Value(field.Name)
		values = append(values, model.Value{Name: field.Name, Value: value})
	}

	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, state *State) (any, error) {
	current, ok := state.Value(field.Name)
	if !ok {
		current = field.Default
	}

	switch field.Kind {
	case model.FieldKindBoolean:
		return r.driver.Confirm(ctx, ConfirmConfig{
			Message: field.Label,
			Default: cast.ToBool(current),
			Help:    field.Help,
		})
	case model.FieldKindEnum:
		return r.promptEnum(ctx, field, current)
	case model.FieldKindFile:
		return r.promptFile(ctx, field)
	default:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   r.message(field),
			Default:   formatDefault(current),
			Help:      field.Help,
			Validator: r.validator(field),
		})
		if err != nil {
			return nil, err
		}
		return model.Coerce(field, answer)
	}
}

func (r *Renderer) promptEnum(ctx context.Context, field model.Field, current any) (any, error) {
	if len(field.Choices) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoChoices, field.Name)
	}
	options := make([]string, len(field.Choices))
	defaultIndex := 0
	for i, choice := range field.Choices {
		options[i] = cast.ToString(choice)
		if current != nil && options[i] == cast.ToString(current) {
			defaultIndex = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      field.Label,
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         field.Help,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(field.Choices) {
		return nil, fmt.Errorf("tui: field %q: choice index %d out of range", field.Name, idx)
	}
	return field.Choices[idx], nil
}

// promptFile asks for local paths. Multiple paths are separated by commas.
func (r *Renderer) promptFile(ctx context.Context, field model.Field) (any, error) {
	answer, err := r.driver.Input(ctx, InputConfig{
		Message:   r.message(field),
		Help:      field.Help,
		Validator: r.validator(field),
	})
	if err != nil {
		return nil, err
	}
	paths := splitPaths(answer)
	switch {
	case len(paths) == 0:
		return nil, nil
	case field.Multiple:
		return cast.ToSlice(paths), nil
	default:
		return paths[0], nil
	}
}

func (r *Renderer) validator(field model.Field) func(string) error {
	return func(answer string) error {
		if field.Kind == model.FieldKindFile {
			for _, path := range splitPaths(answer) {
				exists, err := afero.Exists(r.files, path)
				if err != nil {
					return err
				}
				if !exists {
					return fmt.Errorf("file %q does not exist", path)
				}
			}
			return nil
		}

		value, err := model.Coerce(field, answer)
		if err != nil {
			return err
		}
		if field.Kind != model.FieldKindRange || value == nil {
			return nil
		}
		number := cast.ToFloat64(value)
		if (field.Min != nil && number < *field.Min) || (field.Max != nil && number > *field.Max) {
			return fmt.Errorf("must be between %s and %s", formatBound(field.Min), formatBound(field.Max))
		}
		return nil
	}
}

func (r *Renderer) message(field model.Field) string {
	if field.Kind == model.FieldKindRange {
		return fmt.Sprintf("%s [%s-%s]", field.Label, formatBound(field.Min), formatBound(field.Max))
	}
	if field.Kind == model.FieldKindFile && field.Multiple {
		return field.Label + " (comma separated paths)"
	}
	return field.Label
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorf(ctx context.Context, format string, args ...any) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

func (r *Renderer) serialize(values []model.Value) ([]byte, error) {
	if r.outputFormat == OutputFormatPrettyText {
		var buf bytes.Buffer
		for _, v := range values {
			fmt.Fprintf(&buf, "%s: %s\n", v.Name, formatDefault(v.Value))
		}
		return buf.Bytes(), nil
	}

	out := make(map[string]any, len(values))
	for _, v := range values {
		if v.Value != nil {
			out[v.Name] = v.Value
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("tui: encode values: %w", err)
	}
	return data, nil
}

func splitPaths(answer string) []string {
	var paths []string
	for _, part := range strings.Split(answer, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	return paths
}

func formatDefault(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		return strings.Join(cast.ToStringSlice(v), ", ")
	default:
		return cast.ToString(v)
	}
}

func formatBound(bound *float64) string {
	if bound == nil {
		return ""
	}
	return strconv.FormatFloat(*bound, 'f', -1, 64)
}
