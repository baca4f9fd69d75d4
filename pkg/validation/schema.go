// Package validation lints a prediction container's OpenAPI description and
// an optional manifest before a form is served from them.
package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"

	internalParser "github.com/goliatone/go-cogform/internal/openapi/parser"
	"github.com/goliatone/go-cogform/pkg/manifest"
	"github.com/goliatone/go-cogform/pkg/model"
	pkgopenapi "github.com/goliatone/go-cogform/pkg/openapi"
)

// Severity grades a SchemaIssue. Only errors make a result invalid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// SchemaIssue represents a finding with optional location metadata.
type SchemaIssue struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

// SchemaValidationResult captures validation outcomes.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// Options configures ValidateSchema. Nil collaborators fall back to the
// built-in parser and builder.
type Options struct {
	Parser   pkgopenapi.Parser
	Builder  model.Builder
	Manifest *manifest.Manifest
}

// ValidateSchema checks that raw describes a container a form can be built
// for. Structural problems stop validation early; field level problems are
// all reported.
func ValidateSchema(ctx context.Context, src pkgopenapi.Source, raw []byte, opts Options) SchemaValidationResult {
	if src == nil {
		src = pkgopenapi.SourceFromFS("openapi.json")
	}
	parser := opts.Parser
	if parser == nil {
		parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	builder := opts.Builder
	if builder == nil {
		builder = model.NewBuilder()
	}

	doc, err := pkgopenapi.NewDocument(src, raw)
	if err != nil {
		return invalid(issueFromError(err))
	}
	schemas, err := parser.Schemas(ctx, doc)
	if err != nil {
		return invalid(issueFromError(err))
	}

	input := model.Input{Schemas: schemas}
	if opts.Manifest != nil {
		input.Examples = opts.Manifest.ExampleInputs
		input.OutputTags = opts.Manifest.OutputTags()
	}
	form, err := builder.Build(input)
	if err != nil {
		return invalid(issueFromError(err))
	}

	var issues []SchemaIssue
	for _, field := range form.Fields {
		issues = append(issues, checkDefault(field)...)
	}
	if opts.Manifest != nil {
		issues = append(issues, checkExamples(form, opts.Manifest.ExampleInputs)...)
	}
	return result(issues)
}

func checkDefault(field model.Field) []SchemaIssue {
	if field.Default == nil {
		return nil
	}
	at := inputPointer(field.Name, "default")

	switch field.Kind {
	case model.FieldKindEnum:
		if _, err := model.Coerce(field, field.Default); err != nil {
			return []SchemaIssue{{
				Severity: SeverityError,
				Path:     at,
				Field:    field.Name,
				Message:  fmt.Sprintf("default %v is not one of the allowed values", field.Default),
			}}
		}
	case model.FieldKindRange, model.FieldKindInteger, model.FieldKindFloat:
		value, err := cast.ToFloat64E(field.Default)
		if err != nil {
			return []SchemaIssue{{Severity: SeverityError, Path: at, Field: field.Name, Message: "default is not a number"}}
		}
		if (field.Min != nil && value < *field.Min) || (field.Max != nil && value > *field.Max) {
			return []SchemaIssue{{
				Severity: SeverityError,
				Path:     at,
				Field:    field.Name,
				Message:  fmt.Sprintf("default %v is outside %s", field.Default, bounds(field)),
			}}
		}
	}
	return nil
}

// checkExamples reports manifest examples that name unknown inputs or cannot
// be coerced to their field.
func checkExamples(form model.FormModel, examples map[string]any) []SchemaIssue {
	names := make([]string, 0, len(examples))
	for name := range examples {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []SchemaIssue
	for _, name := range names {
		at := "example_inputs." + name
		field, ok := form.Field(name)
		if !ok {
			issues = append(issues, SchemaIssue{
				Severity: SeverityWarning,
				Path:     at,
				Field:    name,
				Message:  "example names an input the schema does not declare",
			})
			continue
		}
		if _, err := model.Coerce(field, examples[name]); err != nil {
			issues = append(issues, SchemaIssue{
				Severity: SeverityError,
				Path:     at,
				Field:    name,
				Message:  strings.TrimPrefix(err.Error(), "model: "),
			})
		}
	}
	return issues
}

func bounds(field model.Field) string {
	lo, hi := "-inf", "+inf"
	if field.Min != nil {
		lo = cast.ToString(*field.Min)
	}
	if field.Max != nil {
		hi = cast.ToString(*field.Max)
	}
	return "[" + lo + ", " + hi + "]"
}

func invalid(issue SchemaIssue) SchemaValidationResult {
	return SchemaValidationResult{Valid: false, Issues: []SchemaIssue{issue}}
}

func result(issues []SchemaIssue) SchemaValidationResult {
	valid := true
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			valid = false
			break
		}
	}
	return SchemaValidationResult{Valid: valid, Issues: issues}
}

func issueFromError(err error) SchemaIssue {
	if err == nil {
		return SchemaIssue{Severity: SeverityError, Message: "unknown error"}
	}
	msg := strings.TrimSpace(err.Error())
	for _, prefix := range []string{"openapi parser: ", "model builder: ", "openapi: "} {
		msg = strings.TrimPrefix(msg, prefix)
	}
	return SchemaIssue{
		Severity: SeverityError,
		Path:     componentPointer(msg),
		Message:  msg,
	}
}

// componentPointer extracts the JSON pointer of a component named in a
// `component "Name" not found` message.
func componentPointer(msg string) string {
	const marker = `component "`
	start := strings.Index(msg, marker)
	if start < 0 {
		return ""
	}
	rest := msg[start+len(marker):]
	end := strings.Index(rest, `"`)
	if end <= 0 {
		return ""
	}
	return "#/components/schemas/" + escapePointer(rest[:end])
}

func inputPointer(name string, tail ...string) string {
	parts := append([]string{"#/components/schemas/Input/properties", escapePointer(name)}, tail...)
	return strings.Join(parts, "/")
}

func escapePointer(segment string) string {
	segment = strings.ReplaceAll(segment, "~", "~0")
	return strings.ReplaceAll(segment, "/", "~1")
}
