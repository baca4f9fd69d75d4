package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-cogform/pkg/openapi"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Schemas loads the document and extracts the input properties, ordered by
// x-order, together with the output schema.
func (p *Parser) Schemas(ctx context.Context, doc pkgopenapi.Document) (pkgopenapi.Schemas, error) {
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Schemas{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return pkgopenapi.Schemas{}, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return pkgopenapi.Schemas{}, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return pkgopenapi.Schemas{}, errors.New("openapi parser: document has no component schemas")
	}

	inputRef, ok := spec.Components.Schemas[p.options.InputComponent]
	if !ok || inputRef == nil {
		return pkgopenapi.Schemas{}, fmt.Errorf("openapi parser: component %q not found", p.options.InputComponent)
	}
	input := convertSchema(inputRef, nil)

	result := pkgopenapi.Schemas{
		Input: pkgopenapi.OrderProperties(input.Properties),
	}
	if spec.Info != nil {
		result.Title = spec.Info.Title
	}

	outputRef, ok := spec.Components.Schemas[p.options.OutputComponent]
	switch {
	case ok && outputRef != nil:
		output := convertSchema(outputRef, nil)
		result.Output = &output
	case !p.options.AllowMissingOutput:
		return pkgopenapi.Schemas{}, fmt.Errorf("openapi parser: component %q not found", p.options.OutputComponent)
	}

	return result, nil
}
