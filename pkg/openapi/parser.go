package openapi

import "context"

// Parser extracts the prediction schemas from a loaded Document.
type Parser interface {
	Schemas(ctx context.Context, doc Document) (Schemas, error)
}

// ParserOptions exposes the knobs for schema extraction.
type ParserOptions struct {
	// InputComponent names the component schema holding the input properties.
	// Defaults to "Input", the name prediction containers publish.
	InputComponent string

	// OutputComponent names the component schema describing the prediction
	// output. Defaults to "Output".
	OutputComponent string

	// AllowMissingOutput tolerates documents that omit the output component.
	AllowMissingOutput bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithInputComponent overrides the component used for input properties.
func WithInputComponent(name string) ParserOption {
	return func(opts *ParserOptions) {
		if name != "" {
			opts.InputComponent = name
		}
	}
}

// WithOutputComponent overrides the component used for the output schema.
func WithOutputComponent(name string) ParserOption {
	return func(opts *ParserOptions) {
		if name != "" {
			opts.OutputComponent = name
		}
	}
}

// WithMissingOutput toggles tolerance for documents without an output schema.
func WithMissingOutput(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowMissingOutput = enabled
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		InputComponent:     "Input",
		OutputComponent:    "Output",
		AllowMissingOutput: true,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// Construction helpers live in the top-level cogform package to avoid import cycles.
