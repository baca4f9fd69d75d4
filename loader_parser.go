package cogform

import (
	internalLoader "github.com/goliatone/go-cogform/internal/openapi/loader"
	internalParser "github.com/goliatone/go-cogform/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-cogform/pkg/openapi"
)

// NewLoader constructs a schema loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewLoaderOptions(options...))
}

// NewParser constructs a parser that extracts the Input and Output components.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions(options...))
}
