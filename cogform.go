// Package cogform turns the OpenAPI description of a prediction container
// into a form, submits form values to the container and normalizes what it
// returns.
//
// The root package only carries shortcuts. The moving parts live under pkg/:
// orchestrator builds forms, predict runs submissions, outputs decodes
// results and server exposes all of it over HTTP.
package cogform

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-cogform/pkg/manifest"
	pkgopenapi "github.com/goliatone/go-cogform/pkg/openapi"
	"github.com/goliatone/go-cogform/pkg/orchestrator"
	"github.com/goliatone/go-cogform/pkg/render"
	"github.com/goliatone/go-cogform/pkg/renderers/web"
)

// RenderOptions aliases render.RenderOptions so callers can prefill values or
// surface errors without importing the render package.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the schema from source, builds the form and renders it
// with the built-in HTML renderer. m may be nil.
func GenerateHTML(ctx context.Context, source pkgopenapi.Source, m *manifest.Manifest, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:   source,
		Manifest: m,
		Renderer: web.Name,
	})
}

// GenerateHTMLFromDocument renders a form from an already loaded document.
func GenerateHTMLFromDocument(ctx context.Context, doc pkgopenapi.Document, m *manifest.Manifest, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Document: &doc,
		Manifest: m,
		Renderer: web.Name,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// EmbeddedTemplates exposes the built-in page templates so callers can copy
// or extend them.
func EmbeddedTemplates() fs.FS {
	return web.TemplatesFS()
}

// EmbeddedAssets exposes the default stylesheet for mounting under a static
// route.
func EmbeddedAssets() fs.FS {
	return web.AssetsFS()
}
