// Package web renders a FormModel as a self-contained HTML page: the input
// form on one side and the outputs of the last submission on the other.
package web

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/cast"

	"github.com/goliatone/go-cogform/pkg/model"
	"github.com/goliatone/go-cogform/pkg/render"
	rendertemplate "github.com/goliatone/go-cogform/pkg/render/template"
	"github.com/goliatone/go-cogform/pkg/render/template/pongo"
)

// Name is the registry key of the HTML renderer.
const Name = "html"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
	stylesheet       *string
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// page.html.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk, falling back to
// the embedded bundle for files it does not contain.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		if _, err := os.Stat(path); err == nil {
			cfg.templatesDir = path
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSanitizer overrides the policy applied to rendered markdown.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithStylesheet replaces the inlined stylesheet. An empty string disables it.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = &css
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	policy     *bluemonday.Policy
	stylesheet string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}
	stylesheet := defaultStylesheet()
	if cfg.stylesheet != nil {
		stylesheet = *cfg.stylesheet
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(
			pongo.WithBaseDir(cfg.templatesDir),
			pongo.WithFS(cfg.templateFS),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{templates: templates, policy: cfg.policy, stylesheet: stylesheet}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the full page. Values and errors from options are echoed
// back into the controls so a failed submission keeps the user's input.
func (r *Renderer) Render(_ context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	themeCtx := buildThemeContext(options.Theme)
	data := map[string]any{
		"title":            form.Title,
		"description_html": r.markdown(form.Description),
		"action":           options.Action,
		"form_errors":      render.MergeFormErrors(options.FormErrors),
		"fields":           r.fieldViews(form.Fields, options),
		"outputs":          outputViews(options.Outputs),
		"stylesheet":       r.stylesheet,
		"theme_name":       themeCtx.Name,
		"theme_variant":    themeCtx.Variant,
		"theme_style":      themeCtx.CSSVarsStyle,
	}

	rendered, err := r.templates.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(rendered), nil
}

func (r *Renderer) fieldViews(fields []model.Field, options render.RenderOptions) []map[string]any {
	views := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		current, ok := options.Values[field.Name]
		if !ok {
			current = field.Default
		}

		view := map[string]any{
			"name":      field.Name,
			"id":        controlID(field.Name),
			"kind":      string(field.Kind),
			"label":     field.Label,
			"help_html": r.markdown(field.Help),
			"value":     formatValue(current),
			"errors":    options.Errors[field.Name],
		}

		switch field.Kind {
		case model.FieldKindBoolean:
			view["checked"] = cast.ToBool(current)
		case model.FieldKindEnum:
			selected := formatValue(current)
			choices := make([]map[string]any, 0, len(field.Choices))
			for _, choice := range field.Choices {
				value := formatValue(choice)
				choices = append(choices, map[string]any{"value": value, "selected": value == selected})
			}
			view["choices"] = choices
		case model.FieldKindRange:
			view["min"] = formatBound(field.Min)
			view["max"] = formatBound(field.Max)
			view["step"] = "any"
			if field.Step > 0 {
				view["step"] = strconv.FormatFloat(field.Step, 'f', -1, 64)
			}
		case model.FieldKindFile:
			view["accept"] = acceptFor(field.FileKind)
			view["multiple"] = field.Multiple
			view["value"] = ""
		}
		views = append(views, view)
	}
	return views
}

func outputViews(outputs []render.OutputView) []map[string]any {
	views := make([]map[string]any, 0, len(outputs))
	for _, output := range outputs {
		views = append(views, map[string]any{
			"slot":   output.Slot,
			"kind":   string(output.Kind),
			"hidden": output.Hidden,
			"text":   output.Text,
			"url":    output.URL,
			"json":   string(output.JSON),
		})
	}
	return views
}

func controlID(name string) string {
	return "cf-" + name
}

func acceptFor(kind model.FileKind) string {
	switch kind {
	case model.FileKindImage:
		return "image/*"
	case model.FileKindAudio:
		return "audio/*"
	case model.FileKindVideo:
		return "video/*"
	default:
		return ""
	}
}

func formatValue(value any) string {
	if value == nil {
		return ""
	}
	if f, ok := value.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return cast.ToString(value)
}

func formatBound(bound *float64) string {
	if bound == nil {
		return ""
	}
	return strconv.FormatFloat(*bound, 'f', -1, 64)
}
