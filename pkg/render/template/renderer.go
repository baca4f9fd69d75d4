package template

import (
	"io"
)

// TemplateRenderer is the seam renderers rely on to execute named templates.
// Output is returned as a string and optionally mirrored to out.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
