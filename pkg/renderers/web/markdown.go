package web

import (
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// markdown converts model descriptions and field help to HTML and sanitizes
// the result. Parsers are not reusable so one is built per call.
func (r *Renderer) markdown(source string) string {
	source = strings.TrimSpace(source)
	if source == "" {
		return ""
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank,
	})
	rendered := markdown.ToHTML([]byte(source), p, renderer)
	return strings.TrimSpace(r.policy.Sanitize(string(rendered)))
}
