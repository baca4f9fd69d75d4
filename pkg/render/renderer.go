package render

import (
	"context"

	"github.com/goliatone/go-cogform/pkg/model"
)

// Renderer converts a FormModel into a byte representation (an HTML page, a
// JSON answer sheet collected in a terminal, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
