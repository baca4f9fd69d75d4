package render

import (
	"encoding/json"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-cogform/pkg/model"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the form model.
type RenderOptions struct {
	// Action is the URL the form posts to.
	Action string
	// Values pre-populates controls keyed by field name.
	Values map[string]any
	// Errors carries per-field messages, e.g. values that failed coercion.
	Errors map[string][]string
	// FormErrors carries messages not tied to a field, such as a failed
	// prediction.
	FormErrors []string
	// Outputs holds the rendered result of the last submission, one entry per
	// output slot.
	Outputs []OutputView
	// Theme passes design tokens through to renderers that support them.
	Theme *theme.RendererConfig
}

// OutputView is the renderer-neutral form of one output slot.
type OutputView struct {
	Slot   int             `json:"slot"`
	Kind   model.SlotKind  `json:"kind"`
	Hidden bool            `json:"hidden,omitempty"`
	Text   string          `json:"text,omitempty"`
	URL    string          `json:"url,omitempty"`
	JSON   json.RawMessage `json:"json,omitempty"`
}
