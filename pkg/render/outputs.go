package render

import (
	"encoding/json"

	"github.com/spf13/cast"

	"github.com/goliatone/go-cogform/pkg/model"
	"github.com/goliatone/go-cogform/pkg/outputs"
)

// OutputViews pairs each artifact with its slot. Materialized media is linked
// through fileURL when provided, everything else is inlined as a data URI.
func OutputViews(slots []model.Slot, artifacts []outputs.Artifact, fileURL func(path string) string) []OutputView {
	views := make([]OutputView, 0, len(artifacts))
	for i, artifact := range artifacts {
		view := OutputView{Slot: i, Kind: model.SlotKindStructured}
		if i < len(slots) {
			view.Kind = slots[i].Kind
		}

		switch {
		case artifact.IsHidden():
			view.Hidden = true
		case artifact.IsMedia():
			if artifact.Path != "" && fileURL != nil {
				view.URL = fileURL(artifact.Path)
			} else {
				view.URL = artifact.DataURI()
			}
		case artifact.Kind == outputs.ArtifactJSON:
			view.JSON = rawJSON(artifact.Value)
		default:
			switch artifact.Value.(type) {
			case []any, map[string]any:
				view.JSON = rawJSON(artifact.Value)
			default:
				view.Text = cast.ToString(artifact.Value)
			}
		}
		views = append(views, view)
	}
	return views
}

func rawJSON(value any) json.RawMessage {
	if raw, ok := value.(json.RawMessage); ok {
		return raw
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return data
}
