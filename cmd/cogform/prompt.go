package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"

	"github.com/goliatone/go-cogform/pkg/model"
	"github.com/goliatone/go-cogform/pkg/outputs"
	"github.com/goliatone/go-cogform/pkg/predict"
	"github.com/goliatone/go-cogform/pkg/render"
	"github.com/goliatone/go-cogform/pkg/renderers/tui"
)

// prompt collects one set of inputs in the terminal, runs a prediction and
// prints every visible output. Media outputs are kept in the media dir. No
// file server runs, so values are sent without public URL rewriting.
func (a *app) prompt(ctx context.Context, out io.Writer) error {
	collector, err := tui.New(
		tui.WithFileSystem(a.files),
		tui.WithSubmitTransformer(inlineFiles(a.files, a.form)),
	)
	if err != nil {
		return err
	}
	values, err := collector.Collect(ctx, a.form, render.RenderOptions{})
	if err != nil {
		return err
	}

	predictor, err := a.localPredictor(outputs.NewMaterializer(a.files, a.cfg.Outputs.MediaDir))
	if err != nil {
		return err
	}
	result, err := predictor.Predict(ctx, values)
	if err != nil {
		return fmt.Errorf("%s", predict.Message(err))
	}

	views := render.OutputViews(a.form.Slots, result.Artifacts, func(path string) string { return path })
	return printOutputs(out, views, flags.format)
}

func printOutputs(out io.Writer, views []render.OutputView, format string) error {
	visible := make([]render.OutputView, 0, len(views))
	for _, view := range views {
		if !view.Hidden {
			visible = append(visible, view)
		}
	}

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(visible)
	}
	for _, view := range visible {
		var value string
		switch {
		case view.URL != "":
			value = view.URL
		case len(view.JSON) > 0:
			value = string(view.JSON)
		default:
			value = view.Text
		}
		if _, err := fmt.Fprintf(out, "[%d] %s: %s\n", view.Slot, view.Kind, value); err != nil {
			return err
		}
	}
	return nil
}

// inlineFiles replaces local file paths in file fields with data URIs so the
// container can read them without reaching back to this process.
func inlineFiles(files afero.Fs, form model.FormModel) tui.SubmitTransformer {
	fileFields := make(map[string]bool)
	for _, field := range form.Fields {
		if field.Kind == model.FieldKindFile {
			fileFields[field.Name] = true
		}
	}

	return func(values []model.Value) ([]model.Value, error) {
		out := make([]model.Value, len(values))
		for i, value := range values {
			out[i] = value
			if !fileFields[value.Name] {
				continue
			}
			switch v := value.Value.(type) {
			case string:
				uri, err := inlineFile(files, v)
				if err != nil {
					return nil, err
				}
				out[i].Value = uri
			case []any:
				list := make([]any, len(v))
				for j, item := range v {
					list[j] = item
					path, ok := item.(string)
					if !ok {
						continue
					}
					uri, err := inlineFile(files, path)
					if err != nil {
						return nil, err
					}
					list[j] = uri
				}
				out[i].Value = list
			}
		}
		return out, nil
	}
}

func inlineFile(files afero.Fs, path string) (string, error) {
	exists, err := afero.Exists(files, path)
	if err != nil || !exists {
		return path, nil
	}
	data, err := afero.ReadFile(files, path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	mime := strings.ReplaceAll(mimetype.Detect(data).String(), " ", "")
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
