// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-cogform/pkg/openapi"
)

// PredictorSchema is the OpenAPI document a small image model would publish at
// /openapi.json.
const PredictorSchema = `{
  "openapi": "3.0.2",
  "info": { "title": "Cog", "version": "0.1.0" },
  "paths": {},
  "components": {
    "schemas": {
      "Input": {
        "title": "Input",
        "type": "object",
        "required": ["prompt"],
        "properties": {
          "prompt": { "title": "Prompt", "type": "string", "description": "What to draw", "x-order": 0 },
          "image": { "title": "Image", "type": "string", "format": "uri", "description": "Optional **init** image", "x-order": 1 },
          "num_steps": { "title": "Num Steps", "type": "integer", "minimum": 1, "maximum": 50, "default": 25, "x-order": 2 },
          "guidance": { "title": "Guidance", "type": "number", "default": 7.5, "x-order": 3 },
          "scheduler": {
            "allOf": [{ "$ref": "#/components/schemas/scheduler" }],
            "default": "DDIM",
            "description": "Choose a scheduler.",
            "x-order": 4
          },
          "upscale": { "title": "Upscale", "type": "boolean", "default": false, "x-order": 5 }
        }
      },
      "scheduler": {
        "title": "scheduler",
        "enum": ["DDIM", "K_EULER"],
        "type": "string",
        "description": "An enumeration."
      },
      "Output": {
        "title": "Output",
        "type": "array",
        "items": { "type": "string", "format": "uri" }
      }
    }
  }
}`

// PredictorDocument wraps PredictorSchema in a Document.
func PredictorDocument(t testing.TB) pkgopenapi.Document {
	t.Helper()

	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile("openapi.json"), []byte(PredictorSchema))
	if err != nil {
		t.Fatalf("construct document: %v", err)
	}
	return doc
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// AssertNoDiff fails the test when want and got differ.
func AssertNoDiff(t testing.TB, want, got any, opts ...cmp.Option) {
	t.Helper()
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t testing.TB, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
