package manifest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/goliatone/go-cogform/pkg/model"
)

const barkManifest = `
name: bark
owner: suno-ai
description: |
  Text-prompted **generative audio**.
api:
  url: http://localhost:5000/predictions
example_inputs:
  prompt: "Hello, my name is Suno."
  history_prompt: null
example_outputs:
  - https://replicate.delivery/out.wav
  - { text: "done" }
  - [1, 2]
  - plain text
`

func TestParseManifest(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(barkManifest))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Title() != "Demo for bark cog image by suno-ai" {
		t.Fatalf("title = %q", m.Title())
	}
	if m.API.URL != "http://localhost:5000/predictions" {
		t.Fatalf("api url = %q", m.API.URL)
	}
	if m.ExampleInputs["prompt"] != "Hello, my name is Suno." {
		t.Fatalf("unexpected example inputs %+v", m.ExampleInputs)
	}
	want := []string{model.TagAudio, model.TagJSON, model.TagList, model.TagString}
	if diff := cmp.Diff(want, m.OutputTags()); diff != "" {
		t.Fatalf("output tags mismatch (-want +got):\n%s", diff)
	}
}

func TestOutputTypesOverrideExamples(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte("name: x\noutput_types: [Image, video]\nexample_outputs: hello\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]string{"image", "video"}, m.OutputTags()); diff != "" {
		t.Fatalf("output tags mismatch (-want +got):\n%s", diff)
	}
}

func TestSingleExampleOutput(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte("name: x\nexample_outputs: https://example.com/result.png\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]string{model.TagImage}, m.OutputTags()); diff != "" {
		t.Fatalf("output tags mismatch (-want +got):\n%s", diff)
	}

	empty, err := Parse([]byte("name: x\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if empty.OutputTags() != nil {
		t.Fatalf("expected nil tags without examples")
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":       "  \n",
		"unknown key": "name: x\nmystery: 1\n",
		"bad type":    "name: x\noutput_types: [hologram]\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadAndDecorate(t *testing.T) {
	t.Parallel()

	files := afero.NewMemMapFs()
	if err := afero.WriteFile(files, "/models/bark.yaml", []byte(barkManifest), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, err := Load(files, "/models/bark.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	form := model.FormModel{Title: "Cog"}
	if err := m.Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if form.Title != "Demo for bark cog image by suno-ai" {
		t.Fatalf("title = %q", form.Title)
	}
	if form.Metadata["owner"] != "suno-ai" {
		t.Fatalf("metadata = %+v", form.Metadata)
	}

	if _, err := Load(files, "/models/missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
