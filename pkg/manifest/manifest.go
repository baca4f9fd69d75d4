// Package manifest reads the YAML sidecar that names a model and carries its
// example inputs and outputs. The examples drive media sniffing for uri
// inputs and the output slot layout.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-cogform/pkg/model"
)

// Manifest describes one model.
type Manifest struct {
	Name        string `yaml:"name"`
	Owner       string `yaml:"owner"`
	Description string `yaml:"description"`
	API         API    `yaml:"api"`
	// ExampleInputs maps input names to a representative value.
	ExampleInputs map[string]any `yaml:"example_inputs"`
	// ExampleOutputs is one value or a list of values from a sample run.
	ExampleOutputs any `yaml:"example_outputs"`
	// OutputTypes overrides tags derived from ExampleOutputs.
	OutputTypes []string `yaml:"output_types"`
}

// API points at the prediction endpoint.
type API struct {
	URL     string `yaml:"url"`
	Version string `yaml:"version"`
}

var validTags = map[string]struct{}{
	model.TagImage: {}, model.TagAudio: {}, model.TagVideo: {},
	model.TagString: {}, model.TagList: {}, model.TagJSON: {},
}

// Parse decodes a manifest document. Unknown keys are rejected.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if len(bytes.TrimSpace(data)) == 0 {
		return m, errors.New("manifest: document is empty")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("manifest: decode: %w", err)
	}
	for i, tag := range m.OutputTypes {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if _, ok := validTags[tag]; !ok {
			return Manifest{}, fmt.Errorf("manifest: output_types[%d]: unknown type %q", i, tag)
		}
		m.OutputTypes[i] = tag
	}
	return m, nil
}

// Load reads and parses the manifest at path.
func Load(files afero.Fs, path string) (Manifest, error) {
	if files == nil {
		files = afero.NewOsFs()
	}
	data, err := afero.ReadFile(files, path)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Parse(data)
}

// Title is the page heading shown above the form.
func (m Manifest) Title() string {
	switch {
	case m.Name != "" && m.Owner != "":
		return fmt.Sprintf("Demo for %s cog image by %s", m.Name, m.Owner)
	case m.Name != "":
		return fmt.Sprintf("Demo for %s cog image", m.Name)
	default:
		return ""
	}
}

// OutputTags returns the coarse type of every expected output. Explicit
// output_types win; otherwise each example output is sniffed. A nil result
// means the manifest says nothing about outputs.
func (m Manifest) OutputTags() []string {
	if len(m.OutputTypes) > 0 {
		return append([]string(nil), m.OutputTypes...)
	}
	switch v := m.ExampleOutputs.(type) {
	case nil:
		return nil
	case []any:
		tags := make([]string, len(v))
		for i, item := range v {
			tags[i] = model.DetectFileType(item)
		}
		return tags
	default:
		return []string{model.DetectFileType(v)}
	}
}

// Decorate applies the manifest title and description to a form.
func (m Manifest) Decorate(form *model.FormModel) error {
	if form == nil {
		return nil
	}
	if title := m.Title(); title != "" {
		form.Title = title
	}
	if m.Description != "" {
		form.Description = m.Description
	}
	if form.Metadata == nil {
		form.Metadata = make(map[string]string)
	}
	if m.Name != "" {
		form.Metadata["model"] = m.Name
	}
	if m.Owner != "" {
		form.Metadata["owner"] = m.Owner
	}
	if len(form.Metadata) == 0 {
		form.Metadata = nil
	}
	return nil
}

var _ model.Decorator = Manifest{}
