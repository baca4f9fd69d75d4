package model

import (
	"github.com/goliatone/go-cogform/internal/model"
	pkgopenapi "github.com/goliatone/go-cogform/pkg/openapi"
)

// Builder converts parsed prediction schemas into form models.
type Builder interface {
	Build(in Input) (FormModel, error)
	ClassifyInput(property pkgopenapi.Property, example any) Field
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler func(string) string
}

// WithLabeler overrides the label used for properties without a title.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	internalOpts := model.Options{}
	if cfg.labeler != nil {
		internalOpts.Labeler = cfg.labeler
	}

	return model.New(internalOpts)
}
