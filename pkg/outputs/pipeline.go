package outputs

import (
	"context"
	"errors"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-cogform/internal/logger"
	"github.com/goliatone/go-cogform/pkg/model"
)

// Pipeline runs a prediction output through flatten, decode, reconcile and,
// when a Materializer is configured, materialize.
type Pipeline struct {
	maxDepth     int
	materializer *Materializer
	logger       logger.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithMaxDepth bounds response nesting.
func WithMaxDepth(depth int) PipelineOption {
	return func(p *Pipeline) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// WithMaterializer writes audio/video artifacts to storage.
func WithMaterializer(m *Materializer) PipelineOption {
	return func(p *Pipeline) {
		p.materializer = m
	}
}

// WithLogger attaches a logger.
func WithLogger(l logger.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline constructs a Pipeline.
func NewPipeline(options ...PipelineOption) *Pipeline {
	p := &Pipeline{maxDepth: DefaultMaxDepth, logger: logger.Nop()}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Result is the reshaped artifact list for one submission. Close releases
// any materialized files.
type Result struct {
	Artifacts []Artifact
	batch     *Batch
}

// Single returns the only artifact when exactly one slot is declared.
func (r *Result) Single() (Artifact, bool) {
	if r == nil || len(r.Artifacts) != 1 {
		return Artifact{}, false
	}
	return r.Artifacts[0], true
}

// Files lists materialized file paths.
func (r *Result) Files() []string {
	if r == nil {
		return nil
	}
	return r.batch.Paths()
}

// Close removes materialized files.
func (r *Result) Close() error {
	if r == nil {
		return nil
	}
	return r.batch.Close()
}

// ProcessBytes parses raw JSON and processes it.
func (p *Pipeline) ProcessBytes(ctx context.Context, raw []byte, slots []model.SlotKind) (*Result, error) {
	if !gjson.ValidBytes(raw) {
		return nil, malformed("invalid JSON")
	}
	return p.Process(ctx, gjson.ParseBytes(raw), slots)
}

// Process converts an output value into exactly len(slots) artifacts. When
// the first slot is structured the whole output is returned as one JSON
// artifact instead of being flattened.
func (p *Pipeline) Process(ctx context.Context, output gjson.Result, slots []model.SlotKind) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	node, err := FromResult(output, p.maxDepth)
	if err != nil {
		return nil, err
	}

	var artifacts []Artifact
	if len(slots) > 0 && slots[0] == model.SlotKindStructured {
		artifacts = []Artifact{{Kind: ArtifactJSON, Value: node.JSON()}}
	} else {
		leaves, err := Flatten(node, p.maxDepth)
		if err != nil {
			return nil, err
		}
		artifacts, err = Decode(leaves)
		if err != nil {
			return nil, err
		}
		p.logger.Debug("decoded outputs", "leaves", len(leaves), "artifacts", len(artifacts), "slots", len(slots))
	}

	artifacts = Reconcile(artifacts, len(slots))
	result := &Result{Artifacts: artifacts}
	if p.materializer == nil {
		return result, nil
	}

	batch, err := p.materializer.Materialize(ctx, result.Artifacts)
	if err != nil {
		return nil, err
	}
	result.batch = batch
	if files := batch.Paths(); len(files) > 0 {
		p.logger.Debug("materialized media", "files", len(files), "dir", p.materializer.Dir())
	}
	return result, nil
}

// IsPipelineError reports whether err came from output normalization.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrMalformedResponse) || errors.Is(err, ErrDecode)
}
