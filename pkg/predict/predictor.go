package predict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/goliatone/go-cogform/internal/logger"
	"github.com/goliatone/go-cogform/pkg/model"
	"github.com/goliatone/go-cogform/pkg/outputs"
)

const (
	msgSubmissionFailed = "The submission failed!"
	msgWarmingUp        = "Sorry, the model is still warming up. Try again in a bit."
	msgTimeout          = "The prediction took too long to finish."
	msgUnreachable      = "Could not reach the prediction service."
	msgBadOutput        = "The prediction output could not be processed."
	msgCancelled        = "The prediction was cancelled."
)

// Predictor submits values and returns artifacts shaped to the form's
// output slots.
type Predictor struct {
	cfg      Config
	slots    []model.SlotKind
	client   *resty.Client
	files    afero.Fs
	pipeline *outputs.Pipeline
	logger   logger.Logger
}

// Option customises a Predictor.
type Option func(*Predictor)

// WithLogger attaches a logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Predictor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithFileSystem sets the filesystem used to decide whether a value names a
// local file.
func WithFileSystem(files afero.Fs) Option {
	return func(p *Predictor) {
		if files != nil {
			p.files = files
		}
	}
}

// WithPipeline replaces the output pipeline.
func WithPipeline(pipeline *outputs.Pipeline) Option {
	return func(p *Predictor) {
		if pipeline != nil {
			p.pipeline = pipeline
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Predictor) {
		if client != nil {
			p.client = resty.NewWithClient(client)
		}
	}
}

// New validates cfg and builds a Predictor for the given output slots.
func New(cfg Config, slots []model.SlotKind, options ...Option) (*Predictor, error) {
	validated, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, errors.New("predict: at least one output slot is required")
	}

	p := &Predictor{
		cfg:    validated,
		slots:  append([]model.SlotKind(nil), slots...),
		files:  afero.NewOsFs(),
		logger: logger.Nop(),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.client == nil {
		p.client = resty.New()
	}
	if p.pipeline == nil {
		p.pipeline = outputs.NewPipeline(outputs.WithLogger(p.logger))
	}

	p.client.SetHeader("Content-Type", "application/json")
	p.client.SetHeader("Accept", "application/json")
	if validated.Token != "" {
		p.client.SetHeader("Authorization", "Token "+validated.Token)
	}
	if validated.RequestTimeout > 0 {
		p.client.SetTimeout(validated.RequestTimeout)
	}
	return p, nil
}

// Slots returns the output slot kinds results are shaped to.
func (p *Predictor) Slots() []model.SlotKind {
	return append([]model.SlotKind(nil), p.slots...)
}

// SubmitOption adjusts a single Predict call.
type SubmitOption func(*submitOptions)

type submitOptions struct {
	publicBaseURL string
	observe       func(*Submission)
}

// WithPublicBaseURL overrides Config.PublicBaseURL for one call, e.g. with
// the scheme and host the browser used to reach the form.
func WithPublicBaseURL(base string) SubmitOption {
	return func(o *submitOptions) {
		if base != "" {
			o.publicBaseURL = base
		}
	}
}

// WithObserver receives the finished Submission, whatever the outcome.
func WithObserver(fn func(*Submission)) SubmitOption {
	return func(o *submitOptions) {
		o.observe = fn
	}
}

// Predict builds the payload, submits it, polls when the container accepts
// the job asynchronously and runs the output pipeline. The caller must Close
// the returned Result.
func (p *Predictor) Predict(ctx context.Context, values []model.Value, opts ...SubmitOption) (*outputs.Result, error) {
	so := submitOptions{publicBaseURL: p.cfg.PublicBaseURL}
	for _, opt := range opts {
		opt(&so)
	}

	sub := newSubmission(p.logger)
	if so.observe != nil {
		defer so.observe(sub)
	}

	sub.Payload = BuildPayload(values, p.rewriter(so.publicBaseURL))
	output, err := p.run(ctx, sub)
	if err != nil {
		sub.transition(StateFailed)
		sub.log.Warn("prediction failed", "error", err)
		return nil, asError("submit", err)
	}

	result, err := p.pipeline.Process(ctx, output, p.slots)
	if err != nil {
		sub.transition(StateFailed)
		sub.log.Warn("output processing failed", "error", err)
		return nil, asError("outputs", err)
	}
	sub.transition(StateSucceeded)
	sub.log.Info("prediction succeeded", "polls", sub.Polls, "artifacts", len(result.Artifacts))
	return result, nil
}

// asError folds any failure into *Error so callers see one error shape.
func asError(op string, err error) error {
	var perr *Error
	if errors.As(err, &perr) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Error{Op: op, Message: msgCancelled, Err: err}
	case outputs.IsPipelineError(err):
		return &Error{Op: op, Message: msgBadOutput, Err: err}
	default:
		return &Error{Op: op, Message: msgSubmissionFailed, Err: err}
	}
}

func (p *Predictor) rewriter(base string) func(string) string {
	if base == "" {
		return nil
	}
	return func(value string) string {
		if exists, err := afero.Exists(p.files, value); err == nil && exists {
			return base + "/file=" + value
		}
		return value
	}
}

func (p *Predictor) run(ctx context.Context, sub *Submission) (gjson.Result, error) {
	body, err := json.Marshal(requestBody{Input: sub.Payload, Version: p.cfg.Version})
	if err != nil {
		return gjson.Result{}, &Error{Op: "submit", Message: msgSubmissionFailed, Err: err}
	}

	sub.transition(StateSubmitted)
	sub.log.Debug("submitting prediction", "inputs", sub.Payload.Keys())
	resp, err := p.client.R().SetContext(ctx).SetBody(body).Post(p.cfg.APIURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return gjson.Result{}, ctxErr
		}
		return gjson.Result{}, &Error{Op: "submit", Message: msgUnreachable, Err: err}
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusCreated:
		pollURL, err := p.pollURL(resp.Body())
		if err != nil {
			return gjson.Result{}, err
		}
		return p.poll(ctx, sub, pollURL)
	case status == http.StatusConflict:
		return gjson.Result{}, &Error{Op: "submit", StatusCode: status, Message: msgWarmingUp, Err: ErrWarmingUp}
	case status < 200 || status > 299:
		return gjson.Result{}, &Error{Op: "submit", StatusCode: status, Message: msgSubmissionFailed, Err: ErrSubmissionFailed}
	default:
		return terminalOutput(resp.Body())
	}
}

func (p *Predictor) pollURL(body []byte) (string, error) {
	raw := gjson.GetBytes(body, "urls.get").String()
	if raw == "" {
		return "", &Error{Op: "submit", StatusCode: http.StatusCreated, Message: msgSubmissionFailed, Err: ErrMissingPollURL}
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", &Error{Op: "submit", Message: msgSubmissionFailed, Err: fmt.Errorf("%w: %v", ErrMissingPollURL, err)}
	}
	base, err := url.Parse(p.cfg.APIURL)
	if err != nil {
		return "", &Error{Op: "submit", Message: msgSubmissionFailed, Err: err}
	}
	return base.ResolveReference(ref).String(), nil
}

// terminalOutput extracts "output" from a finished prediction, failing when
// the body itself reports a failed job.
func terminalOutput(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &Error{Op: "outputs", Message: msgBadOutput, Err: outputs.ErrMalformedResponse}
	}
	switch gjson.GetBytes(body, "status").String() {
	case "failed", "canceled":
		return gjson.Result{}, jobFailed(body)
	}
	return gjson.GetBytes(body, "output"), nil
}

func jobFailed(body []byte) error {
	err := ErrJobFailed
	if detail := gjson.GetBytes(body, "error").String(); detail != "" {
		err = fmt.Errorf("%w: %s", ErrJobFailed, detail)
	}
	return &Error{Op: "poll", Message: msgSubmissionFailed, Err: err}
}
