package predict

import (
	"context"
	"errors"

	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"
)

var errStillRunning = errors.New("predict: job still running")

// poll fetches pollURL until the job reaches a terminal status. The first
// request is immediate; later ones follow the configured backoff.
func (p *Predictor) poll(ctx context.Context, sub *Submission, pollURL string) (gjson.Result, error) {
	sub.transition(StatePolling)

	var output gjson.Result
	err := retry.Do(ctx, p.cfg.Poll.backoff(), func(ctx context.Context) error {
		sub.Polls++
		resp, err := p.client.R().SetContext(ctx).Get(pollURL)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &Error{Op: "poll", Message: msgUnreachable, Err: err}
		}
		if status := resp.StatusCode(); status < 200 || status > 299 {
			return &Error{Op: "poll", StatusCode: status, Message: msgSubmissionFailed, Err: ErrSubmissionFailed}
		}

		body := resp.Body()
		status := gjson.GetBytes(body, "status").String()
		sub.log.Debug("polled prediction", "attempt", sub.Polls, "status", status)
		switch status {
		case "succeeded":
			output = gjson.GetBytes(body, "output")
			return nil
		case "failed", "canceled":
			return jobFailed(body)
		default:
			return retry.RetryableError(errStillRunning)
		}
	})

	switch {
	case err == nil:
		return output, nil
	case errors.Is(err, errStillRunning):
		return gjson.Result{}, &Error{Op: "poll", Message: msgTimeout, Err: ErrPollTimeout}
	default:
		return gjson.Result{}, err
	}
}
