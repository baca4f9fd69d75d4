package predict

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmissionFailed is returned for non-2xx responses.
	ErrSubmissionFailed = errors.New("predict: submission failed")
	// ErrWarmingUp is returned for a 409 while the container is still booting.
	ErrWarmingUp = errors.New("predict: model is still warming up")
	// ErrJobFailed is returned when the job itself reports failure.
	ErrJobFailed = errors.New("predict: job failed")
	// ErrPollTimeout is returned when polling exceeds PollPolicy.Timeout.
	ErrPollTimeout = errors.New("predict: polling timed out")
	// ErrMissingPollURL is returned for a 201 without urls.get.
	ErrMissingPollURL = errors.New("predict: accepted response has no polling URL")
)

// Error is the single user-facing failure for a submission. Message is safe
// to show in a form; StatusCode is set when an HTTP status was involved.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.StatusCode
	}
	return 0
}

// Message returns the user-facing message for err.
func Message(err error) string {
	var perr *Error
	if errors.As(err, &perr) && perr.Message != "" {
		if perr.StatusCode != 0 {
			return fmt.Sprintf("%s Error: %d", perr.Message, perr.StatusCode)
		}
		return perr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
