package predict

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-cogform/internal/logger"
)

// JobState is the lifecycle position of a submission.
type JobState string

const (
	StateBuilding  JobState = "building"
	StateSubmitted JobState = "submitted"
	StatePolling   JobState = "polling"
	StateSucceeded JobState = "succeeded"
	StateFailed    JobState = "failed"
)

// Terminal reports whether no further transitions can happen.
func (s JobState) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Submission is one request/response cycle. It is owned by a single Predict
// call and discarded when that call returns.
type Submission struct {
	ID      string
	State   JobState
	Payload Payload
	// Polls counts GET requests issued against the polling URL.
	Polls int

	history []JobState
	log     logger.Logger
}

func newSubmission(log logger.Logger) *Submission {
	id := uuid.NewString()
	s := &Submission{
		ID:    id,
		State: StateBuilding,
		log:   log.With("submission_id", id),
	}
	s.history = append(s.history, StateBuilding)
	return s
}

// History lists every state the submission passed through.
func (s *Submission) History() []JobState {
	return append([]JobState(nil), s.history...)
}

func (s *Submission) transition(to JobState) {
	if s.State.Terminal() || s.State == to {
		return
	}
	s.log.Debug("submission state changed", "from", s.State, "to", to)
	s.State = to
	s.history = append(s.history, to)
}
