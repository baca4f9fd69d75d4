package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoChoices is returned when an enum field declares no choices.
	ErrNoChoices = errors.New("tui: enum field has no choices")
)
