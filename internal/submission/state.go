// Package submission models the lifecycle of a single link or file submission.
// Every transition is a pure function over State so the forms, the web UI and
// the terminal UI share one set of rules.
package submission

import "errors"

type Status int

const (
	Idle Status = iota
	Submitting
	Succeeded
	Failed
)

var statusNames = map[Status]string{
	Idle:       "idle",
	Submitting: "submitting",
	Succeeded:  "succeeded",
	Failed:     "failed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the status ends an attempt.
func (s Status) Terminal() bool {
	return s == Succeeded || s == Failed
}

// ParseStatus is the inverse of String. Unknown names map to Idle.
func ParseStatus(name string) Status {
	for s, n := range statusNames {
		if n == name {
			return s
		}
	}
	return Idle
}

// ErrAlreadySubmitting is returned by Begin when an attempt is still in flight.
var ErrAlreadySubmitting = errors.New("submission already in progress")

// State is owned by exactly one form instance.
type State struct {
	Status  Status
	Message string
}

func NewState() State {
	return State{Status: Idle}
}

// Begin starts a fresh attempt. Terminal states are allowed to restart.
func Begin(s State) (State, error) {
	if s.Status == Submitting {
		return s, ErrAlreadySubmitting
	}
	return State{Status: Submitting}, nil
}

// Complete resolves an in-flight attempt as accepted by the backend.
func Complete(s State, m Messages) State {
	if s.Status != Submitting {
		return s
	}
	return State{Status: Succeeded, Message: m.Succeeded}
}

// Fail resolves an in-flight attempt as failed.
func Fail(s State, m Messages) State {
	if s.Status != Submitting {
		return s
	}
	return State{Status: Failed, Message: m.Failed}
}

// Reset returns to Idle, except while an attempt is in flight.
func Reset(s State) State {
	if s.Status == Submitting {
		return s
	}
	return NewState()
}
