package forms

import (
	"time"

	"github.com/flashkick/flashkick-agent/internal/submission"
)

type Kind string

const (
	KindLink Kind = "link"
	KindFile Kind = "file"
)

// Event describes a form state after a change. SubmissionID is empty until
// the first attempt starts and identifies one attempt afterwards.
type Event struct {
	Form         Kind
	SubmissionID string
	Target       string
	State        submission.State
	Progress     int
	At           time.Time
}

type Observer interface {
	OnEvent(ev Event)
}

type ObserverFunc func(ev Event)

func (f ObserverFunc) OnEvent(ev Event) {
	f(ev)
}

func publish(observers []Observer, events ...Event) {
	for _, ev := range events {
		for _, o := range observers {
			o.OnEvent(ev)
		}
	}
}
