package forms

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flashkick/flashkick-agent/internal/backend"
	"github.com/flashkick/flashkick-agent/internal/logging"
	"github.com/flashkick/flashkick-agent/internal/submission"
)

// Config wires a form to its collaborators.
type Config struct {
	Endpoints Endpoints
	Transport Transport
	Notifier  Notifier
	Observers []Observer
	Logger    *slog.Logger
	// Limits only applies to the upload form.
	Limits Limits
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (c Config) notifier() Notifier {
	if c.Notifier != nil {
		return c.Notifier
	}
	return NotifierFunc(func(Notification) {})
}

// LinkSnapshot is a consistent copy of a LinkForm.
type LinkSnapshot struct {
	URL          string
	State        submission.State
	SubmissionID string
}

// LinkForm collects a video URL and forwards it to the link-ingestion endpoint.
type LinkForm struct {
	endpoints Endpoints
	transport Transport
	notifier  Notifier
	observers []Observer
	logger    *slog.Logger

	mu           sync.Mutex
	url          string
	state        submission.State
	submissionID string
}

func NewLinkForm(cfg Config) *LinkForm {
	return &LinkForm{
		endpoints: cfg.Endpoints,
		transport: cfg.Transport,
		notifier:  cfg.notifier(),
		observers: cfg.Observers,
		logger:    logging.WithForm(cfg.logger(), string(KindLink)),
		state:     submission.NewState(),
	}
}

// SetURL replaces the typed URL. No validation happens here.
func (f *LinkForm) SetURL(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.url = text
}

func (f *LinkForm) Snapshot() LinkSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *LinkForm) snapshotLocked() LinkSnapshot {
	return LinkSnapshot{URL: f.url, State: f.state, SubmissionID: f.submissionID}
}

// Submit sends the current URL to the backend and blocks until the backend
// answers. Front ends call it off their event loop.
func (f *LinkForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	// Blank input is rejected; anything else is posted exactly as typed.
	link := f.url
	if strings.TrimSpace(link) == "" {
		f.mu.Unlock()
		f.notifier.Notify(Notification{Form: KindLink, Level: LevelWarning, Message: submission.LinkMessages.Warning})
		return &submission.ValidationError{Field: "videoLink", Reason: "a video link is required"}
	}

	next, err := submission.Begin(f.state)
	if err != nil {
		f.mu.Unlock()
		return err
	}
	f.state = next
	f.submissionID = uuid.NewString()
	id := f.submissionID
	started := f.eventLocked(link)
	f.mu.Unlock()

	publish(f.observers, started)

	logger := logging.WithSubmissionID(f.logger, id)
	logger.Info("submitting video link", "link", logging.SanitizeURL(link))

	err = f.post(ctx, link)

	f.mu.Lock()
	if err != nil {
		f.state = submission.Fail(f.state, submission.LinkMessages)
	} else {
		f.state = submission.Complete(f.state, submission.LinkMessages)
	}
	finished := f.eventLocked(link)
	f.mu.Unlock()

	publish(f.observers, finished)

	if err != nil {
		logger.Error("link submission failed", "error", err, "retryable", isRetryable(err))
		f.notifier.Notify(Notification{Form: KindLink, Level: LevelError, Message: submission.LinkMessages.FailedNotice})
		return &submission.TransportError{Op: "submit link", Err: err}
	}

	logger.Info("link submission accepted")
	f.notifier.Notify(Notification{Form: KindLink, Level: LevelInfo, Message: submission.LinkMessages.SucceededNotice})
	return nil
}

func (f *LinkForm) post(ctx context.Context, link string) error {
	target, err := f.endpoints.LinkURL()
	if err != nil {
		return err
	}
	_, err = f.transport.PostJSON(ctx, target, backend.LinkRequest{VideoLink: link})
	return err
}

func (f *LinkForm) eventLocked(target string) Event {
	return Event{
		Form:         KindLink,
		SubmissionID: f.submissionID,
		Target:       target,
		State:        f.state,
		At:           time.Now(),
	}
}

func isRetryable(err error) bool {
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.IsRetryable()
	}
	return false
}
