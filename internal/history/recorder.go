package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/flashkick/flashkick-agent/internal/forms"
	"github.com/flashkick/flashkick-agent/internal/submission"
)

const writeTimeout = 5 * time.Second

// Recorder is a forms.Observer that persists every attempt. Idle events
// (selection changes) carry no attempt and are skipped.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

func (r *Recorder) OnEvent(ev forms.Event) {
	if ev.SubmissionID == "" || ev.State.Status == submission.Idle {
		return
	}

	rec := &Record{
		ID:        ev.SubmissionID,
		Kind:      string(ev.Form),
		Target:    ev.Target,
		Status:    ev.State.Status.String(),
		Message:   ev.State.Message,
		Progress:  ev.Progress,
		CreatedAt: ev.At,
		UpdatedAt: ev.At,
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := r.repo.Upsert(ctx, rec); err != nil {
		r.logger.Warn("failed to record submission", "submission_id", ev.SubmissionID, "error", err)
	}
}
