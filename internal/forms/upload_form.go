package forms

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/flashkick/flashkick-agent/internal/backend"
	"github.com/flashkick/flashkick-agent/internal/logging"
	"github.com/flashkick/flashkick-agent/internal/submission"
)

// Limits are checked locally before an upload starts. The zero value
// accepts any file.
type Limits struct {
	AllowedExtensions []string
	MaxBytes          int64
}

// Check returns a user-facing reason when file breaks a limit.
func (l Limits) Check(file backend.File) (string, bool) {
	if len(l.AllowedExtensions) > 0 {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Name())), ".")
		allowed := false
		for _, a := range l.AllowedExtensions {
			if strings.TrimPrefix(strings.ToLower(a), ".") == ext {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Sprintf("File type not allowed. Supported types: %s.", strings.Join(l.AllowedExtensions, ", ")), false
		}
	}
	if l.MaxBytes > 0 && file.Size() > l.MaxBytes {
		return fmt.Sprintf("File is too large (%s). The limit is %s.",
			humanize.IBytes(uint64(file.Size())), humanize.IBytes(uint64(l.MaxBytes))), false
	}
	return "", true
}

// UploadSnapshot is a consistent copy of an UploadForm.
type UploadSnapshot struct {
	HasFile      bool
	DisplayName  string
	Size         int64
	Progress     int
	State        submission.State
	SubmissionID string
}

// UploadForm uploads one local video file to the file-ingestion endpoint and
// tracks the upload progress.
type UploadForm struct {
	endpoints Endpoints
	transport Transport
	notifier  Notifier
	observers []Observer
	limits    Limits
	logger    *slog.Logger

	mu           sync.Mutex
	file         backend.File
	displayName  string
	progress     int
	state        submission.State
	submissionID string
}

func NewUploadForm(cfg Config) *UploadForm {
	return &UploadForm{
		endpoints: cfg.Endpoints,
		transport: cfg.Transport,
		notifier:  cfg.notifier(),
		observers: cfg.Observers,
		limits:    cfg.Limits,
		logger:    logging.WithForm(cfg.logger(), string(KindFile)),
		state:     submission.NewState(),
	}
}

// SelectFile replaces the selection and resets progress. A nil file models a
// cancelled picker. The status line is cleared for the new file. Selecting
// while an upload is in flight is refused.
func (f *UploadForm) SelectFile(file backend.File) error {
	f.mu.Lock()
	if f.state.Status == submission.Submitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}
	f.selectLocked(file)
	ev := f.eventLocked()
	f.mu.Unlock()

	publish(f.observers, ev)
	return nil
}

func (f *UploadForm) selectLocked(file backend.File) {
	f.file = file
	f.displayName = ""
	if file != nil {
		f.displayName = file.Name()
	}
	f.progress = 0
	f.state = submission.Reset(f.state)
}

func (f *UploadForm) Snapshot() UploadSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := UploadSnapshot{
		HasFile:      f.file != nil,
		DisplayName:  f.displayName,
		Progress:     f.progress,
		State:        f.state,
		SubmissionID: f.submissionID,
	}
	if f.file != nil {
		snap.Size = f.file.Size()
	}
	return snap
}

// Upload is an attempt that has already moved its form to Submitting.
type Upload struct {
	form      *UploadForm
	file      backend.File
	id        string
	reporting sync.WaitGroup
}

// Begin selects file and starts an attempt under one lock, so no other caller
// can swap the selection before the upload starts. Missing or rejected files
// are notified as in Submit and stay selected in the Idle state. While
// another attempt is in flight the form is left untouched and
// ErrSubmitInProgress is returned.
func (f *UploadForm) Begin(file backend.File) (*Upload, error) {
	return f.begin(file, true)
}

// Submit uploads the selected file and blocks until the backend answers.
func (f *UploadForm) Submit(ctx context.Context) error {
	u, err := f.begin(nil, false)
	if err != nil {
		return err
	}
	return u.Run(ctx)
}

func (f *UploadForm) begin(file backend.File, replace bool) (*Upload, error) {
	f.mu.Lock()
	if f.state.Status == submission.Submitting {
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	}

	var events []Event
	if replace {
		f.selectLocked(file)
		events = append(events, f.eventLocked())
	}
	file = f.file

	if file == nil {
		f.mu.Unlock()
		publish(f.observers, events...)
		f.notifier.Notify(Notification{Form: KindFile, Level: LevelWarning, Message: submission.FileMessages.Warning})
		return nil, &submission.ValidationError{Field: UploadField, Reason: "no file selected"}
	}
	if reason, ok := f.limits.Check(file); !ok {
		f.mu.Unlock()
		publish(f.observers, events...)
		f.notifier.Notify(Notification{Form: KindFile, Level: LevelWarning, Message: reason})
		return nil, &submission.ValidationError{Field: UploadField, Reason: reason}
	}

	next, err := submission.Begin(f.state)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.state = next
	f.progress = 0
	f.submissionID = uuid.NewString()
	u := &Upload{form: f, file: file, id: f.submissionID}
	events = append(events, f.eventLocked())
	f.mu.Unlock()

	publish(f.observers, events...)
	return u, nil
}

// Run performs the upload and blocks until the backend answers. It must be
// called once.
func (u *Upload) Run(ctx context.Context) error {
	f := u.form
	logger := logging.WithSubmissionID(f.logger, u.id)
	logger.Info("uploading video file", "filename", u.file.Name(), "size", humanize.IBytes(uint64(u.file.Size())))

	err := u.post(ctx)

	f.mu.Lock()
	if err != nil {
		f.state = submission.Fail(f.state, submission.FileMessages)
	} else {
		f.state = submission.Complete(f.state, submission.FileMessages)
	}
	finished := f.eventLocked()
	f.mu.Unlock()

	// Progress reports taken before the attempt ended are delivered first.
	u.reporting.Wait()
	publish(f.observers, finished)

	if err != nil {
		logger.Error("file upload failed", "error", err, "retryable", isRetryable(err))
		f.notifier.Notify(Notification{Form: KindFile, Level: LevelError, Message: submission.FileMessages.FailedNotice})
		return &submission.TransportError{Op: "upload file", Err: err}
	}

	logger.Info("file upload accepted")
	f.notifier.Notify(Notification{Form: KindFile, Level: LevelInfo, Message: submission.FileMessages.SucceededNotice})
	return nil
}

func (u *Upload) post(ctx context.Context) error {
	target, err := u.form.endpoints.UploadURL()
	if err != nil {
		return err
	}
	_, err = u.form.transport.PostMultipart(ctx, target, UploadField, u.file, u.onProgress)
	return err
}

// onProgress ignores reports that arrive once the attempt is over.
func (u *Upload) onProgress(loaded, total int64) {
	f := u.form
	f.mu.Lock()
	if f.submissionID != u.id || f.state.Status != submission.Submitting {
		f.mu.Unlock()
		return
	}
	next := submission.Advance(f.progress, loaded, total)
	if next == f.progress {
		f.mu.Unlock()
		return
	}
	f.progress = next
	ev := f.eventLocked()
	u.reporting.Add(1)
	f.mu.Unlock()

	defer u.reporting.Done()
	publish(f.observers, ev)
}

func (f *UploadForm) eventLocked() Event {
	return Event{
		Form:         KindFile,
		SubmissionID: f.submissionID,
		Target:       f.displayName,
		State:        f.state,
		Progress:     f.progress,
		At:           time.Now(),
	}
}
