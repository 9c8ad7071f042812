package forms

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashkick/flashkick-agent/internal/backend"
	"github.com/flashkick/flashkick-agent/internal/submission"
)

func newTestLinkForm(tr *fakeTransport) (*LinkForm, *NotificationLog, *eventLog) {
	notes := NewNotificationLog()
	events := &eventLog{}
	form := NewLinkForm(Config{
		Endpoints: testEndpoints(),
		Transport: tr,
		Notifier:  notes,
		Observers: []Observer{events},
	})
	return form, notes, events
}

func TestLinkForm_EmptyURLWarnsWithoutNetwork(t *testing.T) {
	for _, input := range []string{"", "   "} {
		tr := &fakeTransport{}
		form, notes, events := newTestLinkForm(tr)
		form.SetURL(input)

		err := form.Submit(context.Background())

		var verr *submission.ValidationError
		require.ErrorAs(t, err, &verr)
		jsonCalls, _ := tr.calls()
		require.Zero(t, jsonCalls)
		require.Equal(t, submission.Idle, form.Snapshot().State.Status)
		require.Empty(t, events.all())
		require.Equal(t, []Notification{{Form: KindLink, Level: LevelWarning, Message: "Please enter a video link."}}, notes.All())
	}
}

func TestLinkForm_SubmitSuccess(t *testing.T) {
	tr := &fakeTransport{}
	form, notes, events := newTestLinkForm(tr)
	form.SetURL("https://example.com/video")

	require.NoError(t, form.Submit(context.Background()))

	require.Len(t, tr.jsonCalls, 1)
	require.Equal(t, "http://backend.test/upload-link", tr.jsonCalls[0].url)
	require.Equal(t, backend.LinkRequest{VideoLink: "https://example.com/video"}, tr.jsonCalls[0].payload)

	evs := events.all()
	require.Len(t, evs, 2)
	require.Equal(t, submission.Submitting, evs[0].State.Status)
	require.Equal(t, submission.Succeeded, evs[1].State.Status)
	require.Equal(t, evs[0].SubmissionID, evs[1].SubmissionID)
	require.Equal(t, "https://example.com/video", evs[1].Target)

	snap := form.Snapshot()
	require.Equal(t, submission.Succeeded, snap.State.Status)
	require.Equal(t, "Link submitted and highlights are being generated.", snap.State.Message)
	require.Equal(t, []Notification{{Form: KindLink, Level: LevelInfo, Message: "Link submitted successfully. Highlights are being processed."}}, notes.All())
}

func TestLinkForm_SubmitFailure(t *testing.T) {
	tr := &fakeTransport{err: &backend.StatusError{StatusCode: 500, Body: "boom"}}
	form, notes, _ := newTestLinkForm(tr)
	form.SetURL("https://example.com/video")

	err := form.Submit(context.Background())

	var terr *submission.TransportError
	require.ErrorAs(t, err, &terr)
	var statusErr *backend.StatusError
	require.True(t, errors.As(err, &statusErr))

	snap := form.Snapshot()
	require.Equal(t, submission.Failed, snap.State.Status)
	require.Equal(t, "Failed to submit the link.", snap.State.Message)
	require.Equal(t, LevelError, notes.All()[0].Level)
	require.Equal(t, "Failed to submit the link.", notes.All()[0].Message)
}

func TestLinkForm_RetryAfterFailure(t *testing.T) {
	tr := &fakeTransport{err: errBackendDown}
	form, _, _ := newTestLinkForm(tr)
	form.SetURL("https://example.com/video")

	require.Error(t, form.Submit(context.Background()))
	require.Equal(t, submission.Failed, form.Snapshot().State.Status)

	tr.err = nil
	require.NoError(t, form.Submit(context.Background()))
	require.Equal(t, submission.Succeeded, form.Snapshot().State.Status)
	jsonCalls, _ := tr.calls()
	require.Equal(t, 2, jsonCalls)
}

func TestLinkForm_RefusesDoubleSubmit(t *testing.T) {
	tr := &fakeTransport{release: make(chan struct{}), started: make(chan struct{})}
	form, _, _ := newTestLinkForm(tr)
	form.SetURL("https://example.com/video")

	done := make(chan error, 1)
	go func() { done <- form.Submit(context.Background()) }()
	<-tr.started

	require.Equal(t, submission.Submitting, form.Snapshot().State.Status)
	require.ErrorIs(t, form.Submit(context.Background()), ErrSubmitInProgress)

	close(tr.release)
	require.NoError(t, <-done)

	jsonCalls, _ := tr.calls()
	require.Equal(t, 1, jsonCalls)
}

func TestLinkForm_MissingBaseURLFails(t *testing.T) {
	tr := &fakeTransport{}
	form := NewLinkForm(Config{Transport: tr})
	form.SetURL("https://example.com/video")

	require.Error(t, form.Submit(context.Background()))
	require.Equal(t, submission.Failed, form.Snapshot().State.Status)
	jsonCalls, _ := tr.calls()
	require.Zero(t, jsonCalls)
}

func TestEndpoints_JoinsPaths(t *testing.T) {
	e := Endpoints{BaseURL: "http://localhost:5000/api/"}

	link, err := e.LinkURL()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5000/api/upload-link", link)

	e.UploadPath = "/v2/upload"
	upload, err := e.UploadURL()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5000/api/v2/upload", upload)
}

func TestLinkForm_PostsLinkAsTyped(t *testing.T) {
	tr := &fakeTransport{}
	form, _, events := newTestLinkForm(tr)
	form.SetURL(" https://example.com/video\n")

	require.NoError(t, form.Submit(context.Background()))

	require.Equal(t, backend.LinkRequest{VideoLink: " https://example.com/video\n"}, tr.jsonCalls[0].payload)
	evs := events.all()
	require.Equal(t, " https://example.com/video\n", evs[len(evs)-1].Target)
}
