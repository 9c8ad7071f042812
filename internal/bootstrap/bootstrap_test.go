package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashkick/flashkick-agent/internal/config"
	"github.com/flashkick/flashkick-agent/internal/forms"
	"github.com/flashkick/flashkick-agent/internal/submission"
)

func testConfig(t *testing.T) *config.EnvConfig {
	t.Helper()
	t.Setenv(config.EnvDataDir, t.TempDir())
	t.Setenv(config.EnvConfigFile, "")
	cfg, err := config.New()
	require.NoError(t, err)
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_DryRunRecordsHistory(t *testing.T) {
	app, err := New(testConfig(t), testLogger(), Options{DryRun: true})
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	app.LinkForm.SetURL("https://example.com/match")
	require.NoError(t, app.LinkForm.Submit(context.Background()))

	notes := app.Notifications.Drain()
	require.Len(t, notes, 1)
	require.Equal(t, submission.LinkMessages.SucceededNotice, notes[0].Message)

	latest, err := app.History.Latest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Equal(t, "link", latest.Kind)
	require.Equal(t, "succeeded", latest.Status)
}

func TestNew_AppliesUploadLimits(t *testing.T) {
	cfg := testConfig(t)
	var got []forms.Notification
	app, err := New(cfg, testLogger(), Options{
		DryRun:   true,
		Notifier: forms.NotifierFunc(func(n forms.Notification) { got = append(got, n) }),
	})
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	require.Nil(t, app.Notifications, "a custom notifier replaces the log")

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	file, err := forms.OpenLocalFile(path)
	require.NoError(t, err)
	require.NoError(t, app.UploadForm.SelectFile(file))

	var verr *submission.ValidationError
	require.ErrorAs(t, app.UploadForm.Submit(context.Background()), &verr)
	require.Len(t, got, 1)
	require.Contains(t, got[0].Message, "mp4, mkv, avi")
}

func TestNew_ExtraObservers(t *testing.T) {
	var events []forms.Event
	app, err := New(testConfig(t), testLogger(), Options{
		DryRun:    true,
		Observers: []forms.Observer{forms.ObserverFunc(func(ev forms.Event) { events = append(events, ev) })},
	})
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	app.LinkForm.SetURL("https://example.com/match")
	require.NoError(t, app.LinkForm.Submit(context.Background()))

	require.Len(t, events, 2)
	require.Equal(t, submission.Submitting, events[0].State.Status)
	require.Equal(t, submission.Succeeded, events[1].State.Status)
}
