package ui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/flashkick/flashkick-agent/internal/forms"
	"github.com/flashkick/flashkick-agent/internal/history"
	"github.com/flashkick/flashkick-agent/internal/submission"
)

const idleTitle = "Status: Idle"

// Tray shows the latest submission in the system tray. It is a
// forms.Observer; events that arrive before the tray is ready are kept and
// shown once it is.
type Tray struct {
	logger *slog.Logger

	statusItem *systray.MenuItem

	mu    sync.Mutex
	ready bool
	title string

	onOpen func() error
	onQuit func()
}

type TrayConfig struct {
	Logger *slog.Logger
	OnOpen func() error
	OnQuit func()
}

func NewTray(cfg TrayConfig) *Tray {
	t := &Tray{
		logger: cfg.Logger,
		title:  idleTitle,
		onOpen: cfg.OnOpen,
		onQuit: cfg.OnQuit,
	}
	return t
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Flashkick")
	systray.SetTooltip("Flashkick Agent")

	t.mu.Lock()
	t.statusItem = systray.AddMenuItem(t.title, "Latest submission")
	t.statusItem.Disable()
	t.ready = true
	t.mu.Unlock()

	systray.AddSeparator()

	openItem := systray.AddMenuItem("Open Highlights", "Open the upload page in a browser")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Flashkick Agent")

	go func() {
		for {
			select {
			case <-openItem.ClickedCh:
				t.handleOpen()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) handleOpen() {
	if t.onOpen != nil {
		if err := t.onOpen(); err != nil {
			t.logger.Error("failed to open highlights page", "error", err)
		}
	}
}

// OnEvent implements forms.Observer.
func (t *Tray) OnEvent(ev forms.Event) {
	if ev.SubmissionID == "" {
		return
	}
	t.UpdateStatus(EventTitle(ev))
}

func (t *Tray) UpdateStatus(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.title = title
	if t.ready {
		t.statusItem.SetTitle(title)
	}
}

// Title returns the status line currently shown, or to be shown once the
// tray is ready.
func (t *Tray) Title() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.title
}

func (t *Tray) Quit() {
	systray.Quit()
}

var formLabels = map[forms.Kind]string{
	forms.KindLink: "Link",
	forms.KindFile: "Upload",
}

var statusLabels = map[submission.Status]string{
	submission.Idle:       "Idle",
	submission.Submitting: "Submitting",
	submission.Succeeded:  "Processing highlights",
	submission.Failed:     "Failed",
}

func EventTitle(ev forms.Event) string {
	return title(formLabels[ev.Form], ev.State.Status, ev.Progress)
}

func RecordTitle(rec *history.Record) string {
	status := submission.ParseStatus(rec.Status)
	return title(formLabels[forms.Kind(rec.Kind)], status, rec.Progress)
}

func title(form string, status submission.Status, progress int) string {
	if form == "" {
		form = "Submission"
	}
	if status == submission.Submitting && progress > 0 {
		return fmt.Sprintf("%s: %s %d%%", form, statusLabels[status], progress)
	}
	return fmt.Sprintf("%s: %s", form, statusLabels[status])
}
