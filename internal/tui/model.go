// Package tui is the terminal front end. It drives the same link and upload
// forms as the web UI and redraws from their snapshots.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/flashkick/flashkick-agent/internal/forms"
	"github.com/flashkick/flashkick-agent/internal/submission"
)

type focus int

const (
	focusLink focus = iota
	focusFile
)

type submitDoneMsg struct {
	form forms.Kind
	err  error
}

// Config wires the model. Bridge must be registered on both forms.
type Config struct {
	Context    context.Context
	LinkForm   *forms.LinkForm
	UploadForm *forms.UploadForm
	Bridge     *Bridge
}

type Model struct {
	ctx    context.Context
	link   *forms.LinkForm
	upload *forms.UploadForm
	bridge *Bridge

	urlInput  textinput.Model
	pathInput textinput.Model
	bar       progress.Model
	keys      keyMap
	help      help.Model

	focus      focus
	linkSnap   forms.LinkSnapshot
	uploadSnap forms.UploadSnapshot
	notice     *forms.Notification
	width      int
}

func New(cfg Config) Model {
	urlInput := textinput.New()
	urlInput.Placeholder = "Enter video URL"
	urlInput.Prompt = "› "
	urlInput.CharLimit = 2048
	urlInput.Focus()

	pathInput := textinput.New()
	pathInput.Placeholder = "Path to a video file"
	pathInput.Prompt = "› "

	m := Model{
		ctx:       cfg.context(),
		link:      cfg.LinkForm,
		upload:    cfg.UploadForm,
		bridge:    cfg.Bridge,
		urlInput:  urlInput,
		pathInput: pathInput,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		keys:      defaultKeys(),
		help:      help.New(),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.bridge != nil {
		cmds = append(cmds, m.bridge.listen())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(max(msg.Width-12, 10), 60)
		return m, nil

	case eventMsg:
		m.refresh()
		return m, m.bridge.listen()

	case noticeMsg:
		n := msg.n
		m.notice = &n
		m.refresh()
		return m, m.bridge.listen()

	case submitDoneMsg:
		m.refresh()
		if errors.Is(msg.err, forms.ErrSubmitInProgress) {
			m.setNotice(msg.form, forms.LevelWarning, "A submission is already in progress. Please wait.")
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
			return m, m.toggleFocus()
		case key.Matches(msg, m.keys.Submit):
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focus == focusLink {
		m.urlInput, cmd = m.urlInput.Update(msg)
		m.link.SetURL(m.urlInput.Value())
	} else {
		m.pathInput, cmd = m.pathInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusLink {
		m.focus = focusFile
		m.urlInput.Blur()
		return m.pathInput.Focus()
	}
	m.focus = focusLink
	m.pathInput.Blur()
	return m.urlInput.Focus()
}

// submit runs the focused form off the event loop. The file form starts the
// upload of whatever path is typed, the way picking a file does in a browser.
func (m *Model) submit() tea.Cmd {
	ctx := m.ctx
	if m.focus == focusLink {
		m.link.SetURL(m.urlInput.Value())
		link := m.link
		return func() tea.Msg {
			return submitDoneMsg{form: forms.KindLink, err: link.Submit(ctx)}
		}
	}

	var selected forms.File
	if path := strings.TrimSpace(m.pathInput.Value()); path != "" {
		file, err := forms.OpenLocalFile(path)
		if err != nil {
			m.setNotice(forms.KindFile, forms.LevelError, fmt.Sprintf("Cannot open %s.", path))
			return nil
		}
		selected = file
	}
	// Begin runs on the event loop so a second enter sees the form busy.
	upload, err := m.upload.Begin(selected)
	m.refresh()
	if errors.Is(err, forms.ErrSubmitInProgress) {
		m.setNotice(forms.KindFile, forms.LevelWarning, "A submission is already in progress. Please wait.")
		return nil
	}
	if err != nil {
		return nil
	}

	return func() tea.Msg {
		return submitDoneMsg{form: forms.KindFile, err: upload.Run(ctx)}
	}
}

func (m *Model) setNotice(form forms.Kind, level forms.Level, message string) {
	m.notice = &forms.Notification{Form: form, Level: level, Message: message}
}

func (m *Model) refresh() {
	m.linkSnap = m.link.Snapshot()
	m.uploadSnap = m.upload.Snapshot()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(logoStyle.Render("FLASHKICK"))
	b.WriteString(mutedStyle.Render("  Upload Video"))
	b.WriteString("\n\n")

	b.WriteString(m.pane(m.focus == focusFile, m.uploadView()))
	b.WriteString("\n")
	b.WriteString(m.pane(m.focus == focusLink, m.linkView()))
	b.WriteString("\n")

	if m.notice != nil {
		style := noticeStyles[string(m.notice.Level)]
		b.WriteString(style.Render(m.notice.Message))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) pane(active bool, body string) string {
	if active {
		return paneActiveStyle.Render(body)
	}
	return paneStyle.Render(body)
}

func (m Model) uploadView() string {
	lines := []string{titleStyle.Render("Upload Video File"), m.pathInput.View()}

	if m.uploadSnap.HasFile {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%s (%s)",
			m.uploadSnap.DisplayName, humanize.IBytes(uint64(m.uploadSnap.Size)))))
	}
	if m.uploadSnap.Progress > 0 {
		lines = append(lines, m.bar.ViewAs(float64(m.uploadSnap.Progress)/100))
	}
	if line := statusLine(m.uploadSnap.State); line != "" {
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) linkView() string {
	lines := []string{titleStyle.Render("Upload Video Link"), m.urlInput.View()}
	if line := statusLine(m.linkSnap.State); line != "" {
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func statusLine(s submission.State) string {
	msg := s.Message
	if s.Status == submission.Submitting {
		msg = "Submitting…"
	}
	if msg == "" {
		return ""
	}
	if style, ok := statusStyles[s.Status.String()]; ok {
		return style.Render(msg)
	}
	return msg
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(cfg Config) error {
	defer func() {
		if cfg.Bridge != nil {
			cfg.Bridge.Close()
		}
	}()
	_, err := tea.NewProgram(New(cfg), tea.WithAltScreen(), tea.WithContext(cfg.context())).Run()
	return err
}

func (c Config) context() context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}
