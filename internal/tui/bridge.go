package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flashkick/flashkick-agent/internal/forms"
)

type eventMsg struct{ ev forms.Event }

type noticeMsg struct{ n forms.Notification }

// Bridge carries form events and notifications into the Bubble Tea program.
// Register it as both Observer and Notifier of the forms the Model drives.
type Bridge struct {
	ch        chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
}

func NewBridge() *Bridge {
	return &Bridge{
		ch:   make(chan tea.Msg, 64),
		done: make(chan struct{}),
	}
}

// OnEvent drops the event when the program is behind. Every message makes the
// model re-read the form snapshots, so a later event carries the same state.
func (b *Bridge) OnEvent(ev forms.Event) {
	select {
	case b.ch <- eventMsg{ev: ev}:
	default:
	}
}

func (b *Bridge) Notify(n forms.Notification) {
	select {
	case b.ch <- noticeMsg{n: n}:
	case <-b.done:
	}
}

// Close releases senders and the pending listen command.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

func (b *Bridge) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.ch:
			return msg
		case <-b.done:
			return nil
		}
	}
}
