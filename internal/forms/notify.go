package forms

import "sync"

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a one-off acknowledgment shown to the user.
type Notification struct {
	Form    Kind
	Level   Level
	Message string
}

// Notifier delivers notifications. It stands in for the blocking alert
// dialog of a browser; implementations must not block for long.
type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// NotificationLog keeps notifications until they are drained. The web UI
// uses it for flash messages.
type NotificationLog struct {
	mu    sync.Mutex
	items []Notification
}

func NewNotificationLog() *NotificationLog {
	return &NotificationLog{}
}

func (l *NotificationLog) Notify(n Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, n)
}

// All returns a copy of the pending notifications.
func (l *NotificationLog) All() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Notification(nil), l.items...)
}

// Drain returns the pending notifications and forgets them.
func (l *NotificationLog) Drain() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := l.items
	l.items = nil
	return items
}
