// Package notify is the user-visible notification surface: the dashboard
// shows store failures as dismissible toasts and import failures as
// blocking alerts, and the aggregator reports through this interface
// instead of owning any presentation.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notifier receives user-facing notifications. Implementations must be
// safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, severity Severity, title, message string)
}

// LogNotifier writes notifications to the structured log. It is the
// default sink when no UI channel is attached.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, severity Severity, title, message string) {
	if severity == SeverityError {
		slog.ErrorContext(ctx, "User notification", "title", title, "message", message)
		return
	}
	slog.InfoContext(ctx, "User notification", "title", title, "message", message)
}

// Notification is one recorded notification.
type Notification struct {
	Severity Severity
	Title    string
	Message  string
}

// Recorder collects notifications for inspection in tests.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Notify(_ context.Context, severity Severity, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Notification{Severity: severity, Title: title, Message: message})
}

// All returns a copy of every notification recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

// Errors returns only the error-severity notifications.
func (r *Recorder) Errors() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Notification
	for _, n := range r.sent {
		if n.Severity == SeverityError {
			out = append(out, n)
		}
	}
	return out
}
