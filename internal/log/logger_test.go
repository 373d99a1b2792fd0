package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{
		Level:     slog.LevelInfo,
		Component: ComponentStorage,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	l.Info("migration applied", "version", 3)

	out := buf.String()
	if !strings.Contains(out, "component=storage") {
		t.Errorf("record missing component attribute: %q", out)
	}
	if !strings.Contains(out, "version=3") {
		t.Errorf("record missing caller attribute: %q", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	amqpLogger := l.WithComponent(ComponentAMQP)
	if amqpLogger.Component() != ComponentAMQP {
		t.Errorf("Component() = %q, want %q", amqpLogger.Component(), ComponentAMQP)
	}
	if l.Component() != ComponentApp {
		t.Errorf("original logger component changed to %q", l.Component())
	}

	amqpLogger.Info("channel opened")
	if !strings.Contains(buf.String(), "component=amqp") {
		t.Errorf("record missing component attribute: %q", buf.String())
	}
}
