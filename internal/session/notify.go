package session

import (
	"context"
	"log/slog"
)

// Level classifies a user-visible notice
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows short messages to the user
type Notifier interface {
	Notify(level Level, message string)
}

// LogNotifier writes notices to a structured logger
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier backed by logger
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the notice at a level matching its severity
func (n *LogNotifier) Notify(level Level, message string) {
	lvl := slog.LevelInfo
	if level == LevelError {
		lvl = slog.LevelError
	}
	n.logger.Log(context.Background(), lvl, "session.notice", "level", string(level), "message", message)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(level Level, message string)

// Notify calls f
func (f NotifierFunc) Notify(level Level, message string) {
	f(level, message)
}
