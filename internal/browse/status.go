package browse

import (
	"sync"

	"github.com/ppiankov/extractlens/internal/session"
)

// StatusLine keeps the most recent session notice for display
type StatusLine struct {
	mu      sync.Mutex
	level   session.Level
	message string
}

// Notify implements session.Notifier
func (s *StatusLine) Notify(level session.Level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
	s.message = message
}

// Current returns the last notice
func (s *StatusLine) Current() (session.Level, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level, s.message
}
