package tui

import (
	"time"

	"github.com/vovakirdan/tui-mapedit/internal/notify"
)

// statusLine shows the latest notification until its TTL runs out.
// Time is measured in seconds since session start, like the scheduler.
type statusLine struct {
	ttl     float64
	now     float64
	level   notify.Level
	text    string
	expires float64
}

func newStatusLine(ttl time.Duration) *statusLine {
	return &statusLine{ttl: ttl.Seconds()}
}

// Notify implements notify.Notifier. A newer message replaces the old one.
func (s *statusLine) Notify(level notify.Level, msg string) {
	s.level = level
	s.text = msg
	s.expires = s.now + s.ttl
}

// advance moves the status clock forward.
func (s *statusLine) advance(elapsed float64) {
	if elapsed > s.now {
		s.now = elapsed
	}
}

// expire clears a message whose time is up and reports whether it did.
func (s *statusLine) expire(elapsed float64) bool {
	if s.text == "" || elapsed < s.expires {
		return false
	}
	s.text = ""
	return true
}

func (s *statusLine) message() (notify.Level, string) {
	return s.level, s.text
}
