package httpclient

import (
	"sync"
	"time"

	"github.com/gaborage/go-packsource/auth"
)

// stopwatch measures wall time for one logical call, minus any paused
// stretches. It implements auth.TimingPauser so the auth layer can suspend it
// around credential negotiation, keeping interactive prompt time out of
// Stats.ElapsedTime.
type stopwatch struct {
	mu       sync.Mutex
	start    time.Time
	paused   time.Duration
	pausedAt time.Time
}

// Ensure the stopwatch can be planted into the auth layer
var _ auth.TimingPauser = (*stopwatch)(nil)

func newStopwatch() *stopwatch {
	return &stopwatch{start: time.Now()}
}

// Pause implements auth.TimingPauser.
func (s *stopwatch) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pausedAt.IsZero() {
		s.pausedAt = time.Now()
	}
}

// Resume implements auth.TimingPauser. Unmatched resumes are ignored.
func (s *stopwatch) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pausedAt.IsZero() {
		s.paused += time.Since(s.pausedAt)
		s.pausedAt = time.Time{}
	}
}

// elapsed returns the running total excluding paused time. A pause still in
// progress counts up to now.
func (s *stopwatch) elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := time.Since(s.start) - s.paused
	if !s.pausedAt.IsZero() {
		total -= time.Since(s.pausedAt)
	}
	if total < 0 {
		return 0
	}
	return total
}
