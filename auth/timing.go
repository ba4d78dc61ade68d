package auth

import "context"

// TimingPauser suspends and resumes an external elapsed-time measurement
// around credential negotiation, so time spent in an interactive prompt is
// not charged to network latency. Pause and Resume are always called as a
// matched pair, on every exit path out of a negotiation.
type TimingPauser interface {
	Pause()
	Resume()
}

// nopPauser is used when no pauser is configured.
type nopPauser struct{}

func (nopPauser) Pause()  {}
func (nopPauser) Resume() {}

// pauserKey is the context key for a call-scoped TimingPauser.
type pauserKey struct{}

// WithTimingPauser attaches a call-scoped TimingPauser to the context. It
// takes precedence over a pauser configured on the handler, which lets a
// client exclude prompt time from per-call statistics.
func WithTimingPauser(ctx context.Context, p TimingPauser) context.Context {
	return context.WithValue(ctx, pauserKey{}, p)
}

// timingPauserFromContext returns the call-scoped pauser, if any.
func timingPauserFromContext(ctx context.Context) (TimingPauser, bool) {
	p, ok := ctx.Value(pauserKey{}).(TimingPauser)
	return p, ok
}
