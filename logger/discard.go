package logger

import "time"

// Discard returns a LogEvent that drops everything. Components accept a nil
// Logger and fall back to this.
func Discard() LogEvent {
	return discardEvent{}
}

type discardEvent struct{}

func (discardEvent) Msg(string)                        {}
func (discardEvent) Msgf(string, ...any)               {}
func (discardEvent) Err(error) LogEvent                { return discardEvent{} }
func (discardEvent) Str(string, string) LogEvent       { return discardEvent{} }
func (discardEvent) Int(string, int) LogEvent          { return discardEvent{} }
func (discardEvent) Int64(string, int64) LogEvent      { return discardEvent{} }
func (discardEvent) Dur(string, time.Duration) LogEvent { return discardEvent{} }
func (discardEvent) Interface(string, any) LogEvent    { return discardEvent{} }
