package httpclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStopwatchExcludesPausedTime(t *testing.T) {
	sw := newStopwatch()
	time.Sleep(10 * time.Millisecond)

	sw.Pause()
	time.Sleep(50 * time.Millisecond)
	sw.Resume()

	elapsed := sw.elapsed()
	assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
	assert.Less(t, elapsed, 50*time.Millisecond)
}

func TestStopwatchInProgressPauseExcluded(t *testing.T) {
	sw := newStopwatch()
	sw.Pause()
	time.Sleep(30 * time.Millisecond)

	// Still paused; the open stretch must not count.
	assert.Less(t, sw.elapsed(), 10*time.Millisecond)
}

func TestStopwatchNestedPauseIsSingle(t *testing.T) {
	sw := newStopwatch()

	sw.Pause()
	sw.Pause()
	time.Sleep(20 * time.Millisecond)
	sw.Resume()

	assert.Less(t, sw.elapsed(), 10*time.Millisecond)
}

func TestStopwatchUnmatchedResumeIgnored(t *testing.T) {
	sw := newStopwatch()
	sw.Resume()
	sw.Resume()

	assert.GreaterOrEqual(t, sw.elapsed(), time.Duration(0))
}

func TestStopwatchNeverNegative(t *testing.T) {
	sw := newStopwatch()
	sw.Pause()
	sw.Resume()
	assert.GreaterOrEqual(t, sw.elapsed(), time.Duration(0))
}
