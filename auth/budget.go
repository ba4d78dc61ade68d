package auth

import "sync/atomic"

// DefaultRetryCeiling is the default handler-lifetime maximum number of
// credential negotiation attempts.
const DefaultRetryCeiling = 3

// attemptBudget is a saturating counter shared by every request a handler
// serves. Decrements use compare-and-swap with a floor at zero so concurrent
// requests cannot collectively overshoot the ceiling, and the hot path stays
// lock-free.
type attemptBudget struct {
	remaining atomic.Int64
}

func newAttemptBudget(ceiling int64) *attemptBudget {
	b := &attemptBudget{}
	b.remaining.Store(ceiling)
	return b
}

// tryAcquire consumes one attempt. It returns false when the budget is
// exhausted. A successful acquire is permanent; there is no release.
func (b *attemptBudget) tryAcquire() bool {
	for {
		cur := b.remaining.Load()
		if cur <= 0 {
			return false
		}
		if b.remaining.CompareAndSwap(cur, cur-1) {
			return true
		}
	}
}

// left returns the number of attempts still available.
func (b *attemptBudget) left() int64 {
	return b.remaining.Load()
}
