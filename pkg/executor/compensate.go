package executor

import "relcore/pkg/logging"

// rollback accumulates compensating actions for a multi-step DDL call.
// It is the explicit-result-type replacement for exceptions-for-rollback
// (see DESIGN NOTES, spec.md §9): each DDL step appends its undo action
// once the step it undoes has actually succeeded, then either disarm() is
// called on the success path or run() fires (via defer) on the error path.
//
// run() is best-effort: a compensating action that itself fails is logged
// and swallowed, so the original error is always what reaches the caller.
type rollback struct {
	armed   bool
	actions []func() error
}

// newRollback returns an armed rollback; callers should `defer rb.run()`
// immediately and `rb.disarm()` once every step has succeeded.
func newRollback() *rollback {
	return &rollback{armed: true}
}

// add appends a compensating action, run in reverse order relative to the
// order actions were added (undo the most recent step first).
func (rb *rollback) add(action func() error) {
	rb.actions = append(rb.actions, action)
}

// disarm marks the rollback as no longer needed; run() becomes a no-op.
func (rb *rollback) disarm() {
	rb.armed = false
}

// run executes every accumulated action in reverse order if the rollback
// is still armed. Failures are logged at Warn and otherwise ignored.
func (rb *rollback) run() {
	if !rb.armed {
		return
	}
	for i := len(rb.actions) - 1; i >= 0; i-- {
		if err := rb.actions[i](); err != nil {
			logging.WithError(err).Warn("compensation step failed")
		}
	}
}
