package reconcile

import "errors"

// Common errors returned by the reconcile package.
var (
	// ErrPollTimeout is returned when the poll attempt budget is
	// exhausted without observing a result. Dispatch already succeeded at
	// that point, so nothing is rolled back; the provider may still
	// complete later and push a callback. The user must explicitly
	// request regeneration, which routes back through the dispatcher's
	// idempotency check.
	ErrPollTimeout = errors.New("generation timed out")
)
