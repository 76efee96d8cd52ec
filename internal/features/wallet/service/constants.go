package service

import "time"

const (
	// closeResetDelay postpones clearing a closed session so the client's
	// close transition finishes before state disappears under it.
	closeResetDelay = 500 * time.Millisecond

	// submitTimeout bounds the asynchronous submission so a hung store
	// cannot pin a session in processing forever.
	submitTimeout = 10 * time.Second

	// Abandoned sessions are swept after this much inactivity.
	sessionIdleTTL = 30 * time.Minute
	sweepInterval  = 5 * time.Minute
)

// Inline validation messages shown in the amount field, in the order the
// checks run. These are recoverable; the session stays on the input step.
const (
	msgInvalidAmount       = "invalid amount"
	msgInsufficientBalance = "insufficient balance"
	msgBelowMinimum        = "below minimum"
	msgSubmissionFailed    = "submission failed, please retry"
)
