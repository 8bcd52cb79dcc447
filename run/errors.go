package run

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAction is returned when a request names an action that was
	// never registered in the catalog. No record is created for it.
	ErrUnknownAction = errors.New("unknown action")

	// ErrPolicyBlocked is returned when the rule engine forbids the
	// action. Execution is never attempted.
	ErrPolicyBlocked = errors.New("blocked by policy")

	// ErrConfirmationDenied is returned when the approver denies the
	// action while it waits on its confirmation ticket.
	ErrConfirmationDenied = errors.New("confirmation denied")

	// ErrConfirmationTimeout is returned when the confirmation wait
	// expires. It wraps ErrConfirmationDenied: a timeout is observably a
	// denial, the record's TimedOut flag is what tells them apart.
	ErrConfirmationTimeout = fmt.Errorf("%w: confirmation timed out", ErrConfirmationDenied)

	// ErrNoTicket is returned by Confirm/Deny for an invocation id the
	// coordinator has never seen.
	ErrNoTicket = errors.New("no confirmation ticket")
)

// HandlerError wraps a failure of the action handler itself. Policy and
// safety were satisfied; the action ran and failed.
type HandlerError struct {
	Action string
	Err    error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler for %q failed: %v", e.Action, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }
