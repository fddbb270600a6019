package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPhone rejects login input that is not a 10-digit number
	// starting with 9. Recoverable; the session state is unchanged.
	ErrInvalidPhone = errors.New("phone number must be 10 digits starting with 9")

	// ErrAgentNotFound means no agent record matches the phone number.
	ErrAgentNotFound = errors.New("no agent registered for this phone number")

	// ErrInvalidTransition means the operation is not legal in the current
	// lifecycle state (e.g. finalizing a closure that was never opened).
	ErrInvalidTransition = errors.New("operation not allowed in current state")
)

// PersistenceError wraps a failed status update. Recoverable: the in-memory
// session state is not advanced and the caller may retry the same action.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }
