// Package ledger holds the domain rules shared by the approval, bidding,
// and collection workflows.
package ledger

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError marks a missing or malformed field in a request. The
// caller surfaces it inline at the field; retrying without fixing the
// input will fail again.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvalidStateError means the entity is no longer in the status the
// operation requires. The client's view is stale and must refresh.
type InvalidStateError struct {
	Entity  string
	ID      string
	Current string
	Wanted  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s is %s, expected %s", e.Entity, e.ID, e.Current, e.Wanted)
}

// ConflictError means another actor won the race, e.g. a bid already
// exists on the request.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// RemoteError wraps a failure of an external collaborator (store,
// notifier, payment provider). No partial state was committed locally,
// so the operation is safe to retry.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func NewRemoteError(op string, err error) *RemoteError {
	return &RemoteError{Op: op, Err: err}
}

// IsRetryable reports whether err is worth retrying. Only remote
// failures qualify; validation and state errors will not heal on retry.
func IsRetryable(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote)
}
