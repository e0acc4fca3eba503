// Package backend defines the contracts of the persistence backend the
// board treats as a black box: proposal status updates, status history,
// weekly schedule reads and writes. The wire format is the backend's
// business; this package only fixes the operation shapes and error kinds.
package backend

import (
	"errors"
	"fmt"
)

// PermissionError reports that the backend denied an operation for the
// current user or role. Schedule reads degrade to an empty read-only view
// on this error; it must never crash the board.
type PermissionError struct {
	Op     string
	Detail string
}

func (e *PermissionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: permission denied", e.Op)
	}
	return fmt.Sprintf("%s: permission denied: %s", e.Op, e.Detail)
}

// PersistenceError reports that a backend call failed or timed out. A
// committed drag operation that hits this error rolls back by reloading
// the affected containers from the backend.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DesyncWarning marks local and remote state as suspected to differ after
// a partial failure. It is surfaced as a non-blocking notice only; the
// board favors availability over strict consistency here.
type DesyncWarning struct {
	Detail string
}

func (e *DesyncWarning) Error() string {
	return fmt.Sprintf("local state may be out of sync: %s", e.Detail)
}

// IsPermission reports whether err is (or wraps) a PermissionError.
func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
