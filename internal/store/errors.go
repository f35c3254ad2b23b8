package store

import (
	"context"
	"errors"
	"net"
)

// Sentinel errors shared by every store implementation.
var (
	// ErrNotFound is returned when a user, author or connection endpoint does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique attribute (email, id) is already taken.
	ErrConflict = errors.New("already exists")

	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("graph store unavailable")

	// ErrInternal is returned when a write completed without the expected result.
	ErrInternal = errors.New("internal store error")

	// ErrSelfConnection is returned when a user is connected to themselves.
	ErrSelfConnection = errors.New("cannot connect a user to themselves")
)

// IsTransient reports whether err looks like a transport failure rather than
// a logical one. Context cancellation is not transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
