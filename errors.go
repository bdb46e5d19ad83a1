package future

import (
	"errors"
	"fmt"
)

var (
	// ErrNoState is returned when an operation is attempted on a Producer or
	// Consumer that holds no state, because it is a zero value or because a
	// Consumer was already moved out of (by Get, Then, or ThenExecutor).
	// TakeConsumer does not move out of a Producer.
	ErrNoState = errors.New("future: no state")

	// ErrFutureAlreadyRetrieved is returned by Producer.TakeConsumer when it
	// is called a second time on the same Producer.
	ErrFutureAlreadyRetrieved = errors.New("future: consumer already retrieved")

	// ErrPromiseAlreadySatisfied is returned by SetValue/SetException when the
	// state has already been completed once.
	ErrPromiseAlreadySatisfied = errors.New("future: already satisfied")

	// ErrBrokenPromise is the error a Consumer observes from Get when its
	// Producer was dropped without ever completing the state.
	ErrBrokenPromise = errors.New("future: broken promise")

	// ErrNotImplemented is returned by the at-thread-exit completion stubs.
	// See SetValueAtThreadExit and SetExceptionAtThreadExit.
	ErrNotImplemented = errors.New("future: not implemented")
)

// PanicError wraps a value recovered from a panic that happened inside a
// continuation's user function. It is stored into the continuation's state
// exactly like any other error, and is rethrown from Get as that recovered
// value wrapped in a *PanicError.
type PanicError struct {
	V any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("future: panic in continuation: %v", e.V)
}

func newPanicError(v any) *PanicError {
	return &PanicError{V: v}
}
