package future

import (
	"sync"
	"time"
)

// Consumer is the sole reader of a SharedState. It is move-only: Get,
// Then, and ThenExecutor each consume the Consumer passed to them (by
// pointer), leaving it holding no state; any later call on the same
// variable returns ErrNoState. Consumer must never be copied once it has
// been handed to Then/ThenExecutor/Get.
type Consumer[T any] struct {
	state *sharedState[T]
	// mu is the same root mutex as state.mu; kept as its own field because
	// the spec models it as a reference a Consumer owns independently of
	// the state it points into (spec §3: "A Consumer's state reference and
	// mutex reference refer to the same logical chain").
	mu *sync.Mutex
}

// Get extracts the result from the state, blocking until it is finished if
// necessary. Per spec §4.3, Get first drives any Get-triggered continuation
// on this very state (via the same request mechanism Wait uses), then
// blocks for completion, then consumes the result and invalidates the
// Consumer. A second call, or a call on a moved-from Consumer, returns
// ErrNoState.
func (c *Consumer[T]) Get() (T, error) {
	var zero T
	if c.state == nil {
		return zero, ErrNoState
	}
	state := c.state
	c.state = nil
	c.mu = nil

	state.wait()
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.consumeLocked()
}

// Valid reports whether this Consumer still holds a state whose result has
// not yet been extracted. A moved-from Consumer, and a Consumer whose Get
// already returned, are both invalid.
func (c *Consumer[T]) Valid() bool {
	if c.state == nil {
		return false
	}
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	return c.state.isValidLocked()
}

// Wait blocks until the state is finished. It drives any Get-triggered
// continuation on this state first, exactly like Get, but does not extract
// or invalidate the result.
func (c *Consumer[T]) Wait() error {
	if c.state == nil {
		return ErrNoState
	}
	c.state.wait()
	return nil
}

// WaitFor blocks until the state is finished or d elapses.
func (c *Consumer[T]) WaitFor(d time.Duration) (WaitStatus, error) {
	if c.state == nil {
		return Timeout, ErrNoState
	}
	return c.state.waitFor(d), nil
}

// WaitUntil blocks until the state is finished or t passes.
func (c *Consumer[T]) WaitUntil(t time.Time) (WaitStatus, error) {
	if c.state == nil {
		return Timeout, ErrNoState
	}
	return c.state.waitUntil(t), nil
}
