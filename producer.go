package future

import "runtime"

// Producer is the sole writer into a SharedState. TakeConsumer hands out the
// Consumer once; the Producer stays usable afterwards for SetValue,
// SetException and Drop. Nothing in Producer clears its state, so every
// copy of a Producer value refers to the same state (Go has no move
// checker). Only a zero-value Producer holds no state; its methods return
// ErrNoState instead of panicking.
type Producer[T any] struct {
	state         *sharedState[T]
	consumerTaken bool
	guard         *producerGuard
	cleanup       runtime.Cleanup
	hasCleanup    bool
	dropped       bool
}

// producerGuard is the object runtime.AddCleanup actually tracks the
// reachability of. NewProducer returns Producer[T] by value, so &p inside
// NewProducer's own frame is useless for this purpose — it stops being
// referenced the moment NewProducer returns, regardless of how long the
// caller's copy lives. guard is a heap pointer stored as a field, so every
// copy of the returned Producer[T] carries the same pointer, and the
// cleanup only becomes eligible to fire once every copy is gone.
//
// guard has a non-zero size: every zero-size allocation shares one static
// address that is never freed, so a cleanup attached to it never runs.
// 16 bytes is the smallest pointer-free size that gets an allocation of
// its own rather than sharing a tiny-allocator block with other objects.
type producerGuard struct{ _ [16]byte }

// NewProducer constructs a Producer backed by a fresh root SharedState.
//
// Unless WithoutGCCleanup is passed, NewProducer registers a best-effort
// garbage-collection backstop (via runtime.AddCleanup) that writes
// ErrBrokenPromise into the state if the Producer becomes unreachable
// without ever having been explicitly Drop-ed and without having completed.
// This backstop exists only to avoid a Consumer hanging forever after a
// programming mistake; it fires on the garbage collector's schedule, not
// promptly, and must never be relied upon in place of calling Drop.
func NewProducer[T any](opts ...Option) Producer[T] {
	cfg := newConfig(opts)
	state := newRootState[T](cfg.alloc)
	p := Producer[T]{state: state}
	if !cfg.disableCleanup {
		guard := &producerGuard{}
		p.guard = guard
		p.cleanup = runtime.AddCleanup(guard, brokenPromiseOnDrop[T], state)
		p.hasCleanup = true
	}
	return p
}

// brokenPromiseOnDrop is the cleanup func registered with runtime.AddCleanup.
// It must not capture the Producer itself (runtime.AddCleanup requires the
// cleanup argument to not reference the object being tracked), only the
// state and whatever bookkeeping is needed to decide whether to act.
func brokenPromiseOnDrop[T any](state *sharedState[T]) {
	state.mu.Lock()
	finished := state.finished
	hasConsumer := state.consumerTaken
	state.mu.Unlock()
	if !finished && hasConsumer {
		_ = state.setFinishedError(ErrBrokenPromise)
	}
}

// TakeConsumer returns the Consumer endpoint for this Producer's state. It
// may be called at most once per Producer: a second call returns
// ErrFutureAlreadyRetrieved. Calling it on a zero-value Producer returns
// ErrNoState.
func (p *Producer[T]) TakeConsumer() (Consumer[T], error) {
	if p.state == nil {
		return Consumer[T]{}, ErrNoState
	}
	if p.consumerTaken {
		return Consumer[T]{}, ErrFutureAlreadyRetrieved
	}
	p.consumerTaken = true
	p.state.mu.Lock()
	p.state.consumerTaken = true
	p.state.mu.Unlock()
	return Consumer[T]{state: p.state, mu: p.state.mu}, nil
}

// SetValue completes the state with v. It fails with
// ErrPromiseAlreadySatisfied if the state was already finished, and with
// ErrNoState on a zero-value Producer.
//
// If a Set-triggered continuation is attached downstream, its function runs
// synchronously inside this call, on this goroutine, before SetValue
// returns. If that function panics, the panic is not captured: it propagates
// out of SetValue on the caller's own goroutine, matching the source's
// requirement that such a failure is observed on the producer's thread, not
// silently turned into a stored error for a later Get (see DESIGN.md, open
// question O2). An Any-triggered continuation's panic, by contrast, is
// captured into the continuation's own state as a *PanicError.
func (p *Producer[T]) SetValue(v T) error {
	if p.state == nil {
		return ErrNoState
	}
	return p.state.setFinishedResult(v)
}

// SetException completes the state with err as the stored failure. The same
// synchronous-execution and panic-propagation behavior documented on
// SetValue applies here.
func (p *Producer[T]) SetException(err error) error {
	if p.state == nil {
		return ErrNoState
	}
	return p.state.setFinishedError(err)
}

// SetValueAtThreadExit and SetExceptionAtThreadExit correspond to a
// thread-local "complete when the current thread/goroutine exits" mode that
// the original design left stubbed out (an unconditional assertion
// failure). Go's goroutines have no equivalent well-defined "thread exit"
// hook a library can register into, so these remain named, documented stubs
// rather than a real implementation; see spec.md open question O3.
func (p *Producer[T]) SetValueAtThreadExit(T) error {
	return ErrNotImplemented
}

func (p *Producer[T]) SetExceptionAtThreadExit(error) error {
	return ErrNotImplemented
}

// Drop explicitly releases this Producer. If a Consumer was taken and the
// state never finished, it completes the state with ErrBrokenPromise. Drop
// is idempotent and safe to call on a moved-from or zero-value Producer.
// Calling Drop cancels the best-effort garbage-collection backstop, so it
// never double-writes a broken-promise completion.
func (p *Producer[T]) Drop() {
	if p.state == nil || p.dropped {
		return
	}
	p.dropped = true
	if p.hasCleanup {
		p.cleanup.Stop()
	}
	p.state.mu.Lock()
	finished := p.state.finished
	p.state.mu.Unlock()
	if p.consumerTaken && !finished {
		_ = p.state.setFinishedError(ErrBrokenPromise)
	}
}
