package future

// Trigger selects when a continuation's function runs relative to its
// parent's completion and to downstream demand. See the table in spec.md
// §4.4, which is the normative definition this type implements.
type Trigger int

const (
	// Any runs the continuation eagerly: as soon as the parent completes,
	// or, if a descendant demands the result first, on that demand instead.
	// Whichever happens first drives exactly one run.
	Any Trigger = iota
	// Set runs the continuation strictly when the parent completes, even if
	// no descendant has demanded the result yet.
	Set
	// Get runs the continuation strictly on downstream demand, however long
	// after the parent completes that demand arrives. If the demand arrives
	// before the parent completes, it runs as soon as the parent completes.
	Get
)

// continuationLink is a SharedState[R] whose value is computed by applying a
// stored function to its parent SharedState[P]'s result. It implements
// downstreamHook and installs itself as its parent's downstream link (for
// Any/Set/Get's ready-hook) and as its own state's selfHook (for Get's
// request-hook, driven by this link's own Consumer calling Wait/Get).
type continuationLink[P, R any] struct {
	state   *sharedState[R]
	parent  *sharedState[P]
	trigger Trigger
	fn      func(P, error) (R, error)
	ranOnce bool
	// requested records a Get-trigger demand that arrived before the
	// parent finished.
	requested bool
}

func (l *continuationLink[P, R]) onParentReadyLocked() {
	switch l.trigger {
	case Any, Set:
		l.runLocked(l.trigger == Set)
	case Get:
		// Parent completion alone runs nothing. Only a demand that already
		// arrived (recorded by onResultRequestedLocked, below, while the
		// parent was unfinished) is served here.
		if l.requested {
			l.runLocked(false)
		}
	}
}

func (l *continuationLink[P, R]) onResultRequestedLocked() {
	switch l.trigger {
	case Any, Set:
		// Delegate the request upward only; never run fn from here. The
		// parent's own onParentReadyLocked (fired synchronously, under this
		// same lock, the moment the parent finishes) is what actually runs
		// fn for these two policies. This sidesteps the latent race in the
		// source this was distilled from, where the analogous "any" path
		// reads the parent's result directly from the request hook without
		// first confirming the parent is finished (see SPEC_FULL.md §4.4).
		l.parent.requestUpstreamLocked()
	case Get:
		l.parent.requestUpstreamLocked()
		if l.parent.finished {
			l.runLocked(false)
		} else {
			l.requested = true
		}
	}
}

// requestUpstreamLocked is called on a parent state, under its own lock
// (shared with the whole chain), to recursively drive any Get-triggered
// continuation further up the chain before this link decides whether it can
// run yet. It must be defined on sharedState, not continuationLink, because
// the parent might itself be a root state with no selfHook at all.
func (s *sharedState[T]) requestUpstreamLocked() {
	if s.selfHook != nil {
		s.selfHook.onResultRequestedLocked()
	}
}

// runLocked applies fn to the parent's (already-finished) result and
// publishes this link's own result. It is called with the chain's shared
// mutex held, and is responsible for unlocking around the call to fn (the
// user callable must always run with the lock released, per spec §5) and
// re-acquiring it before returning or before a panic continues to unwind,
// so that callers' own deferred unlocks remain correct.
//
// noRecover selects the Set-trigger's deliberate non-recovery of a panic
// (open question O2): the panic is allowed to propagate out of runLocked,
// out of the Producer.SetValue call that triggered it, onto the caller's
// own goroutine, instead of being captured into this link's state.
//
// The recover for the Any/Get case is scoped to exactly the call to fn,
// via callRecoveredFunc below, and publish runs outside that scope. publish
// can itself recurse arbitrarily far down the chain (onParentReadyLocked on
// every downstream link), and a descendant Set link further down may be
// the one deliberately left unrecovered; if that panic unwound through a
// recover sitting around this call to publish, it would be caught here
// instead — misattributed to this link as its own PanicError, and leaving
// the real, panicking link's state permanently unfinished.
func (l *continuationLink[P, R]) runLocked(noRecover bool) {
	if l.ranOnce {
		return
	}
	l.ranOnce = true

	parentVal, parentErr := l.parent.consumeLocked()

	mu := l.state.mu
	mu.Unlock()
	defer mu.Lock()

	if noRecover {
		res, err := l.fn(parentVal, parentErr)
		l.publish(res, err)
		return
	}

	res, err := callRecoveredFunc(l.fn, parentVal, parentErr)
	l.publish(res, err)
}

// callRecoveredFunc runs fn and converts a panic into a *PanicError result.
// The recover is scoped to exactly this call, so a caller that goes on to
// publish the result (which may cascade into further downstream hooks) does
// so outside the recover's reach; see runLocked's doc comment above for why
// that separation matters.
func callRecoveredFunc[P, R any](fn func(P, error) (R, error), parentVal P, parentErr error) (res R, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = zeroOf[R]()
			err = newPanicError(r)
		}
	}()
	return fn(parentVal, parentErr)
}

// publish writes this link's own result. It runs with the chain mutex
// unlocked (runLocked released it before calling fn) so it must go through
// the normal locking entry points rather than a *Locked variant.
func (l *continuationLink[P, R]) publish(res R, err error) {
	if err != nil {
		_ = l.state.setFinishedError(err)
		return
	}
	_ = l.state.setFinishedResult(res)
}

func zeroOf[T any]() T {
	var z T
	return z
}

// Then attaches a continuation to c, consuming c, and returns a new Consumer
// over the continuation's result. trigger selects when fn runs relative to
// the parent's completion and to downstream demand, per the Trigger table
// in spec.md §4.4. fn receives the parent's result and error; a non-nil
// parent error is passed through so fn may choose to transform it (the
// activating resolution of open question O1) instead of always short
// circuiting, but the common case of "skip my own logic if the parent
// failed" is just `if err != nil { return zero, err }` at the top of fn.
//
// Then is a free function, not a method on Consumer, because a Go method
// cannot introduce the new type parameter R that the continuation's result
// type needs.
func Then[P, R any](c *Consumer[P], trigger Trigger, fn func(P, error) (R, error), opts ...Option) (Consumer[R], error) {
	if c.state == nil {
		return Consumer[R]{}, ErrNoState
	}
	parent := c.state
	mu := c.mu
	c.state = nil
	c.mu = nil

	cfg := newConfig(opts)
	child := newChildState[R](mu, cfg.alloc)
	link := &continuationLink[P, R]{
		state:   child,
		parent:  parent,
		trigger: trigger,
		fn:      fn,
	}
	child.selfHook = link

	parent.attachDownstream(link)

	return Consumer[R]{state: child, mu: mu}, nil
}

// Flatten collapses a Consumer[Consumer[X]] (the result of a continuation
// whose function itself returned a future) into a Consumer[X], by waiting
// for the outer consumer and forwarding to the inner one. This module does
// not perform this flattening automatically on Then, unlike the source's
// "future-unwrapping" rule (spec.md §9): Go generics cannot conditionally
// specialize a function's return type on "R happens to be Consumer[X] for
// some X", so flattening is opt-in and explicit.
func Flatten[X any](c *Consumer[Consumer[X]]) (Consumer[X], error) {
	outer, err := c.Get()
	if err != nil {
		var zero Consumer[X]
		return zero, err
	}
	return outer, nil
}
