package future

// Submission selects how an ExecutorLink hands its continuation's closure to
// an Executor. See spec.md §4.5.
type Submission int

const (
	// Dispatch may run the closure inline, on the thread/goroutine that
	// submitted it, if the executor's policy allows it.
	Dispatch Submission = iota
	// Post always enqueues the closure; it runs on a later goroutine of the
	// executor.
	Post
	// Defer enqueues the closure with a hint that it should run after
	// whatever work is already queued on the executor.
	Defer
)

// Executor is the interface a caller supplies to drive executor-offloaded
// continuations. Dispatch/Post/Defer correspond to the three Submission
// modes; each receives the Allocator that was threaded through the
// ThenExecutor call, so the executor may use it for its own closure storage,
// per spec.md §4.5 and §9 ("allocator propagation").
//
// There is no separate "executor value accessor" in this interface, unlike
// the source this was distilled from: a Go interface value already is the
// stored, passable "executor value" the spec describes, so no extra
// accessor method is needed.
type Executor interface {
	Dispatch(fn func(), alloc Allocator)
	Post(fn func(), alloc Allocator)
	Defer(fn func(), alloc Allocator)
}

// executorLink behaves exactly like an Any-triggered continuationLink,
// except that "apply fn" is replaced by submitting a closure to ex via sub.
// It implements downstreamHook the same way continuationLink does.
type executorLink[P, R any] struct {
	state   *sharedState[R]
	parent  *sharedState[P]
	sub     Submission
	ex      Executor
	alloc   Allocator
	fn      func(P, error) (R, error)
	ranOnce bool
}

func (l *executorLink[P, R]) onParentReadyLocked() {
	l.submitLocked()
}

func (l *executorLink[P, R]) onResultRequestedLocked() {
	// ExecutorLink behaves like Any: delegate the request upward only. The
	// parent's onParentReadyLocked, fired synchronously when the parent
	// finishes, is what triggers the submission.
	l.parent.requestUpstreamLocked()
}

// submitLocked builds the closure and hands it to the configured submission
// mode. It is called with the chain mutex held (as onParentReadyLocked
// always is) and releases it around the hand-off, re-acquiring it before
// returning, so an executor may run the closure inline; the closure itself
// re-acquires the mutex when it runs, on whatever goroutine the executor
// chooses.
func (l *executorLink[P, R]) submitLocked() {
	if l.ranOnce {
		return
	}
	l.ranOnce = true

	parentVal, parentErr := l.parent.consumeLocked()
	// mu is captured by the closure below via l.state, keeping the chain's
	// root mutex alive for as long as the submitted closure might still run,
	// per spec.md §4.5 ("the root mutex is kept alive for the submitted
	// closure via a strong reference captured in the closure").
	state := l.state

	fn := l.fn
	closure := func() {
		// The recover below is scoped to exactly the call to fn, not to the
		// setFinishedResult/setFinishedError call that follows it: those can
		// themselves cascade into a downstream Set-triggered link that
		// deliberately panics (open question O2), and that panic must not be
		// caught here and misattributed to this link. See continuation.go's
		// runLocked/callRecoveredFunc for the same split.
		res, err := callRecoveredFunc(fn, parentVal, parentErr)
		if err != nil {
			_ = state.setFinishedError(err)
			return
		}
		_ = state.setFinishedResult(res)
	}

	mu := l.state.mu
	mu.Unlock()
	defer mu.Lock()

	switch l.sub {
	case Dispatch:
		l.ex.Dispatch(closure, l.alloc)
	case Post:
		l.ex.Post(closure, l.alloc)
	case Defer:
		l.ex.Defer(closure, l.alloc)
	}
}

// ThenExecutor attaches an executor-offloaded continuation to c, consuming
// c, and returns a new Consumer over the continuation's result. sub selects
// how the closure is handed to ex; fn runs on whatever goroutine ex chooses
// to run it on, never on the goroutine that called ThenExecutor itself
// (unless ex's Dispatch implementation chooses to run inline, in which case
// that inline execution happens while publishing the parent's own
// completion, exactly like an Any trigger).
func ThenExecutor[P, R any](c *Consumer[P], sub Submission, ex Executor, fn func(P, error) (R, error), opts ...Option) (Consumer[R], error) {
	if c.state == nil {
		return Consumer[R]{}, ErrNoState
	}
	parent := c.state
	mu := c.mu
	c.state = nil
	c.mu = nil

	cfg := newConfig(opts)
	child := newChildState[R](mu, cfg.alloc)
	link := &executorLink[P, R]{
		state:  child,
		parent: parent,
		sub:    sub,
		ex:     ex,
		alloc:  cfg.alloc,
		fn:     fn,
	}
	child.selfHook = link

	parent.attachDownstream(link)

	return Consumer[R]{state: child, mu: mu}, nil
}
