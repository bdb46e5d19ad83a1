package future

// config holds the construction-time configuration shared by NewProducer,
// Then, ThenExecutor, and UseFuture. It is never exported directly; callers
// shape it with Option values.
type config struct {
	alloc          Allocator
	disableCleanup bool
}

func newConfig(opts []Option) *config {
	c := &config{alloc: DefaultAllocator{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a Producer, a continuation, or a completion-handler
// adapter at construction time.
type Option func(*config)

// WithAllocator sets the Allocator recorded on the state that NewProducer,
// Then, ThenExecutor, NewPackagedTask or UseFuture builds. Only
// ThenExecutor uses it, handing it to the Executor with each submitted
// closure. A continuation does not inherit the allocator of the state it is
// attached to, and no state is itself allocated through it. The default is
// DefaultAllocator, which does no pooling at all.
func WithAllocator(alloc Allocator) Option {
	return func(c *config) {
		if alloc != nil {
			c.alloc = alloc
		}
	}
}

// WithoutGCCleanup disables the best-effort garbage-collection backstop that
// would otherwise resolve a dropped, never-completed Producer's Consumer with
// ErrBrokenPromise once the Producer becomes unreachable. Use this only when
// Drop is always called explicitly and the extra bookkeeping is unwanted.
func WithoutGCCleanup() Option {
	return func(c *config) {
		c.disableCleanup = true
	}
}
