package future

import "sync"

// Allocator is a storage strategy passed to NewProducer, Then,
// ThenExecutor, NewPackagedTask or UseFuture through WithAllocator: Get
// returns a value (zero-valued, or recycled) ready to be used as scratch
// storage, and Put returns it to the allocator once it is no longer needed.
//
// Shared states and continuation links are allocated normally, never
// through an Allocator; a state only records the one it was built with.
// The Allocator given to ThenExecutor is handed to the Executor with every
// submitted closure, and the executors in internal/execsupport box their
// queued closures with it.
//
// Most callers never need anything but DefaultAllocator. PoolAllocator
// recycles values through a sync.Pool for an Executor that stores its
// submitted closures with it.
type Allocator interface {
	Get() any
	Put(any)
}

// DefaultAllocator performs no pooling: Get always returns nil and Put is a
// no-op. It is the zero-cost default used when no Option overrides it.
type DefaultAllocator struct{}

func (DefaultAllocator) Get() any { return nil }
func (DefaultAllocator) Put(any)  {}

// PoolAllocator recycles values of a single shape through a sync.Pool.
// NewPoolAllocator constructs one backed by the given constructor, which must return a fresh
// zero value each time the pool is empty.
type PoolAllocator struct {
	pool *sync.Pool
}

// NewPoolAllocator builds a PoolAllocator whose backing sync.Pool creates new
// values with new.
func NewPoolAllocator(new func() any) *PoolAllocator {
	return &PoolAllocator{pool: &sync.Pool{New: new}}
}

func (a *PoolAllocator) Get() any {
	return a.pool.Get()
}

func (a *PoolAllocator) Put(v any) {
	a.pool.Put(v)
}
