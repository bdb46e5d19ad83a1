// Package execsupport provides a minimal, test/demo Executor implementation
// for this module's own test suite and examples. Production executors are
// explicitly a caller concern (spec.md §1's Non-goals list "the external
// executor implementations themselves"); this package exists only so the
// Dispatch/Post/Defer submission modes (future.Submission) have something
// real to run against in tests, in the spirit of
// _examples/b97tsk-async's small, self-contained Executor.
package execsupport

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/cdglove/daily-future"
)

// queuedFunc is the recyclable box a future.Allocator hands back through
// Get/Put whenever an Executor here has to queue a closure instead of
// running it immediately. Boxing the closure in a pooled struct, rather
// than appending the bare func value, is what gives a caller-supplied
// future.PoolAllocator something real to recycle on every Post/Defer call.
type queuedFunc struct {
	fn func()
}

// queuedItem pairs a boxed closure with the Allocator it was acquired from,
// since Put must go back to the same allocator that produced the box.
type queuedItem struct {
	qf    *queuedFunc
	alloc future.Allocator
}

func acquireQueuedFunc(fn func(), alloc future.Allocator) queuedItem {
	if alloc == nil {
		alloc = future.DefaultAllocator{}
	}
	qf, ok := alloc.Get().(*queuedFunc)
	if !ok || qf == nil {
		qf = &queuedFunc{}
	}
	qf.fn = fn
	return queuedItem{qf: qf, alloc: alloc}
}

func (it queuedItem) release() func() {
	fn := it.qf.fn
	it.qf.fn = nil
	it.alloc.Put(it.qf)
	return fn
}

// Loop is a single-threaded, queue-based Executor: Dispatch runs inline
// whenever Run is actively draining the queue on the calling goroutine,
// Post and Defer always enqueue. Run pops and runs queued closures until the
// queue is empty, mirroring _examples/b97tsk-async/executor.go's Run loop.
//
// Loop has no internal locking: Dispatch, Post, Defer and Run must not be
// called concurrently with one another.
type Loop struct {
	log      *zap.Logger
	post     []queuedItem
	deferred []queuedItem
	running  bool
}

// NewLoop constructs a Loop executor. If log is nil, a no-op logger is used.
func NewLoop(log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{log: log}
}

func (l *Loop) Dispatch(fn func(), alloc future.Allocator) {
	item := acquireQueuedFunc(fn, alloc)
	if l.running {
		l.runOne(item)
		return
	}
	l.post = append(l.post, item)
}

func (l *Loop) Post(fn func(), alloc future.Allocator) {
	l.post = append(l.post, acquireQueuedFunc(fn, alloc))
}

func (l *Loop) Defer(fn func(), alloc future.Allocator) {
	l.deferred = append(l.deferred, acquireQueuedFunc(fn, alloc))
}

// Run drains the post queue, then the deferred queue, until both are empty,
// so work enqueued by a running closure (including further Defer calls) is
// picked up before Run returns.
func (l *Loop) Run() {
	l.running = true
	defer func() { l.running = false }()

	for len(l.post) > 0 || len(l.deferred) > 0 {
		for len(l.post) > 0 {
			item := l.post[0]
			l.post = l.post[1:]
			l.runOne(item)
		}
		for len(l.deferred) > 0 {
			item := l.deferred[0]
			l.deferred = l.deferred[1:]
			l.runOne(item)
		}
	}
}

func (l *Loop) runOne(item queuedItem) {
	fn := item.release()
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("execsupport: recovered panic running closure", zap.Any("panic", r))
		}
	}()
	fn()
}

// Pool is a bounded goroutine-pool Executor: Dispatch always runs inline
// (matching the common "dispatch may run inline" policy for a pool that has
// no notion of "currently draining"), while Post and Defer spawn a goroutine
// bounded by a semaphore.Weighted, so a chain that fans out many
// continuations cannot unboundedly grow the number of live goroutines.
//
// Grounded on the bounded-concurrency pattern in
// _examples/cosi-project-runtime's go.mod dependency on golang.org/x/sync,
// generalized here via semaphore.Weighted for a persistent worker pool
// rather than a one-shot errgroup.
type Pool struct {
	log *zap.Logger
	sem *semaphore.Weighted
}

// NewPool constructs a Pool executor that runs at most maxConcurrent
// Post/Defer closures at once. If log is nil, a no-op logger is used.
func NewPool(maxConcurrent int64, log *zap.Logger) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{
		log: log,
		sem: semaphore.NewWeighted(maxConcurrent),
	}
}

func (p *Pool) Dispatch(fn func(), alloc future.Allocator) {
	p.runRecovered(acquireQueuedFunc(fn, alloc).release())
}

func (p *Pool) Post(fn func(), alloc future.Allocator) {
	p.spawn(acquireQueuedFunc(fn, alloc))
}

func (p *Pool) Defer(fn func(), alloc future.Allocator) {
	p.spawn(acquireQueuedFunc(fn, alloc))
}

func (p *Pool) spawn(item queuedItem) {
	if err := p.sem.Acquire(context.Background(), 1); err != nil {
		p.log.Error("execsupport: failed to acquire pool slot", zap.Error(err))
		return
	}
	go func() {
		defer p.sem.Release(1)
		p.runRecovered(item.release())
	}()
}

func (p *Pool) runRecovered(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("execsupport: recovered panic running closure", zap.Any("panic", r))
		}
	}()
	fn()
}
