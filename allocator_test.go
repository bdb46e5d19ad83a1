package future_test

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cdglove/daily-future"
	"github.com/cdglove/daily-future/internal/execsupport"
)

// countingAllocator wraps a PoolAllocator and counts Get/Put calls, so a
// test can assert the allocator was actually exercised along a real code
// path instead of only being called directly.
type countingAllocator struct {
	mu    sync.Mutex
	inner future.Allocator
	gets  int
	puts  int
}

func (a *countingAllocator) Get() any {
	a.mu.Lock()
	a.gets++
	a.mu.Unlock()
	return a.inner.Get()
}

func (a *countingAllocator) Put(v any) {
	a.mu.Lock()
	a.puts++
	a.mu.Unlock()
	a.inner.Put(v)
}

func (a *countingAllocator) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gets, a.puts
}

func TestPoolAllocator_GetUsesConstructor(t *testing.T) {
	type scratch struct{ buf []byte }

	alloc := future.NewPoolAllocator(func() any {
		return &scratch{buf: make([]byte, 16)}
	})

	v := alloc.Get()
	s, ok := v.(*scratch)
	if !ok {
		t.Fatalf("Get() = %T, want *scratch", v)
	}
	if len(s.buf) != 16 {
		t.Fatalf("len(buf) = %d, want 16", len(s.buf))
	}
	alloc.Put(s)
}

func TestWithAllocator_ThenStillRecoversPanic(t *testing.T) {
	type panicSnapshot struct {
		V any
	}

	p := future.NewProducer[int](future.WithAllocator(future.DefaultAllocator{}))
	c, err := p.TakeConsumer()
	if err != nil {
		t.Fatal(err)
	}
	c1, err := future.Then(&c, future.Any, func(v int, err error) (int, error) {
		panic("boom")
	}, future.WithAllocator(future.DefaultAllocator{}))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetValue(1); err != nil {
		t.Fatal(err)
	}

	_, err = c1.Get()
	if err == nil {
		t.Fatal("expected a stored panic error")
	}
	got := panicSnapshot{}
	if pv, ok := err.(*future.PanicError); ok {
		got.V = pv.V
	} else {
		t.Fatalf("err = %v (%T), want *future.PanicError", err, err)
	}
	want := panicSnapshot{V: "boom"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("panic snapshot mismatch (-want +got):\n%s", diff)
	}
}

// TestAllocator_ExercisedThroughExecutorQueue proves the Allocator threaded
// through ThenExecutor is actually used along a real code path, not just
// called directly by a test: execsupport.Loop's Post/Run path boxes and
// unboxes the submitted closure through exactly this Allocator.
func TestAllocator_ExercisedThroughExecutorQueue(t *testing.T) {
	alloc := &countingAllocator{
		inner: future.NewPoolAllocator(func() any { return new(int) }),
	}

	p := future.NewProducer[int]()
	c, err := p.TakeConsumer()
	if err != nil {
		t.Fatal(err)
	}
	loop := execsupport.NewLoop(nil)
	c1, err := future.ThenExecutor(&c, future.Post, loop, func(v int, err error) (int, error) {
		return v * 2, err
	}, future.WithAllocator(alloc))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetValue(21); err != nil {
		t.Fatal(err)
	}
	loop.Run()

	got, err := c1.Get()
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("Get() = %d, want 42", got)
	}

	gets, puts := alloc.counts()
	if gets == 0 || puts == 0 {
		t.Fatalf("allocator Get/Put calls = (%d, %d), want both > 0", gets, puts)
	}
}
