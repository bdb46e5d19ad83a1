package future

// PackagedTask is a thin composition of a stored callable and a Producer,
// per spec.md §4.7: calling it applies the callable and sets the producer's
// value (or exception, if the callable returns one); GetConsumer returns
// the producer's consumer. It is not algorithmically interesting on its own
// — it exists to let a callable be handed off to something that will invoke
// it later (an executor, a goroutine, a queue) while the caller holds onto a
// Consumer for the eventual result.
//
// Grounded on daily::future's packaged_task
// (original_source/include/daily/future/future.hpp), which stores a
// std::function<Result(Args...)> plus a promise<Result> and calls
// promise_.set_value(func_(args...)) from operator(). Go has no variadic
// generic parameter packs, so Args... collapses into whatever the caller
// closed over when constructing fn — the same simplification applied to the
// completion-handler adapter in use_future.go.
type PackagedTask[T any] struct {
	fn       func() (T, error)
	producer Producer[T]
	ran      bool
}

// NewPackagedTask wraps fn, which computes the task's eventual result.
func NewPackagedTask[T any](fn func() (T, error), opts ...Option) *PackagedTask[T] {
	return &PackagedTask[T]{
		fn:       fn,
		producer: NewProducer[T](opts...),
	}
}

// Run calls the wrapped function and publishes its result into the
// underlying Producer. It must be called at most once; a second call is a
// no-op (mirroring set_value's "already satisfied" precondition, but
// surfaced as a silent no-op here rather than an error, since a
// PackagedTask is typically handed to exactly one runner).
func (t *PackagedTask[T]) Run() {
	if t.ran {
		return
	}
	t.ran = true

	res, err := t.fn()
	if err != nil {
		_ = t.producer.SetException(err)
		return
	}
	_ = t.producer.SetValue(res)
}

// GetConsumer returns the Consumer half of the underlying Producer. It may
// be called at most once, mirroring Producer.TakeConsumer, and may be
// called before or after Run.
func (t *PackagedTask[T]) GetConsumer() (Consumer[T], error) {
	return t.producer.TakeConsumer()
}
