package future

// Handler is the completion-handler adapter described in spec.md §4.6: it
// exposes a Producer as a completion token for some external asynchronous
// dispatch mechanism. The external protocol calls Complete (or
// CompleteError) with the asynchronous result; AsyncResult extracts the
// Consumer half, bridging the external ecosystem into this package's
// Producer/Consumer pair.
//
// Grounded on the use_future completion-token adapter in
// daily::future (see original_source/include/daily/future/use_future.hpp):
// promise_handler wraps a promise and forwards operator() calls into
// set_value; async_result extracts the corresponding future. Go's lack of
// variadic generics collapses the wrapped Args... tuple into a single type
// parameter T, the same simplification this package makes for the result
// flavors in SharedState itself.
type Handler[T any] struct {
	producer Producer[T]
}

// UseFuture constructs a Handler backed by a fresh Producer[T]. opts are
// forwarded to the underlying Producer (allocator, GC-cleanup behavior).
func UseFuture[T any](opts ...Option) *Handler[T] {
	return &Handler[T]{producer: NewProducer[T](opts...)}
}

// Complete is the entry point the external asynchronous protocol calls with
// the completed value. It forwards to the wrapped Producer's SetValue.
func (h *Handler[T]) Complete(v T) error {
	return h.producer.SetValue(v)
}

// CompleteError forwards err into the wrapped Producer's SetException, for
// protocols that can complete with a failure instead of a value.
func (h *Handler[T]) CompleteError(err error) error {
	return h.producer.SetException(err)
}

// AsyncResult extracts the Consumer half of the wrapped Producer. It may be
// called at most once, mirroring Producer.TakeConsumer.
func (h *Handler[T]) AsyncResult() (Consumer[T], error) {
	return h.producer.TakeConsumer()
}
