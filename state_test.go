package future

import (
	"errors"
	"testing"
)

func TestSharedState_FinishedOnceValidMonotonic(t *testing.T) {
	s := newRootState[int](DefaultAllocator{})

	s.mu.Lock()
	finished := s.isFinishedLocked()
	valid := s.isValidLocked()
	s.mu.Unlock()
	if finished {
		t.Fatal("new state reports finished")
	}
	if !valid {
		t.Fatal("new state reports invalid")
	}

	if err := s.setFinishedResult(7); err != nil {
		t.Fatal(err)
	}
	if err := s.setFinishedResult(8); !errors.Is(err, ErrPromiseAlreadySatisfied) {
		t.Fatalf("second completion err = %v, want ErrPromiseAlreadySatisfied", err)
	}

	s.mu.Lock()
	v, err := s.consumeLocked()
	s.mu.Unlock()
	if err != nil {
		t.Fatal(err)
	}
	if v != 7 {
		t.Fatalf("consumeLocked() = %d, want 7", v)
	}

	s.mu.Lock()
	valid = s.isValidLocked()
	s.mu.Unlock()
	if valid {
		t.Fatal("state still valid after consumeLocked")
	}
}

func TestSharedState_AttachDownstreamAfterFinishRunsHookSynchronously(t *testing.T) {
	s := newRootState[int](DefaultAllocator{})
	if err := s.setFinishedResult(3); err != nil {
		t.Fatal(err)
	}

	ran := false
	hook := &fnHook{
		onReady: func() { ran = true },
	}
	s.attachDownstream(hook)
	if !ran {
		t.Fatal("attachDownstream on an already-finished state did not run the hook synchronously")
	}
}

func TestSharedState_WaitTimesOut(t *testing.T) {
	s := newRootState[int](DefaultAllocator{})
	status := s.waitFor(0)
	if status != Timeout {
		t.Fatalf("waitFor(0) on unfinished state = %v, want Timeout", status)
	}
}

// fnHook is a minimal downstreamHook for exercising sharedState's hook
// wiring directly, without constructing a full continuationLink.
type fnHook struct {
	onReady     func()
	onRequested func()
}

func (h *fnHook) onParentReadyLocked() {
	if h.onReady != nil {
		h.onReady()
	}
}

func (h *fnHook) onResultRequestedLocked() {
	if h.onRequested != nil {
		h.onRequested()
	}
}
