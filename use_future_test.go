package future_test

import (
	"errors"
	"testing"

	"github.com/cdglove/daily-future"
)

func TestHandler_CompleteThenAsyncResult(t *testing.T) {
	h := future.UseFuture[string]()
	c, err := h.AsyncResult()
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Complete("hello"); err != nil {
		t.Fatal(err)
	}
	got, err := c.Get()
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Fatalf("Get() = %q, want %q", got, "hello")
	}
}

func TestHandler_CompleteError(t *testing.T) {
	wantErr := errors.New("dispatch failed")
	h := future.UseFuture[int]()
	c, err := h.AsyncResult()
	if err != nil {
		t.Fatal(err)
	}
	if err := h.CompleteError(wantErr); err != nil {
		t.Fatal(err)
	}
	_, err = c.Get()
	if !errors.Is(err, wantErr) {
		t.Fatalf("Get() err = %v, want %v", err, wantErr)
	}
}
