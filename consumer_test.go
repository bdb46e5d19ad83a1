package future_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cdglove/daily-future"
)

func TestConsumer_WaitForTimesOutThenSucceeds(t *testing.T) {
	p := future.NewProducer[int]()
	c, err := p.TakeConsumer()
	if err != nil {
		t.Fatal(err)
	}

	status, err := c.WaitFor(10 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if status != future.Timeout {
		t.Fatalf("WaitFor before completion = %v, want Timeout", status)
	}

	if err := p.SetValue(9); err != nil {
		t.Fatal(err)
	}

	status, err = c.WaitFor(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if status != future.Ready {
		t.Fatalf("WaitFor after completion = %v, want Ready", status)
	}

	got, err := c.Get()
	if err != nil {
		t.Fatal(err)
	}
	if got != 9 {
		t.Fatalf("Get() = %d, want 9", got)
	}
}

func TestConsumer_GetTwiceFailsOnSecondCall(t *testing.T) {
	p := future.NewProducer[int]()
	c, err := p.TakeConsumer()
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetValue(1); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(); !errors.Is(err, future.ErrNoState) {
		t.Fatalf("second Get() err = %v, want ErrNoState", err)
	}
}
