package future_test

import (
	"errors"
	"testing"

	"github.com/cdglove/daily-future"
)

func TestPackagedTask_RunPublishesResult(t *testing.T) {
	task := future.NewPackagedTask(func() (int, error) {
		return 6 * 7, nil
	})
	c, err := task.GetConsumer()
	if err != nil {
		t.Fatal(err)
	}
	task.Run()
	got, err := c.Get()
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("Get() = %d, want 42", got)
	}
}

func TestPackagedTask_RunPublishesError(t *testing.T) {
	wantErr := errors.New("task failed")
	task := future.NewPackagedTask(func() (int, error) {
		return 0, wantErr
	})
	c, err := task.GetConsumer()
	if err != nil {
		t.Fatal(err)
	}
	task.Run()
	_, err = c.Get()
	if !errors.Is(err, wantErr) {
		t.Fatalf("Get() err = %v, want %v", err, wantErr)
	}
}

func TestPackagedTask_RunIsIdempotent(t *testing.T) {
	calls := 0
	task := future.NewPackagedTask(func() (int, error) {
		calls++
		return calls, nil
	})
	c, err := task.GetConsumer()
	if err != nil {
		t.Fatal(err)
	}
	task.Run()
	task.Run()
	got, err := c.Get()
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Fatalf("Get() = %d, want 1 (fn should run exactly once)", got)
	}
	if calls != 1 {
		t.Fatalf("fn ran %d times, want 1", calls)
	}
}
