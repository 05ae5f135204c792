package dataflow

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

func TestMap(t *testing.T) {
	ctx := context.Background()

	in := From(ctx, 1, 2, 3, 4)
	out := Map(ctx, in, func(i int) (int, error) { return i * 10, nil })

	got := Collect(ctx, out)
	sort.Ints(got)
	want := []int{10, 20, 30, 40}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}

func TestMapDropsFailedItems(t *testing.T) {
	ctx := context.Background()

	in := From(ctx, 1, 2, 3)
	out := Map(ctx, in, func(i int) (int, error) {
		if i == 2 {
			return 0, errors.New("boom")
		}
		return i, nil
	})

	got := Collect(ctx, out)
	if len(got) != 2 {
		t.Fatalf("expected failing item to be dropped, got %v", got)
	}
}

func TestMapWithWorkers(t *testing.T) {
	ctx := context.Background()

	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}
	in := From(ctx, items...)
	out := Map(ctx, in, func(i int) (int, error) { return i, nil }, WithWorkers(8))

	got := Collect(ctx, out)
	if len(got) != 100 {
		t.Fatalf("expected 100 items, got %d", len(got))
	}
}

func TestMapRetry(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	in := From(ctx, 1)
	out := Map(ctx, in, func(i int) (int, error) {
		attempts++
		if attempts < 3 {
			return 0, errors.New("transient")
		}
		return i, nil
	}, WithRetry(3, func(int) time.Duration { return time.Millisecond }))

	got := Collect(ctx, out)
	if len(got) != 1 {
		t.Fatalf("expected item to survive after retries, got %v", got)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestFilter(t *testing.T) {
	ctx := context.Background()

	in := From(ctx, 1, 2, 3, 4, 5, 6)
	out := Filter(ctx, in, func(i int) bool { return i%2 == 0 })

	got := Collect(ctx, out)
	sort.Ints(got)
	if len(got) != 3 || got[0] != 2 || got[2] != 6 {
		t.Errorf("expected [2 4 6], got %v", got)
	}
}

func TestForEachReturnsFirstError(t *testing.T) {
	ctx := context.Background()

	in := From(ctx, 1, 2, 3)
	err := ForEach(ctx, in, func(i int) error {
		if i == 2 {
			return errors.New("fail on 2")
		}
		return nil
	})
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestForEachHandledErrorsAreSwallowed(t *testing.T) {
	ctx := context.Background()

	in := From(ctx, 1, 2, 3)
	err := ForEach(ctx, in, func(i int) error {
		return errors.New("always")
	}, WithErrorHandler(func(error) bool { return true }))
	if err != nil {
		t.Fatalf("expected handled errors to be swallowed, got %v", err)
	}
}

func TestFanIn(t *testing.T) {
	ctx := context.Background()

	a := From(ctx, 1, 2)
	b := From(ctx, 3, 4)
	merged := Collect(ctx, FanIn(ctx, a, b))
	if len(merged) != 4 {
		t.Fatalf("expected 4 items, got %d", len(merged))
	}
}

func TestMapCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := From(ctx, 1, 2, 3)
	out := Map(ctx, in, func(i int) (int, error) { return i, nil })

	// Drain whatever made it through; must terminate promptly.
	done := make(chan struct{})
	go func() {
		Collect(context.Background(), out)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not terminate after cancellation")
	}
}
