package stream_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/conduit/stream"
)

func TestFromSliceCollect(t *testing.T) {
	it := stream.FromSlice([]any{1, 2, 3})
	got, err := stream.Collect(context.Background(), it)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestEmpty(t *testing.T) {
	got, err := stream.Collect(context.Background(), stream.Empty())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no items, got %v", got)
	}
}

func TestSingleFirst(t *testing.T) {
	v, ok, err := stream.First(context.Background(), stream.Single("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != "x" {
		t.Fatalf("expected x, got %v ok=%v", v, ok)
	}
}

func TestFuncLaziness(t *testing.T) {
	calls := 0
	it := stream.Func(func(_ context.Context) (any, bool, error) {
		calls++
		return calls, true, nil
	}, nil)

	if calls != 0 {
		t.Fatalf("expected no work before first pull, got %d calls", calls)
	}
	if _, _, err := it.Next(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one call, got %d", calls)
	}
}

func TestFuncLatchesAfterExhaustion(t *testing.T) {
	yielded := false
	it := stream.Func(func(_ context.Context) (any, bool, error) {
		if yielded {
			return nil, false, nil
		}
		yielded = true
		return 1, true, nil
	}, nil)

	ctx := context.Background()
	if _, ok, _ := it.Next(ctx); !ok {
		t.Fatal("expected first item")
	}
	if _, ok, _ := it.Next(ctx); ok {
		t.Fatal("expected exhaustion")
	}
	// Exhausted iterators stay exhausted.
	if _, ok, _ := it.Next(ctx); ok {
		t.Fatal("expected exhaustion to latch")
	}
}

func TestFuncContextCancel(t *testing.T) {
	it := stream.Func(func(_ context.Context) (any, bool, error) {
		return 1, true, nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := it.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestDrainPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	it := stream.Func(func(_ context.Context) (any, bool, error) {
		return nil, false, boom
	}, nil)

	err := stream.Drain(context.Background(), it, func(context.Context, any) error { return nil })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestFuncCloser(t *testing.T) {
	closed := false
	it := stream.Func(func(_ context.Context) (any, bool, error) {
		return nil, false, nil
	}, func() error {
		closed = true
		return nil
	})

	if _, err := stream.Collect(context.Background(), it); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !closed {
		t.Fatal("expected closer to run")
	}
}
