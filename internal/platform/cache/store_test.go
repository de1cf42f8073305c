package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_DeletePrefixDuringLoadSkipsStaleWrite(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	loading := make(chan struct{})
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.GetOrLoad(context.Background(), "fixture:list:a", func(context.Context) (any, error) {
			close(loading)
			<-release
			return "stale", nil
		})
	}()

	<-loading
	store.DeletePrefix(context.Background(), "fixture:")
	close(release)
	<-done

	if _, ok := store.Get(context.Background(), "fixture:list:a"); ok {
		t.Fatalf("expected value loaded before invalidation to be dropped")
	}
}

func TestStore_GetOrLoad_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	loading := make(chan struct{})
	release := make(chan struct{})
	loader := func(ctx context.Context) (any, error) {
		close(loading)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return "fixtures", nil
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := store.GetOrLoad(firstCtx, "fixture:list:a", loader)
		firstErr <- err
	}()
	<-loading

	type result struct {
		value any
		err   error
	}
	second := make(chan result, 1)
	go func() {
		value, err := store.GetOrLoad(context.Background(), "fixture:list:a", loader)
		second <- result{value: value, err: err}
	}()

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled caller to stop waiting, got %v", err)
	}

	close(release)
	got := <-second
	if got.err != nil {
		t.Fatalf("expected shared load to succeed, got %v", got.err)
	}
	if got.value != "fixtures" {
		t.Fatalf("unexpected value: %v", got.value)
	}
	if cached, ok := store.Get(context.Background(), "fixture:list:a"); !ok || cached != "fixtures" {
		t.Fatalf("expected loaded value to be cached, got %v (%t)", cached, ok)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(0)
	store.Set(ctx, "fixture:id:F1", 1)
	store.Set(ctx, "fixture:list:", 2)
	store.Set(ctx, "other:key", 3)

	store.DeletePrefix(ctx, "fixture:")

	if got := store.Len(); got != 1 {
		t.Fatalf("expected 1 entry left, got %d", got)
	}
	if _, ok := store.Get(ctx, "other:key"); !ok {
		t.Fatalf("expected unrelated key to survive")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
