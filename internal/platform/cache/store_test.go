package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_SharesConcurrentMisses(t *testing.T) {
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
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	store := NewStore(time.Minute)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "player:list", []int{1, 2})
	if _, ok := store.Get(context.Background(), "player:list"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "player:list"); ok {
		t.Fatalf("expected entry to expire")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "player:list", 1)
	store.Set(ctx, "player:ids:1,2", 2)
	store.Set(ctx, "club:list", 3)

	store.DeletePrefix(ctx, "player:")

	if store.Len() != 1 {
		t.Fatalf("expected one entry left, got %d", store.Len())
	}
	if _, ok := store.Get(ctx, "club:list"); !ok {
		t.Fatalf("unrelated key should survive")
	}
}

func TestLoad_Typed(t *testing.T) {
	store := NewStore(time.Minute)
	ctx := context.Background()

	got, err := Load(ctx, store, "k", func(context.Context) ([]int64, error) {
		return []int64{7, 8}, nil
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected value: %v", got)
	}

	store.Set(ctx, "wrong", "text")
	if _, err := Load(ctx, store, "wrong", func(context.Context) (int, error) { return 0, nil }); err == nil {
		t.Fatalf("expected type mismatch error")
	}

	_, err = Load(ctx, store, "fails", func(context.Context) (int, error) { return 0, errUnexpectedValue })
	if !errors.Is(err, errUnexpectedValue) {
		t.Fatalf("expected loader error, got %v", err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
