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

func TestStore_ExpiresAndDeletes(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	store := NewStore(10 * time.Second)
	store.now = func() time.Time { return now }
	store.Set(t.Context(), "fixture:list", 2)
	store.Set(t.Context(), "ruleset:t20", 3)

	store.Delete(t.Context(), "fixture:list")
	if _, ok := store.Get(t.Context(), "fixture:list"); ok {
		t.Fatalf("expected fixture key to be removed")
	}
	if _, ok := store.Get(t.Context(), "ruleset:t20"); !ok {
		t.Fatalf("expected unrelated key to survive")
	}

	now = now.Add(10 * time.Second)
	if _, ok := store.Get(t.Context(), "ruleset:t20"); ok {
		t.Fatalf("expected entry to expire after ttl")
	}
}

func TestStore_ExpiryAndStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	store := NewStore(time.Minute)
	store.now = func() time.Time { return now }

	store.Set(t.Context(), "player:list", []string{"ind-02"})
	now = now.Add(30 * time.Second)
	store.Set(t.Context(), "fixture:list", []string{"m1"})
	store.Get(t.Context(), "player:list")
	store.Get(t.Context(), "missing")

	now = now.Add(45 * time.Second)
	if _, ok := store.Get(t.Context(), "player:list"); ok {
		t.Fatalf("expected player list to expire")
	}

	stats := store.Stats()
	if stats.Hits != 1 || stats.Misses != 2 || stats.Entries != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestStore_GetOrLoad_InvalidationDuringLoadIsNotStored(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	loaded, err := store.GetOrLoad(t.Context(), "player:list", func(ctx context.Context) (any, error) {
		store.Delete(ctx, "player:list")
		return "stale", nil
	})
	if err != nil || loaded != "stale" {
		t.Fatalf("unexpected load: v=%v err=%v", loaded, err)
	}
	if _, ok := store.Get(t.Context(), "player:list"); ok {
		t.Fatalf("value loaded before an invalidation must not be cached")
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("database unavailable")
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(t.Context(), "k", loader); err == nil {
		t.Fatalf("expected first load error")
	}
	v, err := store.GetOrLoad(t.Context(), "k", loader)
	if err != nil || v != "ok" {
		t.Fatalf("unexpected second load: v=%v err=%v", v, err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
