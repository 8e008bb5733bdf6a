package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClient struct {
	mu    sync.Mutex
	calls int64
	delay time.Duration
	resp  *SearchResponse
	err   error
}

func (f *fakeClient) Search(ctx context.Context, query string, numResults int) (*SearchResponse, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeClient) callCount() int64 {
	return atomic.LoadInt64(&f.calls)
}

func TestServiceCacheHitAvoidsUpstream(t *testing.T) {
	client := &fakeClient{resp: &SearchResponse{TotalResults: 7}}
	svc := NewSearchService(client)
	ctx := context.Background()

	first, err := svc.Search(ctx, "golang", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Search(ctx, "golang", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Fatalf("expected the cached response on the second call")
	}
	if got := client.callCount(); got != 1 {
		t.Fatalf("expected a single upstream call, got %d", got)
	}
}

func TestServiceDifferentCountsAreSeparateEntries(t *testing.T) {
	client := &fakeClient{resp: &SearchResponse{}}
	svc := NewSearchService(client)
	ctx := context.Background()

	if _, err := svc.Search(ctx, "golang", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Search(ctx, "golang", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := client.callCount(); got != 2 {
		t.Fatalf("expected two upstream calls for distinct counts, got %d", got)
	}
	if svc.CacheSize() != 2 {
		t.Fatalf("expected two cache entries, got %d", svc.CacheSize())
	}
}

func TestServiceErrorsAreNotCached(t *testing.T) {
	client := &fakeClient{err: errors.New("upstream down")}
	svc := NewSearchService(client)
	ctx := context.Background()

	if _, err := svc.Search(ctx, "golang", 10); err == nil {
		t.Fatalf("expected error from failing upstream")
	}
	if svc.CacheSize() != 0 {
		t.Fatalf("failed call must not populate the cache")
	}

	// Recovery: the next call hits upstream again and caches the result.
	client.mu.Lock()
	client.err = nil
	client.resp = &SearchResponse{TotalResults: 1}
	client.mu.Unlock()

	if _, err := svc.Search(ctx, "golang", 10); err != nil {
		t.Fatalf("unexpected error after recovery: %v", err)
	}
	if got := client.callCount(); got != 2 {
		t.Fatalf("expected two upstream calls, got %d", got)
	}
	if svc.CacheSize() != 1 {
		t.Fatalf("expected one cache entry after recovery, got %d", svc.CacheSize())
	}
}

func TestServiceClearCacheForcesRefetch(t *testing.T) {
	client := &fakeClient{resp: &SearchResponse{}}
	svc := NewSearchService(client)
	ctx := context.Background()

	if _, err := svc.Search(ctx, "golang", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.ClearCache()
	if svc.CacheSize() != 0 {
		t.Fatalf("expected empty cache after clear")
	}
	if _, err := svc.Search(ctx, "golang", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := client.callCount(); got != 2 {
		t.Fatalf("expected refetch after clear, got %d upstream calls", got)
	}
}

func TestServiceConcurrentIdenticalRequestsShareOneCall(t *testing.T) {
	client := &fakeClient{resp: &SearchResponse{TotalResults: 3}, delay: 50 * time.Millisecond}
	svc := NewSearchService(client)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Search(ctx, "concurrent", 10); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := client.callCount(); got != 1 {
		t.Fatalf("expected concurrent requests to share one upstream call, got %d", got)
	}
}
