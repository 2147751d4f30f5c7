package search

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overpass/internal/domain"
	"overpass/internal/eventbus"
	"overpass/internal/query"
)

type fakeClient struct {
	searches   atomic.Int32
	productGet atomic.Int32

	searchFn func(q *query.DerivedQuery) ([]domain.Opportunity, error)
	products []domain.Product
	prodErr  error
}

func (f *fakeClient) SearchOpportunities(ctx context.Context, q *query.DerivedQuery) ([]domain.Opportunity, error) {
	f.searches.Add(1)
	if f.searchFn != nil {
		return f.searchFn(q)
	}
	return []domain.Opportunity{{ID: "opp-1"}}, nil
}

func (f *fakeClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	f.productGet.Add(1)
	return f.products, f.prodErr
}

func selectionWith(bbox *domain.BoundingBox) domain.SearchSelection {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.SearchSelection{
		DateRange: domain.DateRange{Start: start, End: start.AddDate(0, 0, 7)},
		BBox:      bbox,
	}
}

func TestStartFetchesProductsButNotOpportunities(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	fc := &fakeClient{products: []domain.Product{{ID: "standard-scene"}}}
	svc := NewService(bus, fc)
	svc.Start(context.Background())

	require.Eventually(t, func() bool {
		r := svc.Products()
		return !r.Loading && r.Err == nil && len(r.Data) == 1
	}, time.Second, 5*time.Millisecond)

	// No bbox has ever been chosen, so no search may have fired
	assert.Equal(t, int32(0), fc.searches.Load())
	assert.Equal(t, int32(1), fc.productGet.Load())
}

func TestSearchSuppressedWithoutBBox(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	fc := &fakeClient{}
	svc := NewService(bus, fc)

	svc.Search(selectionWith(nil))

	assert.Equal(t, int32(0), fc.searches.Load())
	assert.False(t, svc.Opportunities().Loading)
}

func TestSearchDispatchesWithBBox(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	var gotQuery *query.DerivedQuery
	fc := &fakeClient{searchFn: func(q *query.DerivedQuery) ([]domain.Opportunity, error) {
		gotQuery = q
		return []domain.Opportunity{{ID: "opp-1"}}, nil
	}}
	svc := NewService(bus, fc)

	bbox, err := domain.NewBoundingBox([]float64{10, 20, 30, 40})
	require.NoError(t, err)
	svc.Search(selectionWith(&bbox))

	require.Eventually(t, func() bool {
		r := svc.Opportunities()
		return !r.Loading && len(r.Data) == 1
	}, time.Second, 5*time.Millisecond)

	require.NotNil(t, gotQuery)
	assert.Equal(t, [4]float64{10, 20, 30, 40}, gotQuery.BBox)
	assert.Equal(t, "2024-01-01T00:00:00Z/2024-01-08T00:00:00Z", gotQuery.Datetime)
}

func TestRepeatedIdenticalSelectionSearchesOnce(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	fc := &fakeClient{}
	svc := NewService(bus, fc)

	bbox, err := domain.NewBoundingBox([]float64{10, 20, 30, 40})
	require.NoError(t, err)
	sel := selectionWith(&bbox)

	svc.Search(sel)
	svc.Search(sel)

	require.Eventually(t, func() bool {
		return !svc.Opportunities().Loading
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), fc.searches.Load())
}

func TestForceSearchBypassesDedupe(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	fc := &fakeClient{}
	svc := NewService(bus, fc)

	bbox, err := domain.NewBoundingBox([]float64{10, 20, 30, 40})
	require.NoError(t, err)
	sel := selectionWith(&bbox)

	svc.Search(sel)
	svc.ForceSearch(sel)

	require.Eventually(t, func() bool {
		return fc.searches.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestStaleResponseIsDropped(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	release := make(chan struct{})
	fc := &fakeClient{searchFn: func(q *query.DerivedQuery) ([]domain.Opportunity, error) {
		if q.BBox[0] == 0 {
			<-release // first search hangs until told otherwise
			return []domain.Opportunity{{ID: "stale"}}, nil
		}
		return []domain.Opportunity{{ID: "fresh"}}, nil
	}}
	svc := NewService(bus, fc)

	slow, err := domain.NewBoundingBox([]float64{0, 0, 1, 1})
	require.NoError(t, err)
	fast, err := domain.NewBoundingBox([]float64{10, 20, 30, 40})
	require.NoError(t, err)

	svc.Search(selectionWith(&slow))
	svc.Search(selectionWith(&fast))

	require.Eventually(t, func() bool {
		r := svc.Opportunities()
		return len(r.Data) == 1 && r.Data[0].ID == "fresh"
	}, time.Second, 5*time.Millisecond)

	close(release)
	time.Sleep(50 * time.Millisecond)

	r := svc.Opportunities()
	require.Len(t, r.Data, 1)
	assert.Equal(t, "fresh", r.Data[0].ID, "late first response must not overwrite the newer result")
}

func TestConcurrentSearchesKeepNewestResult(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	fc := &fakeClient{searchFn: func(q *query.DerivedQuery) ([]domain.Opportunity, error) {
		return []domain.Opportunity{{ID: fmt.Sprintf("opp-%d", int(q.BBox[0]))}}, nil
	}}
	svc := NewService(bus, fc)

	var mu sync.Mutex
	updates := map[uint64][]domain.Opportunity{}
	bus.Subscribe(eventbus.EventOpportunitiesUpdated, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.OpportunitiesUpdatedEvent)
		mu.Lock()
		updates[ev.Seq] = ev.Opportunities
		mu.Unlock()
	})

	const n = 16
	sels := make([]domain.SearchSelection, n)
	for i := range sels {
		bbox, err := domain.NewBoundingBox([]float64{float64(i), 0, float64(i) + 1, 1})
		require.NoError(t, err)
		sels[i] = selectionWith(&bbox)
	}

	var wg sync.WaitGroup
	for i := range sels {
		wg.Add(1)
		go func(sel domain.SearchSelection) {
			defer wg.Done()
			svc.ForceSearch(sel)
		}(sels[i])
	}
	wg.Wait()

	// Whatever the interleaving, the dispatch holding the top sequence
	// number is the last one written and must publish its result
	require.Eventually(t, func() bool {
		mu.Lock()
		_, ok := updates[n]
		mu.Unlock()
		return ok && fc.searches.Load() == n
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return !svc.Opportunities().Loading
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	want := updates[n]
	mu.Unlock()
	assert.Equal(t, want, svc.Opportunities().Data,
		"an older dispatch must not overwrite the newest result")
}

func TestSearchFailureSurfacesAsError(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	fc := &fakeClient{searchFn: func(q *query.DerivedQuery) ([]domain.Opportunity, error) {
		return nil, assert.AnError
	}}
	svc := NewService(bus, fc)

	failed := make(chan eventbus.DomainEvent, 1)
	bus.Subscribe(eventbus.EventSearchFailed, func(e eventbus.DomainEvent) {
		failed <- e
	})

	bbox, err := domain.NewBoundingBox([]float64{10, 20, 30, 40})
	require.NoError(t, err)
	svc.Search(selectionWith(&bbox))

	select {
	case <-failed:
	case <-time.After(time.Second):
		t.Fatal("expected a SearchFailed event")
	}

	r := svc.Opportunities()
	assert.False(t, r.Loading)
	assert.Error(t, r.Err)
}
