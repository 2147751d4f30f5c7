// Package search orchestrates the two API requests behind the UI: the
// opportunities POST keyed on the derived query and the one-shot products
// GET. It owns the loading/data/error state of both.
package search

import (
	"context"
	"sync"
	"sync/atomic"

	"overpass/internal/domain"
	"overpass/internal/eventbus"
	"overpass/internal/logger"
	"overpass/internal/query"
)

// RequestResult is the observable state of one request.
type RequestResult[T any] struct {
	Loading bool
	Data    T
	Err     error
}

// APIClient is the subset of the api client the service needs.
type APIClient interface {
	SearchOpportunities(ctx context.Context, q *query.DerivedQuery) ([]domain.Opportunity, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Service drives requests from search parameter changes. Each dispatched
// search carries a sequence number; completions for anything but the
// newest sequence are dropped, so a slow response can never overwrite a
// newer one.
type Service struct {
	bus    eventbus.EventBus
	client APIClient

	ctx context.Context
	seq atomic.Uint64

	mu             sync.Mutex
	deriver        *query.Deriver
	lastDispatched *query.DerivedQuery
	opportunities  RequestResult[[]domain.Opportunity]
	products       RequestResult[[]domain.Product]
}

// NewService creates a search service wired to the bus.
func NewService(bus eventbus.EventBus, client APIClient) *Service {
	return &Service{
		bus:     bus,
		client:  client,
		ctx:     context.Background(),
		deriver: query.NewDeriver(),
	}
}

// Start subscribes to search requests and fires the one-shot products
// fetch. ctx bounds all requests the service issues afterwards.
func (s *Service) Start(ctx context.Context) {
	s.ctx = ctx
	s.bus.Subscribe(eventbus.EventSearchRequested, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.SearchRequestedEvent); ok {
			s.search(ev.Selection, ev.Force)
		}
	})
	s.FetchProducts()
}

// Search derives the query for the selection and dispatches a request when
// the derivation yields something new. A nil derivation (no bbox chosen)
// suppresses the request.
func (s *Service) Search(sel domain.SearchSelection) {
	s.search(sel, false)
}

// ForceSearch dispatches even when the selection is unchanged.
func (s *Service) ForceSearch(sel domain.SearchSelection) {
	s.search(sel, true)
}

func (s *Service) search(sel domain.SearchSelection, force bool) {
	s.mu.Lock()
	q := s.deriver.Derive(sel)
	if q == nil {
		s.mu.Unlock()
		logger.Get(logger.InfoLevel).Debugw("search suppressed, no bbox selected")
		return
	}
	if !force && q == s.lastDispatched {
		// Memoized derivation: same pointer means the selection is
		// unchanged since the last dispatch.
		s.mu.Unlock()
		return
	}
	s.lastDispatched = q
	s.opportunities.Loading = true
	s.opportunities.Err = nil
	// Sequence assignment happens under mu so its order matches the
	// lastDispatched writes even for concurrent callers
	seq := s.seq.Add(1)
	s.mu.Unlock()

	s.bus.Publish(eventbus.SearchStartedEvent{Seq: seq})

	go s.runSearch(seq, q)
}

func (s *Service) runSearch(seq uint64, q *query.DerivedQuery) {
	opps, err := s.client.SearchOpportunities(s.ctx, q)

	// Staleness is checked in the same critical section as the write, so
	// a response that was newest at check time cannot land after a newer
	// one has already been stored
	s.mu.Lock()
	if seq != s.seq.Load() {
		s.mu.Unlock()
		logger.Get(logger.InfoLevel).Debugw("dropping stale search response", "seq", seq)
		return
	}
	s.opportunities.Loading = false
	if err != nil {
		s.opportunities.Err = err
	} else {
		s.opportunities.Data = opps
		s.opportunities.Err = nil
	}
	s.mu.Unlock()

	if err != nil {
		s.bus.Publish(eventbus.SearchFailedEvent{Seq: seq, Err: err})
		return
	}
	s.bus.Publish(eventbus.OpportunitiesUpdatedEvent{Seq: seq, Opportunities: opps})
}

// FetchProducts issues the parameterless products GET once.
func (s *Service) FetchProducts() {
	s.mu.Lock()
	s.products.Loading = true
	s.products.Err = nil
	s.mu.Unlock()

	go func() {
		products, err := s.client.ListProducts(s.ctx)

		s.mu.Lock()
		s.products.Loading = false
		if err != nil {
			s.products.Err = err
		} else {
			s.products.Data = products
			s.products.Err = nil
		}
		s.mu.Unlock()

		if err != nil {
			s.bus.Publish(eventbus.ProductsFailedEvent{Err: err})
			return
		}
		s.bus.Publish(eventbus.ProductsUpdatedEvent{Products: products})
	}()
}

// Opportunities returns the current opportunities request state.
func (s *Service) Opportunities() RequestResult[[]domain.Opportunity] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opportunities
}

// Products returns the current products request state.
func (s *Service) Products() RequestResult[[]domain.Product] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products
}
