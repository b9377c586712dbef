// Package service implements business logic on top of ports.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/pagesmith/pagesmith/internal/domain"
	"github.com/pagesmith/pagesmith/internal/domain/tenant"
	"github.com/pagesmith/pagesmith/internal/port/contentstore"
)

// StoreFactory builds a content store bound to one dataset.
type StoreFactory func(dataset string) contentstore.Store

// ClientRegistry hands out per-dataset content stores. Stores are built
// lazily on first use and shared between requests; the factory must
// return stores that are safe for concurrent use.
type ClientRegistry struct {
	mu      sync.RWMutex
	stores  map[string]contentstore.Store
	factory StoreFactory
}

// NewClientRegistry creates a registry backed by the given factory.
func NewClientRegistry(factory StoreFactory) *ClientRegistry {
	return &ClientRegistry{
		stores:  make(map[string]contentstore.Store),
		factory: factory,
	}
}

// ForDataset returns the store for a dataset, building it on first use.
func (r *ClientRegistry) ForDataset(dataset string) contentstore.Store {
	r.mu.RLock()
	s, ok := r.stores[dataset]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[dataset]; ok {
		return s
	}
	s = r.factory(dataset)
	r.stores[dataset] = s
	return s
}

// ForRequest returns the store for the request's resolved tenant.
func (r *ClientRegistry) ForRequest(ctx context.Context) (contentstore.Store, error) {
	tc, ok := tenant.FromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant on request: %w", domain.ErrDomainUnresolved)
	}
	return r.ForDataset(tc.Dataset), nil
}
