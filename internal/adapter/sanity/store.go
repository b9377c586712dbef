package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/pagesmith/pagesmith/internal/domain"
	"github.com/pagesmith/pagesmith/internal/domain/content"
	"github.com/pagesmith/pagesmith/internal/port/contentstore"
)

// Store implements contentstore.Store over a Client. One Store is bound
// to exactly one dataset for its whole lifetime.
type Store struct {
	client *Client
}

// NewStore wraps a client as a typed content store.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// Dataset returns the dataset this store is bound to.
func (s *Store) Dataset() string {
	return s.client.Dataset()
}

// GetServiceLocation fetches the combination entity with both references
// dereferenced inline. A missing document returns domain.ErrNotFound; a
// present document with a broken reference returns the entity with the
// corresponding field nil.
func (s *Store) GetServiceLocation(ctx context.Context, serviceSlug, locationSlug string) (*content.ServiceLocation, error) {
	var sl content.ServiceLocation
	err := s.queryOne(ctx, queryServiceLocation, map[string]any{
		"serviceSlug":  serviceSlug,
		"locationSlug": locationSlug,
	}, &sl)
	if err != nil {
		return nil, err
	}
	return &sl, nil
}

// GetServiceBySlug fetches a single service document.
func (s *Store) GetServiceBySlug(ctx context.Context, slug string) (*content.Service, error) {
	var svc content.Service
	if err := s.queryOne(ctx, queryServiceBySlug, map[string]any{"slug": slug}, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

// GetLocationBySlug fetches a single location document.
func (s *Store) GetLocationBySlug(ctx context.Context, slug string) (*content.Location, error) {
	var loc content.Location
	if err := s.queryOne(ctx, queryLocationBySlug, map[string]any{"slug": slug}, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

// ListServices returns all service documents, newest first.
func (s *Store) ListServices(ctx context.Context) ([]content.Service, error) {
	var out []content.Service
	if err := s.queryMany(ctx, queryServices, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLocations returns all location documents, newest first.
func (s *Store) ListLocations(ctx context.Context) ([]content.Location, error) {
	var out []content.Location
	if err := s.queryMany(ctx, queryLocations, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListServiceLocationSlugs returns the slug pairs of all combinations
// whose references both resolve.
func (s *Store) ListServiceLocationSlugs(ctx context.Context) ([]contentstore.ServiceLocationSlugs, error) {
	var out []contentstore.ServiceLocationSlugs
	if err := s.queryMany(ctx, queryServiceLocationSlugs, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSiteSettings fetches the tenant's site settings document.
func (s *Store) GetSiteSettings(ctx context.Context) (*content.SiteSettings, error) {
	var settings content.SiteSettings
	if err := s.queryOne(ctx, querySiteSettings, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// queryOne decodes a single-document result; null means ErrNotFound.
func (s *Store) queryOne(ctx context.Context, query string, params map[string]any, out any) error {
	raw, err := s.client.Query(ctx, query, params)
	if err != nil {
		return err
	}
	if isNull(raw) {
		return domain.ErrNotFound
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// queryMany decodes an array result; null decodes as an empty list.
func (s *Store) queryMany(ctx context.Context, query string, params map[string]any, out any) error {
	raw, err := s.client.Query(ctx, query, params)
	if err != nil {
		return err
	}
	if isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode documents: %w", err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
