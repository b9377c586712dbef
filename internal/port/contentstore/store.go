// Package contentstore defines the port interface to the headless content
// store. Implementations are bound to exactly one dataset; tenant isolation
// is achieved by constructing one store per dataset, never by passing the
// dataset per call.
package contentstore

import (
	"context"

	"github.com/pagesmith/pagesmith/internal/domain/content"
)

// ServiceLocationSlugs is one combination's slug pair, used for sitemap
// generation and static path enumeration. Noindex is the combination's
// effective flag: its own override when set, otherwise the service's.
type ServiceLocationSlugs struct {
	ServiceSlug  string
	LocationSlug string
	Noindex      bool
}

// Store is the read interface over one tenant dataset.
//
// All lookups return domain.ErrNotFound when no document matches. The
// combined ServiceLocation fetch dereferences both references inline; a
// broken reference surfaces as a nil Service/Location on the returned
// entity, not as an error, so callers can run the secondary lookup path.
type Store interface {
	// Dataset returns the dataset this store is bound to.
	Dataset() string

	GetServiceLocation(ctx context.Context, serviceSlug, locationSlug string) (*content.ServiceLocation, error)
	GetServiceBySlug(ctx context.Context, slug string) (*content.Service, error)
	GetLocationBySlug(ctx context.Context, slug string) (*content.Location, error)

	ListServices(ctx context.Context) ([]content.Service, error)
	ListLocations(ctx context.Context) ([]content.Location, error)
	ListServiceLocationSlugs(ctx context.Context) ([]ServiceLocationSlugs, error)

	GetSiteSettings(ctx context.Context) (*content.SiteSettings, error)
}
