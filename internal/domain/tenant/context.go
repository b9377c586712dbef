package tenant

import "context"

type ctxKey struct{}

// NewContext derives the per-request identity from a resolved tenant.
func NewContext(c Config) Context {
	return Context{
		Domain:    c.Domain,
		ClientID:  c.ClientID,
		Dataset:   c.Dataset,
		ProjectID: c.ProjectID,
		SiteURL:   SiteURL(c),
	}
}

// WithContext attaches the tenant identity to a request context.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, tc)
}

// FromContext returns the tenant identity attached by the middleware.
func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(ctxKey{}).(Context)
	return tc, ok
}
