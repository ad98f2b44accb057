package identity

import (
	"context"

	"github.com/storefront/backend/internal/domain/identity"
)

type viewerKey struct{}

// Viewer is the authenticated caller of a request
type Viewer struct {
	User        *identity.User
	AccessToken string
}

// WithViewer stores the authenticated caller in ctx
func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFrom returns the caller stored by WithViewer. Anonymous requests yield false.
func ViewerFrom(ctx context.Context) (Viewer, bool) {
	v, ok := ctx.Value(viewerKey{}).(Viewer)
	if !ok || v.User == nil {
		return Viewer{}, false
	}
	return v, true
}
