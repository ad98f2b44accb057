package commerce

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

type storeScopeKey struct{}

// ErrForeignStore is returned when a store scoped caller touches another store's records
var ErrForeignStore = shared.NewDomainError("FORBIDDEN", "Record belongs to another store")

// WithStoreScope restricts the commerce operations run with ctx to one store
func WithStoreScope(ctx context.Context, storeID uuid.UUID) context.Context {
	return context.WithValue(ctx, storeScopeKey{}, storeID)
}

// StoreScope returns the store ctx is restricted to, if any
func StoreScope(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(storeScopeKey{}).(uuid.UUID)
	return id, ok
}

// checkStore refuses records of a store other than the scoped one
func checkStore(ctx context.Context, storeID uuid.UUID) error {
	if scoped, ok := StoreScope(ctx); ok && scoped != storeID {
		return ErrForeignStore
	}
	return nil
}

// checkOptionalStore is checkStore for records that may belong to no store.
// Platform records are out of reach of a scoped caller.
func checkOptionalStore(ctx context.Context, storeID *uuid.UUID) error {
	if _, ok := StoreScope(ctx); !ok {
		return nil
	}
	if storeID == nil {
		return ErrForeignStore
	}
	return checkStore(ctx, *storeID)
}

// scopeList narrows in to the scoped store
func scopeList(ctx context.Context, in ListInput) ListInput {
	if scoped, ok := StoreScope(ctx); ok {
		in.Store = &scoped
	}
	return in
}

// StaffStore returns the store the user works for through an active STORE profile
func (s *StoreService) StaffStore(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	profile, err := s.Repos.RoleProfiles().FindStoreUser(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return uuid.Nil, ErrForeignStore
	}
	if err != nil {
		return uuid.Nil, err
	}
	if profile.Status != shared.StatusActive {
		return uuid.Nil, ErrForeignStore
	}
	return profile.StoreID, nil
}
