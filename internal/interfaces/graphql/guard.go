package graphql

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"
	commerceapp "github.com/storefront/backend/internal/application/commerce"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// rule decides whether the viewer may resolve a field
type rule func(ctx context.Context, policy *identity.AccessPolicy, user *identity.User) (bool, error)

func authenticated() rule {
	return func(context.Context, *identity.AccessPolicy, *identity.User) (bool, error) {
		return true, nil
	}
}

func roles(types ...identity.UserType) rule {
	return func(ctx context.Context, policy *identity.AccessPolicy, user *identity.User) (bool, error) {
		return policy.HasRole(ctx, user, types...)
	}
}

// permitted requires both the permission and one of the roles
func permitted(perm string, types ...identity.UserType) rule {
	return func(ctx context.Context, policy *identity.AccessPolicy, user *identity.User) (bool, error) {
		ok, err := policy.HasPermission(ctx, user, perm)
		if err != nil || !ok {
			return false, err
		}
		return policy.HasRole(ctx, user, types...)
	}
}

var (
	catalogAdmin  = permitted("products", identity.UserTypeAdmin)
	accountAdmin  = permitted("account", identity.UserTypeAdmin)
	storeAdmin    = permitted("stores", identity.UserTypeAdmin)
	storeStaff    = roles(identity.UserTypeAdmin, identity.UserTypeStore)
	deliveryStaff = roles(identity.UserTypeAdmin, identity.UserTypeStore, identity.UserTypeDelivery)
	accountHolder = roles(identity.UserTypeAdmin, identity.UserTypeStore, identity.UserTypeCustomer)
	groupManager  = roles(identity.UserTypeAdmin, identity.UserTypeStore, identity.UserTypeDeveloper)
	customer      = roles(identity.UserTypeCustomer)
)

// guard resolves next only for a signed in viewer satisfying r
func (b *builder) guard(r rule, next graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		denied := &mutation.PermissionError{Field: p.Info.FieldName}
		v, ok := identityapp.ViewerFrom(p.Context)
		if !ok {
			return nil, denied
		}
		allowed, err := r(p.Context, b.svc.Policy, v.User)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, denied
		}
		if p.Context, err = b.storeScope(p.Context, v.User); err != nil {
			if errors.Is(err, shared.ErrForbidden) {
				return nil, denied
			}
			return nil, err
		}
		res, err := next(p)
		if errors.Is(err, shared.ErrForbidden) {
			return nil, denied
		}
		return res, err
	}
}

// storeScope restricts store staff to the store of their profile. Admins
// keep access to every store.
func (b *builder) storeScope(ctx context.Context, user *identity.User) (context.Context, error) {
	if b.svc.Stores == nil {
		return ctx, nil
	}
	admin, err := b.svc.Policy.HasRole(ctx, user, identity.UserTypeAdmin)
	if err != nil || admin {
		return ctx, err
	}
	staff, err := b.svc.Policy.HasRole(ctx, user, identity.UserTypeStore)
	if err != nil || !staff {
		return ctx, err
	}
	storeID, err := b.svc.Stores.StaffStore(ctx, user.ID)
	if err != nil {
		return ctx, err
	}
	return commerceapp.WithStoreScope(ctx, storeID), nil
}

func viewerUser(ctx context.Context) *identity.User {
	v, _ := identityapp.ViewerFrom(ctx)
	return v.User
}
