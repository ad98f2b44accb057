// Package identity implements sign-in, one time passwords, account changes,
// admin management and role-to-group mappings.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Deps groups the collaborators shared by the identity services
type Deps struct {
	Scope  mutation.TransactionScope
	Repos  mutation.Repositories
	Events shared.EventPublisher
	Logger *zap.Logger
	// Now is the clock; nil means time.Now
	Now func() time.Time
}

func (d Deps) log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// ListInput carries search and paging arguments of list queries
type ListInput struct {
	Search string
	Offset int
	Limit  int
}

func (in ListInput) filter() shared.Filter {
	f := shared.Filter{
		Search: strings.TrimSpace(in.Search),
		Offset: in.Offset,
		Limit:  in.Limit,
	}
	return f.Normalize()
}

// findUser loads a user by a raw id, recording field when it does not resolve
func findUser(ctx context.Context, repos mutation.Repositories, raw, field string, errs *mutation.Errors) (*identity.User, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		errs.Add(field, "user not found")
		return nil, nil
	}
	user, err := repos.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			errs.Add(field, "user not found")
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
