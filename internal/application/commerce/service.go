// Package commerce implements stores, store inventory, offers, orders and
// deliveries.
package commerce

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Deps groups the collaborators shared by the commerce services
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

func (d Deps) publish(ctx context.Context, evts ...shared.DomainEvent) {
	if d.Events == nil || len(evts) == 0 {
		return
	}
	if err := d.Events.Publish(ctx, evts...); err != nil {
		d.log().Warn("Failed to publish commerce events", zap.Error(err))
	}
}

// ListInput holds the arguments common to every list query
type ListInput struct {
	Search  string
	Offset  int
	Limit   int
	Manager shared.Manager
	// Store restricts the list to one store when set
	Store *uuid.UUID
}

func (in ListInput) filter() shared.Filter {
	f := shared.Filter{
		Search:  strings.TrimSpace(in.Search),
		Offset:  in.Offset,
		Limit:   in.Limit,
		Manager: in.Manager,
	}.Normalize()
	if in.Store != nil {
		f.Filters[commerce.FilterStoreID] = *in.Store
	}
	return f
}

func nextCode(ctx context.Context, seq shared.CodeSequence, last func(context.Context) (string, error), errs *mutation.Errors) (string, error) {
	prev, err := last(ctx)
	if err != nil {
		return "", err
	}
	code, err := seq.Next(prev, 0)
	if err != nil {
		errs.AddDomain("code", err)
		return "", nil
	}
	return code, nil
}

// parseRef reads a required id argument, recording msg under field when it is malformed
func parseRef(raw, field, msg string, errs *mutation.Errors) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		errs.Add(field, msg)
		return uuid.Nil, false
	}
	return id, true
}

func page[T any](ctx context.Context, filter shared.Filter,
	find func(context.Context, shared.Filter) ([]T, error),
	count func(context.Context, shared.Filter) (int64, error),
) (shared.Page[T], error) {
	items, err := find(ctx, filter)
	if err != nil {
		return shared.Page[T]{}, err
	}
	total, err := count(ctx, filter)
	if err != nil {
		return shared.Page[T]{}, err
	}
	return shared.NewPage(items, total), nil
}
