// Package catalog implements the catalog mutations and queries on top of the
// generic mutation framework.
package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Deps groups the collaborators shared by the catalog services
type Deps struct {
	// Scope runs every mutation in one transaction
	Scope mutation.TransactionScope
	// Repos serves queries outside a transaction
	Repos  mutation.Repositories
	Events shared.EventPublisher
	Logger *zap.Logger
}

func (d Deps) log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// nextCode issues the code following the last one stored. An unparseable last
// code is recorded under "code" and returns an empty code.
func nextCode(ctx context.Context, seq shared.CodeSequence, last func(context.Context) (string, error), offset int, errs *mutation.Errors) (string, error) {
	prev, err := last(ctx)
	if err != nil {
		return "", err
	}
	code, err := seq.Next(prev, offset)
	if err != nil {
		errs.AddDomain("code", err)
		return "", nil
	}
	return code, nil
}

// parseID reads an optional id argument. Blank input yields uuid.Nil.
func parseID(raw string) (uuid.UUID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	return id, err == nil
}

// parseIDs reads a list of ids, recording each malformed one under field
func parseIDs(field string, raw []string, errs *mutation.Errors) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(strings.TrimSpace(r))
		if err != nil {
			errs.Add(field, "Invalid id "+r+".")
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// applySEO copies the provided SEO fields onto seo
func applySEO(seo *shared.SEO, in SEOInput) {
	next := shared.NewSEO(in.SeoTitle, in.SeoDescription, in.SeoKeywords)
	if in.SeoTitle != nil {
		seo.SeoTitle = next.SeoTitle
	}
	if in.SeoDescription != nil {
		seo.SeoDescription = next.SeoDescription
	}
	if in.SeoKeywords != nil {
		seo.SeoKeywords = next.SeoKeywords
	}
}

// ListInput holds the arguments common to every list query
type ListInput struct {
	Search  string
	Offset  int
	Limit   int
	Manager shared.Manager
}

func (in ListInput) filter() shared.Filter {
	return shared.Filter{
		Search:  in.Search,
		Offset:  in.Offset,
		Limit:   in.Limit,
		Manager: in.Manager,
		Filters: make(map[string]interface{}),
	}.Normalize()
}

// page runs a list and its count with the same filter
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
