package graphql

import (
	"time"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/shared"
)

// field builds a field resolved from a source of type T
func field[T any](typ graphql.Output, get func(T) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: typ,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			src, ok := p.Source.(T)
			if !ok {
				return nil, nil
			}
			return get(src), nil
		},
	}
}

type entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

type statusHolder interface {
	GetStatus() shared.Status
}

// nodeFields adds id, createdAt and updatedAt to fields
func nodeFields(fields graphql.Fields) graphql.Fields {
	fields["id"] = field(graphql.NewNonNull(graphql.ID), func(e entity) interface{} { return e.GetID().String() })
	fields["createdAt"] = field(graphql.NewNonNull(graphql.DateTime), func(e entity) interface{} { return e.GetCreatedAt() })
	fields["updatedAt"] = field(graphql.NewNonNull(graphql.DateTime), func(e entity) interface{} { return e.GetUpdatedAt() })
	return fields
}

// softFields adds the node fields plus status
func softFields(fields graphql.Fields) graphql.Fields {
	fields["status"] = field(graphql.NewNonNull(graphql.String), func(s statusHolder) interface{} { return string(s.GetStatus()) })
	return nodeFields(fields)
}

// seoFields adds seoTitle, seoDescription and seoKeywords read through get
func seoFields[T any](fields graphql.Fields, get func(T) *shared.SEO) graphql.Fields {
	fields["seoTitle"] = field(graphql.String, func(src T) interface{} { return str(get(src).SeoTitle) })
	fields["seoDescription"] = field(graphql.String, func(src T) interface{} { return str(get(src).SeoDescription) })
	fields["seoKeywords"] = field(graphql.NewList(graphql.NewNonNull(graphql.String)), func(src T) interface{} {
		kw := get(src).SeoKeywords
		if kw == nil {
			return []string{}
		}
		return []string(kw)
	})
	return fields
}

func str(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func optID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}

func optTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func optInt(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

// ptrs exposes slice elements by pointer so pointer receiver methods resolve
func ptrs[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}

func nonNullList(t graphql.Type) graphql.Output {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t)))
}

func newErrorType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name:        "Error",
		Description: "A validation or database error. field is null for errors about the whole input.",
		Fields: graphql.Fields{
			"field":   field(graphql.String, func(e mutation.Error) interface{} { return str(e.Field) }),
			"message": field(graphql.NewNonNull(graphql.String), func(e mutation.Error) interface{} { return e.Message }),
		},
	})
}

// payload declares <Name>Payload{ <key>: node, errors }
func (b *builder) payload(name, key string, node graphql.Output) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name + "Payload",
		Fields: graphql.Fields{
			key:      &graphql.Field{Type: node},
			"errors": &graphql.Field{Type: nonNullList(b.errorType)},
		},
	})
}

// connection declares <Name>List{ totalCount, items }
func connection(name string, item graphql.Type) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name + "List",
		Fields: graphql.Fields{
			"totalCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"items":      &graphql.Field{Type: nonNullList(item)},
		},
	})
}

func pageResult[T any](p shared.Page[T], err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"totalCount": int(p.TotalCount),
		"items":      ptrs(p.Items),
	}, nil
}

func errorList(errs mutation.Errors) []mutation.Error {
	if errs == nil {
		return []mutation.Error{}
	}
	return errs
}

func payloadResult(key string, node interface{}, errs mutation.Errors, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	if !errs.Empty() {
		node = nil
	}
	return map[string]interface{}{key: node, "errors": errorList(errs)}, nil
}

func bulkResult(count int, errs mutation.Errors, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"count": count, "errors": errorList(errs)}, nil
}
