// Package graphql builds the storefront GraphQL schema and serves it over gin.
package graphql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	commerceapp "github.com/storefront/backend/internal/application/commerce"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// errInternal replaces errors the client should not see
var errInternal = errors.New("internal server error")

// Services are the application services behind the resolvers
type Services struct {
	Departments    *catalogapp.DepartmentService
	Categories     *catalogapp.CategoryService
	Brands         *catalogapp.BrandService
	Attributes     *catalogapp.AttributeService
	Templates      *catalogapp.TemplateService
	Masters        *catalogapp.MasterService
	Media          *catalogapp.MediaService
	Auth           *identityapp.AuthService
	Accounts       *identityapp.AccountService
	UserTypeGroups *identityapp.UserTypeGroupService
	Stores         *commerceapp.StoreService
	StoreProducts  *commerceapp.StoreProductService
	Offers         *commerceapp.OfferService
	Orders         *commerceapp.OrderService
	Deliveries     *commerceapp.DeliveryService
	// Invoices is optional; orderInvoice fails without it
	Invoices *commerceapp.InvoiceService
	Policy   *identity.AccessPolicy
}

type builder struct {
	svc    Services
	logger *zap.Logger

	errorType   *graphql.Object
	bulkPayload *graphql.Object
	managerEnum *graphql.Enum
	mediaType   *graphql.Object

	attributeType   *graphql.Object
	masterInputType *graphql.InputObject
	userType        *graphql.Object

	query    graphql.Fields
	mutation graphql.Fields
}

// NewSchema assembles the catalog, identity and commerce fields into one schema
func NewSchema(svc Services, log *zap.Logger) (graphql.Schema, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &builder{
		svc:      svc,
		logger:   log,
		query:    graphql.Fields{},
		mutation: graphql.Fields{},
	}
	b.errorType = newErrorType()
	b.bulkPayload = graphql.NewObject(graphql.ObjectConfig{
		Name: "BulkPayload",
		Fields: graphql.Fields{
			"count":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"errors": &graphql.Field{Type: nonNullList(b.errorType)},
		},
	})
	b.managerEnum = graphql.NewEnum(graphql.EnumConfig{
		Name:        "RecordScope",
		Description: "Which rows a list sees by status. DEFAULT hides deleted rows.",
		Values: graphql.EnumValueConfigMap{
			"DEFAULT": &graphql.EnumValueConfig{Value: shared.ManagerDefault},
			"ALL":     &graphql.EnumValueConfig{Value: shared.ManagerAll},
			"ACTIVE":  &graphql.EnumValueConfig{Value: shared.ManagerActive},
			"DELETED": &graphql.EnumValueConfig{Value: shared.ManagerDeleted},
		},
	})

	b.catalog()
	b.identity()
	b.commerce()

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    graphql.NewObject(graphql.ObjectConfig{Name: "Query", Fields: b.instrument(b.query)}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{Name: "Mutation", Fields: b.instrument(b.mutation)}),
	})
}

// instrument wraps every root resolver in a span and hides unexpected errors
func (b *builder) instrument(fields graphql.Fields) graphql.Fields {
	for name, f := range fields {
		f.Resolve = b.traced(name, f.Resolve)
	}
	return fields
}

func (b *builder) traced(name string, next graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		ctx, span := telemetry.StartSpan(p.Context, "graphql."+name, attribute.String("graphql.field", name))
		p.Context = logger.WithOperation(ctx, name)

		res, err := next(p)
		telemetry.End(span, err)
		if err != nil {
			return nil, b.public(p.Context, name, err)
		}
		return res, nil
	}
}

// public passes through errors meant for the client and masks the rest
func (b *builder) public(ctx context.Context, name string, err error) error {
	var (
		nf    *mutation.NodeNotFoundError
		perm  *mutation.PermissionError
		input *inputError
	)
	switch {
	case errors.As(err, &nf), errors.As(err, &perm), errors.As(err, &input):
		return err
	case errors.Is(err, identityapp.ErrUnauthenticated), errors.Is(err, shared.ErrForbidden):
		return err
	}
	b.logger.Error("Resolver failed",
		zap.String("field", name),
		zap.String("trace_id", telemetry.TraceID(ctx)),
		zap.String("user_id", logger.GetUserID(ctx)),
		zap.Error(err))
	return errInternal
}

// node turns a missing record into null
func node[T any](v *T, err error) (interface{}, error) {
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (b *builder) managerArg(args map[string]interface{}) shared.Manager {
	m, ok := args["manager"].(shared.Manager)
	if !ok {
		return shared.ManagerDefault
	}
	return m
}

// saveField declares a create, or an update when update is set, returning payload under key
func saveField[T, I any](b *builder, r rule, payload *graphql.Object, key string, input graphql.Input, update bool, save func(context.Context, string, I) (*T, mutation.Errors, error)) *graphql.Field {
	args := graphql.FieldConfigArgument{
		"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(input)},
	}
	if update {
		args["id"] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}
	}
	return &graphql.Field{
		Type: graphql.NewNonNull(payload),
		Args: args,
		Resolve: b.guard(r, func(p graphql.ResolveParams) (interface{}, error) {
			var in I
			if err := decode(p.Args["input"], &in); err != nil {
				return nil, err
			}
			id := ""
			if update {
				id = argString(p.Args, "id")
			}
			v, errs, err := save(p.Context, id, in)
			return payloadResult(key, v, errs, err)
		}),
	}
}

// byIDField declares a mutation that takes only an id, such as a delete
func byIDField[T any](b *builder, r rule, payload *graphql.Object, key string, run func(context.Context, string) (*T, mutation.Errors, error)) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(payload),
		Args: graphql.FieldConfigArgument{
			"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: b.guard(r, func(p graphql.ResolveParams) (interface{}, error) {
			v, errs, err := run(p.Context, argString(p.Args, "id"))
			return payloadResult(key, v, errs, err)
		}),
	}
}

// statusField declares a status change. cascade exposes the cascade argument.
func statusField[T any](b *builder, r rule, payload *graphql.Object, key string, cascade bool, change func(context.Context, string, string, *bool) (*T, mutation.Errors, error)) *graphql.Field {
	args := graphql.FieldConfigArgument{
		"id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}
	if cascade {
		args["cascade"] = &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: true}
	}
	return &graphql.Field{
		Type: graphql.NewNonNull(payload),
		Args: args,
		Resolve: b.guard(r, func(p graphql.ResolveParams) (interface{}, error) {
			v, errs, err := change(p.Context, argString(p.Args, "id"), argString(p.Args, "status"), argOptBool(p.Args, "cascade"))
			return payloadResult(key, v, errs, err)
		}),
	}
}

func (b *builder) bulkDeleteField(r rule, del func(context.Context, []string) (int, mutation.Errors, error)) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(b.bulkPayload),
		Args: graphql.FieldConfigArgument{
			"ids": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
		},
		Resolve: b.guard(r, func(p graphql.ResolveParams) (interface{}, error) {
			return bulkResult(del(p.Context, argStrings(p.Args, "ids")))
		}),
	}
}

func (b *builder) bulkStatusField(r rule, change func(context.Context, []string, string, *bool) (int, mutation.Errors, error)) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(b.bulkPayload),
		Args: graphql.FieldConfigArgument{
			"ids":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
			"status":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			"cascade": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: true},
		},
		Resolve: b.guard(r, func(p graphql.ResolveParams) (interface{}, error) {
			return bulkResult(change(p.Context, argStrings(p.Args, "ids"), argString(p.Args, "status"), argOptBool(p.Args, "cascade")))
		}),
	}
}

// lookupField declares <name>(id) resolved through get; unknown ids resolve to null
func lookupField[T any](b *builder, r rule, typ graphql.Output, get func(context.Context, uuid.UUID) (*T, error)) *graphql.Field {
	resolve := func(p graphql.ResolveParams) (interface{}, error) {
		id, err := argID(p.Args, "id")
		if err != nil {
			return nil, nil
		}
		return node(get(p.Context, id))
	}
	if r != nil {
		resolve = b.guard(r, resolve)
	}
	return &graphql.Field{
		Type: typ,
		Args: graphql.FieldConfigArgument{
			"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: resolve,
	}
}
