package graphql

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	commerceapp "github.com/storefront/backend/internal/application/commerce"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/printing"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/tests/testutil"
)

type fixture struct {
	schema graphql.Schema
	repos  mutation.Repositories
	svc    Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	rel := persistence.DefaultRelations()
	repos := persistence.NewRepositories(db, rel)
	scope := persistence.NewGormTransactionScope(db, rel)
	events := testutil.NewRecordingPublisher()
	log := zap.NewNop()

	catalogDeps := catalogapp.Deps{Scope: scope, Repos: repos, Events: events, Logger: log}
	identityDeps := identityapp.Deps{Scope: scope, Repos: repos, Events: events, Logger: log}
	commerceDeps := commerceapp.Deps{Scope: scope, Repos: repos, Events: events, Logger: log}

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "storefront-test",
	})
	categories := catalogapp.NewCategoryService(catalogDeps, nil)
	invoiceRenderer, err := printing.NewInvoiceRenderer(nil, printing.PaperSizeA4)
	require.NoError(t, err)
	svc := Services{
		Departments:    catalogapp.NewDepartmentService(catalogDeps),
		Categories:     categories,
		Brands:         catalogapp.NewBrandService(catalogDeps, categories),
		Attributes:     catalogapp.NewAttributeService(catalogDeps),
		Templates:      catalogapp.NewTemplateService(catalogDeps, categories),
		Masters:        catalogapp.NewMasterService(catalogDeps, categories),
		Media:          catalogapp.NewMediaService(catalogDeps, storage.NewMemoryObjectStorage("http://files.test"), catalogapp.DefaultMediaConfig()),
		Auth:           identityapp.NewAuthService(identityDeps, jwtService, auth.NewInMemoryTokenBlacklist()),
		Accounts:       identityapp.NewAccountService(identityDeps, nil, identityapp.DefaultOtpConfig()),
		UserTypeGroups: identityapp.NewUserTypeGroupService(identityDeps),
		Stores:         commerceapp.NewStoreService(commerceDeps),
		StoreProducts:  commerceapp.NewStoreProductService(commerceDeps),
		Offers:         commerceapp.NewOfferService(commerceDeps),
		Orders:         commerceapp.NewOrderService(commerceDeps),
		Deliveries:     commerceapp.NewDeliveryService(commerceDeps),
		Invoices:       commerceapp.NewInvoiceService(commerceDeps, invoiceRenderer, storage.NewMemoryObjectStorage("http://files.test"), time.Hour),
		Policy:         identity.NewAccessPolicy(persistence.NewGormRoleProfileRepository(db), repos.Groups()),
	}
	schema, err := NewSchema(svc, log)
	require.NoError(t, err)
	return &fixture{schema: schema, repos: repos, svc: svc}
}

// admin stores an active admin, optionally in the named permission groups
func (f *fixture) admin(t *testing.T, mobile string, groups ...string) *identity.User {
	t.Helper()
	ctx := context.Background()
	user := identity.NewUser("US"+mobile[len(mobile)-4:], mobile)
	user.Roles = []identity.UserRole{*identity.NewUserRole(user.ID, identity.UserTypeAdmin)}
	for _, name := range groups {
		user.Groups = append(user.Groups, *identity.NewGroup(name))
	}
	require.NoError(t, f.repos.Users().Save(ctx, user))

	profile := identity.NewAdmin(user.ID)
	profile.Status = shared.StatusActive
	require.NoError(t, f.repos.Admins().Save(ctx, profile))
	return user
}

// storeUser stores a user with an active STORE profile working for storeID
func (f *fixture) storeUser(t *testing.T, mobile string, storeID uuid.UUID) *identity.User {
	t.Helper()
	ctx := context.Background()
	user := identity.NewUser("US"+mobile[len(mobile)-4:], mobile)
	user.Roles = []identity.UserRole{*identity.NewUserRole(user.ID, identity.UserTypeStore)}
	require.NoError(t, f.repos.Users().Save(ctx, user))
	require.NoError(t, f.repos.RoleProfiles().SaveStoreUser(ctx, &commerce.StoreUser{
		BaseEntity: shared.NewBaseEntity(),
		SoftDelete: shared.SoftDelete{Status: shared.StatusActive},
		UserID:     user.ID,
		StoreID:    storeID,
	}))
	return user
}

// shop stores an active store with one listing of stock 10 and a pending order for it
func (f *fixture) shop(t *testing.T, name, masterCode string) (*commerce.Store, *commerce.StoreProduct, *commerce.Order) {
	t.Helper()
	ctx := context.Background()
	country := "BD"
	store, errs, err := f.svc.Stores.Save(ctx, "", commerceapp.StoreInput{Name: &name, Country: &country})
	require.NoError(t, err)
	require.Empty(t, errs)
	_, errs, err = f.svc.Stores.ChangeStatus(ctx, store.ID.String(), "ACTIVE", nil)
	require.NoError(t, err)
	require.Empty(t, errs)

	master := catalog.NewProductMaster(masterCode)
	master.Name = &name
	master.AssignIdentity()
	require.NoError(t, f.repos.Masters().Save(ctx, master))

	storeID, masterID := store.ID.String(), master.ID.String()
	price, stock := decimal.NewFromInt(50), decimal.NewFromInt(10)
	listing, errs, err := f.svc.StoreProducts.Save(ctx, "", commerceapp.StoreProductInput{
		Store: &storeID, ProductMaster: &masterID, RetailPrice: &price, InitialStock: &stock,
	})
	require.NoError(t, err)
	require.Empty(t, errs)

	address := "House 1"
	order, errs, err := f.svc.Orders.PlaceOrder(ctx, uuid.New(), commerceapp.PlaceOrderInput{
		Store:   storeID,
		Items:   []commerceapp.OrderItemInput{{StoreProduct: listing.ID.String(), Qty: decimal.NewFromInt(1)}},
		Address: &address,
	})
	require.NoError(t, err)
	require.Empty(t, errs)
	return store, listing, order
}

func (f *fixture) do(ctx context.Context, user *identity.User, query string, vars map[string]interface{}) *graphql.Result {
	if user != nil {
		ctx = identityapp.WithViewer(ctx, identityapp.Viewer{User: user})
	}
	return graphql.Do(graphql.Params{
		Schema:         f.schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
}

func path(data interface{}, keys ...string) interface{} {
	cur := data
	for _, k := range keys {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}

const createDepartment = `mutation($input: DepartmentInput!) {
	departmentCreate(input: $input) {
		department { id name slug code status }
		errors { field message }
	}
}`

func TestDepartmentCreate(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t, "01710000001", "products")
	ctx := context.Background()

	res := f.do(ctx, admin, createDepartment, map[string]interface{}{
		"input": map[string]interface{}{"name": "Grocery", "seoKeywords": []interface{}{"food"}},
	})
	require.Empty(t, res.Errors)
	assert.Equal(t, "Grocery", path(res.Data, "departmentCreate", "department", "name"))
	assert.Equal(t, "grocery", path(res.Data, "departmentCreate", "department", "slug"))
	assert.Equal(t, "D100000001", path(res.Data, "departmentCreate", "department", "code"))
	assert.Equal(t, "ACTIVE", path(res.Data, "departmentCreate", "department", "status"))
	assert.Empty(t, path(res.Data, "departmentCreate", "errors"))

	res = f.do(ctx, admin, createDepartment, map[string]interface{}{
		"input": map[string]interface{}{"name": "grocery"},
	})
	require.Empty(t, res.Errors)
	assert.Nil(t, path(res.Data, "departmentCreate", "department"))
	errs, ok := path(res.Data, "departmentCreate", "errors").([]interface{})
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "name", path(errs[0], "field"))
	assert.Equal(t, "Department already exists with this name.", path(errs[0], "message"))
}

func TestTemplateProductDetails(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t, "01710000001", "products")
	ctx := context.Background()

	name := "Milk"
	tpl, errs, err := f.svc.Templates.Save(ctx, "", catalogapp.TemplateInput{Name: &name})
	require.NoError(t, err)
	require.Empty(t, errs)

	res := f.do(ctx, admin, `mutation($id: ID!, $input: [NutritionInput!]!) {
		templateNutritionUpdate(id: $id, input: $input) {
			template { nutritions { nutrition value sortOrder } }
			errors { field message }
		}
	}`, map[string]interface{}{
		"id":    tpl.ID.String(),
		"input": []interface{}{map[string]interface{}{"nutrition": "Fat", "value": "3.5g"}},
	})
	require.Empty(t, res.Errors)
	rows, ok := path(res.Data, "templateNutritionUpdate", "template", "nutritions").([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "Fat", path(rows[0], "nutrition"))
	assert.Equal(t, "3.5g", path(rows[0], "value"))

	res = f.do(ctx, admin, `mutation($id: ID!, $input: [CautionInput!]!) {
		templateCautionUpdate(id: $id, input: $input) {
			template { id }
			errors { field message }
		}
	}`, map[string]interface{}{
		"id":    tpl.ID.String(),
		"input": []interface{}{map[string]interface{}{"message": ""}},
	})
	require.Empty(t, res.Errors)
	errList, ok := path(res.Data, "templateCautionUpdate", "errors").([]interface{})
	require.True(t, ok)
	require.Len(t, errList, 1)
	assert.Equal(t, "message", path(errList[0], "field"))

	res = f.do(ctx, admin, `query($id: ID!) {
		template(id: $id) { nutritions { nutrition } ingredients { ingredient } howToUse { title } cautions { message } }
	}`, map[string]interface{}{"id": tpl.ID.String()})
	require.Empty(t, res.Errors)
	assert.Len(t, path(res.Data, "template", "nutritions"), 1)
	assert.Empty(t, path(res.Data, "template", "cautions"))
}

func TestPermissionDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	input := map[string]interface{}{"input": map[string]interface{}{"name": "Grocery"}}

	res := f.do(ctx, nil, createDepartment, input)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "You have no permission to use departmentCreate", res.Errors[0].Message)

	// an admin outside the products group
	res = f.do(ctx, f.admin(t, "01710000002"), createDepartment, input)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "You have no permission to use departmentCreate", res.Errors[0].Message)

	page, err := f.svc.Departments.List(ctx, catalogapp.ListInput{})
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
}

func TestLookupUnknownIDIsNull(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t, "01710000003", "products")

	for _, id := range []string{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", "not-a-uuid"} {
		res := f.do(context.Background(), admin, `query($id: ID!) { department(id: $id) { id } }`,
			map[string]interface{}{"id": id})
		require.Empty(t, res.Errors, id)
		assert.Nil(t, path(res.Data, "department"), id)
	}
}

func TestUpdateUnknownIDIsTopLevelError(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t, "01710000004", "products")

	res := f.do(context.Background(), admin, `mutation {
		departmentUpdate(id: "6ba7b810-9dad-11d1-80b4-00c04fd430c8", input: {note: "x"}) { department { id } }
	}`, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Couldn't resolve to a node: 6ba7b810-9dad-11d1-80b4-00c04fd430c8", res.Errors[0].Message)
}

func TestDepartmentBulkStatusChange(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t, "01710000005", "products")
	ctx := context.Background()

	var ids []interface{}
	for _, name := range []string{"Grocery", "Fashion"} {
		d, errs, err := f.svc.Departments.Save(ctx, "", catalogapp.DepartmentInput{Name: &name})
		require.NoError(t, err)
		require.Empty(t, errs)
		ids = append(ids, d.ID.String())
	}

	res := f.do(ctx, admin, `mutation($ids: [ID!]!) {
		departmentBulkStatusChange(ids: $ids, status: "SUSPENDED") { count errors { message } }
	}`, map[string]interface{}{"ids": ids})
	require.Empty(t, res.Errors)
	assert.Equal(t, 2, path(res.Data, "departmentBulkStatusChange", "count"))

	res = f.do(ctx, admin, `{ departments(manager: ACTIVE) { totalCount } }`, nil)
	require.Empty(t, res.Errors)
	assert.Equal(t, 0, path(res.Data, "departments", "totalCount"))

	res = f.do(ctx, admin, `{ departments(manager: ALL) { totalCount items { status } } }`, nil)
	require.Empty(t, res.Errors)
	assert.Equal(t, 2, path(res.Data, "departments", "totalCount"))
}

func TestStoresArePublic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	name, country := "Corner Shop", "BD"
	_, errs, err := f.svc.Stores.Save(ctx, "", commerceapp.StoreInput{Name: &name, Country: &country})
	require.NoError(t, err)
	require.Empty(t, errs)

	res := f.do(ctx, nil, `{ stores { totalCount items { name country businessType } } }`, nil)
	require.Empty(t, res.Errors)
	assert.Equal(t, 1, path(res.Data, "stores", "totalCount"))

	res = f.do(ctx, nil, `{ orders { totalCount } }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "You have no permission to use orders", res.Errors[0].Message)
}

const orderInvoice = `mutation($id: ID!) {
	orderInvoice(id: $id) {
		invoice { url contentType expiresAt }
		errors { field message }
	}
}`

func TestOrderInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := f.admin(t, "01711110001")

	name, country := "Corner Shop", "BD"
	store, errs, err := f.svc.Stores.Save(ctx, "", commerceapp.StoreInput{Name: &name, Country: &country})
	require.NoError(t, err)
	require.Empty(t, errs)
	_, errs, err = f.svc.Stores.ChangeStatus(ctx, store.ID.String(), "ACTIVE", nil)
	require.NoError(t, err)
	require.Empty(t, errs)

	master := catalog.NewProductMaster("M100000001")
	milk := "Milk 1L"
	master.Name = &milk
	master.AssignIdentity()
	require.NoError(t, f.repos.Masters().Save(ctx, master))

	storeID, masterID := store.ID.String(), master.ID.String()
	price, stock := decimal.NewFromInt(50), decimal.NewFromInt(10)
	listing, errs, err := f.svc.StoreProducts.Save(ctx, "", commerceapp.StoreProductInput{
		Store: &storeID, ProductMaster: &masterID, RetailPrice: &price, InitialStock: &stock,
	})
	require.NoError(t, err)
	require.Empty(t, errs)

	address := "House 1"
	order, errs, err := f.svc.Orders.PlaceOrder(ctx, uuid.New(), commerceapp.PlaceOrderInput{
		Store:   storeID,
		Items:   []commerceapp.OrderItemInput{{StoreProduct: listing.ID.String(), Qty: decimal.NewFromInt(1)}},
		Address: &address,
	})
	require.NoError(t, err)
	require.Empty(t, errs)

	vars := map[string]interface{}{"id": order.ID.String()}
	res := f.do(ctx, nil, orderInvoice, vars)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "You have no permission to use orderInvoice", res.Errors[0].Message)

	res = f.do(ctx, staff, orderInvoice, vars)
	require.Empty(t, res.Errors)
	assert.Nil(t, path(res.Data, "orderInvoice", "invoice"))
	assert.Equal(t, "status", path(res.Data, "orderInvoice", "errors").([]interface{})[0].(map[string]interface{})["field"])

	_, errs, err = f.svc.Orders.ChangeStatus(ctx, order.ID.String(), "CREATED")
	require.NoError(t, err)
	require.Empty(t, errs)

	res = f.do(ctx, staff, orderInvoice, vars)
	require.Empty(t, res.Errors)
	assert.Equal(t, printing.ContentTypeHTML, path(res.Data, "orderInvoice", "invoice", "contentType"))
	assert.Contains(t, path(res.Data, "orderInvoice", "invoice", "url"), "http://files.test/invoices/"+store.Code+"/"+order.Code+".html")

	// another customer cannot see the order
	stranger := identity.NewUser("US9999", "01799999999")
	res = f.do(ctx, stranger, orderInvoice, vars)
	require.Empty(t, res.Errors)
	assert.Nil(t, path(res.Data, "orderInvoice", "invoice"))
	assert.Equal(t, "Order not found.", path(res.Data, "orderInvoice", "errors").([]interface{})[0].(map[string]interface{})["message"])
}

func TestPublicMasksUnexpectedErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	b := &builder{logger: zap.New(core)}
	ctx := context.Background()

	err := b.public(ctx, "departments", errors.New("pq: connection refused"))
	assert.Equal(t, errInternal, err)
	assert.Equal(t, 1, logs.FilterMessage("Resolver failed").Len())

	nf := &mutation.NodeNotFoundError{ID: "x"}
	assert.Equal(t, nf, b.public(ctx, "department", nf))
	assert.Equal(t, identityapp.ErrUnauthenticated, b.public(ctx, "me", identityapp.ErrUnauthenticated))
	assert.Equal(t, 1, logs.Len())
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	r := gin.New()
	NewHandler(f.schema, 1024).Register(r, "/graphql")

	code, resp := testutil.PostGraphQL(t, r, "", `{ stores { totalCount } }`, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, float64(0), resp.Field("stores", "totalCount"))

	code, resp = testutil.PostGraphQL(t, r, "", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "must provide query string", resp.Errors[0].Message)
}

const changeOrderStatus = `mutation($id: ID!, $status: String!) {
	orderStatusChange(id: $id, status: $status) {
		order { status }
		errors { field message }
	}
}`

func TestStoreStaffAreScopedToTheirStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	own, _, ownOrder := f.shop(t, "Own Shop", "M100000001")
	_, otherListing, otherOrder := f.shop(t, "Other Shop", "M100000002")
	staff := f.storeUser(t, "01712220001", own.ID)

	res := f.do(ctx, staff, changeOrderStatus, map[string]interface{}{"id": otherOrder.ID.String(), "status": "CANCELLED"})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "You have no permission to use orderStatusChange", res.Errors[0].Message)
	stored, err := f.repos.Orders().FindByID(ctx, otherOrder.ID)
	require.NoError(t, err)
	assert.Equal(t, commerce.OrderPending, stored.Status)

	res = f.do(ctx, staff, `mutation($id: ID!) {
		storeProductUpdate(id: $id, input: {retailPrice: "1"}) { storeProduct { retailPrice } }
	}`, map[string]interface{}{"id": otherListing.ID.String()})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "You have no permission to use storeProductUpdate", res.Errors[0].Message)
	listing, err := f.repos.StoreProducts().FindByID(ctx, otherListing.ID, shared.ManagerAll)
	require.NoError(t, err)
	assert.True(t, listing.RetailPrice.Equal(decimal.NewFromInt(50)))

	res = f.do(ctx, staff, `query($store: ID) { orders(store: $store) { totalCount items { id store } } }`,
		map[string]interface{}{"store": otherListing.StoreID.String()})
	require.Empty(t, res.Errors)
	assert.Equal(t, 1, path(res.Data, "orders", "totalCount"))
	items := path(res.Data, "orders", "items").([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, own.ID.String(), path(items[0], "store"))

	res = f.do(ctx, staff, `query($id: ID!) { order(id: $id) { id } }`, map[string]interface{}{"id": otherOrder.ID.String()})
	require.Empty(t, res.Errors)
	assert.Nil(t, path(res.Data, "order"))

	res = f.do(ctx, staff, changeOrderStatus, map[string]interface{}{"id": ownOrder.ID.String(), "status": "CREATED"})
	require.Empty(t, res.Errors)
	assert.Equal(t, "CREATED", path(res.Data, "orderStatusChange", "order", "status"))

	// admins are not tied to a store
	admin := f.admin(t, "01712220002")
	res = f.do(ctx, admin, `{ orders { totalCount } }`, nil)
	require.Empty(t, res.Errors)
	assert.Equal(t, 2, path(res.Data, "orders", "totalCount"))
}
