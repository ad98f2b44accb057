package catalog_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/tests/testutil"
)

func strPtr(s string) *string { return &s }

// countingCache is a DescendantCache recording how often it was filled
type countingCache struct {
	mu   sync.Mutex
	data map[uuid.UUID][]uuid.UUID
	sets int
}

func newCountingCache() *countingCache {
	return &countingCache{data: make(map[uuid.UUID][]uuid.UUID)}
}

func (c *countingCache) Get(_ context.Context, id uuid.UUID) ([]uuid.UUID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids, ok := c.data[id]
	return ids, ok
}

func (c *countingCache) Set(_ context.Context, id uuid.UUID, ids []uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[id] = ids
	c.sets++
}

func (c *countingCache) Invalidate(_ context.Context, ids ...uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.data, id)
	}
}

func (c *countingCache) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[uuid.UUID][]uuid.UUID)
}

type fixture struct {
	deps        catalogapp.Deps
	events      *testutil.RecordingPublisher
	cache       *countingCache
	departments *catalogapp.DepartmentService
	categories  *catalogapp.CategoryService
	brands      *catalogapp.BrandService
	attributes  *catalogapp.AttributeService
	templates   *catalogapp.TemplateService
	masters     *catalogapp.MasterService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	rel := persistence.DefaultRelations()
	events := testutil.NewRecordingPublisher()
	deps := catalogapp.Deps{
		Scope:  persistence.NewGormTransactionScope(db, rel),
		Repos:  persistence.NewRepositories(db, rel),
		Events: events,
		Logger: zap.NewNop(),
	}
	cache := newCountingCache()
	categories := catalogapp.NewCategoryService(deps, cache)
	return &fixture{
		deps:        deps,
		events:      events,
		cache:       cache,
		departments: catalogapp.NewDepartmentService(deps),
		categories:  categories,
		brands:      catalogapp.NewBrandService(deps, categories),
		attributes:  catalogapp.NewAttributeService(deps),
		templates:   catalogapp.NewTemplateService(deps, categories),
		masters:     catalogapp.NewMasterService(deps, categories),
	}
}

func requireClean(t *testing.T, errs mutation.Errors, err error) {
	t.Helper()
	require.NoError(t, err)
	require.Empty(t, errs)
}

func messages(errs mutation.Errors, field string) []string {
	var out []string
	f := mutation.CamelCase(field)
	for _, e := range errs {
		if e.Field != nil && *e.Field == f {
			out = append(out, e.Message)
		}
	}
	return out
}

func (f *fixture) category(t *testing.T, name string, parent *catalog.Category) *catalog.Category {
	t.Helper()
	in := catalogapp.CategoryInput{Name: strPtr(name)}
	if parent != nil {
		in.Parent = strPtr(parent.ID.String())
	}
	c, errs, err := f.categories.Save(context.Background(), "", in)
	requireClean(t, errs, err)
	return c
}

func (f *fixture) brand(t *testing.T, name string) *catalog.Brand {
	t.Helper()
	b, errs, err := f.brands.Save(context.Background(), "", catalogapp.BrandInput{Name: strPtr(name)})
	requireClean(t, errs, err)
	return b
}

func (f *fixture) template(t *testing.T, in catalogapp.TemplateInput) *catalog.ProductTemplate {
	t.Helper()
	tpl, errs, err := f.templates.Save(context.Background(), "", in)
	requireClean(t, errs, err)
	return tpl
}

func TestDepartmentService_CreateUpdateAndDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, errs, err := f.departments.Save(ctx, "", catalogapp.DepartmentInput{
		Name:     strPtr("Grocery"),
		SEOInput: catalogapp.SEOInput{SeoKeywords: []string{"food", "food", " daily "}},
	})
	requireClean(t, errs, err)
	assert.Equal(t, "D100000001", d.Code)
	assert.Equal(t, "grocery", d.Slug)
	assert.Equal(t, []string{"food", "daily"}, []string(d.SeoKeywords))

	_, errs, err = f.departments.Save(ctx, "", catalogapp.DepartmentInput{Name: strPtr("grocery")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Department already exists with this name."}, messages(errs, "name"))

	updated, errs, err := f.departments.Save(ctx, d.ID.String(), catalogapp.DepartmentInput{Note: strPtr("Daily needs")})
	requireClean(t, errs, err)
	assert.Equal(t, "Grocery", updated.Name)
	assert.Equal(t, "D100000001", updated.Code)
	require.NotNil(t, updated.Note)
	assert.Equal(t, "Daily needs", *updated.Note)

	page, err := f.departments.List(ctx, catalogapp.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
}

func TestDepartmentService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, errs, err := f.departments.Save(ctx, "", catalogapp.DepartmentInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"This field cannot be blank."}, messages(errs, "name"))

	_, errs, err = f.departments.Save(ctx, "", catalogapp.DepartmentInput{Name: strPtr("Fashion"), Priority: strPtr("GREAT")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Value 'GREAT' is not a valid choice."}, messages(errs, "priority"))

	_, _, err = f.departments.Save(ctx, uuid.NewString(), catalogapp.DepartmentInput{Name: strPtr("Nope")})
	var nf *mutation.NodeNotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCategoryService_Tree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.category(t, "Grocery", nil)
	child := f.category(t, "Dairy", root)
	grand := f.category(t, "Milk", child)

	assert.Equal(t, "C100000001", root.Code)
	assert.Equal(t, 0, root.Level)
	assert.Equal(t, 1, child.Level)
	assert.Equal(t, 2, grand.Level)
	require.NotNil(t, grand.ParentID)
	assert.Equal(t, child.ID, *grand.ParentID)

	_, errs, err := f.categories.Save(ctx, root.ID.String(), catalogapp.CategoryInput{Parent: strPtr(grand.ID.String())})
	require.NoError(t, err)
	assert.Equal(t, []string{"Category cannot be moved under itself or its descendants."}, messages(errs, "parent"))

	_, errs, err = f.categories.Save(ctx, "", catalogapp.CategoryInput{Name: strPtr("Bakery"), Parent: strPtr(uuid.NewString())})
	require.NoError(t, err)
	assert.Equal(t, []string{"Parent category not found."}, messages(errs, "parent"))

	_, errs, err = f.categories.Save(ctx, "", catalogapp.CategoryInput{Name: strPtr("dairy")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Category already exists with this name."}, messages(errs, "name"))
}

func TestCategoryService_MoveCarriesSubtree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.category(t, "Grocery", nil)
	child := f.category(t, "Dairy", root)
	grand := f.category(t, "Milk", child)

	moved, errs, err := f.categories.Save(ctx, child.ID.String(), catalogapp.CategoryInput{Parent: strPtr("")})
	requireClean(t, errs, err)
	assert.Nil(t, moved.ParentID)
	assert.Equal(t, 0, moved.Level)

	g, err := f.categories.Get(ctx, grand.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Level)
	assert.Equal(t, child.ID.String()+"/"+grand.ID.String(), g.Path)

	roots, err := f.categories.List(ctx, catalogapp.CategoryListInput{Level: new(int)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), roots.TotalCount)
}

func TestCategoryService_DescendantsAreCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.category(t, "Grocery", nil)
	child := f.category(t, "Dairy", root)
	grand := f.category(t, "Milk", child)

	ids, err := f.categories.Descendants(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{child.ID, grand.ID}, ids)
	assert.Equal(t, 1, f.cache.sets)

	again, err := f.categories.Descendants(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, ids, again)
	assert.Equal(t, 1, f.cache.sets)

	expanded, err := f.categories.ExpandCategories(ctx, []uuid.UUID{child.ID, grand.ID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{child.ID, grand.ID}, expanded)
}

func TestBrandService_Duplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.brand(t, "Acme Foods")
	assert.Equal(t, "B100000001", b.Code)
	assert.Equal(t, "acme-foods", b.Slug)

	_, errs, err := f.brands.Save(ctx, "", catalogapp.BrandInput{Name: strPtr("ACME foods")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Brand already exists with this name."}, messages(errs, "name"))

	_, errs, err = f.brands.Save(ctx, b.ID.String(), catalogapp.BrandInput{Website: strPtr("not a url")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Enter a valid URL."}, messages(errs, "website"))
}

func TestBrandService_ListByCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	grocery := f.category(t, "Grocery", nil)
	dairy := f.category(t, "Dairy", grocery)
	fashion := f.category(t, "Fashion", nil)
	acme := f.brand(t, "Acme")
	f.brand(t, "Zeta")
	f.template(t, catalogapp.TemplateInput{
		Name:       strPtr("Milk"),
		Brands:     []string{acme.ID.String()},
		Categories: []string{dairy.ID.String()},
	})

	page, err := f.brands.List(ctx, catalogapp.ListInput{}, []string{grocery.ID.String()})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, acme.ID, page.Items[0].ID)

	page, err = f.brands.List(ctx, catalogapp.ListInput{}, []string{fashion.ID.String()})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = f.brands.List(ctx, catalogapp.ListInput{}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
}

func TestAttributeService_GroupItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, errs, err := f.attributes.SaveGroup(ctx, "", catalogapp.AttributeGroupInput{
		Name:  strPtr("Nutrition"),
		Items: []string{"Fat", "Sugar"},
	})
	requireClean(t, errs, err)
	require.Len(t, g.Items, 2)

	_, errs, err = f.attributes.SaveGroup(ctx, g.ID.String(), catalogapp.AttributeGroupInput{Items: []string{"fat"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Item fat already exists within this attribute group."}, messages(errs, "items"))

	_, errs, err = f.attributes.SaveGroup(ctx, g.ID.String(), catalogapp.AttributeGroupInput{Items: []string{"Salt", "salt"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Provided items are not unique."}, messages(errs, "items"))

	_, errs, err = f.attributes.SaveGroup(ctx, "", catalogapp.AttributeGroupInput{Name: strPtr("nutrition")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Attribute group already exists."}, messages(errs, "name"))

	extended, errs, err := f.attributes.SaveGroup(ctx, g.ID.String(), catalogapp.AttributeGroupInput{Items: []string{"Salt"}})
	requireClean(t, errs, err)
	assert.Len(t, extended.Items, 3)
}

func TestAttributeService_Values(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, errs, err := f.attributes.SaveAttribute(ctx, "", catalogapp.AttributeInput{
		Name:         strPtr("Volume"),
		ValuePattern: strPtr(`^\d+(ml|L)$`),
		Values:       []string{"500ml", "1L"},
	})
	requireClean(t, errs, err)
	require.Len(t, a.Values, 2)

	_, errs, err = f.attributes.SaveAttribute(ctx, a.ID.String(), catalogapp.AttributeInput{Values: []string{"big"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Value big is not a valid format."}, messages(errs, "values"))

	_, errs, err = f.attributes.SaveAttribute(ctx, a.ID.String(), catalogapp.AttributeInput{Values: []string{"1L"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Value 1L already exists within this attribute."}, messages(errs, "values"))

	_, errs, err = f.attributes.SaveAttribute(ctx, "", catalogapp.AttributeInput{Name: strPtr("volume")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Attribute already exists with this name."}, messages(errs, "name"))
}

func TestTemplateService_CreateWithMasters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acme := f.brand(t, "Acme")
	dairy := f.category(t, "Dairy", nil)

	tpl := f.template(t, catalogapp.TemplateInput{
		Name:       strPtr("Milk"),
		Brands:     []string{acme.ID.String()},
		Categories: []string{dairy.ID.String()},
		SEOInput:   catalogapp.SEOInput{SeoKeywords: []string{"milk", "dairy"}},
		Masters: []catalogapp.MasterInput{
			{Name: strPtr("Milk 1L"), Countries: []string{"bd"}},
			{},
		},
	})
	assert.Equal(t, "T100000001", tpl.Code)
	assert.Equal(t, "acme-milk", tpl.Slug)

	page, err := f.masters.List(ctx, catalogapp.ProductListInput{Template: strPtr(tpl.ID.String())})
	require.NoError(t, err)
	require.Equal(t, int64(2), page.TotalCount)

	byCode := make(map[string]catalog.ProductMaster)
	for _, m := range page.Items {
		byCode[m.Code] = m
	}
	named, ok := byCode["M100000001"]
	require.True(t, ok)
	require.NotNil(t, named.Slug)
	assert.Equal(t, "milk-1l", *named.Slug)
	assert.Equal(t, "M100000001", *named.Barcode)
	assert.Equal(t, catalog.PackingSingle, named.PackingType)
	assert.Equal(t, []string{"milk", "dairy"}, []string(named.SeoKeywords))

	unnamed, ok := byCode["M100000002"]
	require.True(t, ok)
	assert.Equal(t, "M100000002", *unnamed.Slug)

	full, err := f.masters.Get(ctx, named.ID)
	require.NoError(t, err)
	require.Len(t, full.Products, 1)
	assert.Equal(t, "BD", full.Products[0].CountryCode)
}

func TestTemplateService_UpdateKeepsSlugAndRelations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acme := f.brand(t, "Acme")
	tpl := f.template(t, catalogapp.TemplateInput{Name: strPtr("Milk"), Brands: []string{acme.ID.String()}})

	updated, errs, err := f.templates.Save(ctx, tpl.ID.String(), catalogapp.TemplateInput{
		Name:   strPtr("Fresh Milk"),
		Brands: []string{acme.ID.String()},
	})
	requireClean(t, errs, err)
	assert.Equal(t, "Fresh Milk", updated.Name)
	assert.Equal(t, "acme-milk", updated.Slug)

	stored, err := f.templates.Get(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Brands, 1)

	_, errs, err = f.templates.Save(ctx, "", catalogapp.TemplateInput{Name: strPtr("Milk"), Brands: []string{acme.ID.String()}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Product template already exists with this name."}, messages(errs, "name"))

	_, errs, err = f.templates.Save(ctx, "", catalogapp.TemplateInput{Name: strPtr("Butter"), Brands: []string{uuid.NewString()}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Brand not found."}, messages(errs, "brands"))
}

func TestTemplateService_SetAttributes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	size, errs, err := f.attributes.SaveAttribute(ctx, "", catalogapp.AttributeInput{Name: strPtr("Size"), QtyAttribute: boolPtr(true)})
	requireClean(t, errs, err)
	weight, errs, err := f.attributes.SaveAttribute(ctx, "", catalogapp.AttributeInput{Name: strPtr("Weight"), QtyAttribute: boolPtr(true)})
	requireClean(t, errs, err)
	color, errs, err := f.attributes.SaveAttribute(ctx, "", catalogapp.AttributeInput{Name: strPtr("Color")})
	requireClean(t, errs, err)

	tpl := f.template(t, catalogapp.TemplateInput{Name: strPtr("Shirt")})

	got, errs, err := f.templates.SetAttributes(ctx, tpl.ID.String(), catalogapp.TemplateAttributeInput{
		NewItems: []string{size.ID.String(), color.ID.String()},
	})
	requireClean(t, errs, err)
	assert.Len(t, got.Attributes, 2)

	_, errs, err = f.templates.SetAttributes(ctx, tpl.ID.String(), catalogapp.TemplateAttributeInput{
		NewItems: []string{weight.ID.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"product only accept single quantity attribute"}, messages(errs, "new_items"))

	_, errs, err = f.templates.SetAttributes(ctx, tpl.ID.String(), catalogapp.TemplateAttributeInput{
		NewItems: []string{uuid.NewString()},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"attribute not found"}, messages(errs, "new_items"))

	got, errs, err = f.templates.SetAttributes(ctx, tpl.ID.String(), catalogapp.TemplateAttributeInput{
		RemoveItems: []string{color.ID.String()},
	})
	requireClean(t, errs, err)
	require.Len(t, got.Attributes, 1)
	assert.Equal(t, size.ID, got.Attributes[0].AttributeID)

	attrs, err := f.templates.Attributes(ctx, tpl.ID)
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, "Size", attrs[0].Name)
}

func TestTemplateService_ChildCollections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	group, errs, err := f.attributes.SaveGroup(ctx, "", catalogapp.AttributeGroupInput{
		Name:  strPtr("Nutrition"),
		Items: []string{"Fat"},
	})
	requireClean(t, errs, err)
	tpl := f.template(t, catalogapp.TemplateInput{Name: strPtr("Milk")})

	got, errs, err := f.templates.SetAttributeGroups(ctx, tpl.ID.String(), catalogapp.TemplateAttributeGroupInput{
		Items: []catalogapp.TemplateAttributeGroupItemInput{{
			AttributeGroup: group.ID.String(),
			Values:         []catalogapp.GroupValueInput{{Item: group.Items[0].ID.String(), Value: "3.5g"}},
		}},
	})
	requireClean(t, errs, err)
	require.Len(t, got.AttributeGroups, 1)
	require.Len(t, got.AttributeGroups[0].Values, 1)

	_, errs, err = f.templates.SetAttributeGroups(ctx, tpl.ID.String(), catalogapp.TemplateAttributeGroupInput{
		Items: []catalogapp.TemplateAttributeGroupItemInput{{
			AttributeGroup: group.ID.String(),
			Values:         []catalogapp.GroupValueInput{{Item: group.Items[0].ID.String(), Value: " "}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"attribute group item value not found"}, messages(errs, "values"))

	got, errs, err = f.templates.SetDescriptions(ctx, tpl.ID.String(), []catalogapp.DescriptionInput{
		{Title: "Storage", Description: "Keep refrigerated."},
	})
	requireClean(t, errs, err)
	assert.Len(t, got.Descriptions, 1)

	_, errs, err = f.templates.SetPolicies(ctx, tpl.ID.String(), []catalogapp.PolicyInput{
		{PolicyType: "REFUND", Content: "Within 7 days"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Value 'REFUND' is not a valid choice."}, messages(errs, "policy_type"))

	period := 12
	got, errs, err = f.templates.SetWarranty(ctx, tpl.ID.String(), catalogapp.WarrantyInput{
		WarrantyAvailable: true,
		WarrantyPeriod:    &period,
		TimeType:          strPtr("MONTH"),
	})
	requireClean(t, errs, err)
	require.NotNil(t, got.Warranty)
	first := got.Warranty.ID

	got, errs, err = f.templates.SetWarranty(ctx, tpl.ID.String(), catalogapp.WarrantyInput{})
	requireClean(t, errs, err)
	assert.Equal(t, first, got.Warranty.ID)
	assert.False(t, got.Warranty.WarrantyAvailable)

	_, errs, err = f.templates.SetWarranty(ctx, tpl.ID.String(), catalogapp.WarrantyInput{WarrantyAvailable: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"This field cannot be blank."}, messages(errs, "warranty_period"))
}

func TestTemplateService_ProductDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tpl := f.template(t, catalogapp.TemplateInput{Name: strPtr("Milk")})

	_, errs, err := f.templates.SetNutritions(ctx, tpl.ID.String(), []catalogapp.NutritionInput{
		{Nutrition: "Fat", Value: strPtr("3.5g")},
		{Nutrition: "Sugar", Value: strPtr(" ")},
	})
	requireClean(t, errs, err)
	_, errs, err = f.templates.SetIngredients(ctx, tpl.ID.String(), []catalogapp.IngredientInput{{Ingredient: "Whole milk"}})
	requireClean(t, errs, err)
	_, errs, err = f.templates.SetHowToUse(ctx, tpl.ID.String(), []catalogapp.HowToUseInput{
		{Title: "Shake well"},
		{Title: "Serve chilled", Description: strPtr("Best below 5C.")},
	})
	requireClean(t, errs, err)
	_, errs, err = f.templates.SetCautions(ctx, tpl.ID.String(), []catalogapp.CautionInput{{Message: "Contains lactose."}})
	requireClean(t, errs, err)

	got, err := f.templates.Get(ctx, tpl.ID)
	require.NoError(t, err)
	require.Len(t, got.Nutritions, 2)
	assert.Equal(t, "Fat", got.Nutritions[0].Nutrition)
	assert.Equal(t, "3.5g", *got.Nutritions[0].Value)
	assert.Nil(t, got.Nutritions[1].Value)
	require.Len(t, got.Ingredients, 1)
	require.Len(t, got.HowToUse, 2)
	assert.Equal(t, "Serve chilled", got.HowToUse[1].Title)
	assert.Equal(t, 1, got.HowToUse[1].SortOrder)
	require.Len(t, got.Cautions, 1)

	got, errs, err = f.templates.SetNutritions(ctx, tpl.ID.String(), []catalogapp.NutritionInput{{Nutrition: "Protein"}})
	requireClean(t, errs, err)
	require.Len(t, got.Nutritions, 1)
	assert.Equal(t, "Protein", got.Nutritions[0].Nutrition)

	_, errs, err = f.templates.SetCautions(ctx, tpl.ID.String(), []catalogapp.CautionInput{{Message: "  "}})
	require.NoError(t, err)
	assert.Equal(t, []string{"This field cannot be blank."}, messages(errs, "message"))
	_, errs, err = f.templates.SetHowToUse(ctx, tpl.ID.String(), []catalogapp.HowToUseInput{{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"This field cannot be blank."}, messages(errs, "title"))

	got, err = f.templates.Get(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Len(t, got.Cautions, 1)
	assert.Len(t, got.HowToUse, 2)
}

func TestTemplateService_ListIncludesDescendantCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	grocery := f.category(t, "Grocery", nil)
	dairy := f.category(t, "Dairy", grocery)
	fashion := f.category(t, "Fashion", nil)
	f.template(t, catalogapp.TemplateInput{Name: strPtr("Milk"), Categories: []string{dairy.ID.String()}})
	f.template(t, catalogapp.TemplateInput{Name: strPtr("Shirt"), Categories: []string{fashion.ID.String()}})

	page, err := f.templates.List(ctx, catalogapp.ProductListInput{Categories: []string{grocery.ID.String()}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Milk", page.Items[0].Name)

	page, err = f.templates.List(ctx, catalogapp.ProductListInput{SortBy: "DATE"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
}

func TestMasterService_AttributeCoverage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	size, errs, err := f.attributes.SaveAttribute(ctx, "", catalogapp.AttributeInput{Name: strPtr("Size"), Values: []string{"S", "M"}})
	requireClean(t, errs, err)
	tpl := f.template(t, catalogapp.TemplateInput{Name: strPtr("Shirt")})
	_, errs, err = f.templates.SetAttributes(ctx, tpl.ID.String(), catalogapp.TemplateAttributeInput{NewItems: []string{size.ID.String()}})
	requireClean(t, errs, err)

	_, errs, err = f.masters.Save(ctx, "", catalogapp.MasterInput{ProductTemplate: strPtr(tpl.ID.String()), Name: strPtr("Shirt S")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Provide all the attributes defined for template"}, messages(errs, "attributes"))

	_, errs, err = f.masters.Save(ctx, "", catalogapp.MasterInput{
		ProductTemplate: strPtr(tpl.ID.String()),
		Name:            strPtr("Shirt S"),
		Attributes:      []catalogapp.AttributeValueInput{{Attribute: size.ID.String(), Value: uuid.NewString()}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Attribute value not found."}, messages(errs, "attribute"))

	_, errs, err = f.masters.Save(ctx, "", catalogapp.MasterInput{
		ProductTemplate: strPtr(tpl.ID.String()),
		Name:            strPtr("Shirt S"),
		Attributes:      []catalogapp.AttributeValueInput{{Attribute: uuid.NewString(), Value: size.Values[0].ID.String()}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Attribute not found."}, messages(errs, "attribute"))

	m, errs, err := f.masters.Save(ctx, "", catalogapp.MasterInput{
		ProductTemplate: strPtr(tpl.ID.String()),
		Name:            strPtr("Shirt S"),
		Attributes:      []catalogapp.AttributeValueInput{{Attribute: size.ID.String(), Value: size.Values[0].ID.String()}},
	})
	requireClean(t, errs, err)
	stored, err := f.masters.Get(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, stored.AttributeValues, 1)
	assert.Equal(t, size.Values[0].ID, stored.AttributeValues[0].AttributeValueID)

	_, errs, err = f.masters.Save(ctx, "", catalogapp.MasterInput{ProductTemplate: strPtr(uuid.NewString())})
	require.NoError(t, err)
	assert.Equal(t, []string{"Product template not found"}, messages(errs, "product_template"))
}

func TestMasterService_BarcodeAndParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, errs, err := f.masters.Save(ctx, "", catalogapp.MasterInput{Name: strPtr("Soap"), Barcode: strPtr("8901234")})
	requireClean(t, errs, err)

	_, errs, err = f.masters.Save(ctx, "", catalogapp.MasterInput{Name: strPtr("Soap Bar"), Barcode: strPtr("8901234")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Product master already exists with this barcode."}, messages(errs, "name"))

	_, errs, err = f.masters.Save(ctx, "", catalogapp.MasterInput{Name: strPtr("Soap")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Product master already exists with this name."}, messages(errs, "name"))

	_, errs, err = f.masters.Save(ctx, "", catalogapp.MasterInput{Name: strPtr("Soap Pack"), Parent: strPtr(uuid.NewString())})
	require.NoError(t, err)
	assert.Equal(t, []string{"Parent product master not found"}, messages(errs, "product_master"))

	found, exists, err := f.masters.CheckBarcode(ctx, "8901234")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, a.ID, found.ID)

	_, exists, err = f.masters.CheckBarcode(ctx, "0000")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMasterService_Countries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, errs, err := f.masters.Save(ctx, "", catalogapp.MasterInput{Name: strPtr("Tea"), Countries: []string{"ZZZ"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Enter a valid country code."}, messages(errs, "countries"))

	m, errs, err := f.masters.Save(ctx, "", catalogapp.MasterInput{Name: strPtr("Tea"), Countries: []string{"bd", " BD ", "in"}})
	requireClean(t, errs, err)

	full, err := f.masters.Get(ctx, m.ID)
	require.NoError(t, err)
	codes := make([]string, 0, len(full.Products))
	for _, p := range full.Products {
		codes = append(codes, p.CountryCode)
	}
	assert.ElementsMatch(t, []string{"BD", "IN"}, codes)
}

func TestMasterService_SaveList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tpl := f.template(t, catalogapp.TemplateInput{
		Name:    strPtr("Milk"),
		Masters: []catalogapp.MasterInput{{Name: strPtr("Milk 1L")}},
	})
	page, err := f.masters.List(ctx, catalogapp.ProductListInput{Template: strPtr(tpl.ID.String())})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	first := page.Items[0]

	saved, errs, err := f.masters.SaveList(ctx, tpl.ID.String(), catalogapp.MasterListInput{
		Items: []catalogapp.MasterInput{
			{ID: strPtr(first.ID.String()), SubName: strPtr("1 litre")},
			{Name: strPtr("Milk 2L")},
		},
	})
	requireClean(t, errs, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "1 litre", *saved[0].SubName)
	assert.Equal(t, "M100000002", saved[1].Code)

	_, errs, err = f.masters.SaveList(ctx, tpl.ID.String(), catalogapp.MasterListInput{RemoveItems: []string{first.ID.String()}})
	requireClean(t, errs, err)

	page, err = f.masters.List(ctx, catalogapp.ProductListInput{Template: strPtr(tpl.ID.String())})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Milk 2L", *page.Items[0].Name)

	_, errs, err = f.masters.SaveList(ctx, tpl.ID.String(), catalogapp.MasterListInput{RemoveItems: []string{uuid.NewString()}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Product master not found."}, messages(errs, "items"))
}

func boolPtr(b bool) *bool { return &b }
