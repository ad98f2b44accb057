package persistence_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/tests/testutil"
)

func saveDepartments(t *testing.T, repo *persistence.GormDepartmentRepository, names ...string) []*catalog.Department {
	t.Helper()
	out := make([]*catalog.Department, 0, len(names))
	for i, name := range names {
		d := catalog.NewDepartment("D10000000" + string(rune('1'+i)))
		d.Rename(name)
		require.NoError(t, repo.Save(context.Background(), d))
		out = append(out, d)
	}
	return out
}

func TestGormDepartmentRepository_FindAllSearchAndPage(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := persistence.NewGormDepartmentRepository(db)
	ctx := context.Background()
	depts := saveDepartments(t, repo, "Grocery", "Fashion", "Electronics", "Green Tea")

	all, err := repo.FindAll(ctx, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Electronics", all[0].Name)
	assert.Equal(t, "Grocery", all[3].Name)

	found, err := repo.FindAll(ctx, shared.Filter{Search: "GR"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	page, err := repo.FindAll(ctx, shared.Filter{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Fashion", page[0].Name)

	require.NoError(t, db.Model(depts[0]).Update("status", shared.StatusDeleted).Error)
	count, err := repo.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	deleted, err := repo.Count(ctx, shared.Filter{Manager: shared.ManagerDeleted})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestGormDepartmentRepository_FindByIDManagers(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := persistence.NewGormDepartmentRepository(db)
	ctx := context.Background()
	dept := saveDepartments(t, repo, "Grocery")[0]
	dept.SetStatus(shared.StatusDeleted)
	require.NoError(t, repo.Save(ctx, dept))

	_, err := repo.FindByID(ctx, dept.ID, shared.ManagerDefault)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	got, err := repo.FindByID(ctx, dept.ID, shared.ManagerAll)
	require.NoError(t, err)
	assert.Equal(t, "grocery", got.Slug)
}

func TestGormDepartmentRepository_ExistsBySlugAndLastCode(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := persistence.NewGormDepartmentRepository(db)
	ctx := context.Background()

	last, err := repo.LastCode(ctx)
	require.NoError(t, err)
	assert.Empty(t, last)

	depts := saveDepartments(t, repo, "Grocery", "Fashion")
	require.NoError(t, db.Model(depts[1]).Update("status", shared.StatusDeleted).Error)

	exists, err := repo.ExistsBySlug(ctx, "grocery", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBySlug(ctx, "grocery", depts[0].ID)
	require.NoError(t, err)
	assert.False(t, exists)

	last, err = repo.LastCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "D100000002", last)
}

func TestLastCode_LongerCodesSortLast(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := persistence.NewGormBrandRepository(db)
	ctx := context.Background()
	for _, code := range []string{"B999999999", "B1000000000"} {
		b := catalog.NewBrand(code)
		b.Rename("Brand " + code)
		require.NoError(t, repo.Save(ctx, b))
	}

	last, err := repo.LastCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B1000000000", last)
}

func TestGormCategoryRepository_TreeQueries(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	root, child, grandchild := categoryTree(t, db)
	repo := persistence.NewGormCategoryRepository(db)
	ctx := context.Background()

	ids, err := repo.FindDescendantIDs(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{child.ID, grandchild.ID}, ids)

	level1, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]interface{}{catalog.FilterLevel: 1}})
	require.NoError(t, err)
	require.Len(t, level1, 1)
	assert.Equal(t, child.ID, level1[0].ID)

	children, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]interface{}{catalog.FilterParentID: child.ID}})
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, grandchild.ID, children[0].ID)
}

func TestGormCategoryRepository_MoveSubtree(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	root, child, grandchild := categoryTree(t, db)
	repo := persistence.NewGormCategoryRepository(db)
	ctx := context.Background()

	oldPath, oldLevel := child.Path, child.Level
	require.NoError(t, child.MoveUnder(nil))
	require.NoError(t, repo.Save(ctx, child))
	require.NoError(t, repo.MoveSubtree(ctx, oldPath, child.Path, child.Level-oldLevel))

	moved, err := repo.FindByID(ctx, grandchild.ID, shared.ManagerDefault)
	require.NoError(t, err)
	assert.Equal(t, 1, moved.Level)
	assert.Equal(t, child.ID.String()+"/"+grandchild.ID.String(), moved.Path)

	ids, err := repo.FindDescendantIDs(ctx, root.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGormAttributeGroupRepository_SaveWithItems(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := persistence.NewGormAttributeGroupRepository(db)
	ctx := context.Background()
	group := catalog.NewAttributeGroup("Nutrition")
	require.Empty(t, group.AddItems([]string{"Sugar", "Fat"}))
	require.NoError(t, repo.Save(ctx, group))

	got, err := repo.FindByID(ctx, group.ID, shared.ManagerDefault)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Sugar", got.Items[0].Name)
	assert.Equal(t, "fat", got.Items[1].Slug)
}

func TestGormStoreProductRepository_ActiveManagerNeedsStockAndPrice(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := persistence.NewGormStoreProductRepository(db)
	ctx := context.Background()
	storeID := uuid.New()

	sellable := commerce.NewStoreProduct(storeID, uuid.New(), "Milk")
	sellable.Stock = decimal.NewFromInt(5)
	sellable.RetailPrice = decimal.NewFromInt(60)
	unpriced := commerce.NewStoreProduct(storeID, uuid.New(), "Bread")
	unpriced.Stock = decimal.NewFromInt(3)
	for _, p := range []*commerce.StoreProduct{sellable, unpriced} {
		require.NoError(t, repo.Save(ctx, p))
	}

	active, err := repo.FindAll(ctx, shared.Filter{Manager: shared.ManagerActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, sellable.ID, active[0].ID)
	assert.True(t, active[0].Stock.Equal(decimal.NewFromInt(5)))

	visible, err := repo.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), visible)

	exists, err := repo.Exists(ctx, storeID, sellable.ProductMasterID, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	scope := persistence.NewGormTransactionScope(db, persistence.DefaultRelations())
	ctx := context.Background()

	err := scope.Execute(ctx, func(repos mutation.Repositories) error {
		d := catalog.NewDepartment("D100000001")
		d.Rename("Grocery")
		if err := repos.Departments().Save(ctx, d); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	count, err := persistence.NewGormDepartmentRepository(db).Count(ctx, shared.Filter{Manager: shared.ManagerAll})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLastCode_QueryShape(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery(`SELECT "code" FROM "product_masters" ORDER BY LENGTH\(code\) DESC,code DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("M100000042"))

	last, err := persistence.NewGormProductMasterRepository(mockDB.DB).LastCode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "M100000042", last)
	mockDB.ExpectationsWereMet(t)
}
