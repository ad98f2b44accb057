package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStoreProductRepository implements StoreProductRepository using GORM
type GormStoreProductRepository struct {
	db *gorm.DB
}

// NewGormStoreProductRepository creates a new GormStoreProductRepository
func NewGormStoreProductRepository(db *gorm.DB) *GormStoreProductRepository {
	return &GormStoreProductRepository{db: db}
}

// storeProductScope extends the active manager with the sellable conditions
func storeProductScope(manager shared.Manager) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(managerScope(manager))
		if manager == shared.ManagerActive {
			db = db.Where("stock > 0 AND retail_price > 0")
		}
		return db
	}
}

func (r *GormStoreProductRepository) FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*commerce.StoreProduct, error) {
	return findOne[commerce.StoreProduct](r.db.WithContext(ctx).Scopes(storeProductScope(manager)).Where("id = ?", id))
}

// FindByIDsForUpdate locks the listed rows for the rest of the transaction
func (r *GormStoreProductRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]commerce.StoreProduct, error) {
	var out []commerce.StoreProduct
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *GormStoreProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]commerce.StoreProduct, error) {
	var out []commerce.StoreProduct
	err := r.applyFilter(r.db.WithContext(ctx).Model(&commerce.StoreProduct{}), filter).
		Scopes(pageScope(filter, StoreProductSortFields, "name")).
		Find(&out).Error
	return out, err
}

func (r *GormStoreProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&commerce.StoreProduct{}), filter).Count(&count).Error
	return count, err
}

// Exists reports whether the store already lists the master
func (r *GormStoreProductRepository) Exists(ctx context.Context, storeID, masterID uuid.UUID, excludeID uuid.UUID) (bool, error) {
	return existsWhere(ctx, r.db, &commerce.StoreProduct{}, excludeID,
		"store_id = ? AND product_master_id = ?", storeID, masterID)
}

func (r *GormStoreProductRepository) Save(ctx context.Context, product *commerce.StoreProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// AddStockEntries appends rows to the stock ledger
func (r *GormStoreProductRepository) AddStockEntries(ctx context.Context, entries ...*commerce.StockEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(entries).Error
}

// FindStockEntries lists the ledger of one store product, newest first
func (r *GormStoreProductRepository) FindStockEntries(ctx context.Context, storeProductID uuid.UUID, filter shared.Filter) ([]commerce.StockEntry, error) {
	if filter.OrderBy == "" {
		filter.OrderBy, filter.OrderDir = "created_at", "desc"
	}
	var out []commerce.StockEntry
	err := r.db.WithContext(ctx).
		Where("store_product_id = ?", storeProductID).
		Scopes(pageScope(filter, StockEntrySortFields, "created_at")).
		Find(&out).Error
	return out, err
}

func (r *GormStoreProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Scopes(
		storeProductScope(filter.Manager),
		searchScope(filter.Search, "name"),
	)
	if ids := uuidList(filter.Filters[commerce.FilterStoreID]); len(ids) > 0 {
		query = query.Where("store_id IN ?", ids)
	}
	return query
}

var _ commerce.StoreProductRepository = (*GormStoreProductRepository)(nil)
