package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*commerce.Store, error) {
	return findOne[commerce.Store](r.db.WithContext(ctx).Scopes(managerScope(manager)).Where("id = ?", id))
}

func (r *GormStoreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]commerce.Store, error) {
	var out []commerce.Store
	err := r.applyFilter(r.db.WithContext(ctx).Model(&commerce.Store{}), filter).
		Scopes(pageScope(filter, NamedSortFields, "name")).
		Find(&out).Error
	return out, err
}

func (r *GormStoreRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&commerce.Store{}), filter).Count(&count).Error
	return count, err
}

func (r *GormStoreRepository) Save(ctx context.Context, store *commerce.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

func (r *GormStoreRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return existsWhere(ctx, r.db, &commerce.Store{}, excludeID, "slug = ?", slug)
}

func (r *GormStoreRepository) LastCode(ctx context.Context) (string, error) {
	return lastCode(ctx, r.db, &commerce.Store{})
}

func (r *GormStoreRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	return query.Scopes(
		managerScope(filter.Manager),
		searchScope(filter.Search, "name", "slug", "code"),
	)
}

var _ commerce.StoreRepository = (*GormStoreRepository)(nil)
