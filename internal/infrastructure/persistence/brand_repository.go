package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBrandRepository implements BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

func (r *GormBrandRepository) FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*catalog.Brand, error) {
	return findOne[catalog.Brand](r.db.WithContext(ctx).Scopes(managerScope(manager)).Where("id = ?", id))
}

func (r *GormBrandRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Brand, error) {
	return findByIDs[catalog.Brand](ctx, r.db, ids)
}

func (r *GormBrandRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Brand, error) {
	var out []catalog.Brand
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Brand{}), filter).
		Scopes(pageScope(filter, NamedSortFields, "name")).
		Find(&out).Error
	return out, err
}

func (r *GormBrandRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Brand{}), filter).Count(&count).Error
	return count, err
}

func (r *GormBrandRepository) Save(ctx context.Context, brand *catalog.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

func (r *GormBrandRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return existsWhere(ctx, r.db, &catalog.Brand{}, excludeID, "slug = ?", slug)
}

func (r *GormBrandRepository) LastCode(ctx context.Context) (string, error) {
	return lastCode(ctx, r.db, &catalog.Brand{})
}

// applyFilter narrows brands to those carried by templates in the given categories
func (r *GormBrandRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Scopes(
		managerScope(filter.Manager),
		searchScope(filter.Search, "name", "slug", "code"),
	)
	if ids := uuidList(filter.Filters[catalog.FilterCategoryIDs]); len(ids) > 0 {
		templates := r.db.Model(&catalog.ProductCategoryRelation{}).
			Select("product_template_id").
			Where("category_id IN ? AND status <> ?", ids, shared.StatusDeleted)
		brands := r.db.Model(&catalog.ProductBrandRelation{}).
			Select("brand_id").
			Where("product_template_id IN (?) AND status <> ?", templates, shared.StatusDeleted)
		query = query.Where("id IN (?)", brands)
	}
	return query
}

var _ catalog.BrandRepository = (*GormBrandRepository)(nil)
