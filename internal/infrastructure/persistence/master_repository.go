package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductMasterRepository implements ProductMasterRepository using GORM
type GormProductMasterRepository struct {
	db *gorm.DB
}

// NewGormProductMasterRepository creates a new GormProductMasterRepository
func NewGormProductMasterRepository(db *gorm.DB) *GormProductMasterRepository {
	return &GormProductMasterRepository{db: db}
}

func (r *GormProductMasterRepository) withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("AttributeValues").
		Preload("PackItems").
		Preload("Products", notDeleted)
}

// FindByID loads a master with attribute values, pack items and products
func (r *GormProductMasterRepository) FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*catalog.ProductMaster, error) {
	return findOne[catalog.ProductMaster](r.withChildren(r.db.WithContext(ctx)).
		Scopes(managerScope(manager)).
		Where("id = ?", id))
}

func (r *GormProductMasterRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ProductMaster, error) {
	return findByIDs[catalog.ProductMaster](ctx, r.db, ids)
}

// FindByBarcode finds a non-deleted master by barcode
func (r *GormProductMasterRepository) FindByBarcode(ctx context.Context, barcode string) (*catalog.ProductMaster, error) {
	return findOne[catalog.ProductMaster](r.withChildren(r.db.WithContext(ctx)).
		Scopes(managerScope(shared.ManagerDefault)).
		Where("barcode = ?", barcode))
}

func (r *GormProductMasterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ProductMaster, error) {
	var out []catalog.ProductMaster
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.ProductMaster{}), filter).
		Scopes(pageScope(filter, NamedSortFields, "name")).
		Find(&out).Error
	return out, err
}

func (r *GormProductMasterRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.ProductMaster{}), filter).Count(&count).Error
	return count, err
}

// Save writes the master row and replaces its child collections
func (r *GormProductMasterRepository) Save(ctx context.Context, m *catalog.ProductMaster) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error; err != nil {
		return err
	}
	for i := range m.AttributeValues {
		m.AttributeValues[i].ProductMasterID = m.ID
	}
	for i := range m.PackItems {
		m.PackItems[i].ProductMasterID = m.ID
	}
	for i := range m.Products {
		m.Products[i].ProductMasterID = m.ID
	}
	if err := replaceChildren(ctx, r.db, "product_master_id", m.ID, m.AttributeValues); err != nil {
		return err
	}
	if err := replaceChildren(ctx, r.db, "product_master_id", m.ID, m.PackItems); err != nil {
		return err
	}
	return replaceChildren(ctx, r.db, "product_master_id", m.ID, m.Products)
}

func (r *GormProductMasterRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return existsWhere(ctx, r.db, &catalog.ProductMaster{}, excludeID, "slug = ?", slug)
}

func (r *GormProductMasterRepository) ExistsByBarcode(ctx context.Context, barcode string, excludeID uuid.UUID) (bool, error) {
	return existsWhere(ctx, r.db, &catalog.ProductMaster{}, excludeID, "barcode = ?", barcode)
}

func (r *GormProductMasterRepository) LastCode(ctx context.Context) (string, error) {
	return lastCode(ctx, r.db, &catalog.ProductMaster{})
}

func (r *GormProductMasterRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Scopes(
		managerScope(filter.Manager),
		searchScope(filter.Search, "name", "slug", "code", "barcode"),
		templateRelationScope(r.db, "product_template_id", filter),
	)
	if ids := uuidList(filter.Filters[catalog.FilterTemplateID]); len(ids) > 0 {
		query = query.Where("product_template_id IN ?", ids)
	}
	if v, ok := filter.Filters[catalog.FilterParentID]; ok {
		if ids := uuidList(v); len(ids) > 0 {
			query = query.Where("parent_id IN ?", ids)
		}
	}
	return query
}

var _ catalog.ProductMasterRepository = (*GormProductMasterRepository)(nil)
