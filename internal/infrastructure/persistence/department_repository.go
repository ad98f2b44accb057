package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDepartmentRepository implements DepartmentRepository using GORM
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewGormDepartmentRepository creates a new GormDepartmentRepository
func NewGormDepartmentRepository(db *gorm.DB) *GormDepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// FindByID finds a department visible to manager
func (r *GormDepartmentRepository) FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*catalog.Department, error) {
	return findOne[catalog.Department](r.db.WithContext(ctx).Scopes(managerScope(manager)).Where("id = ?", id))
}

// FindByIDs finds non-deleted departments by id
func (r *GormDepartmentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Department, error) {
	return findByIDs[catalog.Department](ctx, r.db, ids)
}

// FindAll lists departments matching the filter
func (r *GormDepartmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Department, error) {
	var out []catalog.Department
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Department{}), filter).
		Scopes(pageScope(filter, DepartmentSortFields, "name")).
		Find(&out).Error
	return out, err
}

// Count counts departments matching the filter
func (r *GormDepartmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Department{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a department
func (r *GormDepartmentRepository) Save(ctx context.Context, department *catalog.Department) error {
	return r.db.WithContext(ctx).Save(department).Error
}

// ExistsBySlug checks slug uniqueness across every status
func (r *GormDepartmentRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return existsWhere(ctx, r.db, &catalog.Department{}, excludeID, "slug = ?", slug)
}

// LastCode returns the most recently issued department code
func (r *GormDepartmentRepository) LastCode(ctx context.Context) (string, error) {
	return lastCode(ctx, r.db, &catalog.Department{})
}

func (r *GormDepartmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	return query.Scopes(
		managerScope(filter.Manager),
		searchScope(filter.Search, "name", "slug", "code"),
	)
}

var _ catalog.DepartmentRepository = (*GormDepartmentRepository)(nil)
