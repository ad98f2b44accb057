package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category visible to manager
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*catalog.Category, error) {
	return findOne[catalog.Category](r.db.WithContext(ctx).Scopes(managerScope(manager)).Where("id = ?", id))
}

// FindByIDs finds non-deleted categories by id
func (r *GormCategoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Category, error) {
	return findByIDs[catalog.Category](ctx, r.db, ids)
}

// FindAll lists categories matching the filter
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	var out []catalog.Category
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Category{}), filter).
		Scopes(pageScope(filter, CategorySortFields, "name")).
		Find(&out).Error
	return out, err
}

// Count counts categories matching the filter
func (r *GormCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Category{}), filter).Count(&count).Error
	return count, err
}

// FindDescendantIDs returns the non-deleted categories below id using the materialized path
func (r *GormCategoryRepository) FindDescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	parent, err := r.FindByID(ctx, id, shared.ManagerAll)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	err = r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Scopes(managerScope(shared.ManagerDefault)).
		Where("path LIKE ?", parent.Path+"/%").
		Order("level ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// MoveSubtree rewrites the path prefix and level of every row below oldPath
func (r *GormCategoryRepository) MoveSubtree(ctx context.Context, oldPath, newPath string, levelDelta int) error {
	if oldPath == newPath {
		return nil
	}
	var rows []catalog.Category
	if err := r.db.WithContext(ctx).Where("path LIKE ?", oldPath+"/%").Find(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		err := r.db.WithContext(ctx).
			Model(&catalog.Category{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{
				"path":  newPath + strings.TrimPrefix(row.Path, oldPath),
				"level": row.Level + levelDelta,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// ExistsBySlug checks slug uniqueness across every status
func (r *GormCategoryRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return existsWhere(ctx, r.db, &catalog.Category{}, excludeID, "slug = ?", slug)
}

// LastCode returns the most recently issued category code
func (r *GormCategoryRepository) LastCode(ctx context.Context) (string, error) {
	return lastCode(ctx, r.db, &catalog.Category{})
}

func (r *GormCategoryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Scopes(
		managerScope(filter.Manager),
		searchScope(filter.Search, "name", "slug", "code"),
	)
	if level, ok := filter.Filters[catalog.FilterLevel].(int); ok {
		query = query.Where("level = ?", level)
	}
	if v, ok := filter.Filters[catalog.FilterParentID]; ok {
		if ids := uuidList(v); len(ids) > 0 {
			query = query.Where("parent_id IN ?", ids)
		}
	}
	if ids := uuidList(filter.Filters[catalog.FilterDepartmentIDs]); len(ids) > 0 {
		query = query.Where("department_id IN ?", ids)
	}
	return query
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
