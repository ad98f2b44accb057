package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAttributeGroupRepository implements AttributeGroupRepository using GORM
type GormAttributeGroupRepository struct {
	db *gorm.DB
}

// NewGormAttributeGroupRepository creates a new GormAttributeGroupRepository
func NewGormAttributeGroupRepository(db *gorm.DB) *GormAttributeGroupRepository {
	return &GormAttributeGroupRepository{db: db}
}

// FindByID finds a group with its items in sort order
func (r *GormAttributeGroupRepository) FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*catalog.AttributeGroup, error) {
	return findOne[catalog.AttributeGroup](r.db.WithContext(ctx).
		Scopes(managerScope(manager)).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("id = ?", id))
}

// FindByIDs finds non-deleted groups with their items
func (r *GormAttributeGroupRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.AttributeGroup, error) {
	var out []catalog.AttributeGroup
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(managerScope(shared.ManagerDefault)).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("id IN ?", ids).
		Find(&out).Error
	return out, err
}

func (r *GormAttributeGroupRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.AttributeGroup, error) {
	var out []catalog.AttributeGroup
	err := r.db.WithContext(ctx).
		Model(&catalog.AttributeGroup{}).
		Scopes(
			managerScope(filter.Manager),
			searchScope(filter.Search, "name", "slug"),
			pageScope(filter, NamedSortFields, "name"),
		).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Find(&out).Error
	return out, err
}

func (r *GormAttributeGroupRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&catalog.AttributeGroup{}).
		Scopes(managerScope(filter.Manager), searchScope(filter.Search, "name", "slug")).
		Count(&count).Error
	return count, err
}

// Save writes the group and upserts its items
func (r *GormAttributeGroupRepository) Save(ctx context.Context, group *catalog.AttributeGroup) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(group).Error; err != nil {
		return err
	}
	for i := range group.Items {
		group.Items[i].AttributeGroupID = group.ID
		if err := db.Save(&group.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormAttributeGroupRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return existsWhere(ctx, r.db, &catalog.AttributeGroup{}, excludeID, "slug = ?", slug)
}

// GormAttributeRepository implements AttributeRepository using GORM
type GormAttributeRepository struct {
	db *gorm.DB
}

// NewGormAttributeRepository creates a new GormAttributeRepository
func NewGormAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

// FindByID finds an attribute with its values in sort order
func (r *GormAttributeRepository) FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*catalog.Attribute, error) {
	return findOne[catalog.Attribute](r.db.WithContext(ctx).
		Scopes(managerScope(manager)).
		Preload("Values", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("id = ?", id))
}

// FindByIDs finds non-deleted attributes with their values
func (r *GormAttributeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Attribute, error) {
	var out []catalog.Attribute
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(managerScope(shared.ManagerDefault)).
		Preload("Values", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("id IN ?", ids).
		Find(&out).Error
	return out, err
}

func (r *GormAttributeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Attribute, error) {
	var out []catalog.Attribute
	err := r.db.WithContext(ctx).
		Model(&catalog.Attribute{}).
		Scopes(
			managerScope(filter.Manager),
			searchScope(filter.Search, "name", "slug"),
			pageScope(filter, NamedSortFields, "name"),
		).
		Preload("Values", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Find(&out).Error
	return out, err
}

func (r *GormAttributeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&catalog.Attribute{}).
		Scopes(managerScope(filter.Manager), searchScope(filter.Search, "name", "slug")).
		Count(&count).Error
	return count, err
}

// Save writes the attribute and upserts its values
func (r *GormAttributeRepository) Save(ctx context.Context, attribute *catalog.Attribute) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(attribute).Error; err != nil {
		return err
	}
	for i := range attribute.Values {
		attribute.Values[i].AttributeID = attribute.ID
		if err := db.Save(&attribute.Values[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormAttributeRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return existsWhere(ctx, r.db, &catalog.Attribute{}, excludeID, "slug = ?", slug)
}

var (
	_ catalog.AttributeGroupRepository = (*GormAttributeGroupRepository)(nil)
	_ catalog.AttributeRepository      = (*GormAttributeRepository)(nil)
)
