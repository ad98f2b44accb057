package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGroupRepository implements GroupRepository using GORM
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

func (r *GormGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Group, error) {
	return findOne[identity.Group](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *GormGroupRepository) FindByNames(ctx context.Context, names []string) ([]identity.Group, error) {
	var out []identity.Group
	if len(names) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&out).Error
	return out, err
}

func (r *GormGroupRepository) Save(ctx context.Context, group *identity.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// UserTypeMapped reports whether role is granted any of groupIDs
func (r *GormGroupRepository) UserTypeMapped(ctx context.Context, role identity.UserType, groupIDs []uuid.UUID) (bool, error) {
	if len(groupIDs) == 0 {
		return false, nil
	}
	return existsWhere(ctx, r.db, &identity.UserTypeGroup{}, uuid.Nil,
		"user_type = ? AND group_id IN ?", role, groupIDs)
}

var _ identity.GroupRepository = (*GormGroupRepository)(nil)

// GormUserTypeGroupRepository implements UserTypeGroupRepository using GORM
type GormUserTypeGroupRepository struct {
	db *gorm.DB
}

// NewGormUserTypeGroupRepository creates a new GormUserTypeGroupRepository
func NewGormUserTypeGroupRepository(db *gorm.DB) *GormUserTypeGroupRepository {
	return &GormUserTypeGroupRepository{db: db}
}

func (r *GormUserTypeGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.UserTypeGroup, error) {
	return findOne[identity.UserTypeGroup](r.db.WithContext(ctx).Preload("Group").Where("id = ?", id))
}

func (r *GormUserTypeGroupRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.UserTypeGroup, error) {
	var out []identity.UserTypeGroup
	err := r.applyFilter(r.db.WithContext(ctx).Model(&identity.UserTypeGroup{}), filter).
		Scopes(pageScope(filter, UserTypeGroupSortFields, "user_type")).
		Preload("Group").
		Find(&out).Error
	return out, err
}

func (r *GormUserTypeGroupRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&identity.UserTypeGroup{}), filter).Count(&count).Error
	return count, err
}

func (r *GormUserTypeGroupRepository) Exists(ctx context.Context, userType identity.UserType, groupID uuid.UUID, excludeID uuid.UUID) (bool, error) {
	return existsWhere(ctx, r.db, &identity.UserTypeGroup{}, excludeID,
		"user_type = ? AND group_id = ?", userType, groupID)
}

func (r *GormUserTypeGroupRepository) Save(ctx context.Context, mapping *identity.UserTypeGroup) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(mapping).Error
}

func (r *GormUserTypeGroupRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if t, ok := filter.Filters["user_type"].(string); ok && t != "" {
		query = query.Where("user_type = ?", t)
	}
	if filter.Search != "" {
		groups := r.db.Model(&identity.Group{}).Select("id").Scopes(searchScope(filter.Search, "name"))
		query = query.Where("(LOWER(user_type) LIKE LOWER(?) OR group_id IN (?))", "%"+filter.Search+"%", groups)
	}
	return query
}

var _ identity.UserTypeGroupRepository = (*GormUserTypeGroupRepository)(nil)
