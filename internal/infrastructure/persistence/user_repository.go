package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID loads a user with roles and groups
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return findOne[identity.User](r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Groups").
		Where("id = ?", id))
}

// FindByMobile loads a user with roles and groups by mobile number
func (r *GormUserRepository) FindByMobile(ctx context.Context, mobile string) (*identity.User, error) {
	return findOne[identity.User](r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Groups").
		Where("mobile = ?", mobile))
}

func (r *GormUserRepository) ExistsByMobile(ctx context.Context, mobile string, excludeID uuid.UUID) (bool, error) {
	return existsWhere(ctx, r.db, &identity.User{}, excludeID, "mobile = ?", mobile)
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	return existsWhere(ctx, r.db, &identity.User{}, excludeID, "LOWER(email) = ?", identity.NormalizeEmail(email))
}

// Save writes the user row; roles and groups are managed separately
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

// AddRole grants a role, ignoring grants that already exist
func (r *GormUserRepository) AddRole(ctx context.Context, role *identity.UserRole) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(role).Error
}

// LastCode returns the most recently issued user code
func (r *GormUserRepository) LastCode(ctx context.Context) (string, error) {
	return lastCode(ctx, r.db, &identity.User{})
}

// AddToGroups appends group memberships for a user
func (r *GormUserRepository) AddToGroups(ctx context.Context, user *identity.User, groups ...identity.Group) error {
	if len(groups) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(user).Omit("Groups.*").Association("Groups").Append(groups)
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

// GormAdminRepository implements AdminRepository using GORM
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GormAdminRepository
func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

func (r *GormAdminRepository) FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*identity.Admin, error) {
	return findOne[identity.Admin](r.db.WithContext(ctx).
		Scopes(managerScope(manager)).
		Preload("User").
		Where("id = ?", id))
}

// FindByUserID returns the admin profile of a user in any status
func (r *GormAdminRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.Admin, error) {
	return findOne[identity.Admin](r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID))
}

func (r *GormAdminRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Admin, error) {
	var out []identity.Admin
	err := r.applyFilter(r.db.WithContext(ctx).Model(&identity.Admin{}), filter).
		Scopes(pageScope(filter, AdminSortFields, "date_joined")).
		Preload("User").
		Find(&out).Error
	return out, err
}

func (r *GormAdminRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&identity.Admin{}), filter).Count(&count).Error
	return count, err
}

func (r *GormAdminRepository) Save(ctx context.Context, admin *identity.Admin) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(admin).Error
}

func (r *GormAdminRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Scopes(managerScope(filter.Manager))
	if ids := uuidList(filter.Filters["exclude_user_id"]); len(ids) > 0 {
		query = query.Where("user_id NOT IN ?", ids)
	}
	if filter.Search != "" {
		users := r.db.Model(&identity.User{}).
			Select("id").
			Scopes(searchScope(filter.Search, "name", "mobile", "email", "code"))
		query = query.Where("user_id IN (?)", users)
	}
	return query
}

var _ identity.AdminRepository = (*GormAdminRepository)(nil)
