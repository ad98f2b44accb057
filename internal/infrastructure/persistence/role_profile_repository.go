package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRoleProfileRepository stores store user, customer and delivery agent profiles
type GormRoleProfileRepository struct {
	db *gorm.DB
}

// NewGormRoleProfileRepository creates a new GormRoleProfileRepository
func NewGormRoleProfileRepository(db *gorm.DB) *GormRoleProfileRepository {
	return &GormRoleProfileRepository{db: db}
}

func (r *GormRoleProfileRepository) FindStoreUser(ctx context.Context, userID uuid.UUID) (*commerce.StoreUser, error) {
	return findOne[commerce.StoreUser](r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *GormRoleProfileRepository) FindCustomer(ctx context.Context, userID uuid.UUID) (*commerce.Customer, error) {
	return findOne[commerce.Customer](r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *GormRoleProfileRepository) FindDeliveryAgent(ctx context.Context, userID uuid.UUID) (*commerce.DeliveryAgent, error) {
	return findOne[commerce.DeliveryAgent](r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// FindDeliveryAgentByID finds a non-deleted agent by profile id
func (r *GormRoleProfileRepository) FindDeliveryAgentByID(ctx context.Context, id uuid.UUID) (*commerce.DeliveryAgent, error) {
	return findOne[commerce.DeliveryAgent](r.db.WithContext(ctx).
		Scopes(managerScope(shared.ManagerDefault)).
		Where("id = ?", id))
}

func (r *GormRoleProfileRepository) SaveStoreUser(ctx context.Context, profile *commerce.StoreUser) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *GormRoleProfileRepository) SaveCustomer(ctx context.Context, profile *commerce.Customer) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *GormRoleProfileRepository) SaveDeliveryAgent(ctx context.Context, profile *commerce.DeliveryAgent) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// FindRoleProfile returns the profile model backing role for a user
func (r *GormRoleProfileRepository) FindRoleProfile(ctx context.Context, userID uuid.UUID, role identity.UserType) (identity.RoleProfile, error) {
	var (
		profile identity.RoleProfile
		err     error
	)
	switch role {
	case identity.UserTypeAdmin:
		var admin *identity.Admin
		admin, err = findOne[identity.Admin](r.db.WithContext(ctx).Where("user_id = ?", userID))
		profile = admin
	case identity.UserTypeStore:
		var storeUser *commerce.StoreUser
		storeUser, err = r.FindStoreUser(ctx, userID)
		profile = storeUser
	case identity.UserTypeCustomer:
		var customer *commerce.Customer
		customer, err = r.FindCustomer(ctx, userID)
		profile = customer
	case identity.UserTypeDelivery:
		var agent *commerce.DeliveryAgent
		agent, err = r.FindDeliveryAgent(ctx, userID)
		profile = agent
	default:
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

var (
	_ commerce.RoleProfileRepository = (*GormRoleProfileRepository)(nil)
	_ identity.RoleProfileFinder     = (*GormRoleProfileRepository)(nil)
)
