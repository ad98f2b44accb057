package persistence

import (
	"context"

	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db        *gorm.DB
	relations Relations
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB, relations Relations) *GormTransactionScope {
	return &GormTransactionScope{db: db, relations: relations}
}

// Execute runs fn within a database transaction, rolling back when it returns an error.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos mutation.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx, s.relations))
	})
}

// Repositories builds every repository on one connection or transaction
type Repositories struct {
	db        *gorm.DB
	relations Relations
}

// NewRepositories creates repositories bound to db
func NewRepositories(db *gorm.DB, relations Relations) *Repositories {
	return &Repositories{db: db, relations: relations}
}

func (r *Repositories) Departments() catalog.DepartmentRepository {
	return NewGormDepartmentRepository(r.db)
}

func (r *Repositories) Categories() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.db)
}

func (r *Repositories) Brands() catalog.BrandRepository {
	return NewGormBrandRepository(r.db)
}

func (r *Repositories) AttributeGroups() catalog.AttributeGroupRepository {
	return NewGormAttributeGroupRepository(r.db)
}

func (r *Repositories) Attributes() catalog.AttributeRepository {
	return NewGormAttributeRepository(r.db)
}

func (r *Repositories) Templates() catalog.ProductTemplateRepository {
	return NewGormProductTemplateRepository(r.db)
}

func (r *Repositories) Masters() catalog.ProductMasterRepository {
	return NewGormProductMasterRepository(r.db)
}

func (r *Repositories) Media() catalog.MediaRepository {
	return NewGormMediaRepository(r.db)
}

func (r *Repositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.db)
}

func (r *Repositories) Admins() identity.AdminRepository {
	return NewGormAdminRepository(r.db)
}

func (r *Repositories) Groups() identity.GroupRepository {
	return NewGormGroupRepository(r.db)
}

func (r *Repositories) UserTypeGroups() identity.UserTypeGroupRepository {
	return NewGormUserTypeGroupRepository(r.db)
}

func (r *Repositories) Otps() identity.OtpRepository {
	return NewGormOtpRepository(r.db)
}

func (r *Repositories) Stores() commerce.StoreRepository {
	return NewGormStoreRepository(r.db)
}

func (r *Repositories) RoleProfiles() commerce.RoleProfileRepository {
	return NewGormRoleProfileRepository(r.db)
}

func (r *Repositories) StoreProducts() commerce.StoreProductRepository {
	return NewGormStoreProductRepository(r.db)
}

func (r *Repositories) Offers() commerce.OfferRepository {
	return NewGormOfferRepository(r.db)
}

func (r *Repositories) Orders() commerce.OrderRepository {
	return NewGormOrderRepository(r.db)
}

func (r *Repositories) Deliveries() commerce.DeliveryRepository {
	return NewGormDeliveryRepository(r.db)
}

func (r *Repositories) Cascader() mutation.Cascader {
	return NewGormCascader(r.db, r.relations)
}

var (
	_ mutation.TransactionScope = (*GormTransactionScope)(nil)
	_ mutation.Repositories     = (*Repositories)(nil)
)
