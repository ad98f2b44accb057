package mutation

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// Cascader changes status or deletes rows following the relation graph
type Cascader interface {
	ChangeStatus(ctx context.Context, table string, ids []uuid.UUID, status shared.Status, cascade bool) error
	Delete(ctx context.Context, table string, ids []uuid.UUID) error
}

// Repositories gives access to every repository bound to one transaction
type Repositories interface {
	Departments() catalog.DepartmentRepository
	Categories() catalog.CategoryRepository
	Brands() catalog.BrandRepository
	AttributeGroups() catalog.AttributeGroupRepository
	Attributes() catalog.AttributeRepository
	Templates() catalog.ProductTemplateRepository
	Masters() catalog.ProductMasterRepository
	Media() catalog.MediaRepository

	Users() identity.UserRepository
	Admins() identity.AdminRepository
	Groups() identity.GroupRepository
	UserTypeGroups() identity.UserTypeGroupRepository
	Otps() identity.OtpRepository

	Stores() commerce.StoreRepository
	RoleProfiles() commerce.RoleProfileRepository
	StoreProducts() commerce.StoreProductRepository
	Offers() commerce.OfferRepository
	Orders() commerce.OrderRepository
	Deliveries() commerce.DeliveryRepository

	Cascader() Cascader
}

// TransactionScope runs fn with repositories sharing one transaction.
// An error returned by fn rolls the transaction back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Node is a persisted row addressable by id
type Node interface {
	GetID() uuid.UUID
	TableName() string
}

// SoftNode is a node with a status column
type SoftNode interface {
	Node
	shared.SoftDeletable
}

// FetchFunc loads one node through manager; a missing row returns shared.ErrNotFound
type FetchFunc[E Node] func(ctx context.Context, repos Repositories, id uuid.UUID, manager shared.Manager) (E, error)
