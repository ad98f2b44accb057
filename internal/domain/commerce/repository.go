package commerce

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Filter keys understood by commerce repositories
const (
	FilterStoreID        = "store_id"
	FilterStatus         = "status"
	FilterCustomerUserID = "customer_user_id"
	FilterOrderID        = "order_id"
	FilterAgentID        = "delivery_agent_id"
)

// StoreRepository defines persistence operations for stores
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*Store, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Store, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, store *Store) error
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	LastCode(ctx context.Context) (string, error)
}

// RoleProfileRepository stores the non-admin role profiles
type RoleProfileRepository interface {
	FindStoreUser(ctx context.Context, userID uuid.UUID) (*StoreUser, error)
	FindCustomer(ctx context.Context, userID uuid.UUID) (*Customer, error)
	FindDeliveryAgent(ctx context.Context, userID uuid.UUID) (*DeliveryAgent, error)
	FindDeliveryAgentByID(ctx context.Context, id uuid.UUID) (*DeliveryAgent, error)
	SaveStoreUser(ctx context.Context, profile *StoreUser) error
	SaveCustomer(ctx context.Context, profile *Customer) error
	SaveDeliveryAgent(ctx context.Context, profile *DeliveryAgent) error
}

// StoreProductRepository defines persistence operations for store listings and stock
type StoreProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*StoreProduct, error)
	// FindByIDsForUpdate locks the rows so concurrent orders cannot oversell
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]StoreProduct, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]StoreProduct, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Exists(ctx context.Context, storeID, masterID uuid.UUID, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, product *StoreProduct) error
	AddStockEntries(ctx context.Context, entries ...*StockEntry) error
	FindStockEntries(ctx context.Context, storeProductID uuid.UUID, filter shared.Filter) ([]StockEntry, error)
}

// OfferRepository defines persistence operations for offers
type OfferRepository interface {
	FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*Offer, error)
	FindByCode(ctx context.Context, code string) (*Offer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Offer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, offer *Offer) error
	LastCode(ctx context.Context) (string, error)
}

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	// FindByID loads the order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save writes the order and its items
	Save(ctx context.Context, order *Order) error
	LastCode(ctx context.Context) (string, error)
}

// DeliveryRepository defines persistence operations for deliveries
type DeliveryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Delivery, error)
	FindOpenForOrder(ctx context.Context, orderID uuid.UUID) (*Delivery, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Delivery, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, delivery *Delivery) error
}
