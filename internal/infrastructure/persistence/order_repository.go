package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Order, error) {
	return findOne[commerce.Order](r.db.WithContext(ctx).Preload("Items").Where("id = ?", id))
}

func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]commerce.Order, error) {
	if filter.OrderBy == "" {
		filter.OrderBy, filter.OrderDir = "placed_at", "desc"
	}
	var out []commerce.Order
	err := r.applyFilter(r.db.WithContext(ctx).Model(&commerce.Order{}), filter).
		Scopes(pageScope(filter, OrderSortFields, "placed_at")).
		Preload("Items").
		Find(&out).Error
	return out, err
}

func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&commerce.Order{}), filter).Count(&count).Error
	return count, err
}

// Save writes the order and replaces its lines
func (r *GormOrderRepository) Save(ctx context.Context, order *commerce.Order) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error; err != nil {
		return err
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return replaceChildren(ctx, r.db, "order_id", order.ID, order.Items)
}

func (r *GormOrderRepository) LastCode(ctx context.Context) (string, error) {
	return lastCode(ctx, r.db, &commerce.Order{})
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Scopes(searchScope(filter.Search, "code"))
	if ids := uuidList(filter.Filters[commerce.FilterStoreID]); len(ids) > 0 {
		query = query.Where("store_id IN ?", ids)
	}
	if ids := uuidList(filter.Filters[commerce.FilterCustomerUserID]); len(ids) > 0 {
		query = query.Where("customer_user_id IN ?", ids)
	}
	if status, ok := filter.Filters[commerce.FilterStatus].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	return query
}

var _ commerce.OrderRepository = (*GormOrderRepository)(nil)
