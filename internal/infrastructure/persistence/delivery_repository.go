package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDeliveryRepository implements DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

func (r *GormDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Delivery, error) {
	return findOne[commerce.Delivery](r.db.WithContext(ctx).Where("id = ?", id))
}

// FindOpenForOrder returns the delivery still in progress for an order
func (r *GormDeliveryRepository) FindOpenForOrder(ctx context.Context, orderID uuid.UUID) (*commerce.Delivery, error) {
	return findOne[commerce.Delivery](r.db.WithContext(ctx).
		Where("order_id = ? AND status IN ?", orderID, []commerce.DeliveryStatus{
			commerce.DeliveryCreated, commerce.DeliveryOnTheWay, commerce.DeliveryRescheduled,
		}).
		Order("created_at DESC"))
}

func (r *GormDeliveryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]commerce.Delivery, error) {
	if filter.OrderBy == "" {
		filter.OrderBy, filter.OrderDir = "created_at", "desc"
	}
	var out []commerce.Delivery
	err := r.applyFilter(r.db.WithContext(ctx).Model(&commerce.Delivery{}), filter).
		Scopes(pageScope(filter, DeliverySortFields, "created_at")).
		Find(&out).Error
	return out, err
}

func (r *GormDeliveryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&commerce.Delivery{}), filter).Count(&count).Error
	return count, err
}

func (r *GormDeliveryRepository) Save(ctx context.Context, delivery *commerce.Delivery) error {
	return r.db.WithContext(ctx).Save(delivery).Error
}

func (r *GormDeliveryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if ids := uuidList(filter.Filters[commerce.FilterOrderID]); len(ids) > 0 {
		query = query.Where("order_id IN ?", ids)
	}
	if ids := uuidList(filter.Filters[commerce.FilterStoreID]); len(ids) > 0 {
		query = query.Where("order_id IN (?)", r.db.Model(&commerce.Order{}).Select("id").Where("store_id IN ?", ids))
	}
	if ids := uuidList(filter.Filters[commerce.FilterAgentID]); len(ids) > 0 {
		query = query.Where("delivery_agent_id IN ?", ids)
	}
	if status, ok := filter.Filters[commerce.FilterStatus].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	return query
}

var _ commerce.DeliveryRepository = (*GormDeliveryRepository)(nil)
