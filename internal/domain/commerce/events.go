package commerce

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

const (
	EventTypeOrderPlaced          = "OrderPlaced"
	EventTypeOrderStatusChanged   = "OrderStatusChanged"
	EventTypeDeliveryStatusChange = "DeliveryStatusChanged"
	EventTypeStockAdjusted        = "StockAdjusted"
)

// OrderPlacedEvent is published once a new order and its stock movements commit
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	StoreID        uuid.UUID       `json:"store_id"`
	CustomerUserID uuid.UUID       `json:"customer_user_id"`
	Total          decimal.Decimal `json:"total"`
}

// NewOrderPlacedEvent creates an OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, o.TableName(), o.ID),
		StoreID:         o.StoreID,
		CustomerUserID:  o.CustomerUserID,
		Total:           o.Total,
	}
}

// OrderStatusChangedEvent records one step of the order state machine
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	From OrderStatus `json:"from"`
	To   OrderStatus `json:"to"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(orderID uuid.UUID, from, to OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, Order{}.TableName(), orderID),
		From:            from,
		To:              to,
	}
}

// DeliveryStatusChangedEvent records one step of a delivery
type DeliveryStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID      `json:"order_id"`
	Status  DeliveryStatus `json:"status"`
}

// NewDeliveryStatusChangedEvent creates a DeliveryStatusChangedEvent
func NewDeliveryStatusChangedEvent(d *Delivery) *DeliveryStatusChangedEvent {
	return &DeliveryStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryStatusChange, d.TableName(), d.ID),
		OrderID:         d.OrderID,
		Status:          d.Status,
	}
}

// StockAdjustedEvent carries a store product's balance after a manual movement
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	Qty     decimal.Decimal `json:"qty"`
	Balance decimal.Decimal `json:"balance"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent from a ledger entry
func NewStockAdjustedEvent(entry *StockEntry) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, StoreProduct{}.TableName(), entry.StoreProductID),
		Qty:             entry.Qty,
		Balance:         entry.Balance,
	}
}
