package commerce

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderStatus represents the fulfilment state of an order
type OrderStatus string

const (
	OrderPending         OrderStatus = "PENDING"
	OrderCreated         OrderStatus = "CREATED"
	OrderAccepted        OrderStatus = "ACCEPTED"
	OrderPacking         OrderStatus = "PACKING"
	OrderPacked          OrderStatus = "PACKED"
	OrderAssigned        OrderStatus = "ASSIGNED"
	OrderShipping        OrderStatus = "SHIPPING"
	OrderRescheduled     OrderStatus = "RESCHEDULED"
	OrderUnableToProcess OrderStatus = "UNABLE_TO_PROCESS"
	OrderCompleted       OrderStatus = "COMPLETED"
	OrderCancelled       OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:     {OrderCreated, OrderCancelled},
	OrderCreated:     {OrderAccepted, OrderCancelled, OrderUnableToProcess},
	OrderAccepted:    {OrderPacking, OrderCancelled},
	OrderPacking:     {OrderPacked},
	OrderPacked:      {OrderAssigned},
	OrderAssigned:    {OrderShipping, OrderRescheduled},
	OrderShipping:    {OrderCompleted, OrderRescheduled, OrderUnableToProcess},
	OrderRescheduled: {OrderAssigned, OrderShipping, OrderCancelled},
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderCreated, OrderAccepted, OrderPacking, OrderPacked, OrderAssigned,
		OrderShipping, OrderRescheduled, OrderUnableToProcess, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// ReleasesStock reports whether entering s returns reserved stock to the store
func (s OrderStatus) ReleasesStock() bool {
	return s == OrderCancelled || s == OrderUnableToProcess
}

// PaymentOption is how the customer pays
type PaymentOption string

const (
	PaymentCash    PaymentOption = "CASH"
	PaymentCard    PaymentOption = "CARD"
	PaymentMobile  PaymentOption = "MOBILE"
	PaymentOnline  PaymentOption = "ONLINE"
	PaymentDeposit PaymentOption = "DEPOSIT"
)

// PaymentStatus tracks settlement of an order
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentPartial  PaymentStatus = "PARTIAL"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// DeliveryType is how the order reaches the customer
type DeliveryType string

const (
	DeliveryHome   DeliveryType = "HOME"
	DeliveryPickup DeliveryType = "PICKUP"
)

// Order is a customer's purchase from one store
type Order struct {
	shared.BaseEntity
	Code           string          `gorm:"type:varchar(20);not null;uniqueIndex" json:"code" validate:"required,max=20"`
	StoreID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"store"`
	CustomerUserID uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer"`
	OfferID        *uuid.UUID      `gorm:"type:uuid;index" json:"offer"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PaymentOption  PaymentOption   `gorm:"type:varchar(10);not null;default:'CASH'" json:"payment_option" validate:"required,oneof=CASH CARD MOBILE ONLINE DEPOSIT"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(10);not null;default:'UNPAID'" json:"payment_status" validate:"required,oneof=UNPAID PAID PARTIAL REFUNDED"`
	DeliveryType   DeliveryType    `gorm:"type:varchar(10);not null;default:'HOME'" json:"delivery_type" validate:"required,oneof=HOME PICKUP"`
	Address        *string         `gorm:"type:text" json:"address" validate:"required_if=DeliveryType HOME"`
	Note           *string         `gorm:"type:text" json:"note"`
	SubTotal       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"sub_total"`
	Discount       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"discount"`
	Total          decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total"`
	PlacedAt       time.Time       `gorm:"not null" json:"placed_at"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID" json:"items" validate:"-"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order
func NewOrder(code string, storeID, customerUserID uuid.UUID) *Order {
	return &Order{
		BaseEntity:     shared.NewBaseEntity(),
		Code:           code,
		StoreID:        storeID,
		CustomerUserID: customerUserID,
		Status:         OrderPending,
		PaymentOption:  PaymentCash,
		PaymentStatus:  PaymentUnpaid,
		DeliveryType:   DeliveryHome,
		SubTotal:       decimal.Zero,
		Discount:       decimal.Zero,
		Total:          decimal.Zero,
		PlacedAt:       time.Now(),
	}
}

// AddItem appends a line priced from the store product
func (o *Order) AddItem(product *StoreProduct, qty decimal.Decimal) (*OrderItem, error) {
	if !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive.")
	}
	if product.StoreID != o.StoreID {
		return nil, shared.NewDomainError("INVALID_PRODUCT", fmt.Sprintf("%s is not sold by this store.", product.Name))
	}
	if !product.Sellable() {
		return nil, shared.NewDomainError("INVALID_PRODUCT", fmt.Sprintf("%s is not available.", product.Name))
	}
	if !product.HasStock(qty) {
		return nil, product.insufficientStock()
	}
	item := OrderItem{
		BaseEntity:      shared.NewBaseEntity(),
		OrderID:         o.ID,
		StoreProductID:  product.ID,
		ProductMasterID: product.ProductMasterID,
		Name:            product.Name,
		Qty:             qty,
		Price:           product.RetailPrice,
		Total:           product.RetailPrice.Mul(qty).Round(2),
	}
	o.Items = append(o.Items, item)
	o.recalculate(nil, time.Now())
	return &o.Items[len(o.Items)-1], nil
}

// ApplyOffer recomputes the totals with offer, or without any offer when nil
func (o *Order) ApplyOffer(offer *Offer, now time.Time) {
	o.recalculate(offer, now)
}

func (o *Order) recalculate(offer *Offer, now time.Time) {
	sub := decimal.Zero
	for _, it := range o.Items {
		sub = sub.Add(it.Total)
	}
	o.SubTotal = sub
	o.Discount = decimal.Zero
	o.OfferID = nil
	if offer != nil {
		if d := offer.Discount(sub, now); d.IsPositive() {
			o.Discount = d
			o.OfferID = &offer.ID
		}
	}
	o.Total = o.SubTotal.Sub(o.Discount)
}

// TransitionTo moves the order to target when the state machine allows it
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Value '%s' is not a valid choice.", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change order from %s to %s.", o.Status, target))
	}
	o.Status = target
	return nil
}

// OrderItem is one line of an order
type OrderItem struct {
	shared.BaseEntity
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"order"`
	StoreProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_product"`
	ProductMasterID uuid.UUID       `gorm:"type:uuid;not null" json:"product_master"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Qty             decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"qty"`
	Price           decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"price"`
	Total           decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}
