package commerce

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreInput is the input of storeCreate and storeUpdate
type StoreInput struct {
	Name         *string `json:"name"`
	Mobile       *string `json:"mobile"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	Country      *string `json:"country"`
	BusinessType *string `json:"business_type"`
}

// StoreProductInput is the input of storeProductCreate and storeProductUpdate.
// Store and ProductMaster are only read on create.
type StoreProductInput struct {
	Store         *string          `json:"store"`
	ProductMaster *string          `json:"product_master"`
	Name          *string          `json:"name"`
	RetailPrice   *decimal.Decimal `json:"retail_price"`
	Mrp           *decimal.Decimal `json:"mrp"`
	// InitialStock opens the stock ledger of a new listing
	InitialStock *decimal.Decimal `json:"initial_stock"`
}

// StockInput is the input of storeProductStock; Qty is signed
type StockInput struct {
	Qty       decimal.Decimal `json:"qty"`
	StockType string          `json:"stock_type"`
	Note      string          `json:"note"`
}

// OfferInput is the input of offerCreate and offerUpdate
type OfferInput struct {
	Store         *string          `json:"store"`
	Name          *string          `json:"name"`
	OfferType     *string          `json:"offer_type"`
	OfferBy       *string          `json:"offer_by"`
	Value         *decimal.Decimal `json:"value"`
	MinOrderValue *decimal.Decimal `json:"min_order_value"`
	StartsAt      *time.Time       `json:"starts_at"`
	EndsAt        *time.Time       `json:"ends_at"`
}

// OrderItemInput is one requested line of placeOrder
type OrderItemInput struct {
	StoreProduct string          `json:"store_product"`
	Qty          decimal.Decimal `json:"qty"`
}

// PlaceOrderInput is the input of placeOrder. Offer is an offer code.
type PlaceOrderInput struct {
	Store         string           `json:"store"`
	Items         []OrderItemInput `json:"items"`
	Offer         *string          `json:"offer"`
	PaymentOption *string          `json:"payment_option"`
	DeliveryType  *string          `json:"delivery_type"`
	Address       *string          `json:"address"`
	Note          *string          `json:"note"`
}

// DeliveryAssignInput is the input of deliveryAssign
type DeliveryAssignInput struct {
	Order         string     `json:"order"`
	DeliveryAgent string     `json:"delivery_agent"`
	ScheduledAt   *time.Time `json:"scheduled_at"`
	Note          *string    `json:"note"`
}

// OrderListInput narrows the orders query
type OrderListInput struct {
	ListInput
	Customer *string
	Status   *string
}
