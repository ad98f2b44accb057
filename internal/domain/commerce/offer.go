package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// OfferType is the marketing mechanism behind an offer
type OfferType string

const (
	OfferVolume         OfferType = "VOLUME"
	OfferProduct        OfferType = "PRODUCT"
	OfferCollection     OfferType = "COLLECTION"
	OfferCoupon         OfferType = "COUPON"
	OfferCampaign       OfferType = "CAMPAIGN"
	OfferCampaignCoupon OfferType = "CAMPAIGN_COUPON"
	OfferCustomerLevel  OfferType = "CUSTOMER_LEVEL"
	OfferAdmin          OfferType = "ADMIN"
)

// OfferBy is how an offer changes the price
type OfferBy string

const (
	OfferByPercentage OfferBy = "PERCENTAGE"
	OfferByFixedPrice OfferBy = "FIXED_PRICE"
	OfferByPrice      OfferBy = "BY_PRICE"
)

// Offer is a discount a store (or the platform, when StoreID is nil) grants on orders
type Offer struct {
	shared.BaseEntity
	shared.SoftDelete
	StoreID       *uuid.UUID      `gorm:"type:uuid;index" json:"store"`
	Name          string          `gorm:"type:varchar(150);not null" json:"name" validate:"required,max=150"`
	Code          string          `gorm:"type:varchar(20);not null;uniqueIndex" json:"code" validate:"required,max=20"`
	OfferType     OfferType       `gorm:"type:varchar(16);not null" json:"offer_type" validate:"required,oneof=VOLUME PRODUCT COLLECTION COUPON CAMPAIGN CAMPAIGN_COUPON CUSTOMER_LEVEL ADMIN"`
	OfferBy       OfferBy         `gorm:"type:varchar(12);not null" json:"offer_by" validate:"required,oneof=PERCENTAGE FIXED_PRICE BY_PRICE"`
	Value         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"value"`
	MinOrderValue decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"min_order_value"`
	StartsAt      time.Time       `gorm:"not null" json:"starts_at" validate:"required"`
	EndsAt        *time.Time      `json:"ends_at" validate:"omitempty,gtfield=StartsAt"`
}

// TableName returns the table name for GORM
func (Offer) TableName() string {
	return "offers"
}

// NewOffer creates an active offer
func NewOffer(code string) *Offer {
	return &Offer{
		BaseEntity:    shared.NewBaseEntity(),
		SoftDelete:    shared.SoftDelete{Status: shared.StatusActive},
		Code:          code,
		OfferType:     OfferAdmin,
		OfferBy:       OfferByPercentage,
		Value:         decimal.Zero,
		MinOrderValue: decimal.Zero,
		StartsAt:      time.Now(),
	}
}

// Running reports whether the offer is active at now
func (o *Offer) Running(now time.Time) bool {
	if o.Status != shared.StatusActive || now.Before(o.StartsAt) {
		return false
	}
	return o.EndsAt == nil || now.Before(*o.EndsAt)
}

// Discount returns how much of subtotal the offer removes; zero when not applicable
func (o *Offer) Discount(subtotal decimal.Decimal, now time.Time) decimal.Decimal {
	if !o.Running(now) || subtotal.LessThan(o.MinOrderValue) {
		return decimal.Zero
	}
	var d decimal.Decimal
	switch o.OfferBy {
	case OfferByPercentage:
		d = subtotal.Mul(o.Value).Div(decimal.NewFromInt(100)).Round(2)
	case OfferByFixedPrice:
		d = o.Value
	case OfferByPrice:
		d = subtotal.Sub(o.Value)
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(subtotal) {
		return subtotal
	}
	return d
}
