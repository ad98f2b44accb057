package commerce

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// StockType classifies a stock movement
type StockType string

const (
	StockInitial    StockType = "INITIAL"
	StockNew        StockType = "NEW"
	StockReturn     StockType = "RETURN"
	StockSold       StockType = "SOLD"
	StockAdjustment StockType = "ADJUSTMENT"
)

// StoreProduct is a product master carried by a store with its price and stock
type StoreProduct struct {
	shared.BaseEntity
	shared.SoftDelete
	StoreID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_store_product,priority:1" json:"store"`
	ProductMasterID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_store_product,priority:2" json:"product_master"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Stock           decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0" json:"stock"`
	RetailPrice     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"retail_price"`
	Mrp             decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"mrp"`
}

// TableName returns the table name for GORM
func (StoreProduct) TableName() string {
	return "store_products"
}

// NewStoreProduct creates an active store listing with no stock
func NewStoreProduct(storeID, masterID uuid.UUID, name string) *StoreProduct {
	return &StoreProduct{
		BaseEntity:      shared.NewBaseEntity(),
		SoftDelete:      shared.SoftDelete{Status: shared.StatusActive},
		StoreID:         storeID,
		ProductMasterID: masterID,
		Name:            name,
		Stock:           decimal.Zero,
		RetailPrice:     decimal.Zero,
		Mrp:             decimal.Zero,
	}
}

// Sellable reports whether the product is active and priced. Stock is checked
// per quantity with HasStock.
func (p *StoreProduct) Sellable() bool {
	return p.Status == shared.StatusActive && p.RetailPrice.IsPositive()
}

// HasStock reports whether qty can be taken from the current stock
func (p *StoreProduct) HasStock(qty decimal.Decimal) bool {
	return p.Stock.GreaterThanOrEqual(qty)
}

func (p *StoreProduct) insufficientStock() error {
	return shared.NewDomainError("INSUFFICIENT_STOCK", fmt.Sprintf("Insufficient stock for %s.", p.Name))
}

// Adjust moves stock by qty and returns the ledger entry; stock never goes negative
func (p *StoreProduct) Adjust(qty decimal.Decimal, stockType StockType, note string) (*StockEntry, error) {
	next := p.Stock.Add(qty)
	if next.IsNegative() {
		return nil, p.insufficientStock()
	}
	p.Stock = next
	return &StockEntry{
		BaseEntity:     shared.NewBaseEntity(),
		StoreProductID: p.ID,
		Qty:            qty,
		Balance:        next,
		StockType:      stockType,
		Note:           note,
	}, nil
}

// StockEntry is one movement in a store product's stock ledger
type StockEntry struct {
	shared.BaseEntity
	StoreProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_product"`
	Qty            decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"qty"`
	Balance        decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"balance"`
	StockType      StockType       `gorm:"type:varchar(10);not null" json:"stock_type"`
	Note           string          `gorm:"type:varchar(255);not null;default:''" json:"note"`
}

// TableName returns the table name for GORM
func (StockEntry) TableName() string {
	return "stock_entries"
}
