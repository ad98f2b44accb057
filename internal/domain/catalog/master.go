package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductMaster is a concrete sellable variant of a template (e.g. "Milk 1L")
type ProductMaster struct {
	shared.BaseEntity
	shared.SoftDelete
	shared.SEO
	Name              *string                       `gorm:"type:varchar(255)" json:"name" validate:"omitempty,max=255"`
	SubName           *string                       `gorm:"type:varchar(255)" json:"sub_name" validate:"omitempty,max=255"`
	Slug              *string                       `gorm:"type:varchar(300);uniqueIndex" json:"slug" validate:"omitempty,max=300"`
	Code              string                        `gorm:"type:varchar(20);not null;uniqueIndex" json:"code" validate:"required,max=20"`
	ProductTemplateID *uuid.UUID                    `gorm:"type:uuid;index" json:"product_template"`
	ParentID          *uuid.UUID                    `gorm:"type:uuid;index" json:"parent"`
	Model             *string                       `gorm:"type:varchar(100)" json:"model" validate:"omitempty,max=100"`
	Barcode           *string                       `gorm:"type:varchar(100);uniqueIndex" json:"barcode" validate:"omitempty,max=100"`
	Description       *string                       `gorm:"type:text" json:"description"`
	Weight            decimal.NullDecimal           `gorm:"type:decimal(12,3)" json:"weight"`
	PackingType       PackingType                   `gorm:"type:varchar(10);not null;default:'SINGLE'" json:"packing_type" validate:"required,oneof=SINGLE PACK COMBO"`
	ImageAltText      string                        `gorm:"type:varchar(255);not null;default:'Product'" json:"image_alt_text" validate:"max=255"`
	AttributeValues   []ProductMasterAttributeValue `gorm:"foreignKey:ProductMasterID" json:"attribute_values" validate:"-"`
	PackItems         []ProductPackItem             `gorm:"foreignKey:ProductMasterID" json:"pack_items" validate:"-"`
	Products          []Product                     `gorm:"foreignKey:ProductMasterID" json:"products" validate:"-"`
}

// TableName returns the table name for GORM
func (ProductMaster) TableName() string {
	return "product_masters"
}

// NewProductMaster creates an active single-packed master
func NewProductMaster(code string) *ProductMaster {
	return &ProductMaster{
		BaseEntity:   shared.NewBaseEntity(),
		SoftDelete:   shared.SoftDelete{Status: shared.StatusActive},
		Code:         code,
		PackingType:  PackingSingle,
		ImageAltText: "Product",
	}
}

// AssignIdentity derives the slug and default barcode for a master that has none yet.
// Existing slugs are kept so URLs stay stable across renames.
func (m *ProductMaster) AssignIdentity() {
	if m.Slug == nil || *m.Slug == "" {
		slug := m.Code
		if m.Name != nil && shared.Slugify(*m.Name) != "" {
			slug = shared.Slugify(*m.Name)
		}
		m.Slug = &slug
	}
	if m.Barcode == nil || *m.Barcode == "" {
		barcode := m.Code
		m.Barcode = &barcode
	}
}

// DisplayName returns the name or the code for unnamed masters
func (m *ProductMaster) DisplayName() string {
	if m.Name != nil && *m.Name != "" {
		return *m.Name
	}
	return m.Code
}

// ProductMasterAttributeValue records which attribute value a master carries
type ProductMasterAttributeValue struct {
	shared.BaseEntity
	ProductMasterID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_master_template_attribute,priority:1" json:"product_master"`
	ProductTemplateAttributeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_master_template_attribute,priority:2" json:"product_template_attribute"`
	AttributeValueID           uuid.UUID `gorm:"type:uuid;not null" json:"attribute_value"`
}

// TableName returns the table name for GORM
func (ProductMasterAttributeValue) TableName() string {
	return "product_master_attribute_values"
}

// ProductPackItem is a component of a PACK or COMBO master
type ProductPackItem struct {
	shared.BaseEntity
	ProductMasterID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_master"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"item"`
	Qty             decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"qty"`
	ValueType       ValueType       `gorm:"type:varchar(4);not null;default:'PAID'" json:"value_type" validate:"required,oneof=FREE PAID"`
}

// TableName returns the table name for GORM
func (ProductPackItem) TableName() string {
	return "product_pack_items"
}

// Product is the country specific listing of a master
type Product struct {
	shared.BaseEntity
	shared.SoftDelete
	ProductMasterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_master_country,priority:1" json:"product_master"`
	CountryCode     string    `gorm:"type:varchar(2);not null;uniqueIndex:idx_product_master_country,priority:2" json:"country" validate:"required,iso3166_1_alpha2"`
	Name            *string   `gorm:"type:varchar(255)" json:"name" validate:"omitempty,max=255"`
	Description     *string   `gorm:"type:text" json:"description"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct lists master in a country
func NewProduct(masterID uuid.UUID, country string) Product {
	return Product{
		BaseEntity:      shared.NewBaseEntity(),
		SoftDelete:      shared.SoftDelete{Status: shared.StatusActive},
		ProductMasterID: masterID,
		CountryCode:     country,
	}
}
