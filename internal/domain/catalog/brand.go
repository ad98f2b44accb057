package catalog

import (
	"github.com/storefront/backend/internal/domain/shared"
)

// Brand is a manufacturer or label attached to product templates
type Brand struct {
	shared.BaseEntity
	shared.SoftDelete
	shared.SEO
	Name         string  `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Slug         string  `gorm:"type:varchar(150);not null;uniqueIndex" json:"slug" validate:"max=150"`
	Code         string  `gorm:"type:varchar(20);not null;uniqueIndex" json:"code" validate:"required,max=20"`
	Note         *string `gorm:"type:text" json:"note"`
	Website      *string `gorm:"type:varchar(255)" json:"website" validate:"omitempty,url"`
	ImageAltText string  `gorm:"type:varchar(255);not null;default:'Brand'" json:"image_alt_text" validate:"max=255"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates an active brand
func NewBrand(code string) *Brand {
	return &Brand{
		BaseEntity:   shared.NewBaseEntity(),
		SoftDelete:   shared.SoftDelete{Status: shared.StatusActive},
		Code:         code,
		ImageAltText: "Brand",
	}
}

// Rename sets the name and derives the slug from it
func (b *Brand) Rename(name string) {
	b.Name = name
	b.Slug = shared.Slugify(name)
}
