package catalog

import (
	"github.com/storefront/backend/internal/domain/shared"
)

// Department is the top level grouping of categories
type Department struct {
	shared.BaseEntity
	shared.SoftDelete
	shared.SEO
	Name            string   `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Slug            string   `gorm:"type:varchar(150);not null;uniqueIndex" json:"slug" validate:"max=150"`
	Code            string   `gorm:"type:varchar(20);not null;uniqueIndex" json:"code" validate:"required,max=20"`
	Note            *string  `gorm:"type:text" json:"note"`
	Priority        Priority `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority" validate:"required,oneof=EXCELLENT HIGH MEDIUM LOW"`
	BackgroundColor *string  `gorm:"type:varchar(7)" json:"background_color" validate:"omitempty,hexcolor"`
	ImageAltText    string   `gorm:"type:varchar(255);not null;default:'Department'" json:"image_alt_text" validate:"max=255"`
	SortOrder       int      `gorm:"not null;default:0" json:"sort_order"`
}

// TableName returns the table name for GORM
func (Department) TableName() string {
	return "departments"
}

// NewDepartment creates an active department
func NewDepartment(code string) *Department {
	return &Department{
		BaseEntity:   shared.NewBaseEntity(),
		SoftDelete:   shared.SoftDelete{Status: shared.StatusActive},
		Code:         code,
		Priority:     PriorityMedium,
		ImageAltText: "Department",
	}
}

// Rename sets the name and derives the slug from it
func (d *Department) Rename(name string) {
	d.Name = name
	d.Slug = shared.Slugify(name)
}
