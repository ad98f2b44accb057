package catalog

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// MaxCategoryDepth is the maximum depth of category hierarchy
const MaxCategoryDepth = 6

// Category represents a product category in the catalog.
// It supports tree structure with parent-child relationships.
type Category struct {
	shared.BaseEntity
	shared.SoftDelete
	shared.SEO
	Name            string     `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Slug            string     `gorm:"type:varchar(150);not null;uniqueIndex" json:"slug" validate:"max=150"`
	Code            string     `gorm:"type:varchar(20);not null;uniqueIndex" json:"code" validate:"required,max=20"`
	Note            *string    `gorm:"type:text" json:"note"`
	ParentID        *uuid.UUID `gorm:"type:uuid;index" json:"parent"`
	DepartmentID    *uuid.UUID `gorm:"type:uuid;index" json:"department"`
	Path            string     `gorm:"type:varchar(500);not null;index" json:"-"` // Materialized path for tree queries
	Level           int        `gorm:"not null;default:0" json:"level"`
	Priority        Priority   `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority" validate:"required,oneof=EXCELLENT HIGH MEDIUM LOW"`
	Maturity        Maturity   `gorm:"type:varchar(10);not null;default:'MATURED'" json:"maturity" validate:"required,oneof=UNMATURED MATURED CITIZEN"`
	BackgroundColor *string    `gorm:"type:varchar(7)" json:"background_color" validate:"omitempty,hexcolor"`
	ImageAltText    string     `gorm:"type:varchar(255);not null;default:'Category'" json:"image_alt_text" validate:"max=255"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates an active root category with the default maturity and priority
func NewCategory(code string) *Category {
	c := &Category{
		BaseEntity:   shared.NewBaseEntity(),
		SoftDelete:   shared.SoftDelete{Status: shared.StatusActive},
		Code:         code,
		Priority:     PriorityMedium,
		Maturity:     MaturityMatured,
		ImageAltText: "Category",
	}
	c.Path = c.ID.String()
	return c
}

// Rename sets the name and derives the slug from it
func (c *Category) Rename(name string) {
	c.Name = name
	c.Slug = shared.Slugify(name)
}

// MoveUnder places the category below parent, or at the root when parent is nil
func (c *Category) MoveUnder(parent *Category) error {
	if parent == nil {
		c.ParentID = nil
		c.Level = 0
		c.Path = c.ID.String()
		return nil
	}
	if parent.ID == c.ID || c.IsAncestorOf(parent) {
		return shared.NewDomainError("INVALID_PARENT", "Category cannot be moved under itself or its descendants.")
	}
	if parent.Level >= MaxCategoryDepth-1 {
		return shared.NewDomainError("MAX_DEPTH_EXCEEDED", "Category hierarchy is too deep.")
	}
	c.ParentID = &parent.ID
	c.Level = parent.Level + 1
	c.Path = parent.Path + "/" + c.ID.String()
	return nil
}

// IsAncestorOf reports whether other lies below c in the tree
func (c *Category) IsAncestorOf(other *Category) bool {
	prefix := c.Path + "/"
	return len(other.Path) > len(prefix) && other.Path[:len(prefix)] == prefix
}

// IsRoot returns true if this is a root category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
