package commerce

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// BusinessType is how a store trades
type BusinessType string

const (
	BusinessRetail    BusinessType = "RETAIL"
	BusinessWholesale BusinessType = "WHOLESALE"
)

// Store is a tenant selling catalog products
type Store struct {
	shared.BaseEntity
	shared.SoftDelete
	Name         string       `gorm:"type:varchar(150);not null" json:"name" validate:"required,max=150"`
	Slug         string       `gorm:"type:varchar(200);not null;uniqueIndex" json:"slug" validate:"max=200"`
	Code         string       `gorm:"type:varchar(20);not null;uniqueIndex" json:"code" validate:"required,max=20"`
	Mobile       *string      `gorm:"type:varchar(12)" json:"mobile" validate:"omitempty,max=12"`
	Email        *string      `gorm:"type:varchar(254)" json:"email" validate:"omitempty,email"`
	Address      *string      `gorm:"type:text" json:"address"`
	CountryCode  string       `gorm:"type:varchar(2);not null" json:"country" validate:"required,iso3166_1_alpha2"`
	BusinessType BusinessType `gorm:"type:varchar(10);not null;default:'RETAIL'" json:"business_type" validate:"required,oneof=RETAIL WHOLESALE"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a pending store
func NewStore(code string) *Store {
	return &Store{
		BaseEntity:   shared.NewBaseEntity(),
		SoftDelete:   shared.SoftDelete{Status: shared.StatusPending},
		Code:         code,
		BusinessType: BusinessRetail,
	}
}

// Rename sets the name and derives the slug from it
func (s *Store) Rename(name string) {
	s.Name = name
	s.Slug = shared.Slugify(name)
}

// StoreUser is the STORE role profile: a user working for a store
type StoreUser struct {
	shared.BaseEntity
	shared.SoftDelete
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user"`
	StoreID uuid.UUID `gorm:"type:uuid;not null;index" json:"store"`
	IsSuper bool      `gorm:"not null;default:false" json:"is_super"`
}

// TableName returns the table name for GORM
func (StoreUser) TableName() string {
	return "store_users"
}

// SuperRole reports whether the profile grants super permissions
func (s *StoreUser) SuperRole() bool {
	return s.IsSuper
}

// Customer is the CUSTOMER role profile
type Customer struct {
	shared.BaseEntity
	shared.SoftDelete
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// SuperRole is always false for customers
func (c *Customer) SuperRole() bool {
	return false
}

// DeliveryAgent is the DELIVERY role profile
type DeliveryAgent struct {
	shared.BaseEntity
	shared.SoftDelete
	UserID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user"`
	StoreID *uuid.UUID `gorm:"type:uuid;index" json:"store"`
}

// TableName returns the table name for GORM
func (DeliveryAgent) TableName() string {
	return "delivery_agents"
}

// SuperRole is always false for delivery agents
func (d *DeliveryAgent) SuperRole() bool {
	return false
}
