package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// AuthType is the sign-in scheme required for an admin
type AuthType string

const (
	AuthSingle         AuthType = "SINGLE"
	AuthTwoFactorNew   AuthType = "TWO_FACTOR_NEW"
	AuthTwoFactorOTP   AuthType = "TWO_FACTOR_OTP"
	AuthTwoFactorEmail AuthType = "TWO_FACTOR_EMAIL"
)

// Admin is the ADMIN role profile of a user
type Admin struct {
	shared.BaseEntity
	shared.SoftDelete
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user"`
	User       *User     `gorm:"foreignKey:UserID" json:"-" validate:"-"`
	IsSuper    bool      `gorm:"not null;default:false" json:"is_super"`
	DateJoined time.Time `gorm:"not null" json:"date_joined"`
	AuthType   AuthType  `gorm:"type:varchar(16);not null;default:'TWO_FACTOR_NEW'" json:"auth_type" validate:"required,oneof=SINGLE TWO_FACTOR_NEW TWO_FACTOR_OTP TWO_FACTOR_EMAIL"`
}

// TableName returns the table name for GORM
func (Admin) TableName() string {
	return "admins"
}

// NewAdmin creates a pending admin profile that must be verified before use
func NewAdmin(userID uuid.UUID) *Admin {
	return &Admin{
		BaseEntity: shared.NewBaseEntity(),
		SoftDelete: shared.SoftDelete{Status: shared.StatusPending},
		UserID:     userID,
		DateJoined: time.Now(),
		AuthType:   AuthTwoFactorNew,
	}
}

// Verified reports whether the admin completed verification
func (a *Admin) Verified() bool {
	return a.Status == shared.StatusActive
}

// SuperRole reports whether the profile grants super permissions
func (a *Admin) SuperRole() bool {
	return a.IsSuper
}
