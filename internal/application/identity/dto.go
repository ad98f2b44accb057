package identity

import (
	"time"

	"github.com/storefront/backend/internal/domain/identity"
)

// UserInput carries the user fields of adminCreate
type UserInput struct {
	Mobile    string     `json:"mobile"`
	Email     *string    `json:"email"`
	Name      *string    `json:"name"`
	Country   *string    `json:"country"`
	Note      *string    `json:"note"`
	Dob       *time.Time `json:"dob"`
	Facebook  *string    `json:"facebook"`
	Instagram *string    `json:"instagram"`
	Whatsapp  *string    `json:"whatsapp"`
	Password  *string    `json:"password"`
	// Groups are permission group ids; each must be mapped to the ADMIN role
	Groups []string `json:"groups"`
}

// AdminInput carries the admin profile fields of adminCreate
type AdminInput struct {
	IsSuper    *bool      `json:"is_super"`
	DateJoined *time.Time `json:"date_joined"`
	Status     *string    `json:"status"`
	AuthType   *string    `json:"auth_type"`
}

// AdminCreateInput is the input of adminCreate
type AdminCreateInput struct {
	User  UserInput  `json:"input"`
	Admin AdminInput `json:"admin"`
}

// TokenResult is the payload of createAdminToken and refreshToken
type TokenResult struct {
	User             *identity.User `json:"user"`
	Token            string         `json:"token"`
	RefreshToken     string         `json:"refresh_token"`
	ExpiresAt        time.Time      `json:"expires_at"`
	RefreshExpiresAt time.Time      `json:"refresh_expires_at"`
	Verified         bool           `json:"verified"`
}

// AdminVerifyInput is the input of adminVerify
type AdminVerifyInput struct {
	User     string `json:"id"`
	Otp      int    `json:"otp"`
	Password string `json:"password"`
}

// UserTypeGroupInput is the input of userTypeGroupCreate and userTypeGroupUpdate
type UserTypeGroupInput struct {
	UserType *string `json:"user_type"`
	Group    *string `json:"group"`
}
