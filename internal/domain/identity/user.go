package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used when hashing passwords
var PasswordCost = 12

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

var mobileRegex = regexp.MustCompile(`(^[+0-9]{1,3})*([0-9]{10,11}$)`)

// User is a person who can sign in; roles and role profiles hang off it
type User struct {
	shared.BaseEntity
	CountryCode  *string    `gorm:"type:varchar(2)" json:"country" validate:"omitempty,iso3166_1_alpha2"`
	Mobile       string     `gorm:"type:varchar(12);not null;uniqueIndex" json:"mobile" validate:"required,max=12"`
	Code         string     `gorm:"type:varchar(15);not null;uniqueIndex" json:"code" validate:"required,max=15"`
	Email        *string    `gorm:"type:varchar(254);uniqueIndex" json:"email" validate:"omitempty,email,max=254"`
	Name         string     `gorm:"type:varchar(256);not null" json:"name" validate:"max=256"`
	Token        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"token"`
	Note         *string    `gorm:"type:text" json:"note"`
	Dob          *time.Time `gorm:"type:date" json:"dob"`
	Facebook     *string    `gorm:"type:varchar(200)" json:"facebook" validate:"omitempty,url"`
	Instagram    *string    `gorm:"type:varchar(200)" json:"instagram" validate:"omitempty,url"`
	Whatsapp     *string    `gorm:"type:varchar(12)" json:"whatsapp" validate:"omitempty,max=12"`
	PasswordHash string     `gorm:"type:varchar(128);not null;default:''" json:"-"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	Roles        []UserRole `gorm:"foreignKey:UserID" json:"roles" validate:"-"`
	Groups       []Group    `gorm:"many2many:user_groups" json:"groups" validate:"-"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a user identified by mobile
func NewUser(code, mobile string) *User {
	return &User{
		BaseEntity: shared.NewBaseEntity(),
		Mobile:     strings.TrimSpace(mobile),
		Code:       code,
		Token:      uuid.New(),
		IsActive:   true,
	}
}

// ValidMobile reports whether mobile looks like a phone number
func ValidMobile(mobile string) bool {
	return len(mobile) <= 12 && mobileRegex.MatchString(mobile)
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	if len(password) < MinPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "password has minimum 8 length")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return shared.WrapDomainError("PASSWORD_HASH_ERROR", "Failed to hash password", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// ChangePassword replaces the password after checking the current one
func (u *User) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return shared.NewDomainError("INVALID_PASSWORD", "invalid current password")
	}
	return u.SetPassword(next)
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HasRoleType reports whether a UserRole row exists for role, ignoring profile status
func (u *User) HasRoleType(role UserType) bool {
	for _, r := range u.Roles {
		if r.UserType == role {
			return true
		}
	}
	return false
}

// RoleTypes returns the user's role types
func (u *User) RoleTypes() []UserType {
	types := make([]UserType, 0, len(u.Roles))
	for _, r := range u.Roles {
		types = append(types, r.UserType)
	}
	return types
}

// InGroup reports whether the user belongs to any group with one of the names
func (u *User) InGroup(names ...string) bool {
	for _, g := range u.Groups {
		for _, n := range names {
			if g.Name == n {
				return true
			}
		}
	}
	return false
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLogin = &at
}
