package identity

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// UserType is the kind of role a user can hold
type UserType string

const (
	UserTypeAdmin     UserType = "ADMIN"
	UserTypeStore     UserType = "STORE"
	UserTypeDelivery  UserType = "DELIVERY"
	UserTypeCustomer  UserType = "CUSTOMER"
	UserTypeSponsor   UserType = "SPONSOR"
	UserTypeExecutive UserType = "EXECUTIVE"
	UserTypeDeveloper UserType = "DEVELOPER"
)

// UserTypes lists every user type
var UserTypes = []UserType{
	UserTypeAdmin,
	UserTypeStore,
	UserTypeDelivery,
	UserTypeCustomer,
	UserTypeSponsor,
	UserTypeExecutive,
	UserTypeDeveloper,
}

// IsValid reports whether t is a declared user type
func (t UserType) IsValid() bool {
	for _, v := range UserTypes {
		if v == t {
			return true
		}
	}
	return false
}

// UserRole grants a role type to a user
type UserRole struct {
	shared.BaseEntity
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_role,priority:1" json:"user"`
	UserType UserType  `gorm:"type:varchar(10);not null;uniqueIndex:idx_user_role,priority:2" json:"user_type" validate:"required"`
}

// TableName returns the table name for GORM
func (UserRole) TableName() string {
	return "user_roles"
}

// NewUserRole creates a role grant
func NewUserRole(userID uuid.UUID, userType UserType) *UserRole {
	return &UserRole{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		UserType:   userType,
	}
}

// Group is a named permission; membership grants the permission of the same name
type Group struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(150);not null;uniqueIndex" json:"name" validate:"required,max=150"`
}

// TableName returns the table name for GORM
func (Group) TableName() string {
	return "groups"
}

// NewGroup creates a permission group
func NewGroup(name string) *Group {
	return &Group{BaseEntity: shared.NewBaseEntity(), Name: name}
}

// UserTypeGroup grants a group to every super holder of a role type
type UserTypeGroup struct {
	shared.BaseEntity
	UserType UserType  `gorm:"type:varchar(10);not null;uniqueIndex:idx_user_type_group,priority:1" json:"user_type" validate:"required,oneof=ADMIN STORE DELIVERY CUSTOMER SPONSOR EXECUTIVE DEVELOPER"`
	GroupID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_type_group,priority:2" json:"group" validate:"required"`
	Group    *Group    `gorm:"foreignKey:GroupID" json:"-" validate:"-"`
}

// TableName returns the table name for GORM
func (UserTypeGroup) TableName() string {
	return "user_type_groups"
}

// NewUserTypeGroup creates a role-to-group mapping
func NewUserTypeGroup(userType UserType, groupID uuid.UUID) *UserTypeGroup {
	return &UserTypeGroup{
		BaseEntity: shared.NewBaseEntity(),
		UserType:   userType,
		GroupID:    groupID,
	}
}
