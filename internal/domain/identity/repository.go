package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID loads the user with roles and groups
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByMobile(ctx context.Context, mobile string) (*User, error)
	ExistsByMobile(ctx context.Context, mobile string, excludeID uuid.UUID) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, user *User) error
	AddRole(ctx context.Context, role *UserRole) error
	AddToGroups(ctx context.Context, user *User, groups ...Group) error
	LastCode(ctx context.Context) (string, error)
}

// AdminRepository defines persistence operations for admin profiles
type AdminRepository interface {
	FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*Admin, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Admin, error)
	// FindAll lists admins with their users; filter.Filters["exclude_user_id"] hides one user
	FindAll(ctx context.Context, filter shared.Filter) ([]Admin, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, admin *Admin) error
}

// GroupRepository defines persistence operations for permission groups
type GroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Group, error)
	FindByNames(ctx context.Context, names []string) ([]Group, error)
	Save(ctx context.Context, group *Group) error
	// UserTypeMapped reports whether any of groupIDs is granted to role through UserTypeGroup
	UserTypeMapped(ctx context.Context, role UserType, groupIDs []uuid.UUID) (bool, error)
}

// UserTypeGroupRepository defines persistence operations for role-to-group mappings
type UserTypeGroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserTypeGroup, error)
	// FindAll filters by filter.Filters["user_type"] and searches the user type and group name
	FindAll(ctx context.Context, filter shared.Filter) ([]UserTypeGroup, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Exists(ctx context.Context, userType UserType, groupID uuid.UUID, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, mapping *UserTypeGroup) error
}

// OtpRepository defines persistence operations for one time passwords
type OtpRepository interface {
	Save(ctx context.Context, otp *Otp) error
	// FindValid returns the newest unexpired OTP of the user matching code
	FindValid(ctx context.Context, userID uuid.UUID, code int, now time.Time) (*Otp, error)
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
