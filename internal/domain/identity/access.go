package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// RoleProfile is the per-role record (admin, store user, customer, ...) behind a UserRole
type RoleProfile interface {
	GetStatus() shared.Status
	SuperRole() bool
}

// RoleProfileFinder loads the profile a user holds for a role type
type RoleProfileFinder interface {
	// FindRoleProfile returns shared.ErrNotFound when the user has no profile for role
	FindRoleProfile(ctx context.Context, userID uuid.UUID, role UserType) (RoleProfile, error)
}

// AccessPolicy answers role and permission checks for a user
type AccessPolicy struct {
	profiles RoleProfileFinder
	groups   GroupRepository
}

// NewAccessPolicy creates an AccessPolicy
func NewAccessPolicy(profiles RoleProfileFinder, groups GroupRepository) *AccessPolicy {
	return &AccessPolicy{profiles: profiles, groups: groups}
}

// HasRole reports whether the user holds one of roles with an ACTIVE profile
func (p *AccessPolicy) HasRole(ctx context.Context, user *User, roles ...UserType) (bool, error) {
	for _, role := range roles {
		if !user.HasRoleType(role) {
			continue
		}
		profile, err := p.profiles.FindRoleProfile(ctx, user.ID, role)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return false, err
		}
		if profile.GetStatus() == shared.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

// HasPermission reports whether the user is in a group named perm, or holds a super
// profile for a role type that is mapped to that group.
func (p *AccessPolicy) HasPermission(ctx context.Context, user *User, perms ...string) (bool, error) {
	if user.InGroup(perms...) {
		return true, nil
	}
	groups, err := p.groups.FindByNames(ctx, perms)
	if err != nil {
		return false, err
	}
	if len(groups) == 0 {
		return false, nil
	}
	groupIDs := make([]uuid.UUID, 0, len(groups))
	for _, g := range groups {
		groupIDs = append(groupIDs, g.ID)
	}

	for _, role := range user.RoleTypes() {
		profile, err := p.profiles.FindRoleProfile(ctx, user.ID, role)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return false, err
		}
		if !profile.SuperRole() {
			continue
		}
		mapped, err := p.groups.UserTypeMapped(ctx, role, groupIDs)
		if err != nil {
			return false, err
		}
		if mapped {
			return true, nil
		}
	}
	return false, nil
}
