package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// UserTypeGroupService maps role types onto permission groups
type UserTypeGroupService struct {
	Deps
}

// NewUserTypeGroupService creates a new UserTypeGroupService
func NewUserTypeGroupService(deps Deps) *UserTypeGroupService {
	return &UserTypeGroupService{Deps: deps}
}

func fetchUserTypeGroup(ctx context.Context, repos mutation.Repositories, id uuid.UUID, _ shared.Manager) (*identity.UserTypeGroup, error) {
	return repos.UserTypeGroups().FindByID(ctx, id)
}

// Save creates a mapping when id is empty and updates it otherwise
func (s *UserTypeGroupService) Save(ctx context.Context, id string, input UserTypeGroupInput) (*identity.UserTypeGroup, mutation.Errors, error) {
	m := mutation.Model[*identity.UserTypeGroup, UserTypeGroupInput]{
		Fetch: fetchUserTypeGroup,
		New: func(context.Context, mutation.Repositories, UserTypeGroupInput, *mutation.Errors) (*identity.UserTypeGroup, error) {
			return identity.NewUserTypeGroup("", uuid.Nil), nil
		},
		Clean: func(ctx context.Context, repos mutation.Repositories, g *identity.UserTypeGroup, in UserTypeGroupInput, errs *mutation.Errors) error {
			if in.UserType != nil {
				g.UserType = identity.UserType(strings.ToUpper(strings.TrimSpace(*in.UserType)))
			}
			if in.Group != nil {
				gid, err := uuid.Parse(strings.TrimSpace(*in.Group))
				if err != nil {
					errs.Add("group", "Group not found.")
					return nil
				}
				group, err := repos.Groups().FindByID(ctx, gid)
				if errors.Is(err, shared.ErrNotFound) {
					errs.Add("group", "Group not found.")
					return nil
				}
				if err != nil {
					return err
				}
				g.GroupID = group.ID
				g.Group = group
			}
			if g.UserType == "" || g.GroupID == uuid.Nil {
				return nil
			}
			exists, err := repos.UserTypeGroups().Exists(ctx, g.UserType, g.GroupID, g.ID)
			if err != nil {
				return err
			}
			if exists {
				errs.Add("group", "User type group already exists.")
			}
			return nil
		},
		Save: func(ctx context.Context, repos mutation.Repositories, g *identity.UserTypeGroup) error {
			return repos.UserTypeGroups().Save(ctx, g)
		},
		Events: s.Events,
	}
	return m.Perform(ctx, s.Scope, id, input)
}

// Delete removes a mapping
func (s *UserTypeGroupService) Delete(ctx context.Context, id string) (*identity.UserTypeGroup, mutation.Errors, error) {
	d := mutation.Delete[*identity.UserTypeGroup]{Fetch: fetchUserTypeGroup, Events: s.Events}
	return d.Perform(ctx, s.Scope, id)
}

// Get returns one mapping
func (s *UserTypeGroupService) Get(ctx context.Context, id uuid.UUID) (*identity.UserTypeGroup, error) {
	return s.Repos.UserTypeGroups().FindByID(ctx, id)
}

// List returns the mappings of a role type
func (s *UserTypeGroupService) List(ctx context.Context, role string, in ListInput) (shared.Page[identity.UserTypeGroup], error) {
	f := in.filter()
	if role = strings.TrimSpace(role); role != "" {
		f.Filters["user_type"] = strings.ToUpper(role)
	}
	items, err := s.Repos.UserTypeGroups().FindAll(ctx, f)
	if err != nil {
		return shared.Page[identity.UserTypeGroup]{}, err
	}
	total, err := s.Repos.UserTypeGroups().Count(ctx, f)
	if err != nil {
		return shared.Page[identity.UserTypeGroup]{}, err
	}
	return shared.NewPage(items, total), nil
}
