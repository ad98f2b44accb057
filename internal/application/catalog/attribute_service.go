package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// AttributeService handles attributes, attribute groups and their items
type AttributeService struct {
	Deps
}

// NewAttributeService creates a new AttributeService
func NewAttributeService(deps Deps) *AttributeService {
	return &AttributeService{Deps: deps}
}

func fetchAttributeGroup(ctx context.Context, repos mutation.Repositories, id uuid.UUID, manager shared.Manager) (*catalog.AttributeGroup, error) {
	return repos.AttributeGroups().FindByID(ctx, id, manager)
}

func fetchAttribute(ctx context.Context, repos mutation.Repositories, id uuid.UUID, manager shared.Manager) (*catalog.Attribute, error) {
	return repos.Attributes().FindByID(ctx, id, manager)
}

// SaveGroup creates an attribute group or adds items to an existing one
func (s *AttributeService) SaveGroup(ctx context.Context, id string, input AttributeGroupInput) (*catalog.AttributeGroup, mutation.Errors, error) {
	m := mutation.Model[*catalog.AttributeGroup, AttributeGroupInput]{
		Fetch: fetchAttributeGroup,
		New: func(context.Context, mutation.Repositories, AttributeGroupInput, *mutation.Errors) (*catalog.AttributeGroup, error) {
			return catalog.NewAttributeGroup(""), nil
		},
		Clean: func(ctx context.Context, repos mutation.Repositories, g *catalog.AttributeGroup, in AttributeGroupInput, errs *mutation.Errors) error {
			if in.Name != nil {
				g.Name = *in.Name
				g.Slug = shared.Slugify(*in.Name)
				if g.Slug != "" {
					exists, err := repos.AttributeGroups().ExistsBySlug(ctx, g.Slug, g.ID)
					if err != nil {
						return err
					}
					if exists {
						errs.Add("name", "Attribute group already exists.")
					}
				}
			}
			for _, problem := range g.AddItems(in.Items) {
				errs.Add("items", problem)
			}
			return nil
		},
		Save: func(ctx context.Context, repos mutation.Repositories, g *catalog.AttributeGroup) error {
			return repos.AttributeGroups().Save(ctx, g)
		},
		Events: s.Events,
	}
	return m.Perform(ctx, s.Scope, id, input)
}

// SaveAttribute creates an attribute or adds values to an existing one
func (s *AttributeService) SaveAttribute(ctx context.Context, id string, input AttributeInput) (*catalog.Attribute, mutation.Errors, error) {
	m := mutation.Model[*catalog.Attribute, AttributeInput]{
		Fetch: fetchAttribute,
		New: func(context.Context, mutation.Repositories, AttributeInput, *mutation.Errors) (*catalog.Attribute, error) {
			return catalog.NewAttribute(""), nil
		},
		Clean: func(ctx context.Context, repos mutation.Repositories, a *catalog.Attribute, in AttributeInput, errs *mutation.Errors) error {
			if in.Name != nil {
				a.Name = *in.Name
				a.Slug = shared.Slugify(*in.Name)
				if a.Slug != "" {
					exists, err := repos.Attributes().ExistsBySlug(ctx, a.Slug, a.ID)
					if err != nil {
						return err
					}
					if exists {
						errs.Add("name", "Attribute already exists with this name.")
					}
				}
			}
			if in.QtyAttribute != nil {
				a.QtyAttribute = *in.QtyAttribute
			}
			if in.ValuePattern != nil {
				a.ValuePattern = in.ValuePattern
			}
			for _, problem := range a.AddValues(in.Values) {
				errs.Add("values", problem)
			}
			return nil
		},
		Save: func(ctx context.Context, repos mutation.Repositories, a *catalog.Attribute) error {
			return repos.Attributes().Save(ctx, a)
		},
		Events: s.Events,
	}
	return m.Perform(ctx, s.Scope, id, input)
}

// ChangeGroupStatus sets the status of an attribute group
func (s *AttributeService) ChangeGroupStatus(ctx context.Context, id, status string, cascade *bool) (*catalog.AttributeGroup, mutation.Errors, error) {
	sc := mutation.StatusChange[*catalog.AttributeGroup]{Fetch: fetchAttributeGroup, Events: s.Events}
	return sc.Perform(ctx, s.Scope, id, status, cascade)
}

// ChangeAttributeStatus sets the status of an attribute. Attributes still used
// by a template cannot be removed.
func (s *AttributeService) ChangeAttributeStatus(ctx context.Context, id, status string, cascade *bool) (*catalog.Attribute, mutation.Errors, error) {
	sc := mutation.StatusChange[*catalog.Attribute]{Fetch: fetchAttribute, Events: s.Events}
	return sc.Perform(ctx, s.Scope, id, status, cascade)
}

// GetGroup returns a visible attribute group with its items
func (s *AttributeService) GetGroup(ctx context.Context, id uuid.UUID) (*catalog.AttributeGroup, error) {
	return s.Repos.AttributeGroups().FindByID(ctx, id, shared.ManagerDefault)
}

// GetAttribute returns a visible attribute with its values
func (s *AttributeService) GetAttribute(ctx context.Context, id uuid.UUID) (*catalog.Attribute, error) {
	return s.Repos.Attributes().FindByID(ctx, id, shared.ManagerDefault)
}

// ListGroups returns attribute groups ordered by name
func (s *AttributeService) ListGroups(ctx context.Context, in ListInput) (shared.Page[catalog.AttributeGroup], error) {
	repo := s.Repos.AttributeGroups()
	return page(ctx, in.filter(), repo.FindAll, repo.Count)
}

// ListAttributes returns attributes ordered by name
func (s *AttributeService) ListAttributes(ctx context.Context, in ListInput) (shared.Page[catalog.Attribute], error) {
	repo := s.Repos.Attributes()
	return page(ctx, in.filter(), repo.FindAll, repo.Count)
}
