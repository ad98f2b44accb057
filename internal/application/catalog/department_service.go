package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// DepartmentService handles department mutations and queries
type DepartmentService struct {
	Deps
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(deps Deps) *DepartmentService {
	return &DepartmentService{Deps: deps}
}

func fetchDepartment(ctx context.Context, repos mutation.Repositories, id uuid.UUID, manager shared.Manager) (*catalog.Department, error) {
	return repos.Departments().FindByID(ctx, id, manager)
}

// Save creates a department when id is empty and updates it otherwise
func (s *DepartmentService) Save(ctx context.Context, id string, input DepartmentInput) (*catalog.Department, mutation.Errors, error) {
	m := mutation.Model[*catalog.Department, DepartmentInput]{
		Fetch: fetchDepartment,
		New: func(ctx context.Context, repos mutation.Repositories, _ DepartmentInput, errs *mutation.Errors) (*catalog.Department, error) {
			code, err := nextCode(ctx, shared.DepartmentCodes, repos.Departments().LastCode, 0, errs)
			if err != nil || code == "" {
				return nil, err
			}
			return catalog.NewDepartment(code), nil
		},
		Clean: s.clean,
		Save: func(ctx context.Context, repos mutation.Repositories, d *catalog.Department) error {
			return repos.Departments().Save(ctx, d)
		},
		Events: s.Events,
	}
	return m.Perform(ctx, s.Scope, id, input)
}

func (s *DepartmentService) clean(ctx context.Context, repos mutation.Repositories, d *catalog.Department, in DepartmentInput, errs *mutation.Errors) error {
	if in.Name != nil {
		d.Rename(*in.Name)
		if d.Slug != "" {
			exists, err := repos.Departments().ExistsBySlug(ctx, d.Slug, d.ID)
			if err != nil {
				return err
			}
			if exists {
				errs.Add("name", "Department already exists with this name.")
			}
		}
	}
	if in.Note != nil {
		d.Note = in.Note
	}
	if in.Priority != nil {
		d.Priority = catalog.Priority(*in.Priority)
	}
	if in.BackgroundColor != nil {
		d.BackgroundColor = in.BackgroundColor
	}
	if in.ImageAltText != nil {
		d.ImageAltText = *in.ImageAltText
	}
	if in.SortOrder != nil {
		d.SortOrder = *in.SortOrder
	}
	applySEO(&d.SEO, in.SEOInput)
	return nil
}

// Delete removes a department; its categories lose their department
func (s *DepartmentService) Delete(ctx context.Context, id string) (*catalog.Department, mutation.Errors, error) {
	d := mutation.Delete[*catalog.Department]{Fetch: fetchDepartment, Events: s.Events}
	return d.Perform(ctx, s.Scope, id)
}

// ChangeStatus sets the status of a department
func (s *DepartmentService) ChangeStatus(ctx context.Context, id, status string, cascade *bool) (*catalog.Department, mutation.Errors, error) {
	sc := mutation.StatusChange[*catalog.Department]{Fetch: fetchDepartment, Events: s.Events}
	return sc.Perform(ctx, s.Scope, id, status, cascade)
}

// BulkDelete removes several departments
func (s *DepartmentService) BulkDelete(ctx context.Context, ids []string) (int, mutation.Errors, error) {
	b := mutation.Bulk[*catalog.Department]{Fetch: fetchDepartment, Events: s.Events}
	return b.Delete(ctx, s.Scope, ids)
}

// BulkChangeStatus sets the status of several departments
func (s *DepartmentService) BulkChangeStatus(ctx context.Context, ids []string, status string, cascade *bool) (int, mutation.Errors, error) {
	b := mutation.Bulk[*catalog.Department]{Fetch: fetchDepartment, Events: s.Events}
	return b.ChangeStatus(ctx, s.Scope, ids, status, cascade)
}

// Get returns a visible department
func (s *DepartmentService) Get(ctx context.Context, id uuid.UUID) (*catalog.Department, error) {
	return s.Repos.Departments().FindByID(ctx, id, shared.ManagerDefault)
}

// List returns departments ordered by name
func (s *DepartmentService) List(ctx context.Context, in ListInput) (shared.Page[catalog.Department], error) {
	repo := s.Repos.Departments()
	return page(ctx, in.filter(), repo.FindAll, repo.Count)
}
