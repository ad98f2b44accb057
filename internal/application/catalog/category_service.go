package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService handles category mutations and tree queries
type CategoryService struct {
	Deps
	cache catalog.DescendantCache
}

// NewCategoryService creates a new CategoryService. cache may be nil.
func NewCategoryService(deps Deps, cache catalog.DescendantCache) *CategoryService {
	return &CategoryService{Deps: deps, cache: cache}
}

func fetchCategory(ctx context.Context, repos mutation.Repositories, id uuid.UUID, manager shared.Manager) (*catalog.Category, error) {
	return repos.Categories().FindByID(ctx, id, manager)
}

// Save creates a category when id is empty and updates it otherwise.
// Moving a category carries its whole subtree along.
func (s *CategoryService) Save(ctx context.Context, id string, input CategoryInput) (*catalog.Category, mutation.Errors, error) {
	var (
		oldPath  string
		oldLevel int
	)
	m := mutation.Model[*catalog.Category, CategoryInput]{
		Fetch: func(ctx context.Context, repos mutation.Repositories, id uuid.UUID, manager shared.Manager) (*catalog.Category, error) {
			c, err := fetchCategory(ctx, repos, id, manager)
			if err == nil {
				oldPath, oldLevel = c.Path, c.Level
			}
			return c, err
		},
		New: func(ctx context.Context, repos mutation.Repositories, _ CategoryInput, errs *mutation.Errors) (*catalog.Category, error) {
			code, err := nextCode(ctx, shared.CategoryCodes, repos.Categories().LastCode, 0, errs)
			if err != nil || code == "" {
				return nil, err
			}
			return catalog.NewCategory(code), nil
		},
		Clean: s.clean,
		Save: func(ctx context.Context, repos mutation.Repositories, c *catalog.Category) error {
			if err := repos.Categories().Save(ctx, c); err != nil {
				return err
			}
			if oldPath != "" && oldPath != c.Path {
				return repos.Categories().MoveSubtree(ctx, oldPath, c.Path, c.Level-oldLevel)
			}
			return nil
		},
		Events: s.Events,
	}
	return m.Perform(ctx, s.Scope, id, input)
}

func (s *CategoryService) clean(ctx context.Context, repos mutation.Repositories, c *catalog.Category, in CategoryInput, errs *mutation.Errors) error {
	if in.Name != nil {
		c.Rename(*in.Name)
		if c.Slug != "" {
			exists, err := repos.Categories().ExistsBySlug(ctx, c.Slug, c.ID)
			if err != nil {
				return err
			}
			if exists {
				errs.Add("name", "Category already exists with this name.")
			}
		}
	}

	if in.Parent != nil {
		parentID, ok := parseID(*in.Parent)
		switch {
		case !ok:
			errs.Add("parent", "Parent category not found.")
		case parentID == uuid.Nil:
			_ = c.MoveUnder(nil)
		default:
			parent, err := repos.Categories().FindByID(ctx, parentID, shared.ManagerDefault)
			if errors.Is(err, shared.ErrNotFound) {
				errs.Add("parent", "Parent category not found.")
			} else if err != nil {
				return err
			} else if err := c.MoveUnder(parent); err != nil {
				errs.AddDomain("parent", err)
			}
		}
	}

	if in.Department != nil {
		deptID, ok := parseID(*in.Department)
		switch {
		case !ok:
			errs.Add("department", "Department not found.")
		case deptID == uuid.Nil:
			c.DepartmentID = nil
		default:
			if _, err := repos.Departments().FindByID(ctx, deptID, shared.ManagerDefault); errors.Is(err, shared.ErrNotFound) {
				errs.Add("department", "Department not found.")
			} else if err != nil {
				return err
			} else {
				c.DepartmentID = &deptID
			}
		}
	}

	if in.Note != nil {
		c.Note = in.Note
	}
	if in.Priority != nil {
		c.Priority = catalog.Priority(*in.Priority)
	}
	if in.Maturity != nil {
		c.Maturity = catalog.Maturity(*in.Maturity)
	}
	if in.BackgroundColor != nil {
		c.BackgroundColor = in.BackgroundColor
	}
	if in.ImageAltText != nil {
		c.ImageAltText = *in.ImageAltText
	}
	applySEO(&c.SEO, in.SEOInput)
	return nil
}

// Delete removes a category and its subtree
func (s *CategoryService) Delete(ctx context.Context, id string) (*catalog.Category, mutation.Errors, error) {
	d := mutation.Delete[*catalog.Category]{Fetch: fetchCategory, Events: s.Events}
	return d.Perform(ctx, s.Scope, id)
}

// ChangeStatus sets the status of a category, cascading to its subtree by default
func (s *CategoryService) ChangeStatus(ctx context.Context, id, status string, cascade *bool) (*catalog.Category, mutation.Errors, error) {
	sc := mutation.StatusChange[*catalog.Category]{Fetch: fetchCategory, Events: s.Events}
	return sc.Perform(ctx, s.Scope, id, status, cascade)
}

// BulkDelete removes several categories
func (s *CategoryService) BulkDelete(ctx context.Context, ids []string) (int, mutation.Errors, error) {
	b := mutation.Bulk[*catalog.Category]{Fetch: fetchCategory, Events: s.Events}
	return b.Delete(ctx, s.Scope, ids)
}

// BulkChangeStatus sets the status of several categories
func (s *CategoryService) BulkChangeStatus(ctx context.Context, ids []string, status string, cascade *bool) (int, mutation.Errors, error) {
	b := mutation.Bulk[*catalog.Category]{Fetch: fetchCategory, Events: s.Events}
	return b.ChangeStatus(ctx, s.Scope, ids, status, cascade)
}

// Get returns a visible category
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	return s.Repos.Categories().FindByID(ctx, id, shared.ManagerDefault)
}

// List returns categories filtered by level, parent and department
func (s *CategoryService) List(ctx context.Context, in CategoryListInput) (shared.Page[catalog.Category], error) {
	f := in.filter()
	if in.Level != nil {
		f.Filters[catalog.FilterLevel] = *in.Level
	}
	if in.Parent != nil {
		if id, ok := parseID(*in.Parent); ok && id != uuid.Nil {
			f.Filters[catalog.FilterParentID] = id
		}
	}
	if len(in.Departments) > 0 {
		f.Filters[catalog.FilterDepartmentIDs] = in.Departments
	}
	repo := s.Repos.Categories()
	return page(ctx, f, repo.FindAll, repo.Count)
}

// Descendants returns the ids of every category below id, served from the cache when possible
func (s *CategoryService) Descendants(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	if s.cache != nil {
		if ids, ok := s.cache.Get(ctx, id); ok {
			return ids, nil
		}
	}
	ids, err := s.Repos.Categories().FindDescendantIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, id, ids)
		s.log().Debug("category descendants cached", zap.Stringer("category_id", id), zap.Int("count", len(ids)))
	}
	return ids, nil
}

// ExpandCategories returns ids together with all of their descendants, without duplicates
func (s *CategoryService) ExpandCategories(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range ids {
		add(id)
		desc, err := s.Descendants(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, d := range desc {
			add(d)
		}
	}
	return out, nil
}
