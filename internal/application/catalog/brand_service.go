package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// BrandService handles brand mutations and queries
type BrandService struct {
	Deps
	categories *CategoryService
}

// NewBrandService creates a new BrandService. Category filters of the list
// query include descendants through categories.
func NewBrandService(deps Deps, categories *CategoryService) *BrandService {
	return &BrandService{Deps: deps, categories: categories}
}

func fetchBrand(ctx context.Context, repos mutation.Repositories, id uuid.UUID, manager shared.Manager) (*catalog.Brand, error) {
	return repos.Brands().FindByID(ctx, id, manager)
}

// Save creates a brand when id is empty and updates it otherwise
func (s *BrandService) Save(ctx context.Context, id string, input BrandInput) (*catalog.Brand, mutation.Errors, error) {
	m := mutation.Model[*catalog.Brand, BrandInput]{
		Fetch: fetchBrand,
		New: func(ctx context.Context, repos mutation.Repositories, _ BrandInput, errs *mutation.Errors) (*catalog.Brand, error) {
			code, err := nextCode(ctx, shared.BrandCodes, repos.Brands().LastCode, 0, errs)
			if err != nil || code == "" {
				return nil, err
			}
			return catalog.NewBrand(code), nil
		},
		Clean: func(ctx context.Context, repos mutation.Repositories, b *catalog.Brand, in BrandInput, errs *mutation.Errors) error {
			if in.Name != nil {
				b.Rename(*in.Name)
				if b.Slug != "" {
					exists, err := repos.Brands().ExistsBySlug(ctx, b.Slug, b.ID)
					if err != nil {
						return err
					}
					if exists {
						errs.Add("name", "Brand already exists with this name.")
					}
				}
			}
			if in.Note != nil {
				b.Note = in.Note
			}
			if in.Website != nil {
				b.Website = in.Website
			}
			if in.ImageAltText != nil {
				b.ImageAltText = *in.ImageAltText
			}
			applySEO(&b.SEO, in.SEOInput)
			return nil
		},
		Save: func(ctx context.Context, repos mutation.Repositories, b *catalog.Brand) error {
			return repos.Brands().Save(ctx, b)
		},
		Events: s.Events,
	}
	return m.Perform(ctx, s.Scope, id, input)
}

// Delete removes a brand and its template links
func (s *BrandService) Delete(ctx context.Context, id string) (*catalog.Brand, mutation.Errors, error) {
	d := mutation.Delete[*catalog.Brand]{Fetch: fetchBrand, Events: s.Events}
	return d.Perform(ctx, s.Scope, id)
}

// ChangeStatus sets the status of a brand
func (s *BrandService) ChangeStatus(ctx context.Context, id, status string, cascade *bool) (*catalog.Brand, mutation.Errors, error) {
	sc := mutation.StatusChange[*catalog.Brand]{Fetch: fetchBrand, Events: s.Events}
	return sc.Perform(ctx, s.Scope, id, status, cascade)
}

// BulkChangeStatus sets the status of several brands
func (s *BrandService) BulkChangeStatus(ctx context.Context, ids []string, status string, cascade *bool) (int, mutation.Errors, error) {
	b := mutation.Bulk[*catalog.Brand]{Fetch: fetchBrand, Events: s.Events}
	return b.ChangeStatus(ctx, s.Scope, ids, status, cascade)
}

// Get returns a visible brand
func (s *BrandService) Get(ctx context.Context, id uuid.UUID) (*catalog.Brand, error) {
	return s.Repos.Brands().FindByID(ctx, id, shared.ManagerDefault)
}

// List returns brands, optionally only those sold in the given categories or below them
func (s *BrandService) List(ctx context.Context, in ListInput, categories []string) (shared.Page[catalog.Brand], error) {
	f := in.filter()
	if len(categories) > 0 {
		var errs mutation.Errors
		ids, err := s.categories.ExpandCategories(ctx, parseIDs("categories", categories, &errs))
		if err != nil {
			return shared.Page[catalog.Brand]{}, err
		}
		if len(ids) == 0 {
			return shared.NewPage[catalog.Brand](nil, 0), nil
		}
		f.Filters[catalog.FilterCategoryIDs] = ids
	}
	repo := s.Repos.Brands()
	return page(ctx, f, repo.FindAll, repo.Count)
}
