package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// MasterService handles product masters
type MasterService struct {
	Deps
	categories *CategoryService
}

// NewMasterService creates a new MasterService
func NewMasterService(deps Deps, categories *CategoryService) *MasterService {
	return &MasterService{Deps: deps, categories: categories}
}

func fetchMaster(ctx context.Context, repos mutation.Repositories, id uuid.UUID, manager shared.Manager) (*catalog.ProductMaster, error) {
	return repos.Masters().FindByID(ctx, id, manager)
}

// resolveTemplate loads the template named by raw, recording a miss under product_template
func resolveTemplate(ctx context.Context, repos mutation.Repositories, raw string, errs *mutation.Errors) (*catalog.ProductTemplate, error) {
	id, ok := parseID(raw)
	if !ok || id == uuid.Nil {
		errs.Add("product_template", "Product template not found")
		return nil, nil
	}
	t, err := repos.Templates().FindByID(ctx, id, shared.ManagerDefault)
	if errors.Is(err, shared.ErrNotFound) {
		errs.Add("product_template", "Product template not found")
		return nil, nil
	}
	return t, err
}

// Save creates a master when id is empty and updates it otherwise
func (s *MasterService) Save(ctx context.Context, id string, input MasterInput) (*catalog.ProductMaster, mutation.Errors, error) {
	creating := id == ""
	m := mutation.Model[*catalog.ProductMaster, MasterInput]{
		Fetch: fetchMaster,
		New: func(ctx context.Context, repos mutation.Repositories, _ MasterInput, errs *mutation.Errors) (*catalog.ProductMaster, error) {
			return newMaster(ctx, repos, 0, errs)
		},
		Clean: func(ctx context.Context, repos mutation.Repositories, pm *catalog.ProductMaster, in MasterInput, errs *mutation.Errors) error {
			var (
				template *catalog.ProductTemplate
				err      error
			)
			switch {
			case in.ProductTemplate != nil:
				template, err = resolveTemplate(ctx, repos, *in.ProductTemplate, errs)
			case pm.ProductTemplateID != nil:
				template, err = repos.Templates().FindByID(ctx, *pm.ProductTemplateID, shared.ManagerDefault)
				if errors.Is(err, shared.ErrNotFound) {
					template, err = nil, nil
				}
			}
			if err != nil {
				return err
			}
			if template != nil {
				if pm.ProductTemplateID == nil || *pm.ProductTemplateID != template.ID {
					pm.ProductTemplateID = &template.ID
					creating = true
				}
			}
			return cleanMaster(ctx, repos, pm, in, template, creating, errs)
		},
		Save: func(ctx context.Context, repos mutation.Repositories, pm *catalog.ProductMaster) error {
			return repos.Masters().Save(ctx, pm)
		},
		Events: s.Events,
	}
	return m.Perform(ctx, s.Scope, id, input)
}

// SaveList creates, updates and removes masters of one template in a single transaction.
// Items with an id update that master; the others are created. Removed masters are marked DELETED.
func (s *MasterService) SaveList(ctx context.Context, templateID string, input MasterListInput) ([]*catalog.ProductMaster, mutation.Errors, error) {
	var (
		saved   []*catalog.ProductMaster
		removed []uuid.UUID
	)
	m := mutation.Model[*catalog.ProductTemplate, MasterListInput]{
		Fetch: fetchTemplate,
		Clean: func(ctx context.Context, repos mutation.Repositories, t *catalog.ProductTemplate, in MasterListInput, errs *mutation.Errors) error {
			created := 0
			for _, item := range in.Items {
				var (
					pm       *catalog.ProductMaster
					creating bool
					err      error
				)
				if item.ID != nil && strings.TrimSpace(*item.ID) != "" {
					pm, err = s.templateMaster(ctx, repos, t, *item.ID, errs)
				} else {
					pm, err = newMaster(ctx, repos, created, errs)
					if pm != nil {
						pm.ProductTemplateID = &t.ID
						creating = true
						created++
					}
				}
				if err != nil {
					return err
				}
				if pm == nil {
					continue
				}
				if err := cleanMaster(ctx, repos, pm, item, t, creating, errs); err != nil {
					return err
				}
				if err := mutation.ValidateStruct(pm, errs); err != nil {
					return err
				}
				saved = append(saved, pm)
			}
			for _, raw := range in.RemoveItems {
				pm, err := s.templateMaster(ctx, repos, t, raw, errs)
				if err != nil {
					return err
				}
				if pm != nil {
					removed = append(removed, pm.ID)
				}
			}
			return nil
		},
		Save: func(ctx context.Context, repos mutation.Repositories, _ *catalog.ProductTemplate) error {
			for _, pm := range saved {
				if err := repos.Masters().Save(ctx, pm); err != nil {
					return err
				}
			}
			if len(removed) == 0 {
				return nil
			}
			return repos.Cascader().ChangeStatus(ctx, catalog.ProductMaster{}.TableName(), removed, shared.StatusDeleted, true)
		},
		Events: s.Events,
	}
	if templateID == "" {
		return nil, nil, &mutation.NodeNotFoundError{ID: templateID}
	}
	_, errs, err := m.Perform(ctx, s.Scope, templateID, input)
	if err != nil || !errs.Empty() {
		return nil, errs, err
	}
	return saved, errs, nil
}

// templateMaster loads a master that must belong to t
func (s *MasterService) templateMaster(ctx context.Context, repos mutation.Repositories, t *catalog.ProductTemplate, raw string, errs *mutation.Errors) (*catalog.ProductMaster, error) {
	id, ok := parseID(raw)
	if !ok || id == uuid.Nil {
		errs.Add("items", "Product master not found.")
		return nil, nil
	}
	pm, err := repos.Masters().FindByID(ctx, id, shared.ManagerDefault)
	if errors.Is(err, shared.ErrNotFound) || (err == nil && (pm.ProductTemplateID == nil || *pm.ProductTemplateID != t.ID)) {
		errs.Add("items", "Product master not found.")
		return nil, nil
	}
	return pm, err
}

// Delete removes a master; masters still listed by a store or packed elsewhere are protected
func (s *MasterService) Delete(ctx context.Context, id string) (*catalog.ProductMaster, mutation.Errors, error) {
	d := mutation.Delete[*catalog.ProductMaster]{Fetch: fetchMaster, Events: s.Events}
	return d.Perform(ctx, s.Scope, id)
}

// ChangeStatus sets the status of a master
func (s *MasterService) ChangeStatus(ctx context.Context, id, status string, cascade *bool) (*catalog.ProductMaster, mutation.Errors, error) {
	sc := mutation.StatusChange[*catalog.ProductMaster]{Fetch: fetchMaster, Events: s.Events}
	return sc.Perform(ctx, s.Scope, id, status, cascade)
}

// BulkChangeStatus sets the status of several masters
func (s *MasterService) BulkChangeStatus(ctx context.Context, ids []string, status string, cascade *bool) (int, mutation.Errors, error) {
	b := mutation.Bulk[*catalog.ProductMaster]{Fetch: fetchMaster, Events: s.Events}
	return b.ChangeStatus(ctx, s.Scope, ids, status, cascade)
}

// CheckBarcode returns the master carrying barcode and whether one exists
func (s *MasterService) CheckBarcode(ctx context.Context, barcode string) (*catalog.ProductMaster, bool, error) {
	pm, err := s.Repos.Masters().FindByBarcode(ctx, strings.TrimSpace(barcode))
	if errors.Is(err, shared.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return pm, true, nil
}

// Get returns a visible master with its child rows
func (s *MasterService) Get(ctx context.Context, id uuid.UUID) (*catalog.ProductMaster, error) {
	return s.Repos.Masters().FindByID(ctx, id, shared.ManagerDefault)
}

// List returns masters filtered like templates, optionally within one template
func (s *MasterService) List(ctx context.Context, in ProductListInput) (shared.Page[catalog.ProductMaster], error) {
	f, empty, err := productFilter(ctx, s.categories, in)
	if err != nil || empty {
		return shared.NewPage[catalog.ProductMaster](nil, 0), err
	}
	repo := s.Repos.Masters()
	return page(ctx, f, repo.FindAll, repo.Count)
}
