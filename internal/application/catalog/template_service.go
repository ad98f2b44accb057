package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// TemplateService handles product templates and their child collections
type TemplateService struct {
	Deps
	categories *CategoryService
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(deps Deps, categories *CategoryService) *TemplateService {
	return &TemplateService{Deps: deps, categories: categories}
}

func fetchTemplate(ctx context.Context, repos mutation.Repositories, id uuid.UUID, manager shared.Manager) (*catalog.ProductTemplate, error) {
	return repos.Templates().FindByID(ctx, id, manager)
}

// Save creates a template, together with its nested masters, when id is empty
// and updates it otherwise
func (s *TemplateService) Save(ctx context.Context, id string, input TemplateInput) (*catalog.ProductTemplate, mutation.Errors, error) {
	creating := id == ""
	var masters []*catalog.ProductMaster
	m := mutation.Model[*catalog.ProductTemplate, TemplateInput]{
		Fetch: fetchTemplate,
		New: func(ctx context.Context, repos mutation.Repositories, _ TemplateInput, errs *mutation.Errors) (*catalog.ProductTemplate, error) {
			code, err := nextCode(ctx, shared.TemplateCodes, repos.Templates().LastCode, 0, errs)
			if err != nil || code == "" {
				return nil, err
			}
			return catalog.NewProductTemplate(code), nil
		},
		Clean: func(ctx context.Context, repos mutation.Repositories, t *catalog.ProductTemplate, in TemplateInput, errs *mutation.Errors) error {
			if err := s.clean(ctx, repos, t, in, errs); err != nil {
				return err
			}
			if !creating {
				return nil
			}
			for i, mi := range in.Masters {
				pm, err := newMaster(ctx, repos, i, errs)
				if err != nil || pm == nil {
					return err
				}
				pm.ProductTemplateID = &t.ID
				if err := cleanMaster(ctx, repos, pm, mi, t, true, errs); err != nil {
					return err
				}
				if err := mutation.ValidateStruct(pm, errs); err != nil {
					return err
				}
				masters = append(masters, pm)
			}
			return nil
		},
		Save: func(ctx context.Context, repos mutation.Repositories, t *catalog.ProductTemplate) error {
			if err := repos.Templates().Save(ctx, t); err != nil {
				return err
			}
			for _, pm := range masters {
				if err := repos.Masters().Save(ctx, pm); err != nil {
					return err
				}
			}
			return nil
		},
		Events: s.Events,
	}
	return m.Perform(ctx, s.Scope, id, input)
}

func (s *TemplateService) clean(ctx context.Context, repos mutation.Repositories, t *catalog.ProductTemplate, in TemplateInput, errs *mutation.Errors) error {
	var leadBrand string
	if in.Brands != nil {
		ids := parseIDs("brands", in.Brands, errs)
		brands, err := repos.Brands().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		found := make(map[uuid.UUID]catalog.Brand, len(brands))
		for _, b := range brands {
			found[b.ID] = b
		}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				errs.Add("brands", "Brand not found.")
			}
		}
		if len(ids) > 0 {
			leadBrand = found[ids[0]].Slug
		}
		t.LinkBrands(ids)
	}

	if in.Categories != nil {
		ids := parseIDs("categories", in.Categories, errs)
		cats, err := repos.Categories().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		found := make(map[uuid.UUID]struct{}, len(cats))
		for _, c := range cats {
			found[c.ID] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				errs.Add("categories", "Category not found.")
			}
		}
		t.LinkCategories(ids)
	}

	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
		if t.Slug == "" && t.Name != "" {
			t.Slug = catalog.TemplateSlug(leadBrand, t.Name)
		}
	}
	if t.Slug != "" {
		exists, err := repos.Templates().ExistsBySlug(ctx, t.Slug, t.ID)
		if err != nil {
			return err
		}
		if exists {
			errs.Add("name", "Product template already exists with this name.")
		}
	}

	if in.Model != nil {
		t.Model = in.Model
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.CaredHandle != nil {
		t.CaredHandle = *in.CaredHandle
	}
	if in.Tax != nil {
		t.Tax = *in.Tax
	}
	applySEO(&t.SEO, in.SEOInput)
	return nil
}

// updateChildren runs an update of a template's child collections through the mutation framework
func (s *TemplateService) updateChildren(ctx context.Context, id string,
	clean func(ctx context.Context, repos mutation.Repositories, t *catalog.ProductTemplate, errs *mutation.Errors) error,
	beforeSave func(ctx context.Context, repos mutation.Repositories, t *catalog.ProductTemplate) error,
) (*catalog.ProductTemplate, mutation.Errors, error) {
	if id == "" {
		return nil, nil, &mutation.NodeNotFoundError{ID: id}
	}
	m := mutation.Model[*catalog.ProductTemplate, struct{}]{
		Fetch: fetchTemplate,
		Clean: func(ctx context.Context, repos mutation.Repositories, t *catalog.ProductTemplate, _ struct{}, errs *mutation.Errors) error {
			return clean(ctx, repos, t, errs)
		},
		Save: func(ctx context.Context, repos mutation.Repositories, t *catalog.ProductTemplate) error {
			if beforeSave != nil {
				if err := beforeSave(ctx, repos, t); err != nil {
					return err
				}
			}
			return repos.Templates().Save(ctx, t)
		},
		Events: s.Events,
	}
	return m.Perform(ctx, s.Scope, id, struct{}{})
}

// SetAttributes links new attributes to a template and unlinks removed ones.
// Masters lose their values of unlinked attributes. A template carries at most
// one quantity attribute.
func (s *TemplateService) SetAttributes(ctx context.Context, id string, input TemplateAttributeInput) (*catalog.ProductTemplate, mutation.Errors, error) {
	var removed []uuid.UUID
	return s.updateChildren(ctx, id,
		func(ctx context.Context, repos mutation.Repositories, t *catalog.ProductTemplate, errs *mutation.Errors) error {
			drop := make(map[uuid.UUID]struct{}, len(input.RemoveItems))
			for _, rid := range parseIDs("remove_items", input.RemoveItems, errs) {
				drop[rid] = struct{}{}
			}
			kept := t.Attributes[:0]
			linked := make(map[uuid.UUID]struct{}, len(t.Attributes))
			for _, ta := range t.Attributes {
				if _, ok := drop[ta.AttributeID]; ok {
					removed = append(removed, ta.ID)
					continue
				}
				linked[ta.AttributeID] = struct{}{}
				kept = append(kept, ta)
			}
			t.Attributes = kept

			newIDs := parseIDs("new_items", input.NewItems, errs)
			found, err := repos.Attributes().FindByIDs(ctx, newIDs)
			if err != nil {
				return err
			}
			byID := make(map[uuid.UUID]catalog.Attribute, len(found))
			for _, a := range found {
				byID[a.ID] = a
			}
			for _, aid := range newIDs {
				if _, ok := byID[aid]; !ok {
					errs.Add("new_items", "attribute not found")
					continue
				}
				if _, ok := linked[aid]; ok {
					continue
				}
				linked[aid] = struct{}{}
				t.Attributes = append(t.Attributes, catalog.ProductTemplateAttribute{
					BaseEntity:        shared.NewBaseEntity(),
					ProductTemplateID: t.ID,
					AttributeID:       aid,
					SortOrder:         len(t.Attributes),
				})
			}

			all := make([]uuid.UUID, 0, len(t.Attributes))
			for _, ta := range t.Attributes {
				all = append(all, ta.AttributeID)
			}
			attrs, err := repos.Attributes().FindByIDs(ctx, all)
			if err != nil {
				return err
			}
			qty := 0
			for _, a := range attrs {
				if a.QtyAttribute {
					qty++
				}
			}
			if qty > 1 {
				errs.Add("new_items", "product only accept single quantity attribute")
			}
			return nil
		},
		func(ctx context.Context, repos mutation.Repositories, _ *catalog.ProductTemplate) error {
			if len(removed) == 0 {
				return nil
			}
			return repos.Cascader().Delete(ctx, "product_template_attributes", removed)
		})
}

// SetAttributeGroups replaces the attribute groups of a template and the values filled in for their items
func (s *TemplateService) SetAttributeGroups(ctx context.Context, id string, input TemplateAttributeGroupInput) (*catalog.ProductTemplate, mutation.Errors, error) {
	return s.updateChildren(ctx, id,
		func(ctx context.Context, repos mutation.Repositories, t *catalog.ProductTemplate, errs *mutation.Errors) error {
			groups := make([]catalog.ProductTemplateAttributeGroup, 0, len(input.Items))
			for i, item := range input.Items {
				gid, ok := parseID(item.AttributeGroup)
				if !ok || gid == uuid.Nil {
					errs.Add("attribute_group", "attribute group not found")
					continue
				}
				group, err := repos.AttributeGroups().FindByID(ctx, gid, shared.ManagerDefault)
				if errors.Is(err, shared.ErrNotFound) {
					errs.Add("attribute_group", "attribute group not found")
					continue
				}
				if err != nil {
					return err
				}
				items := make(map[uuid.UUID]struct{}, len(group.Items))
				for _, gi := range group.Items {
					items[gi.ID] = struct{}{}
				}

				tg := catalog.ProductTemplateAttributeGroup{
					BaseEntity:        shared.NewBaseEntity(),
					ProductTemplateID: t.ID,
					AttributeGroupID:  group.ID,
					SortOrder:         i,
				}
				for _, v := range item.Values {
					iid, ok := parseID(v.Item)
					if _, member := items[iid]; !ok || !member {
						errs.Add("values", "attribute group item not found")
						continue
					}
					if strings.TrimSpace(v.Value) == "" {
						errs.Add("values", "attribute group item value not found")
						continue
					}
					tg.Values = append(tg.Values, catalog.ProductTemplateAttributeGroupValue{
						BaseEntity:               shared.NewBaseEntity(),
						TemplateAttributeGroupID: tg.ID,
						AttributeGroupItemID:     iid,
						Value:                    strings.TrimSpace(v.Value),
					})
				}
				groups = append(groups, tg)
			}
			t.AttributeGroups = groups
			return nil
		}, nil)
}

// SetDescriptions replaces the description sections of a template
func (s *TemplateService) SetDescriptions(ctx context.Context, id string, input []DescriptionInput) (*catalog.ProductTemplate, mutation.Errors, error) {
	return s.updateChildren(ctx, id,
		func(_ context.Context, _ mutation.Repositories, t *catalog.ProductTemplate, errs *mutation.Errors) error {
			rows := make([]catalog.ProductTemplateDescription, 0, len(input))
			for i, in := range input {
				row := catalog.ProductTemplateDescription{
					BaseEntity:        shared.NewBaseEntity(),
					ProductTemplateID: t.ID,
					Title:             strings.TrimSpace(in.Title),
					Description:       in.Description,
					SortOrder:         i,
				}
				if err := mutation.ValidateStruct(&row, errs); err != nil {
					return err
				}
				rows = append(rows, row)
			}
			t.Descriptions = rows
			return nil
		}, nil)
}

// SetPolicies replaces the policies of a template
func (s *TemplateService) SetPolicies(ctx context.Context, id string, input []PolicyInput) (*catalog.ProductTemplate, mutation.Errors, error) {
	return s.updateChildren(ctx, id,
		func(_ context.Context, _ mutation.Repositories, t *catalog.ProductTemplate, errs *mutation.Errors) error {
			rows := make([]catalog.ProductTemplatePolicy, 0, len(input))
			for i, in := range input {
				row := catalog.ProductTemplatePolicy{
					BaseEntity:        shared.NewBaseEntity(),
					ProductTemplateID: t.ID,
					PolicyType:        catalog.PolicyType(in.PolicyType),
					Content:           in.Content,
					SortOrder:         i,
				}
				if err := mutation.ValidateStruct(&row, errs); err != nil {
					return err
				}
				rows = append(rows, row)
			}
			t.Policies = rows
			return nil
		}, nil)
}

// SetNutritions replaces the nutrition facts of a template
func (s *TemplateService) SetNutritions(ctx context.Context, id string, input []NutritionInput) (*catalog.ProductTemplate, mutation.Errors, error) {
	return s.updateChildren(ctx, id,
		func(_ context.Context, _ mutation.Repositories, t *catalog.ProductTemplate, errs *mutation.Errors) error {
			rows := make([]catalog.ProductTemplateNutrition, 0, len(input))
			for i, in := range input {
				row := catalog.ProductTemplateNutrition{
					BaseEntity:        shared.NewBaseEntity(),
					ProductTemplateID: t.ID,
					Nutrition:         strings.TrimSpace(in.Nutrition),
					Value:             trimmed(in.Value),
					SortOrder:         i,
				}
				if err := mutation.ValidateStruct(&row, errs); err != nil {
					return err
				}
				rows = append(rows, row)
			}
			t.Nutritions = rows
			return nil
		}, nil)
}

// SetIngredients replaces the ingredient list of a template
func (s *TemplateService) SetIngredients(ctx context.Context, id string, input []IngredientInput) (*catalog.ProductTemplate, mutation.Errors, error) {
	return s.updateChildren(ctx, id,
		func(_ context.Context, _ mutation.Repositories, t *catalog.ProductTemplate, errs *mutation.Errors) error {
			rows := make([]catalog.ProductTemplateIngredient, 0, len(input))
			for i, in := range input {
				row := catalog.ProductTemplateIngredient{
					BaseEntity:        shared.NewBaseEntity(),
					ProductTemplateID: t.ID,
					Ingredient:        strings.TrimSpace(in.Ingredient),
					Value:             trimmed(in.Value),
					SortOrder:         i,
				}
				if err := mutation.ValidateStruct(&row, errs); err != nil {
					return err
				}
				rows = append(rows, row)
			}
			t.Ingredients = rows
			return nil
		}, nil)
}

// SetHowToUse replaces the usage steps of a template
func (s *TemplateService) SetHowToUse(ctx context.Context, id string, input []HowToUseInput) (*catalog.ProductTemplate, mutation.Errors, error) {
	return s.updateChildren(ctx, id,
		func(_ context.Context, _ mutation.Repositories, t *catalog.ProductTemplate, errs *mutation.Errors) error {
			rows := make([]catalog.ProductTemplateHowToUse, 0, len(input))
			for i, in := range input {
				row := catalog.ProductTemplateHowToUse{
					BaseEntity:        shared.NewBaseEntity(),
					ProductTemplateID: t.ID,
					Title:             strings.TrimSpace(in.Title),
					Description:       in.Description,
					SortOrder:         i,
				}
				if err := mutation.ValidateStruct(&row, errs); err != nil {
					return err
				}
				rows = append(rows, row)
			}
			t.HowToUse = rows
			return nil
		}, nil)
}

// SetCautions replaces the caution messages of a template
func (s *TemplateService) SetCautions(ctx context.Context, id string, input []CautionInput) (*catalog.ProductTemplate, mutation.Errors, error) {
	return s.updateChildren(ctx, id,
		func(_ context.Context, _ mutation.Repositories, t *catalog.ProductTemplate, errs *mutation.Errors) error {
			rows := make([]catalog.ProductTemplateCaution, 0, len(input))
			for i, in := range input {
				row := catalog.ProductTemplateCaution{
					BaseEntity:        shared.NewBaseEntity(),
					ProductTemplateID: t.ID,
					Message:           strings.TrimSpace(in.Message),
					SortOrder:         i,
				}
				if err := mutation.ValidateStruct(&row, errs); err != nil {
					return err
				}
				rows = append(rows, row)
			}
			t.Cautions = rows
			return nil
		}, nil)
}

// SetWarranty creates or replaces the warranty of a template
func (s *TemplateService) SetWarranty(ctx context.Context, id string, input WarrantyInput) (*catalog.ProductTemplate, mutation.Errors, error) {
	return s.updateChildren(ctx, id,
		func(_ context.Context, _ mutation.Repositories, t *catalog.ProductTemplate, errs *mutation.Errors) error {
			w := &catalog.ProductTemplateWarranty{
				BaseEntity:        shared.NewBaseEntity(),
				ProductTemplateID: t.ID,
			}
			if t.Warranty != nil {
				w.BaseEntity = t.Warranty.BaseEntity
			}
			w.WarrantyAvailable = input.WarrantyAvailable
			w.WarrantyPeriod = input.WarrantyPeriod
			w.WarrantyTerms = input.WarrantyTerms
			if input.TimeType != nil {
				tt := catalog.TimeType(*input.TimeType)
				w.TimeType = &tt
			}
			if input.WarrantyType != nil {
				wt := catalog.WarrantyType(*input.WarrantyType)
				w.WarrantyType = &wt
			}
			if w.WarrantyAvailable && w.WarrantyPeriod == nil {
				errs.Add("warranty_period", "This field cannot be blank.")
			}
			if err := mutation.ValidateStruct(w, errs); err != nil {
				return err
			}
			t.Warranty = w
			return nil
		}, nil)
}

// Delete removes a template with its relations and masters
func (s *TemplateService) Delete(ctx context.Context, id string) (*catalog.ProductTemplate, mutation.Errors, error) {
	d := mutation.Delete[*catalog.ProductTemplate]{Fetch: fetchTemplate, Events: s.Events}
	return d.Perform(ctx, s.Scope, id)
}

// ChangeStatus sets the status of a template, cascading to its relations and masters by default
func (s *TemplateService) ChangeStatus(ctx context.Context, id, status string, cascade *bool) (*catalog.ProductTemplate, mutation.Errors, error) {
	sc := mutation.StatusChange[*catalog.ProductTemplate]{Fetch: fetchTemplate, Events: s.Events}
	return sc.Perform(ctx, s.Scope, id, status, cascade)
}

// BulkChangeStatus sets the status of several templates
func (s *TemplateService) BulkChangeStatus(ctx context.Context, ids []string, status string, cascade *bool) (int, mutation.Errors, error) {
	b := mutation.Bulk[*catalog.ProductTemplate]{Fetch: fetchTemplate, Events: s.Events}
	return b.ChangeStatus(ctx, s.Scope, ids, status, cascade)
}

// Get returns a visible template with every child collection
func (s *TemplateService) Get(ctx context.Context, id uuid.UUID) (*catalog.ProductTemplate, error) {
	return s.Repos.Templates().FindByID(ctx, id, shared.ManagerDefault)
}

// Attributes returns the attributes of a template, with their values, in template order
func (s *TemplateService) Attributes(ctx context.Context, id uuid.UUID) ([]catalog.Attribute, error) {
	t, err := s.Repos.Templates().FindByID(ctx, id, shared.ManagerDefault)
	if err != nil {
		return nil, err
	}
	order := make(map[uuid.UUID]int, len(t.Attributes))
	ids := make([]uuid.UUID, 0, len(t.Attributes))
	for _, ta := range t.Attributes {
		order[ta.AttributeID] = ta.SortOrder
		ids = append(ids, ta.AttributeID)
	}
	attrs, err := s.Repos.Attributes().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(attrs, func(i, j int) bool { return order[attrs[i].ID] < order[attrs[j].ID] })
	return attrs, nil
}

// List returns templates filtered by categories (including their descendants), brands and departments
func (s *TemplateService) List(ctx context.Context, in ProductListInput) (shared.Page[catalog.ProductTemplate], error) {
	f, empty, err := productFilter(ctx, s.categories, in)
	if err != nil || empty {
		return shared.NewPage[catalog.ProductTemplate](nil, 0), err
	}
	repo := s.Repos.Templates()
	return page(ctx, f, repo.FindAll, repo.Count)
}

// productFilter builds the filter shared by template and master listings.
// empty reports that the category filter matched nothing.
func productFilter(ctx context.Context, categories *CategoryService, in ProductListInput) (shared.Filter, bool, error) {
	f := in.filter()
	if catalog.SortBy(strings.ToUpper(in.SortBy)) == catalog.SortByDate {
		f.OrderBy, f.OrderDir = "created_at", "desc"
	}
	var errs mutation.Errors
	if len(in.Categories) > 0 {
		ids := parseIDs("categories", in.Categories, &errs)
		if categories != nil {
			expanded, err := categories.ExpandCategories(ctx, ids)
			if err != nil {
				return f, false, err
			}
			ids = expanded
		}
		if len(ids) == 0 {
			return f, true, nil
		}
		f.Filters[catalog.FilterCategoryIDs] = ids
	}
	if len(in.Brands) > 0 {
		f.Filters[catalog.FilterBrandIDs] = parseIDs("brands", in.Brands, &errs)
	}
	if len(in.Departments) > 0 {
		f.Filters[catalog.FilterDepartmentIDs] = parseIDs("departments", in.Departments, &errs)
	}
	if in.Template != nil {
		if id, ok := parseID(*in.Template); ok && id != uuid.Nil {
			f.Filters[catalog.FilterTemplateID] = id
		}
	}
	return f, false, nil
}

// trimmed trims s, treating blank as unset
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
