package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductTemplateRepository implements ProductTemplateRepository using GORM
type GormProductTemplateRepository struct {
	db *gorm.DB
}

// NewGormProductTemplateRepository creates a new GormProductTemplateRepository
func NewGormProductTemplateRepository(db *gorm.DB) *GormProductTemplateRepository {
	return &GormProductTemplateRepository{db: db}
}

func bySortOrder(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }

func notDeleted(db *gorm.DB) *gorm.DB { return db.Scopes(managerScope(shared.ManagerDefault)) }

// FindByID loads a template with every child row
func (r *GormProductTemplateRepository) FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*catalog.ProductTemplate, error) {
	return findOne[catalog.ProductTemplate](r.db.WithContext(ctx).
		Scopes(managerScope(manager)).
		Preload("Categories", notDeleted).
		Preload("Brands", notDeleted).
		Preload("Attributes", bySortOrder).
		Preload("AttributeGroups", bySortOrder).
		Preload("AttributeGroups.Values").
		Preload("Descriptions", bySortOrder).
		Preload("Policies", bySortOrder).
		Preload("Nutritions", bySortOrder).
		Preload("Ingredients", bySortOrder).
		Preload("HowToUse", bySortOrder).
		Preload("Cautions", bySortOrder).
		Preload("Warranty").
		Where("id = ?", id))
}

// FindAll lists templates with their category and brand links
func (r *GormProductTemplateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ProductTemplate, error) {
	var out []catalog.ProductTemplate
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.ProductTemplate{}), filter).
		Scopes(pageScope(filter, NamedSortFields, "name")).
		Preload("Categories", notDeleted).
		Preload("Brands", notDeleted).
		Find(&out).Error
	return out, err
}

func (r *GormProductTemplateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.ProductTemplate{}), filter).Count(&count).Error
	return count, err
}

// Save writes the template row and replaces each child collection
func (r *GormProductTemplateRepository) Save(ctx context.Context, t *catalog.ProductTemplate) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error; err != nil {
		return err
	}

	for i := range t.Categories {
		t.Categories[i].ProductTemplateID = t.ID
	}
	for i := range t.Brands {
		t.Brands[i].ProductTemplateID = t.ID
	}
	for i := range t.Attributes {
		t.Attributes[i].ProductTemplateID = t.ID
	}
	for i := range t.AttributeGroups {
		t.AttributeGroups[i].ProductTemplateID = t.ID
	}
	for i := range t.Descriptions {
		t.Descriptions[i].ProductTemplateID = t.ID
	}
	for i := range t.Policies {
		t.Policies[i].ProductTemplateID = t.ID
	}
	for i := range t.Nutritions {
		t.Nutritions[i].ProductTemplateID = t.ID
	}
	for i := range t.Ingredients {
		t.Ingredients[i].ProductTemplateID = t.ID
	}
	for i := range t.HowToUse {
		t.HowToUse[i].ProductTemplateID = t.ID
	}
	for i := range t.Cautions {
		t.Cautions[i].ProductTemplateID = t.ID
	}

	if err := replaceChildren(ctx, r.db, "product_template_id", t.ID, t.Categories); err != nil {
		return err
	}
	if err := replaceChildren(ctx, r.db, "product_template_id", t.ID, t.Brands); err != nil {
		return err
	}
	if err := replaceChildren(ctx, r.db, "product_template_id", t.ID, t.Attributes); err != nil {
		return err
	}
	if err := r.saveAttributeGroups(ctx, t); err != nil {
		return err
	}
	if err := replaceChildren(ctx, r.db, "product_template_id", t.ID, t.Descriptions); err != nil {
		return err
	}
	if err := replaceChildren(ctx, r.db, "product_template_id", t.ID, t.Policies); err != nil {
		return err
	}
	if err := replaceChildren(ctx, r.db, "product_template_id", t.ID, t.Nutritions); err != nil {
		return err
	}
	if err := replaceChildren(ctx, r.db, "product_template_id", t.ID, t.Ingredients); err != nil {
		return err
	}
	if err := replaceChildren(ctx, r.db, "product_template_id", t.ID, t.HowToUse); err != nil {
		return err
	}
	if err := replaceChildren(ctx, r.db, "product_template_id", t.ID, t.Cautions); err != nil {
		return err
	}

	var warranties []catalog.ProductTemplateWarranty
	if t.Warranty != nil {
		t.Warranty.ProductTemplateID = t.ID
		warranties = append(warranties, *t.Warranty)
	}
	return replaceChildren(ctx, r.db, "product_template_id", t.ID, warranties)
}

func (r *GormProductTemplateRepository) saveAttributeGroups(ctx context.Context, t *catalog.ProductTemplate) error {
	var stale []uuid.UUID
	keep := make([]uuid.UUID, 0, len(t.AttributeGroups))
	for _, g := range t.AttributeGroups {
		keep = append(keep, g.ID)
	}
	q := r.db.WithContext(ctx).Model(&catalog.ProductTemplateAttributeGroup{}).Where("product_template_id = ?", t.ID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	if err := q.Pluck("id", &stale).Error; err != nil {
		return err
	}
	if len(stale) > 0 {
		if err := r.db.WithContext(ctx).
			Where("template_attribute_group_id IN ?", stale).
			Delete(&catalog.ProductTemplateAttributeGroupValue{}).Error; err != nil {
			return err
		}
	}

	if err := replaceChildren(ctx, r.db, "product_template_id", t.ID, t.AttributeGroups); err != nil {
		return err
	}
	for i := range t.AttributeGroups {
		g := &t.AttributeGroups[i]
		for j := range g.Values {
			g.Values[j].TemplateAttributeGroupID = g.ID
		}
		if err := replaceChildren(ctx, r.db, "template_attribute_group_id", g.ID, g.Values); err != nil {
			return err
		}
	}
	return nil
}

func (r *GormProductTemplateRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return existsWhere(ctx, r.db, &catalog.ProductTemplate{}, excludeID, "slug = ?", slug)
}

func (r *GormProductTemplateRepository) LastCode(ctx context.Context) (string, error) {
	return lastCode(ctx, r.db, &catalog.ProductTemplate{})
}

func (r *GormProductTemplateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Scopes(
		managerScope(filter.Manager),
		searchScope(filter.Search, "name", "slug", "code"),
	)
	return query.Scopes(templateRelationScope(r.db, "id", filter))
}

// templateRelationScope narrows rows whose column holds a template id by the
// category, brand and department filters.
func templateRelationScope(db *gorm.DB, column string, filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if ids := uuidList(filter.Filters[catalog.FilterCategoryIDs]); len(ids) > 0 {
			sub := db.Model(&catalog.ProductCategoryRelation{}).
				Select("product_template_id").
				Where("category_id IN ? AND status <> ?", ids, shared.StatusDeleted)
			query = query.Where(column+" IN (?)", sub)
		}
		if ids := uuidList(filter.Filters[catalog.FilterBrandIDs]); len(ids) > 0 {
			sub := db.Model(&catalog.ProductBrandRelation{}).
				Select("product_template_id").
				Where("brand_id IN ? AND status <> ?", ids, shared.StatusDeleted)
			query = query.Where(column+" IN (?)", sub)
		}
		if ids := uuidList(filter.Filters[catalog.FilterDepartmentIDs]); len(ids) > 0 {
			cats := db.Model(&catalog.Category{}).
				Select("id").
				Where("department_id IN ? AND status <> ?", ids, shared.StatusDeleted)
			sub := db.Model(&catalog.ProductCategoryRelation{}).
				Select("product_template_id").
				Where("category_id IN (?) AND status <> ?", cats, shared.StatusDeleted)
			query = query.Where(column+" IN (?)", sub)
		}
		return query
	}
}

var _ catalog.ProductTemplateRepository = (*GormProductTemplateRepository)(nil)
