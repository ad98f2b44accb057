package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductTemplate is the shared definition behind a family of product masters
type ProductTemplate struct {
	shared.BaseEntity
	shared.SoftDelete
	shared.SEO
	Name            string                          `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Slug            string                          `gorm:"type:varchar(300);not null;uniqueIndex" json:"slug" validate:"max=300"`
	Code            string                          `gorm:"type:varchar(20);not null;uniqueIndex" json:"code" validate:"required,max=20"`
	Model           *string                         `gorm:"type:varchar(100)" json:"model" validate:"omitempty,max=100"`
	Description     *string                         `gorm:"type:text" json:"description"`
	CaredHandle     bool                            `gorm:"not null;default:false" json:"cared_handle"`
	Tax             decimal.Decimal                 `gorm:"type:decimal(5,2);not null;default:0" json:"tax"`
	Categories      []ProductCategoryRelation       `gorm:"foreignKey:ProductTemplateID" json:"categories" validate:"-"`
	Brands          []ProductBrandRelation          `gorm:"foreignKey:ProductTemplateID" json:"brands" validate:"-"`
	Attributes      []ProductTemplateAttribute      `gorm:"foreignKey:ProductTemplateID" json:"attributes" validate:"-"`
	AttributeGroups []ProductTemplateAttributeGroup `gorm:"foreignKey:ProductTemplateID" json:"attribute_groups" validate:"-"`
	Descriptions    []ProductTemplateDescription    `gorm:"foreignKey:ProductTemplateID" json:"descriptions" validate:"-"`
	Policies        []ProductTemplatePolicy         `gorm:"foreignKey:ProductTemplateID" json:"policies" validate:"-"`
	Nutritions      []ProductTemplateNutrition      `gorm:"foreignKey:ProductTemplateID" json:"nutritions" validate:"-"`
	Ingredients     []ProductTemplateIngredient     `gorm:"foreignKey:ProductTemplateID" json:"ingredients" validate:"-"`
	HowToUse        []ProductTemplateHowToUse       `gorm:"foreignKey:ProductTemplateID" json:"how_to_use" validate:"-"`
	Cautions        []ProductTemplateCaution        `gorm:"foreignKey:ProductTemplateID" json:"cautions" validate:"-"`
	Warranty        *ProductTemplateWarranty        `gorm:"foreignKey:ProductTemplateID" json:"warranty" validate:"-"`
}

// TableName returns the table name for GORM
func (ProductTemplate) TableName() string {
	return "product_templates"
}

// NewProductTemplate creates an active template
func NewProductTemplate(code string) *ProductTemplate {
	return &ProductTemplate{
		BaseEntity: shared.NewBaseEntity(),
		SoftDelete: shared.SoftDelete{Status: shared.StatusActive},
		Code:       code,
		Tax:        decimal.Zero,
	}
}

// TemplateSlug joins the leading brand slug and the template name
func TemplateSlug(brandSlug, name string) string {
	if brandSlug == "" {
		return shared.Slugify(name)
	}
	return brandSlug + "-" + shared.Slugify(name)
}

// CategoryIDs returns the ids of the linked categories
func (t *ProductTemplate) CategoryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.Categories))
	for _, c := range t.Categories {
		ids = append(ids, c.CategoryID)
	}
	return ids
}

// LinkCategories adds relations for categories not already linked
func (t *ProductTemplate) LinkCategories(ids []uuid.UUID) []ProductCategoryRelation {
	linked := make(map[uuid.UUID]struct{}, len(t.Categories))
	for _, c := range t.Categories {
		linked[c.CategoryID] = struct{}{}
	}
	var added []ProductCategoryRelation
	for _, id := range ids {
		if _, ok := linked[id]; ok {
			continue
		}
		linked[id] = struct{}{}
		rel := ProductCategoryRelation{
			BaseEntity:        shared.NewBaseEntity(),
			SoftDelete:        shared.SoftDelete{Status: shared.StatusActive},
			ProductTemplateID: t.ID,
			CategoryID:        id,
		}
		t.Categories = append(t.Categories, rel)
		added = append(added, rel)
	}
	return added
}

// LinkBrands adds relations for brands not already linked
func (t *ProductTemplate) LinkBrands(ids []uuid.UUID) []ProductBrandRelation {
	linked := make(map[uuid.UUID]struct{}, len(t.Brands))
	for _, b := range t.Brands {
		linked[b.BrandID] = struct{}{}
	}
	var added []ProductBrandRelation
	for _, id := range ids {
		if _, ok := linked[id]; ok {
			continue
		}
		linked[id] = struct{}{}
		rel := ProductBrandRelation{
			BaseEntity:        shared.NewBaseEntity(),
			SoftDelete:        shared.SoftDelete{Status: shared.StatusActive},
			ProductTemplateID: t.ID,
			BrandID:           id,
		}
		t.Brands = append(t.Brands, rel)
		added = append(added, rel)
	}
	return added
}

// ProductCategoryRelation links a template to a category
type ProductCategoryRelation struct {
	shared.BaseEntity
	shared.SoftDelete
	ProductTemplateID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_template_category,priority:1" json:"product_template"`
	CategoryID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_template_category,priority:2;index" json:"category"`
}

// TableName returns the table name for GORM
func (ProductCategoryRelation) TableName() string {
	return "product_category_relations"
}

// ProductBrandRelation links a template to a brand
type ProductBrandRelation struct {
	shared.BaseEntity
	shared.SoftDelete
	ProductTemplateID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_template_brand,priority:1" json:"product_template"`
	BrandID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_template_brand,priority:2;index" json:"brand"`
}

// TableName returns the table name for GORM
func (ProductBrandRelation) TableName() string {
	return "product_brand_relations"
}

// ProductTemplateAttribute declares that masters of a template choose a value of an attribute
type ProductTemplateAttribute struct {
	shared.BaseEntity
	ProductTemplateID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_template_attribute,priority:1" json:"product_template"`
	AttributeID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_template_attribute,priority:2" json:"attribute"`
	SortOrder         int       `gorm:"not null;default:0" json:"sort_order"`
}

// TableName returns the table name for GORM
func (ProductTemplateAttribute) TableName() string {
	return "product_template_attributes"
}

// ProductTemplateAttributeGroup attaches an attribute group and its filled values to a template
type ProductTemplateAttributeGroup struct {
	shared.BaseEntity
	ProductTemplateID uuid.UUID                            `gorm:"type:uuid;not null;index" json:"product_template"`
	AttributeGroupID  uuid.UUID                            `gorm:"type:uuid;not null;index" json:"attribute_group"`
	SortOrder         int                                  `gorm:"not null;default:0" json:"sort_order"`
	Values            []ProductTemplateAttributeGroupValue `gorm:"foreignKey:TemplateAttributeGroupID" json:"values" validate:"-"`
}

// TableName returns the table name for GORM
func (ProductTemplateAttributeGroup) TableName() string {
	return "product_template_attribute_groups"
}

// ProductTemplateAttributeGroupValue is the text filled in for one attribute group item
type ProductTemplateAttributeGroupValue struct {
	shared.BaseEntity
	TemplateAttributeGroupID uuid.UUID `gorm:"type:uuid;not null;index" json:"template_attribute_group"`
	AttributeGroupItemID     uuid.UUID `gorm:"type:uuid;not null" json:"attribute_group_item"`
	Value                    string    `gorm:"type:varchar(255);not null" json:"value" validate:"required,max=255"`
}

// TableName returns the table name for GORM
func (ProductTemplateAttributeGroupValue) TableName() string {
	return "product_template_attribute_group_values"
}

// ProductTemplateDescription is a titled section of long form copy
type ProductTemplateDescription struct {
	shared.BaseEntity
	ProductTemplateID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_template"`
	Title             string    `gorm:"type:varchar(255);not null" json:"title" validate:"required,max=255"`
	Description       string    `gorm:"type:text;not null" json:"description" validate:"required"`
	SortOrder         int       `gorm:"not null;default:0" json:"sort_order"`
}

// TableName returns the table name for GORM
func (ProductTemplateDescription) TableName() string {
	return "product_template_descriptions"
}

// ProductTemplateWarranty describes the warranty offered on a template
type ProductTemplateWarranty struct {
	shared.BaseEntity
	ProductTemplateID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"product_template"`
	WarrantyAvailable bool          `gorm:"not null;default:false" json:"warranty_available"`
	WarrantyPeriod    *int          `json:"warranty_period" validate:"omitempty,gt=0"`
	TimeType          *TimeType     `gorm:"type:varchar(10)" json:"time_type" validate:"omitempty,oneof=DAY WEEK MONTH YEAR"`
	WarrantyType      *WarrantyType `gorm:"type:varchar(12)" json:"warranty_type" validate:"omitempty,oneof=REPLACEMENT REPAIR"`
	WarrantyTerms     *string       `gorm:"type:text" json:"warranty_terms"`
}

// TableName returns the table name for GORM
func (ProductTemplateWarranty) TableName() string {
	return "product_template_warranties"
}

// ProductTemplatePolicy is a return, sale or similar policy text
type ProductTemplatePolicy struct {
	shared.BaseEntity
	ProductTemplateID uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_template"`
	PolicyType        PolicyType `gorm:"type:varchar(10);not null" json:"policy_type" validate:"required,oneof=RETURN RESALE SALE TAX COMPLAINT REPLACE"`
	Content           string     `gorm:"type:text;not null" json:"content" validate:"required"`
	SortOrder         int        `gorm:"not null;default:0" json:"sort_order"`
}

// TableName returns the table name for GORM
func (ProductTemplatePolicy) TableName() string {
	return "product_template_policies"
}

// ProductTemplateNutrition is one line of the nutrition facts table
type ProductTemplateNutrition struct {
	shared.BaseEntity
	ProductTemplateID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_template"`
	Nutrition         string    `gorm:"type:text;not null" json:"nutrition" validate:"required"`
	Value             *string   `gorm:"type:varchar(128)" json:"value" validate:"omitempty,max=128"`
	SortOrder         int       `gorm:"not null;default:0" json:"sort_order"`
}

// TableName returns the table name for GORM
func (ProductTemplateNutrition) TableName() string {
	return "product_template_nutritions"
}

type ProductTemplateIngredient struct {
	shared.BaseEntity
	ProductTemplateID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_template"`
	Ingredient        string    `gorm:"type:text;not null" json:"ingredient" validate:"required"`
	Value             *string   `gorm:"type:varchar(128)" json:"value" validate:"omitempty,max=128"`
	SortOrder         int       `gorm:"not null;default:0" json:"sort_order"`
}

// TableName returns the table name for GORM
func (ProductTemplateIngredient) TableName() string {
	return "product_template_ingredients"
}

// ProductTemplateHowToUse is one usage instruction step
type ProductTemplateHowToUse struct {
	shared.BaseEntity
	ProductTemplateID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_template"`
	Title             string    `gorm:"type:varchar(255);not null" json:"title" validate:"required,max=255"`
	Description       *string   `gorm:"type:text" json:"description"`
	SortOrder         int       `gorm:"not null;default:0" json:"sort_order"`
}

// TableName returns the table name for GORM
func (ProductTemplateHowToUse) TableName() string {
	return "product_template_how_to_use"
}

// ProductTemplateCaution is a warning printed with the product
type ProductTemplateCaution struct {
	shared.BaseEntity
	ProductTemplateID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_template"`
	Message           string    `gorm:"type:text;not null" json:"message" validate:"required"`
	SortOrder         int       `gorm:"not null;default:0" json:"sort_order"`
}

// TableName returns the table name for GORM
func (ProductTemplateCaution) TableName() string {
	return "product_template_cautions"
}
