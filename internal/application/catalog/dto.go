package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// SEOInput carries optional search metadata. Nil fields are left unchanged.
type SEOInput struct {
	SeoTitle       *string  `json:"seo_title"`
	SeoDescription *string  `json:"seo_description"`
	SeoKeywords    []string `json:"seo_keywords"`
}

// DepartmentInput is the input of departmentCreate and departmentUpdate
type DepartmentInput struct {
	SEOInput
	Name            *string `json:"name"`
	Note            *string `json:"note"`
	Priority        *string `json:"priority"`
	BackgroundColor *string `json:"background_color"`
	ImageAltText    *string `json:"image_alt_text"`
	SortOrder       *int    `json:"sort_order"`
}

// CategoryInput is the input of categoryCreate and categoryUpdate.
// An empty Parent moves the category to the root.
type CategoryInput struct {
	SEOInput
	Name            *string `json:"name"`
	Note            *string `json:"note"`
	Parent          *string `json:"parent"`
	Department      *string `json:"department"`
	Priority        *string `json:"priority"`
	Maturity        *string `json:"maturity"`
	BackgroundColor *string `json:"background_color"`
	ImageAltText    *string `json:"image_alt_text"`
}

// BrandInput is the input of brandCreate and brandUpdate
type BrandInput struct {
	SEOInput
	Name         *string `json:"name"`
	Note         *string `json:"note"`
	Website      *string `json:"website"`
	ImageAltText *string `json:"image_alt_text"`
}

// AttributeGroupInput creates or extends an attribute group
type AttributeGroupInput struct {
	Name  *string  `json:"name"`
	Items []string `json:"items"`
}

// AttributeInput creates or extends an attribute
type AttributeInput struct {
	Name         *string  `json:"name"`
	QtyAttribute *bool    `json:"qty_attribute"`
	ValuePattern *string  `json:"value_pattern"`
	Values       []string `json:"values"`
}

// TemplateInput is the input of templateCreate and templateUpdate.
// Masters are only created together with a new template.
type TemplateInput struct {
	SEOInput
	Name        *string          `json:"name"`
	Model       *string          `json:"model"`
	Description *string          `json:"description"`
	CaredHandle *bool            `json:"cared_handle"`
	Tax         *decimal.Decimal `json:"tax"`
	Categories  []string         `json:"categories"`
	Brands      []string         `json:"brands"`
	Masters     []MasterInput    `json:"masters"`
}

// AttributeValueInput selects a value of one template attribute
type AttributeValueInput struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

// PackItemInput is one component of a PACK or COMBO master
type PackItemInput struct {
	Item      string          `json:"item"`
	Qty       decimal.Decimal `json:"qty"`
	ValueType *string         `json:"value_type"`
}

// MasterInput is the input of productMasterCreate and productMasterUpdate
type MasterInput struct {
	SEOInput
	// ID selects the master to update inside a list update
	ID              *string               `json:"id"`
	ProductTemplate *string               `json:"product_template"`
	Parent          *string               `json:"parent"`
	Name            *string               `json:"name"`
	SubName         *string               `json:"sub_name"`
	Model           *string               `json:"model"`
	Barcode         *string               `json:"barcode"`
	Description     *string               `json:"description"`
	Weight          *decimal.Decimal      `json:"weight"`
	PackingType     *string               `json:"packing_type"`
	ImageAltText    *string               `json:"image_alt_text"`
	Attributes      []AttributeValueInput `json:"attributes"`
	PackItems       []PackItemInput       `json:"pack_items"`
	Countries       []string              `json:"countries"`
}

// MasterListInput updates the masters of a template in one request
type MasterListInput struct {
	Items       []MasterInput `json:"items"`
	RemoveItems []string      `json:"remove_items"`
}

// TemplateAttributeInput links and unlinks attributes of a template
type TemplateAttributeInput struct {
	NewItems    []string `json:"new_items"`
	RemoveItems []string `json:"remove_items"`
}

// GroupValueInput fills one attribute group item
type GroupValueInput struct {
	Item  string `json:"item"`
	Value string `json:"value"`
}

// TemplateAttributeGroupItemInput attaches one attribute group with its values
type TemplateAttributeGroupItemInput struct {
	AttributeGroup string            `json:"attribute_group"`
	Values         []GroupValueInput `json:"values"`
}

// TemplateAttributeGroupInput replaces the attribute groups of a template
type TemplateAttributeGroupInput struct {
	Items []TemplateAttributeGroupItemInput `json:"items"`
}

// DescriptionInput is one titled description section
type DescriptionInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PolicyInput is one policy text
type PolicyInput struct {
	PolicyType string `json:"policy_type"`
	Content    string `json:"content"`
}

// NutritionInput is one nutrition facts line
type NutritionInput struct {
	Nutrition string  `json:"nutrition"`
	Value     *string `json:"value"`
}

type IngredientInput struct {
	Ingredient string  `json:"ingredient"`
	Value      *string `json:"value"`
}

// HowToUseInput is one usage step
type HowToUseInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type CautionInput struct {
	Message string `json:"message"`
}

// WarrantyInput sets the warranty of a template
type WarrantyInput struct {
	WarrantyAvailable bool    `json:"warranty_available"`
	WarrantyPeriod    *int    `json:"warranty_period"`
	TimeType          *string `json:"time_type"`
	WarrantyType      *string `json:"warranty_type"`
	WarrantyTerms     *string `json:"warranty_terms"`
}

// CategoryListInput filters the categories query
type CategoryListInput struct {
	ListInput
	Level       *int
	Parent      *string
	Departments []string
}

// ProductListInput filters the templates and productMasters queries
type ProductListInput struct {
	ListInput
	Categories  []string
	Brands      []string
	Departments []string
	Template    *string
	SortBy      string
}

// MediaUploadInput starts an upload of a catalog image or document
type MediaUploadInput struct {
	OwnerTable  string  `json:"owner_table"`
	Owner       string  `json:"owner"`
	FileName    string  `json:"file_name"`
	ContentType string  `json:"content_type"`
	AltText     *string `json:"alt_text"`
}

// MediaUpload is a pending media record and the URL to PUT its content to
type MediaUpload struct {
	MediaID   string    `json:"media_id"`
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}
