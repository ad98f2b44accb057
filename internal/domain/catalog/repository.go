package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Filter keys understood by catalog repositories
const (
	FilterLevel         = "level"
	FilterParentID      = "parent_id"
	FilterDepartmentIDs = "department_ids"
	FilterCategoryIDs   = "category_ids"
	FilterBrandIDs      = "brand_ids"
	FilterTemplateID    = "template_id"
	FilterOwnerTable    = "owner_table"
	FilterOwnerID       = "owner_id"
)

// DepartmentRepository defines persistence operations for departments
type DepartmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*Department, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Department, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Department, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, department *Department) error
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	LastCode(ctx context.Context) (string, error)
}

// CategoryRepository defines persistence operations for the category tree
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*Category, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindDescendantIDs returns the ids of every category below id, excluding id itself
	FindDescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	Save(ctx context.Context, category *Category) error
	// MoveSubtree rewrites paths and levels of every descendant after a parent change
	MoveSubtree(ctx context.Context, oldPath, newPath string, levelDelta int) error
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	LastCode(ctx context.Context) (string, error)
}

// BrandRepository defines persistence operations for brands
type BrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*Brand, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Brand, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Brand, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, brand *Brand) error
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	LastCode(ctx context.Context) (string, error)
}

// AttributeGroupRepository defines persistence operations for attribute groups and their items
type AttributeGroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*AttributeGroup, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]AttributeGroup, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]AttributeGroup, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save writes the group and any items it holds
	Save(ctx context.Context, group *AttributeGroup) error
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}

// AttributeRepository defines persistence operations for attributes and their values
type AttributeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*Attribute, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Attribute, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Attribute, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save writes the attribute and any values it holds
	Save(ctx context.Context, attribute *Attribute) error
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}

// ProductTemplateRepository defines persistence operations for product templates
type ProductTemplateRepository interface {
	// FindByID loads the template with all of its child rows
	FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*ProductTemplate, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductTemplate, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save writes the template and its child rows, removing children no longer held
	Save(ctx context.Context, template *ProductTemplate) error
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	LastCode(ctx context.Context) (string, error)
}

// ProductMasterRepository defines persistence operations for product masters
type ProductMasterRepository interface {
	// FindByID loads the master with attribute values, pack items and products
	FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*ProductMaster, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductMaster, error)
	FindByBarcode(ctx context.Context, barcode string) (*ProductMaster, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductMaster, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save writes the master and its child rows, removing children no longer held
	Save(ctx context.Context, master *ProductMaster) error
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	ExistsByBarcode(ctx context.Context, barcode string, excludeID uuid.UUID) (bool, error)
	LastCode(ctx context.Context) (string, error)
}

// MediaRepository defines persistence operations for catalog media
type MediaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*Media, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Media, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, media *Media) error
}

// DescendantCache caches category descendant ids
type DescendantCache interface {
	Get(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, bool)
	Set(ctx context.Context, categoryID uuid.UUID, ids []uuid.UUID)
	Invalidate(ctx context.Context, categoryIDs ...uuid.UUID)
	InvalidateAll(ctx context.Context)
}
