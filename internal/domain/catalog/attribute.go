package catalog

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// AttributeGroup bundles descriptive items (e.g. "Nutrition": fat, sugar)
type AttributeGroup struct {
	shared.BaseEntity
	shared.SoftDelete
	Name  string               `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Slug  string               `gorm:"type:varchar(150);not null;uniqueIndex" json:"slug" validate:"max=150"`
	Items []AttributeGroupItem `gorm:"foreignKey:AttributeGroupID" json:"items" validate:"-"`
}

// TableName returns the table name for GORM
func (AttributeGroup) TableName() string {
	return "attribute_groups"
}

// AttributeGroupItem is one named entry of an attribute group
type AttributeGroupItem struct {
	shared.BaseEntity
	AttributeGroupID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attribute_group_item_slug,priority:1" json:"attribute_group"`
	Name             string    `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Slug             string    `gorm:"type:varchar(150);not null;uniqueIndex:idx_attribute_group_item_slug,priority:2" json:"slug"`
	SortOrder        int       `gorm:"not null;default:0" json:"sort_order"`
}

// TableName returns the table name for GORM
func (AttributeGroupItem) TableName() string {
	return "attribute_group_items"
}

// NewAttributeGroup creates an active attribute group
func NewAttributeGroup(name string) *AttributeGroup {
	return &AttributeGroup{
		BaseEntity: shared.NewBaseEntity(),
		SoftDelete: shared.SoftDelete{Status: shared.StatusActive},
		Name:       name,
		Slug:       shared.Slugify(name),
	}
}

// AddItems appends new items, returning a message per rejected name
func (g *AttributeGroup) AddItems(names []string) []string {
	var problems []string
	if !uniqueSlugs(names) {
		return []string{"Provided items are not unique."}
	}
	existing := make(map[string]struct{}, len(g.Items))
	for _, it := range g.Items {
		existing[it.Slug] = struct{}{}
	}
	for _, name := range names {
		slug := shared.Slugify(name)
		if _, ok := existing[slug]; ok {
			problems = append(problems, fmt.Sprintf("Item %s already exists within this attribute group.", name))
			continue
		}
		g.Items = append(g.Items, AttributeGroupItem{
			BaseEntity:       shared.NewBaseEntity(),
			AttributeGroupID: g.ID,
			Name:             name,
			Slug:             slug,
			SortOrder:        len(g.Items),
		})
	}
	return problems
}

// Attribute is a selectable product property (e.g. "Size") with a closed set of values
type Attribute struct {
	shared.BaseEntity
	shared.SoftDelete
	Name         string           `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Slug         string           `gorm:"type:varchar(150);not null;uniqueIndex" json:"slug" validate:"max=150"`
	QtyAttribute bool             `gorm:"not null;default:false" json:"qty_attribute"`
	ValuePattern *string          `gorm:"type:varchar(255)" json:"value_pattern"`
	Values       []AttributeValue `gorm:"foreignKey:AttributeID" json:"values" validate:"-"`
}

// TableName returns the table name for GORM
func (Attribute) TableName() string {
	return "attributes"
}

// AttributeValue is one allowed value of an attribute
type AttributeValue struct {
	shared.BaseEntity
	AttributeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attribute_value_slug,priority:1" json:"attribute"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Value       string    `gorm:"type:varchar(100);not null" json:"value"`
	Slug        string    `gorm:"type:varchar(150);not null;uniqueIndex:idx_attribute_value_slug,priority:2" json:"slug"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
}

// TableName returns the table name for GORM
func (AttributeValue) TableName() string {
	return "attribute_values"
}

// NewAttribute creates an active attribute
func NewAttribute(name string) *Attribute {
	return &Attribute{
		BaseEntity: shared.NewBaseEntity(),
		SoftDelete: shared.SoftDelete{Status: shared.StatusActive},
		Name:       name,
		Slug:       shared.Slugify(name),
	}
}

// AddValues appends new values, returning a message per rejected value
func (a *Attribute) AddValues(values []string) []string {
	if !uniqueSlugs(values) {
		return []string{"Provided values are not unique."}
	}

	var pattern *regexp.Regexp
	if a.ValuePattern != nil && *a.ValuePattern != "" {
		re, err := regexp.Compile(*a.ValuePattern)
		if err != nil {
			return []string{fmt.Sprintf("Invalid value pattern %s.", *a.ValuePattern)}
		}
		pattern = re
	}

	existing := make(map[string]struct{}, len(a.Values))
	for _, v := range a.Values {
		existing[v.Slug] = struct{}{}
	}

	var problems []string
	for _, value := range values {
		if pattern != nil && !pattern.MatchString(value) {
			problems = append(problems, fmt.Sprintf("Value %s is not a valid format.", value))
			continue
		}
		slug := shared.Slugify(value)
		if _, ok := existing[slug]; ok {
			problems = append(problems, fmt.Sprintf("Value %s already exists within this attribute.", value))
			continue
		}
		a.Values = append(a.Values, AttributeValue{
			BaseEntity:  shared.NewBaseEntity(),
			AttributeID: a.ID,
			Name:        value,
			Value:       value,
			Slug:        slug,
			SortOrder:   len(a.Values),
		})
	}
	return problems
}

// FindValue returns the value with the given id
func (a *Attribute) FindValue(id uuid.UUID) (*AttributeValue, bool) {
	for i := range a.Values {
		if a.Values[i].ID == id {
			return &a.Values[i], true
		}
	}
	return nil, false
}

func uniqueSlugs(names []string) bool {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		s := shared.Slugify(n)
		if _, ok := seen[s]; ok {
			return false
		}
		seen[s] = struct{}{}
	}
	return true
}
