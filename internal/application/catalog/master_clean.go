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

// newMaster issues a master code; offset separates masters created in one request
func newMaster(ctx context.Context, repos mutation.Repositories, offset int, errs *mutation.Errors) (*catalog.ProductMaster, error) {
	code, err := nextCode(ctx, shared.MasterCodes, repos.Masters().LastCode, offset, errs)
	if err != nil || code == "" {
		return nil, err
	}
	return catalog.NewProductMaster(code), nil
}

// cleanMaster copies in onto m and checks the rules every master mutation shares.
// template is the template m belongs to, or nil.
func cleanMaster(ctx context.Context, repos mutation.Repositories, m *catalog.ProductMaster, in MasterInput, template *catalog.ProductTemplate, creating bool, errs *mutation.Errors) error {
	if in.Name != nil {
		m.Name = in.Name
	}
	if in.SubName != nil {
		m.SubName = in.SubName
	}
	if in.Model != nil {
		m.Model = in.Model
	}
	if in.Description != nil {
		m.Description = in.Description
	}
	if in.Barcode != nil {
		barcode := strings.TrimSpace(*in.Barcode)
		m.Barcode = &barcode
	}
	if in.Weight != nil {
		m.Weight.Decimal, m.Weight.Valid = *in.Weight, true
	}
	if in.PackingType != nil {
		m.PackingType = catalog.PackingType(*in.PackingType)
	}
	if in.ImageAltText != nil {
		m.ImageAltText = *in.ImageAltText
	}

	if in.Parent != nil {
		if err := cleanMasterParent(ctx, repos, m, *in.Parent, errs); err != nil {
			return err
		}
	}

	applySEO(&m.SEO, in.SEOInput)
	if template != nil && len(template.SeoKeywords) > 0 {
		keywords := append(append([]string{}, m.SeoKeywords...), template.SeoKeywords...)
		m.SeoKeywords = shared.NewSEO(nil, nil, keywords).SeoKeywords
	}

	m.AssignIdentity()
	exists, err := repos.Masters().ExistsBySlug(ctx, *m.Slug, m.ID)
	if err != nil {
		return err
	}
	if exists {
		errs.Add("name", "Product master already exists with this name.")
	}
	exists, err = repos.Masters().ExistsByBarcode(ctx, *m.Barcode, m.ID)
	if err != nil {
		return err
	}
	if exists {
		errs.Add("name", "Product master already exists with this barcode.")
	}

	if template != nil && (creating || in.Attributes != nil) {
		if err := cleanMasterAttributes(ctx, repos, m, in.Attributes, template, errs); err != nil {
			return err
		}
	}
	if in.PackItems != nil {
		if err := cleanPackItems(ctx, repos, m, in.PackItems, errs); err != nil {
			return err
		}
	}
	for _, country := range in.Countries {
		if err := addCountry(m, country, errs); err != nil {
			return err
		}
	}
	return nil
}

func cleanMasterParent(ctx context.Context, repos mutation.Repositories, m *catalog.ProductMaster, raw string, errs *mutation.Errors) error {
	id, ok := parseID(raw)
	if !ok || id == m.ID {
		errs.Add("product_master", "Parent product master not found")
		return nil
	}
	if id == uuid.Nil {
		m.ParentID = nil
		return nil
	}
	if _, err := repos.Masters().FindByID(ctx, id, shared.ManagerDefault); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			errs.Add("product_master", "Parent product master not found")
			return nil
		}
		return err
	}
	m.ParentID = &id
	return nil
}

// cleanMasterAttributes replaces the attribute values of m. Every attribute of
// the template must receive exactly one of its values.
func cleanMasterAttributes(ctx context.Context, repos mutation.Repositories, m *catalog.ProductMaster, inputs []AttributeValueInput, template *catalog.ProductTemplate, errs *mutation.Errors) error {
	byAttribute := make(map[uuid.UUID]catalog.ProductTemplateAttribute, len(template.Attributes))
	for _, ta := range template.Attributes {
		byAttribute[ta.AttributeID] = ta
	}
	existing := make(map[uuid.UUID]uuid.UUID, len(m.AttributeValues))
	for _, v := range m.AttributeValues {
		existing[v.ProductTemplateAttributeID] = v.ID
	}

	covered := make(map[uuid.UUID]struct{}, len(inputs))
	values := make([]catalog.ProductMasterAttributeValue, 0, len(inputs))
	for _, in := range inputs {
		attrID, ok := parseID(in.Attribute)
		ta, linked := byAttribute[attrID]
		if !ok || !linked {
			errs.Add("attribute", "Attribute not found.")
			continue
		}
		attr, err := repos.Attributes().FindByID(ctx, attrID, shared.ManagerDefault)
		if errors.Is(err, shared.ErrNotFound) {
			errs.Add("attribute", "Attribute not found.")
			continue
		}
		if err != nil {
			return err
		}
		valueID, ok := parseID(in.Value)
		value, found := attr.FindValue(valueID)
		if !ok || !found {
			errs.Add("attribute", "Attribute value not found.")
			continue
		}
		row := catalog.ProductMasterAttributeValue{
			BaseEntity:                 shared.NewBaseEntity(),
			ProductMasterID:            m.ID,
			ProductTemplateAttributeID: ta.ID,
			AttributeValueID:           value.ID,
		}
		if id, ok := existing[ta.ID]; ok {
			row.ID = id
		}
		covered[ta.ID] = struct{}{}
		values = append(values, row)
	}

	if len(covered) != len(template.Attributes) || len(values) != len(covered) {
		errs.Add("attributes", "Provide all the attributes defined for template")
		return nil
	}
	m.AttributeValues = values
	return nil
}

func cleanPackItems(ctx context.Context, repos mutation.Repositories, m *catalog.ProductMaster, inputs []PackItemInput, errs *mutation.Errors) error {
	items := make([]catalog.ProductPackItem, 0, len(inputs))
	for _, in := range inputs {
		id, ok := parseID(in.Item)
		if !ok || id == uuid.Nil || id == m.ID {
			errs.Add("pack_items", "Pack item not found.")
			continue
		}
		if _, err := repos.Masters().FindByID(ctx, id, shared.ManagerDefault); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				errs.Add("pack_items", "Pack item not found.")
				continue
			}
			return err
		}
		if !in.Qty.IsPositive() {
			errs.Add("pack_items", "Quantity must be positive.")
			continue
		}
		valueType := catalog.ValuePaid
		if in.ValueType != nil {
			valueType = catalog.ValueType(*in.ValueType)
		}
		item := catalog.ProductPackItem{
			BaseEntity:      shared.NewBaseEntity(),
			ProductMasterID: m.ID,
			ItemID:          id,
			Qty:             in.Qty,
			ValueType:       valueType,
		}
		if err := mutation.ValidateStruct(&item, errs); err != nil {
			return err
		}
		items = append(items, item)
	}
	m.PackItems = items
	return nil
}

// addCountry lists m in country unless it already is
func addCountry(m *catalog.ProductMaster, country string, errs *mutation.Errors) error {
	country = strings.ToUpper(strings.TrimSpace(country))
	for _, p := range m.Products {
		if p.CountryCode == country {
			return nil
		}
	}
	p := catalog.NewProduct(m.ID, country)
	var perrs mutation.Errors
	if err := mutation.ValidateStruct(&p, &perrs); err != nil {
		return err
	}
	if !perrs.Empty() {
		errs.Add("countries", "Enter a valid country code.")
		return nil
	}
	m.Products = append(m.Products, p)
	return nil
}
