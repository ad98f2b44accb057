package graphql

import (
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func seoInput(fields graphql.InputObjectConfigFieldMap) graphql.InputObjectConfigFieldMap {
	fields["seoTitle"] = &graphql.InputObjectFieldConfig{Type: graphql.String}
	fields["seoDescription"] = &graphql.InputObjectFieldConfig{Type: graphql.String}
	fields["seoKeywords"] = &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))}
	return fields
}

func inputObject(name string, fields graphql.InputObjectConfigFieldMap) *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{Name: name, Fields: fields})
}

var (
	idList     = graphql.NewList(graphql.NewNonNull(graphql.ID))
	stringList = graphql.NewList(graphql.NewNonNull(graphql.String))
)

// mediaField lists the confirmed media of the source node
func (b *builder) mediaField(table string) *graphql.Field {
	return &graphql.Field{
		Type: nonNullList(b.mediaType),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			e, ok := p.Source.(entity)
			if !ok {
				return []*catalogapp.MediaView{}, nil
			}
			views, err := b.svc.Media.ListForOwner(p.Context, table, e.GetID())
			if err != nil {
				return nil, b.public(p.Context, "media", err)
			}
			return ptrs(views), nil
		},
	}
}

// mediaAttr resolves a media record field from either a record or a view of one
func mediaAttr(typ graphql.Output, get func(*catalog.Media) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: typ,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			switch m := p.Source.(type) {
			case *catalog.Media:
				return get(m), nil
			case *catalogapp.MediaView:
				return get(&m.Media), nil
			}
			return nil, nil
		},
	}
}

func catalogList(p graphql.ResolveParams, manager shared.Manager) catalogapp.ListInput {
	l := readList(p.Args)
	return catalogapp.ListInput{Search: l.Search, Offset: l.Offset, Limit: l.Limit, Manager: manager}
}

func (b *builder) catalog() {
	b.mediaType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Media",
		Fields: softFields(graphql.Fields{
			"ownerTable":  mediaAttr(graphql.NewNonNull(graphql.String), func(m *catalog.Media) interface{} { return m.OwnerTable }),
			"owner":       mediaAttr(graphql.NewNonNull(graphql.ID), func(m *catalog.Media) interface{} { return m.OwnerID.String() }),
			"objectKey":   mediaAttr(graphql.NewNonNull(graphql.String), func(m *catalog.Media) interface{} { return m.ObjectKey }),
			"fileName":    mediaAttr(graphql.NewNonNull(graphql.String), func(m *catalog.Media) interface{} { return m.FileName }),
			"contentType": mediaAttr(graphql.NewNonNull(graphql.String), func(m *catalog.Media) interface{} { return m.ContentType }),
			"altText":     mediaAttr(graphql.String, func(m *catalog.Media) interface{} { return str(m.AltText) }),
			"sortOrder":   mediaAttr(graphql.NewNonNull(graphql.Int), func(m *catalog.Media) interface{} { return m.SortOrder }),
			"url":         field(graphql.String, func(v *catalogapp.MediaView) interface{} { return v.URL }),
		}),
	})

	b.departments()
	b.categories()
	b.brands()
	b.attributes()
	b.templates()
	b.masters()
	b.media()
}

func (b *builder) departments() {
	typ := graphql.NewObject(graphql.ObjectConfig{
		Name: "Department",
		Fields: softFields(seoFields(graphql.Fields{
			"name":            field(graphql.NewNonNull(graphql.String), func(d *catalog.Department) interface{} { return d.Name }),
			"slug":            field(graphql.NewNonNull(graphql.String), func(d *catalog.Department) interface{} { return d.Slug }),
			"code":            field(graphql.NewNonNull(graphql.String), func(d *catalog.Department) interface{} { return d.Code }),
			"note":            field(graphql.String, func(d *catalog.Department) interface{} { return str(d.Note) }),
			"priority":        field(graphql.NewNonNull(graphql.String), func(d *catalog.Department) interface{} { return string(d.Priority) }),
			"backgroundColor": field(graphql.String, func(d *catalog.Department) interface{} { return str(d.BackgroundColor) }),
			"imageAltText":    field(graphql.NewNonNull(graphql.String), func(d *catalog.Department) interface{} { return d.ImageAltText }),
			"sortOrder":       field(graphql.NewNonNull(graphql.Int), func(d *catalog.Department) interface{} { return d.SortOrder }),
			"media":           b.mediaField(catalog.Department{}.TableName()),
		}, func(d *catalog.Department) *shared.SEO { return &d.SEO })),
	})
	input := inputObject("DepartmentInput", seoInput(graphql.InputObjectConfigFieldMap{
		"name":            {Type: graphql.String},
		"note":            {Type: graphql.String},
		"priority":        {Type: graphql.String},
		"backgroundColor": {Type: graphql.String},
		"imageAltText":    {Type: graphql.String},
		"sortOrder":       {Type: graphql.Int},
	}))
	payload := b.payload("Department", "department", typ)
	svc := b.svc.Departments

	b.query["departments"] = &graphql.Field{
		Type: graphql.NewNonNull(connection("Department", typ)),
		Args: listArgs(graphql.FieldConfigArgument{"manager": {Type: b.managerEnum}}),
		Resolve: b.guard(catalogAdmin, func(p graphql.ResolveParams) (interface{}, error) {
			return pageResult(svc.List(p.Context, catalogList(p, b.managerArg(p.Args))))
		}),
	}
	b.query["department"] = lookupField(b, catalogAdmin, typ, svc.Get)

	b.mutation["departmentCreate"] = saveField(b, catalogAdmin, payload, "department", input, false, svc.Save)
	b.mutation["departmentUpdate"] = saveField(b, catalogAdmin, payload, "department", input, true, svc.Save)
	b.mutation["departmentDelete"] = byIDField(b, catalogAdmin, payload, "department", svc.Delete)
	b.mutation["departmentStatusChange"] = statusField(b, catalogAdmin, payload, "department", true, svc.ChangeStatus)
	b.mutation["departmentBulkDelete"] = b.bulkDeleteField(catalogAdmin, svc.BulkDelete)
	b.mutation["departmentBulkStatusChange"] = b.bulkStatusField(catalogAdmin, svc.BulkChangeStatus)
}

func (b *builder) categories() {
	svc := b.svc.Categories
	typ := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: softFields(seoFields(graphql.Fields{
			"name":            field(graphql.NewNonNull(graphql.String), func(c *catalog.Category) interface{} { return c.Name }),
			"slug":            field(graphql.NewNonNull(graphql.String), func(c *catalog.Category) interface{} { return c.Slug }),
			"code":            field(graphql.NewNonNull(graphql.String), func(c *catalog.Category) interface{} { return c.Code }),
			"note":            field(graphql.String, func(c *catalog.Category) interface{} { return str(c.Note) }),
			"parent":          field(graphql.ID, func(c *catalog.Category) interface{} { return optID(c.ParentID) }),
			"department":      field(graphql.ID, func(c *catalog.Category) interface{} { return optID(c.DepartmentID) }),
			"level":           field(graphql.NewNonNull(graphql.Int), func(c *catalog.Category) interface{} { return c.Level }),
			"priority":        field(graphql.NewNonNull(graphql.String), func(c *catalog.Category) interface{} { return string(c.Priority) }),
			"maturity":        field(graphql.NewNonNull(graphql.String), func(c *catalog.Category) interface{} { return string(c.Maturity) }),
			"backgroundColor": field(graphql.String, func(c *catalog.Category) interface{} { return str(c.BackgroundColor) }),
			"imageAltText":    field(graphql.NewNonNull(graphql.String), func(c *catalog.Category) interface{} { return c.ImageAltText }),
			"descendants": {
				Type:        nonNullList(graphql.ID),
				Description: "Ids of every category below this one.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					c, ok := p.Source.(*catalog.Category)
					if !ok {
						return []string{}, nil
					}
					ids, err := svc.Descendants(p.Context, c.ID)
					if err != nil {
						return nil, b.public(p.Context, "descendants", err)
					}
					return idStrings(ids), nil
				},
			},
			"media": b.mediaField(catalog.Category{}.TableName()),
		}, func(c *catalog.Category) *shared.SEO { return &c.SEO })),
	})
	input := inputObject("CategoryInput", seoInput(graphql.InputObjectConfigFieldMap{
		"name":            {Type: graphql.String},
		"note":            {Type: graphql.String},
		"parent":          {Type: graphql.ID, Description: "An empty string moves the category to the root."},
		"department":      {Type: graphql.ID},
		"priority":        {Type: graphql.String},
		"maturity":        {Type: graphql.String},
		"backgroundColor": {Type: graphql.String},
		"imageAltText":    {Type: graphql.String},
	}))
	payload := b.payload("Category", "category", typ)

	b.query["categories"] = &graphql.Field{
		Type: graphql.NewNonNull(connection("Category", typ)),
		Args: listArgs(graphql.FieldConfigArgument{
			"manager":     {Type: b.managerEnum},
			"level":       {Type: graphql.Int},
			"parent":      {Type: graphql.ID},
			"departments": {Type: idList},
		}),
		Resolve: b.guard(catalogAdmin, func(p graphql.ResolveParams) (interface{}, error) {
			return pageResult(svc.List(p.Context, catalogapp.CategoryListInput{
				ListInput:   catalogList(p, b.managerArg(p.Args)),
				Level:       argOptInt(p.Args, "level"),
				Parent:      argOptString(p.Args, "parent"),
				Departments: argStrings(p.Args, "departments"),
			}))
		}),
	}
	b.query["category"] = lookupField(b, catalogAdmin, typ, svc.Get)

	b.mutation["categoryCreate"] = saveField(b, catalogAdmin, payload, "category", input, false, svc.Save)
	b.mutation["categoryUpdate"] = saveField(b, catalogAdmin, payload, "category", input, true, svc.Save)
	b.mutation["categoryDelete"] = byIDField(b, catalogAdmin, payload, "category", svc.Delete)
	b.mutation["categoryStatusChange"] = statusField(b, catalogAdmin, payload, "category", true, svc.ChangeStatus)
	b.mutation["categoryBulkDelete"] = b.bulkDeleteField(catalogAdmin, svc.BulkDelete)
	b.mutation["categoryBulkStatusChange"] = b.bulkStatusField(catalogAdmin, svc.BulkChangeStatus)
}

func (b *builder) brands() {
	svc := b.svc.Brands
	typ := graphql.NewObject(graphql.ObjectConfig{
		Name: "Brand",
		Fields: softFields(seoFields(graphql.Fields{
			"name":         field(graphql.NewNonNull(graphql.String), func(br *catalog.Brand) interface{} { return br.Name }),
			"slug":         field(graphql.NewNonNull(graphql.String), func(br *catalog.Brand) interface{} { return br.Slug }),
			"code":         field(graphql.NewNonNull(graphql.String), func(br *catalog.Brand) interface{} { return br.Code }),
			"note":         field(graphql.String, func(br *catalog.Brand) interface{} { return str(br.Note) }),
			"website":      field(graphql.String, func(br *catalog.Brand) interface{} { return str(br.Website) }),
			"imageAltText": field(graphql.NewNonNull(graphql.String), func(br *catalog.Brand) interface{} { return br.ImageAltText }),
			"media":        b.mediaField(catalog.Brand{}.TableName()),
		}, func(br *catalog.Brand) *shared.SEO { return &br.SEO })),
	})
	input := inputObject("BrandInput", seoInput(graphql.InputObjectConfigFieldMap{
		"name":         {Type: graphql.String},
		"note":         {Type: graphql.String},
		"website":      {Type: graphql.String},
		"imageAltText": {Type: graphql.String},
	}))
	payload := b.payload("Brand", "brand", typ)

	b.query["brands"] = &graphql.Field{
		Type: graphql.NewNonNull(connection("Brand", typ)),
		Args: listArgs(graphql.FieldConfigArgument{
			"manager":    {Type: b.managerEnum},
			"categories": {Type: idList},
		}),
		Resolve: b.guard(catalogAdmin, func(p graphql.ResolveParams) (interface{}, error) {
			return pageResult(svc.List(p.Context, catalogList(p, b.managerArg(p.Args)), argStrings(p.Args, "categories")))
		}),
	}
	b.query["brand"] = lookupField(b, catalogAdmin, typ, svc.Get)

	b.mutation["brandCreate"] = saveField(b, catalogAdmin, payload, "brand", input, false, svc.Save)
	b.mutation["brandUpdate"] = saveField(b, catalogAdmin, payload, "brand", input, true, svc.Save)
	b.mutation["brandDelete"] = byIDField(b, catalogAdmin, payload, "brand", svc.Delete)
	b.mutation["brandStatusChange"] = statusField(b, catalogAdmin, payload, "brand", true, svc.ChangeStatus)
	b.mutation["brandBulkStatusChange"] = b.bulkStatusField(catalogAdmin, svc.BulkChangeStatus)
}

func (b *builder) attributes() {
	svc := b.svc.Attributes
	itemType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AttributeGroupItem",
		Fields: nodeFields(graphql.Fields{
			"name":      field(graphql.NewNonNull(graphql.String), func(i *catalog.AttributeGroupItem) interface{} { return i.Name }),
			"slug":      field(graphql.NewNonNull(graphql.String), func(i *catalog.AttributeGroupItem) interface{} { return i.Slug }),
			"sortOrder": field(graphql.NewNonNull(graphql.Int), func(i *catalog.AttributeGroupItem) interface{} { return i.SortOrder }),
		}),
	})
	groupType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AttributeGroup",
		Fields: softFields(graphql.Fields{
			"name":  field(graphql.NewNonNull(graphql.String), func(g *catalog.AttributeGroup) interface{} { return g.Name }),
			"slug":  field(graphql.NewNonNull(graphql.String), func(g *catalog.AttributeGroup) interface{} { return g.Slug }),
			"items": field(nonNullList(itemType), func(g *catalog.AttributeGroup) interface{} { return ptrs(g.Items) }),
		}),
	})
	valueType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AttributeValue",
		Fields: nodeFields(graphql.Fields{
			"name":      field(graphql.NewNonNull(graphql.String), func(v *catalog.AttributeValue) interface{} { return v.Name }),
			"value":     field(graphql.NewNonNull(graphql.String), func(v *catalog.AttributeValue) interface{} { return v.Value }),
			"slug":      field(graphql.NewNonNull(graphql.String), func(v *catalog.AttributeValue) interface{} { return v.Slug }),
			"sortOrder": field(graphql.NewNonNull(graphql.Int), func(v *catalog.AttributeValue) interface{} { return v.SortOrder }),
		}),
	})
	attrType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Attribute",
		Fields: softFields(graphql.Fields{
			"name":         field(graphql.NewNonNull(graphql.String), func(a *catalog.Attribute) interface{} { return a.Name }),
			"slug":         field(graphql.NewNonNull(graphql.String), func(a *catalog.Attribute) interface{} { return a.Slug }),
			"qtyAttribute": field(graphql.NewNonNull(graphql.Boolean), func(a *catalog.Attribute) interface{} { return a.QtyAttribute }),
			"valuePattern": field(graphql.String, func(a *catalog.Attribute) interface{} { return str(a.ValuePattern) }),
			"values":       field(nonNullList(valueType), func(a *catalog.Attribute) interface{} { return ptrs(a.Values) }),
		}),
	})
	b.attributeType = attrType

	groupInput := inputObject("AttributeGroupInput", graphql.InputObjectConfigFieldMap{
		"name":  {Type: graphql.String},
		"items": {Type: stringList},
	})
	attrInput := inputObject("AttributeInput", graphql.InputObjectConfigFieldMap{
		"name":         {Type: graphql.String},
		"qtyAttribute": {Type: graphql.Boolean},
		"valuePattern": {Type: graphql.String},
		"values":       {Type: stringList},
	})
	groupPayload := b.payload("AttributeGroup", "attributeGroup", groupType)
	attrPayload := b.payload("Attribute", "attribute", attrType)

	b.query["attributeGroups"] = &graphql.Field{
		Type: graphql.NewNonNull(connection("AttributeGroup", groupType)),
		Args: listArgs(graphql.FieldConfigArgument{"manager": {Type: b.managerEnum}}),
		Resolve: b.guard(catalogAdmin, func(p graphql.ResolveParams) (interface{}, error) {
			return pageResult(svc.ListGroups(p.Context, catalogList(p, b.managerArg(p.Args))))
		}),
	}
	b.query["attributeGroup"] = lookupField(b, catalogAdmin, groupType, svc.GetGroup)
	b.query["attributes"] = &graphql.Field{
		Type: graphql.NewNonNull(connection("Attribute", attrType)),
		Args: listArgs(graphql.FieldConfigArgument{"manager": {Type: b.managerEnum}}),
		Resolve: b.guard(catalogAdmin, func(p graphql.ResolveParams) (interface{}, error) {
			return pageResult(svc.ListAttributes(p.Context, catalogList(p, b.managerArg(p.Args))))
		}),
	}
	b.query["attribute"] = lookupField(b, catalogAdmin, attrType, svc.GetAttribute)

	b.mutation["attributeGroupCreate"] = saveField(b, catalogAdmin, groupPayload, "attributeGroup", groupInput, false, svc.SaveGroup)
	b.mutation["attributeGroupUpdate"] = saveField(b, catalogAdmin, groupPayload, "attributeGroup", groupInput, true, svc.SaveGroup)
	b.mutation["attributeGroupStatusChange"] = statusField(b, catalogAdmin, groupPayload, "attributeGroup", true, svc.ChangeGroupStatus)
	b.mutation["attributeCreate"] = saveField(b, catalogAdmin, attrPayload, "attribute", attrInput, false, svc.SaveAttribute)
	b.mutation["attributeUpdate"] = saveField(b, catalogAdmin, attrPayload, "attribute", attrInput, true, svc.SaveAttribute)
	b.mutation["attributeStatusChange"] = statusField(b, catalogAdmin, attrPayload, "attribute", true, svc.ChangeAttributeStatus)
}

var productSortEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "ProductSort",
	Values: graphql.EnumValueConfigMap{
		string(catalog.SortByName): {Value: string(catalog.SortByName)},
		string(catalog.SortByDate): {Value: string(catalog.SortByDate), Description: "Newest first."},
	},
})

func productListArgs(b *builder) graphql.FieldConfigArgument {
	return listArgs(graphql.FieldConfigArgument{
		"manager":     {Type: b.managerEnum},
		"categories":  {Type: idList, Description: "Matches the categories and everything below them."},
		"brands":      {Type: idList},
		"departments": {Type: idList},
		"sortBy":      {Type: productSortEnum, DefaultValue: string(catalog.SortByName)},
	})
}

func productList(b *builder, p graphql.ResolveParams) catalogapp.ProductListInput {
	return catalogapp.ProductListInput{
		ListInput:   catalogList(p, b.managerArg(p.Args)),
		Categories:  argStrings(p.Args, "categories"),
		Brands:      argStrings(p.Args, "brands"),
		Departments: argStrings(p.Args, "departments"),
		Template:    argOptString(p.Args, "template"),
		SortBy:      argString(p.Args, "sortBy"),
	}
}

func (b *builder) masterInput() *graphql.InputObject {
	if b.masterInputType != nil {
		return b.masterInputType
	}
	attrValue := inputObject("AttributeValueInput", graphql.InputObjectConfigFieldMap{
		"attribute": {Type: graphql.NewNonNull(graphql.ID)},
		"value":     {Type: graphql.NewNonNull(graphql.ID)},
	})
	packItem := inputObject("PackItemInput", graphql.InputObjectConfigFieldMap{
		"item":      {Type: graphql.NewNonNull(graphql.ID)},
		"qty":       {Type: graphql.NewNonNull(Decimal)},
		"valueType": {Type: graphql.String},
	})
	b.masterInputType = inputObject("ProductMasterInput", seoInput(graphql.InputObjectConfigFieldMap{
		"id":              {Type: graphql.ID, Description: "Selects the master to change in a list update."},
		"productTemplate": {Type: graphql.ID},
		"parent":          {Type: graphql.ID},
		"name":            {Type: graphql.String},
		"subName":         {Type: graphql.String},
		"model":           {Type: graphql.String},
		"barcode":         {Type: graphql.String},
		"description":     {Type: graphql.String},
		"weight":          {Type: Decimal},
		"packingType":     {Type: graphql.String},
		"imageAltText":    {Type: graphql.String},
		"attributes":      {Type: graphql.NewList(graphql.NewNonNull(attrValue))},
		"packItems":       {Type: graphql.NewList(graphql.NewNonNull(packItem))},
		"countries":       {Type: stringList},
	}))
	return b.masterInputType
}

func (b *builder) templates() {
	svc := b.svc.Templates

	templateAttribute := graphql.NewObject(graphql.ObjectConfig{
		Name: "TemplateAttribute",
		Fields: nodeFields(graphql.Fields{
			"attribute": field(graphql.NewNonNull(graphql.ID), func(a *catalog.ProductTemplateAttribute) interface{} { return a.AttributeID.String() }),
			"sortOrder": field(graphql.NewNonNull(graphql.Int), func(a *catalog.ProductTemplateAttribute) interface{} { return a.SortOrder }),
		}),
	})
	groupValue := graphql.NewObject(graphql.ObjectConfig{
		Name: "TemplateAttributeGroupValue",
		Fields: nodeFields(graphql.Fields{
			"item": field(graphql.NewNonNull(graphql.ID), func(v *catalog.ProductTemplateAttributeGroupValue) interface{} {
				return v.AttributeGroupItemID.String()
			}),
			"value": field(graphql.NewNonNull(graphql.String), func(v *catalog.ProductTemplateAttributeGroupValue) interface{} { return v.Value }),
		}),
	})
	templateGroup := graphql.NewObject(graphql.ObjectConfig{
		Name: "TemplateAttributeGroup",
		Fields: nodeFields(graphql.Fields{
			"attributeGroup": field(graphql.NewNonNull(graphql.ID), func(g *catalog.ProductTemplateAttributeGroup) interface{} { return g.AttributeGroupID.String() }),
			"sortOrder":      field(graphql.NewNonNull(graphql.Int), func(g *catalog.ProductTemplateAttributeGroup) interface{} { return g.SortOrder }),
			"values":         field(nonNullList(groupValue), func(g *catalog.ProductTemplateAttributeGroup) interface{} { return ptrs(g.Values) }),
		}),
	})
	description := graphql.NewObject(graphql.ObjectConfig{
		Name: "TemplateDescription",
		Fields: nodeFields(graphql.Fields{
			"title":       field(graphql.NewNonNull(graphql.String), func(d *catalog.ProductTemplateDescription) interface{} { return d.Title }),
			"description": field(graphql.NewNonNull(graphql.String), func(d *catalog.ProductTemplateDescription) interface{} { return d.Description }),
			"sortOrder":   field(graphql.NewNonNull(graphql.Int), func(d *catalog.ProductTemplateDescription) interface{} { return d.SortOrder }),
		}),
	})
	policy := graphql.NewObject(graphql.ObjectConfig{
		Name: "TemplatePolicy",
		Fields: nodeFields(graphql.Fields{
			"policyType": field(graphql.NewNonNull(graphql.String), func(p *catalog.ProductTemplatePolicy) interface{} { return string(p.PolicyType) }),
			"content":    field(graphql.NewNonNull(graphql.String), func(p *catalog.ProductTemplatePolicy) interface{} { return p.Content }),
			"sortOrder":  field(graphql.NewNonNull(graphql.Int), func(p *catalog.ProductTemplatePolicy) interface{} { return p.SortOrder }),
		}),
	})
	nutrition := graphql.NewObject(graphql.ObjectConfig{
		Name: "TemplateNutrition",
		Fields: nodeFields(graphql.Fields{
			"nutrition": field(graphql.NewNonNull(graphql.String), func(n *catalog.ProductTemplateNutrition) interface{} { return n.Nutrition }),
			"value":     field(graphql.String, func(n *catalog.ProductTemplateNutrition) interface{} { return str(n.Value) }),
			"sortOrder": field(graphql.NewNonNull(graphql.Int), func(n *catalog.ProductTemplateNutrition) interface{} { return n.SortOrder }),
		}),
	})
	ingredient := graphql.NewObject(graphql.ObjectConfig{
		Name: "TemplateIngredient",
		Fields: nodeFields(graphql.Fields{
			"ingredient": field(graphql.NewNonNull(graphql.String), func(n *catalog.ProductTemplateIngredient) interface{} { return n.Ingredient }),
			"value":      field(graphql.String, func(n *catalog.ProductTemplateIngredient) interface{} { return str(n.Value) }),
			"sortOrder":  field(graphql.NewNonNull(graphql.Int), func(n *catalog.ProductTemplateIngredient) interface{} { return n.SortOrder }),
		}),
	})
	howToUse := graphql.NewObject(graphql.ObjectConfig{
		Name: "TemplateHowToUse",
		Fields: nodeFields(graphql.Fields{
			"title":       field(graphql.NewNonNull(graphql.String), func(h *catalog.ProductTemplateHowToUse) interface{} { return h.Title }),
			"description": field(graphql.String, func(h *catalog.ProductTemplateHowToUse) interface{} { return str(h.Description) }),
			"sortOrder":   field(graphql.NewNonNull(graphql.Int), func(h *catalog.ProductTemplateHowToUse) interface{} { return h.SortOrder }),
		}),
	})
	caution := graphql.NewObject(graphql.ObjectConfig{
		Name: "TemplateCaution",
		Fields: nodeFields(graphql.Fields{
			"message":   field(graphql.NewNonNull(graphql.String), func(c *catalog.ProductTemplateCaution) interface{} { return c.Message }),
			"sortOrder": field(graphql.NewNonNull(graphql.Int), func(c *catalog.ProductTemplateCaution) interface{} { return c.SortOrder }),
		}),
	})
	warranty := graphql.NewObject(graphql.ObjectConfig{
		Name: "TemplateWarranty",
		Fields: nodeFields(graphql.Fields{
			"warrantyAvailable": field(graphql.NewNonNull(graphql.Boolean), func(w *catalog.ProductTemplateWarranty) interface{} { return w.WarrantyAvailable }),
			"warrantyPeriod":    field(graphql.Int, func(w *catalog.ProductTemplateWarranty) interface{} { return optInt(w.WarrantyPeriod) }),
			"timeType": field(graphql.String, func(w *catalog.ProductTemplateWarranty) interface{} {
				if w.TimeType == nil {
					return nil
				}
				return string(*w.TimeType)
			}),
			"warrantyType": field(graphql.String, func(w *catalog.ProductTemplateWarranty) interface{} {
				if w.WarrantyType == nil {
					return nil
				}
				return string(*w.WarrantyType)
			}),
			"warrantyTerms": field(graphql.String, func(w *catalog.ProductTemplateWarranty) interface{} { return str(w.WarrantyTerms) }),
		}),
	})

	typ := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductTemplate",
		Fields: softFields(seoFields(graphql.Fields{
			"name":        field(graphql.NewNonNull(graphql.String), func(t *catalog.ProductTemplate) interface{} { return t.Name }),
			"slug":        field(graphql.NewNonNull(graphql.String), func(t *catalog.ProductTemplate) interface{} { return t.Slug }),
			"code":        field(graphql.NewNonNull(graphql.String), func(t *catalog.ProductTemplate) interface{} { return t.Code }),
			"model":       field(graphql.String, func(t *catalog.ProductTemplate) interface{} { return str(t.Model) }),
			"description": field(graphql.String, func(t *catalog.ProductTemplate) interface{} { return str(t.Description) }),
			"caredHandle": field(graphql.NewNonNull(graphql.Boolean), func(t *catalog.ProductTemplate) interface{} { return t.CaredHandle }),
			"tax":         field(graphql.NewNonNull(Decimal), func(t *catalog.ProductTemplate) interface{} { return t.Tax }),
			"categories":  field(nonNullList(graphql.ID), func(t *catalog.ProductTemplate) interface{} { return idStrings(t.CategoryIDs()) }),
			"brands": field(nonNullList(graphql.ID), func(t *catalog.ProductTemplate) interface{} {
				ids := make([]string, 0, len(t.Brands))
				for _, br := range t.Brands {
					ids = append(ids, br.BrandID.String())
				}
				return ids
			}),
			"attributes":      field(nonNullList(templateAttribute), func(t *catalog.ProductTemplate) interface{} { return ptrs(t.Attributes) }),
			"attributeGroups": field(nonNullList(templateGroup), func(t *catalog.ProductTemplate) interface{} { return ptrs(t.AttributeGroups) }),
			"descriptions":    field(nonNullList(description), func(t *catalog.ProductTemplate) interface{} { return ptrs(t.Descriptions) }),
			"policies":        field(nonNullList(policy), func(t *catalog.ProductTemplate) interface{} { return ptrs(t.Policies) }),
			"nutritions":      field(nonNullList(nutrition), func(t *catalog.ProductTemplate) interface{} { return ptrs(t.Nutritions) }),
			"ingredients":     field(nonNullList(ingredient), func(t *catalog.ProductTemplate) interface{} { return ptrs(t.Ingredients) }),
			"howToUse":        field(nonNullList(howToUse), func(t *catalog.ProductTemplate) interface{} { return ptrs(t.HowToUse) }),
			"cautions":        field(nonNullList(caution), func(t *catalog.ProductTemplate) interface{} { return ptrs(t.Cautions) }),
			"warranty":        field(warranty, func(t *catalog.ProductTemplate) interface{} { return t.Warranty }),
			"media":           b.mediaField(catalog.ProductTemplate{}.TableName()),
		}, func(t *catalog.ProductTemplate) *shared.SEO { return &t.SEO })),
	})

	input := inputObject("ProductTemplateInput", seoInput(graphql.InputObjectConfigFieldMap{
		"name":        {Type: graphql.String},
		"model":       {Type: graphql.String},
		"description": {Type: graphql.String},
		"caredHandle": {Type: graphql.Boolean},
		"tax":         {Type: Decimal},
		"categories":  {Type: idList},
		"brands":      {Type: idList},
		"masters":     {Type: graphql.NewList(graphql.NewNonNull(b.masterInput())), Description: "Only read when creating."},
	}))
	attrInput := inputObject("TemplateAttributeInput", graphql.InputObjectConfigFieldMap{
		"newItems":    {Type: idList},
		"removeItems": {Type: idList},
	})
	groupInput := inputObject("TemplateAttributeGroupInput", graphql.InputObjectConfigFieldMap{
		"items": {Type: graphql.NewList(graphql.NewNonNull(inputObject("TemplateAttributeGroupItemInput", graphql.InputObjectConfigFieldMap{
			"attributeGroup": {Type: graphql.NewNonNull(graphql.ID)},
			"values": {Type: graphql.NewList(graphql.NewNonNull(inputObject("GroupValueInput", graphql.InputObjectConfigFieldMap{
				"item":  {Type: graphql.NewNonNull(graphql.ID)},
				"value": {Type: graphql.NewNonNull(graphql.String)},
			})))},
		})))},
	})
	descriptionInput := graphql.NewList(graphql.NewNonNull(inputObject("DescriptionInput", graphql.InputObjectConfigFieldMap{
		"title":       {Type: graphql.NewNonNull(graphql.String)},
		"description": {Type: graphql.NewNonNull(graphql.String)},
	})))
	policyInput := graphql.NewList(graphql.NewNonNull(inputObject("PolicyInput", graphql.InputObjectConfigFieldMap{
		"policyType": {Type: graphql.NewNonNull(graphql.String)},
		"content":    {Type: graphql.NewNonNull(graphql.String)},
	})))
	nutritionInput := graphql.NewList(graphql.NewNonNull(inputObject("NutritionInput", graphql.InputObjectConfigFieldMap{
		"nutrition": {Type: graphql.NewNonNull(graphql.String)},
		"value":     {Type: graphql.String},
	})))
	ingredientInput := graphql.NewList(graphql.NewNonNull(inputObject("IngredientInput", graphql.InputObjectConfigFieldMap{
		"ingredient": {Type: graphql.NewNonNull(graphql.String)},
		"value":      {Type: graphql.String},
	})))
	howToUseInput := graphql.NewList(graphql.NewNonNull(inputObject("HowToUseInput", graphql.InputObjectConfigFieldMap{
		"title":       {Type: graphql.NewNonNull(graphql.String)},
		"description": {Type: graphql.String},
	})))
	cautionInput := graphql.NewList(graphql.NewNonNull(inputObject("CautionInput", graphql.InputObjectConfigFieldMap{
		"message": {Type: graphql.NewNonNull(graphql.String)},
	})))
	warrantyInput := inputObject("WarrantyInput", graphql.InputObjectConfigFieldMap{
		"warrantyAvailable": {Type: graphql.NewNonNull(graphql.Boolean)},
		"warrantyPeriod":    {Type: graphql.Int},
		"timeType":          {Type: graphql.String},
		"warrantyType":      {Type: graphql.String},
		"warrantyTerms":     {Type: graphql.String},
	})
	payload := b.payload("ProductTemplate", "template", typ)

	b.query["templates"] = &graphql.Field{
		Type: graphql.NewNonNull(connection("ProductTemplate", typ)),
		Args: productListArgs(b),
		Resolve: b.guard(catalogAdmin, func(p graphql.ResolveParams) (interface{}, error) {
			return pageResult(svc.List(p.Context, productList(b, p)))
		}),
	}
	b.query["template"] = lookupField(b, catalogAdmin, typ, svc.Get)
	b.query["templateAttributes"] = &graphql.Field{
		Type: nonNullList(b.attributeType),
		Args: graphql.FieldConfigArgument{"id": {Type: graphql.NewNonNull(graphql.ID)}},
		Resolve: b.guard(catalogAdmin, func(p graphql.ResolveParams) (interface{}, error) {
			id, err := argID(p.Args, "id")
			if err != nil {
				return nil, err
			}
			attrs, err := svc.Attributes(p.Context, id)
			if err != nil {
				return nil, err
			}
			return ptrs(attrs), nil
		}),
	}

	b.mutation["templateCreate"] = saveField(b, catalogAdmin, payload, "template", input, false, svc.Save)
	b.mutation["templateUpdate"] = saveField(b, catalogAdmin, payload, "template", input, true, svc.Save)
	b.mutation["templateDelete"] = byIDField(b, catalogAdmin, payload, "template", svc.Delete)
	b.mutation["templateStatusChange"] = statusField(b, catalogAdmin, payload, "template", true, svc.ChangeStatus)
	b.mutation["templateBulkStatusChange"] = b.bulkStatusField(catalogAdmin, svc.BulkChangeStatus)
	b.mutation["templateAttributeUpdate"] = saveField(b, catalogAdmin, payload, "template", attrInput, true, svc.SetAttributes)
	b.mutation["templateAttributeGroupUpdate"] = saveField(b, catalogAdmin, payload, "template", groupInput, true, svc.SetAttributeGroups)
	b.mutation["templateDescriptionUpdate"] = saveField(b, catalogAdmin, payload, "template", descriptionInput, true, svc.SetDescriptions)
	b.mutation["templatePolicyUpdate"] = saveField(b, catalogAdmin, payload, "template", policyInput, true, svc.SetPolicies)
	b.mutation["templateWarrantyUpdate"] = saveField(b, catalogAdmin, payload, "template", warrantyInput, true, svc.SetWarranty)
	b.mutation["templateNutritionUpdate"] = saveField(b, catalogAdmin, payload, "template", nutritionInput, true, svc.SetNutritions)
	b.mutation["templateIngredientUpdate"] = saveField(b, catalogAdmin, payload, "template", ingredientInput, true, svc.SetIngredients)
	b.mutation["templateHowToUseUpdate"] = saveField(b, catalogAdmin, payload, "template", howToUseInput, true, svc.SetHowToUse)
	b.mutation["templateCautionUpdate"] = saveField(b, catalogAdmin, payload, "template", cautionInput, true, svc.SetCautions)
}

func (b *builder) masters() {
	svc := b.svc.Masters
	attrValue := graphql.NewObject(graphql.ObjectConfig{
		Name: "MasterAttributeValue",
		Fields: nodeFields(graphql.Fields{
			"templateAttribute": field(graphql.NewNonNull(graphql.ID), func(v *catalog.ProductMasterAttributeValue) interface{} {
				return v.ProductTemplateAttributeID.String()
			}),
			"attributeValue": field(graphql.NewNonNull(graphql.ID), func(v *catalog.ProductMasterAttributeValue) interface{} {
				return v.AttributeValueID.String()
			}),
		}),
	})
	packItem := graphql.NewObject(graphql.ObjectConfig{
		Name: "PackItem",
		Fields: nodeFields(graphql.Fields{
			"item":      field(graphql.NewNonNull(graphql.ID), func(i *catalog.ProductPackItem) interface{} { return i.ItemID.String() }),
			"qty":       field(graphql.NewNonNull(Decimal), func(i *catalog.ProductPackItem) interface{} { return i.Qty }),
			"valueType": field(graphql.NewNonNull(graphql.String), func(i *catalog.ProductPackItem) interface{} { return string(i.ValueType) }),
		}),
	})
	product := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: softFields(graphql.Fields{
			"country":     field(graphql.NewNonNull(graphql.String), func(p *catalog.Product) interface{} { return p.CountryCode }),
			"name":        field(graphql.String, func(p *catalog.Product) interface{} { return str(p.Name) }),
			"description": field(graphql.String, func(p *catalog.Product) interface{} { return str(p.Description) }),
		}),
	})
	typ := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductMaster",
		Fields: softFields(seoFields(graphql.Fields{
			"name":            field(graphql.String, func(m *catalog.ProductMaster) interface{} { return str(m.Name) }),
			"subName":         field(graphql.String, func(m *catalog.ProductMaster) interface{} { return str(m.SubName) }),
			"displayName":     field(graphql.NewNonNull(graphql.String), func(m *catalog.ProductMaster) interface{} { return m.DisplayName() }),
			"slug":            field(graphql.String, func(m *catalog.ProductMaster) interface{} { return str(m.Slug) }),
			"code":            field(graphql.NewNonNull(graphql.String), func(m *catalog.ProductMaster) interface{} { return m.Code }),
			"productTemplate": field(graphql.ID, func(m *catalog.ProductMaster) interface{} { return optID(m.ProductTemplateID) }),
			"parent":          field(graphql.ID, func(m *catalog.ProductMaster) interface{} { return optID(m.ParentID) }),
			"model":           field(graphql.String, func(m *catalog.ProductMaster) interface{} { return str(m.Model) }),
			"barcode":         field(graphql.String, func(m *catalog.ProductMaster) interface{} { return str(m.Barcode) }),
			"description":     field(graphql.String, func(m *catalog.ProductMaster) interface{} { return str(m.Description) }),
			"weight":          field(Decimal, func(m *catalog.ProductMaster) interface{} { return m.Weight }),
			"packingType":     field(graphql.NewNonNull(graphql.String), func(m *catalog.ProductMaster) interface{} { return string(m.PackingType) }),
			"imageAltText":    field(graphql.NewNonNull(graphql.String), func(m *catalog.ProductMaster) interface{} { return m.ImageAltText }),
			"attributeValues": field(nonNullList(attrValue), func(m *catalog.ProductMaster) interface{} { return ptrs(m.AttributeValues) }),
			"packItems":       field(nonNullList(packItem), func(m *catalog.ProductMaster) interface{} { return ptrs(m.PackItems) }),
			"products":        field(nonNullList(product), func(m *catalog.ProductMaster) interface{} { return ptrs(m.Products) }),
			"media":           b.mediaField(catalog.ProductMaster{}.TableName()),
		}, func(m *catalog.ProductMaster) *shared.SEO { return &m.SEO })),
	})
	listInput := inputObject("ProductMasterListInput", graphql.InputObjectConfigFieldMap{
		"items":       {Type: graphql.NewList(graphql.NewNonNull(b.masterInput()))},
		"removeItems": {Type: idList},
	})
	payload := b.payload("ProductMaster", "productMaster", typ)
	listPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductMasterListPayload",
		Fields: graphql.Fields{
			"productMasters": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(typ))},
			"errors":         &graphql.Field{Type: nonNullList(b.errorType)},
		},
	})
	barcodePayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "CheckBarcodePayload",
		Fields: graphql.Fields{
			"exists":        &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"productMaster": &graphql.Field{Type: typ},
		},
	})

	args := productListArgs(b)
	args["template"] = &graphql.ArgumentConfig{Type: graphql.ID}
	b.query["productMasters"] = &graphql.Field{
		Type: graphql.NewNonNull(connection("ProductMaster", typ)),
		Args: args,
		Resolve: b.guard(catalogAdmin, func(p graphql.ResolveParams) (interface{}, error) {
			return pageResult(svc.List(p.Context, productList(b, p)))
		}),
	}
	b.query["productMaster"] = lookupField(b, catalogAdmin, typ, svc.Get)
	b.query["checkBarcode"] = &graphql.Field{
		Type: graphql.NewNonNull(barcodePayload),
		Args: graphql.FieldConfigArgument{"barcode": {Type: graphql.NewNonNull(graphql.String)}},
		Resolve: b.guard(catalogAdmin, func(p graphql.ResolveParams) (interface{}, error) {
			m, exists, err := svc.CheckBarcode(p.Context, argString(p.Args, "barcode"))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"exists": exists, "productMaster": m}, nil
		}),
	}

	b.mutation["productMasterCreate"] = saveField(b, catalogAdmin, payload, "productMaster", b.masterInput(), false, svc.Save)
	b.mutation["productMasterUpdate"] = saveField(b, catalogAdmin, payload, "productMaster", b.masterInput(), true, svc.Save)
	b.mutation["productMasterDelete"] = byIDField(b, catalogAdmin, payload, "productMaster", svc.Delete)
	b.mutation["productMasterStatusChange"] = statusField(b, catalogAdmin, payload, "productMaster", true, svc.ChangeStatus)
	b.mutation["productMasterBulkStatusChange"] = b.bulkStatusField(catalogAdmin, svc.BulkChangeStatus)
	b.mutation["productMasterListUpdate"] = &graphql.Field{
		Type: graphql.NewNonNull(listPayload),
		Args: graphql.FieldConfigArgument{
			"template": {Type: graphql.NewNonNull(graphql.ID)},
			"input":    {Type: graphql.NewNonNull(listInput)},
		},
		Resolve: b.guard(catalogAdmin, func(p graphql.ResolveParams) (interface{}, error) {
			var in catalogapp.MasterListInput
			if err := decode(p.Args["input"], &in); err != nil {
				return nil, err
			}
			masters, errs, err := svc.SaveList(p.Context, argString(p.Args, "template"), in)
			if err != nil {
				return nil, err
			}
			var items interface{} = masters
			if !errs.Empty() {
				items = nil
			}
			return map[string]interface{}{"productMasters": items, "errors": errorList(errs)}, nil
		}),
	}
}

func (b *builder) media() {
	svc := b.svc.Media
	upload := graphql.NewObject(graphql.ObjectConfig{
		Name: "MediaUpload",
		Fields: graphql.Fields{
			"mediaId":   field(graphql.NewNonNull(graphql.ID), func(u *catalogapp.MediaUpload) interface{} { return u.MediaID }),
			"objectKey": field(graphql.NewNonNull(graphql.String), func(u *catalogapp.MediaUpload) interface{} { return u.ObjectKey }),
			"uploadUrl": field(graphql.NewNonNull(graphql.String), func(u *catalogapp.MediaUpload) interface{} { return u.UploadURL }),
			"expiresAt": field(graphql.NewNonNull(graphql.DateTime), func(u *catalogapp.MediaUpload) interface{} { return u.ExpiresAt }),
		},
	})
	input := inputObject("MediaUploadInput", graphql.InputObjectConfigFieldMap{
		"ownerTable":  {Type: graphql.NewNonNull(graphql.String)},
		"owner":       {Type: graphql.NewNonNull(graphql.ID)},
		"fileName":    {Type: graphql.NewNonNull(graphql.String)},
		"contentType": {Type: graphql.NewNonNull(graphql.String)},
		"altText":     {Type: graphql.String},
	})
	uploadPayload := b.payload("MediaUpload", "upload", upload)
	payload := b.payload("Media", "media", b.mediaType)

	b.query["media"] = &graphql.Field{
		Type: nonNullList(b.mediaType),
		Args: graphql.FieldConfigArgument{
			"ownerTable": {Type: graphql.NewNonNull(graphql.String)},
			"owner":      {Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: b.guard(catalogAdmin, func(p graphql.ResolveParams) (interface{}, error) {
			owner, err := argID(p.Args, "owner")
			if err != nil {
				return nil, err
			}
			views, err := svc.ListForOwner(p.Context, argString(p.Args, "ownerTable"), owner)
			if err != nil {
				return nil, err
			}
			return ptrs(views), nil
		}),
	}

	b.mutation["mediaUploadCreate"] = &graphql.Field{
		Type: graphql.NewNonNull(uploadPayload),
		Args: graphql.FieldConfigArgument{"input": {Type: graphql.NewNonNull(input)}},
		Resolve: b.guard(catalogAdmin, func(p graphql.ResolveParams) (interface{}, error) {
			var in catalogapp.MediaUploadInput
			if err := decode(p.Args["input"], &in); err != nil {
				return nil, err
			}
			u, errs, err := svc.CreateUpload(p.Context, in)
			return payloadResult("upload", u, errs, err)
		}),
	}
	b.mutation["mediaUploadConfirm"] = byIDField(b, catalogAdmin, payload, "media", svc.ConfirmUpload)
	b.mutation["mediaDelete"] = byIDField(b, catalogAdmin, payload, "media", svc.Delete)
}
