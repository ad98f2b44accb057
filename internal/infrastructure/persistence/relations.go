package persistence

// OnDelete is the action taken on child rows when a parent is removed or its status changes
type OnDelete int

const (
	DoNothing OnDelete = iota
	SetNull
	Cascade
	Protect
)

// Relation is a foreign key from Table.ForeignKey to the id of a parent table
type Relation struct {
	Table      string
	ForeignKey string
	OnDelete   OnDelete
	// SoftDelete marks child tables carrying a status column
	SoftDelete bool
}

// Relations maps parent tables onto the foreign keys that point at them
type Relations map[string][]Relation

// DefaultRelations is the storefront schema's relation graph
func DefaultRelations() Relations {
	return Relations{
		"departments": {
			{Table: "categories", ForeignKey: "department_id", OnDelete: SetNull, SoftDelete: true},
		},
		"categories": {
			{Table: "categories", ForeignKey: "parent_id", OnDelete: Cascade, SoftDelete: true},
			{Table: "product_category_relations", ForeignKey: "category_id", OnDelete: Cascade, SoftDelete: true},
		},
		"brands": {
			{Table: "product_brand_relations", ForeignKey: "brand_id", OnDelete: Cascade, SoftDelete: true},
		},
		"attribute_groups": {
			{Table: "attribute_group_items", ForeignKey: "attribute_group_id", OnDelete: Cascade},
			{Table: "product_template_attribute_groups", ForeignKey: "attribute_group_id", OnDelete: Protect},
		},
		"attribute_group_items": {
			{Table: "product_template_attribute_group_values", ForeignKey: "attribute_group_item_id", OnDelete: Cascade},
		},
		"attributes": {
			{Table: "attribute_values", ForeignKey: "attribute_id", OnDelete: Cascade},
			{Table: "product_template_attributes", ForeignKey: "attribute_id", OnDelete: Protect},
		},
		"attribute_values": {
			{Table: "product_master_attribute_values", ForeignKey: "attribute_value_id", OnDelete: Protect},
		},
		"product_templates": {
			{Table: "product_category_relations", ForeignKey: "product_template_id", OnDelete: Cascade, SoftDelete: true},
			{Table: "product_brand_relations", ForeignKey: "product_template_id", OnDelete: Cascade, SoftDelete: true},
			{Table: "product_template_attributes", ForeignKey: "product_template_id", OnDelete: Cascade},
			{Table: "product_template_attribute_groups", ForeignKey: "product_template_id", OnDelete: Cascade},
			{Table: "product_template_descriptions", ForeignKey: "product_template_id", OnDelete: Cascade},
			{Table: "product_template_warranties", ForeignKey: "product_template_id", OnDelete: Cascade},
			{Table: "product_template_policies", ForeignKey: "product_template_id", OnDelete: Cascade},
			{Table: "product_template_nutritions", ForeignKey: "product_template_id", OnDelete: Cascade},
			{Table: "product_template_ingredients", ForeignKey: "product_template_id", OnDelete: Cascade},
			{Table: "product_template_how_to_use", ForeignKey: "product_template_id", OnDelete: Cascade},
			{Table: "product_template_cautions", ForeignKey: "product_template_id", OnDelete: Cascade},
			{Table: "product_masters", ForeignKey: "product_template_id", OnDelete: Cascade, SoftDelete: true},
		},
		"product_template_attribute_groups": {
			{Table: "product_template_attribute_group_values", ForeignKey: "template_attribute_group_id", OnDelete: Cascade},
		},
		"product_template_attributes": {
			{Table: "product_master_attribute_values", ForeignKey: "product_template_attribute_id", OnDelete: Cascade},
		},
		"product_masters": {
			{Table: "product_masters", ForeignKey: "parent_id", OnDelete: Cascade, SoftDelete: true},
			{Table: "product_master_attribute_values", ForeignKey: "product_master_id", OnDelete: Cascade},
			{Table: "product_pack_items", ForeignKey: "product_master_id", OnDelete: Cascade},
			{Table: "product_pack_items", ForeignKey: "item_id", OnDelete: Protect},
			{Table: "products", ForeignKey: "product_master_id", OnDelete: Cascade, SoftDelete: true},
			{Table: "store_products", ForeignKey: "product_master_id", OnDelete: Protect, SoftDelete: true},
		},
		"stores": {
			{Table: "store_users", ForeignKey: "store_id", OnDelete: Cascade, SoftDelete: true},
			{Table: "delivery_agents", ForeignKey: "store_id", OnDelete: SetNull, SoftDelete: true},
			{Table: "store_products", ForeignKey: "store_id", OnDelete: Cascade, SoftDelete: true},
			{Table: "offers", ForeignKey: "store_id", OnDelete: Cascade, SoftDelete: true},
			{Table: "orders", ForeignKey: "store_id", OnDelete: Protect},
		},
		"store_products": {
			{Table: "stock_entries", ForeignKey: "store_product_id", OnDelete: Cascade},
			{Table: "order_items", ForeignKey: "store_product_id", OnDelete: Protect},
		},
		"offers": {
			{Table: "orders", ForeignKey: "offer_id", OnDelete: SetNull},
		},
		"orders": {
			{Table: "order_items", ForeignKey: "order_id", OnDelete: Cascade},
			{Table: "deliveries", ForeignKey: "order_id", OnDelete: Cascade},
		},
		"delivery_agents": {
			{Table: "deliveries", ForeignKey: "delivery_agent_id", OnDelete: Protect},
		},
	}
}
