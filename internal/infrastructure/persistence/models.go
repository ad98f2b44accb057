package persistence

import (
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/identity"
)

// Models lists every persisted model in dependency order.
func Models() []any {
	return []any{
		&catalog.Department{},
		&catalog.Category{},
		&catalog.Brand{},
		&catalog.AttributeGroup{},
		&catalog.AttributeGroupItem{},
		&catalog.Attribute{},
		&catalog.AttributeValue{},
		&catalog.ProductTemplate{},
		&catalog.ProductCategoryRelation{},
		&catalog.ProductBrandRelation{},
		&catalog.ProductTemplateAttribute{},
		&catalog.ProductTemplateAttributeGroup{},
		&catalog.ProductTemplateAttributeGroupValue{},
		&catalog.ProductTemplateDescription{},
		&catalog.ProductTemplateWarranty{},
		&catalog.ProductTemplatePolicy{},
		&catalog.ProductTemplateNutrition{},
		&catalog.ProductTemplateIngredient{},
		&catalog.ProductTemplateHowToUse{},
		&catalog.ProductTemplateCaution{},
		&catalog.ProductMaster{},
		&catalog.ProductMasterAttributeValue{},
		&catalog.ProductPackItem{},
		&catalog.Product{},
		&catalog.Media{},
		&identity.Group{},
		&identity.User{},
		&identity.UserRole{},
		&identity.UserTypeGroup{},
		&identity.Admin{},
		&identity.Otp{},
		&commerce.Store{},
		&commerce.StoreUser{},
		&commerce.Customer{},
		&commerce.DeliveryAgent{},
		&commerce.StoreProduct{},
		&commerce.StockEntry{},
		&commerce.Offer{},
		&commerce.Order{},
		&commerce.OrderItem{},
		&commerce.Delivery{},
	}
}
