package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, else defaultField.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// NamedSortFields covers catalog and store tables that are listed by name
var NamedSortFields = map[string]bool{
	"name":       true,
	"code":       true,
	"created_at": true,
	"updated_at": true,
	"status":     true,
}

// CategorySortFields contains allowed sort fields for categories
var CategorySortFields = map[string]bool{
	"name":       true,
	"code":       true,
	"level":      true,
	"created_at": true,
	"updated_at": true,
	"status":     true,
}

// DepartmentSortFields contains allowed sort fields for departments
var DepartmentSortFields = map[string]bool{
	"name":       true,
	"code":       true,
	"sort_order": true,
	"created_at": true,
	"updated_at": true,
	"status":     true,
}

// StoreProductSortFields contains allowed sort fields for store products
var StoreProductSortFields = map[string]bool{
	"name":         true,
	"stock":        true,
	"retail_price": true,
	"mrp":          true,
	"created_at":   true,
	"updated_at":   true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"code":       true,
	"status":     true,
	"total":      true,
	"placed_at":  true,
	"created_at": true,
}

// DeliverySortFields contains allowed sort fields for deliveries
var DeliverySortFields = map[string]bool{
	"status":       true,
	"scheduled_at": true,
	"created_at":   true,
}

// AdminSortFields contains allowed sort fields for admins
var AdminSortFields = map[string]bool{
	"date_joined": true,
	"status":      true,
	"created_at":  true,
}

// UserTypeGroupSortFields contains allowed sort fields for role-to-group mappings
var UserTypeGroupSortFields = map[string]bool{
	"user_type":  true,
	"created_at": true,
}

// MediaSortFields contains allowed sort fields for media
var MediaSortFields = map[string]bool{
	"sort_order": true,
	"file_name":  true,
	"created_at": true,
}

// StockEntrySortFields contains allowed sort fields for the stock ledger
var StockEntrySortFields = map[string]bool{
	"created_at": true,
	"qty":        true,
	"stock_type": true,
}
