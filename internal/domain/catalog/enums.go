package catalog

// Priority ranks departments and categories for display
type Priority string

const (
	PriorityExcellent Priority = "EXCELLENT"
	PriorityHigh      Priority = "HIGH"
	PriorityMedium    Priority = "MEDIUM"
	PriorityLow       Priority = "LOW"
)

// Maturity restricts categories to an audience age group
type Maturity string

const (
	MaturityUnmatured Maturity = "UNMATURED"
	MaturityMatured   Maturity = "MATURED"
	MaturityCitizen   Maturity = "CITIZEN"
)

// PackingType describes how a product master is sold
type PackingType string

const (
	PackingSingle PackingType = "SINGLE"
	PackingPack   PackingType = "PACK"
	PackingCombo  PackingType = "COMBO"
)

// TimeType is the unit of a warranty period
type TimeType string

const (
	TimeDay   TimeType = "DAY"
	TimeWeek  TimeType = "WEEK"
	TimeMonth TimeType = "MONTH"
	TimeYear  TimeType = "YEAR"
)

// WarrantyType is how a warranty claim is honoured
type WarrantyType string

const (
	WarrantyReplacement WarrantyType = "REPLACEMENT"
	WarrantyRepair      WarrantyType = "REPAIR"
)

// PolicyType classifies template policies
type PolicyType string

const (
	PolicyReturn    PolicyType = "RETURN"
	PolicyResale    PolicyType = "RESALE"
	PolicySale      PolicyType = "SALE"
	PolicyTax       PolicyType = "TAX"
	PolicyComplaint PolicyType = "COMPLAINT"
	PolicyReplace   PolicyType = "REPLACE"
)

// ValueType tells whether a pack item is charged
type ValueType string

const (
	ValueFree ValueType = "FREE"
	ValuePaid ValueType = "PAID"
)

// SortBy orders template and master listings
type SortBy string

const (
	SortByName SortBy = "NAME"
	SortByDate SortBy = "DATE"
)
