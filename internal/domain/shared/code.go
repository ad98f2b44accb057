package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// CodeSequence describes how human readable record codes are numbered, e.g. C100000001
type CodeSequence struct {
	Entity string
	Prefix string
	First  int64
}

// Code sequences used across the catalog, identity and commerce domains
var (
	DepartmentCodes = CodeSequence{Entity: "Department", Prefix: "D", First: 100000001}
	CategoryCodes   = CodeSequence{Entity: "Category", Prefix: "C", First: 100000001}
	BrandCodes      = CodeSequence{Entity: "Brand", Prefix: "B", First: 100000001}
	TemplateCodes   = CodeSequence{Entity: "Product template", Prefix: "T", First: 100000001}
	MasterCodes     = CodeSequence{Entity: "Product master", Prefix: "M", First: 100000001}
	UserCodes       = CodeSequence{Entity: "User", Prefix: "US", First: 1001}
	StoreCodes      = CodeSequence{Entity: "Store", Prefix: "S", First: 100000001}
	OrderCodes      = CodeSequence{Entity: "Order", Prefix: "OR", First: 100000001}
	OfferCodes      = CodeSequence{Entity: "Offer", Prefix: "OF", First: 100001}
)

// ErrCodeGeneration is returned when the last issued code cannot be parsed
func (s CodeSequence) ErrCodeGeneration() *DomainError {
	return NewDomainError("CODE_GENERATION", s.Entity+" code could not generate.")
}

// Next returns the code following last. An empty last starts the sequence.
// offset shifts the result when several codes are issued before any is saved.
func (s CodeSequence) Next(last string, offset int) (string, error) {
	if last == "" {
		return s.Prefix + strconv.FormatInt(s.First+int64(offset), 10), nil
	}
	if !strings.HasPrefix(last, s.Prefix) {
		return "", s.ErrCodeGeneration()
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(last, s.Prefix), 10, 64)
	if err != nil {
		return "", s.ErrCodeGeneration()
	}
	return fmt.Sprintf("%s%d", s.Prefix, n+1+int64(offset)), nil
}
