package mutation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/storefront/backend/internal/domain/shared"
)

// DbField is the error field used for failures reported by the database
const DbField = "Db"

// Error is one field error returned in a mutation payload.
// A nil Field means the error concerns the whole input.
type Error struct {
	Field   *string `json:"field"`
	Message string  `json:"message"`
}

// Errors is the ordered list of field errors of a mutation
type Errors []Error

// Add records a message for field, converting snake_case names to camelCase
func (e *Errors) Add(field, message string) {
	f := CamelCase(field)
	*e = append(*e, Error{Field: &f, Message: message})
}

// AddRaw records a message for field exactly as given
func (e *Errors) AddRaw(field, message string) {
	f := field
	*e = append(*e, Error{Field: &f, Message: message})
}

// AddGeneral records a message not tied to a field
func (e *Errors) AddGeneral(message string) {
	*e = append(*e, Error{Message: message})
}

// AddDb records a database failure
func (e *Errors) AddDb(err error) {
	e.AddRaw(DbField, err.Error())
}

// AddDomain records a domain rule violation under field
func (e *Errors) AddDomain(field string, err error) {
	var de *shared.DomainError
	if errors.As(err, &de) {
		e.Add(field, de.Message)
		return
	}
	e.Add(field, err.Error())
}

// Merge appends every error of other
func (e *Errors) Merge(other Errors) {
	*e = append(*e, other...)
}

// Empty reports whether no error was recorded
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Has reports whether an error was recorded for field
func (e Errors) Has(field string) bool {
	f := CamelCase(field)
	for _, err := range e {
		if err.Field != nil && *err.Field == f {
			return true
		}
	}
	return false
}

// CamelCase converts snake_case to camelCase and leaves other names untouched
func CamelCase(field string) string {
	if !strings.Contains(field, "_") {
		return field
	}
	parts := strings.Split(field, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// NodeNotFoundError is raised when an id does not resolve to a visible row
type NodeNotFoundError struct {
	ID string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("Couldn't resolve to a node: %s", e.ID)
}

// PermissionError is raised when the viewer may not run an operation
type PermissionError struct {
	Field string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("You have no permission to use %s", e.Field)
}
