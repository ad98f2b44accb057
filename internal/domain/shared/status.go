package shared

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state shared by every soft-deletable record
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusDeleted   Status = "DELETED"
	StatusClosed    Status = "CLOSED"
	StatusExpired   Status = "EXPIRED"
	StatusUsed      Status = "USED"
)

// Statuses lists every valid status in declaration order
var Statuses = []Status{
	StatusPending,
	StatusActive,
	StatusSuspended,
	StatusDeleted,
	StatusClosed,
	StatusExpired,
	StatusUsed,
}

// IsValid reports whether s is one of the declared statuses
func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts raw input into a Status
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", NewDomainError("INVALID_STATUS", fmt.Sprintf("Value '%s' is not a valid choice.", raw))
	}
	return s, nil
}

// SoftDelete is embedded by records that are hidden instead of removed
type SoftDelete struct {
	Status Status `gorm:"type:varchar(10);not null;default:'ACTIVE';index" json:"status" validate:"required"`
}

// GetStatus returns the current status
func (s *SoftDelete) GetStatus() Status {
	return s.Status
}

// SetStatus replaces the current status
func (s *SoftDelete) SetStatus(status Status) {
	s.Status = status
}

// IsDeleted reports whether the record is soft deleted
func (s *SoftDelete) IsDeleted() bool {
	return s.Status == StatusDeleted
}

// SoftDeletable is implemented by every model embedding SoftDelete
type SoftDeletable interface {
	GetStatus() Status
	SetStatus(status Status)
}

// Manager selects which rows of a soft-deletable table a query sees
type Manager int

const (
	// ManagerDefault hides deleted rows
	ManagerDefault Manager = iota
	// ManagerAll sees every row
	ManagerAll
	// ManagerActive sees only active rows
	ManagerActive
	// ManagerDeleted sees only deleted rows
	ManagerDeleted
)
