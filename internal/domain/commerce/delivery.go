package commerce

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// DeliveryStatus tracks a delivery run
type DeliveryStatus string

const (
	DeliveryCreated      DeliveryStatus = "CREATED"
	DeliveryOnTheWay     DeliveryStatus = "ON_THE_WAY"
	DeliveryRescheduled  DeliveryStatus = "RESCHEDULED"
	DeliveryCompleted    DeliveryStatus = "COMPLETED"
	DeliveryFailed       DeliveryStatus = "FAILED"
	DeliveryAssignCancel DeliveryStatus = "ASSIGN_CANCEL"
)

var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryCreated:     {DeliveryOnTheWay, DeliveryAssignCancel},
	DeliveryOnTheWay:    {DeliveryCompleted, DeliveryFailed, DeliveryRescheduled},
	DeliveryRescheduled: {DeliveryOnTheWay, DeliveryAssignCancel},
}

// IsValid checks if the status is a valid DeliveryStatus
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryCreated, DeliveryOnTheWay, DeliveryRescheduled, DeliveryCompleted, DeliveryFailed, DeliveryAssignCancel:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s DeliveryStatus) CanTransitionTo(target DeliveryStatus) bool {
	for _, next := range deliveryTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// OrderStatus is the order status implied by entering s, if any
func (s DeliveryStatus) OrderStatus() (OrderStatus, bool) {
	switch s {
	case DeliveryOnTheWay:
		return OrderShipping, true
	case DeliveryRescheduled:
		return OrderRescheduled, true
	case DeliveryCompleted:
		return OrderCompleted, true
	case DeliveryFailed:
		return OrderUnableToProcess, true
	}
	return "", false
}

// Delivery assigns an order to a delivery agent
type Delivery struct {
	shared.BaseEntity
	OrderID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"order"`
	DeliveryAgentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"delivery_agent"`
	Status          DeliveryStatus `gorm:"type:varchar(14);not null;default:'CREATED';index" json:"status"`
	ScheduledAt     *time.Time     `json:"scheduled_at"`
	CompletedAt     *time.Time     `json:"completed_at"`
	Note            *string        `gorm:"type:text" json:"note"`
}

// TableName returns the table name for GORM
func (Delivery) TableName() string {
	return "deliveries"
}

// NewDelivery creates a delivery in CREATED state
func NewDelivery(orderID, agentID uuid.UUID) *Delivery {
	return &Delivery{
		BaseEntity:      shared.NewBaseEntity(),
		OrderID:         orderID,
		DeliveryAgentID: agentID,
		Status:          DeliveryCreated,
	}
}

// TransitionTo moves the delivery to target when allowed
func (d *Delivery) TransitionTo(target DeliveryStatus, now time.Time) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Value '%s' is not a valid choice.", target))
	}
	if !d.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change delivery from %s to %s.", d.Status, target))
	}
	d.Status = target
	if target == DeliveryCompleted {
		d.CompletedAt = &now
	}
	return nil
}

// IsOpen reports whether the delivery still occupies its order
func (d *Delivery) IsOpen() bool {
	return d.Status != DeliveryAssignCancel && d.Status != DeliveryFailed && d.Status != DeliveryCompleted
}
