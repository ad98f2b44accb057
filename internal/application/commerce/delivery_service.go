package commerce

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DeliveryService assigns orders to delivery agents and tracks the runs.
// Each delivery step moves its order along.
type DeliveryService struct {
	Deps
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(deps Deps) *DeliveryService {
	return &DeliveryService{Deps: deps}
}

// Assign hands a packed or rescheduled order to an active delivery agent
func (s *DeliveryService) Assign(ctx context.Context, input DeliveryAssignInput) (*commerce.Delivery, mutation.Errors, error) {
	var delivery *commerce.Delivery
	errs, err := mutation.Run(ctx, s.Scope, func(repos mutation.Repositories, errs *mutation.Errors) error {
		order, err := findOrder(ctx, repos, input.Order, "order", errs)
		if err != nil || order == nil {
			return err
		}
		if err := checkStore(ctx, order.StoreID); err != nil {
			return err
		}
		agentID, ok := parseRef(input.DeliveryAgent, "delivery_agent", "Delivery agent not found.", errs)
		if !ok {
			return nil
		}
		agent, err := repos.RoleProfiles().FindDeliveryAgentByID(ctx, agentID)
		if errors.Is(err, shared.ErrNotFound) {
			errs.Add("delivery_agent", "Delivery agent not found.")
			return nil
		}
		if err != nil {
			return err
		}
		switch {
		case agent.Status != shared.StatusActive:
			errs.Add("delivery_agent", "Delivery agent is not active.")
		case agent.StoreID != nil && *agent.StoreID != order.StoreID:
			errs.Add("delivery_agent", "Delivery agent does not work for this store.")
		}
		if !errs.Empty() {
			return nil
		}

		open, err := repos.Deliveries().FindOpenForOrder(ctx, order.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if open != nil {
			errs.Add("order", "Order already has an open delivery.")
			return nil
		}
		if err := transitionOrder(ctx, repos, order, commerce.OrderAssigned, "order", errs); err != nil || !errs.Empty() {
			return err
		}

		delivery = commerce.NewDelivery(order.ID, agent.ID)
		delivery.ScheduledAt = input.ScheduledAt
		delivery.Note = input.Note
		return repos.Deliveries().Save(ctx, delivery)
	})
	if err != nil || !errs.Empty() {
		return nil, errs, err
	}
	s.log().Info("Delivery assigned",
		zap.String("delivery_id", delivery.ID.String()),
		zap.String("order_id", delivery.OrderID.String()),
		zap.String("agent_id", delivery.DeliveryAgentID.String()))
	s.publish(ctx, commerce.NewDeliveryStatusChangedEvent(delivery))
	return delivery, errs, nil
}

// ChangeStatus moves a delivery and applies the implied order status
func (s *DeliveryService) ChangeStatus(ctx context.Context, id, status string) (*commerce.Delivery, mutation.Errors, error) {
	var delivery *commerce.Delivery
	errs, err := mutation.Run(ctx, s.Scope, func(repos mutation.Repositories, errs *mutation.Errors) error {
		did, ok := parseRef(id, "id", "Delivery not found.", errs)
		if !ok {
			return nil
		}
		var err error
		delivery, err = repos.Deliveries().FindByID(ctx, did)
		if errors.Is(err, shared.ErrNotFound) {
			errs.Add("id", "Delivery not found.")
			return nil
		}
		if err != nil {
			return err
		}
		order, err := repos.Orders().FindByID(ctx, delivery.OrderID)
		if err != nil {
			return err
		}
		if err := checkStore(ctx, order.StoreID); err != nil {
			return err
		}

		target := commerce.DeliveryStatus(strings.ToUpper(strings.TrimSpace(status)))
		if err := delivery.TransitionTo(target, s.now()); err != nil {
			errs.AddDomain("status", err)
			return nil
		}
		if err := repos.Deliveries().Save(ctx, delivery); err != nil {
			return err
		}

		next, ok := delivery.Status.OrderStatus()
		if !ok && target == commerce.DeliveryAssignCancel && order.Status == commerce.OrderAssigned {
			// the order goes back to the pool of orders awaiting an agent
			next, ok = commerce.OrderRescheduled, true
		}
		if !ok || next == order.Status {
			return nil
		}
		return transitionOrder(ctx, repos, order, next, "order", errs)
	})
	if err != nil || !errs.Empty() {
		return nil, errs, err
	}
	s.log().Info("Delivery status changed",
		zap.String("delivery_id", delivery.ID.String()),
		zap.String("status", string(delivery.Status)))
	s.publish(ctx, commerce.NewDeliveryStatusChangedEvent(delivery))
	return delivery, errs, nil
}

// Get returns one delivery
func (s *DeliveryService) Get(ctx context.Context, id uuid.UUID) (*commerce.Delivery, error) {
	delivery, err := s.Repos.Deliveries().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if scoped, ok := StoreScope(ctx); ok {
		order, err := s.Repos.Orders().FindByID(ctx, delivery.OrderID)
		if err != nil {
			return nil, err
		}
		if order.StoreID != scoped {
			return nil, shared.ErrNotFound
		}
	}
	return delivery, nil
}

// List returns deliveries of an order or an agent, newest first
func (s *DeliveryService) List(ctx context.Context, in ListInput, orderID, agentID *uuid.UUID) (shared.Page[commerce.Delivery], error) {
	f := scopeList(ctx, in).filter()
	if orderID != nil {
		f.Filters[commerce.FilterOrderID] = *orderID
	}
	if agentID != nil {
		f.Filters[commerce.FilterAgentID] = *agentID
	}
	repo := s.Repos.Deliveries()
	return page(ctx, f, repo.FindAll, repo.Count)
}

// closeOpenDelivery cancels the assignment of an order that is being cancelled
func closeOpenDelivery(ctx context.Context, repos mutation.Repositories, orderID uuid.UUID, now time.Time) error {
	open, err := repos.Deliveries().FindOpenForOrder(ctx, orderID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !open.Status.CanTransitionTo(commerce.DeliveryAssignCancel) {
		return nil
	}
	if err := open.TransitionTo(commerce.DeliveryAssignCancel, now); err != nil {
		return err
	}
	return repos.Deliveries().Save(ctx, open)
}
