package commerce

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService places orders and drives their status
type OrderService struct {
	Deps
}

// NewOrderService creates a new OrderService
func NewOrderService(deps Deps) *OrderService {
	return &OrderService{Deps: deps}
}

// PlaceOrder creates a pending order for customerUserID. Stock of every line is
// taken from its listing in the same transaction; any shortage rolls the whole
// order back.
func (s *OrderService) PlaceOrder(ctx context.Context, customerUserID uuid.UUID, input PlaceOrderInput) (*commerce.Order, mutation.Errors, error) {
	var order *commerce.Order
	errs, err := mutation.Run(ctx, s.Scope, func(repos mutation.Repositories, errs *mutation.Errors) error {
		storeID, ok := parseRef(input.Store, "store", "Store not found.", errs)
		if !ok {
			return nil
		}
		store, err := repos.Stores().FindByID(ctx, storeID, shared.ManagerActive)
		if errors.Is(err, shared.ErrNotFound) {
			errs.Add("store", "Store not found.")
			return nil
		}
		if err != nil {
			return err
		}
		if len(input.Items) == 0 {
			errs.Add("items", "This field cannot be blank.")
			return nil
		}

		// listings are locked before the code is read so that concurrent orders
		// on the same products number sequentially
		products, err := s.lockItems(ctx, repos, input.Items, errs)
		if err != nil || !errs.Empty() {
			return err
		}
		code, err := nextCode(ctx, shared.OrderCodes, repos.Orders().LastCode, errs)
		if err != nil || code == "" {
			return err
		}
		order = commerce.NewOrder(code, store.ID, customerUserID)
		order.PlacedAt = s.now()
		applyOrderInput(order, input)
		entries := make([]*commerce.StockEntry, 0, len(input.Items))
		for i, it := range input.Items {
			p := products[i]
			if _, err := order.AddItem(p, it.Qty); err != nil {
				errs.AddDomain("items", err)
				continue
			}
			entry, err := p.Adjust(it.Qty.Neg(), commerce.StockSold, order.Code)
			if err != nil {
				errs.AddDomain("items", err)
				continue
			}
			entries = append(entries, entry)
		}
		if !errs.Empty() {
			return nil
		}

		if input.Offer != nil && strings.TrimSpace(*input.Offer) != "" {
			if err := s.applyOffer(ctx, repos, order, strings.TrimSpace(*input.Offer), errs); err != nil || !errs.Empty() {
				return err
			}
		}
		if err := mutation.ValidateStruct(order, errs); err != nil || !errs.Empty() {
			return err
		}

		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		saved := make(map[uuid.UUID]bool, len(products))
		for _, p := range products {
			if saved[p.ID] {
				continue
			}
			saved[p.ID] = true
			if err := repos.StoreProducts().Save(ctx, p); err != nil {
				return err
			}
		}
		return repos.StoreProducts().AddStockEntries(ctx, entries...)
	})
	if err != nil || !errs.Empty() {
		return nil, errs, err
	}
	s.log().Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("code", order.Code),
		zap.String("total", order.Total.String()))
	s.publish(ctx, commerce.NewOrderPlacedEvent(order))
	return order, errs, nil
}

func applyOrderInput(order *commerce.Order, in PlaceOrderInput) {
	if in.PaymentOption != nil {
		order.PaymentOption = commerce.PaymentOption(strings.ToUpper(*in.PaymentOption))
	}
	if in.DeliveryType != nil {
		order.DeliveryType = commerce.DeliveryType(strings.ToUpper(*in.DeliveryType))
	}
	if in.Address != nil {
		if addr := strings.TrimSpace(*in.Address); addr != "" {
			order.Address = &addr
		}
	}
	order.Note = in.Note
}

// lockItems locks the listings of the requested lines and returns them in line
// order. A listing requested twice is returned as the same pointer.
func (s *OrderService) lockItems(ctx context.Context, repos mutation.Repositories, items []OrderItemInput, errs *mutation.Errors) ([]*commerce.StoreProduct, error) {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		id, err := uuid.Parse(strings.TrimSpace(it.StoreProduct))
		if err != nil {
			errs.Add("items", "Product not found.")
			return nil, nil
		}
		ids[i] = id
	}
	rows, err := repos.StoreProducts().FindByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*commerce.StoreProduct, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	out := make([]*commerce.StoreProduct, len(items))
	for i, id := range ids {
		p, ok := byID[id]
		if !ok || p.Status == shared.StatusDeleted {
			errs.Add("items", "Product not found.")
			return nil, nil
		}
		out[i] = p
	}
	return out, nil
}

// applyOffer prices order with the offer that has code
func (s *OrderService) applyOffer(ctx context.Context, repos mutation.Repositories, order *commerce.Order, code string, errs *mutation.Errors) error {
	offer, err := repos.Offers().FindByCode(ctx, code)
	if errors.Is(err, shared.ErrNotFound) {
		errs.Add("offer", "Offer not found.")
		return nil
	}
	if err != nil {
		return err
	}
	if offer.StoreID != nil && *offer.StoreID != order.StoreID {
		errs.Add("offer", "Offer is not valid for this store.")
		return nil
	}
	order.ApplyOffer(offer, s.now())
	if order.OfferID == nil {
		errs.Add("offer", "Offer is not applicable to this order.")
	}
	return nil
}

// ChangeStatus moves an order through its state machine. Cancelling or failing
// an order returns its stock.
func (s *OrderService) ChangeStatus(ctx context.Context, id, status string) (*commerce.Order, mutation.Errors, error) {
	var (
		order *commerce.Order
		from  commerce.OrderStatus
	)
	errs, err := mutation.Run(ctx, s.Scope, func(repos mutation.Repositories, errs *mutation.Errors) error {
		var err error
		order, err = findOrder(ctx, repos, id, "id", errs)
		if err != nil || order == nil {
			return err
		}
		if err := checkStore(ctx, order.StoreID); err != nil {
			return err
		}
		from = order.Status
		target := commerce.OrderStatus(strings.ToUpper(strings.TrimSpace(status)))
		if err := transitionOrder(ctx, repos, order, target, "status", errs); err != nil || !errs.Empty() {
			return err
		}
		if target == commerce.OrderCancelled {
			return closeOpenDelivery(ctx, repos, order.ID, s.now())
		}
		return nil
	})
	if err != nil || !errs.Empty() {
		return nil, errs, err
	}
	s.log().Info("Order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)))
	s.publish(ctx, commerce.NewOrderStatusChangedEvent(order.ID, from, order.Status))
	return order, errs, nil
}

// Get returns an order with its items. Orders of other stores are not found
// for a store scoped caller.
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*commerce.Order, error) {
	order, err := s.Repos.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if checkStore(ctx, order.StoreID) != nil {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

// List returns orders, newest first
func (s *OrderService) List(ctx context.Context, in OrderListInput) (shared.Page[commerce.Order], error) {
	f := scopeList(ctx, in.ListInput).filter()
	if in.Customer != nil {
		if id, err := uuid.Parse(strings.TrimSpace(*in.Customer)); err == nil {
			f.Filters[commerce.FilterCustomerUserID] = id
		}
	}
	if in.Status != nil {
		f.Filters[commerce.FilterStatus] = strings.ToUpper(strings.TrimSpace(*in.Status))
	}
	repo := s.Repos.Orders()
	return page(ctx, f, repo.FindAll, repo.Count)
}

func findOrder(ctx context.Context, repos mutation.Repositories, raw, field string, errs *mutation.Errors) (*commerce.Order, error) {
	id, ok := parseRef(raw, field, "Order not found.", errs)
	if !ok {
		return nil, nil
	}
	order, err := repos.Orders().FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		errs.Add(field, "Order not found.")
		return nil, nil
	}
	return order, err
}

// transitionOrder applies one order state change, recording a refused change
// under field, and returns stock when the new status releases it
func transitionOrder(ctx context.Context, repos mutation.Repositories, order *commerce.Order, target commerce.OrderStatus, field string, errs *mutation.Errors) error {
	if err := order.TransitionTo(target); err != nil {
		errs.AddDomain(field, err)
		return nil
	}
	if target.ReleasesStock() {
		if err := restock(ctx, repos, order.Items, order.Code); err != nil {
			return err
		}
	}
	return repos.Orders().Save(ctx, order)
}
