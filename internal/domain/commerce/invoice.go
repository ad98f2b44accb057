package commerce

import (
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// Invoice is the printable view of an order
type Invoice struct {
	Order    *Order
	Store    *Store
	IssuedAt time.Time
}

// NewInvoice builds the invoice for an order of store. Pending orders are not invoiced.
func NewInvoice(order *Order, store *Store, issuedAt time.Time) (*Invoice, error) {
	if order.Status == OrderPending {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Order %s is not confirmed yet.", order.Code))
	}
	if order.StoreID != store.ID {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Order %s does not belong to store %s.", order.Code, store.Code))
	}
	return &Invoice{Order: order, Store: store, IssuedAt: issuedAt}, nil
}

// Key is the object storage key of the rendered invoice
func (i *Invoice) Key(ext string) string {
	return fmt.Sprintf("invoices/%s/%s.%s", i.Store.Code, i.Order.Code, ext)
}
