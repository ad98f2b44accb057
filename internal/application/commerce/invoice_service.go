package commerce

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoiceRenderer prints an invoice, returning the document, its content type and file extension
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, inv *commerce.Invoice) (data []byte, contentType, ext string, err error)
}

// InvoiceStorage keeps rendered invoices and signs their download links
type InvoiceStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// InvoiceLink is a signed download of a rendered invoice
type InvoiceLink struct {
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// InvoiceService renders order invoices into object storage
type InvoiceService struct {
	Deps
	renderer InvoiceRenderer
	storage  InvoiceStorage
	expiry   time.Duration
}

// NewInvoiceService creates the service. expiry is the lifetime of download links.
func NewInvoiceService(deps Deps, renderer InvoiceRenderer, storage InvoiceStorage, expiry time.Duration) *InvoiceService {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &InvoiceService{Deps: deps, renderer: renderer, storage: storage, expiry: expiry}
}

// Generate renders the invoice of order id. When customer is set the order must be theirs.
func (s *InvoiceService) Generate(ctx context.Context, id string, customer *uuid.UUID) (*InvoiceLink, mutation.Errors, error) {
	var errs mutation.Errors
	order, err := findOrder(ctx, s.Repos, id, "id", &errs)
	if err != nil || order == nil {
		return nil, errs, err
	}
	if customer != nil && order.CustomerUserID != *customer {
		errs.Add("id", "Order not found.")
		return nil, errs, nil
	}
	if err := checkStore(ctx, order.StoreID); err != nil {
		return nil, errs, err
	}
	store, err := s.Repos.Stores().FindByID(ctx, order.StoreID, shared.ManagerAll)
	if errors.Is(err, shared.ErrNotFound) {
		errs.Add("store", "Store not found.")
		return nil, errs, nil
	}
	if err != nil {
		return nil, errs, err
	}
	inv, err := commerce.NewInvoice(order, store, s.now())
	if err != nil {
		errs.AddDomain("status", err)
		return nil, errs, nil
	}

	data, contentType, ext, err := s.renderer.RenderInvoice(ctx, inv)
	if err != nil {
		return nil, errs, err
	}
	key := inv.Key(ext)
	if err := s.storage.Put(ctx, key, data, contentType); err != nil {
		return nil, errs, err
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.expiry)
	if err != nil {
		return nil, errs, err
	}
	s.log().Info("Invoice generated",
		zap.String("order_id", order.ID.String()),
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return &InvoiceLink{URL: url, ContentType: contentType, ExpiresAt: expiresAt}, errs, nil
}
