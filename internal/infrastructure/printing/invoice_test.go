package printing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePDF struct {
	req *RenderRequest
	err error
}

func (f *fakePDF) Render(_ context.Context, req *RenderRequest) (*RenderResult, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &RenderResult{PDFData: []byte("%PDF-1.4")}, nil
}

func (f *fakePDF) Close() error { return nil }

func invoice(t *testing.T) *commerce.Invoice {
	t.Helper()
	store := commerce.NewStore("ST100000001")
	store.Name = "Corner <Shop>"
	mobile := "01711111111"
	store.Mobile = &mobile

	order := commerce.NewOrder("OR100000001", store.ID, uuid.New())
	order.PlacedAt = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	address := "House 1, Road 2"
	order.Address = &address
	order.Items = []commerce.OrderItem{{
		Name:  "Milk 1L",
		Qty:   decimal.NewFromInt(3),
		Price: decimal.NewFromInt(50),
		Total: decimal.NewFromInt(150),
	}}
	order.SubTotal = decimal.NewFromInt(150)
	order.Discount = decimal.NewFromInt(15)
	order.Total = decimal.NewFromInt(135)
	require.NoError(t, order.TransitionTo(commerce.OrderCreated))

	inv, err := commerce.NewInvoice(order, store, time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return inv
}

func TestInvoiceRenderer_HTML(t *testing.T) {
	r, err := NewInvoiceRenderer(nil, "")
	require.NoError(t, err)

	data, contentType, ext, err := r.RenderInvoice(context.Background(), invoice(t))
	require.NoError(t, err)
	assert.Equal(t, ContentTypeHTML, contentType)
	assert.Equal(t, "html", ext)

	html := string(data)
	assert.Contains(t, html, "Invoice OR100000001")
	assert.Contains(t, html, "Corner &lt;Shop&gt;")
	assert.Contains(t, html, "01711111111")
	assert.Contains(t, html, "Placed 01 May 2024 09:30")
	assert.Contains(t, html, "Deliver to: House 1, Road 2")
	assert.Contains(t, html, "<td>Milk 1L</td>")
	assert.Contains(t, html, "150.00")
	assert.Contains(t, html, "-15.00")
	assert.Contains(t, html, "<strong>135.00</strong>")
}

func TestInvoiceRenderer_PDF(t *testing.T) {
	pdf := &fakePDF{}
	r, err := NewInvoiceRenderer(pdf, PaperSizeReceipt80MM)
	require.NoError(t, err)

	data, contentType, ext, err := r.RenderInvoice(context.Background(), invoice(t))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
	assert.Equal(t, ContentTypePDF, contentType)
	assert.Equal(t, "pdf", ext)
	assert.Equal(t, PaperSizeReceipt80MM, pdf.req.PaperSize)
	assert.Equal(t, "Invoice OR100000001", pdf.req.Title)
	assert.Contains(t, pdf.req.HTML, "font-size: 10px")

	pdf.err = NewRenderError(ErrCodeRenderFailed, "boom", nil)
	_, _, _, err = r.RenderInvoice(context.Background(), invoice(t))
	var renderErr *RenderError
	assert.True(t, errors.As(err, &renderErr))
}

func TestNewInvoiceRenderer_InvalidPaper(t *testing.T) {
	_, err := NewInvoiceRenderer(nil, "LETTER")
	assert.Error(t, err)
}
