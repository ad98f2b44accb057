package printing

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/commerce"
)

const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypePDF  = "application/pdf"
)

//go:embed templates/invoice.html
var invoiceTemplate string

var invoiceFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"qty":   func(d decimal.Decimal) string { return d.String() },
	"date":  func(t time.Time) string { return t.Format("02 Jan 2006 15:04") },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"positive": func(d decimal.Decimal) bool { return d.IsPositive() },
}

// InvoiceRenderer prints invoices. Without a PDF renderer it returns the HTML document.
type InvoiceRenderer struct {
	tmpl  *template.Template
	pdf   PDFRenderer
	paper PaperSize
}

// NewInvoiceRenderer parses the invoice template. pdf may be nil.
func NewInvoiceRenderer(pdf PDFRenderer, paper PaperSize) (*InvoiceRenderer, error) {
	if paper == "" {
		paper = PaperSizeA4
	}
	if !paper.IsValid() {
		return nil, fmt.Errorf("invalid paper size %q", paper)
	}
	tmpl, err := template.New("invoice").Funcs(invoiceFuncs).Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse invoice template: %w", err)
	}
	return &InvoiceRenderer{tmpl: tmpl, pdf: pdf, paper: paper}, nil
}

// RenderInvoice returns the document, its content type and file extension
func (r *InvoiceRenderer) RenderInvoice(ctx context.Context, inv *commerce.Invoice) ([]byte, string, string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, invoiceView{Invoice: inv, Receipt: r.paper.IsReceipt()}); err != nil {
		return nil, "", "", fmt.Errorf("render invoice %s: %w", inv.Order.Code, err)
	}
	if r.pdf == nil {
		return buf.Bytes(), ContentTypeHTML, "html", nil
	}
	res, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:       buf.String(),
		Title:      "Invoice " + inv.Order.Code,
		PaperSize:  r.paper,
		Margins:    DefaultMargins(),
		FooterHTML: `<div style="font-size:8px;width:100%;text-align:center"><span class="pageNumber"></span>/<span class="totalPages"></span></div>`,
	})
	if err != nil {
		return nil, "", "", err
	}
	return res.PDFData, ContentTypePDF, "pdf", nil
}

type invoiceView struct {
	*commerce.Invoice
	Receipt bool
}
