// Package facturxlib provides a public API for building Factur-X
// (EN 16931) hybrid e-invoices: a rendered invoice PDF carrying the CII
// XML of the same invoice as an embedded factur-x.xml attachment.
//
// Example usage:
//
//	b := facturxlib.NewBuilder(seller)
//	pdf, err := b.Build(invoice, contact)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("facture.pdf", pdf, 0o644)
package facturxlib

import (
	"github.com/regiepress/backoffice/internal/config"
	"github.com/regiepress/backoffice/internal/facturx"
	"github.com/regiepress/backoffice/internal/model"
)

// Re-export core types for public API
type (
	Invoice     = model.Invoice
	Order       = model.Order
	Contact     = model.Contact
	SupportItem = model.SupportItem
	Seller      = config.Seller
)

// Re-export e-invoice pipeline states
type EInvoiceStatus = model.EInvoiceStatus

const (
	EInvoicePending    = model.EInvoicePending
	EInvoiceProcessing = model.EInvoiceProcessing
	EInvoiceSent       = model.EInvoiceSent
	EInvoiceRejected   = model.EInvoiceRejected
)

// Re-export error types
type (
	ValidationError = model.ValidationError
	RenderError     = model.RenderError
)

// AttachmentName is the conventional name of the embedded XML.
const AttachmentName = facturx.AttachmentName

// Verify checks that buf is a well-formed PDF carrying a factur-x.xml
// attachment.
func Verify(buf []byte) error {
	return facturx.Inspect(buf)
}
