package model

// EInvoiceStatus tracks the Factur-X send pipeline for an invoice.
// Transitions: pending -> processing -> sent | rejected. There is no
// automatic retry; a rejected invoice stays rejected until reset by hand.
type EInvoiceStatus string

const (
	EInvoicePending    EInvoiceStatus = "pending"
	EInvoiceProcessing EInvoiceStatus = "processing"
	EInvoiceSent       EInvoiceStatus = "sent"
	EInvoiceRejected   EInvoiceStatus = "rejected"
)

// Valid reports whether s is one of the known pipeline states.
func (s EInvoiceStatus) Valid() bool {
	switch s {
	case EInvoicePending, EInvoiceProcessing, EInvoiceSent, EInvoiceRejected:
		return true
	}
	return false
}

// Terminal reports whether the pipeline is done with this invoice.
func (s EInvoiceStatus) Terminal() bool {
	return s == EInvoiceSent || s == EInvoiceRejected
}
