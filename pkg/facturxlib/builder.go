package facturxlib

import (
	"github.com/rs/zerolog"

	"github.com/regiepress/backoffice/internal/facturx"
	"github.com/regiepress/backoffice/internal/render"
)

// Builder builds Factur-X documents and plain invoice PDFs for one seller.
type Builder struct {
	gen      *facturx.Generator
	renderer *render.InvoiceRenderer
	logger   zerolog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used during rendering and generation.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates a builder issuing documents for seller.
func NewBuilder(seller Seller, opts ...Option) *Builder {
	b := &Builder{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	b.gen = facturx.NewGenerator(seller, b.logger)
	b.renderer = render.NewInvoiceRenderer(seller, b.logger)
	return b
}

// Build produces the hybrid Factur-X PDF for an invoice. It returns a
// *ValidationError listing the missing tax identifiers when the records
// are incomplete.
func (b *Builder) Build(inv *Invoice, contact *Contact) ([]byte, error) {
	return b.gen.Generate(inv, contact)
}

// BuildPDF produces the plain invoice PDF without an embedded XML.
func (b *Builder) BuildPDF(inv *Invoice, contact *Contact) ([]byte, error) {
	return b.renderer.RenderToBuffer(inv, contact)
}
