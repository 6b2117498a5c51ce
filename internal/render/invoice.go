package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/regiepress/backoffice/internal/config"
	"github.com/regiepress/backoffice/internal/format"
	"github.com/regiepress/backoffice/internal/layout"
	"github.com/regiepress/backoffice/internal/model"
)

// InvoiceRenderer produces the human-readable invoice PDF.
type InvoiceRenderer struct {
	seller config.Seller
	logger zerolog.Logger
}

// NewInvoiceRenderer creates an invoice renderer for the given seller identity.
func NewInvoiceRenderer(seller config.Seller, logger zerolog.Logger) *InvoiceRenderer {
	return &InvoiceRenderer{seller: seller, logger: logger}
}

// InvoiceFileName derives the persisted filename: {number}_{COMPANY}.pdf.
func InvoiceFileName(inv *model.Invoice) string {
	return fmt.Sprintf("%d_%s.pdf", inv.Number, strings.ToUpper(inv.Entreprise))
}

// RenderToBuffer renders the invoice into an in-memory PDF buffer. Pure
// with respect to persistent storage.
func (r *InvoiceRenderer) RenderToBuffer(inv *model.Invoice, contact *model.Contact) ([]byte, error) {
	return r.render(inv, contact, nil)
}

// RenderTo renders the invoice directly to a stream.
func (r *InvoiceRenderer) RenderTo(w io.Writer, inv *model.Invoice, contact *model.Contact) error {
	buf, err := r.render(inv, contact, nil)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// RenderWithAttachments renders the invoice with document-level embedded
// files, used by the Factur-X assembler.
func (r *InvoiceRenderer) RenderWithAttachments(inv *model.Invoice, contact *model.Contact, atts []Attachment) ([]byte, error) {
	return r.render(inv, contact, atts)
}

// RenderAndPersist renders and writes the PDF under dir, creating the
// directory if absent. Returns the written path.
func (r *InvoiceRenderer) RenderAndPersist(inv *model.Invoice, contact *model.Contact, dir string) (string, error) {
	buf, err := r.render(inv, contact, nil)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, InvoiceFileName(inv))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", err
	}
	r.logger.Debug().Str("path", path).Msg("invoice pdf persisted")
	return path, nil
}

func (r *InvoiceRenderer) render(inv *model.Invoice, contact *model.Contact, atts []Attachment) ([]byte, error) {
	d := newDoc()
	d.pdf.SetTitle(fmt.Sprintf("Facture n°%d", inv.Number), true)
	d.pdf.SetCreationDate(inv.Date)

	footer := layout.PlaceFooter(d, bankText(r.seller), legalClause)
	l := layout.New(footer)
	d.addPage()

	// Header: title and date, top right.
	d.text(layout.Margin, layout.TitleY, layout.ContentWidth, titleFontSize, "B", "R",
		fmt.Sprintf("FACTURE N° %d", inv.Number))
	d.text(layout.Margin, layout.TitleY+22, layout.ContentWidth, bodyFontSize, "", "R",
		"Date : "+format.FormatDate(inv.Date))

	// Two-column seller/buyer blocks.
	blockTop := layout.TitleY + 60
	sellerLines := sellerBlock(r.seller)
	buyerLines := buyerBlock(inv, contact)
	d.addressColumn(layout.AddressLeftX, blockTop, sellerLines)
	d.addressColumn(layout.AddressRightX, blockTop, buyerLines)
	lines := len(sellerLines)
	if len(buyerLines) > lines {
		lines = len(buyerLines)
	}
	l.MoveTo(blockTop + float64(lines)*layout.AddressLineGap + 24)

	// Publication identity band.
	if identity := layout.IdentityLine(inv.SupportList); identity != "" {
		bandY := l.Advance(layout.IdentityBandHeight)
		d.shadedRect(layout.Margin, bandY, layout.ContentWidth, layout.IdentityBandHeight)
		d.text(layout.Margin, bandY+(layout.IdentityBandHeight-bodyFontSize*1.2)/2,
			layout.ContentWidth, bodyFontSize, "B", "C", identity)
		l.Advance(14)
	}

	if len(inv.SupportList) == 0 {
		d.text(layout.Margin, l.Cursor()+30, layout.ContentWidth, bodyFontSize, "", "C", noItemsNotice)
	} else {
		subtotal := d.itemTable(l, inv.SupportList, inv.TVA)
		d.totalsAndTerms(l, subtotal, inv.TVA, paymentDescriptor(inv, contact), inv.Date)
	}

	d.footer(footer, r.seller)

	if err := d.pdf.Error(); err != nil {
		return nil, model.NewRenderError("invoice", "layout", err)
	}
	return d.output(atts)
}

// paymentDescriptor prefers the invoice's own descriptor, falling back to
// the contact's default terms.
func paymentDescriptor(inv *model.Invoice, contact *model.Contact) string {
	if inv.DelaisPaie != "" {
		return inv.DelaisPaie
	}
	if contact != nil {
		return contact.DelaisPaie
	}
	return ""
}

func sellerBlock(s config.Seller) []addressLine {
	lines := []addressLine{{text: s.Name, bold: true}}
	if s.Address != "" {
		lines = append(lines, addressLine{text: s.Address})
	}
	if s.PostalCode != "" || s.City != "" {
		lines = append(lines, addressLine{text: strings.TrimSpace(s.PostalCode + " " + s.City)})
	}
	if s.SIRET != "" {
		lines = append(lines, addressLine{text: "SIRET : " + s.SIRET})
	}
	if s.NumTVA != "" {
		lines = append(lines, addressLine{text: "N° TVA : " + s.NumTVA})
	}
	return lines
}

func buyerBlock(inv *model.Invoice, contact *model.Contact) []addressLine {
	lines := []addressLine{
		{text: "FACTURÉ À", bold: true},
		{text: inv.Entreprise, bold: true},
	}
	if inv.FirstAddress != "" {
		lines = append(lines, addressLine{text: inv.FirstAddress})
	}
	if inv.SecondAddress != "" {
		lines = append(lines, addressLine{text: inv.SecondAddress})
	}
	if inv.PostalCode != "" || inv.City != "" {
		lines = append(lines, addressLine{text: strings.TrimSpace(inv.PostalCode + " " + inv.City)})
	}
	if contact != nil {
		if contact.SIRET != "" {
			lines = append(lines, addressLine{text: "SIRET : " + contact.SIRET})
		}
		if contact.NumTVA != "" {
			lines = append(lines, addressLine{text: "N° TVA : " + contact.NumTVA})
		}
	}
	return lines
}

type addressLine struct {
	text string
	bold bool
}

// addressColumn draws an address block with the fixed per-line gap.
func (d *doc) addressColumn(x, y float64, lines []addressLine) {
	for i, ln := range lines {
		style := ""
		if ln.bold {
			style = "B"
		}
		d.text(x, y+float64(i)*layout.AddressLineGap, layout.PageWidth-layout.Margin-x, bodyFontSize, style, "L", ln.text)
	}
}
