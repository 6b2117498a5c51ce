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

// Signature image placement, bottom right above the footer.
const (
	signatureWidth  = 130.0
	signatureHeight = 65.0
)

// OrderRenderer produces purchase-order PDFs. Shares the table and footer
// structure with invoices, with an order-specific header, an optional
// signature image and an optional cost breakdown.
type OrderRenderer struct {
	seller       config.Seller
	signatureDir string
	logger       zerolog.Logger
}

// NewOrderRenderer creates an order renderer. signatureDir is where
// uploaded signature PNGs live.
func NewOrderRenderer(seller config.Seller, signatureDir string, logger zerolog.Logger) *OrderRenderer {
	return &OrderRenderer{seller: seller, signatureDir: signatureDir, logger: logger}
}

// OrderFileName derives the download filename: commande-{number}.pdf.
func OrderFileName(o *model.Order) string {
	return fmt.Sprintf("commande-%d.pdf", o.Number)
}

// RenderToBuffer renders the order into an in-memory PDF buffer.
func (r *OrderRenderer) RenderToBuffer(o *model.Order, contact *model.Contact) ([]byte, error) {
	return r.render(o, contact)
}

// RenderTo renders the order directly to a stream.
func (r *OrderRenderer) RenderTo(w io.Writer, o *model.Order, contact *model.Contact) error {
	buf, err := r.render(o, contact)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// RenderAndPersist renders and writes the PDF under dir, creating the
// directory if absent.
func (r *OrderRenderer) RenderAndPersist(o *model.Order, contact *model.Contact, dir string) (string, error) {
	buf, err := r.render(o, contact)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, OrderFileName(o))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (r *OrderRenderer) render(o *model.Order, contact *model.Contact) ([]byte, error) {
	d := newDoc()
	d.pdf.SetTitle(fmt.Sprintf("Bon de commande n°%d", o.Number), true)
	d.pdf.SetCreationDate(o.Date)

	footer := layout.PlaceFooter(d, bankText(r.seller), legalClause)
	l := layout.New(footer)
	d.addPage()

	// Header: seller contact details inline on the left, title on the right.
	d.text(layout.Margin, layout.TitleY, layout.ContentWidth, titleFontSize, "B", "R", "BON DE COMMANDE")
	d.text(layout.Margin, layout.TitleY+22, layout.ContentWidth, bodyFontSize, "", "R",
		fmt.Sprintf("N° %d du %s", o.Number, format.FormatDate(o.Date)))

	sellerInline := sellerContactLines(r.seller)
	for i, line := range sellerInline {
		style := ""
		if i == 0 {
			style = "B"
		}
		d.text(layout.Margin, layout.TitleY+float64(i)*layout.AddressLineGap, 250, bodyFontSize, style, "L", line)
	}

	// Recipient block.
	blockTop := layout.TitleY + 60
	if top := layout.TitleY + float64(len(sellerInline))*layout.AddressLineGap + 16; top > blockTop {
		blockTop = top
	}
	recipient := recipientBlock(o, contact)
	d.addressColumn(layout.AddressRightX, blockTop, recipient)
	l.MoveTo(blockTop + float64(len(recipient))*layout.AddressLineGap + 24)

	if len(o.SupportList) == 0 {
		d.text(layout.Margin, l.Cursor()+30, layout.ContentWidth, bodyFontSize, "", "C", noItemsNotice)
	} else {
		subtotal := d.itemTable(l, o.SupportList, o.TVA)
		if len(o.Costs) > 0 {
			d.costBreakdown(l, o.Costs, subtotal)
		}
		d.totalsAndTerms(l, subtotal, o.TVA, orderDescriptor(o, contact), o.Date)
	}

	r.drawSignature(d, o, footer)
	d.footer(footer, r.seller)

	if err := d.pdf.Error(); err != nil {
		return nil, model.NewRenderError("order", "layout", err)
	}
	return d.output(nil)
}

// costBreakdown draws the itemized costs and the computed net revenue:
// items subtotal minus total costs.
func (d *doc) costBreakdown(l *layout.Layout, costs []model.OrderCost, subtotal float64) {
	l.Advance(10)
	titleY := l.Advance(16)
	d.text(layout.Margin, titleY, layout.ContentWidth, bodyFontSize, "B", "L", "Détail des frais")

	var totalCosts float64
	for _, c := range costs {
		rowY := l.Advance(14)
		d.text(layout.Margin+10, rowY, 280, smallFontSize, "", "L", c.Description)
		d.text(layout.Margin+290, rowY, 120, smallFontSize, "", "R", format.FormatPrice(c.Amount)+" €")
		totalCosts += c.Amount
	}

	netY := l.Advance(16)
	d.text(layout.Margin+10, netY, 280, smallFontSize, "B", "L", "Revenu net")
	d.text(layout.Margin+290, netY, 120, smallFontSize, "B", "R", format.FormatPrice(subtotal-totalCosts)+" €")
}

// drawSignature embeds the signature PNG at its fixed position when the
// file exists. A missing file is logged and skipped, never an error.
func (r *OrderRenderer) drawSignature(d *doc, o *model.Order, f layout.Footer) {
	if o.Signature == "" {
		return
	}
	path := filepath.Join(r.signatureDir, o.Signature)
	if _, err := os.Stat(path); err != nil {
		missing := model.NewResourceMissingError(path)
		r.logger.Warn().Err(missing).Int("order", o.Number).Msg("rendering without signature")
		return
	}
	x := layout.PageWidth - layout.Margin - signatureWidth
	y := f.Top - signatureHeight - 14
	d.text(x, y-14, signatureWidth, smallFontSize, "", "L", "Signature :")
	d.pdf.ImageOptions(path, x, y, signatureWidth, signatureHeight, false,
		gofpdfImageOptions(), 0, "")
}

func sellerContactLines(s config.Seller) []string {
	lines := []string{s.Name}
	if s.Address != "" {
		lines = append(lines, s.Address)
	}
	if s.PostalCode != "" || s.City != "" {
		lines = append(lines, strings.TrimSpace(s.PostalCode+" "+s.City))
	}
	if s.Phone != "" {
		lines = append(lines, "Tél : "+s.Phone)
	}
	if s.Email != "" {
		lines = append(lines, s.Email)
	}
	return lines
}

func recipientBlock(o *model.Order, contact *model.Contact) []addressLine {
	lines := []addressLine{
		{text: "DESTINATAIRE", bold: true},
		{text: o.Entreprise, bold: true},
	}
	if contact != nil && contact.ContactName != "" {
		lines = append(lines, addressLine{text: contact.ContactName})
	}
	if o.FirstAddress != "" {
		lines = append(lines, addressLine{text: o.FirstAddress})
	}
	if o.SecondAddress != "" {
		lines = append(lines, addressLine{text: o.SecondAddress})
	}
	if o.PostalCode != "" || o.City != "" {
		lines = append(lines, addressLine{text: strings.TrimSpace(o.PostalCode + " " + o.City)})
	}
	return lines
}

func orderDescriptor(o *model.Order, contact *model.Contact) string {
	if o.DelaisPaie != "" {
		return o.DelaisPaie
	}
	if contact != nil {
		return contact.DelaisPaie
	}
	return ""
}
