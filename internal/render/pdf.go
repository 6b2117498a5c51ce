// Package render produces the human-readable invoice and purchase-order
// PDFs. Documents are typeset at fixed coordinates on a single page; the
// vertical budget is fixed and overflowing content is not paginated.
package render

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	"github.com/regiepress/backoffice/internal/config"
	"github.com/regiepress/backoffice/internal/layout"
)

const (
	fontFamily = "Helvetica"

	titleFontSize = 16.0
	bodyFontSize  = 10.0
	smallFontSize = 9.0
)

// legalClause is the fixed late-payment clause printed on every document.
const legalClause = "En cas de retard de paiement, une pénalité égale à trois fois le taux " +
	"d'intérêt légal sera appliquée, ainsi qu'une indemnité forfaitaire pour frais de " +
	"recouvrement de 40 euros (articles L441-10 et D441-5 du Code de commerce). " +
	"Pas d'escompte en cas de paiement anticipé. Dispensé d'immatriculation au registre " +
	"du commerce et des sociétés. TVA acquittée sur les encaissements."

// Attachment is a file embedded into the produced PDF at document level.
type Attachment struct {
	Content     []byte
	Filename    string
	Description string
}

// doc wraps a gofpdf document with the fixed page geometry and the UTF-8
// translator for the core fonts.
type doc struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// newDoc creates an empty document. No page exists until addPage is called.
// Compression stays off: output is deterministic and inspectable.
func newDoc() *doc {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(layout.Margin, layout.Margin, layout.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(false)
	return &doc{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (d *doc) addPage() {
	d.pdf.AddPage()
}

// TextHeight implements layout.Measurer using the engine's own line
// splitting at the given font size and wrap width.
func (d *doc) TextHeight(text string, fontSize, width float64) float64 {
	d.pdf.SetFont(fontFamily, "", fontSize)
	lines := d.pdf.SplitLines([]byte(d.tr(text)), width)
	return float64(len(lines)) * fontSize * 1.2
}

// text draws a single line at an absolute position.
func (d *doc) text(x, y, w, size float64, style, align, s string) {
	d.pdf.SetFont(fontFamily, style, size)
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(w, size*1.2, d.tr(s), "", 0, align, false, 0, "")
}

// shadedRect draws the light gray band used for the identity strip, the
// table header and the totals box.
func (d *doc) shadedRect(x, y, w, h float64) {
	d.pdf.SetFillColor(235, 235, 235)
	d.pdf.Rect(x, y, w, h, "F")
}

// wrapped draws a wrapped text block at an absolute position.
func (d *doc) wrapped(x, y, w, size float64, align, s string) {
	d.pdf.SetFont(fontFamily, "", size)
	d.pdf.SetXY(x, y)
	d.pdf.MultiCell(w, size*1.2, d.tr(s), "", align, false)
}

// footer draws the bank-details block and the legal clause at their
// measured positions.
func (d *doc) footer(f layout.Footer, seller config.Seller) {
	d.pdf.SetTextColor(90, 90, 90)
	d.wrapped(layout.Margin, f.BankY, layout.ContentWidth, layout.BankFontSize, "C", bankText(seller))
	d.wrapped(layout.Margin, f.LegalY, layout.ContentWidth, layout.LegalFontSize, "C", legalClause)
	d.pdf.SetTextColor(0, 0, 0)
}

// bankText builds the fixed bank-details footer block.
func bankText(s config.Seller) string {
	out := "Règlement par virement"
	if s.BankName != "" {
		out += " - " + s.BankName
	}
	if s.IBAN != "" {
		out += " - IBAN " + s.IBAN
	}
	if s.BIC != "" {
		out += " - BIC " + s.BIC
	}
	return out
}

func gofpdfImageOptions() gofpdf.ImageOptions {
	return gofpdf.ImageOptions{ImageType: "PNG"}
}

// output finalizes the document, attaching any embedded files first.
func (d *doc) output(atts []Attachment) ([]byte, error) {
	if len(atts) > 0 {
		fileAtts := make([]gofpdf.Attachment, 0, len(atts))
		for _, a := range atts {
			fileAtts = append(fileAtts, gofpdf.Attachment{
				Content:     a.Content,
				Filename:    a.Filename,
				Description: a.Description,
			})
		}
		d.pdf.SetAttachments(fileAtts)
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
