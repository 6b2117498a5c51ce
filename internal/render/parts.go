package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/regiepress/backoffice/internal/format"
	"github.com/regiepress/backoffice/internal/layout"
	"github.com/regiepress/backoffice/internal/model"
)

// noItemsNotice is shown centered when a document has no billable lines.
const noItemsNotice = "Aucune prestation à facturer."

// itemTable draws the five-column line-item table starting at the layout
// cursor and returns the items subtotal. One row per item, in stored order.
// The quantity column always shows "1": quantity semantics live in the
// support identity header, and the row amount is the unit price.
func (d *doc) itemTable(l *layout.Layout, items []model.SupportItem, vatRatio float64) float64 {
	x := []float64{layout.Margin}
	for _, w := range layout.TableColumns {
		x = append(x, x[len(x)-1]+w)
	}

	headY := l.Advance(layout.TableHeaderHeight)
	d.shadedRect(layout.Margin, headY, layout.ContentWidth, layout.TableHeaderHeight)
	pad := (layout.TableHeaderHeight - smallFontSize*1.2) / 2
	d.text(x[0]+4, headY+pad, layout.TableColumns[0]-8, smallFontSize, "B", "L", "Désignation")
	d.text(x[1], headY+pad, layout.TableColumns[1]-8, smallFontSize, "B", "R", "Qté")
	d.text(x[2], headY+pad, layout.TableColumns[2]-8, smallFontSize, "B", "R", "PU HT")
	d.text(x[3], headY+pad, layout.TableColumns[3]-8, smallFontSize, "B", "R", "TVA")
	d.text(x[4], headY+pad, layout.TableColumns[4]-8, smallFontSize, "B", "R", "Montant HT")

	var subtotal float64
	vatPercent := format.FormatPercent(vatRatio * 100)
	for _, it := range items {
		rowY := l.Advance(layout.TableRowHeight)
		rowPad := (layout.TableRowHeight - smallFontSize*1.2) / 2
		d.text(x[0]+4, rowY+rowPad, layout.TableColumns[0]-8, smallFontSize, "", "L", designation(it))
		d.text(x[1], rowY+rowPad, layout.TableColumns[1]-8, smallFontSize, "", "R", "1")
		d.text(x[2], rowY+rowPad, layout.TableColumns[2]-8, smallFontSize, "", "R", format.FormatPrice(it.Price)+" €")
		d.text(x[3], rowY+rowPad, layout.TableColumns[3]-8, smallFontSize, "", "R", vatPercent+" %")
		d.text(x[4], rowY+rowPad, layout.TableColumns[4]-8, smallFontSize, "", "R", format.FormatPrice(it.Price)+" €")
		subtotal += it.Price
	}
	return subtotal
}

func designation(it model.SupportItem) string {
	s := it.Name
	if it.SupportName != "" {
		s = fmt.Sprintf("%s - %s", s, it.SupportName)
		if it.SupportNumber != "" {
			s = fmt.Sprintf("%s n°%s", s, it.SupportNumber)
		}
	}
	return s
}

// totalsAndTerms draws the shaded totals box and the payment-terms lines.
// The whole block is clamped to end above the footer; this is a hard
// invariant, never best effort.
func (d *doc) totalsAndTerms(l *layout.Layout, subtotal, vatRatio float64, descriptor string, issue time.Time) {
	vatAmount := subtotal * vatRatio
	total := subtotal + vatAmount

	const lineH = 14.0
	const termsGap = 10.0
	termsH := 2*lineH + termsGap
	blockH := layout.TotalsBoxHeight + termsH

	y := l.Footer.ClampAbove(l.Cursor()+12, blockH)
	d.shadedRect(layout.TotalsBoxX, y, layout.TotalsBoxWidth, layout.TotalsBoxHeight)

	labelX := layout.TotalsBoxX + 8
	valueW := layout.TotalsBoxWidth - 16
	d.text(labelX, y+6, valueW, smallFontSize, "", "L", "Total HT")
	d.text(labelX, y+6, valueW, smallFontSize, "", "R", format.FormatPrice(subtotal)+" €")
	d.text(labelX, y+6+lineH, valueW, smallFontSize, "", "L", fmt.Sprintf("TVA (%s %%)", format.FormatPercent(vatRatio*100)))
	d.text(labelX, y+6+lineH, valueW, smallFontSize, "", "R", format.FormatPrice(vatAmount)+" €")
	d.text(labelX, y+6+2*lineH, valueW, smallFontSize, "B", "L", "Total TTC")
	d.text(labelX, y+6+2*lineH, valueW, smallFontSize, "B", "R", format.FormatPrice(total)+" €")

	termsY := y + layout.TotalsBoxHeight + termsGap
	d.text(layout.Margin, termsY, layout.ContentWidth, smallFontSize, "", "L", paymentTerms(descriptor))
	if due, ok := format.DueDate(issue, descriptor); ok {
		d.text(layout.Margin, termsY+lineH, layout.ContentWidth, smallFontSize, "", "L",
			"Date d'échéance : "+format.FormatDate(due))
	}
	l.MoveTo(termsY + termsH)
}

// paymentTerms selects the wording for the payment-delay descriptor.
func paymentTerms(descriptor string) string {
	s := strings.TrimSpace(descriptor)
	switch {
	case s == "":
		return "Paiement à réception de facture."
	case strings.EqualFold(s, "comptant"):
		return "Paiement comptant, dû à réception de la facture."
	default:
		return fmt.Sprintf("Paiement sous %s.", s)
	}
}
