// Package layout computes absolute-position placement for every visual
// element of a single fixed-size document page. There is no pagination:
// content that overflows the fixed vertical budget is the caller's problem.
package layout

// Units are PDF points on a Letter-size page with 50 pt margins.
const (
	PageWidth    = 612.0
	PageHeight   = 792.0
	Margin       = 50.0
	ContentWidth = PageWidth - 2*Margin
)

// Fixed coordinates shared by the header and table drawing routines.
// These values are the visual contract the rest of the system assumes.
const (
	TitleY         = Margin
	AddressLeftX   = Margin
	AddressRightX  = 330.0
	AddressLineGap = 14.0

	IdentityBandHeight = 24.0

	TableHeaderHeight = 18.0
	TableRowHeight    = 16.0

	TotalsBoxWidth  = 200.0
	TotalsBoxHeight = 54.0
	TotalsBoxX      = PageWidth - Margin - TotalsBoxWidth
)

// Column widths of the five-column item table. They sum to ContentWidth.
var TableColumns = [5]float64{230, 40, 80, 60, 102}

// Measurer reports the rendered height of a text block at a font size,
// wrapped to a width. Backed by the PDF engine's own text metrics.
type Measurer interface {
	TextHeight(text string, fontSize, width float64) float64
}

// Footer font sizes and paddings.
const (
	BankFontSize  = 8.0
	LegalFontSize = 6.5

	footerBlockSpacing = 6.0
	footerSafetyPad    = 4.0
)

// Footer is the computed footer block placement for one render call.
type Footer struct {
	// Top is the vertical offset at which the footer begins. Content above
	// must end strictly before it.
	Top    float64
	BankY  float64
	LegalY float64
}

// PlaceFooter measures the two fixed footer text blocks and computes where
// the footer starts: pageHeight - bottomMargin - total measured height,
// including inter-block spacing and two safety paddings.
func PlaceFooter(m Measurer, bankText, legalText string) Footer {
	bankH := m.TextHeight(bankText, BankFontSize, ContentWidth)
	legalH := m.TextHeight(legalText, LegalFontSize, ContentWidth)
	total := bankH + legalH + footerBlockSpacing + 2*footerSafetyPad
	top := PageHeight - Margin - total
	return Footer{
		Top:    top,
		BankY:  top + footerSafetyPad,
		LegalY: top + footerSafetyPad + bankH + footerBlockSpacing,
	}
}

// ClampAbove returns a vertical position for a block of the given height so
// that it ends at least 2 units above the footer. Positions already above
// that limit are returned unchanged. Hard invariant: the block never
// overlaps the footer.
func (f Footer) ClampAbove(y, height float64) float64 {
	limit := f.Top - 2 - height
	if y > limit {
		return limit
	}
	return y
}

// Layout threads the vertical cursor from the header drawing routines to the
// table drawing routines, in place of recomputed magic numbers.
type Layout struct {
	Footer Footer
	cursor float64
}

// New starts a layout at the top margin with the given footer placement.
func New(f Footer) *Layout {
	return &Layout{Footer: f, cursor: Margin}
}

// Cursor returns the current vertical position.
func (l *Layout) Cursor() float64 {
	return l.cursor
}

// Advance moves the cursor down by h and returns the position before the move.
func (l *Layout) Advance(h float64) float64 {
	y := l.cursor
	l.cursor += h
	return y
}

// MoveTo places the cursor at an absolute vertical position.
func (l *Layout) MoveTo(y float64) {
	l.cursor = y
}
