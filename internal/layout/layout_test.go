package layout_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regiepress/backoffice/internal/layout"
	"github.com/regiepress/backoffice/internal/model"
)

// lineMeasurer approximates text height as one fixed-height line per 80
// characters, enough to exercise the placement math without a PDF engine.
type lineMeasurer struct{}

func (lineMeasurer) TextHeight(text string, fontSize, width float64) float64 {
	lines := 1 + len(text)/80
	return float64(lines) * fontSize * 1.2
}

func TestPlaceFooter_MovesUpAsLegalTextGrows(t *testing.T) {
	m := lineMeasurer{}
	bank := "IBAN FR76 0000 0000 0000 - BIC ABCDEF"

	short := layout.PlaceFooter(m, bank, "Clause courte.")
	long := layout.PlaceFooter(m, bank, strings.Repeat("Pénalités de retard exigibles sans rappel. ", 8))

	assert.Less(t, long.Top, short.Top, "footer must move up as the legal clause grows")
	assert.Less(t, short.Top, layout.PageHeight-layout.Margin)
}

func TestPlaceFooter_BlockOrdering(t *testing.T) {
	f := layout.PlaceFooter(lineMeasurer{}, "banque", "clause")
	assert.Greater(t, f.BankY, f.Top)
	assert.Greater(t, f.LegalY, f.BankY)
}

func TestClampAbove(t *testing.T) {
	f := layout.PlaceFooter(lineMeasurer{}, "banque", "clause")

	// A block that would overlap the footer is pulled up.
	y := f.ClampAbove(f.Top-10, 60)
	assert.LessOrEqual(t, y+60, f.Top-2)

	// A block already above the limit is left where it is.
	y = f.ClampAbove(100, 60)
	assert.Equal(t, 100.0, y)
}

func TestLayout_CursorThreading(t *testing.T) {
	f := layout.PlaceFooter(lineMeasurer{}, "b", "l")
	l := layout.New(f)

	require.Equal(t, layout.Margin, l.Cursor())
	y := l.Advance(20)
	assert.Equal(t, layout.Margin, y)
	assert.Equal(t, layout.Margin+20, l.Cursor())

	l.MoveTo(300)
	assert.Equal(t, 300.0, l.Cursor())
}

func TestTableColumns_FillContentWidth(t *testing.T) {
	var sum float64
	for _, w := range layout.TableColumns {
		sum += w
	}
	assert.Equal(t, layout.ContentWidth, sum)
}

func TestCollectSupports(t *testing.T) {
	items := []model.SupportItem{
		{Name: "Pub 1/2 page", SupportName: "Le Mag", SupportNumber: "42"},
		{Name: "Pub 1/4 page", SupportName: "Le Mag", SupportNumber: "42"},
		{Name: "Encart", SupportName: "Gazette", SupportNumber: "7"},
		{Name: "Frais techniques"}, // blank support, dropped
		{Name: "Pub dos", SupportName: "Le Mag", SupportNumber: "43"},
	}

	supports := layout.CollectSupports(items)
	require.Len(t, supports, 3)
	assert.Equal(t, layout.Support{Name: "Le Mag", Number: "42"}, supports[0])
	assert.Equal(t, layout.Support{Name: "Gazette", Number: "7"}, supports[1])
	assert.Equal(t, layout.Support{Name: "Le Mag", Number: "43"}, supports[2])
}

func TestIdentityLine(t *testing.T) {
	items := []model.SupportItem{
		{SupportName: "Le Mag", SupportNumber: "42"},
		{SupportName: "Gazette", SupportNumber: "7"},
		{SupportName: "Le Mag", SupportNumber: "43"},
	}
	assert.Equal(t, "Le Mag n°42 (+2 autres supports)", layout.IdentityLine(items))

	assert.Equal(t, "Le Mag n°42", layout.IdentityLine(items[:1]))
	assert.Equal(t, "", layout.IdentityLine(nil))
	assert.Equal(t, "", layout.IdentityLine([]model.SupportItem{{Name: "Frais"}}))
}
