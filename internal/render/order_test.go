package render_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regiepress/backoffice/internal/model"
	"github.com/regiepress/backoffice/internal/render"
)

func testOrder() *model.Order {
	return &model.Order{
		ID:         1,
		Number:     77,
		Date:       time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Entreprise: "Acme SARL",
		PostalCode: "75008",
		City:       "Paris",
		TVA:        0.20,
		SupportList: []model.SupportItem{
			{Name: "Encart dos", SupportName: "Gazette", SupportNumber: "7", Price: 900},
		},
		Costs: []model.OrderCost{
			{Description: "Impression", Amount: 120},
			{Description: "Commission", Amount: 80},
		},
	}
}

func TestOrderRenderer_RenderToBuffer(t *testing.T) {
	r := render.NewOrderRenderer(testSeller(), t.TempDir(), zerolog.Nop())

	buf, err := r.RenderToBuffer(testOrder(), testContact())
	require.NoError(t, err)
	require.NotEmpty(t, buf)

	out := string(buf)
	assert.True(t, bytes.HasPrefix(buf, []byte("%PDF-")))
	assert.Contains(t, out, "BON DE COMMANDE")
	assert.Contains(t, out, "DESTINATAIRE")
	assert.Contains(t, out, "Revenu net")
	assert.Contains(t, out, "700,00") // 900 - 120 - 80
}

func TestOrderRenderer_NoCosts(t *testing.T) {
	r := render.NewOrderRenderer(testSeller(), t.TempDir(), zerolog.Nop())
	o := testOrder()
	o.Costs = nil

	buf, err := r.RenderToBuffer(o, testContact())
	require.NoError(t, err)
	assert.NotContains(t, string(buf), "Revenu net")
}

func TestOrderRenderer_MissingSignatureIsSkipped(t *testing.T) {
	r := render.NewOrderRenderer(testSeller(), t.TempDir(), zerolog.Nop())
	o := testOrder()
	o.Signature = "deadbeefcafe.png"

	buf, err := r.RenderToBuffer(o, testContact())
	require.NoError(t, err, "missing signature image must not fail the render")
	assert.True(t, bytes.HasPrefix(buf, []byte("%PDF-")))
}

func TestOrderRenderer_EmptyItems(t *testing.T) {
	r := render.NewOrderRenderer(testSeller(), t.TempDir(), zerolog.Nop())
	o := testOrder()
	o.SupportList = nil
	o.Costs = nil

	buf, err := r.RenderToBuffer(o, testContact())
	require.NoError(t, err)
	out := string(buf)
	assert.Contains(t, out, "Aucune prestation")
	assert.NotContains(t, out, "Total TTC")
}

func TestOrderFileName(t *testing.T) {
	assert.Equal(t, "commande-77.pdf", render.OrderFileName(testOrder()))
}
