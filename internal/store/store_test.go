package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regiepress/backoffice/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=private")
	require.NoError(t, err)
	return s
}

func TestInvoiceRoundTrip(t *testing.T) {
	s := openTestStore(t)

	inv := &model.Invoice{
		Number:     2024,
		Entreprise: "Acme SARL",
		TotalPrice: 700,
		TVA:        0.20,
		SupportList: []model.SupportItem{
			{Name: "Encart pleine page", SupportName: "Le Mag", SupportNumber: "42", Price: 700},
		},
	}
	require.NoError(t, s.DB().Create(inv).Error)

	got, err := s.Invoice(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme SARL", got.Entreprise)
	require.Len(t, got.SupportList, 1)
	assert.Equal(t, "Le Mag", got.SupportList[0].SupportName)
	assert.Equal(t, model.EInvoicePending, got.EInvoiceStatus)
}

func TestInvoiceNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Invoice(99)
	var upstream *model.UpstreamDataError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "invoice", upstream.Kind)
}

func TestOrderRoundTrip(t *testing.T) {
	s := openTestStore(t)

	o := &model.Order{
		Number:     7,
		Entreprise: "Acme SARL",
		TotalPrice: 500,
		SupportList: []model.SupportItem{
			{Name: "Demi-page", SupportName: "Le Mag", SupportNumber: "42", Price: 500},
		},
		Costs: []model.OrderCost{
			{Description: "Commission régie", Amount: 75},
		},
	}
	require.NoError(t, s.DB().Create(o).Error)

	got, err := s.Order(o.ID)
	require.NoError(t, err)
	require.Len(t, got.Costs, 1)
	assert.Equal(t, "Commission régie", got.Costs[0].Description)
}

func TestTransitionEInvoiceStatus(t *testing.T) {
	s := openTestStore(t)

	inv := &model.Invoice{Number: 1, Entreprise: "Acme SARL"}
	require.NoError(t, s.DB().Create(inv).Error)

	ok, err := s.TransitionEInvoiceStatus(inv.ID, model.EInvoicePending, model.EInvoiceProcessing)
	require.NoError(t, err)
	assert.True(t, ok)

	// losing side of the race: the stored status is no longer pending
	ok, err = s.TransitionEInvoiceStatus(inv.ID, model.EInvoicePending, model.EInvoiceProcessing)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.TransitionEInvoiceStatus(inv.ID, model.EInvoiceProcessing, model.EInvoiceSent)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.Invoice(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EInvoiceSent, got.EInvoiceStatus)
}
