package dispatch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regiepress/backoffice/internal/model"
)

type stubStore struct {
	mu      sync.Mutex
	invoice *model.Invoice
	contact *model.Contact
	status  model.EInvoiceStatus
}

func (s *stubStore) Invoice(id uint) (*model.Invoice, error) {
	if s.invoice == nil || s.invoice.ID != id {
		return nil, model.NewUpstreamDataError("invoice", id)
	}
	return s.invoice, nil
}

func (s *stubStore) Contact(id uint) (*model.Contact, error) {
	if s.contact == nil || s.contact.ID != id {
		return nil, model.NewUpstreamDataError("contact", id)
	}
	return s.contact, nil
}

func (s *stubStore) TransitionEInvoiceStatus(id uint, from, to model.EInvoiceStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != from {
		return false, nil
	}
	s.status = to
	return true, nil
}

func (s *stubStore) currentStatus() model.EInvoiceStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

type stubGenerator struct {
	buf []byte
	err error
}

func (g *stubGenerator) Generate(inv *model.Invoice, contact *model.Contact) ([]byte, error) {
	return g.buf, g.err
}

func newTestStore() *stubStore {
	return &stubStore{
		invoice: &model.Invoice{ID: 1, Number: 2024, ContactID: 3, Entreprise: "Acme SARL"},
		contact: &model.Contact{ID: 3, Company: "Acme SARL"},
		status:  model.EInvoicePending,
	}
}

func TestDispatch(t *testing.T) {
	store := newTestStore()
	gen := &stubGenerator{buf: []byte("%PDF-1.4 fake")}
	dir := t.TempDir()

	d := New(store, gen, dir, zerolog.Nop())
	require.NoError(t, d.Dispatch(1))
	d.Wait()

	assert.Equal(t, model.EInvoiceSent, store.currentStatus())

	data, err := os.ReadFile(filepath.Join(dir, "facture-2024-facturx.pdf"))
	require.NoError(t, err)
	assert.Equal(t, gen.buf, data)
}

func TestDispatch_GenerationFailure(t *testing.T) {
	store := newTestStore()
	gen := &stubGenerator{err: model.NewValidationError("seller.siret")}

	d := New(store, gen, t.TempDir(), zerolog.Nop())
	require.NoError(t, d.Dispatch(1))
	d.Wait()

	assert.Equal(t, model.EInvoiceRejected, store.currentStatus())
}

func TestDispatch_NotPending(t *testing.T) {
	store := newTestStore()
	store.status = model.EInvoiceSent

	d := New(store, &stubGenerator{}, t.TempDir(), zerolog.Nop())
	err := d.Dispatch(1)
	require.ErrorIs(t, err, ErrNotPending)
}

func TestDispatch_UnknownInvoice(t *testing.T) {
	store := newTestStore()

	d := New(store, &stubGenerator{}, t.TempDir(), zerolog.Nop())
	err := d.Dispatch(42)
	var upstream *model.UpstreamDataError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "invoice", upstream.Kind)
	assert.Equal(t, model.EInvoicePending, store.currentStatus())
}
