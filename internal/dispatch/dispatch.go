// Package dispatch runs the e-invoice send pipeline: claim an invoice,
// build its Factur-X document in the background and record the outcome.
package dispatch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/regiepress/backoffice/internal/model"
)

// ErrNotPending is returned when the invoice was already claimed by an
// earlier dispatch, or has already reached a terminal status.
var ErrNotPending = errors.New("dispatch: invoice is not pending")

// Store is the persistence surface the dispatcher needs.
type Store interface {
	Invoice(id uint) (*model.Invoice, error)
	Contact(id uint) (*model.Contact, error)
	TransitionEInvoiceStatus(id uint, from, to model.EInvoiceStatus) (bool, error)
}

// Generator builds the hybrid Factur-X PDF for an invoice.
type Generator interface {
	Generate(inv *model.Invoice, contact *model.Contact) ([]byte, error)
}

// Dispatcher coordinates the pipeline. The synchronous phase loads the
// records and claims the invoice; generation and persistence run in a
// background goroutine.
type Dispatcher struct {
	store  Store
	gen    Generator
	dir    string
	logger zerolog.Logger

	wg sync.WaitGroup
}

// New creates a dispatcher writing finished documents under dir.
func New(store Store, gen Generator, dir string, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		gen:    gen,
		dir:    dir,
		logger: logger,
	}
}

// Dispatch claims invoice id for sending and starts the background
// generation. It returns once the claim is recorded; callers learn the
// final outcome from the invoice's e-invoice status.
func (d *Dispatcher) Dispatch(id uint) error {
	inv, err := d.store.Invoice(id)
	if err != nil {
		return err
	}
	contact, err := d.store.Contact(inv.ContactID)
	if err != nil {
		return err
	}

	ok, err := d.store.TransitionEInvoiceStatus(id, model.EInvoicePending, model.EInvoiceProcessing)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotPending
	}

	d.wg.Add(1)
	go d.run(inv, contact)
	return nil
}

// Wait blocks until all in-flight generations finish. Used by shutdown
// and by tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(inv *model.Invoice, contact *model.Contact) {
	defer d.wg.Done()

	buf, err := d.gen.Generate(inv, contact)
	if err != nil {
		d.reject(inv, err)
		return
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		d.reject(inv, err)
		return
	}
	path := filepath.Join(d.dir, fmt.Sprintf("facture-%d-facturx.pdf", inv.Number))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		d.reject(inv, err)
		return
	}

	ok, err := d.store.TransitionEInvoiceStatus(inv.ID, model.EInvoiceProcessing, model.EInvoiceSent)
	if err != nil || !ok {
		d.logger.Error().Err(err).Uint("invoice", inv.ID).Msg("could not record sent status")
		return
	}
	d.logger.Info().Uint("invoice", inv.ID).Str("path", path).Msg("e-invoice generated")
}

func (d *Dispatcher) reject(inv *model.Invoice, cause error) {
	d.logger.Error().Err(cause).Uint("invoice", inv.ID).Msg("e-invoice generation failed")
	if _, err := d.store.TransitionEInvoiceStatus(inv.ID, model.EInvoiceProcessing, model.EInvoiceRejected); err != nil {
		d.logger.Error().Err(err).Uint("invoice", inv.ID).Msg("could not record rejected status")
	}
}
