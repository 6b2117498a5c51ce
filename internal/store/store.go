// Package store persists the back-office records behind gorm, on sqlite by
// default and postgres when the DSN says so.
package store

import (
	"errors"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/regiepress/backoffice/internal/model"
)

// Store wraps the database handle and the record queries the rest of the
// system needs.
type Store struct {
	db *gorm.DB
}

// Open connects to the database named by dsn and runs the schema migration.
func Open(dsn string) (*Store, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "host=") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	return s.db.AutoMigrate(
		&model.Contact{},
		&model.Invoice{},
		&model.Order{},
		&model.SupportItem{},
		&model.OrderCost{},
		&model.Magazine{},
		&model.RecurringCharge{},
		&model.Page{},
	)
}

// DB exposes the underlying handle for the CRUD handlers.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Invoice loads an invoice with its line items.
func (s *Store) Invoice(id uint) (*model.Invoice, error) {
	var inv model.Invoice
	if err := s.db.Preload("SupportList").First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NewUpstreamDataError("invoice", id)
		}
		return nil, err
	}
	return &inv, nil
}

// Order loads an order with its line items and cost breakdown.
func (s *Store) Order(id uint) (*model.Order, error) {
	var o model.Order
	if err := s.db.Preload("SupportList").Preload("Costs").First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NewUpstreamDataError("order", id)
		}
		return nil, err
	}
	return &o, nil
}

// Contact loads a contact record.
func (s *Store) Contact(id uint) (*model.Contact, error) {
	var c model.Contact
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NewUpstreamDataError("contact", id)
		}
		return nil, err
	}
	return &c, nil
}

// TransitionEInvoiceStatus performs the conditional status update guarding
// the send pipeline: the transition happens only when the stored status
// still equals from. Returns false when another caller won the race or the
// invoice is already past from.
func (s *Store) TransitionEInvoiceStatus(id uint, from, to model.EInvoiceStatus) (bool, error) {
	res := s.db.Model(&model.Invoice{}).
		Where("id = ? AND e_invoice_status = ?", id, from).
		Update("e_invoice_status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
