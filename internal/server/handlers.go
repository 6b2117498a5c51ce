package server

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/regiepress/backoffice/internal/dispatch"
	"github.com/regiepress/backoffice/internal/model"
	"github.com/regiepress/backoffice/internal/render"
)

// handleInvoicePDF serves the stored invoice PDF, regenerating it when the
// file is missing from storage.
func (s *Server) handleInvoicePDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inv, err := s.store.Invoice(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	contact, _ := s.store.Contact(inv.ContactID)

	dir := filepath.Join(s.config.StorageDir, "invoices")
	path := filepath.Join(dir, render.InvoiceFileName(inv))
	if _, err := os.Stat(path); err != nil {
		path, err = s.invoices.RenderAndPersist(inv, contact, dir)
		if err != nil {
			s.logger.Error().Err(err).Uint("invoice", inv.ID).Msg("invoice render failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render invoice"})
			return
		}
	}

	c.Header("Content-Disposition", `attachment; filename="`+render.InvoiceFileName(inv)+`"`)
	c.File(path)
}

// handleOrderPDF renders the purchase order on demand.
func (s *Server) handleOrderPDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	o, err := s.store.Order(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	contact, _ := s.store.Contact(o.ContactID)

	buf, err := s.orders.RenderToBuffer(o, contact)
	if err != nil {
		s.logger.Error().Err(err).Uint("order", o.ID).Msg("order render failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render order"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+render.OrderFileName(o)+`"`)
	c.Data(http.StatusOK, "application/pdf", buf)
}

// handleSendEInvoice claims the invoice for Factur-X generation. Completion
// is asynchronous; callers poll the invoice's eInvoiceStatus.
func (s *Server) handleSendEInvoice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := s.dispatcher.Dispatch(id)
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, gin.H{"status": string(model.EInvoiceProcessing)})
	case errors.Is(err, dispatch.ErrNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": "e-invoice already dispatched"})
	default:
		var upstream *model.UpstreamDataError
		if errors.As(err, &upstream) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// handleCreateOrder creates an order, storing an optional signature image
// under a random name. The file write does not block the response.
func (s *Server) handleCreateOrder(c *gin.Context) {
	var payload struct {
		model.Order
		SignatureData string `json:"signatureData,omitempty"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := payload.Order
	if payload.SignatureData != "" {
		png, err := decodeSignature(payload.SignatureData)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature image"})
			return
		}
		name := randomName() + ".png"
		order.Signature = name
		dir := filepath.Join(s.config.StorageDir, "signatures")
		go func() {
			if err := os.MkdirAll(dir, 0o755); err == nil {
				err = os.WriteFile(filepath.Join(dir, name), png, 0o644)
			}
			if err != nil {
				s.logger.Error().Err(err).Str("file", name).Msg("could not store signature")
			}
		}()
	}

	if err := s.store.DB().Create(&order).Error; err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, order)
}

// decodeSignature accepts raw base64 or a data URL.
func decodeSignature(data string) ([]byte, error) {
	if i := strings.Index(data, ";base64,"); i >= 0 {
		data = data[i+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(data)
}

func randomName() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
