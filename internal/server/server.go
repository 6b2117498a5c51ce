// Package server exposes the back-office HTTP API: record CRUD, PDF
// downloads and the Factur-X send endpoint.
package server

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/regiepress/backoffice/internal/config"
	"github.com/regiepress/backoffice/internal/dispatch"
	"github.com/regiepress/backoffice/internal/facturx"
	"github.com/regiepress/backoffice/internal/model"
	"github.com/regiepress/backoffice/internal/render"
	"github.com/regiepress/backoffice/internal/store"
)

// Config holds server configuration.
type Config struct {
	Address      string
	StorageDir   string
	AdminKeys    []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
	Seller       config.Seller
}

// Server is the HTTP API server.
type Server struct {
	config     *Config
	router     *gin.Engine
	store      *store.Store
	invoices   *render.InvoiceRenderer
	orders     *render.OrderRenderer
	dispatcher *dispatch.Dispatcher
	logger     zerolog.Logger
}

// NewServer creates the API server and wires its routes.
func NewServer(cfg *Config, st *store.Store, logger zerolog.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Debug {
		router.Use(gin.Logger())
	}

	gen := facturx.NewGenerator(cfg.Seller, logger)
	dispatcher := dispatch.New(st, gen, filepath.Join(cfg.StorageDir, "einvoices"), logger)

	s := &Server{
		config:     cfg,
		router:     router,
		store:      st,
		invoices:   render.NewInvoiceRenderer(cfg.Seller, logger),
		orders:     render.NewOrderRenderer(cfg.Seller, filepath.Join(cfg.StorageDir, "signatures"), logger),
		dispatcher: dispatcher,
		logger:     logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	admin := s.requireAdmin()
	db := s.store.DB()

	v1 := s.router.Group("/api/v1")
	{
		registerResource[model.Contact](v1, admin, "/contacts", db, resourceOptions{})
		registerResource[model.Invoice](v1, admin, "/invoices", db, resourceOptions{
			preloads: []string{"SupportList"},
		})
		registerResource[model.Order](v1, admin, "/orders", db, resourceOptions{
			preloads:       []string{"SupportList", "Costs"},
			createOverride: s.handleCreateOrder,
		})
		registerResource[model.Magazine](v1, admin, "/magazines", db, resourceOptions{})
		registerResource[model.RecurringCharge](v1, admin, "/charges", db, resourceOptions{})
		registerResource[model.Page](v1, admin, "/pages", db, resourceOptions{})

		v1.GET("/invoices/:id/pdf", s.handleInvoicePDF)
		v1.GET("/orders/:id/pdf", s.handleOrderPDF)
		v1.POST("/invoices/:id/einvoice", admin, s.handleSendEInvoice)
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Wait blocks until background e-invoice generations finish.
func (s *Server) Wait() {
	s.dispatcher.Wait()
}

// requireAdmin gates mutations behind the configured API keys. With no
// keys configured (development) everything is open.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(s.config.AdminKeys) == 0 {
			c.Next()
			return
		}
		key := c.GetHeader("X-API-Key")
		for _, k := range s.config.AdminKeys {
			if key == k {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin API key required"})
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
