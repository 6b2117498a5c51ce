package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/regiepress/backoffice/internal/model"
	"github.com/regiepress/backoffice/internal/render"
	"github.com/regiepress/backoffice/internal/store"
)

var pdfOutput string

var invoicePDFCmd = &cobra.Command{
	Use:   "invoice-pdf <invoice-id>",
	Short: "Render an invoice to PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoicePDF,
}

var orderPDFCmd = &cobra.Command{
	Use:   "order-pdf <order-id>",
	Short: "Render a purchase order to PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrderPDF,
}

func init() {
	rootCmd.AddCommand(invoicePDFCmd)
	rootCmd.AddCommand(orderPDFCmd)

	invoicePDFCmd.Flags().StringVarP(&pdfOutput, "output", "o", "", "Output file (default derived from the record)")
	orderPDFCmd.Flags().StringVarP(&pdfOutput, "output", "o", "", "Output file (default derived from the record)")
}

func parseRecordID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid record id %q", arg)
	}
	return uint(id), nil
}

func loadContact(st *store.Store, id uint) *model.Contact {
	contact, err := st.Contact(id)
	if err != nil {
		logger.Debug().Uint("contact", id).Msg("no contact record, rendering without buyer identifiers")
		return nil
	}
	return contact
}

func runInvoicePDF(cmd *cobra.Command, args []string) error {
	id, err := parseRecordID(args[0])
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}

	inv, err := st.Invoice(id)
	if err != nil {
		return err
	}
	contact := loadContact(st, inv.ContactID)

	r := render.NewInvoiceRenderer(cfg.Seller, logger)
	buf, err := r.RenderToBuffer(inv, contact)
	if err != nil {
		return err
	}

	out := pdfOutput
	if out == "" {
		out = render.InvoiceFileName(inv)
	}
	if err := os.WriteFile(out, buf, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d bytes)\n", out, len(buf))
	return nil
}

func runOrderPDF(cmd *cobra.Command, args []string) error {
	id, err := parseRecordID(args[0])
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}

	o, err := st.Order(id)
	if err != nil {
		return err
	}
	contact := loadContact(st, o.ContactID)

	r := render.NewOrderRenderer(cfg.Seller, filepath.Join(cfg.StorageDir, "signatures"), logger)
	buf, err := r.RenderToBuffer(o, contact)
	if err != nil {
		return err
	}

	out := pdfOutput
	if out == "" {
		out = render.OrderFileName(o)
	}
	if err := os.WriteFile(out, buf, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d bytes)\n", out, len(buf))
	return nil
}
