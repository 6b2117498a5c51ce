// Package facturx builds EN16931 "minimum" guideline hybrid e-invoices:
// a canonical projection of the stored invoice, its UN/CEFACT Cross
// Industry Invoice XML rendition, and the final PDF carrying that XML as
// an embedded file.
package facturx

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/regiepress/backoffice/internal/config"
	"github.com/regiepress/backoffice/internal/model"
	"github.com/regiepress/backoffice/internal/money"
)

// Default codes for every projected line: UN/ECE rec 20 "unit" and the
// standard VAT category.
const (
	DefaultUnitCode    = "C62"
	DefaultVATCategory = "S"
)

// Party is one side of the trade: seller or buyer.
type Party struct {
	Name       string
	SIRET      string
	VATNumber  string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// LineItem is one projected invoice line. Ordering is meaningful: the XML
// line numbering follows input order.
type LineItem struct {
	Name            string
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	VATRate         decimal.Decimal
	VATCategoryCode string
	UnitCode        string
}

// Totals are derived from the item sum at the single aggregate VAT rate.
// Per-line rates still flow into the XML tax breakdown; the summary totals
// assume one rate per invoice.
type Totals struct {
	Net   decimal.Decimal
	VAT   decimal.Decimal
	Gross decimal.Decimal
}

// Projection is the canonical invoice structure fed to the XML generator.
type Projection struct {
	InvoiceNumber int
	IssueDate     time.Time
	Seller        Party
	Buyer         Party
	Items         []LineItem
	Totals        Totals
}

// Normalize maps a stored invoice and its contact into the canonical
// projection. Seller identity comes from process configuration, buyer
// identity from the contact record. Every missing required tax identifier
// is reported in one aggregated ValidationError, never just the first.
func Normalize(inv *model.Invoice, contact *model.Contact, seller config.Seller) (*Projection, error) {
	var missing []string
	if seller.SIRET == "" {
		missing = append(missing, "seller.siret")
	}
	if seller.NumTVA == "" {
		missing = append(missing, "seller.vatNumber")
	}
	if contact == nil || contact.SIRET == "" {
		missing = append(missing, "buyer.siret")
	}
	if contact == nil || contact.NumTVA == "" {
		missing = append(missing, "buyer.vatNumber")
	}
	if len(missing) > 0 {
		return nil, model.NewValidationError(missing...)
	}

	rate := money.RatioToPercent(inv.TVA)
	items := make([]LineItem, 0, len(inv.SupportList))
	for _, it := range inv.SupportList {
		items = append(items, LineItem{
			Name:            it.Name,
			Description:     it.Description,
			Quantity:        decimal.NewFromInt(1),
			UnitPrice:       money.FromFloat(it.Price),
			VATRate:         rate,
			VATCategoryCode: DefaultVATCategory,
			UnitCode:        DefaultUnitCode,
		})
	}

	net := money.Zero
	for _, it := range items {
		net = net.Add(it.UnitPrice.Mul(it.Quantity))
	}
	vat := money.VAT(net, rate)

	return &Projection{
		InvoiceNumber: inv.Number,
		IssueDate:     inv.Date,
		Seller: Party{
			Name:       seller.Name,
			SIRET:      seller.SIRET,
			VATNumber:  seller.NumTVA,
			Address:    seller.Address,
			City:       seller.City,
			PostalCode: seller.PostalCode,
			Country:    countryOrDefault(seller.Country),
		},
		Buyer: Party{
			Name:       inv.Entreprise,
			SIRET:      contact.SIRET,
			VATNumber:  contact.NumTVA,
			Address:    inv.FirstAddress,
			City:       inv.City,
			PostalCode: inv.PostalCode,
			Country:    countryOrDefault(contact.Country),
		},
		Items: items,
		Totals: Totals{
			Net:   net,
			VAT:   vat,
			Gross: net.Add(vat),
		},
	}, nil
}

func countryOrDefault(c string) string {
	if c == "" {
		return "FR"
	}
	return c
}
