package facturx_test

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regiepress/backoffice/internal/config"
	"github.com/regiepress/backoffice/internal/facturx"
	"github.com/regiepress/backoffice/internal/model"
	"github.com/regiepress/backoffice/internal/render"
)

func seller() config.Seller {
	return config.Seller{
		Name:       "Régie Presse SARL",
		SIRET:      "12345678901234",
		NumTVA:     "FR32123456789",
		Address:    "10 rue de la République",
		PostalCode: "69001",
		City:       "Lyon",
		Country:    "FR",
	}
}

func invoice() *model.Invoice {
	return &model.Invoice{
		Number:       2024,
		Date:         time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Entreprise:   "Acme SARL",
		FirstAddress: "1 avenue des Champs",
		PostalCode:   "75008",
		City:         "Paris",
		TVA:          0.20,
		SupportList: []model.SupportItem{
			{Name: "Encart 1/2 page", SupportName: "Le Mag", SupportNumber: "42", Price: 450},
			{Name: "Encart 1/4 page", SupportName: "Le Mag", SupportNumber: "42", Price: 250},
		},
	}
}

func contact() *model.Contact {
	return &model.Contact{
		Company: "Acme SARL",
		SIRET:   "98765432109876",
		NumTVA:  "FR12987654321",
		Country: "FR",
	}
}

func TestNormalize(t *testing.T) {
	p, err := facturx.Normalize(invoice(), contact(), seller())
	require.NoError(t, err)

	assert.Equal(t, 2024, p.InvoiceNumber)
	assert.Equal(t, "12345678901234", p.Seller.SIRET)
	assert.Equal(t, "98765432109876", p.Buyer.SIRET)
	assert.Equal(t, "Acme SARL", p.Buyer.Name)

	require.Len(t, p.Items, 2)
	assert.Equal(t, facturx.DefaultUnitCode, p.Items[0].UnitCode)
	assert.Equal(t, facturx.DefaultVATCategory, p.Items[0].VATCategoryCode)
	// Stored ratio 0.20 becomes percent 20.
	assert.True(t, p.Items[0].VATRate.Equal(decimal.NewFromInt(20)))

	assert.Equal(t, "700.00", p.Totals.Net.StringFixed(2))
	assert.Equal(t, "140.00", p.Totals.VAT.StringFixed(2))
	assert.Equal(t, "840.00", p.Totals.Gross.StringFixed(2))
}

func TestNormalize_AggregatesEveryMissingField(t *testing.T) {
	s := seller()
	s.SIRET = ""
	s.NumTVA = ""
	c := contact()
	c.SIRET = ""
	c.NumTVA = ""

	_, err := facturx.Normalize(invoice(), c, s)
	require.Error(t, err)

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{
		"seller.siret", "seller.vatNumber", "buyer.siret", "buyer.vatNumber",
	}, verr.Fields)

	msg := err.Error()
	for _, f := range verr.Fields {
		assert.Contains(t, msg, f, "message must enumerate every missing field")
	}
}

func TestNormalize_SingleMissingField(t *testing.T) {
	c := contact()
	c.NumTVA = ""

	_, err := facturx.Normalize(invoice(), c, seller())
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"buyer.vatNumber"}, verr.Fields)
}

func TestGenerateXML_WellFormed(t *testing.T) {
	p, err := facturx.Normalize(invoice(), contact(), seller())
	require.NoError(t, err)

	out, err := facturx.GenerateXML(p)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte(`<?xml version="1.0" encoding="UTF-8"?>`)))

	dec := xml.NewDecoder(bytes.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error(), "output must be well-formed XML")
			break
		}
	}
}

func TestGenerateXML_ElementOrdering(t *testing.T) {
	p, err := facturx.Normalize(invoice(), contact(), seller())
	require.NoError(t, err)
	out, err := facturx.GenerateXML(p)
	require.NoError(t, err)

	s := string(out)
	order := []string{
		"<rsm:ExchangedDocumentContext>",
		"urn:factur-x.eu:1p0:minimum",
		"<rsm:ExchangedDocument>",
		"<ram:TypeCode>380</ram:TypeCode>",
		"<rsm:SupplyChainTradeTransaction>",
		"<ram:IncludedSupplyChainTradeLineItem>",
		"<ram:ApplicableHeaderTradeAgreement>",
		"<ram:SellerTradeParty>",
		"<ram:BuyerTradeParty>",
		"<ram:ApplicableHeaderTradeDelivery>",
		"<ram:ApplicableHeaderTradeSettlement>",
		"<ram:SpecifiedTradeSettlementHeaderMonetarySummation>",
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(s, marker)
		require.GreaterOrEqual(t, idx, 0, "missing %s", marker)
		assert.Greater(t, idx, last, "%s out of order", marker)
		last = idx
	}

	assert.Contains(t, s, `<udt:DateTimeString format="102">20240120</udt:DateTimeString>`)
	assert.Contains(t, s, `schemeID="0002"`)
	assert.Contains(t, s, `schemeID="VA"`)
	assert.Contains(t, s, `<ram:TaxTotalAmount currencyID="EUR">140.00</ram:TaxTotalAmount>`)
}

// Header tax aggregates open with CalculatedAmount; line-level taxes open
// with TypeCode. That distinguishes the two uses of ApplicableTradeTax.
func headerTaxCount(out []byte) int {
	return bytes.Count(out, []byte("<ram:ApplicableTradeTax><ram:CalculatedAmount>"))
}

func TestGenerateXML_OneTaxAggregatePerRate(t *testing.T) {
	p, err := facturx.Normalize(invoice(), contact(), seller())
	require.NoError(t, err)
	out, err := facturx.GenerateXML(p)
	require.NoError(t, err)
	assert.Equal(t, 1, headerTaxCount(out))

	// Force two distinct per-line rates: the XML layer groups by rate even
	// though projection totals assume a single aggregate rate.
	p.Items[1].VATRate = decimal.NewFromFloat(5.5)
	out, err = facturx.GenerateXML(p)
	require.NoError(t, err)
	assert.Equal(t, 2, headerTaxCount(out))
	assert.Contains(t, string(out), "<ram:RateApplicablePercent>5.50</ram:RateApplicablePercent>")
}

func TestGenerateXML_Deterministic(t *testing.T) {
	a, err := facturx.Normalize(invoice(), contact(), seller())
	require.NoError(t, err)
	b, err := facturx.Normalize(invoice(), contact(), seller())
	require.NoError(t, err)

	outA, err := facturx.GenerateXML(a)
	require.NoError(t, err)
	outB, err := facturx.GenerateXML(b)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(outA, outB), "identical inputs must serialize byte-identically")
}

func TestGenerator_Generate(t *testing.T) {
	g := facturx.NewGenerator(seller(), zerolog.Nop())

	buf, err := g.Generate(invoice(), contact())
	require.NoError(t, err)
	require.NotEmpty(t, buf)

	assert.True(t, bytes.HasPrefix(buf, []byte("%PDF-")))
	assert.Contains(t, string(buf), facturx.AttachmentName)
}

func TestGenerator_Generate_FailsOnMissingIdentifiers(t *testing.T) {
	c := contact()
	c.SIRET = ""
	g := facturx.NewGenerator(seller(), zerolog.Nop())

	buf, err := g.Generate(invoice(), c)
	require.Error(t, err)
	assert.Nil(t, buf, "no partial output on failure")
}

func TestGenerator_Generate_DeclaresAssociatedFile(t *testing.T) {
	g := facturx.NewGenerator(seller(), zerolog.Nop())

	hybrid, err := g.Generate(invoice(), contact())
	require.NoError(t, err)

	s := string(hybrid)
	assert.Contains(t, s, "/AFRelationship/Data", "file specification must carry the Data relationship")
	assert.Contains(t, s, "/Subtype/application#2Fxml", "embedded stream must declare the XML subtype")
}

func TestInspect_RejectsBareAttachment(t *testing.T) {
	p, err := facturx.Normalize(invoice(), contact(), seller())
	require.NoError(t, err)
	xmlDoc, err := facturx.GenerateXML(p)
	require.NoError(t, err)

	// Embedding without the association pass yields a plain Filespec with no
	// relationship and no subtype. Inspect must refuse it.
	bare, err := render.NewInvoiceRenderer(seller(), zerolog.Nop()).
		RenderWithAttachments(invoice(), contact(), []render.Attachment{
			{Content: xmlDoc, Filename: facturx.AttachmentName, Description: "Factur-X"},
		})
	require.NoError(t, err)
	assert.Error(t, facturx.Inspect(bare))
}

func TestInspect(t *testing.T) {
	g := facturx.NewGenerator(seller(), zerolog.Nop())

	hybrid, err := g.Generate(invoice(), contact())
	require.NoError(t, err)
	require.NoError(t, facturx.Inspect(hybrid))

	// A plain visual invoice carries no factur-x.xml and must be rejected.
	plain, err := render.NewInvoiceRenderer(seller(), zerolog.Nop()).RenderToBuffer(invoice(), contact())
	require.NoError(t, err)
	assert.Error(t, facturx.Inspect(plain))
}
