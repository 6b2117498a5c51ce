package facturx

import (
	"encoding/xml"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/regiepress/backoffice/internal/money"
)

// EN16931 "minimum" guideline identifier carried in the document context.
const guidelineID = "urn:factur-x.eu:1p0:minimum"

// UN/CEFACT namespaces for the Cross Industry Invoice schema.
const (
	nsRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	nsRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	nsUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
)

// Element ordering below follows the CII schema: document context, exchanged
// document, per-line trade items, header trade agreement, header trade
// delivery (empty), header trade settlement. Conformant readers may reject
// out-of-order or missing mandatory elements; struct field order is the
// serialization order.

type ciiInvoice struct {
	XMLName  xml.Name `xml:"rsm:CrossIndustryInvoice"`
	XmlnsRSM string   `xml:"xmlns:rsm,attr"`
	XmlnsRAM string   `xml:"xmlns:ram,attr"`
	XmlnsUDT string   `xml:"xmlns:udt,attr"`

	Context     ciiContext     `xml:"rsm:ExchangedDocumentContext"`
	Document    ciiDocument    `xml:"rsm:ExchangedDocument"`
	Transaction ciiTransaction `xml:"rsm:SupplyChainTradeTransaction"`
}

type ciiContext struct {
	Guideline ciiID `xml:"ram:GuidelineSpecifiedDocumentContextParameter"`
}

type ciiID struct {
	ID string `xml:"ram:ID"`
}

type ciiDocument struct {
	ID       string      `xml:"ram:ID"`
	TypeCode string      `xml:"ram:TypeCode"`
	Issue    ciiDateTime `xml:"ram:IssueDateTime"`
}

type ciiDateTime struct {
	DateTimeString ciiDateString `xml:"udt:DateTimeString"`
}

type ciiDateString struct {
	Format string `xml:"format,attr"`
	Value  string `xml:",chardata"`
}

type ciiTransaction struct {
	LineItems  []ciiLineItem `xml:"ram:IncludedSupplyChainTradeLineItem"`
	Agreement  ciiAgreement  `xml:"ram:ApplicableHeaderTradeAgreement"`
	Delivery   ciiDelivery   `xml:"ram:ApplicableHeaderTradeDelivery"`
	Settlement ciiSettlement `xml:"ram:ApplicableHeaderTradeSettlement"`
}

type ciiLineItem struct {
	LineDoc    ciiLineDoc        `xml:"ram:AssociatedDocumentLineDocument"`
	Product    ciiProduct        `xml:"ram:SpecifiedTradeProduct"`
	Agreement  ciiLineAgreement  `xml:"ram:SpecifiedLineTradeAgreement"`
	Delivery   ciiLineDelivery   `xml:"ram:SpecifiedLineTradeDelivery"`
	Settlement ciiLineSettlement `xml:"ram:SpecifiedLineTradeSettlement"`
}

type ciiLineDoc struct {
	LineID string `xml:"ram:LineID"`
}

type ciiProduct struct {
	Name        string `xml:"ram:Name"`
	Description string `xml:"ram:Description,omitempty"`
}

type ciiLineAgreement struct {
	NetPrice ciiPrice `xml:"ram:NetPriceProductTradePrice"`
}

type ciiPrice struct {
	ChargeAmount string `xml:"ram:ChargeAmount"`
}

type ciiLineDelivery struct {
	BilledQuantity ciiQuantity `xml:"ram:BilledQuantity"`
}

type ciiQuantity struct {
	UnitCode string `xml:"unitCode,attr"`
	Value    string `xml:",chardata"`
}

type ciiLineSettlement struct {
	Tax       ciiLineTax       `xml:"ram:ApplicableTradeTax"`
	Summation ciiLineSummation `xml:"ram:SpecifiedTradeSettlementLineMonetarySummation"`
}

type ciiLineTax struct {
	TypeCode     string `xml:"ram:TypeCode"`
	CategoryCode string `xml:"ram:CategoryCode"`
	RatePercent  string `xml:"ram:RateApplicablePercent"`
}

type ciiLineSummation struct {
	LineTotalAmount string `xml:"ram:LineTotalAmount"`
}

type ciiAgreement struct {
	Seller ciiParty `xml:"ram:SellerTradeParty"`
	Buyer  ciiParty `xml:"ram:BuyerTradeParty"`
}

type ciiParty struct {
	Name            string      `xml:"ram:Name"`
	Legal           ciiLegalOrg `xml:"ram:SpecifiedLegalOrganization"`
	Address         ciiAddress  `xml:"ram:PostalTradeAddress"`
	TaxRegistration ciiTaxReg   `xml:"ram:SpecifiedTaxRegistration"`
}

type ciiLegalOrg struct {
	ID ciiSchemeID `xml:"ram:ID"`
}

type ciiSchemeID struct {
	SchemeID string `xml:"schemeID,attr"`
	Value    string `xml:",chardata"`
}

type ciiAddress struct {
	PostcodeCode string `xml:"ram:PostcodeCode,omitempty"`
	LineOne      string `xml:"ram:LineOne,omitempty"`
	CityName     string `xml:"ram:CityName,omitempty"`
	CountryID    string `xml:"ram:CountryID"`
}

type ciiTaxReg struct {
	ID ciiSchemeID `xml:"ram:ID"`
}

type ciiDelivery struct{}

type ciiSettlement struct {
	CurrencyCode string         `xml:"ram:InvoiceCurrencyCode"`
	Taxes        []ciiHeaderTax `xml:"ram:ApplicableTradeTax"`
	Summation    ciiSummation   `xml:"ram:SpecifiedTradeSettlementHeaderMonetarySummation"`
}

type ciiHeaderTax struct {
	CalculatedAmount string `xml:"ram:CalculatedAmount"`
	TypeCode         string `xml:"ram:TypeCode"`
	BasisAmount      string `xml:"ram:BasisAmount"`
	CategoryCode     string `xml:"ram:CategoryCode"`
	RatePercent      string `xml:"ram:RateApplicablePercent"`
}

type ciiSummation struct {
	LineTotal     string            `xml:"ram:LineTotalAmount"`
	TaxBasisTotal string            `xml:"ram:TaxBasisTotalAmount"`
	TaxTotal      ciiCurrencyAmount `xml:"ram:TaxTotalAmount"`
	GrandTotal    string            `xml:"ram:GrandTotalAmount"`
	DuePayable    string            `xml:"ram:DuePayableAmount"`
}

type ciiCurrencyAmount struct {
	CurrencyID string `xml:"currencyID,attr"`
	Value      string `xml:",chardata"`
}

// GenerateXML serializes the projection into the CII wire format: UTF-8,
// not pretty-printed, deterministic for identical inputs.
func GenerateXML(p *Projection) ([]byte, error) {
	doc := ciiInvoice{
		XmlnsRSM: nsRSM,
		XmlnsRAM: nsRAM,
		XmlnsUDT: nsUDT,
		Context: ciiContext{
			Guideline: ciiID{ID: guidelineID},
		},
		Document: ciiDocument{
			ID:       fmt.Sprintf("%d", p.InvoiceNumber),
			TypeCode: "380",
			Issue: ciiDateTime{
				DateTimeString: ciiDateString{Format: "102", Value: p.IssueDate.Format("20060102")},
			},
		},
		Transaction: ciiTransaction{
			Agreement: ciiAgreement{
				Seller: partyXML(p.Seller),
				Buyer:  partyXML(p.Buyer),
			},
			Settlement: ciiSettlement{
				CurrencyCode: "EUR",
				Taxes:        taxBreakdown(p.Items),
				Summation: ciiSummation{
					LineTotal:     money.Amount(p.Totals.Net),
					TaxBasisTotal: money.Amount(p.Totals.Net),
					TaxTotal:      ciiCurrencyAmount{CurrencyID: "EUR", Value: money.Amount(p.Totals.VAT)},
					GrandTotal:    money.Amount(p.Totals.Gross),
					DuePayable:    money.Amount(p.Totals.Gross),
				},
			},
		},
	}

	for i, it := range p.Items {
		lineTotal := it.UnitPrice.Mul(it.Quantity).Round(2)
		doc.Transaction.LineItems = append(doc.Transaction.LineItems, ciiLineItem{
			LineDoc: ciiLineDoc{LineID: fmt.Sprintf("%d", i+1)},
			Product: ciiProduct{Name: it.Name, Description: it.Description},
			Agreement: ciiLineAgreement{
				NetPrice: ciiPrice{ChargeAmount: money.Amount(it.UnitPrice)},
			},
			Delivery: ciiLineDelivery{
				BilledQuantity: ciiQuantity{UnitCode: it.UnitCode, Value: money.Amount(it.Quantity)},
			},
			Settlement: ciiLineSettlement{
				Tax: ciiLineTax{
					TypeCode:     "VAT",
					CategoryCode: it.VATCategoryCode,
					RatePercent:  money.Amount(it.VATRate),
				},
				Summation: ciiLineSummation{LineTotalAmount: money.Amount(lineTotal)},
			},
		})
	}

	out, err := xml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

func partyXML(p Party) ciiParty {
	return ciiParty{
		Name:  p.Name,
		Legal: ciiLegalOrg{ID: ciiSchemeID{SchemeID: "0002", Value: p.SIRET}},
		Address: ciiAddress{
			PostcodeCode: p.PostalCode,
			LineOne:      p.Address,
			CityName:     p.City,
			CountryID:    p.Country,
		},
		TaxRegistration: ciiTaxReg{ID: ciiSchemeID{SchemeID: "VA", Value: p.VATNumber}},
	}
}

// taxBreakdown groups lines by VAT rate, preserving first-seen rate order,
// and emits one aggregate per distinct rate with summed basis and computed
// tax. Independent of the projection-level single-rate totals: multiple
// rates are supported at the XML layer.
func taxBreakdown(items []LineItem) []ciiHeaderTax {
	type group struct {
		rate  decimal.Decimal
		basis decimal.Decimal
	}
	var groups []*group
	for _, it := range items {
		basis := it.UnitPrice.Mul(it.Quantity).Round(2)
		var g *group
		for _, cand := range groups {
			if cand.rate.Equal(it.VATRate) {
				g = cand
				break
			}
		}
		if g == nil {
			g = &group{rate: it.VATRate}
			groups = append(groups, g)
		}
		g.basis = g.basis.Add(basis)
	}

	out := make([]ciiHeaderTax, 0, len(groups))
	for _, g := range groups {
		out = append(out, ciiHeaderTax{
			CalculatedAmount: money.Amount(money.VAT(g.basis, g.rate)),
			TypeCode:         "VAT",
			BasisAmount:      money.Amount(g.basis),
			CategoryCode:     DefaultVATCategory,
			RatePercent:      money.Amount(g.rate),
		})
	}
	return out
}
