package ubl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/kardex-pos/internal/domain"
)

const invoiceXML = `<?xml version="1.0" encoding="UTF-8"?>
<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
  xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
  xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2">
  <cbc:ID>SETP990000123</cbc:ID>
  <cbc:IssueDate>2025-02-14</cbc:IssueDate>
  <cac:AccountingSupplierParty>
    <cac:Party>
      <cac:PartyTaxScheme>
        <cbc:RegistrationName>Distribuidora Andina S.A.S.</cbc:RegistrationName>
        <cbc:CompanyID schemeID="8" schemeName="31">900123456</cbc:CompanyID>
      </cac:PartyTaxScheme>
    </cac:Party>
  </cac:AccountingSupplierParty>
  <cac:InvoiceLine>
    <cbc:ID>1</cbc:ID>
    <cbc:InvoicedQuantity unitCode="94">12.00</cbc:InvoicedQuantity>
    <cbc:LineExtensionAmount currencyID="COP">144000.00</cbc:LineExtensionAmount>
    <cac:Item>
      <cbc:Description>Aceite de girasol 1L</cbc:Description>
      <cac:SellersItemIdentification><cbc:ID>ACE-1</cbc:ID></cac:SellersItemIdentification>
    </cac:Item>
    <cac:Price><cbc:PriceAmount currencyID="COP">12000.00</cbc:PriceAmount></cac:Price>
  </cac:InvoiceLine>
  <cac:InvoiceLine>
    <cbc:ID>2</cbc:ID>
    <cbc:InvoicedQuantity unitCode="94">3</cbc:InvoicedQuantity>
    <cbc:LineExtensionAmount currencyID="COP">10000</cbc:LineExtensionAmount>
    <cac:Item>
      <cbc:Description>Panela 500g</cbc:Description>
      <cac:StandardItemIdentification><cbc:ID schemeID="010">7701234567890</cbc:ID></cac:StandardItemIdentification>
    </cac:Item>
  </cac:InvoiceLine>
  <cac:InvoiceLine>
    <cbc:ID>3</cbc:ID>
    <cbc:InvoicedQuantity unitCode="94">2</cbc:InvoicedQuantity>
    <cac:Item><cbc:Description>Servicio de transporte</cbc:Description></cac:Item>
    <cac:Price>
      <cbc:PriceAmount currencyID="COP">5000</cbc:PriceAmount>
      <cbc:BaseQuantity unitCode="94">2</cbc:BaseQuantity>
    </cac:Price>
  </cac:InvoiceLine>
</Invoice>`

func TestParsePurchase_Invoice(t *testing.T) {
	doc, err := ParsePurchase(strings.NewReader(invoiceXML))
	require.NoError(t, err)

	assert.Equal(t, "SETP990000123", doc.Identification.DocumentRef)
	assert.Equal(t, "2025-02-14", doc.Identification.Date)
	assert.Equal(t, "Distribuidora Andina S.A.S.", doc.Issuer.Name)
	assert.Equal(t, "900123456", doc.Issuer.TaxID)

	require.Len(t, doc.Lines, 3)
	assert.Equal(t, "ACE-1", doc.Lines[0].Code)
	assert.Equal(t, "12", doc.Lines[0].Quantity.String())
	assert.Equal(t, "12000", doc.Lines[0].UnitCost.String())

	assert.Equal(t, "7701234567890", doc.Lines[1].Code)
	assert.Equal(t, "3333.333333", doc.Lines[1].UnitCost.String(), "sin Price se deriva del total de la línea")

	assert.Empty(t, doc.Lines[2].Code)
	assert.Equal(t, "Servicio de transporte", doc.Lines[2].Description)
	assert.Equal(t, "2500", doc.Lines[2].UnitCost.String())
}

func TestParsePurchase_Latin1(t *testing.T) {
	utf8 := `<?xml version="1.0" encoding="ISO-8859-1"?>
<Invoice xmlns:cbc="urn:cbc" xmlns:cac="urn:cac">
  <cbc:ID>FE-1</cbc:ID>
  <cac:InvoiceLine>
    <cbc:InvoicedQuantity>1</cbc:InvoicedQuantity>
    <cac:Item><cbc:Description>Azúcar morena año</cbc:Description></cac:Item>
    <cac:Price><cbc:PriceAmount>10</cbc:PriceAmount></cac:Price>
  </cac:InvoiceLine>
</Invoice>`
	var latin1 bytes.Buffer
	w := charmap.ISO8859_1.NewEncoder().Writer(&latin1)
	_, err := w.Write([]byte(utf8))
	require.NoError(t, err)

	doc, err := ParsePurchase(&latin1)
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "Azúcar morena año", doc.Lines[0].Description)
}

func TestParsePurchase_AttachedDocument(t *testing.T) {
	wrapped := `<?xml version="1.0" encoding="UTF-8"?>
<AttachedDocument xmlns:cac="urn:cac" xmlns:cbc="urn:cbc">
  <cbc:ID>AD-1</cbc:ID>
  <cac:Attachment>
    <cac:ExternalReference>
      <cbc:MimeCode>text/xml</cbc:MimeCode>
      <cbc:Description><![CDATA[` + invoiceXML + `]]></cbc:Description>
    </cac:ExternalReference>
  </cac:Attachment>
</AttachedDocument>`

	doc, err := ParsePurchase(strings.NewReader(wrapped))
	require.NoError(t, err)
	assert.Equal(t, "SETP990000123", doc.Identification.DocumentRef)
	assert.Len(t, doc.Lines, 3)
}

func TestParsePurchase_Rejects(t *testing.T) {
	_, err := ParsePurchase(strings.NewReader("no es xml <"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ParsePurchase(strings.NewReader(`<CreditNote><ID>NC-1</ID></CreditNote>`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
