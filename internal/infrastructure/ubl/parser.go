// Package ubl convierte facturas electrónicas UBL 2.1 de proveedores (DIAN) en documentos de compra.
package ubl

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/kardex-pos/internal/domain"
	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-pos/internal/domain/inventory"
)

// ParsePurchase lee un Invoice UBL (o un AttachedDocument que lo envuelve) y devuelve el documento de compra.
// Líneas con cantidad o precio ilegibles se conservan con cantidad cero: el kardex las contará como omitidas.
func ParsePurchase(r io.Reader) (entity.PurchaseDocument, error) {
	doc, err := readDocument(r)
	if err != nil {
		return entity.PurchaseDocument{}, err
	}
	root := doc.Root()
	if root == nil {
		return entity.PurchaseDocument{}, fmt.Errorf("%w: XML sin elemento raíz", domain.ErrInvalidInput)
	}

	if root.Tag == "AttachedDocument" {
		inner := text(path(root, "Attachment", "ExternalReference", "Description"))
		if inner == "" {
			return entity.PurchaseDocument{}, fmt.Errorf("%w: AttachedDocument sin factura embebida", domain.ErrInvalidInput)
		}
		doc, err = readDocument(strings.NewReader(inner))
		if err != nil {
			return entity.PurchaseDocument{}, err
		}
		root = doc.Root()
		if root == nil {
			return entity.PurchaseDocument{}, fmt.Errorf("%w: factura embebida vacía", domain.ErrInvalidInput)
		}
	}
	if root.Tag != "Invoice" {
		return entity.PurchaseDocument{}, fmt.Errorf("%w: se esperaba Invoice, se recibió %s", domain.ErrInvalidInput, root.Tag)
	}

	out := entity.PurchaseDocument{
		Identification: entity.DocumentIdentification{
			DocumentRef: text(child(root, "ID")),
			Date:        text(child(root, "IssueDate")),
		},
		Issuer: supplier(root),
	}
	for _, line := range children(root, "InvoiceLine") {
		out.Lines = append(out.Lines, invoiceLine(line))
	}
	return out, nil
}

func readDocument(r io.Reader) (*etree.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer XML: %w", err)
	}
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(bytes.TrimSpace(raw)); err != nil {
		return nil, fmt.Errorf("%w: XML inválido: %v", domain.ErrInvalidInput, err)
	}
	return doc, nil
}

// charsetReader acepta las codificaciones de facturadores antiguos además de UTF-8.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8":
		return input, nil
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("codificación no soportada: %s", label)
}

func supplier(root *etree.Element) entity.DocumentIssuer {
	party := path(root, "AccountingSupplierParty", "Party")
	if party == nil {
		return entity.DocumentIssuer{}
	}
	tax := child(party, "PartyTaxScheme")
	legal := child(party, "PartyLegalEntity")

	name := text(child(tax, "RegistrationName"))
	if name == "" {
		name = text(child(legal, "RegistrationName"))
	}
	if name == "" {
		name = text(path(party, "PartyName", "Name"))
	}
	nit := text(child(tax, "CompanyID"))
	if nit == "" {
		nit = text(child(legal, "CompanyID"))
	}
	return entity.DocumentIssuer{Name: name, TaxID: nit}
}

func invoiceLine(line *etree.Element) entity.PurchaseLine {
	item := child(line, "Item")
	code := text(path(item, "SellersItemIdentification", "ID"))
	if code == "" {
		code = text(path(item, "StandardItemIdentification", "ID"))
	}
	qty := amount(child(line, "InvoicedQuantity"))

	cost := amount(path(line, "Price", "PriceAmount"))
	if base := amount(path(line, "Price", "BaseQuantity")); base.IsPositive() && !base.Equal(decimal.NewFromInt(1)) {
		cost = cost.Div(base)
	}
	if cost.IsZero() && qty.IsPositive() {
		if total := amount(child(line, "LineExtensionAmount")); total.IsPositive() {
			cost = total.Div(qty)
		}
	}
	return entity.PurchaseLine{
		Code:        code,
		Description: text(child(item, "Description")),
		Quantity:    qty,
		UnitCost:    domaininv.Round(cost),
	}
}

// child busca el primer hijo por nombre local, ignorando el prefijo (cbc:, cac:, o sin prefijo).
func child(e *etree.Element, local string) *etree.Element {
	if e == nil {
		return nil
	}
	for _, c := range e.ChildElements() {
		if c.Tag == local {
			return c
		}
	}
	return nil
}

func children(e *etree.Element, local string) []*etree.Element {
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == local {
			out = append(out, c)
		}
	}
	return out
}

func path(e *etree.Element, locals ...string) *etree.Element {
	for _, l := range locals {
		e = child(e, l)
	}
	return e
}

func text(e *etree.Element) string {
	if e == nil {
		return ""
	}
	return strings.TrimSpace(e.Text())
}

func amount(e *etree.Element) decimal.Decimal {
	d, err := decimal.NewFromString(text(e))
	if err != nil {
		return decimal.Zero
	}
	return d
}
