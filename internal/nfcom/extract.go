// Package nfcom extracts a normalized record from an NFCom invoice XML.
// Field extraction is best-effort: invoice generators disagree on which tag
// carries a given fact, so most lookups try an ordered list of candidate
// paths and fall back to empty values instead of failing the file.
package nfcom

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/brl"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/xmlutil"
)

// Extract parses one NFCom XML document into an InvoiceRecord. The only
// hard requirement is the infNFCom container; everything else degrades to
// empty or zero values.
func Extract(data []byte) (*domain.InvoiceRecord, error) {
	root, err := xmlutil.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read invoice: %w", err)
	}

	inf := root.Find("infNFCom")
	if inf == nil {
		return nil, domain.ErrInvoiceBodyMissing
	}

	rec := &domain.InvoiceRecord{
		Number:    inf.FirstText("ide/nNF", "nNF"),
		Series:    inf.FirstText("ide/serie", "serie"),
		AccessKey: inf.FirstText("chNFCom", "chNFe", "chNF"),
	}
	if rec.AccessKey == "" {
		rec.AccessKey = strings.TrimPrefix(inf.FirstText("@Id"), "NFCom")
	}

	rec.IssuedAt = inf.FirstText("ide/dhEmi", "dhEmi", "dEmi")
	rec.IssuedAtFmt = FormatDate(rec.IssuedAt)

	rec.Protocol = root.FirstText("protNFCom/infProt/nProt", "nProt")
	rec.ProtocolDate = FormatDate(root.FirstText("protNFCom/infProt/dhRecbto", "dhRecbto"))

	rec.TaxpayerInd = inf.FirstText("indIEDest", "indContrib", "contribuinte")
	rec.Reference = inf.FirstText("mesRef", "dRef", "competencia", "ref")
	rec.DueDate = inf.FirstText("dVenc", "dhVenc", "dVcto", "venc")

	rec.Emitter = extractParty(inf.Find("emit"), inf.Find("enderEmit"))
	rec.Emitter.TradeName = inf.FirstText("emit/xFant")
	rec.Recipient = extractParty(inf.Find("dest"), inf.Find("enderDest"))

	rec.Totals = extractTotals(inf)
	rec.Items = extractItems(inf)
	return rec, nil
}

func extractParty(party, addr *xmlutil.Node) domain.Party {
	p := domain.Party{
		Name:     party.FirstText("xNome"),
		TaxID:    party.FirstText("CNPJ", "CPF"),
		StateReg: party.FirstText("IE"),
	}
	p.AddressLine1, p.AddressLine2 = formatAddress(addr)
	return p
}

// formatAddress builds the two-line rendering: "street, number, district"
// and "city - state  CEP: zip".
func formatAddress(addr *xmlutil.Node) (string, string) {
	if addr == nil {
		return "", ""
	}
	line1 := joinNonEmpty(", ",
		addr.FirstText("xLgr"),
		addr.FirstText("nro"),
		addr.FirstText("xBairro"),
	)
	line2 := joinNonEmpty(" - ",
		addr.FirstText("xMun"),
		addr.FirstText("UF"),
	)
	if cep := addr.FirstText("CEP"); cep != "" {
		if line2 != "" {
			line2 += "  CEP: " + cep
		} else {
			line2 = "CEP: " + cep
		}
	}
	return line1, line2
}

func extractTotals(inf *xmlutil.Node) domain.Totals {
	total := inf.Find("total")

	t := domain.Totals{
		Products: brl.ParseDecimal(total.FirstText("vProd")),
		Discount: brl.ParseDecimal(total.FirstText("vDesc")),
		Other:    brl.ParseDecimal(total.FirstText("vOutro")),
		Net:      brl.ParseDecimal(total.FirstText("vNF")),
	}
	t.ProductsFmt = brl.FormatCurrency(t.Products)
	t.DiscountFmt = brl.FormatCurrency(t.Discount)
	t.OtherFmt = brl.FormatCurrency(t.Other)
	t.NetFmt = brl.FormatCurrency(t.Net)

	icms := total.Find("ICMSTot")
	t.Taxes = domain.TaxTotals{
		Base:       brl.ParseDecimal(icms.FirstText("vBC")),
		ICMS:       brl.ParseDecimal(icms.FirstText("vICMS")),
		ICMSExempt: brl.ParseDecimal(icms.FirstText("vICMSDeson")),
		FCP:        brl.ParseDecimal(icms.FirstText("vFCP")),
		PIS:        brl.ParseDecimal(total.FirstText("vPIS")),
		COFINS:     brl.ParseDecimal(total.FirstText("vCOFINS")),
		FUST:       brl.ParseDecimal(total.FirstText("vFUST")),
		FUNTTEL:    brl.ParseDecimal(total.FirstText("vFUNTTEL")),
	}

	ret := total.Find("vRetTribTot")
	t.Taxes.WithheldPIS = brl.ParseDecimal(ret.FirstText("vRetPIS"))
	t.Taxes.WithheldCOF = brl.ParseDecimal(ret.FirstText("vRetCofins"))
	t.Taxes.WithheldCSLL = brl.ParseDecimal(ret.FirstText("vRetCSLL"))
	t.Taxes.WithheldIRRF = brl.ParseDecimal(ret.FirstText("vIRRF"))
	return t
}

func extractItems(inf *xmlutil.Node) []domain.InvoiceItem {
	var items []domain.InvoiceItem
	for _, det := range inf.FindAll("det") {
		prod := det.Find("prod")
		if prod == nil {
			continue
		}
		item := domain.InvoiceItem{
			CClass:      prod.FirstText("cClass"),
			Description: prod.FirstText("xProd"),
			Unit:        prod.FirstText("uMed", "uCom"),
			Quantity:    brl.ParseDecimal(prod.FirstText("qCom", "qFaturada")),
			UnitValue:   brl.ParseDecimal(prod.FirstText("vUnCom", "vItem")),
			Total:       brl.ParseDecimal(prod.FirstText("vProd")),
			ICMS:        brl.ParseDecimal(det.FirstText("imposto/ICMS/vICMS", "vICMS")),
			PIS:         brl.ParseDecimal(det.FirstText("imposto/PIS/vPIS", "vPIS")),
			COFINS:      brl.ParseDecimal(det.FirstText("imposto/COFINS/vCOFINS", "vCOFINS")),
		}
		// Decorative rows without a code or description are dropped.
		if item.CClass == "" && item.Description == "" {
			continue
		}
		item.TotalFmt = brl.FormatCurrency(item.Total)
		items = append(items, item)
	}
	return items
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatDate renders an XML timestamp as dd/mm/yyyy. Unrecognized input is
// returned unchanged.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return s
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
