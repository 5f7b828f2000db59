package nfcom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"
)

const sampleInvoice = `<?xml version="1.0" encoding="UTF-8"?>
<nfcomProc xmlns="http://www.portalfiscal.inf.br/nfcom">
 <NFCom>
  <infNFCom Id="NFCom35230512345678000195620010000000011000000017" versao="1.00">
   <ide>
    <nNF>123</nNF>
    <serie>1</serie>
    <dhEmi>2023-05-10T08:30:00-03:00</dhEmi>
   </ide>
   <emit>
    <CNPJ>12345678000195</CNPJ>
    <xNome>ACME Telecom LTDA</xNome>
    <xFant>ACME</xFant>
    <IE>123456789</IE>
    <enderEmit>
     <xLgr>Rua A</xLgr>
     <nro>100</nro>
     <xBairro>Centro</xBairro>
     <xMun>Campinas</xMun>
     <UF>SP</UF>
     <CEP>13000000</CEP>
    </enderEmit>
   </emit>
   <dest>
    <CPF>11122233344</CPF>
    <xNome>Fulano de Tal</xNome>
    <enderDest>
     <xMun>Campinas</xMun>
     <UF>SP</UF>
    </enderDest>
   </dest>
   <det nItem="1">
    <prod>
     <cClass>0600101</cClass>
     <xProd>Internet 500MB</xProd>
     <uMed>UN</uMed>
     <qCom>1</qCom>
     <vProd>100,00</vProd>
    </prod>
   </det>
   <det nItem="2">
    <prod>
     <cClass></cClass>
     <xProd></xProd>
     <vProd>999,99</vProd>
    </prod>
   </det>
   <total>
    <vProd>100.00</vProd>
    <vDesc>10.00</vDesc>
    <vNF>90.00</vNF>
    <ICMSTot>
     <vBC>90.00</vBC>
     <vICMS>16.20</vICMS>
    </ICMSTot>
    <vPIS>0.59</vPIS>
    <vCOFINS>2.74</vCOFINS>
    <vRetTribTot>
     <vRetPIS>0.10</vRetPIS>
    </vRetTribTot>
   </total>
  </infNFCom>
 </NFCom>
 <protNFCom>
  <infProt>
   <nProt>135230000012345</nProt>
   <dhRecbto>2023-05-10T08:31:02-03:00</dhRecbto>
  </infProt>
 </protNFCom>
</nfcomProc>`

func TestExtract(t *testing.T) {
	rec, err := Extract([]byte(sampleInvoice))
	require.NoError(t, err)

	assert.Equal(t, "123", rec.Number)
	assert.Equal(t, "1", rec.Series)
	assert.Equal(t, "2023-05-10T08:30:00-03:00", rec.IssuedAt)
	assert.Equal(t, "10/05/2023", rec.IssuedAtFmt)
	assert.Equal(t, "35230512345678000195620010000000011000000017", rec.AccessKey)
	assert.Equal(t, "135230000012345", rec.Protocol)
	assert.Equal(t, "10/05/2023", rec.ProtocolDate)

	assert.Equal(t, "ACME Telecom LTDA", rec.Emitter.Name)
	assert.Equal(t, "ACME", rec.Emitter.TradeName)
	assert.Equal(t, "12345678000195", rec.Emitter.TaxID)
	assert.Equal(t, "123456789", rec.Emitter.StateReg)
	assert.Equal(t, "Rua A, 100, Centro", rec.Emitter.AddressLine1)
	assert.Equal(t, "Campinas - SP  CEP: 13000000", rec.Emitter.AddressLine2)

	// CPF fills TaxID when CNPJ is absent.
	assert.Equal(t, "11122233344", rec.Recipient.TaxID)
	assert.Equal(t, "Campinas - SP", rec.Recipient.AddressLine2)

	assert.InDelta(t, 100.0, rec.Totals.Products, 1e-9)
	assert.Equal(t, "100,00", rec.Totals.ProductsFmt)
	assert.InDelta(t, 10.0, rec.Totals.Discount, 1e-9)
	assert.InDelta(t, 90.0, rec.Totals.Net, 1e-9)
	assert.InDelta(t, 16.20, rec.Totals.Taxes.ICMS, 1e-9)
	assert.InDelta(t, 0.59, rec.Totals.Taxes.PIS, 1e-9)
	assert.InDelta(t, 0.10, rec.Totals.Taxes.WithheldPIS, 1e-9)
	// Absent tags stay zero.
	assert.Zero(t, rec.Totals.Taxes.FUST)
	assert.Zero(t, rec.Totals.Other)

	// Item 2 has neither cClass nor description and is filtered out.
	require.Len(t, rec.Items, 1)
	item := rec.Items[0]
	assert.Equal(t, "0600101", item.CClass)
	assert.Equal(t, "Internet 500MB", item.Description)
	assert.Equal(t, "UN", item.Unit)
	assert.InDelta(t, 1.0, item.Quantity, 1e-9)
	assert.InDelta(t, 100.0, item.Total, 1e-9)
	assert.Equal(t, "100,00", item.TotalFmt)
}

func TestExtractMissingBody(t *testing.T) {
	_, err := Extract([]byte(`<root><outro/></root>`))
	assert.ErrorIs(t, err, domain.ErrInvoiceBodyMissing)
}

func TestExtractMalformed(t *testing.T) {
	_, err := Extract([]byte(`<nfcom><infNFCom>`))
	assert.Error(t, err)
}

func TestExtractLegacyDateTag(t *testing.T) {
	doc := `<NFCom><infNFCom><ide><dEmi>2023-01-15</dEmi></ide></infNFCom></NFCom>`
	rec, err := Extract([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "2023-01-15", rec.IssuedAt)
	assert.Equal(t, "15/01/2023", rec.IssuedAtFmt)
}

func TestFormatDatePassthrough(t *testing.T) {
	assert.Equal(t, "05/2023", FormatDate("05/2023"))
	assert.Equal(t, "", FormatDate("  "))
}
