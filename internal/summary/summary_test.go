package summary

import (
	"archive/zip"
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource map[string]string

func (s staticSource) Description(code string) string { return s[code] }

func invoiceXML(key, number string, items ...[3]string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<NFCom><infNFCom><ide><nNF>%s</nNF><dhEmi>2023-05-10T08:00:00-03:00</dhEmi></ide>`, number)
	fmt.Fprintf(&b, `<chNFCom>%s</chNFCom><dest><xNome>Cliente %s</xNome></dest>`, key, number)
	for _, it := range items {
		fmt.Fprintf(&b, `<det><prod><cClass>%s</cClass><xProd>%s</xProd><vProd>%s</vProd></prod></det>`, it[0], it[1], it[2])
	}
	b.WriteString(`</infNFCom></NFCom>`)
	return b.Bytes()
}

func buildZip(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestSummarizeTwoFiles(t *testing.T) {
	in := buildZip(t, map[string][]byte{
		"a.xml": invoiceXML("chave-a", "1", [3]string{"0600101", "Internet", "100,00"}),
		"b.xml": invoiceXML("chave-b", "2", [3]string{"0600101", "Internet", "50,00"}),
	})

	eng := NewEngine(staticSource{"0600101": "Internet banda larga"})
	res, err := eng.Summarize(in, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.FileCount)
	assert.Equal(t, 2, res.InvoiceCount)
	assert.InDelta(t, 150.0, res.GrandTotal, 1e-9)
	assert.Equal(t, "150,00", res.GrandTotalFmt)

	require.Len(t, res.ByClassification, 1)
	c := res.ByClassification[0]
	assert.Equal(t, "0600101", c.CClass)
	assert.Equal(t, "Internet banda larga", c.Description)
	assert.Equal(t, 2, c.InvoiceCount)
	assert.Equal(t, 2, c.ItemCount)
	assert.InDelta(t, 150.0, c.Total, 1e-9)
	assert.InDelta(t, 100.0, c.Percentage, 1e-9)
	assert.Equal(t, "100,00", c.PercentageFmt)

	require.Len(t, res.ByItem, 1)
	item := res.ByItem[0]
	assert.Equal(t, "Internet", item.Description)
	assert.Equal(t, "0600101", item.CClass)
	assert.InDelta(t, 150.0, item.Total, 1e-9)
	assert.InDelta(t, 150.0, item.SVA, 1e-9) // 06 prefix lands in SVA
	assert.Zero(t, item.SCM)

	require.Len(t, item.Invoices, 2)
	assert.InDelta(t, 100.0, item.Invoices[0].Total, 1e-9)
	assert.Equal(t, "Cliente 1", item.Invoices[0].Party)
	assert.InDelta(t, 50.0, item.Invoices[1].Total, 1e-9)

	require.Len(t, res.Chart.Labels, 1)
	assert.Equal(t, "0600101", res.Chart.Labels[0])
	assert.InDelta(t, 150.0, res.Chart.Values[0], 1e-9)
}

func TestSummarizeConservation(t *testing.T) {
	in := buildZip(t, map[string][]byte{
		"a.xml": invoiceXML("ka", "1",
			[3]string{"0600101", "Internet", "100,00"},
			[3]string{"0100101", "Voz", "30,00"},
			[3]string{"", "Taxa avulsa", "20,00"},
		),
		"b.xml": invoiceXML("kb", "2",
			[3]string{"1100101", "App TV", "50,00"},
			[3]string{"0600101", "Internet", "25,50"},
		),
	})

	res, err := NewEngine(nil).Summarize(in, nil)
	require.NoError(t, err)

	var classTotal, itemTotal, classPct, itemPct float64
	for _, r := range res.ByClassification {
		classTotal += r.Total
		classPct += r.Percentage
	}
	for _, r := range res.ByItem {
		itemTotal += r.Total
		itemPct += r.Percentage
	}
	assert.InDelta(t, res.GrandTotal, classTotal, 1e-9)
	assert.InDelta(t, res.GrandTotal, itemTotal, 1e-9)
	assert.InDelta(t, 100.0, classPct, 1e-9)
	assert.InDelta(t, 100.0, itemPct, 1e-9)

	// Empty cClass lands in the sentinel bucket.
	var found bool
	for _, r := range res.ByClassification {
		if r.CClass == UnclassifiedKey {
			found = true
			assert.InDelta(t, 20.0, r.Total, 1e-9)
		}
	}
	assert.True(t, found)

	// Rows sorted descending by total.
	for i := 1; i < len(res.ByClassification); i++ {
		assert.GreaterOrEqual(t, res.ByClassification[i-1].Total, res.ByClassification[i].Total)
	}
}

func TestSummarizeSkipsMalformedButCountsFile(t *testing.T) {
	in := buildZip(t, map[string][]byte{
		"a.xml":    invoiceXML("ka", "1", [3]string{"0600101", "Internet", "100,00"}),
		"ruim.xml": []byte("<isto><nao<fecha"),
	})

	res, err := NewEngine(nil).Summarize(in, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.FileCount)
	assert.Equal(t, 1, res.InvoiceCount)
	assert.InDelta(t, 100.0, res.GrandTotal, 1e-9)
}

func TestSummarizeCountsUnreadableEntry(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("a.xml")
	require.NoError(t, err)
	_, err = w.Write(invoiceXML("ka", "1", [3]string{"0600101", "Internet", "100,00"}))
	require.NoError(t, err)

	// Deflate entry with a garbage stream, so its content never decompresses.
	hdr := &zip.FileHeader{Name: "quebrado.xml", Method: zip.Deflate}
	hdr.CRC32 = 0xDEADBEEF
	hdr.CompressedSize64 = 3
	hdr.UncompressedSize64 = 10
	rw, err := zw.CreateRaw(hdr)
	require.NoError(t, err)
	_, err = rw.Write([]byte{0x00, 0x01, 0x02})
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	res, err := NewEngine(nil).Summarize(buf.Bytes(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.FileCount)
	assert.Equal(t, 1, res.InvoiceCount)
	assert.InDelta(t, 100.0, res.GrandTotal, 1e-9)
}

func TestSummarizeEmptyArchive(t *testing.T) {
	in := buildZip(t, map[string][]byte{"leiame.txt": []byte("x")})
	res, err := NewEngine(nil).Summarize(in, nil)
	require.NoError(t, err)

	assert.Zero(t, res.FileCount)
	assert.Zero(t, res.GrandTotal)
	assert.Empty(t, res.ByClassification)
	assert.Empty(t, res.Chart.Labels)
}

func TestSummarizeProgress(t *testing.T) {
	in := buildZip(t, map[string][]byte{
		"a.xml": invoiceXML("ka", "1", [3]string{"0600101", "Internet", "10,00"}),
		"b.xml": invoiceXML("kb", "2", [3]string{"0600101", "Internet", "10,00"}),
	})
	var last, total int
	var calls int
	_, err := NewEngine(nil).Summarize(in, func(p, t int) {
		last, total = p, t
		calls++
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, last, total)
}

func TestColumn(t *testing.T) {
	assert.Equal(t, "sva", Column("0600101"))
	assert.Equal(t, "apps", Column("1100101"))
	assert.Equal(t, "scm", Column("0100101"))
	assert.Equal(t, "scm", Column(""))
}

func TestChartSeriesBounded(t *testing.T) {
	entries := map[string][]byte{}
	for i := 0; i < 15; i++ {
		code := fmt.Sprintf("%07d", i+1)
		entries[fmt.Sprintf("f%d.xml", i)] = invoiceXML(
			fmt.Sprintf("k%d", i), fmt.Sprint(i),
			[3]string{code, "Serviço", fmt.Sprintf("%d,00", 100-i)},
		)
	}
	res, err := NewEngine(nil).Summarize(buildZip(t, entries), nil)
	require.NoError(t, err)
	assert.Len(t, res.ByClassification, 15)
	assert.Len(t, res.Chart.Labels, ChartTopN)
	assert.Len(t, res.Chart.Values, ChartTopN)
	// Chart carries the largest totals.
	assert.InDelta(t, 100.0, res.Chart.Values[0], 1e-9)
}

func TestSummarizeBadArchive(t *testing.T) {
	_, err := NewEngine(nil).Summarize([]byte("não é zip"), nil)
	assert.Error(t, err)
}
