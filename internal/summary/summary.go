// Package summary aggregates the line items of an archive of invoices into
// totals by cClass and by item, with Brazilian-formatted values and a
// bounded series for charting.
package summary

import (
	"log"
	"sort"
	"strings"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/archive"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/brl"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/nfcom"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/port"
)

const (
	// UnclassifiedKey buckets items whose cClass is empty.
	UnclassifiedKey = "SEM_CCLASS"
	// NoDescription replaces an empty item description.
	NoDescription = "(Sem descrição do item)"
	// ChartTopN bounds the chart series.
	ChartTopN = 12
)

// Engine aggregates archives using an injected classification table.
type Engine struct {
	descriptions port.ClassificationSource
}

// NewEngine creates an Engine. src may be nil, in which case every
// description resolves to the empty placeholder.
func NewEngine(src port.ClassificationSource) *Engine {
	return &Engine{descriptions: src}
}

type itemKey struct {
	description string
	cclass      string
}

type invoiceKey struct {
	number   string
	party    string
	issuedAt string
}

type itemBucket struct {
	key      itemKey
	invoices map[string]struct{}
	byOrigin map[invoiceKey]float64
	count    int
	scm      float64
	sva      float64
	apps     float64
	total    float64
}

type classBucket struct {
	cclass   string
	invoices map[string]struct{}
	count    int
	total    float64
}

// Summarize extracts every XML entry of zipData and aggregates the
// retained line items. Files that fail extraction are skipped but still
// counted in FileCount. onProgress fires once per XML entry.
func (e *Engine) Summarize(zipData []byte, onProgress port.ProgressFunc) (*domain.AggregationResult, error) {
	entries, err := archive.XMLEntries(zipData)
	if err != nil {
		return nil, err
	}

	byItem := map[itemKey]*itemBucket{}
	byClass := map[string]*classBucket{}
	var itemOrder []itemKey
	var classOrder []string
	allInvoices := map[string]struct{}{}

	for i, entry := range entries {
		e.accumulate(entry, byItem, byClass, &itemOrder, &classOrder, allInvoices)
		if onProgress != nil {
			onProgress(i+1, len(entries))
		}
	}

	res := &domain.AggregationResult{
		FileCount:    len(entries),
		InvoiceCount: len(allInvoices),
	}

	for _, b := range byItem {
		res.GrandTotal += b.total
	}
	res.GrandTotalFmt = brl.FormatCurrency(res.GrandTotal)

	res.ByClassification = e.classificationRows(byClass, classOrder, res.GrandTotal)
	res.ByItem = e.itemRows(byItem, itemOrder, res.GrandTotal)
	res.Chart = chartSeries(res.ByClassification)
	return res, nil
}

func (e *Engine) accumulate(
	entry archive.Entry,
	byItem map[itemKey]*itemBucket,
	byClass map[string]*classBucket,
	itemOrder *[]itemKey,
	classOrder *[]string,
	allInvoices map[string]struct{},
) {
	rec, err := nfcom.Extract(entry.Data)
	if err != nil {
		log.Printf("summary: skipping %s: %v", entry.Name, err)
		return
	}

	invoiceID := rec.AccessKey
	if invoiceID == "" {
		invoiceID = entry.Name
	}
	party := rec.Recipient.Name
	if party == "" {
		party = rec.Emitter.Name
	}

	if len(rec.Items) > 0 {
		allInvoices[invoiceID] = struct{}{}
	}

	for _, item := range rec.Items {
		cclass := item.CClass
		if cclass == "" {
			cclass = UnclassifiedKey
		}
		desc := item.Description
		if desc == "" {
			desc = NoDescription
		}

		ik := itemKey{description: desc, cclass: cclass}
		ib, ok := byItem[ik]
		if !ok {
			ib = &itemBucket{
				key:      ik,
				invoices: map[string]struct{}{},
				byOrigin: map[invoiceKey]float64{},
			}
			byItem[ik] = ib
			*itemOrder = append(*itemOrder, ik)
		}
		ib.invoices[invoiceID] = struct{}{}
		ib.count++
		ib.total += item.Total
		switch Column(cclass) {
		case "sva":
			ib.sva += item.Total
		case "apps":
			ib.apps += item.Total
		default:
			ib.scm += item.Total
		}
		ib.byOrigin[invoiceKey{number: rec.Number, party: party, issuedAt: rec.IssuedAt}] += item.Total

		cb, ok := byClass[cclass]
		if !ok {
			cb = &classBucket{cclass: cclass, invoices: map[string]struct{}{}}
			byClass[cclass] = cb
			*classOrder = append(*classOrder, cclass)
		}
		cb.invoices[invoiceID] = struct{}{}
		cb.count++
		cb.total += item.Total
	}
}

func (e *Engine) classificationRows(byClass map[string]*classBucket, order []string, grandTotal float64) []domain.ClassificationRow {
	rows := make([]domain.ClassificationRow, 0, len(order))
	for _, cclass := range order {
		b := byClass[cclass]
		row := domain.ClassificationRow{
			CClass:       cclass,
			Description:  e.description(cclass),
			InvoiceCount: len(b.invoices),
			ItemCount:    b.count,
			Total:        b.total,
			TotalFmt:     brl.FormatCurrency(b.total),
			Percentage:   percentage(b.total, grandTotal),
		}
		row.PercentageFmt = brl.FormatPercentage(row.Percentage)
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
	return rows
}

func (e *Engine) itemRows(byItem map[itemKey]*itemBucket, order []itemKey, grandTotal float64) []domain.ItemRow {
	rows := make([]domain.ItemRow, 0, len(order))
	for _, ik := range order {
		b := byItem[ik]
		row := domain.ItemRow{
			Description:  ik.description,
			CClass:       ik.cclass,
			InvoiceCount: len(b.invoices),
			ItemCount:    b.count,
			SCM:          b.scm,
			SVA:          b.sva,
			Apps:         b.apps,
			Total:        b.total,
			TotalFmt:     brl.FormatCurrency(b.total),
			Percentage:   percentage(b.total, grandTotal),
			Invoices:     originRefs(b.byOrigin),
		}
		row.PercentageFmt = brl.FormatPercentage(row.Percentage)
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
	return rows
}

func originRefs(byOrigin map[invoiceKey]float64) []domain.ItemInvoiceRef {
	refs := make([]domain.ItemInvoiceRef, 0, len(byOrigin))
	for k, v := range byOrigin {
		refs = append(refs, domain.ItemInvoiceRef{
			Number:      k.number,
			Party:       k.party,
			IssuedAt:    k.issuedAt,
			IssuedAtFmt: nfcom.FormatDate(k.issuedAt),
			Total:       v,
			TotalFmt:    brl.FormatCurrency(v),
		})
	}
	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Total != refs[j].Total {
			return refs[i].Total > refs[j].Total
		}
		return refs[i].Number < refs[j].Number
	})
	return refs
}

func chartSeries(rows []domain.ClassificationRow) domain.ChartSeries {
	n := len(rows)
	if n > ChartTopN {
		n = ChartTopN
	}
	series := domain.ChartSeries{
		Labels: make([]string, 0, n),
		Values: make([]float64, 0, n),
	}
	for _, row := range rows[:n] {
		series.Labels = append(series.Labels, row.CClass)
		series.Values = append(series.Values, row.Total)
	}
	return series
}

// Column maps a cClass to its revenue family: codes starting with 06 are
// value-added services, 11 are apps, everything else is connectivity.
func Column(cclass string) string {
	switch {
	case strings.HasPrefix(cclass, "06"):
		return "sva"
	case strings.HasPrefix(cclass, "11"):
		return "apps"
	default:
		return "scm"
	}
}

func percentage(v, total float64) float64 {
	if total == 0 {
		return 0
	}
	return v / total * 100
}

func (e *Engine) description(cclass string) string {
	if e.descriptions == nil || cclass == UnclassifiedKey {
		return ""
	}
	return e.descriptions.Description(cclass)
}
