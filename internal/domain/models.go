package domain

import "time"

// Party holds the identification block of an invoice party (emitter or
// recipient). TaxID carries the CNPJ when present, otherwise the CPF.
type Party struct {
	Name         string `json:"name"`
	TradeName    string `json:"trade_name,omitempty"`
	TaxID        string `json:"tax_id"`
	StateReg     string `json:"state_reg"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
}

// TaxTotals holds the invoice-level tax breakdown. Fields missing from the
// source XML stay zero.
type TaxTotals struct {
	Base         float64 `json:"base"`
	ICMS         float64 `json:"icms"`
	ICMSExempt   float64 `json:"icms_exempt"`
	FCP          float64 `json:"fcp"`
	PIS          float64 `json:"pis"`
	COFINS       float64 `json:"cofins"`
	FUST         float64 `json:"fust"`
	FUNTTEL      float64 `json:"funttel"`
	WithheldPIS  float64 `json:"withheld_pis"`
	WithheldCOF  float64 `json:"withheld_cofins"`
	WithheldCSLL float64 `json:"withheld_csll"`
	WithheldIRRF float64 `json:"withheld_irrf"`
}

// Totals holds the invoice monetary totals with Brazilian-formatted
// companions derived from the raw values.
type Totals struct {
	Products    float64   `json:"products"`
	ProductsFmt string    `json:"products_fmt"`
	Discount    float64   `json:"discount"`
	DiscountFmt string    `json:"discount_fmt"`
	Other       float64   `json:"other"`
	OtherFmt    string    `json:"other_fmt"`
	Net         float64   `json:"net"`
	NetFmt      string    `json:"net_fmt"`
	Taxes       TaxTotals `json:"taxes"`
}

// InvoiceItem is one retained line item of an invoice.
type InvoiceItem struct {
	CClass      string  `json:"cclass"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	UnitValue   float64 `json:"unit_value"`
	Total       float64 `json:"total"`
	TotalFmt    string  `json:"total_fmt"`
	ICMS        float64 `json:"icms"`
	PIS         float64 `json:"pis"`
	COFINS      float64 `json:"cofins"`
}

// InvoiceRecord is the normalized result of parsing one NFCom XML file.
type InvoiceRecord struct {
	Number       string        `json:"number"`
	Series       string        `json:"series"`
	IssuedAt     string        `json:"issued_at"`
	IssuedAtFmt  string        `json:"issued_at_fmt"`
	AccessKey    string        `json:"access_key"`
	Protocol     string        `json:"protocol"`
	ProtocolDate string        `json:"protocol_date"`
	TaxpayerInd  string        `json:"taxpayer_ind"`
	Reference    string        `json:"reference"`
	DueDate      string        `json:"due_date"`
	Emitter      Party         `json:"emitter"`
	Recipient    Party         `json:"recipient"`
	Totals       Totals        `json:"totals"`
	Items        []InvoiceItem `json:"items"`
}

// ClassificationRow is one aggregated row keyed by cClass.
type ClassificationRow struct {
	CClass        string  `json:"cclass"`
	Description   string  `json:"description"`
	InvoiceCount  int     `json:"invoice_count"`
	ItemCount     int     `json:"item_count"`
	Total         float64 `json:"total"`
	TotalFmt      string  `json:"total_fmt"`
	Percentage    float64 `json:"percentage"`
	PercentageFmt string  `json:"percentage_fmt"`
}

// ItemInvoiceRef identifies one invoice that contributed to an item row,
// with the summed item value inside that invoice.
type ItemInvoiceRef struct {
	Number      string  `json:"number"`
	Party       string  `json:"party"`
	IssuedAt    string  `json:"issued_at"`
	IssuedAtFmt string  `json:"issued_at_fmt"`
	Total       float64 `json:"total"`
	TotalFmt    string  `json:"total_fmt"`
}

// ItemRow is one aggregated row keyed by (description, cClass). The SCM,
// SVA and Apps columns split the total by cClass family.
type ItemRow struct {
	Description   string           `json:"description"`
	CClass        string           `json:"cclass"`
	InvoiceCount  int              `json:"invoice_count"`
	ItemCount     int              `json:"item_count"`
	SCM           float64          `json:"scm"`
	SVA           float64          `json:"sva"`
	Apps          float64          `json:"apps"`
	Total         float64          `json:"total"`
	TotalFmt      string           `json:"total_fmt"`
	Percentage    float64          `json:"percentage"`
	PercentageFmt string           `json:"percentage_fmt"`
	Invoices      []ItemInvoiceRef `json:"contributing_invoices,omitempty"`
}

// ChartSeries is a bounded label/value pair sequence for plotting.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// AggregationResult is the full summary produced from one archive.
type AggregationResult struct {
	ByClassification []ClassificationRow `json:"by_classification"`
	ByItem           []ItemRow           `json:"by_item"`
	Chart            ChartSeries         `json:"chart_series"`
	FileCount        int                 `json:"file_count"`
	InvoiceCount     int                 `json:"invoice_count"`
	GrandTotal       float64             `json:"grand_total"`
	GrandTotalFmt    string              `json:"grand_total_fmt"`
}

// Job tracks one background batch or summary run.
type Job struct {
	ID         string             `json:"id"`
	Kind       JobKind            `json:"kind"`
	Status     JobStatus          `json:"status"`
	Processed  int                `json:"processed"`
	Total      int                `json:"total"`
	Error      string             `json:"error,omitempty"`
	OutputPath string             `json:"-"`
	Summary    *AggregationResult `json:"-"`
	CreatedAt  time.Time          `json:"created_at"`
	StartedAt  *time.Time         `json:"started_at,omitempty"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
}

// Finished reports whether the job reached a terminal state.
func (j *Job) Finished() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusError
}
