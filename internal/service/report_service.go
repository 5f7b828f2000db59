package service

import (
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/nfcom"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/report"
)

// ReportService builds delimited reports synchronously; report runs are
// cheap enough that no background job is involved.
type ReportService struct{}

// NewReportService creates a ReportService.
func NewReportService() *ReportService {
	return &ReportService{}
}

// Build validates the inputs and renders the report bytes.
func (s *ReportService) Build(zipData []byte, mappingText string, delimiter rune) ([]byte, error) {
	if len(zipData) == 0 {
		return nil, domain.ErrMissingUpload
	}
	mapping, err := report.ParseMapping(mappingText)
	if err != nil {
		return nil, err
	}
	if delimiter == 0 {
		delimiter = report.DefaultDelimiter
	}
	return report.Build(zipData, mapping, delimiter)
}

// InvoiceService renders single invoices as normalized records.
type InvoiceService struct{}

// NewInvoiceService creates an InvoiceService.
func NewInvoiceService() *InvoiceService {
	return &InvoiceService{}
}

// Extract parses one invoice XML.
func (s *InvoiceService) Extract(xmlData []byte) (*domain.InvoiceRecord, error) {
	if len(xmlData) == 0 {
		return nil, domain.ErrMissingUpload
	}
	return nfcom.Extract(xmlData)
}
