package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/service"
)

// InvoiceHandler exposes single-invoice extraction.
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	maxZipBytes    int64
}

// NewInvoiceHandler creates an InvoiceHandler.
func NewInvoiceHandler(invoiceService *service.InvoiceService, maxZipBytes int64) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, maxZipBytes: maxZipBytes}
}

// Extract handles POST /api/v1/invoice. Multipart field: xml (file).
func (h *InvoiceHandler) Extract(c *gin.Context) {
	xmlData, err := readUpload(c, "xml", h.maxZipBytes)
	if err != nil {
		HandleError(c, err)
		return
	}

	record, err := h.invoiceService.Extract(xmlData)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, record)
}
