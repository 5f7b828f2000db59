package handler

import (
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/service"
)

// ReportHandler exposes the delimited report endpoint.
type ReportHandler struct {
	reportService *service.ReportService
	maxZipBytes   int64
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reportService *service.ReportService, maxZipBytes int64) *ReportHandler {
	return &ReportHandler{reportService: reportService, maxZipBytes: maxZipBytes}
}

// Build handles POST /api/v1/report. Multipart fields: zip (file), mapping
// (text), delimiter (optional single character). Responds with the report
// file directly.
func (h *ReportHandler) Build(c *gin.Context) {
	zipData, err := readUpload(c, "zip", h.maxZipBytes)
	if err != nil {
		HandleError(c, err)
		return
	}

	delimiter, err := parseDelimiter(c.PostForm("delimiter"))
	if err != nil {
		HandleError(c, err)
		return
	}

	out, err := h.reportService.Build(zipData, c.PostForm("mapping"), delimiter)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="relatorio.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", out)
}

// parseDelimiter accepts an empty value (caller default) or exactly one
// character.
func parseDelimiter(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, domain.ErrBadDelimiter
	}
	return r, nil
}
