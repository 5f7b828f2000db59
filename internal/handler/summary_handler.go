package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/service"
)

// SummaryHandler exposes the aggregation endpoints.
type SummaryHandler struct {
	summaryService *service.SummaryService
	maxZipBytes    int64
}

// NewSummaryHandler creates a SummaryHandler.
func NewSummaryHandler(summaryService *service.SummaryService, maxZipBytes int64) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService, maxZipBytes: maxZipBytes}
}

// Start handles POST /api/v1/summary. Multipart field: zip (file).
// Responds 202 with the job id.
func (h *SummaryHandler) Start(c *gin.Context) {
	zipData, err := readUpload(c, "zip", h.maxZipBytes)
	if err != nil {
		HandleError(c, err)
		return
	}
	id, err := h.summaryService.Start(zipData)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondAccepted(c, gin.H{"job_id": id})
}

// Result handles GET /api/v1/summary/:id, returning the aggregation of a
// finished job.
func (h *SummaryHandler) Result(c *gin.Context) {
	res, err := h.summaryService.Result(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}
