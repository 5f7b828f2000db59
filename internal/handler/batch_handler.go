package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/service"
)

// BatchHandler exposes the batch edit endpoints.
type BatchHandler struct {
	batchService *service.BatchService
	maxZipBytes  int64
}

// NewBatchHandler creates a BatchHandler.
func NewBatchHandler(batchService *service.BatchService, maxZipBytes int64) *BatchHandler {
	return &BatchHandler{batchService: batchService, maxZipBytes: maxZipBytes}
}

// Start handles POST /api/v1/batch. Multipart fields: zip (file), rules
// (text), remove_discount, remove_other (booleans). Responds 202 with the
// job id.
func (h *BatchHandler) Start(c *gin.Context) {
	zipData, err := readUpload(c, "zip", h.maxZipBytes)
	if err != nil {
		HandleError(c, err)
		return
	}

	id, err := h.batchService.Start(service.BatchInput{
		ZipData:        zipData,
		RulesText:      c.PostForm("rules"),
		RemoveDiscount: formBool(c, "remove_discount"),
		RemoveOther:    formBool(c, "remove_other"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondAccepted(c, gin.H{"job_id": id})
}

// Download handles GET /api/v1/batch/:id/download, streaming the edited
// archive of a finished job.
func (h *BatchHandler) Download(c *gin.Context) {
	path, err := h.batchService.Download(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Type", "application/zip")
	c.FileAttachment(path, "resultado.zip")
}
