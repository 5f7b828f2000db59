package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/port"
)

// JobHandler exposes the progress polling endpoint shared by batch and
// summary jobs.
type JobHandler struct {
	store port.JobStore
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(store port.JobStore) *JobHandler {
	return &JobHandler{store: store}
}

// JobStatusResponse is the polling payload.
type JobStatusResponse struct {
	ID        string           `json:"id"`
	Kind      domain.JobKind   `json:"kind"`
	Status    domain.JobStatus `json:"status"`
	Processed int              `json:"processed"`
	Total     int              `json:"total"`
	Pct       int              `json:"pct"`
	Done      bool             `json:"done"`
	Error     string           `json:"error,omitempty"`
}

// Status handles GET /api/v1/jobs/:id.
func (h *JobHandler) Status(c *gin.Context) {
	j, err := h.store.Get(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	pct := 0
	if j.Total > 0 {
		pct = j.Processed * 100 / j.Total
	}
	RespondOK(c, JobStatusResponse{
		ID:        j.ID,
		Kind:      j.Kind,
		Status:    j.Status,
		Processed: j.Processed,
		Total:     j.Total,
		Pct:       pct,
		Done:      j.Status == domain.JobStatusDone,
		Error:     j.Error,
	})
}
