package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/classify"
)

// ClassificationHandler lists the loaded cClass description table.
type ClassificationHandler struct {
	table *classify.Table
}

// NewClassificationHandler creates a ClassificationHandler.
func NewClassificationHandler(table *classify.Table) *ClassificationHandler {
	return &ClassificationHandler{table: table}
}

// List handles GET /api/v1/classification.
func (h *ClassificationHandler) List(c *gin.Context) {
	RespondOK(c, gin.H{
		"count":   h.table.Len(),
		"entries": h.table.Entries(),
	})
}
