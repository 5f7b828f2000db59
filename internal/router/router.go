package router

import (
	"github.com/gin-gonic/gin"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/handler"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/middleware"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Batch          *handler.BatchHandler
	Job            *handler.JobHandler
	Summary        *handler.SummaryHandler
	Report         *handler.ReportHandler
	Invoice        *handler.InvoiceHandler
	Classification *handler.ClassificationHandler
	Health         *handler.HealthHandler
}

// Setup builds the Gin engine with middleware and all routes.
func Setup(environment string, h Handlers) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	r.GET("/healthz", h.Health.Check)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/batch", h.Batch.Start)
		v1.GET("/batch/:id/download", h.Batch.Download)
		v1.GET("/jobs/:id", h.Job.Status)

		v1.POST("/summary", h.Summary.Start)
		v1.GET("/summary/:id", h.Summary.Result)

		v1.POST("/report", h.Report.Build)
		v1.POST("/invoice", h.Invoice.Extract)

		v1.GET("/classification", h.Classification.List)
	}

	return r
}
