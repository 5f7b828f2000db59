package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/classify"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/config"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/handler"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/jobs"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/router"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/service"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/summary"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	table := classify.NewTable(cfg.Classification.TablePath)
	store := jobs.NewStore(cfg.Jobs.Capacity)
	engine := summary.NewEngine(table)

	// Initialize services
	batchSvc := service.NewBatchService(store, cfg.Jobs.Dir)
	summarySvc := service.NewSummaryService(store, engine)
	reportSvc := service.NewReportService()
	invoiceSvc := service.NewInvoiceService()

	maxZip := cfg.Upload.MaxZipBytes()

	// Initialize handlers
	h := router.Handlers{
		Batch:          handler.NewBatchHandler(batchSvc, maxZip),
		Job:            handler.NewJobHandler(store),
		Summary:        handler.NewSummaryHandler(summarySvc, maxZip),
		Report:         handler.NewReportHandler(reportSvc, maxZip),
		Invoice:        handler.NewInvoiceHandler(invoiceSvc, maxZip),
		Classification: handler.NewClassificationHandler(table),
		Health:         handler.NewHealthHandler(),
	}

	r := router.Setup(cfg.Server.Environment, h)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
