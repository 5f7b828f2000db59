package service

import (
	"fmt"
	"log"
	"time"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/port"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/summary"
)

// SummaryService runs aggregation jobs in the background.
type SummaryService struct {
	store  port.JobStore
	engine *summary.Engine
}

// NewSummaryService creates a SummaryService.
func NewSummaryService(store port.JobStore, engine *summary.Engine) *SummaryService {
	return &SummaryService{store: store, engine: engine}
}

// Start validates the upload, registers a job and launches the summary
// run. Returns the job id.
func (s *SummaryService) Start(zipData []byte) (string, error) {
	if len(zipData) == 0 {
		return "", domain.ErrMissingUpload
	}
	id := s.store.Create(domain.JobKindSummary)
	go s.run(id, zipData)
	return id, nil
}

func (s *SummaryService) run(id string, zipData []byte) {
	now := time.Now()
	s.store.Update(id, func(j *domain.Job) {
		j.Status = domain.JobStatusRunning
		j.StartedAt = &now
	})

	res, err := s.engine.Summarize(zipData, func(p, t int) {
		s.store.SetProgress(id, p, t)
	})

	done := time.Now()
	if err != nil {
		log.Printf("summary job %s failed: %v", id, err)
		s.store.Update(id, func(j *domain.Job) {
			j.Status = domain.JobStatusError
			j.Error = err.Error()
			j.FinishedAt = &done
		})
		return
	}

	log.Printf("summary job %s done: %d files, total %s", id, res.FileCount, res.GrandTotalFmt)
	s.store.Update(id, func(j *domain.Job) {
		j.Status = domain.JobStatusDone
		j.Summary = res
		j.FinishedAt = &done
	})
}

// Result returns the aggregation of a finished summary job.
func (s *SummaryService) Result(id string) (*domain.AggregationResult, error) {
	j, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	switch j.Status {
	case domain.JobStatusError:
		return nil, fmt.Errorf("%w: %s", domain.ErrJobFailed, j.Error)
	case domain.JobStatusDone:
		return j.Summary, nil
	default:
		return nil, domain.ErrJobNotDone
	}
}
