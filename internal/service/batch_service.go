package service

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/archive"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/port"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/rules"
)

// BatchInput carries everything one batch edit run needs.
type BatchInput struct {
	ZipData        []byte
	RulesText      string
	RemoveDiscount bool
	RemoveOther    bool
}

// BatchService runs batch edit jobs in the background. Each job owns its
// output file; partial output is deleted on failure.
type BatchService struct {
	store port.JobStore
	dir   string
}

// NewBatchService creates a BatchService writing outputs under dir.
func NewBatchService(store port.JobStore, dir string) *BatchService {
	if dir == "" {
		dir = os.TempDir()
	}
	return &BatchService{store: store, dir: dir}
}

// Start validates the input, registers a job and launches the batch run.
// Returns the job id.
func (s *BatchService) Start(in BatchInput) (string, error) {
	if len(in.ZipData) == 0 {
		return "", domain.ErrMissingUpload
	}
	set := rules.Parse(in.RulesText)
	if len(set) == 0 && !in.RemoveDiscount && !in.RemoveOther {
		return "", domain.ErrEmptyRules
	}

	id := s.store.Create(domain.JobKindBatch)
	go s.run(id, in.ZipData, set, archive.Options{
		RemoveDiscount: in.RemoveDiscount,
		RemoveOther:    in.RemoveOther,
	})
	return id, nil
}

func (s *BatchService) run(id string, zipData []byte, set rules.Set, opts archive.Options) {
	now := time.Now()
	s.store.Update(id, func(j *domain.Job) {
		j.Status = domain.JobStatusRunning
		j.StartedAt = &now
	})

	out, stats, err := archive.Process(zipData, set, opts, func(p, t int) {
		s.store.SetProgress(id, p, t)
	})
	if err == nil {
		err = s.writeOutput(id, out)
	}

	done := time.Now()
	if err != nil {
		log.Printf("batch job %s failed: %v", id, err)
		s.store.Update(id, func(j *domain.Job) {
			j.Status = domain.JobStatusError
			j.Error = err.Error()
			j.FinishedAt = &done
		})
		return
	}

	log.Printf("batch job %s done: %d entries (%d changed, %d copied)",
		id, stats.Total, stats.Changed, stats.Copied)
	s.store.Update(id, func(j *domain.Job) {
		j.Status = domain.JobStatusDone
		j.FinishedAt = &done
	})
}

func (s *BatchService) writeOutput(id string, data []byte) error {
	path := filepath.Join(s.dir, fmt.Sprintf("trocaxml_%s.zip", id))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write output archive: %w", err)
	}
	s.store.Update(id, func(j *domain.Job) { j.OutputPath = path })
	return nil
}

// Download returns the output path of a finished batch job.
func (s *BatchService) Download(id string) (string, error) {
	j, err := s.store.Get(id)
	if err != nil {
		return "", err
	}
	switch j.Status {
	case domain.JobStatusError:
		return "", fmt.Errorf("%w: %s", domain.ErrJobFailed, j.Error)
	case domain.JobStatusDone:
		if j.OutputPath == "" {
			return "", domain.ErrJobNotFound
		}
		return j.OutputPath, nil
	default:
		return "", domain.ErrJobNotDone
	}
}
