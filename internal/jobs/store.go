// Package jobs keeps the in-memory status of background batch and summary
// runs. Workers write through Update while HTTP pollers read snapshots;
// everything is guarded by a single mutex.
package jobs

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"
)

// DefaultCapacity bounds the store when the configured capacity is absent.
const DefaultCapacity = 100

// Store is a bounded, mutex-guarded job registry.
type Store struct {
	mu       sync.Mutex
	jobs     map[string]*domain.Job
	order    []string
	capacity int
}

// NewStore creates a Store holding at most capacity jobs.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		jobs:     make(map[string]*domain.Job),
		capacity: capacity,
	}
}

// Create registers a new queued job and returns its id.
func (s *Store) Create(kind domain.JobKind) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.jobs[id] = &domain.Job{
		ID:        id,
		Kind:      kind,
		Status:    domain.JobStatusQueued,
		CreatedAt: time.Now(),
	}
	s.order = append(s.order, id)
	s.evictLocked()
	return id
}

// Get returns a snapshot of the job.
func (s *Store) Get(id string) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrJobNotFound
	}
	return *j, nil
}

// Update mutates the job under the store lock. Unknown ids are ignored:
// the job may have been evicted while its worker was still running.
func (s *Store) Update(id string, fn func(*domain.Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if j, ok := s.jobs[id]; ok {
		fn(j)
	}
}

// SetProgress records processed/total for a running job.
func (s *Store) SetProgress(id string, processed, total int) {
	s.Update(id, func(j *domain.Job) {
		j.Processed = processed
		j.Total = total
	})
}

// evictLocked drops the oldest finished jobs while over capacity, removing
// any output file they still own. Unfinished jobs are never evicted.
func (s *Store) evictLocked() {
	if len(s.jobs) <= s.capacity {
		return
	}
	kept := s.order[:0]
	for _, id := range s.order {
		j := s.jobs[id]
		if len(s.jobs) > s.capacity && j != nil && j.Finished() {
			if j.OutputPath != "" {
				if err := os.Remove(j.OutputPath); err != nil && !os.IsNotExist(err) {
					log.Printf("jobs: removing output of evicted job %s: %v", id, err)
				}
			}
			delete(s.jobs, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}
