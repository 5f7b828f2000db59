package port

import "github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"

// ProgressFunc is invoked once per processed archive entry, including the
// final one, so callers can detect completion by processed == total.
type ProgressFunc func(processed, total int)

// JobStore tracks the lifecycle and progress of background jobs.
type JobStore interface {
	// Create registers a new queued job and returns its id.
	Create(kind domain.JobKind) string
	// Get returns a snapshot of the job.
	Get(id string) (domain.Job, error)
	// Update mutates the job atomically. Unknown ids are ignored.
	Update(id string, fn func(*domain.Job))
	// SetProgress records processed/total for a running job.
	SetProgress(id string, processed, total int)
}

// ClassificationSource supplies read-only cClass descriptions.
type ClassificationSource interface {
	// Description returns the description for a cClass code, or "" when
	// the code is unknown.
	Description(code string) string
}
