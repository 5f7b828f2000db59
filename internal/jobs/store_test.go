package jobs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"
)

func TestCreateAndGet(t *testing.T) {
	s := NewStore(10)
	id := s.Create(domain.JobKindBatch)

	j, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusQueued, j.Status)
	assert.Equal(t, domain.JobKindBatch, j.Kind)
	assert.False(t, j.CreatedAt.IsZero())

	_, err = s.Get("inexistente")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestUpdateAndProgress(t *testing.T) {
	s := NewStore(10)
	id := s.Create(domain.JobKindSummary)

	s.Update(id, func(j *domain.Job) { j.Status = domain.JobStatusRunning })
	s.SetProgress(id, 3, 10)

	j, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusRunning, j.Status)
	assert.Equal(t, 3, j.Processed)
	assert.Equal(t, 10, j.Total)

	// Updates on unknown ids are a no-op.
	s.Update("inexistente", func(j *domain.Job) { t.Fatal("must not be called") })
}

func TestEvictionDropsOldestFinished(t *testing.T) {
	s := NewStore(2)

	out := filepath.Join(t.TempDir(), "resultado.zip")
	require.NoError(t, os.WriteFile(out, []byte("zip"), 0o600))

	first := s.Create(domain.JobKindBatch)
	s.Update(first, func(j *domain.Job) {
		j.Status = domain.JobStatusDone
		j.OutputPath = out
	})
	second := s.Create(domain.JobKindBatch)
	third := s.Create(domain.JobKindBatch)

	_, err := s.Get(first)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	_, err = s.Get(second)
	assert.NoError(t, err)
	_, err = s.Get(third)
	assert.NoError(t, err)

	// Evicted job's output file was deleted.
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEvictionSparesRunningJobs(t *testing.T) {
	s := NewStore(1)
	first := s.Create(domain.JobKindBatch)
	s.Update(first, func(j *domain.Job) { j.Status = domain.JobStatusRunning })
	second := s.Create(domain.JobKindBatch)

	_, err := s.Get(first)
	assert.NoError(t, err, "running jobs are never evicted")
	_, err = s.Get(second)
	assert.NoError(t, err)
}
