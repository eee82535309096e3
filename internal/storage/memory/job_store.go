package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maadv/parecer/internal/interfaces"
	"github.com/maadv/parecer/internal/models"
)

// JobStore is an in-process job store. The default backend: job
// records live for the process lifetime unless the retention sweeper
// is enabled.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*models.AnalysisJob
}

// NewJobStore creates an empty in-memory job store
func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*models.AnalysisJob),
	}
}

// Create persists a new pending job record
func (s *JobStore) Create(ctx context.Context, job *models.AnalysisJob) error {
	if job.ID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("job already exists: %s", job.ID)
	}
	s.jobs[job.ID] = cloneJob(job)
	return nil
}

// Get returns a copy of the job record
func (s *JobStore) Get(ctx context.Context, id string) (*models.AnalysisJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	return cloneJob(job), nil
}

// Complete transitions the job to done. Ignored for terminal jobs.
func (s *JobStore) Complete(ctx context.Context, id string, opinion *models.LegalOpinion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	job.MarkDone(opinion)
	return nil
}

// Fail transitions the job to error. Ignored for terminal jobs.
func (s *JobStore) Fail(ctx context.Context, id string, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	job.MarkError(msg)
	return nil
}

// Stats returns per-status counts
func (s *JobStore) Stats(ctx context.Context) (*interfaces.JobStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &interfaces.JobStats{Total: len(s.jobs)}
	for _, job := range s.jobs {
		switch job.Status {
		case models.JobStatusPending:
			stats.Pending++
		case models.JobStatusDone:
			stats.Done++
		case models.JobStatusError:
			stats.Error++
		}
	}
	return stats, nil
}

// Sweep removes terminal jobs older than maxAge
func (s *JobStore) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, job := range s.jobs {
		if job.IsTerminal() && job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed, nil
}

// Close is a no-op for the in-memory store
func (s *JobStore) Close() error {
	return nil
}

// cloneJob keeps callers from mutating stored records through shared
// pointers. The opinion itself is immutable after decode, sharing it
// is fine.
func cloneJob(job *models.AnalysisJob) *models.AnalysisJob {
	copied := *job
	if job.CompletedAt != nil {
		t := *job.CompletedAt
		copied.CompletedAt = &t
	}
	return &copied
}
