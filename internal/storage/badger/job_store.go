package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/maadv/parecer/internal/interfaces"
	"github.com/maadv/parecer/internal/models"
)

// JobStore implements interfaces.JobStore backed by Badger.
// Survives restarts. Graceful shutdown drains the worker pool, so
// pending records from a previous process only remain after a crash;
// no worker resumes them and they stay pending until swept.
type JobStore struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewJobStore creates a Badger-backed job store
func NewJobStore(db *BadgerDB, logger arbor.ILogger) *JobStore {
	return &JobStore{
		db:     db,
		logger: logger,
	}
}

// Create persists a new pending job record
func (s *JobStore) Create(ctx context.Context, job *models.AnalysisJob) error {
	if job.ID == "" {
		return fmt.Errorf("job ID is required")
	}
	if err := s.db.Store().Insert(job.ID, job); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("job already exists: %s", job.ID)
		}
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

// Get returns the job for the given ID
func (s *JobStore) Get(ctx context.Context, id string) (*models.AnalysisJob, error) {
	var job models.AnalysisJob
	if err := s.db.Store().Get(id, &job); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// Complete transitions the job to done. Ignored for terminal jobs.
func (s *JobStore) Complete(ctx context.Context, id string, opinion *models.LegalOpinion) error {
	return s.transition(id, func(job *models.AnalysisJob) bool {
		return job.MarkDone(opinion)
	})
}

// Fail transitions the job to error. Ignored for terminal jobs.
func (s *JobStore) Fail(ctx context.Context, id string, msg string) error {
	return s.transition(id, func(job *models.AnalysisJob) bool {
		return job.MarkError(msg)
	})
}

// transition applies a state change inside a single upsert so
// concurrent completions cannot interleave reads and writes
func (s *JobStore) transition(id string, apply func(*models.AnalysisJob) bool) error {
	err := s.db.Store().UpdateMatching(&models.AnalysisJob{}, badgerhold.Where(badgerhold.Key).Eq(id), func(record interface{}) error {
		job, ok := record.(*models.AnalysisJob)
		if !ok {
			return fmt.Errorf("unexpected record type %T", record)
		}
		if !apply(job) {
			s.logger.Debug().Str("job_id", id).Str("status", string(job.Status)).Msg("Ignoring transition on terminal job")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	// UpdateMatching reports nothing for an empty match set
	var existing models.AnalysisJob
	if err := s.db.Store().Get(id, &existing); err == badgerhold.ErrNotFound {
		return interfaces.ErrJobNotFound
	}
	return nil
}

// Stats returns per-status counts
func (s *JobStore) Stats(ctx context.Context) (*interfaces.JobStats, error) {
	var jobs []models.AnalysisJob
	if err := s.db.Store().Find(&jobs, nil); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	stats := &interfaces.JobStats{Total: len(jobs)}
	for i := range jobs {
		switch jobs[i].Status {
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

// Sweep removes terminal jobs completed before the cutoff
func (s *JobStore) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	var jobs []models.AnalysisJob
	query := badgerhold.Where("Status").In(models.JobStatusDone, models.JobStatusError)
	if err := s.db.Store().Find(&jobs, query); err != nil {
		return 0, fmt.Errorf("failed to list terminal jobs: %w", err)
	}

	removed := 0
	for i := range jobs {
		if jobs[i].CompletedAt == nil || !jobs[i].CompletedAt.Before(cutoff) {
			continue
		}
		if err := s.db.Store().Delete(jobs[i].ID, &models.AnalysisJob{}); err != nil {
			s.logger.Warn().Err(err).Str("job_id", jobs[i].ID).Msg("Failed to sweep job")
			continue
		}
		removed++
	}
	return removed, nil
}

// Close closes the underlying database
func (s *JobStore) Close() error {
	return s.db.Close()
}
