package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/maadv/parecer/internal/models"
)

// ErrJobNotFound is returned when a job ID has no record
var ErrJobNotFound = errors.New("job not found")

// JobStats summarizes the store for the stats endpoint
type JobStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Done    int `json:"done"`
	Error   int `json:"error"`
}

// JobStore persists analysis job records. Implementations must be
// safe for concurrent use and must keep terminal states write-once:
// Complete and Fail are ignored for a job that is already done or
// errored.
type JobStore interface {
	// Create persists a new pending job record
	Create(ctx context.Context, job *models.AnalysisJob) error

	// Get returns the job for the given ID, or ErrJobNotFound
	Get(ctx context.Context, id string) (*models.AnalysisJob, error)

	// Complete transitions the job to done with its opinion
	Complete(ctx context.Context, id string, opinion *models.LegalOpinion) error

	// Fail transitions the job to error with a client-safe message
	Fail(ctx context.Context, id string, msg string) error

	// Stats returns per-status counts
	Stats(ctx context.Context) (*JobStats, error)

	// Sweep removes terminal jobs older than maxAge and returns the
	// number removed
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)

	// Close releases storage resources
	Close() error
}
