package interfaces

import (
	"context"

	"github.com/maadv/parecer/internal/models"
)

// AnalysisService dispatches case analyses and exposes job state
type AnalysisService interface {
	// Dispatch validates the request, registers a pending job and
	// queues the analysis. Returns the job ID immediately; the caller
	// polls Status for the outcome.
	Dispatch(ctx context.Context, req *models.AnalysisRequest) (string, error)

	// Status returns the job record for the given ID, or
	// ErrJobNotFound
	Status(ctx context.Context, id string) (*models.AnalysisJob, error)

	// Stats returns job counts by status
	Stats(ctx context.Context) (*JobStats, error)

	// Shutdown drains in-flight analyses
	Shutdown(ctx context.Context) error
}
