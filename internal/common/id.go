package common

import (
	"github.com/google/uuid"
)

// NewTaskID generates a unique analysis job ID with the "job_" prefix
// Format: job_<uuid>
func NewTaskID() string {
	return "job_" + uuid.New().String()
}
