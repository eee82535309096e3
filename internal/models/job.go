package models

import (
	"time"
)

// JobStatus represents the lifecycle state of an analysis job
type JobStatus string

const (
	// JobStatusPending indicates the job is queued or running
	JobStatusPending JobStatus = "pending"
	// JobStatusDone indicates the analysis completed with a stored opinion
	JobStatusDone JobStatus = "done"
	// JobStatusError indicates the analysis failed terminally
	JobStatusError JobStatus = "error"
)

// AnalysisJob tracks one dispatched case analysis from intake to a
// terminal state. Terminal states are write-once: a done or errored
// job never changes again.
type AnalysisJob struct {
	ID          string        `json:"id" badgerhold:"key"`
	Status      JobStatus     `json:"status"`
	AreaDireito string        `json:"area_direito"`
	Provider    string        `json:"provider,omitempty"`
	Model       string        `json:"model,omitempty"`
	Attachments int           `json:"attachments"`
	Opinion     *LegalOpinion `json:"opinion,omitempty"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// NewAnalysisJob creates a pending job record
func NewAnalysisJob(id, areaDireito string, attachments int) *AnalysisJob {
	now := time.Now()
	return &AnalysisJob{
		ID:          id,
		Status:      JobStatusPending,
		AreaDireito: areaDireito,
		Attachments: attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsTerminal reports whether the job reached a final state
func (j *AnalysisJob) IsTerminal() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusError
}

// MarkDone transitions the job to done with its opinion.
// No-op when the job is already terminal.
func (j *AnalysisJob) MarkDone(opinion *LegalOpinion) bool {
	if j.IsTerminal() {
		return false
	}
	now := time.Now()
	j.Status = JobStatusDone
	j.Opinion = opinion
	j.Error = ""
	j.UpdatedAt = now
	j.CompletedAt = &now
	return true
}

// MarkError transitions the job to error with a client-safe message.
// No-op when the job is already terminal.
func (j *AnalysisJob) MarkError(msg string) bool {
	if j.IsTerminal() {
		return false
	}
	now := time.Now()
	j.Status = JobStatusError
	j.Error = msg
	j.UpdatedAt = now
	j.CompletedAt = &now
	return true
}
