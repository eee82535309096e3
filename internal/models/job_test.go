package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnalysisJob(t *testing.T) {
	job := NewAnalysisJob("job_abc", "Direito Civil", 2)

	assert.Equal(t, "job_abc", job.ID)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, "Direito Civil", job.AreaDireito)
	assert.Equal(t, 2, job.Attachments)
	assert.False(t, job.IsTerminal())
	assert.Nil(t, job.CompletedAt)
}

func TestMarkDone(t *testing.T) {
	job := NewAnalysisJob("job_1", "Direito Penal", 0)
	opinion := &LegalOpinion{ResumoEstrategico: "sintese"}

	assert.True(t, job.MarkDone(opinion))
	assert.Equal(t, JobStatusDone, job.Status)
	assert.Same(t, opinion, job.Opinion)
	assert.True(t, job.IsTerminal())
	require.NotNil(t, job.CompletedAt)
}

func TestMarkError(t *testing.T) {
	job := NewAnalysisJob("job_2", "Direito do Trabalho", 1)

	assert.True(t, job.MarkError("provider timeout"))
	assert.Equal(t, JobStatusError, job.Status)
	assert.Equal(t, "provider timeout", job.Error)
	assert.True(t, job.IsTerminal())
}

func TestTerminalStatesAreWriteOnce(t *testing.T) {
	done := NewAnalysisJob("job_3", "Direito Civil", 0)
	require.True(t, done.MarkDone(&LegalOpinion{ResumoEstrategico: "first"}))
	assert.False(t, done.MarkError("late failure"))
	assert.Equal(t, JobStatusDone, done.Status)
	assert.Empty(t, done.Error)
	assert.False(t, done.MarkDone(&LegalOpinion{ResumoEstrategico: "second"}))
	assert.Equal(t, "first", done.Opinion.ResumoEstrategico)

	failed := NewAnalysisJob("job_4", "Direito Civil", 0)
	require.True(t, failed.MarkError("upload rejected"))
	assert.False(t, failed.MarkDone(&LegalOpinion{}))
	assert.Equal(t, JobStatusError, failed.Status)
	assert.Equal(t, "upload rejected", failed.Error)
}
