package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maadv/parecer/internal/interfaces"
	"github.com/maadv/parecer/internal/models"
)

func TestStatusHandler_Processing(t *testing.T) {
	service := &fakeAnalysisService{
		job: models.NewAnalysisJob("job_abc", "Direito Civil", 0),
	}
	handler := NewStatusHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/status/job_abc", nil)
	rec := httptest.NewRecorder()

	handler.StatusHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "processing", resp["status"])
	assert.NotContains(t, resp, "resultado")
	assert.NotContains(t, resp, "erro")
}

func TestStatusHandler_Done(t *testing.T) {
	job := models.NewAnalysisJob("job_abc", "Direito Civil", 0)
	job.MarkDone(&models.LegalOpinion{
		ResumoEstrategico: "Tese de responsabilidade objetiva.",
		BaseLegal:         []string{"Art. 14 do CDC"},
		PecaProcessual:    "EXCELENTISSIMO SENHOR DOUTOR JUIZ",
	})
	handler := NewStatusHandler(&fakeAnalysisService{job: job})

	req := httptest.NewRequest(http.MethodGet, "/status/job_abc", nil)
	rec := httptest.NewRecorder()

	handler.StatusHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status    string               `json:"status"`
		Resultado *models.LegalOpinion `json:"resultado"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "done", resp.Status)
	require.NotNil(t, resp.Resultado)
	assert.Equal(t, "Tese de responsabilidade objetiva.", resp.Resultado.ResumoEstrategico)
}

func TestStatusHandler_Error(t *testing.T) {
	job := models.NewAnalysisJob("job_abc", "Direito Civil", 0)
	job.MarkError("provider quota exhausted")
	handler := NewStatusHandler(&fakeAnalysisService{job: job})

	req := httptest.NewRequest(http.MethodGet, "/status/job_abc", nil)
	rec := httptest.NewRecorder()

	handler.StatusHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "provider quota exhausted", resp["erro"])
}

func TestStatusHandler_NotFound(t *testing.T) {
	handler := NewStatusHandler(&fakeAnalysisService{statusErr: interfaces.ErrJobNotFound})

	req := httptest.NewRequest(http.MethodGet, "/status/job_missing", nil)
	rec := httptest.NewRecorder()

	handler.StatusHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusHandler_MissingID(t *testing.T) {
	handler := NewStatusHandler(&fakeAnalysisService{})

	req := httptest.NewRequest(http.MethodGet, "/status/", nil)
	rec := httptest.NewRecorder()

	handler.StatusHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobStatsHandler(t *testing.T) {
	handler := NewStatusHandler(&fakeAnalysisService{
		stats: &interfaces.JobStats{Total: 3, Pending: 1, Done: 2},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/stats", nil)
	rec := httptest.NewRecorder()

	handler.JobStatsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats interfaces.JobStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Done)
}
