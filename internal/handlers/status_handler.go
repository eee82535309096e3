package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/maadv/parecer/internal/common"
	"github.com/maadv/parecer/internal/interfaces"
	"github.com/maadv/parecer/internal/models"
)

type StatusHandler struct {
	service interfaces.AnalysisService
	logger  arbor.ILogger
}

func NewStatusHandler(service interfaces.AnalysisService) *StatusHandler {
	return &StatusHandler{
		service: service,
		logger:  common.GetLogger(),
	}
}

// StatusHandler serves GET /status/{task_id}. Pending jobs report as
// "processing"; terminal jobs carry either the opinion or the error.
func (h *StatusHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	taskID := strings.TrimPrefix(r.URL.Path, "/status/")
	taskID = strings.TrimSuffix(taskID, "/")
	if taskID == "" || strings.Contains(taskID, "/") {
		WriteError(w, http.StatusBadRequest, "missing task ID")
		return
	}

	job, err := h.service.Status(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, interfaces.ErrJobNotFound) {
			WriteError(w, http.StatusNotFound, "task not found")
			return
		}
		h.logger.Error().Err(err).Str("task_id", taskID).Msg("Failed to load job status")
		WriteError(w, http.StatusInternalServerError, "failed to load task status")
		return
	}

	switch job.Status {
	case models.JobStatusDone:
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "done",
			"resultado": job.Opinion,
		})
	case models.JobStatusError:
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "error",
			"erro":   job.Error,
		})
	default:
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "processing",
		})
	}
}

// JobStatsHandler returns job counts by status
func (h *StatusHandler) JobStatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load job stats")
		WriteError(w, http.StatusInternalServerError, "failed to load job stats")
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}
