package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/fscore/internal/scheduler"
	"github.com/wonny/fscore/pkg/logger"
)

// JobRunner is the scheduler surface exposed over HTTP
type JobRunner interface {
	GetJobStats() map[string]scheduler.JobStats
	RunJob(jobName string) (scheduler.JobResult, error)
}

// JobsHandler exposes scheduled batch jobs
type JobsHandler struct {
	scheduler JobRunner
	logger    *logger.Logger
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(s JobRunner, log *logger.Logger) *JobsHandler {
	return &JobsHandler{
		scheduler: s,
		logger:    log,
	}
}

// List returns per-job statistics
// GET /api/jobs
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.scheduler.GetJobStats())
}

// Run triggers a job now and waits for it
// POST /api/jobs/{name}/run
func (h *JobsHandler) Run(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	result, err := h.scheduler.RunJob(name)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"job":     name,
		"success": result.Success,
	}).Info("Job triggered via API")

	respondJSON(w, http.StatusOK, result)
}
