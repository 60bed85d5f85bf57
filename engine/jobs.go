package engine

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
)

// GetRecentJobs returns the most recent background jobs
func (serverHandler *ServerHandler) GetRecentJobs(context echo.Context) error {
	limit, _ := strconv.Atoi(context.QueryParam("limit"))
	if limit < 1 {
		limit = 20
	}
	offset, _ := strconv.Atoi(context.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	jobs, err := serverHandler.DB.GetRecentJobs(limit, offset)
	if err != nil {
		Logger.Error("Unable to fetch recent jobs", "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}
	return context.JSON(http.StatusOK, jobs)
}

// GetActiveJobs returns jobs that are pending or running
func (serverHandler *ServerHandler) GetActiveJobs(context echo.Context) error {
	jobs, err := serverHandler.DB.GetActiveJobs()
	if err != nil {
		Logger.Error("Unable to fetch active jobs", "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}
	return context.JSON(http.StatusOK, jobs)
}

// GetJob returns one job by ID
func (serverHandler *ServerHandler) GetJob(context echo.Context) error {
	jobID, err := ulid.Parse(context.Param("id"))
	if err != nil {
		return context.JSON(http.StatusBadRequest, "Invalid job ID")
	}

	job, err := serverHandler.DB.GetJob(jobID)
	if err != nil {
		if isNotFound(err) {
			return context.JSON(http.StatusNotFound, "Job not found")
		}
		Logger.Error("Unable to fetch job", "jobID", jobID, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}
	return context.JSON(http.StatusOK, job)
}

// RunBackfillNow kicks off a thumbnail backfill outside the schedule
func (serverHandler *ServerHandler) RunBackfillNow(context echo.Context) error {
	go serverHandler.thumbnailBackfillJobFunc(serverHandler.DB)
	return context.JSON(http.StatusAccepted, "Backfill started")
}
