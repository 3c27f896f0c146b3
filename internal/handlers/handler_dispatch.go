package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gatecrew/site_custody_app/internal/apperrors"
	portssvc "github.com/gatecrew/site_custody_app/internal/core/ports/services"
	coresvc "github.com/gatecrew/site_custody_app/internal/core/services"
	"github.com/gatecrew/site_custody_app/internal/dto"
	"github.com/gatecrew/site_custody_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// dispatchHandler handles HTTP requests for bulk notification jobs.
type dispatchHandler struct {
	dispatchService portssvc.DispatchSvcFacade
}

func newDispatchHandler(ds portssvc.DispatchSvcFacade) *dispatchHandler {
	return &dispatchHandler{dispatchService: ds}
}

func registerDispatchRoutes(rg *gin.RouterGroup, dispatchService portssvc.DispatchSvcFacade) {
	h := newDispatchHandler(dispatchService)

	dispatches := rg.Group("/dispatches")
	{
		dispatches.POST("", h.createDispatch)
		dispatches.GET("/:jobID", h.getDispatch)
		dispatches.POST("/:jobID/cancel", h.cancelDispatch)
	}
}

// createDispatch godoc
// @Summary Enqueue a bulk notification job
// @Description Creates a dispatch job for the given workers. The job runs in the background; poll GET /dispatches/{jobID} until the status is terminal.
// @Tags dispatches
// @Accept json
// @Produce json
// @Param dispatch body dto.CreateDispatchRequest true "Dispatch details"
// @Success 202 {object} dto.DispatchJobResponse
// @Failure 400 {object} ErrorResponse "Invalid input or unknown worker IDs"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /dispatches [post]
func (h *dispatchHandler) createDispatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	job, err := h.dispatchService.CreateDispatch(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create dispatch job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create dispatch job"})
		return
	}

	c.JSON(http.StatusAccepted, dto.ToDispatchJobResponse(job))
}

// getDispatch godoc
// @Summary Get a dispatch job
// @Description Retrieves a job's current state for polling.
// @Tags dispatches
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} dto.DispatchJobResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /dispatches/{jobID} [get]
func (h *dispatchHandler) getDispatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("jobID")

	job, err := h.dispatchService.GetDispatch(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Dispatch job not found"})
			return
		}
		logger.Error("Failed to get dispatch job", slog.String("job_id", jobID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get dispatch job"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDispatchJobResponse(job))
}

// cancelDispatch godoc
// @Summary Request cancellation of a dispatch job
// @Description Sets the cancel flag on a pending or processing job. Fire-and-forget: the job stays non-terminal until the processor observes the flag, so keep polling.
// @Tags dispatches
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 202 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Job already finished"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /dispatches/{jobID}/cancel [post]
func (h *dispatchHandler) cancelDispatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("jobID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.dispatchService.CancelDispatch(c.Request.Context(), jobID, userID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Dispatch job not found"})
		case errors.Is(err, coresvc.ErrJobFinished):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to cancel dispatch job", slog.String("job_id", jobID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to cancel dispatch job"})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "cancel requested"})
}
