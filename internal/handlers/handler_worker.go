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

// workerHandler handles HTTP requests for the worker directory, including the
// gate-side identifier resolution endpoints.
type workerHandler struct {
	workerService    portssvc.WorkerSvcFacade
	directoryService portssvc.DirectorySvcFacade
}

func newWorkerHandler(ws portssvc.WorkerSvcFacade, ds portssvc.DirectorySvcFacade) *workerHandler {
	return &workerHandler{
		workerService:    ws,
		directoryService: ds,
	}
}

// registerWorkerRoutes registers worker directory and resolution routes.
func registerWorkerRoutes(rg *gin.RouterGroup, workerService portssvc.WorkerSvcFacade, directoryService portssvc.DirectorySvcFacade) {
	h := newWorkerHandler(workerService, directoryService)

	workers := rg.Group("/workers")
	{
		workers.POST("", h.createWorker)
		workers.GET("", h.listWorkers)
		workers.GET("/resolve/:identifier", h.resolveWorker)
		workers.GET("/resolve/:identifier/open-visit", h.resolveOpenVisit)
		workers.GET("/:workerID", h.getWorker)
		workers.PUT("/:workerID", h.updateWorker)
	}
}

// createWorker godoc
// @Summary Register a new worker
// @Description Registers a worker in the directory. Worker code and card ID must be unique.
// @Tags workers
// @Accept json
// @Produce json
// @Param worker body dto.CreateWorkerRequest true "Worker details"
// @Success 201 {object} dto.WorkerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Worker code or card ID already taken"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /workers [post]
func (h *workerHandler) createWorker(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	worker, err := h.workerService.CreateWorker(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create worker", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create worker"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkerResponse(worker))
}

// getWorker godoc
// @Summary Get a worker by ID
// @Tags workers
// @Produce json
// @Param workerID path string true "Worker ID"
// @Success 200 {object} dto.WorkerResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /workers/{workerID} [get]
func (h *workerHandler) getWorker(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workerID := c.Param("workerID")

	worker, err := h.workerService.GetWorkerByID(c.Request.Context(), workerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Worker not found"})
			return
		}
		logger.Error("Failed to get worker", slog.String("worker_id", workerID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get worker"})
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkerResponse(worker))
}

// updateWorker godoc
// @Summary Update a worker
// @Description Updates a worker's contact and card details. Omitted fields are left unchanged.
// @Tags workers
// @Accept json
// @Produce json
// @Param workerID path string true "Worker ID"
// @Param worker body dto.UpdateWorkerRequest true "Fields to update"
// @Success 200 {object} dto.WorkerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Card ID already taken"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /workers/{workerID} [put]
func (h *workerHandler) updateWorker(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workerID := c.Param("workerID")

	var req dto.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	worker, err := h.workerService.UpdateWorker(c.Request.Context(), workerID, req, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Worker not found"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update worker", slog.String("worker_id", workerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update worker"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkerResponse(worker))
}

// listWorkers godoc
// @Summary List workers
// @Description Retrieves a paginated list of workers, newest first.
// @Tags workers
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListWorkersResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /workers [get]
func (h *workerHandler) listWorkers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListWorkersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.workerService.ListWorkers(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to list workers", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list workers"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// resolveWorker godoc
// @Summary Resolve a scanned identifier
// @Description Resolves a worker code or physical-card code to a worker profile. The worker code is tried first.
// @Tags workers
// @Produce json
// @Param identifier path string true "Worker code or card code"
// @Success 200 {object} dto.ResolveWorkerResponse
// @Failure 404 {object} ErrorResponse "No worker matches the identifier"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /workers/resolve/{identifier} [get]
func (h *workerHandler) resolveWorker(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	identifier := c.Param("identifier")

	worker, err := h.directoryService.ResolveWorker(c.Request.Context(), identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No worker matches the identifier"})
			return
		}
		logger.Error("Failed to resolve identifier", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to resolve identifier"})
		return
	}

	c.JSON(http.StatusOK, dto.ResolveWorkerResponse{Worker: dto.ToWorkerResponse(worker)})
}

// resolveOpenVisit godoc
// @Summary Resolve an identifier to its open visit
// @Description Resolves a worker code or card code and returns the worker with their current on-site visit. Used at the gate before lending items or checking out.
// @Tags workers
// @Produce json
// @Param identifier path string true "Worker code or card code"
// @Success 200 {object} dto.ResolveWorkerResponse
// @Failure 404 {object} ErrorResponse "Worker not found or not on site"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /workers/resolve/{identifier}/open-visit [get]
func (h *workerHandler) resolveOpenVisit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	identifier := c.Param("identifier")

	worker, visit, err := h.directoryService.FindOpenVisit(c.Request.Context(), identifier)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No worker matches the identifier"})
		case errors.Is(err, coresvc.ErrNoOpenVisit):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to resolve open visit", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to resolve open visit"})
		}
		return
	}

	visitResp := dto.ToVisitResponse(visit)
	c.JSON(http.StatusOK, dto.ResolveWorkerResponse{
		Worker:    dto.ToWorkerResponse(worker),
		OpenVisit: &visitResp,
	})
}
