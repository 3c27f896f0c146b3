package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gatecrew/site_custody_app/internal/apperrors"
	portssvc "github.com/gatecrew/site_custody_app/internal/core/ports/services"
	coresvc "github.com/gatecrew/site_custody_app/internal/core/services"
	"github.com/gatecrew/site_custody_app/internal/dto"
	"github.com/gatecrew/site_custody_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// visitHandler handles HTTP requests for the visit ledger.
type visitHandler struct {
	visitService portssvc.VisitSvcFacade
}

func newVisitHandler(vs portssvc.VisitSvcFacade) *visitHandler {
	return &visitHandler{visitService: vs}
}

// registerVisitRoutes registers visit lifecycle and listing routes.
func registerVisitRoutes(rg *gin.RouterGroup, visitService portssvc.VisitSvcFacade) {
	h := newVisitHandler(visitService)

	visits := rg.Group("/visits")
	{
		visits.POST("", h.checkIn)
		visits.GET("", h.listVisits)
		visits.GET("/:visitID", h.getVisit)
		visits.POST("/:visitID/checkout", h.checkOut)
	}
}

// alreadyOnSiteResponse is the conflict payload for a duplicate check-in. It
// carries the prior check-in time so the gate UI can show it verbatim.
type alreadyOnSiteResponse struct {
	Error            string `json:"error"`
	VisitID          string `json:"visitID"`
	PriorCheckInTime string `json:"priorCheckInTime"`
}

// exitBlockedResponse tells the operator which gate condition failed.
type exitBlockedResponse struct {
	Error           string   `json:"error"`
	CardOutstanding bool     `json:"cardOutstanding"`
	MissingRemarks  []string `json:"missingRemarks,omitempty"`
}

// checkIn godoc
// @Summary Check a worker in
// @Description Opens a new visit. The identifier may be a worker code or a card code. A worker with an open visit at the site cannot check in again.
// @Tags visits
// @Accept json
// @Produce json
// @Param checkin body dto.CheckInRequest true "Check-in details"
// @Success 201 {object} dto.VisitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Worker not found"
// @Failure 409 {object} alreadyOnSiteResponse "Worker already on site"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /visits [post]
func (h *visitHandler) checkIn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	registrarID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	visit, err := h.visitService.CheckIn(c.Request.Context(), req, registrarID)
	if err != nil {
		var onSiteErr *coresvc.AlreadyOnSiteError
		switch {
		case errors.As(err, &onSiteErr):
			c.JSON(http.StatusConflict, alreadyOnSiteResponse{
				Error:            "ALREADY_ON_SITE",
				VisitID:          onSiteErr.VisitID,
				PriorCheckInTime: onSiteErr.CheckInTime.Format(time.RFC3339),
			})
		case errors.Is(err, coresvc.ErrAlreadyOnSite):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, coresvc.ErrSiteInactive):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No worker matches the identifier"})
		default:
			logger.Error("Failed to check in", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to check in"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToVisitResponse(visit))
}

// getVisit godoc
// @Summary Get a visit by ID
// @Tags visits
// @Produce json
// @Param visitID path string true "Visit ID"
// @Success 200 {object} dto.VisitResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /visits/{visitID} [get]
func (h *visitHandler) getVisit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	visitID := c.Param("visitID")

	visit, err := h.visitService.GetVisit(c.Request.Context(), visitID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Visit not found"})
			return
		}
		logger.Error("Failed to get visit", slog.String("visit_id", visitID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get visit"})
		return
	}

	c.JSON(http.StatusOK, dto.ToVisitResponse(visit))
}

// checkOut godoc
// @Summary Check a worker out
// @Description Closes an on-site visit. The gate card must be confirmed returned and every unreturned item needs a remark; remarks are written onto the borrow records in the same transaction.
// @Tags visits
// @Accept json
// @Produce json
// @Param visitID path string true "Visit ID"
// @Param checkout body dto.CheckOutRequest true "Exit-gate inputs"
// @Success 200 {object} dto.VisitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} exitBlockedResponse "Exit conditions not satisfied, or visit already closed"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /visits/{visitID}/checkout [post]
func (h *visitHandler) checkOut(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	visitID := c.Param("visitID")

	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	registrarID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	visit, err := h.visitService.CheckOut(c.Request.Context(), visitID, req, registrarID)
	if err != nil {
		var blockedErr *coresvc.ExitBlockedError
		switch {
		case errors.As(err, &blockedErr):
			c.JSON(http.StatusConflict, exitBlockedResponse{
				Error:           "EXIT_BLOCKED",
				CardOutstanding: blockedErr.CardOutstanding,
				MissingRemarks:  blockedErr.MissingRemarks,
			})
		case errors.Is(err, coresvc.ErrAlreadyLeft):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Visit not found"})
		default:
			logger.Error("Failed to check out", slog.String("visit_id", visitID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to check out"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToVisitResponse(visit))
}

// listVisits godoc
// @Summary List visits
// @Description Retrieves a filtered, paginated list of visits, newest check-in first. The today flag restricts to visits touching the current site-local day.
// @Tags visits
// @Produce json
// @Param workerID query string false "Filter by worker"
// @Param siteID query string false "Filter by site"
// @Param status query string false "Filter by status" Enums(ON_SITE, LEFT)
// @Param from query string false "Start of check-in window (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "End of check-in window (RFC3339 or YYYY-MM-DD)"
// @Param today query bool false "Restrict to the current site-local day"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListVisitsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /visits [get]
func (h *visitHandler) listVisits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListVisitsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.visitService.ListVisits(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to list visits", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list visits"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
