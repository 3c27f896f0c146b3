package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gatecrew/site_custody_app/internal/apperrors"
	portssvc "github.com/gatecrew/site_custody_app/internal/core/ports/services"
	"github.com/gatecrew/site_custody_app/internal/dto"
	"github.com/gatecrew/site_custody_app/internal/middleware"
	"github.com/gatecrew/site_custody_app/pkg/config"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler serves the read-only reporting views built by joining
// the visit and custody ledgers.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
	siteLocation          *time.Location
}

func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade, cfg *config.Config) *reconciliationHandler {
	return &reconciliationHandler{
		reconciliationService: rs,
		siteLocation:          cfg.SiteLocation,
	}
}

// registerReconciliationRoutes registers the per-visit summary and per-worker
// timeline views on their natural resource paths.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade, cfg *config.Config) {
	h := newReconciliationHandler(reconciliationService, cfg)

	rg.GET("/visits/:visitID/summary", h.visitSummary)
	rg.GET("/workers/:workerID/timeline", h.dailyTimeline)
}

// visitSummary godoc
// @Summary Get a reconciled visit summary
// @Description Retrieves the visit together with its borrowed/returned counts and open records, computed from ledger state at call time.
// @Tags reconciliation
// @Produce json
// @Param visitID path string true "Visit ID"
// @Success 200 {object} dto.VisitSummaryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /visits/{visitID}/summary [get]
func (h *reconciliationHandler) visitSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	visitID := c.Param("visitID")

	summary, err := h.reconciliationService.VisitSummary(c.Request.Context(), visitID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Visit not found"})
			return
		}
		logger.Error("Failed to build visit summary", slog.String("visit_id", visitID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build visit summary"})
		return
	}

	c.JSON(http.StatusOK, dto.ToVisitSummaryResponse(summary))
}

// dailyTimeline godoc
// @Summary Get a worker's daily activity timeline
// @Description Merges the worker's check-in/check-out and borrow/return events for one site-local day, sorted ascending. An empty day yields a single NO_ACTIVITY entry.
// @Tags reconciliation
// @Produce json
// @Param workerID path string true "Worker ID"
// @Param date query string false "Day in YYYY-MM-DD, site-local (defaults to today)"
// @Success 200 {object} dto.TimelineResponse
// @Failure 400 {object} ErrorResponse "Malformed date"
// @Failure 404 {object} ErrorResponse "Worker not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /workers/{workerID}/timeline [get]
func (h *reconciliationHandler) dailyTimeline(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workerID := c.Param("workerID")

	day := time.Now().In(h.siteLocation)
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, h.siteLocation)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	entries, err := h.reconciliationService.DailyTimeline(c.Request.Context(), workerID, day)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Worker not found"})
			return
		}
		logger.Error("Failed to build timeline", slog.String("worker_id", workerID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build timeline"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTimelineResponse(workerID, day, entries))
}
