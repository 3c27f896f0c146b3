package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/gatecrew/site_custody_app/internal/core/ports/services"
	"github.com/gatecrew/site_custody_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statsHandler serves the gate dashboard counters.
type statsHandler struct {
	statsService portssvc.StatsSvcFacade
}

func newStatsHandler(ss portssvc.StatsSvcFacade) *statsHandler {
	return &statsHandler{statsService: ss}
}

func registerStatsRoutes(rg *gin.RouterGroup, statsService portssvc.StatsSvcFacade) {
	h := newStatsHandler(statsService)

	rg.GET("/stats/overview", h.overview)
}

// overview godoc
// @Summary Get gate dashboard counters
// @Description Computes on-site, entered-today, exited-today, borrowed-today and pending-return counters from live ledger state. Today is the current calendar day in the site's timezone.
// @Tags stats
// @Produce json
// @Param siteID query string false "Scope counters to one site"
// @Success 200 {object} dto.StatsOverviewResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /stats/overview [get]
func (h *statsHandler) overview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var siteID *string
	if s := c.Query("siteID"); s != "" {
		siteID = &s
	}

	resp, err := h.statsService.Overview(c.Request.Context(), siteID)
	if err != nil {
		logger.Error("Failed to compute stats overview", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute stats overview"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
