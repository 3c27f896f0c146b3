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

// borrowHandler handles HTTP requests for the custody ledger.
type borrowHandler struct {
	custodyService portssvc.CustodySvcFacade
}

func newBorrowHandler(cs portssvc.CustodySvcFacade) *borrowHandler {
	return &borrowHandler{custodyService: cs}
}

// registerBorrowRoutes registers custody ledger routes. The open-items view
// is addressed by visit, so it lives under /visits.
func registerBorrowRoutes(rg *gin.RouterGroup, custodyService portssvc.CustodySvcFacade) {
	h := newBorrowHandler(custodyService)

	borrows := rg.Group("/borrows")
	{
		borrows.POST("", h.borrow)
		borrows.POST("/batch", h.borrowBatch)
		borrows.POST("/return", h.returnMany)
		borrows.GET("", h.listBorrowRecords)
		borrows.GET("/:recordID", h.getBorrowRecord)
		borrows.POST("/:recordID/return", h.returnRecord)
	}

	rg.GET("/visits/:visitID/open-items", h.openItemsForVisit)
}

// borrow godoc
// @Summary Lend an item
// @Description Creates a borrow record bound to an open visit. The visit must be ON_SITE and the category must exist.
// @Tags borrows
// @Accept json
// @Produce json
// @Param borrow body dto.BorrowRequest true "Borrow details"
// @Success 201 {object} dto.BorrowRecordResponse
// @Failure 400 {object} ErrorResponse "Invalid input or unknown category"
// @Failure 404 {object} ErrorResponse "Visit not found"
// @Failure 409 {object} ErrorResponse "Visit not on site"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /borrows [post]
func (h *borrowHandler) borrow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	registrarID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	record, err := h.custodyService.Borrow(c.Request.Context(), req, registrarID)
	if err != nil {
		switch {
		case errors.Is(err, coresvc.ErrNotOnSite):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, coresvc.ErrUnknownCategory):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Visit not found"})
		default:
			logger.Error("Failed to create borrow record", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create borrow record"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToBorrowRecordResponse(record))
}

// borrowBatch godoc
// @Summary Lend a batch of items
// @Description Commits a staged batch against one visit, reporting each item's outcome. Valid items succeed even when siblings fail.
// @Tags borrows
// @Accept json
// @Produce json
// @Param batch body dto.BorrowBatchRequest true "Batch details"
// @Success 200 {object} dto.BorrowBatchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Visit not found"
// @Failure 409 {object} ErrorResponse "Visit not on site"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /borrows/batch [post]
func (h *borrowHandler) borrowBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BorrowBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	registrarID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.custodyService.BorrowBatch(c.Request.Context(), req, registrarID)
	if err != nil {
		switch {
		case errors.Is(err, coresvc.ErrNotOnSite):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Visit not found"})
		default:
			logger.Error("Failed to commit borrow batch", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to commit borrow batch"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getBorrowRecord godoc
// @Summary Get a borrow record by ID
// @Tags borrows
// @Produce json
// @Param recordID path string true "Record ID"
// @Success 200 {object} dto.BorrowRecordResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /borrows/{recordID} [get]
func (h *borrowHandler) getBorrowRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recordID := c.Param("recordID")

	record, err := h.custodyService.GetBorrowRecord(c.Request.Context(), recordID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Borrow record not found"})
			return
		}
		logger.Error("Failed to get borrow record", slog.String("record_id", recordID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get borrow record"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBorrowRecordResponse(record))
}

// returnRecord godoc
// @Summary Mark a borrow record returned
// @Description Marks the record returned. Returning an already-returned record is a no-op success.
// @Tags borrows
// @Produce json
// @Param recordID path string true "Record ID"
// @Success 200 {object} dto.BorrowRecordResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /borrows/{recordID}/return [post]
func (h *borrowHandler) returnRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recordID := c.Param("recordID")

	registrarID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	record, err := h.custodyService.Return(c.Request.Context(), recordID, registrarID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Borrow record not found"})
			return
		}
		logger.Error("Failed to return borrow record", slog.String("record_id", recordID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to return borrow record"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBorrowRecordResponse(record))
}

// returnMany godoc
// @Summary Mark multiple borrow records returned
// @Description Marks each record returned, reporting per-record outcomes. Unknown records fail individually without aborting the rest.
// @Tags borrows
// @Accept json
// @Produce json
// @Param request body dto.ReturnManyRequest true "Record IDs"
// @Success 200 {object} dto.ReturnManyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /borrows/return [post]
func (h *borrowHandler) returnMany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReturnManyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	registrarID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.custodyService.ReturnMany(c.Request.Context(), req.RecordIDs, registrarID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to return borrow records", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to return borrow records"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listBorrowRecords godoc
// @Summary List borrow records
// @Description Retrieves borrow records for a visit or a worker, newest first. Exactly one of visitID or workerID must be supplied.
// @Tags borrows
// @Produce json
// @Param visitID query string false "Filter by visit"
// @Param workerID query string false "Filter by worker"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListBorrowRecordsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /borrows [get]
func (h *borrowHandler) listBorrowRecords(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListBorrowRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.custodyService.ListBorrowRecords(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to list borrow records", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list borrow records"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// openItemsForVisit godoc
// @Summary List a visit's unreturned items
// @Description Retrieves the visit's open borrow records, the exit gate's working set.
// @Tags borrows
// @Produce json
// @Param visitID path string true "Visit ID"
// @Success 200 {array} dto.BorrowRecordResponse
// @Failure 404 {object} ErrorResponse "Visit not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /visits/{visitID}/open-items [get]
func (h *borrowHandler) openItemsForVisit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	visitID := c.Param("visitID")

	records, err := h.custodyService.OpenItemsForVisit(c.Request.Context(), visitID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Visit not found"})
			return
		}
		logger.Error("Failed to list open items", slog.String("visit_id", visitID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list open items"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBorrowRecordResponses(records))
}
