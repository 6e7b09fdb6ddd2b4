package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/SscSPs/money_reconcile/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler handles HTTP requests that reconcile and unreconcile lines.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvc
}

func newReconciliationHandler(rs portssvc.ReconciliationSvc) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: rs}
}

func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvc) {
	h := newReconciliationHandler(reconciliationService)

	recs := rg.Group("/reconciliations")
	{
		recs.POST("", h.reconcile)
		recs.POST("/remove", h.unreconcile)
	}
}

// reconcile godoc
// @Summary Reconcile journal lines
// @Description Matches the given lines, plus every line already linked to them, and closes the group when nothing remains open.
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   request body dto.ReconcileRequest true "Lines to reconcile"
// @Success 200 {object} dto.ReconcileResponse
// @Failure 400 {object} map[string]string "Lines cannot be reconciled together"
// @Failure 409 {object} map[string]string "Concurrent modification, retry"
// @Failure 422 {object} map[string]string "Exchange difference settings missing"
// @Security BearerAuth
// @Router /companies/{companyID}/reconciliations [post]
func (h *reconciliationHandler) reconcile(c *gin.Context) {
	var req dto.ReconcileRequest
	if !bindJSON(c, &req, "Reconcile") {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to reconcile lines", slog.Int("line_count", len(req.LineIDs)))

	result, err := h.reconciliationService.Reconcile(c.Request.Context(), c.Param("companyID"), req.LineIDs, req.Options(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to reconcile lines")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconcileResponse(result))
}

// unreconcile godoc
// @Summary Remove reconciliations
// @Description Removes every partial and full reconciliation touching the lines and reverses their exchange difference moves.
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   request body dto.UnreconcileRequest true "Lines to release"
// @Success 200 {object} dto.UnreconcileResponse
// @Security BearerAuth
// @Router /companies/{companyID}/reconciliations/remove [post]
func (h *reconciliationHandler) unreconcile(c *gin.Context) {
	var req dto.UnreconcileRequest
	if !bindJSON(c, &req, "Unreconcile") {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.reconciliationService.Unreconcile(c.Request.Context(), c.Param("companyID"), req.LineIDs, userID)
	if err != nil {
		respondWithError(c, err, "Failed to remove reconciliations")
		return
	}
	c.JSON(http.StatusOK, dto.ToUnreconcileResponse(result))
}
