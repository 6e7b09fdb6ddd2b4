package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/SscSPs/money_reconcile/internal/middleware"
	"github.com/gin-gonic/gin"
)

// moveHandler handles HTTP requests related to moves and their lines.
type moveHandler struct {
	moveService portssvc.MoveSvcFacade
}

func newMoveHandler(ms portssvc.MoveSvcFacade) *moveHandler {
	return &moveHandler{moveService: ms}
}

func registerMoveRoutes(rg *gin.RouterGroup, moveService portssvc.MoveSvcFacade) {
	h := newMoveHandler(moveService)

	moves := rg.Group("/moves")
	{
		moves.POST("", h.createMove)
		moves.GET("/:moveID", h.getMove)
		moves.POST("/:moveID/post", h.postMove)
	}
	rg.PATCH("/lines/:lineID", h.updateLine)
}

// createMove godoc
// @Summary Create a move
// @Description Creates a balanced move. With post=true the move is posted and its lines become reconcilable.
// @Tags moves
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   move body dto.CreateMoveRequest true "Move with lines"
// @Success 201 {object} dto.MoveResponse
// @Failure 400 {object} map[string]string "Unbalanced or invalid move"
// @Security BearerAuth
// @Router /companies/{companyID}/moves [post]
func (h *moveHandler) createMove(c *gin.Context) {
	var req dto.CreateMoveRequest
	if !bindJSON(c, &req, "CreateMove") {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	move, err := h.moveService.CreateMove(c.Request.Context(), c.Param("companyID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create move")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Move created",
		slog.String("move_id", move.MoveID), slog.String("state", string(move.State)), slog.Int("line_count", len(move.Lines)))
	c.JSON(http.StatusCreated, dto.ToMoveResponse(move))
}

// getMove godoc
// @Summary Get a move with its lines
// @Tags moves
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   moveID path string true "Move ID"
// @Success 200 {object} dto.MoveResponse
// @Failure 404 {object} map[string]string "Move not found"
// @Security BearerAuth
// @Router /companies/{companyID}/moves/{moveID} [get]
func (h *moveHandler) getMove(c *gin.Context) {
	move, err := h.moveService.GetMoveByID(c.Request.Context(), c.Param("companyID"), c.Param("moveID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve move")
		return
	}
	c.JSON(http.StatusOK, dto.ToMoveResponse(move))
}

// postMove godoc
// @Summary Post a draft move
// @Tags moves
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   moveID path string true "Move ID"
// @Success 200 {object} dto.MoveResponse
// @Failure 409 {object} map[string]string "Move already posted"
// @Security BearerAuth
// @Router /companies/{companyID}/moves/{moveID}/post [post]
func (h *moveHandler) postMove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	move, err := h.moveService.PostMove(c.Request.Context(), c.Param("companyID"), c.Param("moveID"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to post move")
		return
	}
	c.JSON(http.StatusOK, dto.ToMoveResponse(move))
}

// updateLine godoc
// @Summary Edit a journal line
// @Description Amount and account edits are rejected while the line takes part in a reconciliation.
// @Tags moves
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   lineID path string true "Line ID"
// @Param   line body dto.UpdateLineRequest true "Fields to change"
// @Success 200 {object} dto.LineResponse
// @Security BearerAuth
// @Router /companies/{companyID}/lines/{lineID} [patch]
func (h *moveHandler) updateLine(c *gin.Context) {
	var req dto.UpdateLineRequest
	if !bindJSON(c, &req, "UpdateLine") {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	line, err := h.moveService.UpdateLine(c.Request.Context(), c.Param("companyID"), c.Param("lineID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update line")
		return
	}
	c.JSON(http.StatusOK, dto.ToLineResponse(line))
}
