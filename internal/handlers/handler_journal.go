package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := &journalHandler{journalService: journalService}

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("/:journalID", h.getJournal)
	}
}

// createJournal godoc
// @Summary Create a journal
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   journal body dto.CreateJournalRequest true "Journal details"
// @Success 201 {object} dto.JournalResponse
// @Security BearerAuth
// @Router /companies/{companyID}/journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	var req dto.CreateJournalRequest
	if !bindJSON(c, &req, "CreateJournal") {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	journal, err := h.journalService.CreateJournal(c.Request.Context(), c.Param("companyID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create journal")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal
// @Tags journals
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Security BearerAuth
// @Router /companies/{companyID}/journals/{journalID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	journal, err := h.journalService.GetJournalByID(c.Request.Context(), c.Param("companyID"), c.Param("journalID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}
