package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := &exchangeRateHandler{exchangeRateService: exchangeRateService}

	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.createExchangeRate)
		rates.GET("/effective", h.getEffectiveRate)
	}
}

// createExchangeRate godoc
// @Summary Create an exchange rate for a company
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   rate body dto.CreateExchangeRateRequest true "Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Security BearerAuth
// @Router /companies/{companyID}/exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	var req dto.CreateExchangeRateRequest
	if !bindJSON(c, &req, "CreateExchangeRate") {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), c.Param("companyID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create exchange rate")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// getEffectiveRate godoc
// @Summary Get the exchange rate in force on a date
// @Tags exchange-rates
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   from query string true "Source currency"
// @Param   to query string true "Target currency"
// @Param   date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 404 {object} map[string]string "No rate in force"
// @Security BearerAuth
// @Router /companies/{companyID}/exchange-rates/effective [get]
func (h *exchangeRateHandler) getEffectiveRate(c *gin.Context) {
	var params dto.GetEffectiveRateParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	rate, err := h.exchangeRateService.GetEffectiveRate(c.Request.Context(), c.Param("companyID"), params.From, params.To, params.Date)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}
