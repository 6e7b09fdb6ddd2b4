package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/SscSPs/money_reconcile/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to currencies.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{
		currencyService: cs,
	}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.createCurrency)
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:code", h.getCurrencyByCode)
	}
}

// createCurrency godoc
// @Summary Create a new currency
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Currency code already exists"
// @Security BearerAuth
// @Router /currencies [post]
func (h *currencyHandler) createCurrency(c *gin.Context) {
	var req dto.CreateCurrencyRequest
	if !bindJSON(c, &req, "CreateCurrency") {
		return
	}
	creatorUserID, ok := currentUserID(c)
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to create currency", slog.String("currency_code", req.CurrencyCode))

	createdCurrency, err := h.currencyService.CreateCurrency(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, err, "Failed to create currency")
		return
	}

	logger.Info("Currency created successfully", slog.String("currency_code", createdCurrency.CurrencyCode))
	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(createdCurrency))
}

// getCurrencyByCode godoc
// @Summary Get a currency by code
// @Tags currencies
// @Produce  json
// @Param   code path string true "Currency Code (3 letters)"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} map[string]string "Currency not found"
// @Security BearerAuth
// @Router /currencies/{code} [get]
func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	currencyCode := strings.ToUpper(c.Param("code"))
	if len(currencyCode) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency code must be 3 letters"})
		return
	}

	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), currencyCode)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve currency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// listCurrencies godoc
// @Summary List all currencies
// @Tags currencies
// @Produce  json
// @Success 200 {array} dto.CurrencyResponse
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list currencies")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}
