package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/SscSPs/money_reconcile/internal/middleware"
	"github.com/gin-gonic/gin"
)

// companyHandler handles HTTP requests related to companies and their settings.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{companyService: cs}
}

// registerCompanyRoutes registers the company routes and nests every company-scoped
// resource under /companies/:companyID.
func registerCompanyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newCompanyHandler(services.Company)

	companies := rg.Group("/companies")
	{
		companies.POST("", h.createCompany)
	}

	company := rg.Group("/companies/:companyID")
	{
		company.GET("", h.getCompany)
		company.PUT("/settings", h.updateCompanySettings)

		registerAccountRoutes(company, services.Account, services.Move)
		registerJournalRoutes(company, services.Journal)
		registerMoveRoutes(company, services.Move)
		registerExchangeRateRoutes(company, services.ExchangeRate)
		registerReconciliationRoutes(company, services.Reconciliation)
	}
}

// createCompany godoc
// @Summary Create a company
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} dto.CompanyResponse
// @Security BearerAuth
// @Router /companies [post]
func (h *companyHandler) createCompany(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if !bindJSON(c, &req, "CreateCompany") {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create company")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Company created", slog.String("company_id", company.CompanyID))
	c.JSON(http.StatusCreated, dto.ToCompanyResponse(company))
}

// getCompany godoc
// @Summary Get a company
// @Tags companies
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {object} dto.CompanyResponse
// @Security BearerAuth
// @Router /companies/{companyID} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	company, err := h.companyService.GetCompanyByID(c.Request.Context(), c.Param("companyID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// updateCompanySettings godoc
// @Summary Update the lock date and exchange difference settings of a company
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   settings body dto.UpdateCompanySettingsRequest true "Settings"
// @Success 200 {object} dto.CompanyResponse
// @Security BearerAuth
// @Router /companies/{companyID}/settings [put]
func (h *companyHandler) updateCompanySettings(c *gin.Context) {
	var req dto.UpdateCompanySettingsRequest
	if !bindJSON(c, &req, "UpdateCompanySettings") {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	company, err := h.companyService.UpdateCompanySettings(c.Request.Context(), c.Param("companyID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update company settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}
