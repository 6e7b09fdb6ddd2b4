package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/SscSPs/money_reconcile/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	moveService    portssvc.MoveReaderSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, ms portssvc.MoveReaderSvc) *accountHandler {
	return &accountHandler{
		accountService: as,
		moveService:    ms,
	}
}

// registerAccountRoutes registers routes related to accounts of a company.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, moveService portssvc.MoveReaderSvc) {
	h := newAccountHandler(accountService, moveService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PUT("/:accountID", h.updateAccount)
		accounts.GET("/:accountID/open-lines", h.listOpenLines)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /companies/{companyID}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req, "CreateAccount") {
		return
	}
	creatorUserID, ok := currentUserID(c)
	if !ok {
		return
	}
	companyID := c.Param("companyID")

	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", companyID))
	logger.Info("Received request to create account", slog.String("account_code", req.Code))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		respondWithError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /companies/{companyID}/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("companyID"), c.Param("accountID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List the accounts of a company
// @Tags accounts
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /companies/{companyID}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("companyID"), params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// updateAccount godoc
// @Summary Update an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   accountID path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Account details to update"
// @Success 200 {object} dto.AccountResponse
// @Security BearerAuth
// @Router /companies/{companyID}/accounts/{accountID} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if !bindJSON(c, &req, "UpdateAccount") {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	updated, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("companyID"), c.Param("accountID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(updated))
}

// listOpenLines godoc
// @Summary List the unreconciled lines of an account
// @Description Returns posted lines not yet fully reconciled, oldest first, with a token for the next page.
// @Tags accounts
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListOpenLinesResponse
// @Security BearerAuth
// @Router /companies/{companyID}/accounts/{accountID}/open-lines [get]
func (h *accountHandler) listOpenLines(c *gin.Context) {
	var params dto.ListOpenLinesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.moveService.ListOpenLines(c.Request.Context(), c.Param("companyID"), c.Param("accountID"), params)
	if err != nil {
		respondWithError(c, err, "Failed to list open lines")
		return
	}
	c.JSON(http.StatusOK, resp)
}
