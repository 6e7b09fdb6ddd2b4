package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/SscSPs/money_reconcile/internal/handlers"
	"github.com/SscSPs/money_reconcile/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) Reconcile(ctx context.Context, companyID string, lineIDs []string, opts domain.ReconcileOptions, userID string) (*domain.ReconcileResult, error) {
	args := m.Called(ctx, companyID, lineIDs, opts, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconcileResult), args.Error(1)
}

func (m *MockReconciliationService) Unreconcile(ctx context.Context, companyID string, lineIDs []string, userID string) (*domain.UnreconcileResult, error) {
	args := m.Called(ctx, companyID, lineIDs, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnreconcileResult), args.Error(1)
}

var _ portssvc.ReconciliationSvc = (*MockReconciliationService)(nil)

// --- Mock MoveService ---
type MockMoveService struct {
	mock.Mock
}

func (m *MockMoveService) GetMoveByID(ctx context.Context, companyID string, moveID string) (*domain.Move, error) {
	args := m.Called(ctx, companyID, moveID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Move), args.Error(1)
}

func (m *MockMoveService) ListOpenLines(ctx context.Context, companyID string, accountID string, params dto.ListOpenLinesParams) (*dto.ListOpenLinesResponse, error) {
	args := m.Called(ctx, companyID, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListOpenLinesResponse), args.Error(1)
}

func (m *MockMoveService) CreateMove(ctx context.Context, companyID string, req dto.CreateMoveRequest, userID string) (*domain.Move, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Move), args.Error(1)
}

func (m *MockMoveService) PostMove(ctx context.Context, companyID string, moveID string, userID string) (*domain.Move, error) {
	args := m.Called(ctx, companyID, moveID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Move), args.Error(1)
}

func (m *MockMoveService) UpdateLine(ctx context.Context, companyID string, lineID string, req dto.UpdateLineRequest, userID string) (*domain.JournalLine, error) {
	args := m.Called(ctx, companyID, lineID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalLine), args.Error(1)
}

var _ portssvc.MoveSvcFacade = (*MockMoveService)(nil)

// --- Mock CurrencyService ---
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

var _ portssvc.CurrencySvcFacade = (*MockCurrencyService)(nil)

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) GetEffectiveRate(ctx context.Context, companyID, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, companyID, fromCode, toCode, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, from, to domain.Currency, companyID string, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, amount, from, to, companyID, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExchangeRateService) CreateExchangeRate(ctx context.Context, companyID string, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	jwtSecret          string
	companyID          string
	userID             string
	mockReconciliation *MockReconciliationService
	mockMove           *MockMoveService
	mockCurrency       *MockCurrencyService
	mockExchangeRate   *MockExchangeRateService
}

// generateTestToken creates a dummy JWT for testing.
func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "reconcile-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.mockReconciliation = new(MockReconciliationService)
	suite.mockMove = new(MockMoveService)
	suite.mockCurrency = new(MockCurrencyService)
	suite.mockExchangeRate = new(MockExchangeRateService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret, JWTIssuer: "reconcile-test"}
	services := &portssvc.ServiceContainer{
		Currency:       suite.mockCurrency,
		ExchangeRate:   suite.mockExchangeRate,
		Move:           suite.mockMove,
		Reconciliation: suite.mockReconciliation,
	}
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, services))
}

func (suite *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) companyPath(format string, args ...any) string {
	return fmt.Sprintf("/api/v1/companies/%s", suite.companyID) + fmt.Sprintf(format, args...)
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestHealth() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestSwaggerDocServed() {
	router := gin.New()
	cfg := &config.Config{JWTSecret: suite.jwtSecret, EnableSwagger: true}
	suite.Require().NoError(handlers.RegisterRoutes(router, cfg, &portssvc.ServiceContainer{}))

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code)

	var doc struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &doc))
	suite.Equal("/api/v1", doc.BasePath)
	suite.Contains(doc.Paths, "/companies/{companyID}/reconciliations")
	suite.Contains(doc.Paths["/companies/{companyID}/reconciliations/remove"], "post")
	suite.Contains(doc.Paths["/companies/{companyID}/accounts/{accountID}/open-lines"], "get")
	suite.Contains(doc.Paths["/companies/{companyID}/moves/{moveID}/post"], "post")
}

func (suite *HandlerTestSuite) TestSwaggerDisabledByDefault() {
	req, _ := http.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestMissingToken() {
	req, _ := http.NewRequest(http.MethodPost, suite.companyPath("/reconciliations"), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockReconciliation.AssertNotCalled(suite.T(), "Reconcile")
}

func (suite *HandlerTestSuite) TestReconcile_Success() {
	lineIDs := []string{uuid.NewString(), uuid.NewString()}
	fullID := uuid.NewString()
	result := &domain.ReconcileResult{
		Partials: []domain.PartialReconcile{{
			PartialID:    uuid.NewString(),
			DebitLineID:  lineIDs[0],
			CreditLineID: lineIDs[1],
			Amount:       decimal.NewFromInt(100),
		}},
		FullReconcile: &domain.FullReconcile{FullReconcileID: fullID, LineIDs: lineIDs},
	}
	suite.mockReconciliation.On("Reconcile", mock.Anything, suite.companyID, lineIDs,
		domain.ReconcileOptions{SkipExchangeDifference: true}, suite.userID).Return(result, nil).Once()

	w := suite.do(http.MethodPost, suite.companyPath("/reconciliations"), dto.ReconcileRequest{
		LineIDs:                lineIDs,
		SkipExchangeDifference: true,
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ReconcileResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Partials, 1)
	suite.True(decimal.NewFromInt(100).Equal(resp.Partials[0].Amount))
	suite.Require().NotNil(resp.FullReconcile)
	suite.Equal(fullID, resp.FullReconcile.FullReconcileID)
	suite.mockReconciliation.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestReconcile_RejectsBadBody() {
	tests := []struct {
		name string
		body any
	}{
		{"no lines", dto.ReconcileRequest{}},
		{"not a uuid", dto.ReconcileRequest{LineIDs: []string{"line-1"}}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, suite.companyPath("/reconciliations"), tt.body)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.mockReconciliation.AssertNotCalled(suite.T(), "Reconcile")
}

func (suite *HandlerTestSuite) TestReconcile_ErrorStatuses() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", fmt.Errorf("%w: lines must share the same account", apperrors.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("%w: journal line x", apperrors.ErrNotFound), http.StatusNotFound},
		{"configuration", fmt.Errorf("%w: exchange journal", apperrors.ErrConfiguration), http.StatusUnprocessableEntity},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"internal", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			lineIDs := []string{uuid.NewString()}
			suite.mockReconciliation.On("Reconcile", mock.Anything, suite.companyID, lineIDs, mock.Anything, suite.userID).
				Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, suite.companyPath("/reconciliations"), dto.ReconcileRequest{LineIDs: lineIDs})

			suite.Equal(tt.status, w.Code)
			if tt.status == http.StatusInternalServerError {
				suite.NotContains(w.Body.String(), "boom")
			}
		})
	}
}

func (suite *HandlerTestSuite) TestUnreconcile_Success() {
	lineIDs := []string{uuid.NewString()}
	suite.mockReconciliation.On("Unreconcile", mock.Anything, suite.companyID, lineIDs, suite.userID).
		Return(&domain.UnreconcileResult{RemovedPartialIDs: []string{"p1", "p2"}}, nil).Once()

	w := suite.do(http.MethodPost, suite.companyPath("/reconciliations/remove"), dto.UnreconcileRequest{LineIDs: lineIDs})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.UnreconcileResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal([]string{"p1", "p2"}, resp.RemovedPartialIDs)
	suite.Empty(resp.ReversalMoves)
}

func (suite *HandlerTestSuite) TestListOpenLines_PassesPaging() {
	accountID := uuid.NewString()
	next := "abc"
	suite.mockMove.On("ListOpenLines", mock.Anything, suite.companyID, accountID,
		mock.MatchedBy(func(p dto.ListOpenLinesParams) bool {
			return p.Limit == 5 && p.NextToken != nil && *p.NextToken == "tok"
		}),
	).Return(&dto.ListOpenLinesResponse{Lines: []dto.LineResponse{}, NextToken: &next}, nil).Once()

	w := suite.do(http.MethodGet, suite.companyPath("/accounts/%s/open-lines?limit=5&nextToken=tok", accountID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListOpenLinesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("abc", *resp.NextToken)
	suite.mockMove.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListOpenLines_LimitTooLarge() {
	w := suite.do(http.MethodGet, suite.companyPath("/accounts/%s/open-lines?limit=1000", uuid.NewString()), nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockMove.AssertNotCalled(suite.T(), "ListOpenLines")
}

func (suite *HandlerTestSuite) TestCreateMove_Unbalanced() {
	req := dto.CreateMoveRequest{
		JournalID: uuid.NewString(),
		Date:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Post:      true,
		Lines: []dto.CreateLineRequest{
			{AccountID: uuid.NewString(), Debit: decimal.NewFromInt(100)},
			{AccountID: uuid.NewString(), Credit: decimal.NewFromInt(90)},
		},
	}
	suite.mockMove.On("CreateMove", mock.Anything, suite.companyID, mock.AnythingOfType("dto.CreateMoveRequest"), suite.userID).
		Return(nil, fmt.Errorf("%w: debits and credits do not balance", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodPost, suite.companyPath("/moves"), req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "do not balance")
}

func (suite *HandlerTestSuite) TestGetMove_Success() {
	moveID := uuid.NewString()
	move := &domain.Move{
		MoveID:    moveID,
		CompanyID: suite.companyID,
		State:     domain.MovePosted,
		Lines: []domain.JournalLine{
			{LineID: "l1", MoveID: moveID, CompanyCurrencyCode: "USD", Balance: decimal.NewFromInt(10), AmountResidual: decimal.NewFromInt(10)},
			{LineID: "l2", MoveID: moveID, CompanyCurrencyCode: "USD", Balance: decimal.NewFromInt(-10), AmountResidual: decimal.NewFromInt(-10)},
		},
	}
	suite.mockMove.On("GetMoveByID", mock.Anything, suite.companyID, moveID).Return(move, nil).Once()

	w := suite.do(http.MethodGet, suite.companyPath("/moves/%s", moveID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.MoveResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Lines, 2)
	suite.True(decimal.NewFromInt(10).Equal(resp.Lines[0].Debit))
	suite.True(decimal.NewFromInt(10).Equal(resp.Lines[1].Credit))
	suite.Equal("USD", resp.Lines[0].CurrencyCode)
}

func (suite *HandlerTestSuite) TestCreateCurrency_RoundingMustBePositive() {
	precision := 2
	w := suite.do(http.MethodPost, "/api/v1/currencies", map[string]any{
		"currencyCode": "EUR",
		"symbol":       "€",
		"name":         "Euro",
		"precision":    precision,
		"rounding":     "-0.05",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockCurrency.AssertNotCalled(suite.T(), "CreateCurrency")
}

func (suite *HandlerTestSuite) TestCreateCurrency_Duplicate() {
	suite.mockCurrency.On("CreateCurrency", mock.Anything, mock.AnythingOfType("dto.CreateCurrencyRequest"), suite.userID).
		Return(nil, fmt.Errorf("%w: currency EUR", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/api/v1/currencies", map[string]any{
		"currencyCode": "EUR",
		"symbol":       "€",
		"name":         "Euro",
		"precision":    2,
		"rounding":     "0.05",
	})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestCreateExchangeRate_ZeroRate() {
	w := suite.do(http.MethodPost, suite.companyPath("/exchange-rates"), map[string]any{
		"fromCurrencyCode": "EUR",
		"toCurrencyCode":   "USD",
		"rate":             "0",
		"dateEffective":    "2024-01-01T00:00:00Z",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockExchangeRate.AssertNotCalled(suite.T(), "CreateExchangeRate")
}

func (suite *HandlerTestSuite) TestCreateExchangeRate_Success() {
	rate := &domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		CompanyID:        &suite.companyID,
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Rate:             decimal.RequireFromString("1.1"),
	}
	suite.mockExchangeRate.On("CreateExchangeRate", mock.Anything, suite.companyID, mock.AnythingOfType("dto.CreateExchangeRateRequest"), suite.userID).
		Return(rate, nil).Once()

	w := suite.do(http.MethodPost, suite.companyPath("/exchange-rates"), map[string]any{
		"fromCurrencyCode": "EUR",
		"toCurrencyCode":   "USD",
		"rate":             "1.1",
		"dateEffective":    "2024-01-01T00:00:00Z",
	})
	suite.Equal(http.StatusCreated, w.Code)
	suite.mockExchangeRate.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
