package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/core/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockJournalRepository is a mock type for the JournalRepositoryFacade interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal) error {
	args := m.Called(ctx, journal)
	return args.Error(0)
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

// --- Journal service ---

type JournalServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockJournalRepository
	mockCompany *MockCompanyRepository
	service     portssvc.JournalSvcFacade
	companyID   string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockJournalRepository)
	suite.mockCompany = new(MockCompanyRepository)
	suite.service = services.NewJournalService(suite.mockRepo, suite.mockCompany)
	suite.companyID = uuid.NewString()
}

func (suite *JournalServiceTestSuite) TestCreateJournal_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.CreateJournalRequest{Code: "EXCH", Name: "Exchange Difference", Type: domain.JournalGeneral}

	suite.mockCompany.On("FindCompanyByID", ctx, suite.companyID).Return(&domain.Company{CompanyID: suite.companyID}, nil).Once()
	suite.mockRepo.On("SaveJournal", ctx, mock.MatchedBy(func(j domain.Journal) bool {
		return j.CompanyID == suite.companyID && j.Code == req.Code && j.CreatedBy == userID
	})).Return(nil).Once()

	journal, err := suite.service.CreateJournal(ctx, suite.companyID, req, userID)

	suite.Require().NoError(err)
	suite.NotEmpty(journal.JournalID)
	suite.Equal(req.Name, journal.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateJournal_UnknownCompany() {
	ctx := context.Background()
	suite.mockCompany.On("FindCompanyByID", ctx, suite.companyID).Return(nil, apperrors.ErrNotFound).Once()

	journal, err := suite.service.CreateJournal(ctx, suite.companyID, dto.CreateJournalRequest{Code: "X", Name: "X"}, uuid.NewString())

	suite.Nil(journal)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestGetJournalByID_OtherCompany() {
	ctx := context.Background()
	journalID := uuid.NewString()
	suite.mockRepo.On("FindJournalByID", ctx, journalID).Return(&domain.Journal{JournalID: journalID, CompanyID: uuid.NewString()}, nil).Once()

	journal, err := suite.service.GetJournalByID(ctx, suite.companyID, journalID)

	suite.Nil(journal)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

// --- Company service ---

type CompanyServiceTestSuite struct {
	suite.Suite
	mockCompany  *MockCompanyRepository
	mockCurrency *MockCurrencyRepository
	mockAccount  *MockAccountRepository
	mockJournal  *MockJournalRepository
	service      portssvc.CompanySvcFacade
	companyID    string
}

func (suite *CompanyServiceTestSuite) SetupTest() {
	suite.mockCompany = new(MockCompanyRepository)
	suite.mockCurrency = new(MockCurrencyRepository)
	suite.mockAccount = new(MockAccountRepository)
	suite.mockJournal = new(MockJournalRepository)
	suite.service = services.NewCompanyService(portsrepo.RepositoryProvider{
		CompanyRepo:  suite.mockCompany,
		CurrencyRepo: suite.mockCurrency,
		AccountRepo:  suite.mockAccount,
		JournalRepo:  suite.mockJournal,
	})
	suite.companyID = uuid.NewString()
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_Success() {
	ctx := context.Background()
	suite.mockCurrency.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockCompany.On("SaveCompany", ctx, mock.MatchedBy(func(c domain.Company) bool {
		return c.Name == "Acme" && c.CurrencyCode == "USD"
	})).Return(nil).Once()

	company, err := suite.service.CreateCompany(ctx, dto.CreateCompanyRequest{Name: "Acme", CurrencyCode: "USD"}, uuid.NewString())

	suite.Require().NoError(err)
	suite.NotEmpty(company.CompanyID)
	suite.Nil(company.ExchangeJournalID)
	suite.mockCompany.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_UnknownCurrency() {
	ctx := context.Background()
	suite.mockCurrency.On("FindCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	company, err := suite.service.CreateCompany(ctx, dto.CreateCompanyRequest{Name: "Acme", CurrencyCode: "XXX"}, uuid.NewString())

	suite.Nil(company)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CompanyServiceTestSuite) TestUpdateCompanySettings_Success() {
	ctx := context.Background()
	journalID, gainID, lossID := uuid.NewString(), uuid.NewString(), uuid.NewString()
	lock := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	suite.mockCompany.On("FindCompanyByID", ctx, suite.companyID).Return(&domain.Company{CompanyID: suite.companyID, CurrencyCode: "USD"}, nil).Once()
	suite.mockJournal.On("FindJournalByID", ctx, journalID).Return(&domain.Journal{JournalID: journalID, CompanyID: suite.companyID}, nil).Once()
	suite.mockAccount.On("FindAccountByID", ctx, gainID).Return(&domain.Account{AccountID: gainID, CompanyID: suite.companyID}, nil).Once()
	suite.mockAccount.On("FindAccountByID", ctx, lossID).Return(&domain.Account{AccountID: lossID, CompanyID: suite.companyID}, nil).Once()
	suite.mockCompany.On("UpdateCompany", ctx, mock.MatchedBy(func(c domain.Company) bool {
		return c.ExchangeJournalID != nil && *c.ExchangeJournalID == journalID &&
			c.IncomeExchangeAccountID != nil && *c.IncomeExchangeAccountID == gainID &&
			c.ExpenseExchangeAccountID != nil && *c.ExpenseExchangeAccountID == lossID &&
			c.FiscalLockDate != nil && c.FiscalLockDate.Equal(lock)
	})).Return(nil).Once()

	company, err := suite.service.UpdateCompanySettings(ctx, suite.companyID, dto.UpdateCompanySettingsRequest{
		FiscalLockDate:           &lock,
		ExchangeJournalID:        &journalID,
		IncomeExchangeAccountID:  &gainID,
		ExpenseExchangeAccountID: &lossID,
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(lock.AddDate(0, 0, 1), company.AccountingDate(lock))
	suite.mockCompany.AssertExpectations(suite.T())
	suite.mockAccount.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestUpdateCompanySettings_ForeignAccount() {
	ctx := context.Background()
	gainID := uuid.NewString()

	suite.mockCompany.On("FindCompanyByID", ctx, suite.companyID).Return(&domain.Company{CompanyID: suite.companyID}, nil).Once()
	suite.mockAccount.On("FindAccountByID", ctx, gainID).Return(&domain.Account{AccountID: gainID, CompanyID: uuid.NewString()}, nil).Once()

	company, err := suite.service.UpdateCompanySettings(ctx, suite.companyID, dto.UpdateCompanySettingsRequest{IncomeExchangeAccountID: &gainID}, uuid.NewString())

	suite.Nil(company)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "gain exchange account")
	suite.mockCompany.AssertNotCalled(suite.T(), "UpdateCompany", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestUpdateCompanySettings_SaveError() {
	ctx := context.Background()
	suite.mockCompany.On("FindCompanyByID", ctx, suite.companyID).Return(&domain.Company{CompanyID: suite.companyID}, nil).Once()
	suite.mockCompany.On("UpdateCompany", ctx, mock.AnythingOfType("domain.Company")).Return(assert.AnError).Once()

	company, err := suite.service.UpdateCompanySettings(ctx, suite.companyID, dto.UpdateCompanySettingsRequest{}, uuid.NewString())

	suite.Nil(company)
	suite.ErrorIs(err, assert.AnError)
}

func TestCompanyService(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}
