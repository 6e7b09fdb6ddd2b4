package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
)

type companyRepository struct{ *view }

var _ portsrepo.CompanyRepositoryFacade = (*companyRepository)(nil)

func (r *companyRepository) FindCompanyByID(_ context.Context, companyID string) (*domain.Company, error) {
	var out domain.Company
	err := r.read(func(d *dataset) error {
		c, ok := d.companies[companyID]
		if !ok {
			return notFound("company", companyID)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *companyRepository) SaveCompany(_ context.Context, company domain.Company) error {
	return r.write(func(d *dataset) error {
		if _, ok := d.companies[company.CompanyID]; ok {
			return duplicate("company", company.CompanyID)
		}
		d.companies[company.CompanyID] = company
		return nil
	})
}

func (r *companyRepository) UpdateCompany(_ context.Context, company domain.Company) error {
	return r.write(func(d *dataset) error {
		existing, ok := d.companies[company.CompanyID]
		if !ok {
			return notFound("company", company.CompanyID)
		}
		company.CreatedAt = existing.CreatedAt
		company.CreatedBy = existing.CreatedBy
		d.companies[company.CompanyID] = company
		return nil
	})
}

type accountRepository struct{ *view }

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	var out domain.Account
	err := r.read(func(d *dataset) error {
		a, ok := d.accounts[accountID]
		if !ok {
			return notFound("account", accountID)
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *accountRepository) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	err := r.read(func(d *dataset) error {
		for _, id := range accountIDs {
			if a, ok := d.accounts[id]; ok {
				out[id] = a
			}
		}
		return nil
	})
	return out, err
}

func (r *accountRepository) ListAccounts(_ context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	var out []domain.Account
	err := r.read(func(d *dataset) error {
		for _, a := range d.accounts {
			if a.CompanyID == companyID {
				out = append(out, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].AccountID < out[j].AccountID
	})
	return page(out, limit, offset), nil
}

func (r *accountRepository) SaveAccount(_ context.Context, account domain.Account) error {
	return r.write(func(d *dataset) error {
		if _, ok := d.accounts[account.AccountID]; ok {
			return duplicate("account", account.AccountID)
		}
		for _, a := range d.accounts {
			if a.CompanyID == account.CompanyID && a.Code == account.Code {
				return duplicate("account code", account.Code)
			}
		}
		d.accounts[account.AccountID] = account
		return nil
	})
}

func (r *accountRepository) UpdateAccount(_ context.Context, account domain.Account) error {
	return r.write(func(d *dataset) error {
		existing, ok := d.accounts[account.AccountID]
		if !ok {
			return notFound("account", account.AccountID)
		}
		existing.Name = account.Name
		existing.Capabilities = account.Capabilities
		existing.IsActive = account.IsActive
		existing.LastUpdatedAt = account.LastUpdatedAt
		existing.LastUpdatedBy = account.LastUpdatedBy
		d.accounts[account.AccountID] = existing
		return nil
	})
}

type currencyRepository struct{ *view }

var _ portsrepo.CurrencyRepositoryFacade = (*currencyRepository)(nil)

func (r *currencyRepository) FindCurrencyByCode(_ context.Context, currencyCode string) (*domain.Currency, error) {
	var out domain.Currency
	err := r.read(func(d *dataset) error {
		c, ok := d.currencies[currencyCode]
		if !ok {
			return notFound("currency", currencyCode)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *currencyRepository) FindCurrenciesByCodes(_ context.Context, currencyCodes []string) (map[string]domain.Currency, error) {
	out := make(map[string]domain.Currency, len(currencyCodes))
	err := r.read(func(d *dataset) error {
		for _, code := range currencyCodes {
			if c, ok := d.currencies[code]; ok {
				out[code] = c
			}
		}
		return nil
	})
	return out, err
}

func (r *currencyRepository) ListCurrencies(_ context.Context) ([]domain.Currency, error) {
	var out []domain.Currency
	err := r.read(func(d *dataset) error {
		for _, c := range d.currencies {
			out = append(out, c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out, err
}

func (r *currencyRepository) SaveCurrency(_ context.Context, currency domain.Currency) error {
	return r.write(func(d *dataset) error {
		if _, ok := d.currencies[currency.CurrencyCode]; ok {
			return duplicate("currency", currency.CurrencyCode)
		}
		d.currencies[currency.CurrencyCode] = currency
		return nil
	})
}

type exchangeRateRepository struct{ *view }

var _ portsrepo.ExchangeRateRepositoryFacade = (*exchangeRateRepository)(nil)

func (r *exchangeRateRepository) FindEffectiveRate(_ context.Context, companyID, fromCurrencyCode, toCurrencyCode string, date time.Time) (*domain.ExchangeRate, error) {
	var company, global *domain.ExchangeRate
	err := r.read(func(d *dataset) error {
		for _, rate := range d.rates {
			if rate.FromCurrencyCode != fromCurrencyCode || rate.ToCurrencyCode != toCurrencyCode || rate.DateEffective.After(date) {
				continue
			}
			rate := rate
			switch {
			case rate.CompanyID == nil:
				if global == nil || later(rate, *global) {
					global = &rate
				}
			case *rate.CompanyID == companyID:
				if company == nil || later(rate, *company) {
					company = &rate
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if company != nil {
		return company, nil
	}
	if global != nil {
		return global, nil
	}
	return nil, notFound("exchange rate", fromCurrencyCode+"/"+toCurrencyCode)
}

// later orders rates by effective date, then creation time.
func later(a, b domain.ExchangeRate) bool {
	if !a.DateEffective.Equal(b.DateEffective) {
		return a.DateEffective.After(b.DateEffective)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (r *exchangeRateRepository) SaveExchangeRate(_ context.Context, rate domain.ExchangeRate) error {
	return r.write(func(d *dataset) error {
		if _, ok := d.rates[rate.ExchangeRateID]; ok {
			return duplicate("exchange rate", rate.ExchangeRateID)
		}
		d.rates[rate.ExchangeRateID] = rate
		return nil
	})
}

type journalRepository struct{ *view }

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

func (r *journalRepository) FindJournalByID(_ context.Context, journalID string) (*domain.Journal, error) {
	var out domain.Journal
	err := r.read(func(d *dataset) error {
		j, ok := d.journals[journalID]
		if !ok {
			return notFound("journal", journalID)
		}
		out = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *journalRepository) SaveJournal(_ context.Context, journal domain.Journal) error {
	return r.write(func(d *dataset) error {
		if _, ok := d.journals[journal.JournalID]; ok {
			return duplicate("journal", journal.JournalID)
		}
		d.journals[journal.JournalID] = journal
		return nil
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
