package mapping

import (
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/SscSPs/money_reconcile/internal/models"
)

// ToModelJournal converts a domain Journal to a model Journal
func ToModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID:   d.JournalID,
		CompanyID:   d.CompanyID,
		Code:        d.Code,
		Name:        d.Name,
		Type:        string(d.Type),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal to a domain Journal
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		JournalID:   m.JournalID,
		CompanyID:   m.CompanyID,
		Code:        m.Code,
		Name:        m.Name,
		Type:        domain.JournalType(m.Type),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelMove converts the header of a domain Move. Lines are mapped separately.
func ToModelMove(d domain.Move) models.Move {
	return models.Move{
		MoveID:          d.MoveID,
		CompanyID:       d.CompanyID,
		JournalID:       d.JournalID,
		Date:            d.Date,
		Ref:             d.Ref,
		State:           string(d.State),
		ReversedEntryID: d.ReversedEntryID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMove converts a model Move header to a domain Move without lines
func ToDomainMove(m models.Move) domain.Move {
	return domain.Move{
		MoveID:          m.MoveID,
		CompanyID:       m.CompanyID,
		JournalID:       m.JournalID,
		Date:            m.Date,
		Ref:             m.Ref,
		State:           domain.MoveState(m.State),
		ReversedEntryID: m.ReversedEntryID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	var currency *string
	if d.CurrencyCode != "" {
		code := d.CurrencyCode
		currency = &code
	}
	return models.JournalLine{
		LineID:                 d.LineID,
		MoveID:                 d.MoveID,
		CompanyID:              d.CompanyID,
		AccountID:              d.AccountID,
		PartnerID:              d.PartnerID,
		Name:                   d.Name,
		Sequence:               d.Sequence,
		Date:                   d.Date,
		DateMaturity:           d.DateMaturity,
		CurrencyCode:           currency,
		CompanyCurrencyCode:    d.CompanyCurrencyCode,
		Balance:                d.Balance,
		AmountCurrency:         d.AmountCurrency,
		AmountResidual:         d.AmountResidual,
		AmountResidualCurrency: d.AmountResidualCurrency,
		Reconciled:             d.Reconciled,
		FullReconcileID:        d.FullReconcileID,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	line := domain.JournalLine{
		LineID:                 m.LineID,
		MoveID:                 m.MoveID,
		CompanyID:              m.CompanyID,
		AccountID:              m.AccountID,
		PartnerID:              m.PartnerID,
		Name:                   m.Name,
		Sequence:               m.Sequence,
		Date:                   m.Date,
		DateMaturity:           m.DateMaturity,
		CompanyCurrencyCode:    m.CompanyCurrencyCode,
		Balance:                m.Balance,
		AmountCurrency:         m.AmountCurrency,
		AmountResidual:         m.AmountResidual,
		AmountResidualCurrency: m.AmountResidualCurrency,
		Reconciled:             m.Reconciled,
		FullReconcileID:        m.FullReconcileID,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
	if m.CurrencyCode != nil {
		line.CurrencyCode = *m.CurrencyCode
	}
	return line
}

// ToDomainJournalLineSlice converts a slice of model lines to a slice of domain lines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
