package domain

import (
	"strings"
)

// AccountCapability is a set of behaviours an account supports.
type AccountCapability uint8

const (
	CapReconcilable AccountCapability = 1 << iota
	CapLiquidity
	CapReceivable
	CapPayable
	CapOffBalance
)

var capabilityNames = []struct {
	cap  AccountCapability
	name string
}{
	{CapReconcilable, "RECONCILABLE"},
	{CapLiquidity, "LIQUIDITY"},
	{CapReceivable, "RECEIVABLE"},
	{CapPayable, "PAYABLE"},
	{CapOffBalance, "OFF_BALANCE"},
}

// Has reports whether every capability in c is present.
func (s AccountCapability) Has(c AccountCapability) bool {
	return s&c == c
}

// Names lists the capabilities in declaration order.
func (s AccountCapability) Names() []string {
	names := make([]string, 0, len(capabilityNames))
	for _, cn := range capabilityNames {
		if s.Has(cn.cap) {
			names = append(names, cn.name)
		}
	}
	return names
}

func (s AccountCapability) String() string {
	return strings.Join(s.Names(), "|")
}

// ParseCapabilities converts names such as "RECONCILABLE" into a capability set.
// Unknown names are returned so callers can report them.
func ParseCapabilities(names []string) (AccountCapability, []string) {
	var set AccountCapability
	var unknown []string
	for _, n := range names {
		found := false
		for _, cn := range capabilityNames {
			if strings.EqualFold(n, cn.name) {
				set |= cn.cap
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, n)
		}
	}
	return set, unknown
}

// Account represents a ledger account within a company.
type Account struct {
	AccountID    string            `json:"accountID"`
	CompanyID    string            `json:"companyID"`
	Code         string            `json:"code"`
	Name         string            `json:"name"`
	Capabilities AccountCapability `json:"capabilities"`
	CurrencyCode *string           `json:"currencyCode,omitempty"` // Optional secondary currency
	IsActive     bool              `json:"isActive"`
	AuditFields
}

// AllowsReconciliation is true for reconcilable and liquidity accounts.
func (a Account) AllowsReconciliation() bool {
	return a.Capabilities.Has(CapReconcilable) || a.Capabilities.Has(CapLiquidity)
}

// IsReceivableOrPayable reports whether cash-basis tax handling applies to the account.
func (a Account) IsReceivableOrPayable() bool {
	return a.Capabilities.Has(CapReceivable) || a.Capabilities.Has(CapPayable)
}

// DisplayName is used in error messages.
func (a Account) DisplayName() string {
	if a.Code == "" {
		return a.Name
	}
	return a.Code + " " + a.Name
}
