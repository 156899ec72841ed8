package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies a chart of accounts node.
type AccountType string

const (
	AccountTypeAsset     AccountType = "Assets"
	AccountTypeLiability AccountType = "Liabilities"
	AccountTypeEquity    AccountType = "Equity"
	AccountTypeIncome    AccountType = "Income"
	AccountTypeExpense   AccountType = "Expenses"
)

// DebitNormal reports whether a debit increases accounts of this type.
// Asset and Expense accounts carry a debit-normal balance; Liability, Equity
// and Income accounts carry a credit-normal balance. This is the only place
// the double-entry sign convention is encoded.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// Account is one node of a company's chart of accounts. Balance is the
// running natural-sign balance: positive when the account holds its normal
// balance. It is maintained by applying signed deltas at posting time, never
// recomputed by replaying entries.
type Account struct {
	ID             string
	CompanyID      string
	Code           string
	Name           string
	Type           AccountType
	Category       string
	ParentID       *string
	OpeningBalance decimal.Decimal
	Balance        decimal.Decimal
	Active         bool
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Delta returns the signed balance change a single entry leg causes on this
// account: a debit increases debit-normal accounts and decreases the rest,
// a credit mirrors that.
func (a *Account) Delta(side EntrySide, amount decimal.Decimal) decimal.Decimal {
	if (side == Debit) == a.Type.DebitNormal() {
		return amount
	}
	return amount.Neg()
}

// Apply mutates the running balance by the leg's signed delta and returns
// the new balance.
func (a *Account) Apply(side EntrySide, amount decimal.Decimal) decimal.Decimal {
	a.Balance = a.Balance.Add(a.Delta(side, amount))
	return a.Balance
}
