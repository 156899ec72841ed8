package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseTransaction records an operating expense paid from a cash or bank
// account. Both sides are explicit chart of accounts rows chosen by the user.
type ExpenseTransaction struct {
	ID              string
	CompanyID       string
	TransactionNo   string
	TransactionDate time.Time
	DebitAccountID  string
	CreditAccountID string
	Amount          decimal.Decimal
	Description     string
	CoaStatus       PostingStatus
	CreatedBy       string
	CreatedAt       time.Time
}

// Validate checks the expense before posting.
func (e *ExpenseTransaction) Validate() error {
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if e.DebitAccountID == e.CreditAccountID {
		return ErrSameAccount
	}
	return nil
}
