package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide is the leg type of a ledger entry.
type EntrySide string

const (
	Debit  EntrySide = "Debit"
	Credit EntrySide = "Credit"
)

// Opposite returns the mirrored side, used when reversing entries.
func (s EntrySide) Opposite() EntrySide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// ReferenceType tags a ledger entry with the business event that caused it.
type ReferenceType string

const (
	RefPledge         ReferenceType = "Pledge"
	RefReceipt        ReferenceType = "Receipt"
	RefBankPledge     ReferenceType = "BankPledge"
	RefBankRedemption ReferenceType = "BankRedemption"
	RefExpense        ReferenceType = "Expense"
	RefManual         ReferenceType = "Manual"
)

// Reference identifies the business event a set of entries belongs to.
// The ledger knows events only by this tag; there is no foreign key from
// entries to event tables.
type Reference struct {
	Type ReferenceType
	ID   string
}

// LedgerEntry is one immutable debit or credit leg of a balanced posting.
// Corrections are made by posting mirrored entries, never by editing.
type LedgerEntry struct {
	ID          string
	CompanyID   string
	AccountID   string
	Side        EntrySide
	Amount      decimal.Decimal
	Description string
	Reference   Reference
	Reversed    bool
	ReversalOf  *string
	CreatedBy   string
	CreatedAt   time.Time
}

// TrialBalanceRow is one account's aggregate in the trial balance view.
type TrialBalanceRow struct {
	AccountID   string
	AccountCode string
	AccountName string
	AccountType AccountType
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
	Balance     decimal.Decimal
}
