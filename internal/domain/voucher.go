package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherStatus is the lifecycle state of a manual journal voucher.
type VoucherStatus string

const (
	VoucherPosted   VoucherStatus = "Posted"
	VoucherReversed VoucherStatus = "Reversed"
)

// Voucher is a manual journal entry: user-supplied debit/credit lines that
// must balance like any other posting.
type Voucher struct {
	ID          string
	CompanyID   string
	VoucherNo   string
	VoucherDate time.Time
	Narration   string
	Status      VoucherStatus
	Lines       []*VoucherLine
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedBy   string
	UpdatedAt   time.Time
}

// VoucherLine is one leg of a manual voucher against an explicit account.
type VoucherLine struct {
	ID          string
	VoucherID   string
	AccountID   string
	Side        EntrySide
	Amount      decimal.Decimal
	Description string
}

// PostingLines converts the voucher to posting lines for the ledger.
func (v *Voucher) PostingLines() []PostingLine {
	lines := make([]PostingLine, 0, len(v.Lines))
	for _, l := range v.Lines {
		desc := l.Description
		if desc == "" {
			desc = v.Narration
		}
		lines = append(lines, accountLine(l.AccountID, l.Side, l.Amount, desc))
	}
	return lines
}

// Validate checks the voucher shape; balance is enforced by the ledger.
func (v *Voucher) Validate() error {
	if len(v.Lines) < 2 {
		return ErrVoucherTooFewLines
	}
	for _, l := range v.Lines {
		if l.AccountID == "" {
			return ErrMissingLineAccount
		}
		if l.Side != Debit && l.Side != Credit {
			return ErrInvalidEntrySide
		}
		if l.Amount.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidAmount
		}
	}
	return ValidateLines(v.PostingLines())
}
