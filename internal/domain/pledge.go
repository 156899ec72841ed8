package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PledgeStatus is the lifecycle state of a collateral loan.
type PledgeStatus string

const (
	PledgeStatusActive    PledgeStatus = "Active"
	PledgeStatusClosed    PledgeStatus = "Closed"
	PledgeStatusRedeemed  PledgeStatus = "Redeemed"
	PledgeStatusForfeited PledgeStatus = "Forfeited"
	PledgeStatusWithBank  PledgeStatus = "WITH_BANK"
)

// PostingStatus tracks whether an event's ledger entries have been created.
type PostingStatus string

const (
	PostingPending PostingStatus = "Pending"
	PostingPosted  PostingStatus = "Posted"
	PostingError   PostingStatus = "Error"
)

// Pledge is a collateral loan. Valuation of the pledged items is carried as
// data; only the money that moved (loan, interest) is posted to the ledger.
type Pledge struct {
	ID                 string
	CompanyID          string
	CustomerID         string
	SchemeID           string
	PledgeNo           string
	PledgeDate         time.Time
	GrossWeight        decimal.Decimal
	NetWeight          decimal.Decimal
	MaximumValue       decimal.Decimal
	LoanAmount         decimal.Decimal
	InterestRate       decimal.Decimal
	FirstMonthInterest decimal.Decimal
	PaymentAccountID   string
	Status             PledgeStatus
	CoaStatus          PostingStatus
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedBy          string
	UpdatedAt          time.Time
}

// Validate checks the amounts a new pledge must carry.
func (p *Pledge) Validate() error {
	if p.LoanAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if p.MaximumValue.LessThan(p.LoanAmount) {
		return ErrInvalidPledgeValuation
	}
	if p.FirstMonthInterest.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Outstanding returns the principal still owed given the cumulative paid
// principal across non-voided receipts.
func (p *Pledge) Outstanding(paidPrincipal decimal.Decimal) decimal.Decimal {
	out := p.LoanAmount.Sub(paidPrincipal)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}
