package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankPledgeStatus is the lifecycle state of a bank financing arrangement.
type BankPledgeStatus string

const (
	BankPledgeWithBank   BankPledgeStatus = "WITH_BANK"
	BankPledgeRedeemed   BankPledgeStatus = "REDEEMED"
	BankPledgeExpired    BankPledgeStatus = "EXPIRED"
	BankPledgeForeclosed BankPledgeStatus = "FORECLOSED"
	BankPledgeCancelled  BankPledgeStatus = "CANCELLED"
)

// LTV bounds a bank will finance against collateral valuation.
var (
	MinLTVPercent = decimal.NewFromInt(50)
	MaxLTVPercent = decimal.NewFromInt(95)
)

// ValidateLTV enforces the financing policy bounds.
func ValidateLTV(ltv decimal.Decimal) error {
	if ltv.LessThan(MinLTVPercent) || ltv.GreaterThan(MaxLTVPercent) {
		return ErrLTVOutOfRange
	}
	return nil
}

// BankLoanAmount computes the financed amount: valuation x LTV%, rounded once.
func BankLoanAmount(valuation, ltvPercent decimal.Decimal) decimal.Decimal {
	return Round2(valuation.Mul(ltvPercent).Div(decimal.NewFromInt(100)))
}

// BankPledge records a pledge's collateral placed with a bank as security
// for shop financing.
type BankPledge struct {
	ID                  string
	CompanyID           string
	PledgeID            string
	BankDetailsID       string
	BankPledgeNo        string
	TransferDate        time.Time
	ValuationAmount     decimal.Decimal
	LTVPercent          decimal.Decimal
	BankLoanAmount      decimal.Decimal
	OriginalShopLoan    decimal.Decimal
	OutstandingInterest decimal.Decimal
	Status              BankPledgeStatus
	CoaStatus           PostingStatus
	CreatedBy           string
	CreatedAt           time.Time
	UpdatedBy           string
	UpdatedAt           time.Time
}

// Exposure is the customer-side amount carried by the bank pledge asset:
// the shop loan plus interest accrued up to the transfer.
func (bp *BankPledge) Exposure() decimal.Decimal {
	return Round2(bp.OriginalShopLoan.Add(bp.OutstandingInterest))
}

// BankRedemption records paying back a bank loan to reclaim collateral.
type BankRedemption struct {
	ID               string
	CompanyID        string
	BankPledgeID     string
	RedemptionDate   time.Time
	AmountPaidToBank decimal.Decimal
	InterestOnLoan   decimal.Decimal
	BankCharges      decimal.Decimal
	ActualValue      decimal.Decimal
	PriceDifference  decimal.Decimal
	PledgeContinues  bool
	Notes            string
	CreatedBy        string
	CreatedAt        time.Time
}

// Validate checks the redemption amounts.
func (r *BankRedemption) Validate() error {
	if r.AmountPaidToBank.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if r.InterestOnLoan.IsNegative() || r.BankCharges.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
