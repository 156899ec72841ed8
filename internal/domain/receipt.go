package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptStatus is the lifecycle state of a payment receipt.
type ReceiptStatus string

const (
	ReceiptStatusDraft    ReceiptStatus = "Draft"
	ReceiptStatusPosted   ReceiptStatus = "Posted"
	ReceiptStatusVoid     ReceiptStatus = "Void"
	ReceiptStatusAdjusted ReceiptStatus = "Adjusted"
)

// PaymentType classifies a receipt item.
type PaymentType string

const (
	PaymentPartial   PaymentType = "Partial"
	PaymentFull      PaymentType = "Full"
	PaymentExtension PaymentType = "Extension"
)

// Receipt is a customer payment, possibly covering several pledges.
// Draft receipts are freely editable and have no ledger impact; posting is
// one-way until the receipt is voided.
type Receipt struct {
	ID            string
	CompanyID     string
	ReceiptNo     string
	CustomerID    string
	ReceiptDate   time.Time
	ReceiptAmount decimal.Decimal
	PaymentMode   string
	BankName      string
	CheckNumber   string
	TransactionID string
	Remarks       string
	Status        ReceiptStatus
	CoaStatus     PostingStatus
	Items         []*ReceiptItem
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedBy     string
	UpdatedAt     time.Time
}

// ReceiptItem is one pledge's portion of a receipt.
type ReceiptItem struct {
	ID              string
	ReceiptID       string
	PledgeID        string
	PrincipalAmount decimal.Decimal
	InterestAmount  decimal.Decimal
	PaidPrincipal   decimal.Decimal
	PaidInterest    decimal.Decimal
	PaidDiscount    decimal.Decimal
	PaidPenalty     decimal.Decimal
	PaymentType     PaymentType
	TotalPaid       decimal.Decimal
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
}

// ComputeTotal derives the item's total from its components:
// principal + interest + penalty - discount.
func (i *ReceiptItem) ComputeTotal() decimal.Decimal {
	return Round2(i.PaidPrincipal.Add(i.PaidInterest).Add(i.PaidPenalty).Sub(i.PaidDiscount))
}

// Validate checks a single item's amounts.
func (i *ReceiptItem) Validate() error {
	if i.PaidPrincipal.IsNegative() || i.PaidInterest.IsNegative() ||
		i.PaidDiscount.IsNegative() || i.PaidPenalty.IsNegative() {
		return ErrInvalidAmount
	}
	if i.PaidDiscount.GreaterThan(i.InterestAmount) {
		return ErrDiscountExceedsInterest
	}
	if i.TotalPaid.Sub(i.ComputeTotal()).Abs().GreaterThan(BalanceTolerance) {
		return ErrReceiptAmountMismatch
	}
	if i.ComputeTotal().LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the receipt as a whole: at least one item, every item
// valid, and the receipt amount equal to the sum of item totals.
func (r *Receipt) Validate() error {
	if len(r.Items) == 0 {
		return ErrReceiptNoItems
	}

	sum := decimal.Zero
	for _, item := range r.Items {
		if err := item.Validate(); err != nil {
			return err
		}
		sum = sum.Add(item.ComputeTotal())
	}

	if r.ReceiptAmount.Sub(sum).Abs().GreaterThan(BalanceTolerance) {
		return ErrReceiptAmountMismatch
	}

	return nil
}
