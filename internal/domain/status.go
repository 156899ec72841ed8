package domain

import "github.com/shopspring/decimal"

// Status derivation for pledges, receipts and bank pledges lives here so
// every caller applies identical rules. Pledge status follows cumulative
// payments: the same function runs after a posting and after a reversal, so
// voiding a receipt drops the pledge back to Active automatically when the
// paid principal falls below the loan amount.

// DerivePledgeStatus returns the status a pledge should hold given the
// cumulative paid principal across all non-voided receipt items. Statuses
// outside the payment lifecycle (WITH_BANK, Forfeited, Closed) are sticky
// and never overwritten by payment math.
func DerivePledgeStatus(current PledgeStatus, loanAmount, paidPrincipal decimal.Decimal) PledgeStatus {
	switch current {
	case PledgeStatusActive, PledgeStatusRedeemed:
		if paidPrincipal.GreaterThanOrEqual(loanAmount) {
			return PledgeStatusRedeemed
		}
		return PledgeStatusActive
	default:
		return current
	}
}

// CanPostReceipt reports whether a receipt may move Draft -> Posted.
func CanPostReceipt(status ReceiptStatus) error {
	if status != ReceiptStatusDraft {
		return ErrReceiptNotDraft
	}
	return nil
}

// CanVoidReceipt reports whether a receipt may move Posted/Adjusted -> Void.
func CanVoidReceipt(status ReceiptStatus) error {
	if status != ReceiptStatusPosted && status != ReceiptStatusAdjusted {
		return ErrReceiptNotPosted
	}
	return nil
}

// CanEditReceipt reports whether a draft receipt may be edited or deleted.
func CanEditReceipt(status ReceiptStatus) error {
	if status != ReceiptStatusDraft {
		return ErrReceiptNotDraft
	}
	return nil
}

// CanTransferPledge reports whether a pledge may be placed with a bank.
func CanTransferPledge(status PledgeStatus) error {
	if status != PledgeStatusActive {
		return ErrPledgeNotActive
	}
	return nil
}

// CanSettleBankPledge reports whether a bank pledge may be redeemed or
// cancelled.
func CanSettleBankPledge(status BankPledgeStatus) error {
	if status != BankPledgeWithBank {
		return ErrBankPledgeNotHeld
	}
	return nil
}

// PledgeStatusAfterRedemption returns the pledge status once its bank
// financing is settled: back to Active when the customer continues, Redeemed
// when the collateral was returned or liquidated.
func PledgeStatusAfterRedemption(pledgeContinues bool) PledgeStatus {
	if pledgeContinues {
		return PledgeStatusActive
	}
	return PledgeStatusRedeemed
}
