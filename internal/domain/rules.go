package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Posting rules translate business events into balanced sets of posting
// lines. Each rule is a pure function of the event data; resolution of roles
// to accounts and persistence happen in the ledger. The rules encode the
// shop's accounting policy:
//
//	Pledge create      Dr Receivable(loan)           Cr Payment(loan)
//	                   Dr Payment(interest)          Cr Interest Income(interest)
//	Receipt post       Dr Payment(total)             Cr Receivable(principal)
//	                                                 Cr Interest Income(interest)
//	                   Dr Interest Discount(disc)    if discount given
//	                                                 Cr Penalty Income(penalty) if charged
//	Bank transfer      Dr Bank Pledge Asset(loan+int) Cr Receivable(loan)
//	                                                 Cr Interest Income(accrued int)
//	                   Dr Payment(bank loan)         Cr Bank Loan Payable(bank loan)
//	Bank redemption    Dr Bank Loan Payable(paid)    Cr Payment(paid+int+charges)
//	                   Dr Bank Interest Exp(int)
//	                   Dr Bank Charges Exp(charges)
//	                   gain/loss and receivable-restore legs per outcome
//	Expense            Dr expense account            Cr payment account
//	Voucher            whatever the user supplies, balanced
//
// Collateral valuation stays on the pledge record; only money that moved is
// posted, so every rule produces a balanced set by construction.

// PledgePostingLines builds the disbursement entries for a new pledge.
// The payment account defaults to the Cash role when none was chosen.
func PledgePostingLines(p *Pledge) []PostingLine {
	payment := paymentRef(p.PaymentAccountID)

	lines := []PostingLine{
		roleLine(RoleCustomerReceivable, Debit, p.LoanAmount,
			fmt.Sprintf("Loan advanced against pledge - %s", p.PledgeNo)),
		{Account: payment, Side: Credit, Amount: Round2(p.LoanAmount),
			Description: fmt.Sprintf("Loan disbursed - %s", p.PledgeNo)},
	}

	if p.FirstMonthInterest.GreaterThan(decimal.Zero) {
		lines = append(lines,
			PostingLine{Account: payment, Side: Debit, Amount: Round2(p.FirstMonthInterest),
				Description: fmt.Sprintf("First month interest received - %s", p.PledgeNo)},
			roleLine(RoleInterestIncome, Credit, p.FirstMonthInterest,
				fmt.Sprintf("First month interest - %s", p.PledgeNo)),
		)
	}

	return lines
}

// ReceiptPostingLines builds the payment entries for a posted receipt.
// Item amounts are aggregated so the set stays small: one cash leg for the
// receipt total, one leg per touched income/expense account.
func ReceiptPostingLines(r *Receipt) []PostingLine {
	var principal, interest, discount, penalty decimal.Decimal
	for _, item := range r.Items {
		principal = principal.Add(item.PaidPrincipal)
		interest = interest.Add(item.PaidInterest)
		discount = discount.Add(item.PaidDiscount)
		penalty = penalty.Add(item.PaidPenalty)
	}

	lines := []PostingLine{
		roleLine(RoleCash, Debit, r.ReceiptAmount,
			fmt.Sprintf("Receipt %s - Cash received", r.ReceiptNo)),
	}

	if principal.GreaterThan(decimal.Zero) {
		lines = append(lines, roleLine(RoleCustomerReceivable, Credit, principal,
			fmt.Sprintf("Receipt %s - Principal payment", r.ReceiptNo)))
	}
	if interest.GreaterThan(decimal.Zero) {
		lines = append(lines, roleLine(RoleInterestIncome, Credit, interest,
			fmt.Sprintf("Receipt %s - Interest income", r.ReceiptNo)))
	}
	if discount.GreaterThan(decimal.Zero) {
		lines = append(lines, roleLine(RoleInterestDiscount, Debit, discount,
			fmt.Sprintf("Receipt %s - Interest discount given", r.ReceiptNo)))
	}
	if penalty.GreaterThan(decimal.Zero) {
		lines = append(lines, roleLine(RolePenaltyIncome, Credit, penalty,
			fmt.Sprintf("Receipt %s - Penalty income", r.ReceiptNo)))
	}

	return lines
}

// BankPledgePostingLines builds the transfer entries: the customer exposure,
// shop loan plus interest accrued to the transfer date, is reclassified to
// the bank pledge asset, and the financing received from the bank creates
// the matching liability. The accrued interest is recognized as income here
// since it is now part of the amount the asset carries.
func BankPledgePostingLines(bp *BankPledge, paymentAccountID string) []PostingLine {
	payment := paymentRef(paymentAccountID)

	lines := []PostingLine{
		roleLine(RoleBankPledgeAsset, Debit, bp.Exposure(),
			fmt.Sprintf("Pledge %s transferred to bank - LTV %s%%", bp.BankPledgeNo, bp.LTVPercent.String())),
		roleLine(RoleCustomerReceivable, Credit, bp.OriginalShopLoan,
			fmt.Sprintf("Receivable moved to bank financing - %s", bp.BankPledgeNo)),
	}

	if bp.OutstandingInterest.GreaterThan(decimal.Zero) {
		lines = append(lines, roleLine(RoleInterestIncome, Credit, bp.OutstandingInterest,
			fmt.Sprintf("Interest accrued to bank transfer - %s", bp.BankPledgeNo)))
	}

	return append(lines,
		PostingLine{Account: payment, Side: Debit, Amount: Round2(bp.BankLoanAmount),
			Description: fmt.Sprintf("Bank financing received - %s", bp.BankPledgeNo)},
		roleLine(RoleBankLoanPayable, Credit, bp.BankLoanAmount,
			fmt.Sprintf("Bank loan liability created - %s", bp.BankPledgeNo)),
	)
}

// BankRedemptionPostingLines builds the entries for paying back the bank.
// When the pledge continues with the customer, the receivable is restored
// from the bank pledge asset; otherwise the collateral was liquidated and
// the recovery (ActualValue) settles the asset with a gain or loss leg.
func BankRedemptionPostingLines(red *BankRedemption, bp *BankPledge) []PostingLine {
	totalToBank := Round2(red.AmountPaidToBank.Add(red.InterestOnLoan).Add(red.BankCharges))

	lines := []PostingLine{
		roleLine(RoleBankLoanPayable, Debit, red.AmountPaidToBank,
			"Redeem bank pledge - pay principal to bank"),
	}

	if red.InterestOnLoan.GreaterThan(decimal.Zero) {
		lines = append(lines, roleLine(RoleBankInterestExpense, Debit, red.InterestOnLoan,
			"Bank interest on pledged item financing"))
	}
	if red.BankCharges.GreaterThan(decimal.Zero) {
		lines = append(lines, roleLine(RoleBankChargesExpense, Debit, red.BankCharges,
			"Bank charges for pledge redemption"))
	}

	lines = append(lines, roleLine(RoleCash, Credit, totalToBank,
		"Cash paid to bank for redemption"))

	if red.PledgeContinues {
		lines = append(lines,
			roleLine(RoleCustomerReceivable, Debit, bp.Exposure(),
				"Restore customer receivable on redemption"),
			roleLine(RoleBankPledgeAsset, Credit, bp.Exposure(),
				"Close bank pledge asset - pledge continues"),
		)
		return lines
	}

	// Collateral liquidated: recovery settles the asset, difference is
	// gain or loss.
	lines = append(lines,
		roleLine(RoleCash, Debit, red.ActualValue,
			"Recovery from collateral liquidation"),
		roleLine(RoleBankPledgeAsset, Credit, bp.Exposure(),
			"Close bank pledge asset - collateral liquidated"),
	)

	diff := Round2(red.ActualValue.Sub(bp.Exposure()))
	switch {
	case diff.GreaterThan(decimal.Zero):
		lines = append(lines, roleLine(RoleGainLoss, Credit, diff,
			"Gain on pledge liquidation"))
	case diff.LessThan(decimal.Zero):
		lines = append(lines, roleLine(RoleGainLoss, Debit, diff.Abs(),
			"Loss on pledge liquidation"))
	}

	return lines
}

// ExpensePostingLines builds the two legs of an expense transaction.
func ExpensePostingLines(e *ExpenseTransaction) []PostingLine {
	desc := e.Description
	if desc == "" {
		desc = fmt.Sprintf("Expense %s", e.TransactionNo)
	}

	return []PostingLine{
		accountLine(e.DebitAccountID, Debit, e.Amount, desc),
		accountLine(e.CreditAccountID, Credit, e.Amount,
			fmt.Sprintf("Payment for %s", e.TransactionNo)),
	}
}

func paymentRef(accountID string) AccountRef {
	if accountID != "" {
		return AccountRef{AccountID: accountID}
	}
	return AccountRef{Role: RoleCash}
}
