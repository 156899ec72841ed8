package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func sumSide(lines []PostingLine, side EntrySide) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.Side == side {
			total = total.Add(l.Amount)
		}
	}
	return total
}

func findRole(t *testing.T, lines []PostingLine, role AccountRole, side EntrySide) PostingLine {
	t.Helper()
	for _, l := range lines {
		if l.Account.Role == role && l.Side == side {
			return l
		}
	}
	t.Fatalf("no %s %s line in %+v", side, role, lines)
	return PostingLine{}
}

func TestPledgePostingLines(t *testing.T) {
	pledge := &Pledge{
		PledgeNo:           "GLD-2025-0001",
		LoanAmount:         decimal.NewFromInt(10000),
		FirstMonthInterest: decimal.NewFromInt(500),
	}

	lines := PledgePostingLines(pledge)

	if err := ValidateLines(lines); err != nil {
		t.Fatalf("pledge posting unbalanced: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}

	recv := findRole(t, lines, RoleCustomerReceivable, Debit)
	if !recv.Amount.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("receivable debit = %s, want 10000", recv.Amount)
	}

	income := findRole(t, lines, RoleInterestIncome, Credit)
	if !income.Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("interest credit = %s, want 500", income.Amount)
	}
}

func TestPledgePostingLines_NoInterestLeg(t *testing.T) {
	pledge := &Pledge{
		PledgeNo:   "GLD-2025-0002",
		LoanAmount: decimal.NewFromInt(5000),
	}

	lines := PledgePostingLines(pledge)

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines without interest, got %d", len(lines))
	}
	if err := ValidateLines(lines); err != nil {
		t.Fatalf("pledge posting unbalanced: %v", err)
	}
}

func TestPledgePostingLines_ExplicitPaymentAccount(t *testing.T) {
	pledge := &Pledge{
		PledgeNo:         "GLD-2025-0003",
		LoanAmount:       decimal.NewFromInt(5000),
		PaymentAccountID: "acct-bank",
	}

	lines := PledgePostingLines(pledge)
	if lines[1].Account.AccountID != "acct-bank" {
		t.Errorf("disbursement leg should hit chosen payment account, got %+v", lines[1].Account)
	}
}

func TestReceiptPostingLines_FullRedemption(t *testing.T) {
	// Loan 10000 with 500 interest, paid in full: Dr Cash 10500,
	// Cr Receivable 10000, Cr Interest 500.
	receipt := &Receipt{
		ReceiptNo:     "RCP-2025-0001",
		ReceiptAmount: decimal.NewFromInt(10500),
		Items: []*ReceiptItem{{
			PledgeID:      "pledge-1",
			PaidPrincipal: decimal.NewFromInt(10000),
			PaidInterest:  decimal.NewFromInt(500),
			PaymentType:   PaymentFull,
			TotalPaid:     decimal.NewFromInt(10500),
		}},
	}

	lines := ReceiptPostingLines(receipt)

	if err := ValidateLines(lines); err != nil {
		t.Fatalf("receipt posting unbalanced: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	cash := findRole(t, lines, RoleCash, Debit)
	if !cash.Amount.Equal(decimal.NewFromInt(10500)) {
		t.Errorf("cash debit = %s, want 10500", cash.Amount)
	}
	recv := findRole(t, lines, RoleCustomerReceivable, Credit)
	if !recv.Amount.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("receivable credit = %s, want 10000", recv.Amount)
	}
}

func TestReceiptPostingLines_DiscountAndPenalty(t *testing.T) {
	// principal 8000 + interest 2000 + penalty 100 - discount 300 = 9800.
	receipt := &Receipt{
		ReceiptNo:     "RCP-2025-0002",
		ReceiptAmount: decimal.NewFromInt(9800),
		Items: []*ReceiptItem{{
			PledgeID:       "pledge-1",
			InterestAmount: decimal.NewFromInt(2300),
			PaidPrincipal:  decimal.NewFromInt(8000),
			PaidInterest:   decimal.NewFromInt(2000),
			PaidDiscount:   decimal.NewFromInt(300),
			PaidPenalty:    decimal.NewFromInt(100),
			PaymentType:    PaymentFull,
			TotalPaid:      decimal.NewFromInt(9800),
		}},
	}

	lines := ReceiptPostingLines(receipt)

	if err := ValidateLines(lines); err != nil {
		t.Fatalf("receipt posting unbalanced: %v", err)
	}

	findRole(t, lines, RoleInterestDiscount, Debit)
	findRole(t, lines, RolePenaltyIncome, Credit)

	debits := sumSide(lines, Debit)
	if !debits.Equal(decimal.NewFromInt(10100)) {
		t.Errorf("total debits = %s, want 10100", debits)
	}
}

func TestReceiptPostingLines_MultiplePledges(t *testing.T) {
	receipt := &Receipt{
		ReceiptNo:     "RCP-2025-0003",
		ReceiptAmount: decimal.NewFromInt(10000),
		Items: []*ReceiptItem{
			{PledgeID: "p1", PaidPrincipal: decimal.NewFromInt(5000), TotalPaid: decimal.NewFromInt(5000), PaymentType: PaymentFull},
			{PledgeID: "p2", PaidPrincipal: decimal.NewFromInt(3000), TotalPaid: decimal.NewFromInt(3000), PaymentType: PaymentFull},
			{PledgeID: "p3", PaidPrincipal: decimal.NewFromInt(2000), TotalPaid: decimal.NewFromInt(2000), PaymentType: PaymentFull},
		},
	}

	lines := ReceiptPostingLines(receipt)
	if err := ValidateLines(lines); err != nil {
		t.Fatalf("receipt posting unbalanced: %v", err)
	}

	recv := findRole(t, lines, RoleCustomerReceivable, Credit)
	if !recv.Amount.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("receivable credit = %s, want 10000", recv.Amount)
	}
}

func TestBankPledgePostingLines(t *testing.T) {
	bp := &BankPledge{
		BankPledgeNo:     "BNK-2025-0001",
		ValuationAmount:  decimal.NewFromInt(60000),
		LTVPercent:       decimal.NewFromInt(80),
		BankLoanAmount:   BankLoanAmount(decimal.NewFromInt(60000), decimal.NewFromInt(80)),
		OriginalShopLoan: decimal.NewFromInt(40000),
	}

	if !bp.BankLoanAmount.Equal(decimal.NewFromInt(48000)) {
		t.Fatalf("bank loan amount = %s, want 48000", bp.BankLoanAmount)
	}

	lines := BankPledgePostingLines(bp, "")
	if err := ValidateLines(lines); err != nil {
		t.Fatalf("bank pledge posting unbalanced: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}

	payable := findRole(t, lines, RoleBankLoanPayable, Credit)
	if !payable.Amount.Equal(decimal.NewFromInt(48000)) {
		t.Errorf("payable credit = %s, want 48000", payable.Amount)
	}
}

func TestBankPledgePostingLines_AccruedInterest(t *testing.T) {
	// Interest accrued up to the transfer rides along into the bank pledge
	// asset and is recognized as income in the same posting.
	bp := &BankPledge{
		BankPledgeNo:        "BNK-2025-0002",
		BankLoanAmount:      decimal.NewFromInt(48000),
		OriginalShopLoan:    decimal.NewFromInt(40000),
		OutstandingInterest: decimal.NewFromInt(1500),
	}

	lines := BankPledgePostingLines(bp, "")
	if err := ValidateLines(lines); err != nil {
		t.Fatalf("bank pledge posting unbalanced: %v", err)
	}
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}

	asset := findRole(t, lines, RoleBankPledgeAsset, Debit)
	if !asset.Amount.Equal(decimal.NewFromInt(41500)) {
		t.Errorf("asset debit = %s, want loan plus accrued interest 41500", asset.Amount)
	}

	income := findRole(t, lines, RoleInterestIncome, Credit)
	if !income.Amount.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("interest income credit = %s, want 1500", income.Amount)
	}
}

func TestBankRedemptionPostingLines_ContinuesWithAccruedInterest(t *testing.T) {
	// The asset was opened at loan plus accrued interest, so the closing
	// legs restore the receivable at that same exposure.
	bp := &BankPledge{
		OriginalShopLoan:    decimal.NewFromInt(40000),
		OutstandingInterest: decimal.NewFromInt(1500),
	}
	red := &BankRedemption{
		AmountPaidToBank: decimal.NewFromInt(48000),
		PledgeContinues:  true,
	}

	lines := BankRedemptionPostingLines(red, bp)
	if err := ValidateLines(lines); err != nil {
		t.Fatalf("redemption posting unbalanced: %v", err)
	}

	recv := findRole(t, lines, RoleCustomerReceivable, Debit)
	if !recv.Amount.Equal(decimal.NewFromInt(41500)) {
		t.Errorf("receivable debit = %s, want 41500", recv.Amount)
	}

	asset := findRole(t, lines, RoleBankPledgeAsset, Credit)
	if !asset.Amount.Equal(decimal.NewFromInt(41500)) {
		t.Errorf("asset credit = %s, want 41500", asset.Amount)
	}
}

func TestBankRedemptionPostingLines_PledgeContinues(t *testing.T) {
	bp := &BankPledge{OriginalShopLoan: decimal.NewFromInt(40000)}
	red := &BankRedemption{
		AmountPaidToBank: decimal.NewFromInt(48000),
		InterestOnLoan:   decimal.NewFromInt(1200),
		BankCharges:      decimal.NewFromInt(150),
		PledgeContinues:  true,
	}

	lines := BankRedemptionPostingLines(red, bp)
	if err := ValidateLines(lines); err != nil {
		t.Fatalf("redemption posting unbalanced: %v", err)
	}

	findRole(t, lines, RoleBankInterestExpense, Debit)
	findRole(t, lines, RoleCustomerReceivable, Debit)

	cash := findRole(t, lines, RoleCash, Credit)
	if !cash.Amount.Equal(decimal.NewFromInt(49350)) {
		t.Errorf("cash credit = %s, want 49350", cash.Amount)
	}
}

func TestBankRedemptionPostingLines_LiquidatedWithGain(t *testing.T) {
	bp := &BankPledge{OriginalShopLoan: decimal.NewFromInt(40000)}
	red := &BankRedemption{
		AmountPaidToBank: decimal.NewFromInt(48000),
		ActualValue:      decimal.NewFromInt(43000),
		PledgeContinues:  false,
	}

	lines := BankRedemptionPostingLines(red, bp)
	if err := ValidateLines(lines); err != nil {
		t.Fatalf("redemption posting unbalanced: %v", err)
	}

	gain := findRole(t, lines, RoleGainLoss, Credit)
	if !gain.Amount.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("gain credit = %s, want 3000", gain.Amount)
	}
}

func TestBankRedemptionPostingLines_LiquidatedWithLoss(t *testing.T) {
	bp := &BankPledge{OriginalShopLoan: decimal.NewFromInt(40000)}
	red := &BankRedemption{
		AmountPaidToBank: decimal.NewFromInt(48000),
		ActualValue:      decimal.NewFromInt(38500),
		PledgeContinues:  false,
	}

	lines := BankRedemptionPostingLines(red, bp)
	if err := ValidateLines(lines); err != nil {
		t.Fatalf("redemption posting unbalanced: %v", err)
	}

	loss := findRole(t, lines, RoleGainLoss, Debit)
	if !loss.Amount.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("loss debit = %s, want 1500", loss.Amount)
	}
}

func TestExpensePostingLines(t *testing.T) {
	exp := &ExpenseTransaction{
		TransactionNo:   "EXP-202509-0001",
		TransactionDate: time.Now(),
		DebitAccountID:  "acct-rent",
		CreditAccountID: "acct-cash",
		Amount:          decimal.NewFromInt(2500),
		Description:     "Shop rent September",
	}

	lines := ExpensePostingLines(exp)
	if err := ValidateLines(lines); err != nil {
		t.Fatalf("expense posting unbalanced: %v", err)
	}
	if lines[0].Account.AccountID != "acct-rent" || lines[0].Side != Debit {
		t.Errorf("first leg should debit expense account, got %+v", lines[0])
	}
}

func TestValidateLTV(t *testing.T) {
	if err := ValidateLTV(decimal.NewFromInt(40)); err == nil {
		t.Error("LTV 40 should be rejected")
	}
	if err := ValidateLTV(decimal.NewFromInt(97)); err == nil {
		t.Error("LTV 97 should be rejected")
	}
	if err := ValidateLTV(decimal.NewFromInt(50)); err != nil {
		t.Errorf("LTV 50 should be accepted: %v", err)
	}
	if err := ValidateLTV(decimal.NewFromInt(95)); err != nil {
		t.Errorf("LTV 95 should be accepted: %v", err)
	}
}
