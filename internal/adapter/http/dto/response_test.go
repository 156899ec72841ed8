package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/domain"
)

func TestTrialBalanceFromDomain_GrandTotals(t *testing.T) {
	rows := []*domain.TrialBalanceRow{
		{
			AccountCode: "1000",
			AccountType: domain.AccountTypeAsset,
			DebitTotal:  decimal.RequireFromString("1500"),
			CreditTotal: decimal.RequireFromString("400"),
			Balance:     decimal.RequireFromString("1100"),
		},
		{
			AccountCode: "4010",
			AccountType: domain.AccountTypeIncome,
			DebitTotal:  decimal.RequireFromString("0"),
			CreditTotal: decimal.RequireFromString("1100"),
			Balance:     decimal.RequireFromString("1100"),
		},
	}

	got := TrialBalanceFromDomain(rows)

	if len(got.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got.Rows))
	}
	if !got.DebitTotal.Equal(decimal.RequireFromString("1500")) {
		t.Errorf("debit total = %s, want 1500", got.DebitTotal)
	}
	if !got.CreditTotal.Equal(decimal.RequireFromString("1500")) {
		t.Errorf("credit total = %s, want 1500", got.CreditTotal)
	}
	if got.Rows[0].AccountType != "Assets" {
		t.Errorf("account type = %q, want Assets", got.Rows[0].AccountType)
	}
}

func TestEntryFromDomain_FlattensReference(t *testing.T) {
	origID := "entry-1"
	entry := &domain.LedgerEntry{
		ID:         "entry-2",
		AccountID:  "acc-1",
		Side:       domain.Credit,
		Amount:     decimal.RequireFromString("250.00"),
		Reference:  domain.Reference{Type: domain.RefReceipt, ID: "rcp-1"},
		Reversed:   true,
		ReversalOf: &origID,
		CreatedAt:  time.Now(),
	}

	got := EntryFromDomain(entry)

	if got.ReferenceType != "Receipt" || got.ReferenceID != "rcp-1" {
		t.Fatalf("reference = %s/%s", got.ReferenceType, got.ReferenceID)
	}
	if !got.Reversed || got.ReversalOf == nil || *got.ReversalOf != origID {
		t.Fatalf("reversal fields = %+v", got)
	}
}

func TestPledgeFromDomain_Outstanding(t *testing.T) {
	pledge := &domain.Pledge{
		ID:         "pledge-1",
		PledgeNo:   "GLD-2026-0001",
		LoanAmount: decimal.RequireFromString("10000"),
		Status:     domain.PledgeStatusActive,
	}

	detail := PledgeFromDomain(pledge, decimal.RequireFromString("6000"))
	if !detail.Outstanding.Equal(decimal.RequireFromString("6000")) {
		t.Fatalf("outstanding = %s, want 6000", detail.Outstanding)
	}

	// List views fall back to the loan amount.
	list := PledgesFromDomain([]*domain.Pledge{pledge})
	if !list[0].Outstanding.Equal(pledge.LoanAmount) {
		t.Fatalf("list outstanding = %s, want %s", list[0].Outstanding, pledge.LoanAmount)
	}
}

func TestVoucherFromDomain_Lines(t *testing.T) {
	voucher := &domain.Voucher{
		ID:        "jv-1",
		VoucherNo: "JV-2026-0001",
		Status:    domain.VoucherPosted,
		Lines: []*domain.VoucherLine{
			{ID: "l1", AccountID: "acc-1", Side: domain.Debit, Amount: decimal.RequireFromString("75")},
			{ID: "l2", AccountID: "acc-2", Side: domain.Credit, Amount: decimal.RequireFromString("75")},
		},
	}

	got := VoucherFromDomain(voucher)

	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got.Lines))
	}
	if got.Lines[0].Side != "Debit" || got.Lines[1].Side != "Credit" {
		t.Fatalf("sides = %s, %s", got.Lines[0].Side, got.Lines[1].Side)
	}
	if got.Status != "Posted" {
		t.Fatalf("status = %q, want Posted", got.Status)
	}
}
