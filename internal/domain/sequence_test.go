package domain

import (
	"testing"
	"time"
)

func TestFormatSequenceNo(t *testing.T) {
	tests := []struct {
		prefix string
		period int
		seq    int
		want   string
	}{
		{PrefixPledge, 2025, 1, "GLD-2025-0001"},
		{PrefixReceipt, 2025, 123, "RCP-2025-0123"},
		{PrefixExpense, 202509, 42, "EXP-202509-0042"},
		{PrefixBankPledge, 2025, 9999, "BNK-2025-9999"},
		{PrefixVoucher, 2025, 10000, "JV-2025-10000"},
	}

	for _, tt := range tests {
		if got := FormatSequenceNo(tt.prefix, tt.period, tt.seq); got != tt.want {
			t.Errorf("FormatSequenceNo(%s, %d, %d) = %s, want %s",
				tt.prefix, tt.period, tt.seq, got, tt.want)
		}
	}
}

func TestCounterPeriods(t *testing.T) {
	march := time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)
	if got := YearPeriod(march); got != 2025 {
		t.Errorf("YearPeriod = %d, want 2025", got)
	}
	if got := MonthPeriod(march); got != 202503 {
		t.Errorf("MonthPeriod = %d, want 202503", got)
	}

	december := time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)
	if got := MonthPeriod(december); got != 202512 {
		t.Errorf("MonthPeriod = %d, want 202512", got)
	}
}
