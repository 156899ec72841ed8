package domain

import (
	"fmt"
	"time"
)

// Sequence number prefixes per event type.
const (
	PrefixPledge     = "GLD"
	PrefixReceipt    = "RCP"
	PrefixExpense    = "EXP"
	PrefixVoucher    = "JV"
	PrefixBankPledge = "BNK"
)

// YearPeriod returns the counter period for yearly sequences.
func YearPeriod(t time.Time) int {
	return t.Year()
}

// MonthPeriod returns the counter period for monthly sequences (YYYYMM).
func MonthPeriod(t time.Time) int {
	return t.Year()*100 + int(t.Month())
}

// FormatSequenceNo renders a document number like GLD-2025-0001 or
// EXP-202509-0001. The period is either a year or a YYYYMM month key.
func FormatSequenceNo(prefix string, period, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, period, seq)
}
