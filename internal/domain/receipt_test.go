package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestReceiptItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    ReceiptItem
		wantErr error
	}{
		{
			name: "valid full payment",
			item: ReceiptItem{
				PledgeID:       "p1",
				InterestAmount: decimal.NewFromInt(500),
				PaidPrincipal:  decimal.NewFromInt(10000),
				PaidInterest:   decimal.NewFromInt(500),
				TotalPaid:      decimal.NewFromInt(10500),
			},
		},
		{
			name: "discount exceeds interest",
			item: ReceiptItem{
				PledgeID:       "p1",
				InterestAmount: decimal.NewFromInt(200),
				PaidInterest:   decimal.NewFromInt(200),
				PaidDiscount:   decimal.NewFromInt(300),
				TotalPaid:      decimal.NewFromInt(-100),
			},
			wantErr: ErrDiscountExceedsInterest,
		},
		{
			name: "negative principal",
			item: ReceiptItem{
				PledgeID:      "p1",
				PaidPrincipal: decimal.NewFromInt(-50),
				TotalPaid:     decimal.NewFromInt(-50),
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "total does not match components",
			item: ReceiptItem{
				PledgeID:      "p1",
				PaidPrincipal: decimal.NewFromInt(1000),
				TotalPaid:     decimal.NewFromInt(900),
			},
			wantErr: ErrReceiptAmountMismatch,
		},
		{
			name: "total within tolerance",
			item: ReceiptItem{
				PledgeID:      "p1",
				PaidPrincipal: decimal.NewFromFloat(1000.00),
				TotalPaid:     decimal.NewFromFloat(1000.01),
			},
		},
		{
			name: "zero payment",
			item: ReceiptItem{
				PledgeID:  "p1",
				TotalPaid: decimal.Zero,
			},
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReceiptValidate(t *testing.T) {
	item := &ReceiptItem{
		PledgeID:      "p1",
		PaidPrincipal: decimal.NewFromInt(5000),
		TotalPaid:     decimal.NewFromInt(5000),
	}

	t.Run("no items", func(t *testing.T) {
		r := &Receipt{ReceiptAmount: decimal.NewFromInt(5000)}
		if err := r.Validate(); !errors.Is(err, ErrReceiptNoItems) {
			t.Errorf("got %v, want %v", err, ErrReceiptNoItems)
		}
	})

	t.Run("amount mismatch against items", func(t *testing.T) {
		r := &Receipt{ReceiptAmount: decimal.NewFromInt(4000), Items: []*ReceiptItem{item}}
		if err := r.Validate(); !errors.Is(err, ErrReceiptAmountMismatch) {
			t.Errorf("got %v, want %v", err, ErrReceiptAmountMismatch)
		}
	})

	t.Run("valid", func(t *testing.T) {
		r := &Receipt{ReceiptAmount: decimal.NewFromInt(5000), Items: []*ReceiptItem{item}}
		if err := r.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestReceiptItemComputeTotal(t *testing.T) {
	item := ReceiptItem{
		PaidPrincipal: decimal.NewFromInt(8000),
		PaidInterest:  decimal.NewFromInt(2000),
		PaidDiscount:  decimal.NewFromInt(300),
		PaidPenalty:   decimal.NewFromInt(100),
	}
	if got := item.ComputeTotal(); !got.Equal(decimal.NewFromInt(9800)) {
		t.Errorf("ComputeTotal = %s, want 9800", got)
	}
}
