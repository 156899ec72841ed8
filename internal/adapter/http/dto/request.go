package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/usecase"
)

// CreateAccountRequest represents a request to create a chart of accounts node.
type CreateAccountRequest struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Category       string          `json:"category,omitempty"`
	ParentID       *string         `json:"parent_id,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Description    string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(companyID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		CompanyID:      companyID,
		Code:           r.Code,
		Name:           r.Name,
		Type:           domain.AccountType(r.Type),
		Category:       r.Category,
		ParentID:       r.ParentID,
		OpeningBalance: r.OpeningBalance,
		Description:    r.Description,
	}
}

// UpdateAccountRequest represents a request to update an account's
// descriptive fields.
type UpdateAccountRequest struct {
	Name        string `json:"name,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput(companyID, id string) usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		CompanyID:   companyID,
		ID:          id,
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Active:      r.Active,
	}
}

// CreatePledgeRequest represents a request to create a pledge.
type CreatePledgeRequest struct {
	CustomerID         string          `json:"customer_id"`
	SchemeID           string          `json:"scheme_id"`
	SchemePrefix       string          `json:"scheme_prefix"`
	PledgeDate         *time.Time      `json:"pledge_date,omitempty"`
	GrossWeight        decimal.Decimal `json:"gross_weight"`
	NetWeight          decimal.Decimal `json:"net_weight"`
	MaximumValue       decimal.Decimal `json:"maximum_value"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	FirstMonthInterest decimal.Decimal `json:"first_month_interest"`
	PaymentAccountID   string          `json:"payment_account_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePledgeRequest) ToUseCaseInput(companyID, userID string) usecase.CreatePledgeInput {
	input := usecase.CreatePledgeInput{
		CompanyID:          companyID,
		UserID:             userID,
		CustomerID:         r.CustomerID,
		SchemeID:           r.SchemeID,
		SchemePrefix:       r.SchemePrefix,
		GrossWeight:        r.GrossWeight,
		NetWeight:          r.NetWeight,
		MaximumValue:       r.MaximumValue,
		LoanAmount:         r.LoanAmount,
		InterestRate:       r.InterestRate,
		FirstMonthInterest: r.FirstMonthInterest,
		PaymentAccountID:   r.PaymentAccountID,
	}
	if r.PledgeDate != nil {
		input.PledgeDate = *r.PledgeDate
	}
	return input
}

// ReceiptItemRequest is one pledge's portion of a receipt request.
type ReceiptItemRequest struct {
	PledgeID        string          `json:"pledge_id"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	InterestAmount  decimal.Decimal `json:"interest_amount"`
	PaidPrincipal   decimal.Decimal `json:"paid_principal"`
	PaidInterest    decimal.Decimal `json:"paid_interest"`
	PaidDiscount    decimal.Decimal `json:"paid_discount"`
	PaidPenalty     decimal.Decimal `json:"paid_penalty"`
	PaymentType     string          `json:"payment_type"`
	Notes           string          `json:"notes,omitempty"`
}

func (r *ReceiptItemRequest) toUseCaseInput() usecase.ReceiptItemInput {
	return usecase.ReceiptItemInput{
		PledgeID:        r.PledgeID,
		PrincipalAmount: r.PrincipalAmount,
		InterestAmount:  r.InterestAmount,
		PaidPrincipal:   r.PaidPrincipal,
		PaidInterest:    r.PaidInterest,
		PaidDiscount:    r.PaidDiscount,
		PaidPenalty:     r.PaidPenalty,
		PaymentType:     domain.PaymentType(r.PaymentType),
		Notes:           r.Notes,
	}
}

// CreateReceiptRequest represents a request to create a draft receipt.
type CreateReceiptRequest struct {
	CustomerID    string               `json:"customer_id"`
	ReceiptDate   *time.Time           `json:"receipt_date,omitempty"`
	PaymentMode   string               `json:"payment_mode"`
	BankName      string               `json:"bank_name,omitempty"`
	CheckNumber   string               `json:"check_number,omitempty"`
	TransactionID string               `json:"transaction_id,omitempty"`
	Remarks       string               `json:"remarks,omitempty"`
	Items         []ReceiptItemRequest `json:"items"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateReceiptRequest) ToUseCaseInput(companyID, userID string) usecase.CreateReceiptInput {
	input := usecase.CreateReceiptInput{
		CompanyID:     companyID,
		UserID:        userID,
		CustomerID:    r.CustomerID,
		PaymentMode:   r.PaymentMode,
		BankName:      r.BankName,
		CheckNumber:   r.CheckNumber,
		TransactionID: r.TransactionID,
		Remarks:       r.Remarks,
		Items:         itemInputs(r.Items),
	}
	if r.ReceiptDate != nil {
		input.ReceiptDate = *r.ReceiptDate
	}
	return input
}

// UpdateReceiptRequest replaces the items on a draft receipt.
type UpdateReceiptRequest struct {
	Remarks string               `json:"remarks,omitempty"`
	Items   []ReceiptItemRequest `json:"items"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateReceiptRequest) ToUseCaseInput(companyID, userID, receiptID string) usecase.UpdateReceiptInput {
	return usecase.UpdateReceiptInput{
		CompanyID: companyID,
		UserID:    userID,
		ReceiptID: receiptID,
		Remarks:   r.Remarks,
		Items:     itemInputs(r.Items),
	}
}

func itemInputs(items []ReceiptItemRequest) []usecase.ReceiptItemInput {
	result := make([]usecase.ReceiptItemInput, len(items))
	for i := range items {
		result[i] = items[i].toUseCaseInput()
	}
	return result
}

// VoidRequest carries the reason for voiding or cancelling a document.
type VoidRequest struct {
	Reason string `json:"reason"`
}

// TransferToBankRequest represents a request to move a pledge to a bank.
type TransferToBankRequest struct {
	PledgeID            string          `json:"pledge_id"`
	BankDetailsID       string          `json:"bank_details_id"`
	TransferDate        *time.Time      `json:"transfer_date,omitempty"`
	ValuationAmount     decimal.Decimal `json:"valuation_amount"`
	LTVPercent          decimal.Decimal `json:"ltv_percent"`
	OutstandingInterest decimal.Decimal `json:"outstanding_interest"`
	PaymentAccountID    string          `json:"payment_account_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferToBankRequest) ToUseCaseInput(companyID, userID string) usecase.TransferToBankInput {
	input := usecase.TransferToBankInput{
		CompanyID:           companyID,
		UserID:              userID,
		PledgeID:            r.PledgeID,
		BankDetailsID:       r.BankDetailsID,
		ValuationAmount:     r.ValuationAmount,
		LTVPercent:          r.LTVPercent,
		OutstandingInterest: r.OutstandingInterest,
		PaymentAccountID:    r.PaymentAccountID,
	}
	if r.TransferDate != nil {
		input.TransferDate = *r.TransferDate
	}
	return input
}

// RedeemFromBankRequest represents a request to settle a bank pledge.
type RedeemFromBankRequest struct {
	RedemptionDate   *time.Time      `json:"redemption_date,omitempty"`
	AmountPaidToBank decimal.Decimal `json:"amount_paid_to_bank"`
	InterestOnLoan   decimal.Decimal `json:"interest_on_loan"`
	BankCharges      decimal.Decimal `json:"bank_charges"`
	ActualValue      decimal.Decimal `json:"actual_value"`
	PledgeContinues  bool            `json:"pledge_continues"`
	Notes            string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RedeemFromBankRequest) ToUseCaseInput(companyID, userID, bankPledgeID string) usecase.RedeemFromBankInput {
	input := usecase.RedeemFromBankInput{
		CompanyID:        companyID,
		UserID:           userID,
		BankPledgeID:     bankPledgeID,
		AmountPaidToBank: r.AmountPaidToBank,
		InterestOnLoan:   r.InterestOnLoan,
		BankCharges:      r.BankCharges,
		ActualValue:      r.ActualValue,
		PledgeContinues:  r.PledgeContinues,
		Notes:            r.Notes,
	}
	if r.RedemptionDate != nil {
		input.RedemptionDate = *r.RedemptionDate
	}
	return input
}

// CreateExpenseRequest represents a request to record an expense.
type CreateExpenseRequest struct {
	TransactionDate *time.Time      `json:"transaction_date,omitempty"`
	DebitAccountID  string          `json:"debit_account_id"`
	CreditAccountID string          `json:"credit_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateExpenseRequest) ToUseCaseInput(companyID, userID string) usecase.CreateExpenseInput {
	input := usecase.CreateExpenseInput{
		CompanyID:       companyID,
		UserID:          userID,
		DebitAccountID:  r.DebitAccountID,
		CreditAccountID: r.CreditAccountID,
		Amount:          r.Amount,
		Description:     r.Description,
	}
	if r.TransactionDate != nil {
		input.TransactionDate = *r.TransactionDate
	}
	return input
}

// VoucherLineRequest is one leg of a manual voucher.
type VoucherLineRequest struct {
	AccountID   string          `json:"account_id"`
	Side        string          `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// CreateVoucherRequest represents a request to post a manual voucher.
type CreateVoucherRequest struct {
	VoucherDate *time.Time           `json:"voucher_date,omitempty"`
	Narration   string               `json:"narration"`
	Lines       []VoucherLineRequest `json:"lines"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateVoucherRequest) ToUseCaseInput(companyID, userID string) usecase.CreateVoucherInput {
	lines := make([]usecase.VoucherLineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = usecase.VoucherLineInput{
			AccountID:   l.AccountID,
			Side:        domain.EntrySide(l.Side),
			Amount:      l.Amount,
			Description: l.Description,
		}
	}
	input := usecase.CreateVoucherInput{
		CompanyID: companyID,
		UserID:    userID,
		Narration: r.Narration,
		Lines:     lines,
	}
	if r.VoucherDate != nil {
		input.VoucherDate = *r.VoucherDate
	}
	return input
}
