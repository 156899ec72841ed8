package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/domain"
)

// AccountResponse represents a chart of accounts node in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Category       string          `json:"category,omitempty"`
	ParentID       *string         `json:"parent_id,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Balance        decimal.Decimal `json:"balance"`
	Active         bool            `json:"active"`
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Code:           a.Code,
		Name:           a.Name,
		Type:           string(a.Type),
		Category:       a.Category,
		ParentID:       a.ParentID,
		OpeningBalance: a.OpeningBalance,
		Balance:        a.Balance,
		Active:         a.Active,
		Description:    a.Description,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	Side          string          `json:"side"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
	Reversed      bool            `json:"reversed"`
	ReversalOf    *string         `json:"reversal_of,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		AccountID:     e.AccountID,
		Side:          string(e.Side),
		Amount:        e.Amount,
		Description:   e.Description,
		ReferenceType: string(e.Reference.Type),
		ReferenceID:   e.Reference.ID,
		Reversed:      e.Reversed,
		ReversalOf:    e.ReversalOf,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// TrialBalanceRowResponse is one account's aggregate in the trial balance.
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	AccountType string          `json:"account_type"`
	DebitTotal  decimal.Decimal `json:"debit_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceResponse is the full trial balance report.
type TrialBalanceResponse struct {
	Rows        []*TrialBalanceRowResponse `json:"rows"`
	DebitTotal  decimal.Decimal            `json:"debit_total"`
	CreditTotal decimal.Decimal            `json:"credit_total"`
}

// TrialBalanceFromDomain converts trial balance rows to a response with
// grand totals.
func TrialBalanceFromDomain(rows []*domain.TrialBalanceRow) *TrialBalanceResponse {
	resp := &TrialBalanceResponse{
		Rows: make([]*TrialBalanceRowResponse, len(rows)),
	}
	for i, row := range rows {
		resp.Rows[i] = &TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			DebitTotal:  row.DebitTotal,
			CreditTotal: row.CreditTotal,
			Balance:     row.Balance,
		}
		resp.DebitTotal = resp.DebitTotal.Add(row.DebitTotal)
		resp.CreditTotal = resp.CreditTotal.Add(row.CreditTotal)
	}
	return resp
}

// PledgeResponse represents a pledge in API responses.
type PledgeResponse struct {
	ID                 string          `json:"id"`
	CustomerID         string          `json:"customer_id"`
	SchemeID           string          `json:"scheme_id"`
	PledgeNo           string          `json:"pledge_no"`
	PledgeDate         time.Time       `json:"pledge_date"`
	GrossWeight        decimal.Decimal `json:"gross_weight"`
	NetWeight          decimal.Decimal `json:"net_weight"`
	MaximumValue       decimal.Decimal `json:"maximum_value"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	FirstMonthInterest decimal.Decimal `json:"first_month_interest"`
	PaymentAccountID   string          `json:"payment_account_id,omitempty"`
	Status             string          `json:"status"`
	CoaStatus          string          `json:"coa_status"`
	Outstanding        decimal.Decimal `json:"outstanding_principal"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// PledgeFromDomain converts domain pledge to response. Outstanding is the
// remaining principal after posted repayments.
func PledgeFromDomain(p *domain.Pledge, outstanding decimal.Decimal) *PledgeResponse {
	return &PledgeResponse{
		ID:                 p.ID,
		CustomerID:         p.CustomerID,
		SchemeID:           p.SchemeID,
		PledgeNo:           p.PledgeNo,
		PledgeDate:         p.PledgeDate,
		GrossWeight:        p.GrossWeight,
		NetWeight:          p.NetWeight,
		MaximumValue:       p.MaximumValue,
		LoanAmount:         p.LoanAmount,
		InterestRate:       p.InterestRate,
		FirstMonthInterest: p.FirstMonthInterest,
		PaymentAccountID:   p.PaymentAccountID,
		Status:             string(p.Status),
		CoaStatus:          string(p.CoaStatus),
		Outstanding:        outstanding,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// PledgesFromDomain converts domain pledges to responses. List views report
// the full loan amount as outstanding; the detail view computes the real
// figure.
func PledgesFromDomain(pledges []*domain.Pledge) []*PledgeResponse {
	result := make([]*PledgeResponse, len(pledges))
	for i, p := range pledges {
		result[i] = PledgeFromDomain(p, p.LoanAmount)
	}
	return result
}

// ReceiptItemResponse is one pledge's portion of a receipt.
type ReceiptItemResponse struct {
	ID              string          `json:"id"`
	PledgeID        string          `json:"pledge_id"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	InterestAmount  decimal.Decimal `json:"interest_amount"`
	PaidPrincipal   decimal.Decimal `json:"paid_principal"`
	PaidInterest    decimal.Decimal `json:"paid_interest"`
	PaidDiscount    decimal.Decimal `json:"paid_discount"`
	PaidPenalty     decimal.Decimal `json:"paid_penalty"`
	PaymentType     string          `json:"payment_type"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	Notes           string          `json:"notes,omitempty"`
}

// ReceiptResponse represents a receipt in API responses.
type ReceiptResponse struct {
	ID            string                 `json:"id"`
	ReceiptNo     string                 `json:"receipt_no"`
	CustomerID    string                 `json:"customer_id"`
	ReceiptDate   time.Time              `json:"receipt_date"`
	ReceiptAmount decimal.Decimal        `json:"receipt_amount"`
	PaymentMode   string                 `json:"payment_mode"`
	BankName      string                 `json:"bank_name,omitempty"`
	CheckNumber   string                 `json:"check_number,omitempty"`
	TransactionID string                 `json:"transaction_id,omitempty"`
	Remarks       string                 `json:"remarks,omitempty"`
	Status        string                 `json:"status"`
	CoaStatus     string                 `json:"coa_status"`
	Items         []*ReceiptItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ReceiptFromDomain converts domain receipt to response.
func ReceiptFromDomain(rc *domain.Receipt) *ReceiptResponse {
	items := make([]*ReceiptItemResponse, len(rc.Items))
	for i, item := range rc.Items {
		items[i] = &ReceiptItemResponse{
			ID:              item.ID,
			PledgeID:        item.PledgeID,
			PrincipalAmount: item.PrincipalAmount,
			InterestAmount:  item.InterestAmount,
			PaidPrincipal:   item.PaidPrincipal,
			PaidInterest:    item.PaidInterest,
			PaidDiscount:    item.PaidDiscount,
			PaidPenalty:     item.PaidPenalty,
			PaymentType:     string(item.PaymentType),
			TotalPaid:       item.TotalPaid,
			Notes:           item.Notes,
		}
	}
	return &ReceiptResponse{
		ID:            rc.ID,
		ReceiptNo:     rc.ReceiptNo,
		CustomerID:    rc.CustomerID,
		ReceiptDate:   rc.ReceiptDate,
		ReceiptAmount: rc.ReceiptAmount,
		PaymentMode:   rc.PaymentMode,
		BankName:      rc.BankName,
		CheckNumber:   rc.CheckNumber,
		TransactionID: rc.TransactionID,
		Remarks:       rc.Remarks,
		Status:        string(rc.Status),
		CoaStatus:     string(rc.CoaStatus),
		Items:         items,
		CreatedAt:     rc.CreatedAt,
		UpdatedAt:     rc.UpdatedAt,
	}
}

// ReceiptsFromDomain converts domain receipts to responses.
func ReceiptsFromDomain(receipts []*domain.Receipt) []*ReceiptResponse {
	result := make([]*ReceiptResponse, len(receipts))
	for i, rc := range receipts {
		result[i] = ReceiptFromDomain(rc)
	}
	return result
}

// BankPledgeResponse represents a bank pledge in API responses.
type BankPledgeResponse struct {
	ID                  string          `json:"id"`
	PledgeID            string          `json:"pledge_id"`
	BankDetailsID       string          `json:"bank_details_id"`
	BankPledgeNo        string          `json:"bank_pledge_no"`
	TransferDate        time.Time       `json:"transfer_date"`
	ValuationAmount     decimal.Decimal `json:"valuation_amount"`
	LTVPercent          decimal.Decimal `json:"ltv_percent"`
	BankLoanAmount      decimal.Decimal `json:"bank_loan_amount"`
	OriginalShopLoan    decimal.Decimal `json:"original_shop_loan"`
	OutstandingInterest decimal.Decimal `json:"outstanding_interest"`
	Status              string          `json:"status"`
	CoaStatus           string          `json:"coa_status"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// BankPledgeFromDomain converts domain bank pledge to response.
func BankPledgeFromDomain(bp *domain.BankPledge) *BankPledgeResponse {
	return &BankPledgeResponse{
		ID:                  bp.ID,
		PledgeID:            bp.PledgeID,
		BankDetailsID:       bp.BankDetailsID,
		BankPledgeNo:        bp.BankPledgeNo,
		TransferDate:        bp.TransferDate,
		ValuationAmount:     bp.ValuationAmount,
		LTVPercent:          bp.LTVPercent,
		BankLoanAmount:      bp.BankLoanAmount,
		OriginalShopLoan:    bp.OriginalShopLoan,
		OutstandingInterest: bp.OutstandingInterest,
		Status:              string(bp.Status),
		CoaStatus:           string(bp.CoaStatus),
		CreatedAt:           bp.CreatedAt,
		UpdatedAt:           bp.UpdatedAt,
	}
}

// BankPledgesFromDomain converts domain bank pledges to responses.
func BankPledgesFromDomain(pledges []*domain.BankPledge) []*BankPledgeResponse {
	result := make([]*BankPledgeResponse, len(pledges))
	for i, bp := range pledges {
		result[i] = BankPledgeFromDomain(bp)
	}
	return result
}

// BankRedemptionResponse represents a bank redemption in API responses.
type BankRedemptionResponse struct {
	ID               string          `json:"id"`
	BankPledgeID     string          `json:"bank_pledge_id"`
	RedemptionDate   time.Time       `json:"redemption_date"`
	AmountPaidToBank decimal.Decimal `json:"amount_paid_to_bank"`
	InterestOnLoan   decimal.Decimal `json:"interest_on_loan"`
	BankCharges      decimal.Decimal `json:"bank_charges"`
	ActualValue      decimal.Decimal `json:"actual_value"`
	PriceDifference  decimal.Decimal `json:"price_difference"`
	PledgeContinues  bool            `json:"pledge_continues"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// BankRedemptionFromDomain converts domain bank redemption to response.
func BankRedemptionFromDomain(red *domain.BankRedemption) *BankRedemptionResponse {
	return &BankRedemptionResponse{
		ID:               red.ID,
		BankPledgeID:     red.BankPledgeID,
		RedemptionDate:   red.RedemptionDate,
		AmountPaidToBank: red.AmountPaidToBank,
		InterestOnLoan:   red.InterestOnLoan,
		BankCharges:      red.BankCharges,
		ActualValue:      red.ActualValue,
		PriceDifference:  red.PriceDifference,
		PledgeContinues:  red.PledgeContinues,
		Notes:            red.Notes,
		CreatedAt:        red.CreatedAt,
	}
}

// ExpenseResponse represents an expense transaction in API responses.
type ExpenseResponse struct {
	ID              string          `json:"id"`
	TransactionNo   string          `json:"transaction_no"`
	TransactionDate time.Time       `json:"transaction_date"`
	DebitAccountID  string          `json:"debit_account_id"`
	CreditAccountID string          `json:"credit_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description,omitempty"`
	CoaStatus       string          `json:"coa_status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ExpenseFromDomain converts domain expense to response.
func ExpenseFromDomain(e *domain.ExpenseTransaction) *ExpenseResponse {
	return &ExpenseResponse{
		ID:              e.ID,
		TransactionNo:   e.TransactionNo,
		TransactionDate: e.TransactionDate,
		DebitAccountID:  e.DebitAccountID,
		CreditAccountID: e.CreditAccountID,
		Amount:          e.Amount,
		Description:     e.Description,
		CoaStatus:       string(e.CoaStatus),
		CreatedAt:       e.CreatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []*domain.ExpenseTransaction) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e)
	}
	return result
}

// VoucherLineResponse is one leg of a manual voucher.
type VoucherLineResponse struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Side        string          `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// VoucherResponse represents a manual voucher in API responses.
type VoucherResponse struct {
	ID          string                 `json:"id"`
	VoucherNo   string                 `json:"voucher_no"`
	VoucherDate time.Time              `json:"voucher_date"`
	Narration   string                 `json:"narration,omitempty"`
	Status      string                 `json:"status"`
	Lines       []*VoucherLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// VoucherFromDomain converts domain voucher to response.
func VoucherFromDomain(v *domain.Voucher) *VoucherResponse {
	lines := make([]*VoucherLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = &VoucherLineResponse{
			ID:          l.ID,
			AccountID:   l.AccountID,
			Side:        string(l.Side),
			Amount:      l.Amount,
			Description: l.Description,
		}
	}
	return &VoucherResponse{
		ID:          v.ID,
		VoucherNo:   v.VoucherNo,
		VoucherDate: v.VoucherDate,
		Narration:   v.Narration,
		Status:      string(v.Status),
		Lines:       lines,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// VouchersFromDomain converts domain vouchers to responses.
func VouchersFromDomain(vouchers []*domain.Voucher) []*VoucherResponse {
	result := make([]*VoucherResponse, len(vouchers))
	for i, v := range vouchers {
		result[i] = VoucherFromDomain(v)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
