package domain

import (
	"github.com/shopspring/decimal"
)

// AccountRole names a conventional account a posting rule targets. Roles are
// resolved to concrete chart of accounts rows at posting time, creating the
// account on first use.
type AccountRole string

const (
	RoleCash                AccountRole = "cash"
	RoleCustomerReceivable  AccountRole = "customer_receivable"
	RoleInterestIncome      AccountRole = "interest_income"
	RoleInterestDiscount    AccountRole = "interest_discount"
	RolePenaltyIncome       AccountRole = "penalty_income"
	RoleBankPledgeAsset     AccountRole = "bank_pledge_asset"
	RoleBankLoanPayable     AccountRole = "bank_loan_payable"
	RoleBankInterestExpense AccountRole = "bank_interest_expense"
	RoleBankChargesExpense  AccountRole = "bank_charges_expense"
	RoleGainLoss            AccountRole = "gain_loss"
)

// AccountDefinition is the canonical identity of a conventional account.
type AccountDefinition struct {
	Code     string
	Name     string
	Type     AccountType
	Category string
}

var roleDefs = map[AccountRole]AccountDefinition{
	RoleCash:                {Code: "1000", Name: "Cash", Type: AccountTypeAsset, Category: "Cash"},
	RoleCustomerReceivable:  {Code: "1051", Name: "Receivable - Pledges", Type: AccountTypeAsset, Category: "Receivable"},
	RoleInterestIncome:      {Code: "4000", Name: "Pledge Interest Income", Type: AccountTypeIncome, Category: "Interest Income"},
	RoleInterestDiscount:    {Code: "5060", Name: "Interest Discount", Type: AccountTypeExpense, Category: "Discount"},
	RolePenaltyIncome:       {Code: "4050", Name: "Penalty Income", Type: AccountTypeIncome, Category: "Penalty"},
	RoleBankPledgeAsset:     {Code: "2100", Name: "Bank Pledge Asset", Type: AccountTypeAsset, Category: "Receivable"},
	RoleBankLoanPayable:     {Code: "2200", Name: "Bank Loan Payable", Type: AccountTypeLiability, Category: "Payables"},
	RoleBankInterestExpense: {Code: "5300", Name: "Bank Interest Expense", Type: AccountTypeExpense, Category: "Interest"},
	RoleBankChargesExpense:  {Code: "5400", Name: "Bank Charges Expense", Type: AccountTypeExpense, Category: "Charges"},
	RoleGainLoss:            {Code: "4200", Name: "Gain/Loss on Pledges", Type: AccountTypeIncome, Category: "Other Income"},
}

// AccountRef points a posting line at an account: either a conventional role
// (materialized on demand) or an explicit chart of accounts id supplied by
// the caller (payment accounts, expense accounts, manual vouchers).
type AccountRef struct {
	Role      AccountRole
	AccountID string
}

// Definition returns the canonical account identity for a role reference.
func (r AccountRef) Definition() (AccountDefinition, error) {
	def, ok := roleDefs[r.Role]
	if !ok {
		return AccountDefinition{}, ErrUnknownAccountRole
	}
	return def, nil
}

// PostingLine is one leg a posting rule wants recorded.
type PostingLine struct {
	Account     AccountRef
	Side        EntrySide
	Amount      decimal.Decimal
	Description string
}

// roleLine is a convenience constructor used by the posting rules.
func roleLine(role AccountRole, side EntrySide, amount decimal.Decimal, desc string) PostingLine {
	return PostingLine{Account: AccountRef{Role: role}, Side: side, Amount: Round2(amount), Description: desc}
}

// accountLine builds a line against an explicit account id.
func accountLine(accountID string, side EntrySide, amount decimal.Decimal, desc string) PostingLine {
	return PostingLine{Account: AccountRef{AccountID: accountID}, Side: side, Amount: Round2(amount), Description: desc}
}

// ValidateLines checks the mechanical posting invariants: at least one line,
// every amount strictly positive, every line targeting an account, and
// debits equal to credits within BalanceTolerance.
func ValidateLines(lines []PostingLine) error {
	if len(lines) == 0 {
		return ErrEmptyPosting
	}

	debits := decimal.Zero
	credits := decimal.Zero

	for _, l := range lines {
		if l.Account.Role == "" && l.Account.AccountID == "" {
			return ErrMissingLineAccount
		}
		if l.Amount.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidAmount
		}
		if l.Side == Debit {
			debits = debits.Add(l.Amount)
		} else {
			credits = credits.Add(l.Amount)
		}
	}

	if debits.Sub(credits).Abs().GreaterThan(BalanceTolerance) {
		return ErrUnbalancedPosting
	}

	return nil
}
