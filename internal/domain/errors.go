package domain

import (
	"errors"
	"fmt"
)

// Base error kinds. Every domain error wraps exactly one of these so callers
// can classify with errors.Is without knowing the concrete failure.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrDependency = errors.New("dependency error")
	ErrFatal      = errors.New("fatal accounting error")
)

// Account errors
var (
	ErrAccountNotFound   = fmt.Errorf("%w: account", ErrNotFound)
	ErrDuplicateAccount  = fmt.Errorf("%w: account code already exists for company", ErrConflict)
	ErrAccountHasEntries = fmt.Errorf("%w: account is referenced by ledger entries", ErrDependency)
	ErrAccountInactive   = fmt.Errorf("%w: account is inactive", ErrValidation)
)

// Posting errors
var (
	ErrUnbalancedPosting  = fmt.Errorf("%w: posting debits do not equal credits", ErrValidation)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrEmptyPosting       = fmt.Errorf("%w: posting has no lines", ErrValidation)
	ErrNoEntriesToReverse = fmt.Errorf("%w: no ledger entries for reference", ErrNotFound)
	ErrAlreadyReversed    = fmt.Errorf("%w: ledger entries already reversed", ErrConflict)
	ErrTrialBalanceBroken = fmt.Errorf("%w: trial balance does not net to zero", ErrFatal)
	ErrUnknownAccountRole = fmt.Errorf("%w: unknown account role", ErrValidation)
	ErrMissingLineAccount = fmt.Errorf("%w: posting line has neither role nor account id", ErrValidation)
)

// Pledge errors
var (
	ErrPledgeNotFound         = fmt.Errorf("%w: pledge", ErrNotFound)
	ErrPledgeNotActive        = fmt.Errorf("%w: pledge is not active", ErrConflict)
	ErrPledgeHasReceipts      = fmt.Errorf("%w: pledge has posted receipts", ErrDependency)
	ErrInvalidPledgeValuation = fmt.Errorf("%w: valuation must not be below loan amount", ErrValidation)
)

// Receipt errors
var (
	ErrReceiptNotFound         = fmt.Errorf("%w: receipt", ErrNotFound)
	ErrReceiptNotDraft         = fmt.Errorf("%w: receipt is not in draft status", ErrConflict)
	ErrReceiptNotPosted        = fmt.Errorf("%w: receipt is not posted", ErrConflict)
	ErrReceiptNoItems          = fmt.Errorf("%w: receipt must have at least one item", ErrValidation)
	ErrReceiptAmountMismatch   = fmt.Errorf("%w: receipt amount does not equal sum of items", ErrValidation)
	ErrDiscountExceedsInterest = fmt.Errorf("%w: discount exceeds interest amount", ErrValidation)
	ErrExceedsOutstanding      = fmt.Errorf("%w: payment exceeds outstanding principal", ErrValidation)
)

// Bank pledge errors
var (
	ErrBankPledgeNotFound = fmt.Errorf("%w: bank pledge", ErrNotFound)
	ErrBankPledgeNotHeld  = fmt.Errorf("%w: bank pledge is not with bank", ErrConflict)
	ErrLTVOutOfRange      = fmt.Errorf("%w: LTV percentage must be between 50 and 95", ErrValidation)
)

// Expense and voucher errors
var (
	ErrExpenseNotFound    = fmt.Errorf("%w: expense transaction", ErrNotFound)
	ErrSameAccount        = fmt.Errorf("%w: debit and credit accounts must differ", ErrValidation)
	ErrVoucherNotFound    = fmt.Errorf("%w: voucher", ErrNotFound)
	ErrVoucherNotPosted   = fmt.Errorf("%w: voucher is not posted", ErrConflict)
	ErrVoucherTooFewLines = fmt.Errorf("%w: voucher needs at least two lines", ErrValidation)
	ErrInvalidEntrySide   = fmt.Errorf("%w: transaction type must be Debit or Credit", ErrValidation)
)
