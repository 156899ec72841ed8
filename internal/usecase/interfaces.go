package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, companyID, id string) (*domain.Account, error)
	GetByCode(ctx context.Context, companyID, code string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, companyID string, ids []string) ([]*domain.Account, error)
	// GetOrCreateByCodeForUpdate resolves a conventional account by code,
	// creating it from def when missing, and returns it row-locked.
	GetOrCreateByCodeForUpdate(ctx context.Context, tx Transaction, companyID string, def domain.AccountDefinition, id string, now time.Time) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, tx Transaction, companyID, id string) error
	List(ctx context.Context, companyID string, activeOnly bool, limit, offset int) ([]*domain.Account, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByReference(ctx context.Context, companyID string, ref domain.Reference) ([]*domain.LedgerEntry, error)
	GetByReferenceForUpdate(ctx context.Context, tx Transaction, companyID string, ref domain.Reference) ([]*domain.LedgerEntry, error)
	MarkReversed(ctx context.Context, tx Transaction, ids []string) error
	ExistsByAccount(ctx context.Context, tx Transaction, companyID, accountID string) (bool, error)
	ListByAccount(ctx context.Context, companyID, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	TrialBalance(ctx context.Context, companyID string, asOf *time.Time) ([]*domain.TrialBalanceRow, error)
}

// PledgeRepository defines data access for pledges.
type PledgeRepository interface {
	Create(ctx context.Context, tx Transaction, pledge *domain.Pledge) error
	GetByID(ctx context.Context, companyID, id string) (*domain.Pledge, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, companyID, id string) (*domain.Pledge, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, companyID string, ids []string) ([]*domain.Pledge, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.PledgeStatus, coaStatus domain.PostingStatus, updatedBy string, updatedAt time.Time) error
	Update(ctx context.Context, tx Transaction, pledge *domain.Pledge) error
	Delete(ctx context.Context, tx Transaction, companyID, id string) error
	List(ctx context.Context, companyID string, status domain.PledgeStatus, limit, offset int) ([]*domain.Pledge, error)
}

// ReceiptRepository defines data access for pledge receipts and their items.
type ReceiptRepository interface {
	Create(ctx context.Context, tx Transaction, receipt *domain.Receipt) error
	GetByID(ctx context.Context, companyID, id string) (*domain.Receipt, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, companyID, id string) (*domain.Receipt, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.ReceiptStatus, coaStatus domain.PostingStatus, updatedBy string, updatedAt time.Time) error
	ReplaceItems(ctx context.Context, tx Transaction, receipt *domain.Receipt) error
	Delete(ctx context.Context, tx Transaction, companyID, id string) error
	List(ctx context.Context, companyID string, status domain.ReceiptStatus, limit, offset int) ([]*domain.Receipt, error)
	ListByPledge(ctx context.Context, companyID, pledgeID string) ([]*domain.Receipt, error)
	// SumPaidPrincipal totals paid principal for a pledge across receipts in
	// the given statuses. A nil tx reads outside any transaction.
	SumPaidPrincipal(ctx context.Context, tx Transaction, companyID, pledgeID string, statuses []domain.ReceiptStatus) (decimal.Decimal, error)
}

// BankPledgeRepository defines data access for bank pledges and redemptions.
type BankPledgeRepository interface {
	Create(ctx context.Context, tx Transaction, bp *domain.BankPledge) error
	GetByID(ctx context.Context, companyID, id string) (*domain.BankPledge, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, companyID, id string) (*domain.BankPledge, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.BankPledgeStatus, coaStatus domain.PostingStatus, updatedBy string, updatedAt time.Time) error
	List(ctx context.Context, companyID string, status domain.BankPledgeStatus, limit, offset int) ([]*domain.BankPledge, error)
	CreateRedemption(ctx context.Context, tx Transaction, red *domain.BankRedemption) error
	GetRedemptionByBankPledge(ctx context.Context, companyID, bankPledgeID string) (*domain.BankRedemption, error)
}

// ExpenseRepository defines data access for expense transactions.
type ExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, exp *domain.ExpenseTransaction) error
	GetByID(ctx context.Context, companyID, id string) (*domain.ExpenseTransaction, error)
	Delete(ctx context.Context, tx Transaction, companyID, id string) error
	List(ctx context.Context, companyID string, from, to *time.Time, limit, offset int) ([]*domain.ExpenseTransaction, error)
}

// VoucherRepository defines data access for manual journal vouchers.
type VoucherRepository interface {
	Create(ctx context.Context, tx Transaction, voucher *domain.Voucher) error
	GetByID(ctx context.Context, companyID, id string) (*domain.Voucher, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, companyID, id string) (*domain.Voucher, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.VoucherStatus, updatedBy string, updatedAt time.Time) error
	List(ctx context.Context, companyID string, limit, offset int) ([]*domain.Voucher, error)
}

// SequenceGenerator hands out gapless per-company document numbers.
type SequenceGenerator interface {
	// Next returns the next sequence value for (companyID, prefix, period),
	// starting at 1. Must be called inside a transaction so a rolled back
	// event does not burn a number.
	Next(ctx context.Context, tx Transaction, companyID, prefix string, period int) (int, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs a transactional operation when the database reports a
// transient conflict (deadlock, serialization failure).
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
