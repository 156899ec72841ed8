package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/domain"
)

// ChartUseCase handles chart of accounts business logic.
type ChartUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
}

// NewChartUseCase creates a new ChartUseCase.
func NewChartUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
) *ChartUseCase {
	return &ChartUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	CompanyID      string
	Code           string
	Name           string
	Type           domain.AccountType
	Category       string
	ParentID       *string
	OpeningBalance decimal.Decimal
	Description    string
}

// CreateAccount creates a new chart of accounts node. The running balance
// starts at the opening balance.
func (uc *ChartUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if !input.Type.Valid() {
		return nil, domain.ErrValidation
	}
	if input.Code == "" || input.Name == "" {
		return nil, domain.ErrValidation
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		CompanyID:      input.CompanyID,
		Code:           input.Code,
		Name:           input.Name,
		Type:           input.Type,
		Category:       input.Category,
		ParentID:       input.ParentID,
		OpeningBalance: input.OpeningBalance,
		Balance:        input.OpeningBalance,
		Active:         true,
		Description:    input.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *ChartUseCase) GetAccount(ctx context.Context, companyID, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, companyID, id)
}

// UpdateAccountInput represents input for updating an account. Code and type
// are immutable once entries may exist; only descriptive fields change.
type UpdateAccountInput struct {
	CompanyID   string
	ID          string
	Name        string
	Category    string
	Description string
	Active      bool
}

// UpdateAccount updates the mutable fields of an account.
func (uc *ChartUseCase) UpdateAccount(ctx context.Context, input UpdateAccountInput) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.CompanyID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		account.Name = input.Name
	}
	if input.Category != "" {
		account.Category = input.Category
	}
	account.Description = input.Description
	account.Active = input.Active
	account.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// DeleteAccount removes an account that has never been posted to. An account
// referenced by ledger entries cannot be deleted; the attempt fails with a
// dependency error and leaves the account untouched. The check and the delete
// run in one transaction with the account row locked, so a posting cannot
// slip in between them.
func (uc *ChartUseCase) DeleteAccount(ctx context.Context, companyID, id string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, companyID, []string{id})
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return domain.ErrAccountNotFound
	}

	hasEntries, err := uc.entryRepo.ExistsByAccount(ctx, tx, companyID, id)
	if err != nil {
		return err
	}
	if hasEntries {
		return domain.ErrAccountHasEntries
	}

	if err := uc.accountRepo.Delete(ctx, tx, companyID, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	CompanyID  string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ListAccounts lists accounts with pagination.
func (uc *ChartUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = 50
	}
	if input.Limit > 500 {
		input.Limit = 500
	}
	return uc.accountRepo.List(ctx, input.CompanyID, input.ActiveOnly, input.Limit, input.Offset)
}

// seedAccount is one row of the default chart of accounts.
type seedAccount struct {
	Code     string
	Name     string
	Type     domain.AccountType
	Category string
}

// defaultChart is the starter chart of accounts created for a new company.
// Codes follow the shop's convention: 1xxx assets, 2xxx bank side, 3xxx
// equity, 4xxx income, 5xxx expenses.
var defaultChart = []seedAccount{
	{"1000", "Cash", domain.AccountTypeAsset, "Cash"},
	{"1010", "Bank Account", domain.AccountTypeAsset, "Bank"},
	{"1051", "Receivable - Pledges", domain.AccountTypeAsset, "Receivable"},
	{"1100", "Inventory - Forfeited Items", domain.AccountTypeAsset, "Inventory"},
	{"2100", "Bank Pledge Asset", domain.AccountTypeAsset, "Receivable"},
	{"2200", "Bank Loan Payable", domain.AccountTypeLiability, "Payables"},
	{"2300", "Customer Advances", domain.AccountTypeLiability, "Advances"},
	{"3000", "Owner Capital", domain.AccountTypeEquity, "Capital"},
	{"3100", "Retained Earnings", domain.AccountTypeEquity, "Earnings"},
	{"4000", "Pledge Interest Income", domain.AccountTypeIncome, "Interest Income"},
	{"4050", "Penalty Income", domain.AccountTypeIncome, "Penalty"},
	{"4100", "Sale of Forfeited Items", domain.AccountTypeIncome, "Sales"},
	{"4200", "Gain/Loss on Pledges", domain.AccountTypeIncome, "Other Income"},
	{"5000", "Salaries", domain.AccountTypeExpense, "Staff"},
	{"5010", "Rent", domain.AccountTypeExpense, "Premises"},
	{"5020", "Electricity", domain.AccountTypeExpense, "Utilities"},
	{"5030", "Repairs & Maintenance", domain.AccountTypeExpense, "Premises"},
	{"5060", "Interest Discount", domain.AccountTypeExpense, "Discount"},
	{"5300", "Bank Interest Expense", domain.AccountTypeExpense, "Interest"},
	{"5400", "Bank Charges Expense", domain.AccountTypeExpense, "Charges"},
}

// SeedDefaultChart creates the starter chart of accounts for a company.
// Codes that already exist are left untouched, so the call is idempotent and
// safe to re-run after a partial failure.
func (uc *ChartUseCase) SeedDefaultChart(ctx context.Context, companyID string) ([]*domain.Account, error) {
	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created := make([]*domain.Account, 0, len(defaultChart))
	for _, seed := range defaultChart {
		def := domain.AccountDefinition{
			Code:     seed.Code,
			Name:     seed.Name,
			Type:     seed.Type,
			Category: seed.Category,
		}
		account, err := uc.accountRepo.GetOrCreateByCodeForUpdate(ctx, tx, companyID, def, uc.idGen.Generate(), now)
		if err != nil {
			return nil, err
		}
		created = append(created, account)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}
