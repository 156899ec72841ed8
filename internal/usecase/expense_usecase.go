package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/domain"
)

// ExpenseUseCase handles operating expense transactions.
type ExpenseUseCase struct {
	txManager   TransactionManager
	expenseRepo ExpenseRepository
	engine      *LedgerEngine
	seqGen      SequenceGenerator
	idGen       IDGenerator
	retrier     Retrier
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(
	txManager TransactionManager,
	expenseRepo ExpenseRepository,
	engine *LedgerEngine,
	seqGen SequenceGenerator,
	idGen IDGenerator,
	retrier Retrier,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:   txManager,
		expenseRepo: expenseRepo,
		engine:      engine,
		seqGen:      seqGen,
		idGen:       idGen,
		retrier:     retrier,
	}
}

// CreateExpenseInput represents input for recording an expense.
type CreateExpenseInput struct {
	CompanyID       string
	UserID          string
	TransactionDate time.Time
	DebitAccountID  string
	CreditAccountID string
	Amount          decimal.Decimal
	Description     string
}

// CreateExpense records an expense and posts its two legs atomically.
// Numbers run monthly, so EXP-202509-0001 restarts each month.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.ExpenseTransaction, error) {
	now := time.Now().UTC()

	txDate := input.TransactionDate
	if txDate.IsZero() {
		txDate = now
	}

	exp := &domain.ExpenseTransaction{
		ID:              uc.idGen.Generate(),
		CompanyID:       input.CompanyID,
		TransactionDate: txDate,
		DebitAccountID:  input.DebitAccountID,
		CreditAccountID: input.CreditAccountID,
		Amount:          domain.Round2(input.Amount),
		Description:     input.Description,
		CoaStatus:       domain.PostingPending,
		CreatedBy:       input.UserID,
		CreatedAt:       now,
	}

	if err := exp.Validate(); err != nil {
		return nil, err
	}

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		seq, err := uc.seqGen.Next(ctx, tx, input.CompanyID, domain.PrefixExpense, domain.MonthPeriod(txDate))
		if err != nil {
			return err
		}
		exp.TransactionNo = domain.FormatSequenceNo(domain.PrefixExpense, domain.MonthPeriod(txDate), seq)

		if err := uc.expenseRepo.Create(ctx, tx, exp); err != nil {
			return err
		}

		lines := domain.ExpensePostingLines(exp)
		ref := domain.Reference{Type: domain.RefExpense, ID: exp.ID}
		if _, err := uc.engine.Post(ctx, tx, input.CompanyID, input.UserID, ref, lines, now); err != nil {
			return err
		}

		exp.CoaStatus = domain.PostingPosted
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return exp, nil
}

// DeleteExpense reverses an expense's entries and removes the record.
func (uc *ExpenseUseCase) DeleteExpense(ctx context.Context, companyID, userID, id string) error {
	now := time.Now().UTC()

	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if _, err := uc.expenseRepo.GetByID(ctx, companyID, id); err != nil {
			return err
		}

		ref := domain.Reference{Type: domain.RefExpense, ID: id}
		if _, err := uc.engine.Reverse(ctx, tx, companyID, userID, ref, "expense deleted", now); err != nil {
			return err
		}

		if err := uc.expenseRepo.Delete(ctx, tx, companyID, id); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

// GetExpense retrieves an expense by ID.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, companyID, id string) (*domain.ExpenseTransaction, error) {
	return uc.expenseRepo.GetByID(ctx, companyID, id)
}

// ListExpensesInput represents input for listing expenses.
type ListExpensesInput struct {
	CompanyID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// ListExpenses lists expenses within an optional date range.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, input ListExpensesInput) ([]*domain.ExpenseTransaction, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.expenseRepo.List(ctx, input.CompanyID, input.From, input.To, input.Limit, input.Offset)
}
