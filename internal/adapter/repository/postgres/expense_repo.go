package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/usecase"
)

const expenseColumns = `id, company_id, transaction_no, transaction_date,
	debit_account_id, credit_account_id, amount, description, coa_status,
	created_by, created_at`

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create creates a new expense transaction.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, exp *domain.ExpenseTransaction) error {
	_, err := queryable(r.pool, tx).Exec(ctx,
		`INSERT INTO expense_transactions (`+expenseColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		exp.ID,
		exp.CompanyID,
		exp.TransactionNo,
		timeToPgTimestamptz(exp.TransactionDate),
		exp.DebitAccountID,
		exp.CreditAccountID,
		decimalToNumeric(exp.Amount),
		exp.Description,
		string(exp.CoaStatus),
		exp.CreatedBy,
		timeToPgTimestamptz(exp.CreatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}

	return err
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, companyID, id string) (*domain.ExpenseTransaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expense_transactions
		 WHERE company_id = $1 AND id = $2`,
		companyID, id)

	return scanExpense(row)
}

// Delete removes an expense row.
func (r *ExpenseRepository) Delete(ctx context.Context, tx usecase.Transaction, companyID, id string) error {
	tag, err := queryable(r.pool, tx).Exec(ctx,
		`DELETE FROM expense_transactions WHERE company_id = $1 AND id = $2`,
		companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

// List lists expenses within an optional date window, newest first.
func (r *ExpenseRepository) List(ctx context.Context, companyID string, from, to *time.Time, limit, offset int) ([]*domain.ExpenseTransaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+expenseColumns+` FROM expense_transactions
		 WHERE company_id = $1
		   AND ($2::timestamptz IS NULL OR transaction_date >= $2)
		   AND ($3::timestamptz IS NULL OR transaction_date <= $3)
		 ORDER BY transaction_date DESC, id DESC LIMIT $4 OFFSET $5`,
		companyID, from, to, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.ExpenseTransaction
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, exp)
	}

	return expenses, rows.Err()
}

func scanExpense(row pgx.Row) (*domain.ExpenseTransaction, error) {
	var (
		exp             domain.ExpenseTransaction
		coaStatus       string
		amount          pgtype.Numeric
		txDate, created pgtype.Timestamptz
	)

	err := row.Scan(&exp.ID, &exp.CompanyID, &exp.TransactionNo, &txDate,
		&exp.DebitAccountID, &exp.CreditAccountID, &amount, &exp.Description,
		&coaStatus, &exp.CreatedBy, &created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}

		return nil, err
	}

	exp.CoaStatus = domain.PostingStatus(coaStatus)
	exp.TransactionDate = txDate.Time
	exp.Amount = numericToDecimal(amount)
	exp.CreatedAt = created.Time

	return &exp, nil
}
