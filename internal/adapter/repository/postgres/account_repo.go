package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/usecase"
)

const pgErrUniqueViolation = "23505"

const accountColumns = `id, company_id, code, name, type, category, parent_id,
	opening_balance, balance, active, description, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const insertAccountSQL = `
INSERT INTO chart_of_accounts (` + accountColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.create(ctx, r.pool, account)
}

// CreateTx creates a new account inside an existing transaction.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	return r.create(ctx, queryable(r.pool, tx), account)
}

func (r *AccountRepository) create(ctx context.Context, db dbtx, account *domain.Account) error {
	_, err := db.Exec(ctx, insertAccountSQL,
		account.ID,
		account.CompanyID,
		account.Code,
		account.Name,
		string(account.Type),
		account.Category,
		account.ParentID,
		decimalToNumeric(account.OpeningBalance),
		decimalToNumeric(account.Balance),
		account.Active,
		account.Description,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateAccount
	}

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM chart_of_accounts WHERE company_id = $1 AND id = $2`,
		companyID, id)

	return scanAccount(row)
}

// GetByCode retrieves an account by its chart code.
func (r *AccountRepository) GetByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM chart_of_accounts WHERE company_id = $1 AND code = $2`,
		companyID, code)

	return scanAccount(row)
}

// GetByIDsForUpdate retrieves multiple accounts by IDs with FOR UPDATE locks.
// Callers pass ids pre-sorted so concurrent postings lock in the same order.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, companyID string, ids []string) ([]*domain.Account, error) {
	rows, err := queryable(r.pool, tx).Query(ctx,
		`SELECT `+accountColumns+` FROM chart_of_accounts
		 WHERE company_id = $1 AND id = ANY($2)
		 ORDER BY id FOR UPDATE`,
		companyID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// GetOrCreateByCodeForUpdate resolves a conventional account by code inside
// the caller's transaction, creating it when missing, and returns it
// row-locked. The insert-then-lock shape makes concurrent first postings to
// the same role safe: only one insert wins and both sides lock the same row.
func (r *AccountRepository) GetOrCreateByCodeForUpdate(ctx context.Context, tx usecase.Transaction, companyID string, def domain.AccountDefinition, id string, now time.Time) (*domain.Account, error) {
	db := queryable(r.pool, tx)

	_, err := db.Exec(ctx,
		`INSERT INTO chart_of_accounts (`+accountColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, NULL, 0, 0, TRUE, '', $7, $7)
		 ON CONFLICT (company_id, code) DO NOTHING`,
		id, companyID, def.Code, def.Name, string(def.Type), def.Category,
		timeToPgTimestamptz(now))
	if err != nil {
		return nil, err
	}

	row := db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM chart_of_accounts
		 WHERE company_id = $1 AND code = $2 FOR UPDATE`,
		companyID, def.Code)

	return scanAccount(row)
}

// UpdateBalance updates the running balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	_, err := queryable(r.pool, tx).Exec(ctx,
		`UPDATE chart_of_accounts SET balance = $2, updated_at = $3 WHERE id = $1`,
		id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))

	return err
}

// Update updates the descriptive fields of an account.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE chart_of_accounts
		 SET name = $3, category = $4, description = $5, active = $6, updated_at = $7
		 WHERE company_id = $1 AND id = $2`,
		account.CompanyID, account.ID,
		account.Name, account.Category, account.Description, account.Active,
		timeToPgTimestamptz(account.UpdatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account row inside tx.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, companyID, id string) error {
	tag, err := queryable(r.pool, tx).Exec(ctx,
		`DELETE FROM chart_of_accounts WHERE company_id = $1 AND id = $2`,
		companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts with pagination, ordered by code.
func (r *AccountRepository) List(ctx context.Context, companyID string, activeOnly bool, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM chart_of_accounts
		 WHERE company_id = $1 AND ($2 = FALSE OR active)
		 ORDER BY code LIMIT $3 OFFSET $4`,
		companyID, activeOnly, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a              domain.Account
		accountType    string
		opening, bal   pgtype.Numeric
		created, updat pgtype.Timestamptz
	)

	err := row.Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &accountType,
		&a.Category, &a.ParentID, &opening, &bal, &a.Active, &a.Description,
		&created, &updat)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	a.Type = domain.AccountType(accountType)
	a.OpeningBalance = numericToDecimal(opening)
	a.Balance = numericToDecimal(bal)
	a.CreatedAt = created.Time
	a.UpdatedAt = updat.Time

	return &a, nil
}

func scanAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}
