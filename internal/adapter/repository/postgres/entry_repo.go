package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/usecase"
)

const entryColumns = `id, company_id, account_id, side, amount, description,
	reference_type, reference_id, reversed, reversal_of, created_by, created_at`

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create creates a new ledger entry. Entries are append-only; there is no
// update path.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	_, err := queryable(r.pool, tx).Exec(ctx,
		`INSERT INTO ledger_entries (`+entryColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		entry.ID,
		entry.CompanyID,
		entry.AccountID,
		string(entry.Side),
		decimalToNumeric(entry.Amount),
		entry.Description,
		string(entry.Reference.Type),
		entry.Reference.ID,
		entry.Reversed,
		entry.ReversalOf,
		entry.CreatedBy,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// GetByReference retrieves the entries of one business event.
func (r *EntryRepository) GetByReference(ctx context.Context, companyID string, ref domain.Reference) ([]*domain.LedgerEntry, error) {
	return r.getByReference(ctx, r.pool, companyID, ref, "")
}

// GetByReferenceForUpdate retrieves the entries of one business event with
// FOR UPDATE locks, so a concurrent reversal of the same event blocks.
func (r *EntryRepository) GetByReferenceForUpdate(ctx context.Context, tx usecase.Transaction, companyID string, ref domain.Reference) ([]*domain.LedgerEntry, error) {
	return r.getByReference(ctx, queryable(r.pool, tx), companyID, ref, " FOR UPDATE")
}

func (r *EntryRepository) getByReference(ctx context.Context, db dbtx, companyID string, ref domain.Reference, lock string) ([]*domain.LedgerEntry, error) {
	rows, err := db.Query(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries
		 WHERE company_id = $1 AND reference_type = $2 AND reference_id = $3
		 ORDER BY created_at, id`+lock,
		companyID, string(ref.Type), ref.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// MarkReversed flags original entries after their mirrors have been posted.
// This is the only mutation ledger entries ever see.
func (r *EntryRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, ids []string) error {
	_, err := queryable(r.pool, tx).Exec(ctx,
		`UPDATE ledger_entries SET reversed = TRUE WHERE id = ANY($1)`, ids)

	return err
}

// ExistsByAccount reports whether any ledger entry references the account.
func (r *EntryRepository) ExistsByAccount(ctx context.Context, tx usecase.Transaction, companyID, accountID string) (bool, error) {
	var exists bool
	err := queryable(r.pool, tx).QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM ledger_entries
		   WHERE company_id = $1 AND account_id = $2
		 )`,
		companyID, accountID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// ListByAccount retrieves an account's entries, newest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, companyID, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries
		 WHERE company_id = $1 AND account_id = $2
		 ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		companyID, accountID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// TrialBalance aggregates gross debits and credits per account, including
// reversed entries and their mirrors, so the report always nets to zero.
// With asOf set, only entries created up to that instant count and the
// balance column is replayed from opening balance plus the filtered sums
// instead of read from the running balance.
func (r *EntryRepository) TrialBalance(ctx context.Context, companyID string, asOf *time.Time) ([]*domain.TrialBalanceRow, error) {
	var cutoff pgtype.Timestamptz
	if asOf != nil {
		cutoff = timeToPgTimestamptz(*asOf)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.code, a.name, a.type,
		        COALESCE(SUM(e.amount) FILTER (WHERE e.side = 'Debit'), 0),
		        COALESCE(SUM(e.amount) FILTER (WHERE e.side = 'Credit'), 0),
		        a.balance, a.opening_balance
		 FROM chart_of_accounts a
		 JOIN ledger_entries e ON e.account_id = a.id
		 WHERE a.company_id = $1
		   AND ($2::timestamptz IS NULL OR e.created_at <= $2)
		 GROUP BY a.id, a.code, a.name, a.type, a.balance, a.opening_balance
		 ORDER BY a.code`,
		companyID, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.TrialBalanceRow
	for rows.Next() {
		var (
			row                         domain.TrialBalanceRow
			accountType                 string
			debit, credit, bal, opening pgtype.Numeric
		)
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName,
			&accountType, &debit, &credit, &bal, &opening); err != nil {
			return nil, err
		}
		row.AccountType = domain.AccountType(accountType)
		row.DebitTotal = numericToDecimal(debit)
		row.CreditTotal = numericToDecimal(credit)
		row.Balance = numericToDecimal(bal)
		if asOf != nil {
			net := row.DebitTotal.Sub(row.CreditTotal)
			if !row.AccountType.DebitNormal() {
				net = net.Neg()
			}
			row.Balance = numericToDecimal(opening).Add(net)
		}
		out = append(out, &row)
	}

	return out, rows.Err()
}

func scanEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry
	for rows.Next() {
		var (
			e       domain.LedgerEntry
			side    string
			refType string
			amount  pgtype.Numeric
			created pgtype.Timestamptz
		)
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.AccountID, &side, &amount,
			&e.Description, &refType, &e.Reference.ID, &e.Reversed,
			&e.ReversalOf, &e.CreatedBy, &created); err != nil {
			return nil, err
		}
		e.Side = domain.EntrySide(side)
		e.Reference.Type = domain.ReferenceType(refType)
		e.Amount = numericToDecimal(amount)
		e.CreatedAt = created.Time
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
