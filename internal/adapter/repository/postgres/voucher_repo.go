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

const voucherColumns = `id, company_id, voucher_no, voucher_date, narration,
	status, created_by, created_at, updated_by, updated_at`

const voucherLineColumns = `id, voucher_id, account_id, side, amount, description`

// VoucherRepository implements usecase.VoucherRepository. Voucher lines are
// immutable once written; a wrong voucher is reversed, never edited.
type VoucherRepository struct {
	pool *pgxpool.Pool
}

// NewVoucherRepository creates a new VoucherRepository.
func NewVoucherRepository(pool *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// Create creates a voucher with its lines.
func (r *VoucherRepository) Create(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error {
	db := queryable(r.pool, tx)

	_, err := db.Exec(ctx,
		`INSERT INTO vouchers (`+voucherColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		voucher.ID,
		voucher.CompanyID,
		voucher.VoucherNo,
		timeToPgTimestamptz(voucher.VoucherDate),
		voucher.Narration,
		string(voucher.Status),
		voucher.CreatedBy,
		timeToPgTimestamptz(voucher.CreatedAt),
		voucher.UpdatedBy,
		timeToPgTimestamptz(voucher.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return err
	}

	for _, line := range voucher.Lines {
		_, err := db.Exec(ctx,
			`INSERT INTO voucher_lines (`+voucherLineColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			line.ID,
			line.VoucherID,
			line.AccountID,
			string(line.Side),
			decimalToNumeric(line.Amount),
			line.Description,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a voucher with its lines.
func (r *VoucherRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Voucher, error) {
	return r.getByID(ctx, r.pool, companyID, id, "")
}

// GetByIDForUpdate retrieves a voucher with a FOR UPDATE lock on the header.
func (r *VoucherRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.Voucher, error) {
	return r.getByID(ctx, queryable(r.pool, tx), companyID, id, " FOR UPDATE")
}

func (r *VoucherRepository) getByID(ctx context.Context, db dbtx, companyID, id, lock string) (*domain.Voucher, error) {
	row := db.QueryRow(ctx,
		`SELECT `+voucherColumns+` FROM vouchers
		 WHERE company_id = $1 AND id = $2`+lock,
		companyID, id)

	voucher, err := scanVoucher(row)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx,
		`SELECT `+voucherLineColumns+` FROM voucher_lines
		 WHERE voucher_id = $1 ORDER BY id`,
		voucher.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line   domain.VoucherLine
			side   string
			amount pgtype.Numeric
		)
		if err := rows.Scan(&line.ID, &line.VoucherID, &line.AccountID,
			&side, &amount, &line.Description); err != nil {
			return nil, err
		}
		line.Side = domain.EntrySide(side)
		line.Amount = numericToDecimal(amount)
		voucher.Lines = append(voucher.Lines, &line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return voucher, nil
}

// UpdateStatus moves a voucher through its lifecycle.
func (r *VoucherRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.VoucherStatus, updatedBy string, updatedAt time.Time) error {
	tag, err := queryable(r.pool, tx).Exec(ctx,
		`UPDATE vouchers SET status = $2, updated_by = $3, updated_at = $4 WHERE id = $1`,
		id, string(status), updatedBy, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVoucherNotFound
	}

	return nil
}

// List lists vouchers, newest first. Lines are not loaded.
func (r *VoucherRepository) List(ctx context.Context, companyID string, limit, offset int) ([]*domain.Voucher, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+voucherColumns+` FROM vouchers
		 WHERE company_id = $1
		 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		companyID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vouchers []*domain.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}

	return vouchers, rows.Err()
}

func scanVoucher(row pgx.Row) (*domain.Voucher, error) {
	var (
		v                       domain.Voucher
		status                  string
		vDate, created, updated pgtype.Timestamptz
	)

	err := row.Scan(&v.ID, &v.CompanyID, &v.VoucherNo, &vDate, &v.Narration,
		&status, &v.CreatedBy, &created, &v.UpdatedBy, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVoucherNotFound
		}

		return nil, err
	}

	v.Status = domain.VoucherStatus(status)
	v.VoucherDate = vDate.Time
	v.CreatedAt = created.Time
	v.UpdatedAt = updated.Time

	return &v, nil
}
