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

const pledgeColumns = `id, company_id, customer_id, scheme_id, pledge_no,
	pledge_date, gross_weight, net_weight, maximum_value, loan_amount,
	interest_rate, first_month_interest, payment_account_id, status,
	coa_status, created_by, created_at, updated_by, updated_at`

// PledgeRepository implements usecase.PledgeRepository.
type PledgeRepository struct {
	pool *pgxpool.Pool
}

// NewPledgeRepository creates a new PledgeRepository.
func NewPledgeRepository(pool *pgxpool.Pool) *PledgeRepository {
	return &PledgeRepository{pool: pool}
}

// Create creates a new pledge.
func (r *PledgeRepository) Create(ctx context.Context, tx usecase.Transaction, pledge *domain.Pledge) error {
	_, err := queryable(r.pool, tx).Exec(ctx,
		`INSERT INTO pledges (`+pledgeColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		pledge.ID,
		pledge.CompanyID,
		pledge.CustomerID,
		pledge.SchemeID,
		pledge.PledgeNo,
		timeToPgTimestamptz(pledge.PledgeDate),
		decimalToNumeric(pledge.GrossWeight),
		decimalToNumeric(pledge.NetWeight),
		decimalToNumeric(pledge.MaximumValue),
		decimalToNumeric(pledge.LoanAmount),
		decimalToNumeric(pledge.InterestRate),
		decimalToNumeric(pledge.FirstMonthInterest),
		pledge.PaymentAccountID,
		string(pledge.Status),
		string(pledge.CoaStatus),
		pledge.CreatedBy,
		timeToPgTimestamptz(pledge.CreatedAt),
		pledge.UpdatedBy,
		timeToPgTimestamptz(pledge.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}

	return err
}

// GetByID retrieves a pledge by ID.
func (r *PledgeRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Pledge, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+pledgeColumns+` FROM pledges WHERE company_id = $1 AND id = $2`,
		companyID, id)

	return scanPledge(row)
}

// GetByIDForUpdate retrieves a pledge by ID with a FOR UPDATE lock.
func (r *PledgeRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.Pledge, error) {
	row := queryable(r.pool, tx).QueryRow(ctx,
		`SELECT `+pledgeColumns+` FROM pledges WHERE company_id = $1 AND id = $2 FOR UPDATE`,
		companyID, id)

	return scanPledge(row)
}

// GetByIDsForUpdate retrieves multiple pledges with FOR UPDATE locks.
// Callers pass ids pre-sorted so concurrent receipts lock in the same order.
func (r *PledgeRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, companyID string, ids []string) ([]*domain.Pledge, error) {
	rows, err := queryable(r.pool, tx).Query(ctx,
		`SELECT `+pledgeColumns+` FROM pledges
		 WHERE company_id = $1 AND id = ANY($2)
		 ORDER BY id FOR UPDATE`,
		companyID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pledges []*domain.Pledge
	for rows.Next() {
		p, err := scanPledge(rows)
		if err != nil {
			return nil, err
		}
		pledges = append(pledges, p)
	}

	return pledges, rows.Err()
}

// UpdateStatus moves a pledge through its lifecycle and records who did it.
func (r *PledgeRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.PledgeStatus, coaStatus domain.PostingStatus, updatedBy string, updatedAt time.Time) error {
	tag, err := queryable(r.pool, tx).Exec(ctx,
		`UPDATE pledges SET status = $2, coa_status = $3, updated_by = $4, updated_at = $5
		 WHERE id = $1`,
		id, string(status), string(coaStatus), updatedBy, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPledgeNotFound
	}

	return nil
}

// Update rewrites a pledge's mutable fields.
func (r *PledgeRepository) Update(ctx context.Context, tx usecase.Transaction, pledge *domain.Pledge) error {
	tag, err := queryable(r.pool, tx).Exec(ctx,
		`UPDATE pledges
		 SET customer_id = $3, scheme_id = $4, pledge_date = $5, gross_weight = $6,
		     net_weight = $7, maximum_value = $8, loan_amount = $9, interest_rate = $10,
		     first_month_interest = $11, payment_account_id = $12, status = $13,
		     coa_status = $14, updated_by = $15, updated_at = $16
		 WHERE company_id = $1 AND id = $2`,
		pledge.CompanyID, pledge.ID,
		pledge.CustomerID, pledge.SchemeID, timeToPgTimestamptz(pledge.PledgeDate),
		decimalToNumeric(pledge.GrossWeight), decimalToNumeric(pledge.NetWeight),
		decimalToNumeric(pledge.MaximumValue), decimalToNumeric(pledge.LoanAmount),
		decimalToNumeric(pledge.InterestRate), decimalToNumeric(pledge.FirstMonthInterest),
		pledge.PaymentAccountID, string(pledge.Status), string(pledge.CoaStatus),
		pledge.UpdatedBy, timeToPgTimestamptz(pledge.UpdatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPledgeNotFound
	}

	return nil
}

// Delete removes a pledge row.
func (r *PledgeRepository) Delete(ctx context.Context, tx usecase.Transaction, companyID, id string) error {
	tag, err := queryable(r.pool, tx).Exec(ctx,
		`DELETE FROM pledges WHERE company_id = $1 AND id = $2`,
		companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPledgeNotFound
	}

	return nil
}

// List lists pledges, optionally filtered by status, newest first.
func (r *PledgeRepository) List(ctx context.Context, companyID string, status domain.PledgeStatus, limit, offset int) ([]*domain.Pledge, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+pledgeColumns+` FROM pledges
		 WHERE company_id = $1 AND ($2 = '' OR status = $2)
		 ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		companyID, string(status), int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pledges []*domain.Pledge
	for rows.Next() {
		p, err := scanPledge(rows)
		if err != nil {
			return nil, err
		}
		pledges = append(pledges, p)
	}

	return pledges, rows.Err()
}

func scanPledge(row pgx.Row) (*domain.Pledge, error) {
	var (
		p                            domain.Pledge
		status, coaStatus            string
		gross, net, maxVal, loan     pgtype.Numeric
		rate, firstInterest          pgtype.Numeric
		pledgeDate, created, updated pgtype.Timestamptz
	)

	err := row.Scan(&p.ID, &p.CompanyID, &p.CustomerID, &p.SchemeID, &p.PledgeNo,
		&pledgeDate, &gross, &net, &maxVal, &loan, &rate, &firstInterest,
		&p.PaymentAccountID, &status, &coaStatus,
		&p.CreatedBy, &created, &p.UpdatedBy, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPledgeNotFound
		}

		return nil, err
	}

	p.Status = domain.PledgeStatus(status)
	p.CoaStatus = domain.PostingStatus(coaStatus)
	p.PledgeDate = pledgeDate.Time
	p.GrossWeight = numericToDecimal(gross)
	p.NetWeight = numericToDecimal(net)
	p.MaximumValue = numericToDecimal(maxVal)
	p.LoanAmount = numericToDecimal(loan)
	p.InterestRate = numericToDecimal(rate)
	p.FirstMonthInterest = numericToDecimal(firstInterest)
	p.CreatedAt = created.Time
	p.UpdatedAt = updated.Time

	return &p, nil
}
