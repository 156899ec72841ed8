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

const bankPledgeColumns = `id, company_id, pledge_id, bank_details_id,
	bank_pledge_no, transfer_date, valuation_amount, ltv_percent,
	bank_loan_amount, original_shop_loan, outstanding_interest, status,
	coa_status, created_by, created_at, updated_by, updated_at`

const bankRedemptionColumns = `id, company_id, bank_pledge_id, redemption_date,
	amount_paid_to_bank, interest_on_loan, bank_charges, actual_value,
	price_difference, pledge_continues, notes, created_by, created_at`

// BankPledgeRepository implements usecase.BankPledgeRepository.
type BankPledgeRepository struct {
	pool *pgxpool.Pool
}

// NewBankPledgeRepository creates a new BankPledgeRepository.
func NewBankPledgeRepository(pool *pgxpool.Pool) *BankPledgeRepository {
	return &BankPledgeRepository{pool: pool}
}

// Create creates a new bank pledge.
func (r *BankPledgeRepository) Create(ctx context.Context, tx usecase.Transaction, bp *domain.BankPledge) error {
	_, err := queryable(r.pool, tx).Exec(ctx,
		`INSERT INTO bank_pledges (`+bankPledgeColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		bp.ID,
		bp.CompanyID,
		bp.PledgeID,
		bp.BankDetailsID,
		bp.BankPledgeNo,
		timeToPgTimestamptz(bp.TransferDate),
		decimalToNumeric(bp.ValuationAmount),
		decimalToNumeric(bp.LTVPercent),
		decimalToNumeric(bp.BankLoanAmount),
		decimalToNumeric(bp.OriginalShopLoan),
		decimalToNumeric(bp.OutstandingInterest),
		string(bp.Status),
		string(bp.CoaStatus),
		bp.CreatedBy,
		timeToPgTimestamptz(bp.CreatedAt),
		bp.UpdatedBy,
		timeToPgTimestamptz(bp.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}

	return err
}

// GetByID retrieves a bank pledge by ID.
func (r *BankPledgeRepository) GetByID(ctx context.Context, companyID, id string) (*domain.BankPledge, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+bankPledgeColumns+` FROM bank_pledges WHERE company_id = $1 AND id = $2`,
		companyID, id)

	return scanBankPledge(row)
}

// GetByIDForUpdate retrieves a bank pledge with a FOR UPDATE lock.
func (r *BankPledgeRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.BankPledge, error) {
	row := queryable(r.pool, tx).QueryRow(ctx,
		`SELECT `+bankPledgeColumns+` FROM bank_pledges
		 WHERE company_id = $1 AND id = $2 FOR UPDATE`,
		companyID, id)

	return scanBankPledge(row)
}

// UpdateStatus moves a bank pledge through its lifecycle.
func (r *BankPledgeRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.BankPledgeStatus, coaStatus domain.PostingStatus, updatedBy string, updatedAt time.Time) error {
	tag, err := queryable(r.pool, tx).Exec(ctx,
		`UPDATE bank_pledges SET status = $2, coa_status = $3, updated_by = $4, updated_at = $5
		 WHERE id = $1`,
		id, string(status), string(coaStatus), updatedBy, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBankPledgeNotFound
	}

	return nil
}

// List lists bank pledges, optionally filtered by status, newest first.
func (r *BankPledgeRepository) List(ctx context.Context, companyID string, status domain.BankPledgeStatus, limit, offset int) ([]*domain.BankPledge, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bankPledgeColumns+` FROM bank_pledges
		 WHERE company_id = $1 AND ($2 = '' OR status = $2)
		 ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		companyID, string(status), int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pledges []*domain.BankPledge
	for rows.Next() {
		bp, err := scanBankPledge(rows)
		if err != nil {
			return nil, err
		}
		pledges = append(pledges, bp)
	}

	return pledges, rows.Err()
}

// CreateRedemption records the settlement of a bank pledge.
func (r *BankPledgeRepository) CreateRedemption(ctx context.Context, tx usecase.Transaction, red *domain.BankRedemption) error {
	_, err := queryable(r.pool, tx).Exec(ctx,
		`INSERT INTO bank_redemptions (`+bankRedemptionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		red.ID,
		red.CompanyID,
		red.BankPledgeID,
		timeToPgTimestamptz(red.RedemptionDate),
		decimalToNumeric(red.AmountPaidToBank),
		decimalToNumeric(red.InterestOnLoan),
		decimalToNumeric(red.BankCharges),
		decimalToNumeric(red.ActualValue),
		decimalToNumeric(red.PriceDifference),
		red.PledgeContinues,
		red.Notes,
		red.CreatedBy,
		timeToPgTimestamptz(red.CreatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}

	return err
}

// GetRedemptionByBankPledge retrieves the redemption record for a bank pledge.
func (r *BankPledgeRepository) GetRedemptionByBankPledge(ctx context.Context, companyID, bankPledgeID string) (*domain.BankRedemption, error) {
	var (
		red                  domain.BankRedemption
		paid, interest       pgtype.Numeric
		charges, actual      pgtype.Numeric
		diff                 pgtype.Numeric
		redemptionDate, crtd pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx,
		`SELECT `+bankRedemptionColumns+` FROM bank_redemptions
		 WHERE company_id = $1 AND bank_pledge_id = $2`,
		companyID, bankPledgeID).Scan(
		&red.ID, &red.CompanyID, &red.BankPledgeID, &redemptionDate,
		&paid, &interest, &charges, &actual, &diff,
		&red.PledgeContinues, &red.Notes, &red.CreatedBy, &crtd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}

		return nil, err
	}

	red.RedemptionDate = redemptionDate.Time
	red.AmountPaidToBank = numericToDecimal(paid)
	red.InterestOnLoan = numericToDecimal(interest)
	red.BankCharges = numericToDecimal(charges)
	red.ActualValue = numericToDecimal(actual)
	red.PriceDifference = numericToDecimal(diff)
	red.CreatedAt = crtd.Time

	return &red, nil
}

func scanBankPledge(row pgx.Row) (*domain.BankPledge, error) {
	var (
		bp                         domain.BankPledge
		status, coaStatus          string
		valuation, ltv, loan       pgtype.Numeric
		shopLoan, interest         pgtype.Numeric
		transfer, created, updated pgtype.Timestamptz
	)

	err := row.Scan(&bp.ID, &bp.CompanyID, &bp.PledgeID, &bp.BankDetailsID,
		&bp.BankPledgeNo, &transfer, &valuation, &ltv, &loan, &shopLoan,
		&interest, &status, &coaStatus,
		&bp.CreatedBy, &created, &bp.UpdatedBy, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBankPledgeNotFound
		}

		return nil, err
	}

	bp.Status = domain.BankPledgeStatus(status)
	bp.CoaStatus = domain.PostingStatus(coaStatus)
	bp.TransferDate = transfer.Time
	bp.ValuationAmount = numericToDecimal(valuation)
	bp.LTVPercent = numericToDecimal(ltv)
	bp.BankLoanAmount = numericToDecimal(loan)
	bp.OriginalShopLoan = numericToDecimal(shopLoan)
	bp.OutstandingInterest = numericToDecimal(interest)
	bp.CreatedAt = created.Time
	bp.UpdatedAt = updated.Time

	return &bp, nil
}
