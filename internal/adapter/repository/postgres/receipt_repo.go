package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/usecase"
)

const receiptColumns = `id, company_id, receipt_no, customer_id, receipt_date,
	receipt_amount, payment_mode, bank_name, check_number, transaction_id,
	remarks, status, coa_status, created_by, created_at, updated_by, updated_at`

const receiptColumnsPrefixed = `r.id, r.company_id, r.receipt_no, r.customer_id,
	r.receipt_date, r.receipt_amount, r.payment_mode, r.bank_name,
	r.check_number, r.transaction_id, r.remarks, r.status, r.coa_status,
	r.created_by, r.created_at, r.updated_by, r.updated_at`

const receiptItemColumns = `id, receipt_id, pledge_id, principal_amount,
	interest_amount, paid_principal, paid_interest, paid_discount,
	paid_penalty, payment_type, total_paid, notes, created_by, created_at`

// ReceiptRepository implements usecase.ReceiptRepository. A receipt and its
// items are written together; items are never updated in place, only
// replaced wholesale while the receipt is a draft.
type ReceiptRepository struct {
	pool *pgxpool.Pool
}

// NewReceiptRepository creates a new ReceiptRepository.
func NewReceiptRepository(pool *pgxpool.Pool) *ReceiptRepository {
	return &ReceiptRepository{pool: pool}
}

// Create creates a receipt with its items.
func (r *ReceiptRepository) Create(ctx context.Context, tx usecase.Transaction, receipt *domain.Receipt) error {
	db := queryable(r.pool, tx)

	_, err := db.Exec(ctx,
		`INSERT INTO pledge_receipts (`+receiptColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		receipt.ID,
		receipt.CompanyID,
		receipt.ReceiptNo,
		receipt.CustomerID,
		timeToPgTimestamptz(receipt.ReceiptDate),
		decimalToNumeric(receipt.ReceiptAmount),
		receipt.PaymentMode,
		receipt.BankName,
		receipt.CheckNumber,
		receipt.TransactionID,
		receipt.Remarks,
		string(receipt.Status),
		string(receipt.CoaStatus),
		receipt.CreatedBy,
		timeToPgTimestamptz(receipt.CreatedAt),
		receipt.UpdatedBy,
		timeToPgTimestamptz(receipt.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return err
	}

	return r.insertItems(ctx, db, receipt)
}

func (r *ReceiptRepository) insertItems(ctx context.Context, db dbtx, receipt *domain.Receipt) error {
	for _, item := range receipt.Items {
		_, err := db.Exec(ctx,
			`INSERT INTO receipt_items (`+receiptItemColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			item.ID,
			item.ReceiptID,
			item.PledgeID,
			decimalToNumeric(item.PrincipalAmount),
			decimalToNumeric(item.InterestAmount),
			decimalToNumeric(item.PaidPrincipal),
			decimalToNumeric(item.PaidInterest),
			decimalToNumeric(item.PaidDiscount),
			decimalToNumeric(item.PaidPenalty),
			string(item.PaymentType),
			decimalToNumeric(item.TotalPaid),
			item.Notes,
			item.CreatedBy,
			timeToPgTimestamptz(item.CreatedAt),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a receipt with its items.
func (r *ReceiptRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Receipt, error) {
	return r.getByID(ctx, r.pool, companyID, id, "")
}

// GetByIDForUpdate retrieves a receipt with a FOR UPDATE lock on the header.
func (r *ReceiptRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.Receipt, error) {
	return r.getByID(ctx, queryable(r.pool, tx), companyID, id, " FOR UPDATE")
}

func (r *ReceiptRepository) getByID(ctx context.Context, db dbtx, companyID, id, lock string) (*domain.Receipt, error) {
	row := db.QueryRow(ctx,
		`SELECT `+receiptColumns+` FROM pledge_receipts
		 WHERE company_id = $1 AND id = $2`+lock,
		companyID, id)

	receipt, err := scanReceipt(row)
	if err != nil {
		return nil, err
	}

	receipt.Items, err = r.loadItems(ctx, db, receipt.ID)
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

func (r *ReceiptRepository) loadItems(ctx context.Context, db dbtx, receiptID string) ([]*domain.ReceiptItem, error) {
	rows, err := db.Query(ctx,
		`SELECT `+receiptItemColumns+` FROM receipt_items
		 WHERE receipt_id = $1 ORDER BY created_at, id`,
		receiptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.ReceiptItem
	for rows.Next() {
		item, err := scanReceiptItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpdateStatus moves a receipt through its lifecycle.
func (r *ReceiptRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.ReceiptStatus, coaStatus domain.PostingStatus, updatedBy string, updatedAt time.Time) error {
	tag, err := queryable(r.pool, tx).Exec(ctx,
		`UPDATE pledge_receipts SET status = $2, coa_status = $3, updated_by = $4, updated_at = $5
		 WHERE id = $1`,
		id, string(status), string(coaStatus), updatedBy, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReceiptNotFound
	}

	return nil
}

// ReplaceItems rewrites a draft receipt's header amounts and items.
func (r *ReceiptRepository) ReplaceItems(ctx context.Context, tx usecase.Transaction, receipt *domain.Receipt) error {
	db := queryable(r.pool, tx)

	tag, err := db.Exec(ctx,
		`UPDATE pledge_receipts
		 SET customer_id = $3, receipt_date = $4, receipt_amount = $5,
		     payment_mode = $6, bank_name = $7, check_number = $8,
		     transaction_id = $9, remarks = $10, updated_by = $11, updated_at = $12
		 WHERE company_id = $1 AND id = $2`,
		receipt.CompanyID, receipt.ID,
		receipt.CustomerID, timeToPgTimestamptz(receipt.ReceiptDate),
		decimalToNumeric(receipt.ReceiptAmount),
		receipt.PaymentMode, receipt.BankName, receipt.CheckNumber,
		receipt.TransactionID, receipt.Remarks,
		receipt.UpdatedBy, timeToPgTimestamptz(receipt.UpdatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReceiptNotFound
	}

	if _, err := db.Exec(ctx,
		`DELETE FROM receipt_items WHERE receipt_id = $1`, receipt.ID); err != nil {
		return err
	}

	return r.insertItems(ctx, db, receipt)
}

// Delete removes a receipt and its items.
func (r *ReceiptRepository) Delete(ctx context.Context, tx usecase.Transaction, companyID, id string) error {
	db := queryable(r.pool, tx)

	if _, err := db.Exec(ctx,
		`DELETE FROM receipt_items WHERE receipt_id = $1`, id); err != nil {
		return err
	}

	tag, err := db.Exec(ctx,
		`DELETE FROM pledge_receipts WHERE company_id = $1 AND id = $2`,
		companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReceiptNotFound
	}

	return nil
}

// List lists receipts, optionally filtered by status, newest first.
// Items are not loaded; use GetByID for the full document.
func (r *ReceiptRepository) List(ctx context.Context, companyID string, status domain.ReceiptStatus, limit, offset int) ([]*domain.Receipt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+receiptColumns+` FROM pledge_receipts
		 WHERE company_id = $1 AND ($2 = '' OR status = $2)
		 ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		companyID, string(status), int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReceipts(rows)
}

// ListByPledge lists receipts that carry an item for the given pledge.
func (r *ReceiptRepository) ListByPledge(ctx context.Context, companyID, pledgeID string) ([]*domain.Receipt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT `+receiptColumnsPrefixed+`
		 FROM pledge_receipts r
		 JOIN receipt_items i ON i.receipt_id = r.id
		 WHERE r.company_id = $1 AND i.pledge_id = $2
		 ORDER BY r.created_at DESC, r.id DESC`,
		companyID, pledgeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReceipts(rows)
}

// SumPaidPrincipal totals paid principal for a pledge across receipts in the
// given statuses. A nil tx reads outside any transaction; event handlers
// pass their transaction so the sum sees rows they just wrote.
func (r *ReceiptRepository) SumPaidPrincipal(ctx context.Context, tx usecase.Transaction, companyID, pledgeID string, statuses []domain.ReceiptStatus) (decimal.Decimal, error) {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}

	var total pgtype.Numeric
	err := queryable(r.pool, tx).QueryRow(ctx,
		`SELECT COALESCE(SUM(i.paid_principal), 0)
		 FROM receipt_items i
		 JOIN pledge_receipts r ON r.id = i.receipt_id
		 WHERE r.company_id = $1 AND i.pledge_id = $2 AND r.status = ANY($3)`,
		companyID, pledgeID, names).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

func scanReceipt(row pgx.Row) (*domain.Receipt, error) {
	var (
		rc                       domain.Receipt
		status, coaStatus        string
		amount                   pgtype.Numeric
		rcDate, created, updated pgtype.Timestamptz
	)

	err := row.Scan(&rc.ID, &rc.CompanyID, &rc.ReceiptNo, &rc.CustomerID,
		&rcDate, &amount, &rc.PaymentMode, &rc.BankName, &rc.CheckNumber,
		&rc.TransactionID, &rc.Remarks, &status, &coaStatus,
		&rc.CreatedBy, &created, &rc.UpdatedBy, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReceiptNotFound
		}

		return nil, err
	}

	rc.Status = domain.ReceiptStatus(status)
	rc.CoaStatus = domain.PostingStatus(coaStatus)
	rc.ReceiptDate = rcDate.Time
	rc.ReceiptAmount = numericToDecimal(amount)
	rc.CreatedAt = created.Time
	rc.UpdatedAt = updated.Time

	return &rc, nil
}

func scanReceipts(rows pgx.Rows) ([]*domain.Receipt, error) {
	var receipts []*domain.Receipt
	for rows.Next() {
		rc, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, rc)
	}

	return receipts, rows.Err()
}

func scanReceiptItem(row pgx.Row) (*domain.ReceiptItem, error) {
	var (
		item                         domain.ReceiptItem
		paymentType                  string
		principal, interest          pgtype.Numeric
		paidP, paidI, paidD, paidPen pgtype.Numeric
		total                        pgtype.Numeric
		created                      pgtype.Timestamptz
	)

	err := row.Scan(&item.ID, &item.ReceiptID, &item.PledgeID,
		&principal, &interest, &paidP, &paidI, &paidD, &paidPen,
		&paymentType, &total, &item.Notes, &item.CreatedBy, &created)
	if err != nil {
		return nil, err
	}

	item.PaymentType = domain.PaymentType(paymentType)
	item.PrincipalAmount = numericToDecimal(principal)
	item.InterestAmount = numericToDecimal(interest)
	item.PaidPrincipal = numericToDecimal(paidP)
	item.PaidInterest = numericToDecimal(paidI)
	item.PaidDiscount = numericToDecimal(paidD)
	item.PaidPenalty = numericToDecimal(paidPen)
	item.TotalPaid = numericToDecimal(total)
	item.CreatedAt = created.Time

	return &item, nil
}
