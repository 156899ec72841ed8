package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/domain"
)

// VoucherUseCase handles manual journal vouchers.
type VoucherUseCase struct {
	txManager   TransactionManager
	voucherRepo VoucherRepository
	engine      *LedgerEngine
	seqGen      SequenceGenerator
	idGen       IDGenerator
	retrier     Retrier
}

// NewVoucherUseCase creates a new VoucherUseCase.
func NewVoucherUseCase(
	txManager TransactionManager,
	voucherRepo VoucherRepository,
	engine *LedgerEngine,
	seqGen SequenceGenerator,
	idGen IDGenerator,
	retrier Retrier,
) *VoucherUseCase {
	return &VoucherUseCase{
		txManager:   txManager,
		voucherRepo: voucherRepo,
		engine:      engine,
		seqGen:      seqGen,
		idGen:       idGen,
		retrier:     retrier,
	}
}

// VoucherLineInput is one leg of a manual voucher.
type VoucherLineInput struct {
	AccountID   string
	Side        domain.EntrySide
	Amount      decimal.Decimal
	Description string
}

// CreateVoucherInput represents input for posting a manual voucher.
type CreateVoucherInput struct {
	CompanyID   string
	UserID      string
	VoucherDate time.Time
	Narration   string
	Lines       []VoucherLineInput
}

// CreateVoucher posts a manual journal entry. The lines must balance like
// any generated posting; unbalanced input is rejected before anything is
// written.
func (uc *VoucherUseCase) CreateVoucher(ctx context.Context, input CreateVoucherInput) (*domain.Voucher, error) {
	now := time.Now().UTC()

	voucherDate := input.VoucherDate
	if voucherDate.IsZero() {
		voucherDate = now
	}

	voucher := &domain.Voucher{
		ID:          uc.idGen.Generate(),
		CompanyID:   input.CompanyID,
		VoucherDate: voucherDate,
		Narration:   input.Narration,
		Status:      domain.VoucherPosted,
		CreatedBy:   input.UserID,
		CreatedAt:   now,
		UpdatedBy:   input.UserID,
		UpdatedAt:   now,
	}

	lines := make([]*domain.VoucherLine, 0, len(input.Lines))
	for _, in := range input.Lines {
		lines = append(lines, &domain.VoucherLine{
			ID:          uc.idGen.Generate(),
			VoucherID:   voucher.ID,
			AccountID:   in.AccountID,
			Side:        in.Side,
			Amount:      domain.Round2(in.Amount),
			Description: in.Description,
		})
	}
	voucher.Lines = lines

	if err := voucher.Validate(); err != nil {
		return nil, err
	}

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		seq, err := uc.seqGen.Next(ctx, tx, input.CompanyID, domain.PrefixVoucher, domain.YearPeriod(voucherDate))
		if err != nil {
			return err
		}
		voucher.VoucherNo = domain.FormatSequenceNo(domain.PrefixVoucher, domain.YearPeriod(voucherDate), seq)

		if err := uc.voucherRepo.Create(ctx, tx, voucher); err != nil {
			return err
		}

		ref := domain.Reference{Type: domain.RefManual, ID: voucher.ID}
		if _, err := uc.engine.Post(ctx, tx, input.CompanyID, input.UserID, ref, voucher.PostingLines(), now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return voucher, nil
}

// ReverseVoucher mirrors a posted voucher's entries and marks it reversed.
func (uc *VoucherUseCase) ReverseVoucher(ctx context.Context, companyID, userID, voucherID, reason string) (*domain.Voucher, error) {
	now := time.Now().UTC()

	var voucher *domain.Voucher
	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		voucher, err = uc.voucherRepo.GetByIDForUpdate(ctx, tx, companyID, voucherID)
		if err != nil {
			return err
		}
		if voucher.Status != domain.VoucherPosted {
			return domain.ErrVoucherNotPosted
		}

		ref := domain.Reference{Type: domain.RefManual, ID: voucher.ID}
		if _, err := uc.engine.Reverse(ctx, tx, companyID, userID, ref, reason, now); err != nil {
			return err
		}

		voucher.Status = domain.VoucherReversed
		voucher.UpdatedBy = userID
		voucher.UpdatedAt = now
		if err := uc.voucherRepo.UpdateStatus(ctx, tx, voucher.ID, voucher.Status, userID, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return voucher, nil
}

// GetVoucher retrieves a voucher with its lines.
func (uc *VoucherUseCase) GetVoucher(ctx context.Context, companyID, id string) (*domain.Voucher, error) {
	return uc.voucherRepo.GetByID(ctx, companyID, id)
}

// ListVouchersInput represents input for listing vouchers.
type ListVouchersInput struct {
	CompanyID string
	Limit     int
	Offset    int
}

// ListVouchers lists vouchers with pagination.
func (uc *VoucherUseCase) ListVouchers(ctx context.Context, input ListVouchersInput) ([]*domain.Voucher, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.voucherRepo.List(ctx, input.CompanyID, input.Limit, input.Offset)
}
