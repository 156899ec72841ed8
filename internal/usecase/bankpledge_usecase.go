package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/domain"
)

// BankPledgeUseCase handles moving pledged collateral to a bank for shop
// financing and redeeming it back.
type BankPledgeUseCase struct {
	txManager   TransactionManager
	bankRepo    BankPledgeRepository
	pledgeRepo  PledgeRepository
	receiptRepo ReceiptRepository
	engine      *LedgerEngine
	seqGen      SequenceGenerator
	idGen       IDGenerator
	retrier     Retrier
}

// NewBankPledgeUseCase creates a new BankPledgeUseCase.
func NewBankPledgeUseCase(
	txManager TransactionManager,
	bankRepo BankPledgeRepository,
	pledgeRepo PledgeRepository,
	receiptRepo ReceiptRepository,
	engine *LedgerEngine,
	seqGen SequenceGenerator,
	idGen IDGenerator,
	retrier Retrier,
) *BankPledgeUseCase {
	return &BankPledgeUseCase{
		txManager:   txManager,
		bankRepo:    bankRepo,
		pledgeRepo:  pledgeRepo,
		receiptRepo: receiptRepo,
		engine:      engine,
		seqGen:      seqGen,
		idGen:       idGen,
		retrier:     retrier,
	}
}

// TransferToBankInput represents input for pledging collateral with a bank.
type TransferToBankInput struct {
	CompanyID           string
	UserID              string
	PledgeID            string
	BankDetailsID       string
	TransferDate        time.Time
	ValuationAmount     decimal.Decimal
	LTVPercent          decimal.Decimal
	OutstandingInterest decimal.Decimal
	PaymentAccountID    string
}

// TransferToBank moves an active pledge's collateral to a bank. The shop's
// exposure is reclassified from the customer receivable to the bank pledge
// asset, and the financing received creates the bank loan liability. The
// pledge is frozen in WITH_BANK until redemption.
func (uc *BankPledgeUseCase) TransferToBank(ctx context.Context, input TransferToBankInput) (*domain.BankPledge, error) {
	if err := domain.ValidateLTV(input.LTVPercent); err != nil {
		return nil, err
	}
	if input.ValuationAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()

	transferDate := input.TransferDate
	if transferDate.IsZero() {
		transferDate = now
	}

	var bp *domain.BankPledge
	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		pledge, err := uc.pledgeRepo.GetByIDForUpdate(ctx, tx, input.CompanyID, input.PledgeID)
		if err != nil {
			return err
		}
		if err := domain.CanTransferPledge(pledge.Status); err != nil {
			return err
		}

		paid, err := uc.receiptRepo.SumPaidPrincipal(ctx, tx, input.CompanyID, pledge.ID, liveReceiptStatuses)
		if err != nil {
			return err
		}
		outstanding := pledge.Outstanding(paid)
		if outstanding.LessThanOrEqual(decimal.Zero) {
			return domain.ErrPledgeNotActive
		}

		seq, err := uc.seqGen.Next(ctx, tx, input.CompanyID, domain.PrefixBankPledge, domain.YearPeriod(transferDate))
		if err != nil {
			return err
		}

		bp = &domain.BankPledge{
			ID:                  uc.idGen.Generate(),
			CompanyID:           input.CompanyID,
			PledgeID:            pledge.ID,
			BankDetailsID:       input.BankDetailsID,
			BankPledgeNo:        domain.FormatSequenceNo(domain.PrefixBankPledge, domain.YearPeriod(transferDate), seq),
			TransferDate:        transferDate,
			ValuationAmount:     domain.Round2(input.ValuationAmount),
			LTVPercent:          input.LTVPercent,
			BankLoanAmount:      domain.BankLoanAmount(input.ValuationAmount, input.LTVPercent),
			OriginalShopLoan:    outstanding,
			OutstandingInterest: domain.Round2(input.OutstandingInterest),
			Status:              domain.BankPledgeWithBank,
			CoaStatus:           domain.PostingPending,
			CreatedBy:           input.UserID,
			CreatedAt:           now,
			UpdatedBy:           input.UserID,
			UpdatedAt:           now,
		}

		if err := uc.bankRepo.Create(ctx, tx, bp); err != nil {
			return err
		}

		lines := domain.BankPledgePostingLines(bp, input.PaymentAccountID)
		ref := domain.Reference{Type: domain.RefBankPledge, ID: bp.ID}
		if _, err := uc.engine.Post(ctx, tx, input.CompanyID, input.UserID, ref, lines, now); err != nil {
			return err
		}

		bp.CoaStatus = domain.PostingPosted
		if err := uc.bankRepo.UpdateStatus(ctx, tx, bp.ID, bp.Status, bp.CoaStatus, input.UserID, now); err != nil {
			return err
		}

		if err := uc.pledgeRepo.UpdateStatus(ctx, tx, pledge.ID, domain.PledgeStatusWithBank, pledge.CoaStatus, input.UserID, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return bp, nil
}

// RedeemFromBankInput represents input for settling a bank pledge.
type RedeemFromBankInput struct {
	CompanyID        string
	UserID           string
	BankPledgeID     string
	RedemptionDate   time.Time
	AmountPaidToBank decimal.Decimal
	InterestOnLoan   decimal.Decimal
	BankCharges      decimal.Decimal
	ActualValue      decimal.Decimal
	PledgeContinues  bool
	Notes            string
}

// RedeemFromBank pays the bank back and settles the bank pledge. When the
// pledge continues, the customer receivable is restored and the pledge
// returns to active; otherwise the collateral was liquidated and the
// difference against the shop loan lands in gain/loss.
func (uc *BankPledgeUseCase) RedeemFromBank(ctx context.Context, input RedeemFromBankInput) (*domain.BankRedemption, error) {
	now := time.Now().UTC()

	redemptionDate := input.RedemptionDate
	if redemptionDate.IsZero() {
		redemptionDate = now
	}

	var red *domain.BankRedemption
	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		bp, err := uc.bankRepo.GetByIDForUpdate(ctx, tx, input.CompanyID, input.BankPledgeID)
		if err != nil {
			return err
		}
		if err := domain.CanSettleBankPledge(bp.Status); err != nil {
			return err
		}

		red = &domain.BankRedemption{
			ID:               uc.idGen.Generate(),
			CompanyID:        input.CompanyID,
			BankPledgeID:     bp.ID,
			RedemptionDate:   redemptionDate,
			AmountPaidToBank: domain.Round2(input.AmountPaidToBank),
			InterestOnLoan:   domain.Round2(input.InterestOnLoan),
			BankCharges:      domain.Round2(input.BankCharges),
			ActualValue:      domain.Round2(input.ActualValue),
			PledgeContinues:  input.PledgeContinues,
			Notes:            input.Notes,
			CreatedBy:        input.UserID,
			CreatedAt:        now,
		}
		if !input.PledgeContinues {
			red.PriceDifference = domain.Round2(red.ActualValue.Sub(bp.OriginalShopLoan))
			if red.ActualValue.LessThanOrEqual(decimal.Zero) {
				return domain.ErrInvalidAmount
			}
		}
		if err := red.Validate(); err != nil {
			return err
		}

		if err := uc.bankRepo.CreateRedemption(ctx, tx, red); err != nil {
			return err
		}

		lines := domain.BankRedemptionPostingLines(red, bp)
		ref := domain.Reference{Type: domain.RefBankRedemption, ID: red.ID}
		if _, err := uc.engine.Post(ctx, tx, input.CompanyID, input.UserID, ref, lines, now); err != nil {
			return err
		}

		if err := uc.bankRepo.UpdateStatus(ctx, tx, bp.ID, domain.BankPledgeRedeemed, domain.PostingPosted, input.UserID, now); err != nil {
			return err
		}

		pledgeStatus := domain.PledgeStatusAfterRedemption(input.PledgeContinues)
		pledge, err := uc.pledgeRepo.GetByIDForUpdate(ctx, tx, input.CompanyID, bp.PledgeID)
		if err != nil {
			return err
		}
		if err := uc.pledgeRepo.UpdateStatus(ctx, tx, pledge.ID, pledgeStatus, pledge.CoaStatus, input.UserID, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return red, nil
}

// CancelBankPledge reverses a bank transfer that never went through: the
// entries are mirrored back and the pledge returns to active. Not valid once
// a redemption exists.
func (uc *BankPledgeUseCase) CancelBankPledge(ctx context.Context, companyID, userID, bankPledgeID, reason string) error {
	now := time.Now().UTC()

	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		bp, err := uc.bankRepo.GetByIDForUpdate(ctx, tx, companyID, bankPledgeID)
		if err != nil {
			return err
		}
		if err := domain.CanSettleBankPledge(bp.Status); err != nil {
			return err
		}

		ref := domain.Reference{Type: domain.RefBankPledge, ID: bp.ID}
		if _, err := uc.engine.Reverse(ctx, tx, companyID, userID, ref, reason, now); err != nil {
			return err
		}

		if err := uc.bankRepo.UpdateStatus(ctx, tx, bp.ID, domain.BankPledgeCancelled, bp.CoaStatus, userID, now); err != nil {
			return err
		}

		pledge, err := uc.pledgeRepo.GetByIDForUpdate(ctx, tx, companyID, bp.PledgeID)
		if err != nil {
			return err
		}
		if err := uc.pledgeRepo.UpdateStatus(ctx, tx, pledge.ID, domain.PledgeStatusActive, pledge.CoaStatus, userID, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

// GetBankPledge retrieves a bank pledge by ID.
func (uc *BankPledgeUseCase) GetBankPledge(ctx context.Context, companyID, id string) (*domain.BankPledge, error) {
	return uc.bankRepo.GetByID(ctx, companyID, id)
}

// ListBankPledgesInput represents input for listing bank pledges.
type ListBankPledgesInput struct {
	CompanyID string
	Status    domain.BankPledgeStatus
	Limit     int
	Offset    int
}

// ListBankPledges lists bank pledges with optional status filtering.
func (uc *BankPledgeUseCase) ListBankPledges(ctx context.Context, input ListBankPledgesInput) ([]*domain.BankPledge, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.bankRepo.List(ctx, input.CompanyID, input.Status, input.Limit, input.Offset)
}
