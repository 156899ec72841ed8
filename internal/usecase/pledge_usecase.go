package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/domain"
)

// PledgeUseCase handles pledge lifecycle and its ledger postings.
type PledgeUseCase struct {
	txManager   TransactionManager
	pledgeRepo  PledgeRepository
	receiptRepo ReceiptRepository
	engine      *LedgerEngine
	seqGen      SequenceGenerator
	idGen       IDGenerator
	retrier     Retrier
}

// NewPledgeUseCase creates a new PledgeUseCase.
func NewPledgeUseCase(
	txManager TransactionManager,
	pledgeRepo PledgeRepository,
	receiptRepo ReceiptRepository,
	engine *LedgerEngine,
	seqGen SequenceGenerator,
	idGen IDGenerator,
	retrier Retrier,
) *PledgeUseCase {
	return &PledgeUseCase{
		txManager:   txManager,
		pledgeRepo:  pledgeRepo,
		receiptRepo: receiptRepo,
		engine:      engine,
		seqGen:      seqGen,
		idGen:       idGen,
		retrier:     retrier,
	}
}

// CreatePledgeInput represents input for creating a pledge.
type CreatePledgeInput struct {
	CompanyID          string
	UserID             string
	CustomerID         string
	SchemeID           string
	SchemePrefix       string
	PledgeDate         time.Time
	GrossWeight        decimal.Decimal
	NetWeight          decimal.Decimal
	MaximumValue       decimal.Decimal
	LoanAmount         decimal.Decimal
	InterestRate       decimal.Decimal
	FirstMonthInterest decimal.Decimal
	PaymentAccountID   string
}

// CreatePledge records a new collateral loan and posts its disbursement
// entries in one transaction. The pledge number is drawn from the scheme's
// yearly sequence, so a rolled back create does not burn a number.
func (uc *PledgeUseCase) CreatePledge(ctx context.Context, input CreatePledgeInput) (*domain.Pledge, error) {
	now := time.Now().UTC()

	pledgeDate := input.PledgeDate
	if pledgeDate.IsZero() {
		pledgeDate = now
	}

	prefix := input.SchemePrefix
	if prefix == "" {
		prefix = domain.PrefixPledge
	}

	pledge := &domain.Pledge{
		ID:                 uc.idGen.Generate(),
		CompanyID:          input.CompanyID,
		CustomerID:         input.CustomerID,
		SchemeID:           input.SchemeID,
		PledgeDate:         pledgeDate,
		GrossWeight:        input.GrossWeight,
		NetWeight:          input.NetWeight,
		MaximumValue:       input.MaximumValue,
		LoanAmount:         domain.Round2(input.LoanAmount),
		InterestRate:       input.InterestRate,
		FirstMonthInterest: domain.Round2(input.FirstMonthInterest),
		PaymentAccountID:   input.PaymentAccountID,
		Status:             domain.PledgeStatusActive,
		CoaStatus:          domain.PostingPending,
		CreatedBy:          input.UserID,
		CreatedAt:          now,
		UpdatedBy:          input.UserID,
		UpdatedAt:          now,
	}

	if err := pledge.Validate(); err != nil {
		return nil, err
	}

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		seq, err := uc.seqGen.Next(ctx, tx, input.CompanyID, prefix, domain.YearPeriod(pledgeDate))
		if err != nil {
			return err
		}
		pledge.PledgeNo = domain.FormatSequenceNo(prefix, domain.YearPeriod(pledgeDate), seq)

		if err := uc.pledgeRepo.Create(ctx, tx, pledge); err != nil {
			return err
		}

		lines := domain.PledgePostingLines(pledge)
		ref := domain.Reference{Type: domain.RefPledge, ID: pledge.ID}
		if _, err := uc.engine.Post(ctx, tx, input.CompanyID, input.UserID, ref, lines, now); err != nil {
			return err
		}

		pledge.CoaStatus = domain.PostingPosted
		if err := uc.pledgeRepo.UpdateStatus(ctx, tx, pledge.ID, pledge.Status, pledge.CoaStatus, input.UserID, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return pledge, nil
}

// GetPledge retrieves a pledge with its outstanding principal.
func (uc *PledgeUseCase) GetPledge(ctx context.Context, companyID, id string) (*domain.Pledge, decimal.Decimal, error) {
	pledge, err := uc.pledgeRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, decimal.Zero, err
	}

	paid, err := uc.receiptRepo.SumPaidPrincipal(ctx, nil, companyID, id, liveReceiptStatuses)
	if err != nil {
		return nil, decimal.Zero, err
	}

	return pledge, pledge.Outstanding(paid), nil
}

// ListPledgesInput represents input for listing pledges.
type ListPledgesInput struct {
	CompanyID string
	Status    domain.PledgeStatus
	Limit     int
	Offset    int
}

// ListPledges lists pledges with optional status filtering.
func (uc *PledgeUseCase) ListPledges(ctx context.Context, input ListPledgesInput) ([]*domain.Pledge, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.pledgeRepo.List(ctx, input.CompanyID, input.Status, input.Limit, input.Offset)
}

// DeletePledge removes a pledge that has no receipts, reversing its
// disbursement entries so the books return to their prior state.
func (uc *PledgeUseCase) DeletePledge(ctx context.Context, companyID, userID, id string) error {
	now := time.Now().UTC()

	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		pledge, err := uc.pledgeRepo.GetByIDForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		if err := domain.CanTransferPledge(pledge.Status); err != nil {
			return err
		}

		receipts, err := uc.receiptRepo.ListByPledge(ctx, companyID, id)
		if err != nil {
			return err
		}
		if len(receipts) > 0 {
			return domain.ErrPledgeHasReceipts
		}

		ref := domain.Reference{Type: domain.RefPledge, ID: id}
		if _, err := uc.engine.Reverse(ctx, tx, companyID, userID, ref, "pledge deleted", now); err != nil {
			return err
		}

		if err := uc.pledgeRepo.Delete(ctx, tx, companyID, id); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}
