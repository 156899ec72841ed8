package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/domain"
)

// liveReceiptStatuses are the receipt states that count toward a pledge's
// paid principal. Draft receipts have not moved money; void receipts were
// reversed.
var liveReceiptStatuses = []domain.ReceiptStatus{
	domain.ReceiptStatusPosted,
	domain.ReceiptStatusAdjusted,
}

// ReceiptUseCase handles payment receipt lifecycle and its ledger postings.
type ReceiptUseCase struct {
	txManager   TransactionManager
	receiptRepo ReceiptRepository
	pledgeRepo  PledgeRepository
	engine      *LedgerEngine
	seqGen      SequenceGenerator
	idGen       IDGenerator
	retrier     Retrier
}

// NewReceiptUseCase creates a new ReceiptUseCase.
func NewReceiptUseCase(
	txManager TransactionManager,
	receiptRepo ReceiptRepository,
	pledgeRepo PledgeRepository,
	engine *LedgerEngine,
	seqGen SequenceGenerator,
	idGen IDGenerator,
	retrier Retrier,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		txManager:   txManager,
		receiptRepo: receiptRepo,
		pledgeRepo:  pledgeRepo,
		engine:      engine,
		seqGen:      seqGen,
		idGen:       idGen,
		retrier:     retrier,
	}
}

// ReceiptItemInput is one pledge's share of a receipt.
type ReceiptItemInput struct {
	PledgeID        string
	PrincipalAmount decimal.Decimal
	InterestAmount  decimal.Decimal
	PaidPrincipal   decimal.Decimal
	PaidInterest    decimal.Decimal
	PaidDiscount    decimal.Decimal
	PaidPenalty     decimal.Decimal
	PaymentType     domain.PaymentType
	Notes           string
}

// CreateReceiptInput represents input for creating a draft receipt.
type CreateReceiptInput struct {
	CompanyID     string
	UserID        string
	CustomerID    string
	ReceiptDate   time.Time
	PaymentMode   string
	BankName      string
	CheckNumber   string
	TransactionID string
	Remarks       string
	Items         []ReceiptItemInput
}

// CreateDraftReceipt records a receipt in draft. No ledger entries are
// written until the receipt is posted.
func (uc *ReceiptUseCase) CreateDraftReceipt(ctx context.Context, input CreateReceiptInput) (*domain.Receipt, error) {
	now := time.Now().UTC()

	receiptDate := input.ReceiptDate
	if receiptDate.IsZero() {
		receiptDate = now
	}

	receipt := &domain.Receipt{
		ID:            uc.idGen.Generate(),
		CompanyID:     input.CompanyID,
		CustomerID:    input.CustomerID,
		ReceiptDate:   receiptDate,
		PaymentMode:   input.PaymentMode,
		BankName:      input.BankName,
		CheckNumber:   input.CheckNumber,
		TransactionID: input.TransactionID,
		Remarks:       input.Remarks,
		Status:        domain.ReceiptStatusDraft,
		CoaStatus:     domain.PostingPending,
		CreatedBy:     input.UserID,
		CreatedAt:     now,
		UpdatedBy:     input.UserID,
		UpdatedAt:     now,
	}
	uc.applyItems(receipt, input.Items)

	if err := receipt.Validate(); err != nil {
		return nil, err
	}

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		seq, err := uc.seqGen.Next(ctx, tx, input.CompanyID, domain.PrefixReceipt, domain.YearPeriod(receiptDate))
		if err != nil {
			return err
		}
		receipt.ReceiptNo = domain.FormatSequenceNo(domain.PrefixReceipt, domain.YearPeriod(receiptDate), seq)

		if err := uc.receiptRepo.Create(ctx, tx, receipt); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

// UpdateReceiptInput represents input for replacing a draft receipt's items.
type UpdateReceiptInput struct {
	CompanyID string
	UserID    string
	ReceiptID string
	Remarks   string
	Items     []ReceiptItemInput
}

// UpdateDraftReceipt replaces the items on a draft receipt. Posted receipts
// are immutable; void it and create a new one instead.
func (uc *ReceiptUseCase) UpdateDraftReceipt(ctx context.Context, input UpdateReceiptInput) (*domain.Receipt, error) {
	now := time.Now().UTC()

	var receipt *domain.Receipt
	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		receipt, err = uc.receiptRepo.GetByIDForUpdate(ctx, tx, input.CompanyID, input.ReceiptID)
		if err != nil {
			return err
		}
		if err := domain.CanEditReceipt(receipt.Status); err != nil {
			return err
		}

		receipt.Remarks = input.Remarks
		receipt.UpdatedBy = input.UserID
		receipt.UpdatedAt = now
		uc.applyItems(receipt, input.Items)

		if err := receipt.Validate(); err != nil {
			return err
		}

		if err := uc.receiptRepo.ReplaceItems(ctx, tx, receipt); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

// PostReceipt moves a draft receipt onto the books: it locks the touched
// pledges, checks each payment against the outstanding principal, writes the
// balanced ledger entries and re-derives pledge statuses, all in one
// transaction.
func (uc *ReceiptUseCase) PostReceipt(ctx context.Context, companyID, userID, receiptID string) (*domain.Receipt, error) {
	now := time.Now().UTC()

	var receipt *domain.Receipt
	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		receipt, err = uc.receiptRepo.GetByIDForUpdate(ctx, tx, companyID, receiptID)
		if err != nil {
			return err
		}
		if err := domain.CanPostReceipt(receipt.Status); err != nil {
			return err
		}
		if err := receipt.Validate(); err != nil {
			return err
		}

		pledges, err := uc.lockPledges(ctx, tx, companyID, receipt)
		if err != nil {
			return err
		}

		// A receipt may carry several items against the same pledge;
		// the outstanding check and status derivation both work on the
		// per-pledge sum, not on individual items.
		paidInReceipt := make(map[string]decimal.Decimal, len(pledges))
		for _, item := range receipt.Items {
			paidInReceipt[item.PledgeID] = paidInReceipt[item.PledgeID].Add(item.PaidPrincipal)
		}

		paidBefore := make(map[string]decimal.Decimal, len(pledges))
		for pledgeID, pledge := range pledges {
			if pledge.Status != domain.PledgeStatusActive {
				return domain.ErrPledgeNotActive
			}

			paid, err := uc.receiptRepo.SumPaidPrincipal(ctx, tx, companyID, pledgeID, liveReceiptStatuses)
			if err != nil {
				return err
			}
			paidBefore[pledgeID] = paid

			if paidInReceipt[pledgeID].GreaterThan(pledge.Outstanding(paid)) {
				return domain.ErrExceedsOutstanding
			}
		}

		lines := domain.ReceiptPostingLines(receipt)
		ref := domain.Reference{Type: domain.RefReceipt, ID: receipt.ID}
		if _, err := uc.engine.Post(ctx, tx, companyID, userID, ref, lines, now); err != nil {
			return err
		}

		receipt.Status = domain.ReceiptStatusPosted
		receipt.CoaStatus = domain.PostingPosted
		receipt.UpdatedBy = userID
		receipt.UpdatedAt = now
		if err := uc.receiptRepo.UpdateStatus(ctx, tx, receipt.ID, receipt.Status, receipt.CoaStatus, userID, now); err != nil {
			return err
		}

		for pledgeID, pledge := range pledges {
			paidNow := paidBefore[pledgeID].Add(paidInReceipt[pledgeID])

			status := domain.DerivePledgeStatus(pledge.Status, pledge.LoanAmount, paidNow)
			if status != pledge.Status {
				if err := uc.pledgeRepo.UpdateStatus(ctx, tx, pledge.ID, status, pledge.CoaStatus, userID, now); err != nil {
					return err
				}
				pledge.Status = status
			}
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

// VoidReceipt reverses a posted receipt's ledger entries and re-derives the
// statuses of the pledges it had paid down. A redeemed pledge whose closing
// payment is voided returns to active.
func (uc *ReceiptUseCase) VoidReceipt(ctx context.Context, companyID, userID, receiptID, reason string) (*domain.Receipt, error) {
	now := time.Now().UTC()

	var receipt *domain.Receipt
	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		receipt, err = uc.receiptRepo.GetByIDForUpdate(ctx, tx, companyID, receiptID)
		if err != nil {
			return err
		}
		if err := domain.CanVoidReceipt(receipt.Status); err != nil {
			return err
		}

		pledges, err := uc.lockPledges(ctx, tx, companyID, receipt)
		if err != nil {
			return err
		}

		ref := domain.Reference{Type: domain.RefReceipt, ID: receipt.ID}
		if _, err := uc.engine.Reverse(ctx, tx, companyID, userID, ref, reason, now); err != nil {
			return err
		}

		receipt.Status = domain.ReceiptStatusVoid
		receipt.UpdatedBy = userID
		receipt.UpdatedAt = now
		if err := uc.receiptRepo.UpdateStatus(ctx, tx, receipt.ID, receipt.Status, receipt.CoaStatus, userID, now); err != nil {
			return err
		}

		for pledgeID, pledge := range pledges {
			paid, err := uc.receiptRepo.SumPaidPrincipal(ctx, tx, companyID, pledgeID, liveReceiptStatuses)
			if err != nil {
				return err
			}

			status := domain.DerivePledgeStatus(pledge.Status, pledge.LoanAmount, paid)
			if status != pledge.Status {
				if err := uc.pledgeRepo.UpdateStatus(ctx, tx, pledge.ID, status, pledge.CoaStatus, userID, now); err != nil {
					return err
				}
				pledge.Status = status
			}
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

// DeleteDraftReceipt removes a receipt that was never posted.
func (uc *ReceiptUseCase) DeleteDraftReceipt(ctx context.Context, companyID, userID, receiptID string) error {
	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		receipt, err := uc.receiptRepo.GetByIDForUpdate(ctx, tx, companyID, receiptID)
		if err != nil {
			return err
		}
		if err := domain.CanEditReceipt(receipt.Status); err != nil {
			return err
		}

		if err := uc.receiptRepo.Delete(ctx, tx, companyID, receiptID); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

// GetReceipt retrieves a receipt with its items.
func (uc *ReceiptUseCase) GetReceipt(ctx context.Context, companyID, id string) (*domain.Receipt, error) {
	return uc.receiptRepo.GetByID(ctx, companyID, id)
}

// ListReceiptsInput represents input for listing receipts.
type ListReceiptsInput struct {
	CompanyID string
	Status    domain.ReceiptStatus
	Limit     int
	Offset    int
}

// ListReceipts lists receipts with optional status filtering.
func (uc *ReceiptUseCase) ListReceipts(ctx context.Context, input ListReceiptsInput) ([]*domain.Receipt, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.receiptRepo.List(ctx, input.CompanyID, input.Status, input.Limit, input.Offset)
}

func (uc *ReceiptUseCase) applyItems(receipt *domain.Receipt, inputs []ReceiptItemInput) {
	items := make([]*domain.ReceiptItem, 0, len(inputs))
	total := decimal.Zero

	for _, in := range inputs {
		item := &domain.ReceiptItem{
			ID:              uc.idGen.Generate(),
			ReceiptID:       receipt.ID,
			PledgeID:        in.PledgeID,
			PrincipalAmount: domain.Round2(in.PrincipalAmount),
			InterestAmount:  domain.Round2(in.InterestAmount),
			PaidPrincipal:   domain.Round2(in.PaidPrincipal),
			PaidInterest:    domain.Round2(in.PaidInterest),
			PaidDiscount:    domain.Round2(in.PaidDiscount),
			PaidPenalty:     domain.Round2(in.PaidPenalty),
			PaymentType:     in.PaymentType,
			Notes:           in.Notes,
			CreatedBy:       receipt.UpdatedBy,
			CreatedAt:       receipt.UpdatedAt,
		}
		item.TotalPaid = item.ComputeTotal()
		total = total.Add(item.TotalPaid)
		items = append(items, item)
	}

	receipt.Items = items
	receipt.ReceiptAmount = total
}

// lockPledges loads every pledge a receipt touches under row locks, in
// sorted id order to avoid deadlocks with concurrent postings.
func (uc *ReceiptUseCase) lockPledges(ctx context.Context, tx Transaction, companyID string, receipt *domain.Receipt) (map[string]*domain.Pledge, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, item := range receipt.Items {
		if !seen[item.PledgeID] {
			seen[item.PledgeID] = true
			ids = append(ids, item.PledgeID)
		}
	}
	sort.Strings(ids)

	pledges, err := uc.pledgeRepo.GetByIDsForUpdate(ctx, tx, companyID, ids)
	if err != nil {
		return nil, err
	}
	if len(pledges) != len(ids) {
		return nil, domain.ErrPledgeNotFound
	}

	m := make(map[string]*domain.Pledge, len(pledges))
	for _, p := range pledges {
		m[p.ID] = p
	}
	return m, nil
}
