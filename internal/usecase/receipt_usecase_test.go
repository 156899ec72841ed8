package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/usecase"
	"github.com/kovai/pawnbook/internal/usecase/mocks"
)

type receiptFixture struct {
	uc          *usecase.ReceiptUseCase
	accountRepo *mocks.MockAccountRepository
	entryRepo   *mocks.MockEntryRepository
	pledgeRepo  *mocks.MockPledgeRepository
	receiptRepo *mocks.MockReceiptRepository
}

func newReceiptFixture() *receiptFixture {
	accountRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()
	pledgeRepo := mocks.NewMockPledgeRepository()
	receiptRepo := mocks.NewMockReceiptRepository()
	engine := usecase.NewLedgerEngine(accountRepo, entryRepo, &mocks.StubIDGenerator{})

	uc := usecase.NewReceiptUseCase(
		&mocks.StubTxManager{},
		receiptRepo,
		pledgeRepo,
		engine,
		&mocks.StubSequenceGenerator{},
		&mocks.StubIDGenerator{},
		mocks.StubRetrier{},
	)

	return &receiptFixture{
		uc:          uc,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		pledgeRepo:  pledgeRepo,
		receiptRepo: receiptRepo,
	}
}

func (f *receiptFixture) seedPledge(id string, loan, interest int64) *domain.Pledge {
	pledge := &domain.Pledge{
		ID:                 id,
		CompanyID:          testCompany,
		PledgeNo:           "GLD-2025-0001",
		LoanAmount:         decimal.NewFromInt(loan),
		FirstMonthInterest: decimal.NewFromInt(interest),
		MaximumValue:       decimal.NewFromInt(loan * 2),
		Status:             domain.PledgeStatusActive,
		CoaStatus:          domain.PostingPosted,
	}
	f.pledgeRepo.Seed(pledge)
	return pledge
}

func TestReceiptLifecycle_FullRedemption(t *testing.T) {
	f := newReceiptFixture()
	ctx := context.Background()
	pledge := f.seedPledge("pledge-1", 10000, 500)

	receipt, err := f.uc.CreateDraftReceipt(ctx, usecase.CreateReceiptInput{
		CompanyID:  testCompany,
		UserID:     testUser,
		CustomerID: "cust-1",
		Items: []usecase.ReceiptItemInput{{
			PledgeID:       pledge.ID,
			InterestAmount: decimal.NewFromInt(500),
			PaidPrincipal:  decimal.NewFromInt(10000),
			PaidInterest:   decimal.NewFromInt(500),
			PaymentType:    domain.PaymentFull,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptStatusDraft, receipt.Status)
	assert.True(t, receipt.ReceiptAmount.Equal(decimal.NewFromInt(10500)))
	assert.Regexp(t, `^RCP-\d{4}-0001$`, receipt.ReceiptNo)

	// Drafts have no ledger impact.
	assert.Empty(t, f.entryRepo.All())

	posted, err := f.uc.PostReceipt(ctx, testCompany, testUser, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptStatusPosted, posted.Status)
	assert.Equal(t, domain.PostingPosted, posted.CoaStatus)

	// Paying the full principal redeems the pledge.
	got, err := f.pledgeRepo.GetByID(ctx, testCompany, pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PledgeStatusRedeemed, got.Status)

	// Cash up 10500, receivable down 10000, interest income up 500.
	cash, err := f.accountRepo.GetByCode(ctx, testCompany, "1000")
	require.NoError(t, err)
	assert.True(t, cash.Balance.Equal(decimal.NewFromInt(10500)), "cash balance %s", cash.Balance)

	recv, err := f.accountRepo.GetByCode(ctx, testCompany, "1051")
	require.NoError(t, err)
	assert.True(t, recv.Balance.Equal(decimal.NewFromInt(-10000)), "receivable balance %s", recv.Balance)
}

func TestReceiptLifecycle_VoidReopensPledge(t *testing.T) {
	f := newReceiptFixture()
	ctx := context.Background()
	pledge := f.seedPledge("pledge-1", 10000, 500)

	receipt, err := f.uc.CreateDraftReceipt(ctx, usecase.CreateReceiptInput{
		CompanyID: testCompany,
		UserID:    testUser,
		Items: []usecase.ReceiptItemInput{{
			PledgeID:       pledge.ID,
			InterestAmount: decimal.NewFromInt(500),
			PaidPrincipal:  decimal.NewFromInt(10000),
			PaidInterest:   decimal.NewFromInt(500),
			PaymentType:    domain.PaymentFull,
		}},
	})
	require.NoError(t, err)

	_, err = f.uc.PostReceipt(ctx, testCompany, testUser, receipt.ID)
	require.NoError(t, err)

	voided, err := f.uc.VoidReceipt(ctx, testCompany, testUser, receipt.ID, "customer dispute")
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptStatusVoid, voided.Status)

	// The closing payment is gone, so the pledge is active again.
	got, err := f.pledgeRepo.GetByID(ctx, testCompany, pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PledgeStatusActive, got.Status)

	// Balances return exactly to their pre-receipt state.
	for _, code := range []string{"1000", "1051", "4000"} {
		account, err := f.accountRepo.GetByCode(ctx, testCompany, code)
		require.NoError(t, err)
		assert.True(t, account.Balance.IsZero(), "account %s balance %s", code, account.Balance)
	}

	// Voiding twice conflicts.
	_, err = f.uc.VoidReceipt(ctx, testCompany, testUser, receipt.ID, "again")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPostReceipt_RejectsOverpayment(t *testing.T) {
	f := newReceiptFixture()
	ctx := context.Background()
	pledge := f.seedPledge("pledge-1", 10000, 0)

	receipt, err := f.uc.CreateDraftReceipt(ctx, usecase.CreateReceiptInput{
		CompanyID: testCompany,
		UserID:    testUser,
		Items: []usecase.ReceiptItemInput{{
			PledgeID:      pledge.ID,
			PaidPrincipal: decimal.NewFromInt(12000),
			PaymentType:   domain.PaymentPartial,
		}},
	})
	require.NoError(t, err)

	_, err = f.uc.PostReceipt(ctx, testCompany, testUser, receipt.ID)
	assert.ErrorIs(t, err, domain.ErrExceedsOutstanding)
	assert.Empty(t, f.entryRepo.All(), "rejected posting must not write entries")
}

func TestPostReceipt_SplitItemsSamePledge_RejectsOverpayment(t *testing.T) {
	// Two items against the same pledge count as one payment; splitting
	// an overpayment across items must not slip past the outstanding check.
	f := newReceiptFixture()
	ctx := context.Background()
	pledge := f.seedPledge("pledge-1", 10000, 0)

	receipt, err := f.uc.CreateDraftReceipt(ctx, usecase.CreateReceiptInput{
		CompanyID: testCompany,
		UserID:    testUser,
		Items: []usecase.ReceiptItemInput{
			{
				PledgeID:      pledge.ID,
				PaidPrincipal: decimal.NewFromInt(6000),
				PaymentType:   domain.PaymentPartial,
			},
			{
				PledgeID:      pledge.ID,
				PaidPrincipal: decimal.NewFromInt(6000),
				PaymentType:   domain.PaymentPartial,
			},
		},
	})
	require.NoError(t, err)

	_, err = f.uc.PostReceipt(ctx, testCompany, testUser, receipt.ID)
	assert.ErrorIs(t, err, domain.ErrExceedsOutstanding)
	assert.Empty(t, f.entryRepo.All(), "rejected posting must not write entries")

	got, err := f.pledgeRepo.GetByID(ctx, testCompany, pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PledgeStatusActive, got.Status)
}

func TestPostReceipt_SplitItemsSamePledge_Redeems(t *testing.T) {
	// Status derivation sums all items touching a pledge, so a principal
	// split across two items still closes the loan.
	f := newReceiptFixture()
	ctx := context.Background()
	pledge := f.seedPledge("pledge-1", 10000, 0)

	receipt, err := f.uc.CreateDraftReceipt(ctx, usecase.CreateReceiptInput{
		CompanyID: testCompany,
		UserID:    testUser,
		Items: []usecase.ReceiptItemInput{
			{
				PledgeID:      pledge.ID,
				PaidPrincipal: decimal.NewFromInt(4000),
				PaymentType:   domain.PaymentPartial,
			},
			{
				PledgeID:      pledge.ID,
				PaidPrincipal: decimal.NewFromInt(6000),
				PaymentType:   domain.PaymentFull,
			},
		},
	})
	require.NoError(t, err)

	_, err = f.uc.PostReceipt(ctx, testCompany, testUser, receipt.ID)
	require.NoError(t, err)

	got, err := f.pledgeRepo.GetByID(ctx, testCompany, pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PledgeStatusRedeemed, got.Status)
}

func TestPostReceipt_PartialThenRemainder(t *testing.T) {
	f := newReceiptFixture()
	ctx := context.Background()
	pledge := f.seedPledge("pledge-1", 10000, 0)

	first, err := f.uc.CreateDraftReceipt(ctx, usecase.CreateReceiptInput{
		CompanyID: testCompany,
		UserID:    testUser,
		Items: []usecase.ReceiptItemInput{{
			PledgeID:      pledge.ID,
			PaidPrincipal: decimal.NewFromInt(4000),
			PaymentType:   domain.PaymentPartial,
		}},
	})
	require.NoError(t, err)
	_, err = f.uc.PostReceipt(ctx, testCompany, testUser, first.ID)
	require.NoError(t, err)

	got, _ := f.pledgeRepo.GetByID(ctx, testCompany, pledge.ID)
	assert.Equal(t, domain.PledgeStatusActive, got.Status, "partial payment keeps pledge active")

	second, err := f.uc.CreateDraftReceipt(ctx, usecase.CreateReceiptInput{
		CompanyID: testCompany,
		UserID:    testUser,
		Items: []usecase.ReceiptItemInput{{
			PledgeID:      pledge.ID,
			PaidPrincipal: decimal.NewFromInt(6000),
			PaymentType:   domain.PaymentFull,
		}},
	})
	require.NoError(t, err)
	_, err = f.uc.PostReceipt(ctx, testCompany, testUser, second.ID)
	require.NoError(t, err)

	got, _ = f.pledgeRepo.GetByID(ctx, testCompany, pledge.ID)
	assert.Equal(t, domain.PledgeStatusRedeemed, got.Status)

	// Receipt numbers come from the same yearly counter.
	assert.NotEqual(t, first.ReceiptNo, second.ReceiptNo)
}

func TestPostReceipt_OnlyDrafts(t *testing.T) {
	f := newReceiptFixture()
	ctx := context.Background()
	pledge := f.seedPledge("pledge-1", 10000, 0)

	receipt, err := f.uc.CreateDraftReceipt(ctx, usecase.CreateReceiptInput{
		CompanyID: testCompany,
		UserID:    testUser,
		Items: []usecase.ReceiptItemInput{{
			PledgeID:      pledge.ID,
			PaidPrincipal: decimal.NewFromInt(1000),
			PaymentType:   domain.PaymentPartial,
		}},
	})
	require.NoError(t, err)

	_, err = f.uc.PostReceipt(ctx, testCompany, testUser, receipt.ID)
	require.NoError(t, err)

	_, err = f.uc.PostReceipt(ctx, testCompany, testUser, receipt.ID)
	assert.ErrorIs(t, err, domain.ErrReceiptNotDraft)
}

func TestPostReceipt_DiscountAndPenalty(t *testing.T) {
	f := newReceiptFixture()
	ctx := context.Background()
	pledge := f.seedPledge("pledge-1", 8000, 0)

	receipt, err := f.uc.CreateDraftReceipt(ctx, usecase.CreateReceiptInput{
		CompanyID: testCompany,
		UserID:    testUser,
		Items: []usecase.ReceiptItemInput{{
			PledgeID:       pledge.ID,
			InterestAmount: decimal.NewFromInt(2300),
			PaidPrincipal:  decimal.NewFromInt(8000),
			PaidInterest:   decimal.NewFromInt(2000),
			PaidDiscount:   decimal.NewFromInt(300),
			PaidPenalty:    decimal.NewFromInt(100),
			PaymentType:    domain.PaymentFull,
		}},
	})
	require.NoError(t, err)
	assert.True(t, receipt.ReceiptAmount.Equal(decimal.NewFromInt(9800)), "receipt amount %s", receipt.ReceiptAmount)

	_, err = f.uc.PostReceipt(ctx, testCompany, testUser, receipt.ID)
	require.NoError(t, err)

	cash, err := f.accountRepo.GetByCode(ctx, testCompany, "1000")
	require.NoError(t, err)
	assert.True(t, cash.Balance.Equal(decimal.NewFromInt(9800)), "cash balance %s", cash.Balance)

	discount, err := f.accountRepo.GetByCode(ctx, testCompany, "5060")
	require.NoError(t, err)
	assert.True(t, discount.Balance.Equal(decimal.NewFromInt(300)), "discount balance %s", discount.Balance)

	penalty, err := f.accountRepo.GetByCode(ctx, testCompany, "4050")
	require.NoError(t, err)
	assert.True(t, penalty.Balance.Equal(decimal.NewFromInt(100)), "penalty balance %s", penalty.Balance)
}

func TestUpdateDraftReceipt_PostedIsImmutable(t *testing.T) {
	f := newReceiptFixture()
	ctx := context.Background()
	pledge := f.seedPledge("pledge-1", 10000, 0)

	receipt, err := f.uc.CreateDraftReceipt(ctx, usecase.CreateReceiptInput{
		CompanyID: testCompany,
		UserID:    testUser,
		Items: []usecase.ReceiptItemInput{{
			PledgeID:      pledge.ID,
			PaidPrincipal: decimal.NewFromInt(1000),
			PaymentType:   domain.PaymentPartial,
		}},
	})
	require.NoError(t, err)

	_, err = f.uc.PostReceipt(ctx, testCompany, testUser, receipt.ID)
	require.NoError(t, err)

	_, err = f.uc.UpdateDraftReceipt(ctx, usecase.UpdateReceiptInput{
		CompanyID: testCompany,
		UserID:    testUser,
		ReceiptID: receipt.ID,
		Items: []usecase.ReceiptItemInput{{
			PledgeID:      pledge.ID,
			PaidPrincipal: decimal.NewFromInt(2000),
			PaymentType:   domain.PaymentPartial,
		}},
	})
	assert.ErrorIs(t, err, domain.ErrReceiptNotDraft)

	err = f.uc.DeleteDraftReceipt(ctx, testCompany, testUser, receipt.ID)
	assert.ErrorIs(t, err, domain.ErrReceiptNotDraft)
}

func TestVoidReceipt_KeepsAuditTrail(t *testing.T) {
	// The ledger keeps both the original and the mirror entries so the
	// daybook still shows what happened.
	f := newReceiptFixture()
	ctx := context.Background()
	pledge := f.seedPledge("pledge-1", 5000, 0)

	receipt, err := f.uc.CreateDraftReceipt(ctx, usecase.CreateReceiptInput{
		CompanyID:   testCompany,
		UserID:      testUser,
		ReceiptDate: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		Items: []usecase.ReceiptItemInput{{
			PledgeID:      pledge.ID,
			PaidPrincipal: decimal.NewFromInt(5000),
			PaymentType:   domain.PaymentFull,
		}},
	})
	require.NoError(t, err)

	_, err = f.uc.PostReceipt(ctx, testCompany, testUser, receipt.ID)
	require.NoError(t, err)

	_, err = f.uc.VoidReceipt(ctx, testCompany, testUser, receipt.ID, "entered against wrong pledge")
	require.NoError(t, err)

	ref := domain.Reference{Type: domain.RefReceipt, ID: receipt.ID}
	entries, err := f.entryRepo.GetByReference(ctx, testCompany, ref)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "original pair plus mirror pair")
}
