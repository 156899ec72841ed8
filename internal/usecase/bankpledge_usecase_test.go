package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/usecase"
	"github.com/kovai/pawnbook/internal/usecase/mocks"
)

type bankFixture struct {
	uc          *usecase.BankPledgeUseCase
	accountRepo *mocks.MockAccountRepository
	entryRepo   *mocks.MockEntryRepository
	pledgeRepo  *mocks.MockPledgeRepository
	bankRepo    *mocks.MockBankPledgeRepository
	receiptRepo *mocks.MockReceiptRepository
}

func newBankFixture() *bankFixture {
	accountRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()
	pledgeRepo := mocks.NewMockPledgeRepository()
	bankRepo := mocks.NewMockBankPledgeRepository()
	receiptRepo := mocks.NewMockReceiptRepository()
	engine := usecase.NewLedgerEngine(accountRepo, entryRepo, &mocks.StubIDGenerator{})

	uc := usecase.NewBankPledgeUseCase(
		&mocks.StubTxManager{},
		bankRepo,
		pledgeRepo,
		receiptRepo,
		engine,
		&mocks.StubSequenceGenerator{},
		&mocks.StubIDGenerator{},
		mocks.StubRetrier{},
	)

	return &bankFixture{
		uc:          uc,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		pledgeRepo:  pledgeRepo,
		bankRepo:    bankRepo,
		receiptRepo: receiptRepo,
	}
}

func (f *bankFixture) seedActivePledge(id string, loan int64) *domain.Pledge {
	pledge := &domain.Pledge{
		ID:           id,
		CompanyID:    testCompany,
		PledgeNo:     "GLD-2025-0001",
		LoanAmount:   decimal.NewFromInt(loan),
		MaximumValue: decimal.NewFromInt(loan * 2),
		Status:       domain.PledgeStatusActive,
		CoaStatus:    domain.PostingPosted,
	}
	f.pledgeRepo.Seed(pledge)
	return pledge
}

func TestTransferToBank(t *testing.T) {
	f := newBankFixture()
	ctx := context.Background()
	pledge := f.seedActivePledge("pledge-1", 40000)

	bp, err := f.uc.TransferToBank(ctx, usecase.TransferToBankInput{
		CompanyID:       testCompany,
		UserID:          testUser,
		PledgeID:        pledge.ID,
		BankDetailsID:   "bank-1",
		ValuationAmount: decimal.NewFromInt(60000),
		LTVPercent:      decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	// 60000 valuation at 80% LTV finances 48000.
	assert.True(t, bp.BankLoanAmount.Equal(decimal.NewFromInt(48000)), "bank loan %s", bp.BankLoanAmount)
	assert.True(t, bp.OriginalShopLoan.Equal(decimal.NewFromInt(40000)), "shop loan %s", bp.OriginalShopLoan)
	assert.Equal(t, domain.BankPledgeWithBank, bp.Status)

	got, err := f.pledgeRepo.GetByID(ctx, testCompany, pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PledgeStatusWithBank, got.Status)

	// Exposure moved from the customer receivable to the bank pledge
	// asset; financing raised cash against the payable.
	recv, err := f.accountRepo.GetByCode(ctx, testCompany, "1051")
	require.NoError(t, err)
	assert.True(t, recv.Balance.Equal(decimal.NewFromInt(-40000)), "receivable %s", recv.Balance)

	asset, err := f.accountRepo.GetByCode(ctx, testCompany, "2100")
	require.NoError(t, err)
	assert.True(t, asset.Balance.Equal(decimal.NewFromInt(40000)), "bank pledge asset %s", asset.Balance)

	payable, err := f.accountRepo.GetByCode(ctx, testCompany, "2200")
	require.NoError(t, err)
	assert.True(t, payable.Balance.Equal(decimal.NewFromInt(48000)), "payable %s", payable.Balance)
}

func TestTransferToBankWithAccruedInterest(t *testing.T) {
	f := newBankFixture()
	ctx := context.Background()
	pledge := f.seedActivePledge("pledge-1", 40000)

	bp, err := f.uc.TransferToBank(ctx, usecase.TransferToBankInput{
		CompanyID:           testCompany,
		UserID:              testUser,
		PledgeID:            pledge.ID,
		BankDetailsID:       "bank-1",
		ValuationAmount:     decimal.NewFromInt(60000),
		LTVPercent:          decimal.NewFromInt(80),
		OutstandingInterest: decimal.NewFromInt(1500),
	})
	require.NoError(t, err)
	assert.True(t, bp.Exposure().Equal(decimal.NewFromInt(41500)), "exposure %s", bp.Exposure())

	// The asset carries loan plus accrued interest; the interest is
	// recognized as income at transfer time.
	asset, err := f.accountRepo.GetByCode(ctx, testCompany, "2100")
	require.NoError(t, err)
	assert.True(t, asset.Balance.Equal(decimal.NewFromInt(41500)), "bank pledge asset %s", asset.Balance)

	income, err := f.accountRepo.GetByCode(ctx, testCompany, "4000")
	require.NoError(t, err)
	assert.True(t, income.Balance.Equal(decimal.NewFromInt(1500)), "interest income %s", income.Balance)
}

func TestTransferToBankRejectsLTV(t *testing.T) {
	f := newBankFixture()
	ctx := context.Background()
	pledge := f.seedActivePledge("pledge-1", 40000)

	for _, ltv := range []int64{40, 97} {
		_, err := f.uc.TransferToBank(ctx, usecase.TransferToBankInput{
			CompanyID:       testCompany,
			UserID:          testUser,
			PledgeID:        pledge.ID,
			ValuationAmount: decimal.NewFromInt(60000),
			LTVPercent:      decimal.NewFromInt(ltv),
		})
		assert.ErrorIs(t, err, domain.ErrLTVOutOfRange, "LTV %d", ltv)
	}
}

func TestTransferToBankRequiresActivePledge(t *testing.T) {
	f := newBankFixture()
	ctx := context.Background()

	pledge := f.seedActivePledge("pledge-1", 40000)
	pledge.Status = domain.PledgeStatusRedeemed

	_, err := f.uc.TransferToBank(ctx, usecase.TransferToBankInput{
		CompanyID:       testCompany,
		UserID:          testUser,
		PledgeID:        pledge.ID,
		ValuationAmount: decimal.NewFromInt(60000),
		LTVPercent:      decimal.NewFromInt(80),
	})
	assert.ErrorIs(t, err, domain.ErrPledgeNotActive)
}

func TestRedeemFromBank_PledgeContinues(t *testing.T) {
	f := newBankFixture()
	ctx := context.Background()
	pledge := f.seedActivePledge("pledge-1", 40000)

	bp, err := f.uc.TransferToBank(ctx, usecase.TransferToBankInput{
		CompanyID:       testCompany,
		UserID:          testUser,
		PledgeID:        pledge.ID,
		ValuationAmount: decimal.NewFromInt(60000),
		LTVPercent:      decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	red, err := f.uc.RedeemFromBank(ctx, usecase.RedeemFromBankInput{
		CompanyID:        testCompany,
		UserID:           testUser,
		BankPledgeID:     bp.ID,
		AmountPaidToBank: decimal.NewFromInt(48000),
		InterestOnLoan:   decimal.NewFromInt(1200),
		BankCharges:      decimal.NewFromInt(150),
		PledgeContinues:  true,
	})
	require.NoError(t, err)
	require.NotNil(t, red)

	gotBP, err := f.bankRepo.GetByID(ctx, testCompany, bp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BankPledgeRedeemed, gotBP.Status)

	gotPledge, err := f.pledgeRepo.GetByID(ctx, testCompany, pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PledgeStatusActive, gotPledge.Status, "continuing pledge returns to active")

	// Payable settled, receivable restored, bank pledge asset closed.
	payable, err := f.accountRepo.GetByCode(ctx, testCompany, "2200")
	require.NoError(t, err)
	assert.True(t, payable.Balance.IsZero(), "payable %s", payable.Balance)

	recv, err := f.accountRepo.GetByCode(ctx, testCompany, "1051")
	require.NoError(t, err)
	assert.True(t, recv.Balance.IsZero(), "receivable %s", recv.Balance)

	asset, err := f.accountRepo.GetByCode(ctx, testCompany, "2100")
	require.NoError(t, err)
	assert.True(t, asset.Balance.IsZero(), "bank pledge asset %s", asset.Balance)

	// Interest and charges landed in expenses.
	interest, err := f.accountRepo.GetByCode(ctx, testCompany, "5300")
	require.NoError(t, err)
	assert.True(t, interest.Balance.Equal(decimal.NewFromInt(1200)), "bank interest %s", interest.Balance)
}

func TestRedeemFromBank_Liquidated(t *testing.T) {
	f := newBankFixture()
	ctx := context.Background()
	pledge := f.seedActivePledge("pledge-1", 40000)

	bp, err := f.uc.TransferToBank(ctx, usecase.TransferToBankInput{
		CompanyID:       testCompany,
		UserID:          testUser,
		PledgeID:        pledge.ID,
		ValuationAmount: decimal.NewFromInt(60000),
		LTVPercent:      decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	red, err := f.uc.RedeemFromBank(ctx, usecase.RedeemFromBankInput{
		CompanyID:        testCompany,
		UserID:           testUser,
		BankPledgeID:     bp.ID,
		AmountPaidToBank: decimal.NewFromInt(48000),
		ActualValue:      decimal.NewFromInt(43000),
		PledgeContinues:  false,
	})
	require.NoError(t, err)
	assert.True(t, red.PriceDifference.Equal(decimal.NewFromInt(3000)), "price difference %s", red.PriceDifference)

	gotPledge, err := f.pledgeRepo.GetByID(ctx, testCompany, pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PledgeStatusRedeemed, gotPledge.Status)

	gain, err := f.accountRepo.GetByCode(ctx, testCompany, "4200")
	require.NoError(t, err)
	assert.True(t, gain.Balance.Equal(decimal.NewFromInt(3000)), "gain %s", gain.Balance)

	// Double settlement conflicts.
	_, err = f.uc.RedeemFromBank(ctx, usecase.RedeemFromBankInput{
		CompanyID:        testCompany,
		UserID:           testUser,
		BankPledgeID:     bp.ID,
		AmountPaidToBank: decimal.NewFromInt(48000),
		ActualValue:      decimal.NewFromInt(43000),
	})
	assert.ErrorIs(t, err, domain.ErrBankPledgeNotHeld)
}

func TestCancelBankPledge(t *testing.T) {
	f := newBankFixture()
	ctx := context.Background()
	pledge := f.seedActivePledge("pledge-1", 40000)

	bp, err := f.uc.TransferToBank(ctx, usecase.TransferToBankInput{
		CompanyID:       testCompany,
		UserID:          testUser,
		PledgeID:        pledge.ID,
		ValuationAmount: decimal.NewFromInt(60000),
		LTVPercent:      decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	err = f.uc.CancelBankPledge(ctx, testCompany, testUser, bp.ID, "bank declined")
	require.NoError(t, err)

	gotBP, err := f.bankRepo.GetByID(ctx, testCompany, bp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BankPledgeCancelled, gotBP.Status)

	gotPledge, err := f.pledgeRepo.GetByID(ctx, testCompany, pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PledgeStatusActive, gotPledge.Status)

	// Transfer entries are mirrored back: all four accounts flat.
	for _, code := range []string{"1000", "1051", "2100", "2200"} {
		account, err := f.accountRepo.GetByCode(ctx, testCompany, code)
		require.NoError(t, err)
		assert.True(t, account.Balance.IsZero(), "account %s balance %s", code, account.Balance)
	}
}
