package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/usecase"
	"github.com/kovai/pawnbook/internal/usecase/mocks"
)

func TestCreateExpense(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()
	expenseRepo := mocks.NewMockExpenseRepository()
	engine := usecase.NewLedgerEngine(accountRepo, entryRepo, &mocks.StubIDGenerator{})

	accountRepo.Seed(
		&domain.Account{ID: "acct-rent", CompanyID: testCompany, Code: "5010", Name: "Rent", Type: domain.AccountTypeExpense, Active: true},
		&domain.Account{ID: "acct-cash", CompanyID: testCompany, Code: "1000", Name: "Cash", Type: domain.AccountTypeAsset, Active: true},
	)

	uc := usecase.NewExpenseUseCase(
		&mocks.StubTxManager{},
		expenseRepo,
		engine,
		&mocks.StubSequenceGenerator{},
		&mocks.StubIDGenerator{},
		mocks.StubRetrier{},
	)

	ctx := context.Background()
	exp, err := uc.CreateExpense(ctx, usecase.CreateExpenseInput{
		CompanyID:       testCompany,
		UserID:          testUser,
		TransactionDate: time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
		DebitAccountID:  "acct-rent",
		CreditAccountID: "acct-cash",
		Amount:          decimal.NewFromInt(2500),
		Description:     "Shop rent September",
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	// Monthly sequence: EXP-YYYYMM-NNNN.
	if exp.TransactionNo != "EXP-202509-0001" {
		t.Errorf("transaction no = %q, want EXP-202509-0001", exp.TransactionNo)
	}

	rent, _ := accountRepo.GetByID(ctx, testCompany, "acct-rent")
	if !rent.Balance.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("rent balance = %s, want 2500", rent.Balance)
	}
	cash, _ := accountRepo.GetByID(ctx, testCompany, "acct-cash")
	if !cash.Balance.Equal(decimal.NewFromInt(-2500)) {
		t.Errorf("cash balance = %s, want -2500", cash.Balance)
	}
}

func TestCreateExpenseRejectsSameAccount(t *testing.T) {
	uc := usecase.NewExpenseUseCase(
		&mocks.StubTxManager{},
		mocks.NewMockExpenseRepository(),
		usecase.NewLedgerEngine(mocks.NewMockAccountRepository(), mocks.NewMockEntryRepository(), &mocks.StubIDGenerator{}),
		&mocks.StubSequenceGenerator{},
		&mocks.StubIDGenerator{},
		mocks.StubRetrier{},
	)

	_, err := uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
		CompanyID:       testCompany,
		UserID:          testUser,
		DebitAccountID:  "acct-1",
		CreditAccountID: "acct-1",
		Amount:          decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrSameAccount) {
		t.Fatalf("got %v, want ErrSameAccount", err)
	}
}

func TestDeleteExpenseReversesEntries(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()
	expenseRepo := mocks.NewMockExpenseRepository()
	engine := usecase.NewLedgerEngine(accountRepo, entryRepo, &mocks.StubIDGenerator{})

	accountRepo.Seed(
		&domain.Account{ID: "acct-elec", CompanyID: testCompany, Code: "5020", Name: "Electricity", Type: domain.AccountTypeExpense, Active: true},
		&domain.Account{ID: "acct-cash", CompanyID: testCompany, Code: "1000", Name: "Cash", Type: domain.AccountTypeAsset, Active: true},
	)

	uc := usecase.NewExpenseUseCase(
		&mocks.StubTxManager{},
		expenseRepo,
		engine,
		&mocks.StubSequenceGenerator{},
		&mocks.StubIDGenerator{},
		mocks.StubRetrier{},
	)

	ctx := context.Background()
	exp, err := uc.CreateExpense(ctx, usecase.CreateExpenseInput{
		CompanyID:       testCompany,
		UserID:          testUser,
		DebitAccountID:  "acct-elec",
		CreditAccountID: "acct-cash",
		Amount:          decimal.NewFromInt(800),
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	if err := uc.DeleteExpense(ctx, testCompany, testUser, exp.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}

	if _, err := expenseRepo.GetByID(ctx, testCompany, exp.ID); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Fatalf("expense should be gone, got %v", err)
	}

	cash, _ := accountRepo.GetByID(ctx, testCompany, "acct-cash")
	if !cash.Balance.IsZero() {
		t.Errorf("cash balance = %s after reversal, want 0", cash.Balance)
	}
}

func TestCreateExpenseSequenceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	seqGen := mocks.NewMockSequenceGenerator(ctrl)
	seqGen.EXPECT().
		Next(gomock.Any(), gomock.Any(), testCompany, domain.PrefixExpense, gomock.Any()).
		Return(0, errors.New("sequence table unavailable"))

	expenseRepo := mocks.NewMockExpenseRepository()
	txManager := &mocks.StubTxManager{}

	uc := usecase.NewExpenseUseCase(
		txManager,
		expenseRepo,
		usecase.NewLedgerEngine(mocks.NewMockAccountRepository(), mocks.NewMockEntryRepository(), &mocks.StubIDGenerator{}),
		seqGen,
		&mocks.StubIDGenerator{},
		mocks.StubRetrier{},
	)

	_, err := uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
		CompanyID:       testCompany,
		UserID:          testUser,
		DebitAccountID:  "a",
		CreditAccountID: "b",
		Amount:          decimal.NewFromInt(100),
	})
	if err == nil {
		t.Fatal("expected error when sequence generation fails")
	}
	if !txManager.Last.RolledBack {
		t.Error("transaction should roll back on sequence failure")
	}
}
