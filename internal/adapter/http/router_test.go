package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/adapter/http/handler"
	apimiddleware "github.com/kovai/pawnbook/internal/adapter/http/middleware"
	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/infrastructure/metrics"
	"github.com/kovai/pawnbook/internal/usecase"
)

var routerMetrics = metrics.New()

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
		cfg.IdempotencyTTL = time.Hour
	}))

	body := `{"code":"1000","name":"Cash","type":"Assets"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_DefaultCompanyScopesRequests(t *testing.T) {
	chart := &stubChartService{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.AccountHandler = handler.NewAccountHandler(chart, routerMetrics)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected list to succeed under the default company, got %d", rec.Code)
	}
	if chart.listCompany != "co-test" {
		t.Fatalf("expected default company to scope the request, got %q", chart.listCompany)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/accounts/",
		"POST /api/v1/accounts/seed",
		"GET /api/v1/accounts/{id}/entries",
		"GET /api/v1/ledger/trial-balance",
		"GET /api/v1/ledger/consistency",
		"POST /api/v1/pledges/",
		"POST /api/v1/receipts/{id}/post",
		"POST /api/v1/receipts/{id}/void",
		"POST /api/v1/bank-pledges/{id}/redeem",
		"POST /api/v1/expenses/",
		"POST /api/v1/vouchers/{id}/reverse",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		AccountHandler:    handler.NewAccountHandler(&stubChartService{}, routerMetrics),
		LedgerHandler:     handler.NewLedgerHandler(&stubLedgerService{}, routerMetrics),
		PledgeHandler:     handler.NewPledgeHandler(&stubPledgeService{}, routerMetrics),
		ReceiptHandler:    handler.NewReceiptHandler(&stubReceiptService{}, routerMetrics),
		BankPledgeHandler: handler.NewBankPledgeHandler(&stubBankPledgeService{}, routerMetrics),
		ExpenseHandler:    handler.NewExpenseHandler(&stubExpenseService{}, routerMetrics),
		VoucherHandler:    handler.NewVoucherHandler(&stubVoucherService{}, routerMetrics),
		HealthHandler:     handler.NewHealthHandler(nil, nil),
		DefaultCompanyID:  "co-test",
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubChartService struct {
	listCompany string
}

func (s *stubChartService) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return &domain.Account{ID: "acc"}, nil
}

func (s *stubChartService) GetAccount(ctx context.Context, companyID, id string) (*domain.Account, error) {
	return &domain.Account{ID: id}, nil
}

func (s *stubChartService) UpdateAccount(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error) {
	return &domain.Account{ID: input.ID}, nil
}

func (s *stubChartService) DeleteAccount(ctx context.Context, companyID, id string) error {
	return nil
}

func (s *stubChartService) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	s.listCompany = input.CompanyID
	return []*domain.Account{}, nil
}

func (s *stubChartService) SeedDefaultChart(ctx context.Context, companyID string) ([]*domain.Account, error) {
	return []*domain.Account{}, nil
}

type stubLedgerService struct{}

func (stubLedgerService) TrialBalance(ctx context.Context, companyID string, asOf *time.Time) ([]*domain.TrialBalanceRow, error) {
	return []*domain.TrialBalanceRow{}, nil
}

func (stubLedgerService) CheckConsistency(ctx context.Context, companyID string) (bool, error) {
	return true, nil
}

func (stubLedgerService) ListEntriesByAccount(ctx context.Context, input usecase.ListEntriesByAccountInput) ([]*domain.LedgerEntry, error) {
	return []*domain.LedgerEntry{}, nil
}

func (stubLedgerService) GetEntriesByReference(ctx context.Context, companyID string, ref domain.Reference) ([]*domain.LedgerEntry, error) {
	return []*domain.LedgerEntry{}, nil
}

type stubPledgeService struct{}

func (stubPledgeService) CreatePledge(ctx context.Context, input usecase.CreatePledgeInput) (*domain.Pledge, error) {
	return &domain.Pledge{ID: "pledge"}, nil
}

func (stubPledgeService) GetPledge(ctx context.Context, companyID, id string) (*domain.Pledge, decimal.Decimal, error) {
	return &domain.Pledge{ID: id}, decimal.Zero, nil
}

func (stubPledgeService) ListPledges(ctx context.Context, input usecase.ListPledgesInput) ([]*domain.Pledge, error) {
	return []*domain.Pledge{}, nil
}

func (stubPledgeService) DeletePledge(ctx context.Context, companyID, userID, id string) error {
	return nil
}

type stubReceiptService struct{}

func (stubReceiptService) CreateDraftReceipt(ctx context.Context, input usecase.CreateReceiptInput) (*domain.Receipt, error) {
	return &domain.Receipt{ID: "rcp"}, nil
}

func (stubReceiptService) UpdateDraftReceipt(ctx context.Context, input usecase.UpdateReceiptInput) (*domain.Receipt, error) {
	return &domain.Receipt{ID: input.ReceiptID}, nil
}

func (stubReceiptService) PostReceipt(ctx context.Context, companyID, userID, receiptID string) (*domain.Receipt, error) {
	return &domain.Receipt{ID: receiptID}, nil
}

func (stubReceiptService) VoidReceipt(ctx context.Context, companyID, userID, receiptID, reason string) (*domain.Receipt, error) {
	return &domain.Receipt{ID: receiptID}, nil
}

func (stubReceiptService) DeleteDraftReceipt(ctx context.Context, companyID, userID, receiptID string) error {
	return nil
}

func (stubReceiptService) GetReceipt(ctx context.Context, companyID, id string) (*domain.Receipt, error) {
	return &domain.Receipt{ID: id}, nil
}

func (stubReceiptService) ListReceipts(ctx context.Context, input usecase.ListReceiptsInput) ([]*domain.Receipt, error) {
	return []*domain.Receipt{}, nil
}

type stubBankPledgeService struct{}

func (stubBankPledgeService) TransferToBank(ctx context.Context, input usecase.TransferToBankInput) (*domain.BankPledge, error) {
	return &domain.BankPledge{ID: "bp"}, nil
}

func (stubBankPledgeService) RedeemFromBank(ctx context.Context, input usecase.RedeemFromBankInput) (*domain.BankRedemption, error) {
	return &domain.BankRedemption{ID: "br"}, nil
}

func (stubBankPledgeService) CancelBankPledge(ctx context.Context, companyID, userID, bankPledgeID, reason string) error {
	return nil
}

func (stubBankPledgeService) GetBankPledge(ctx context.Context, companyID, id string) (*domain.BankPledge, error) {
	return &domain.BankPledge{ID: id}, nil
}

func (stubBankPledgeService) ListBankPledges(ctx context.Context, input usecase.ListBankPledgesInput) ([]*domain.BankPledge, error) {
	return []*domain.BankPledge{}, nil
}

type stubExpenseService struct{}

func (stubExpenseService) CreateExpense(ctx context.Context, input usecase.CreateExpenseInput) (*domain.ExpenseTransaction, error) {
	return &domain.ExpenseTransaction{ID: "exp"}, nil
}

func (stubExpenseService) DeleteExpense(ctx context.Context, companyID, userID, id string) error {
	return nil
}

func (stubExpenseService) GetExpense(ctx context.Context, companyID, id string) (*domain.ExpenseTransaction, error) {
	return &domain.ExpenseTransaction{ID: id}, nil
}

func (stubExpenseService) ListExpenses(ctx context.Context, input usecase.ListExpensesInput) ([]*domain.ExpenseTransaction, error) {
	return []*domain.ExpenseTransaction{}, nil
}

type stubVoucherService struct{}

func (stubVoucherService) CreateVoucher(ctx context.Context, input usecase.CreateVoucherInput) (*domain.Voucher, error) {
	return &domain.Voucher{ID: "jv"}, nil
}

func (stubVoucherService) ReverseVoucher(ctx context.Context, companyID, userID, voucherID, reason string) (*domain.Voucher, error) {
	return &domain.Voucher{ID: voucherID}, nil
}

func (stubVoucherService) GetVoucher(ctx context.Context, companyID, id string) (*domain.Voucher, error) {
	return &domain.Voucher{ID: id}, nil
}

func (stubVoucherService) ListVouchers(ctx context.Context, input usecase.ListVouchersInput) ([]*domain.Voucher, error) {
	return []*domain.Voucher{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
