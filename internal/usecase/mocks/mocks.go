package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/usecase"
)

// StubTransaction is a no-op transaction for use case tests.
type StubTransaction struct {
	Committed  bool
	RolledBack bool
	CommitErr  error
}

func (t *StubTransaction) Commit(ctx context.Context) error {
	if t.CommitErr != nil {
		return t.CommitErr
	}
	t.Committed = true
	return nil
}

func (t *StubTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// StubTxManager hands out StubTransactions and remembers the last one.
type StubTxManager struct {
	BeginErr error
	Last     *StubTransaction
}

func (m *StubTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	m.Last = &StubTransaction{}
	return m.Last, nil
}

// StubRetrier runs the operation once, without backoff.
type StubRetrier struct{}

func (StubRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// StubIDGenerator returns id-1, id-2, ... so tests get stable ids.
type StubIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *StubIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// StubSequenceGenerator counts per (company, prefix, period) in memory.
type StubSequenceGenerator struct {
	mu       sync.Mutex
	counters map[string]int
}

func (g *StubSequenceGenerator) Next(ctx context.Context, tx usecase.Transaction, companyID, prefix string, period int) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.counters == nil {
		g.counters = make(map[string]int)
	}
	key := fmt.Sprintf("%s/%s/%d", companyID, prefix, period)
	g.counters[key]++
	return g.counters[key], nil
}

// MockAccountRepository is an in-memory AccountRepository. Any Func field
// overrides the stored behavior for that method.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc                     func(ctx context.Context, account *domain.Account) error
	GetByIDFunc                    func(ctx context.Context, companyID, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc          func(ctx context.Context, tx usecase.Transaction, companyID string, ids []string) ([]*domain.Account, error)
	GetOrCreateByCodeForUpdateFunc func(ctx context.Context, tx usecase.Transaction, companyID string, def domain.AccountDefinition, id string, now time.Time) (*domain.Account, error)
	UpdateBalanceFunc              func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

// Seed stores an account directly.
func (m *MockAccountRepository) Seed(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.CompanyID == account.CompanyID && a.Code == account.Code {
			return domain.ErrDuplicateAccount
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	return m.Create(ctx, account)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, companyID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[id]; ok && a.CompanyID == companyID {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.CompanyID == companyID && a.Code == code {
			return a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, companyID string, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, companyID, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Account
	for _, id := range ids {
		if a, ok := m.accounts[id]; ok && a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockAccountRepository) GetOrCreateByCodeForUpdate(ctx context.Context, tx usecase.Transaction, companyID string, def domain.AccountDefinition, id string, now time.Time) (*domain.Account, error) {
	if m.GetOrCreateByCodeForUpdateFunc != nil {
		return m.GetOrCreateByCodeForUpdateFunc(ctx, tx, companyID, def, id, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.CompanyID == companyID && a.Code == def.Code {
			return a, nil
		}
	}
	account := &domain.Account{
		ID:        id,
		CompanyID: companyID,
		Code:      def.Code,
		Name:      def.Name,
		Type:      def.Type,
		Category:  def.Category,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.accounts[id] = account
	return account, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Balance = balance
	a.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, tx usecase.Transaction, companyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; !ok || a.CompanyID != companyID {
		return domain.ErrAccountNotFound
	}
	delete(m.accounts, id)
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, companyID string, activeOnly bool, limit, offset int) ([]*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Account
	for _, a := range m.accounts {
		if a.CompanyID != companyID {
			continue
		}
		if activeOnly && !a.Active {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// MockEntryRepository is an in-memory EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	TrialBalanceFunc func(ctx context.Context, companyID string, asOf *time.Time) ([]*domain.TrialBalanceRow, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

// All returns every stored entry.
func (m *MockEntryRepository) All() []*domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.LedgerEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) GetByReference(ctx context.Context, companyID string, ref domain.Reference) ([]*domain.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.CompanyID == companyID && e.Reference == ref {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) GetByReferenceForUpdate(ctx context.Context, tx usecase.Transaction, companyID string, ref domain.Reference) ([]*domain.LedgerEntry, error) {
	return m.GetByReference(ctx, companyID, ref)
}

func (m *MockEntryRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	marked := make(map[string]bool, len(ids))
	for _, id := range ids {
		marked[id] = true
	}
	for _, e := range m.entries {
		if marked[e.ID] {
			e.Reversed = true
		}
	}
	return nil
}

func (m *MockEntryRepository) ExistsByAccount(ctx context.Context, tx usecase.Transaction, companyID, accountID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.CompanyID == companyID && e.AccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockEntryRepository) ListByAccount(ctx context.Context, companyID, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.CompanyID == companyID && e.AccountID == accountID {
			out = append(out, e)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockEntryRepository) TrialBalance(ctx context.Context, companyID string, asOf *time.Time) ([]*domain.TrialBalanceRow, error) {
	if m.TrialBalanceFunc != nil {
		return m.TrialBalanceFunc(ctx, companyID, asOf)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := make(map[string]*domain.TrialBalanceRow)
	var order []string
	for _, e := range m.entries {
		if e.CompanyID != companyID {
			continue
		}
		if asOf != nil && e.CreatedAt.After(*asOf) {
			continue
		}
		row, ok := rows[e.AccountID]
		if !ok {
			row = &domain.TrialBalanceRow{AccountID: e.AccountID}
			rows[e.AccountID] = row
			order = append(order, e.AccountID)
		}
		if e.Side == domain.Debit {
			row.DebitTotal = row.DebitTotal.Add(e.Amount)
		} else {
			row.CreditTotal = row.CreditTotal.Add(e.Amount)
		}
	}
	out := make([]*domain.TrialBalanceRow, 0, len(order))
	for _, id := range order {
		out = append(out, rows[id])
	}
	return out, nil
}

// MockPledgeRepository is an in-memory PledgeRepository.
type MockPledgeRepository struct {
	mu      sync.RWMutex
	pledges map[string]*domain.Pledge

	CreateFunc func(ctx context.Context, tx usecase.Transaction, pledge *domain.Pledge) error
}

func NewMockPledgeRepository() *MockPledgeRepository {
	return &MockPledgeRepository{pledges: make(map[string]*domain.Pledge)}
}

func (m *MockPledgeRepository) Seed(pledges ...*domain.Pledge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range pledges {
		m.pledges[p.ID] = p
	}
}

func (m *MockPledgeRepository) Create(ctx context.Context, tx usecase.Transaction, pledge *domain.Pledge) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, pledge)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pledges[pledge.ID] = pledge
	return nil
}

func (m *MockPledgeRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Pledge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.pledges[id]; ok && p.CompanyID == companyID {
		return p, nil
	}
	return nil, domain.ErrPledgeNotFound
}

func (m *MockPledgeRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.Pledge, error) {
	return m.GetByID(ctx, companyID, id)
}

func (m *MockPledgeRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, companyID string, ids []string) ([]*domain.Pledge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Pledge
	for _, id := range ids {
		if p, ok := m.pledges[id]; ok && p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockPledgeRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.PledgeStatus, coaStatus domain.PostingStatus, updatedBy string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pledges[id]
	if !ok {
		return domain.ErrPledgeNotFound
	}
	p.Status = status
	p.CoaStatus = coaStatus
	p.UpdatedBy = updatedBy
	p.UpdatedAt = updatedAt
	return nil
}

func (m *MockPledgeRepository) Update(ctx context.Context, tx usecase.Transaction, pledge *domain.Pledge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pledges[pledge.ID]; !ok {
		return domain.ErrPledgeNotFound
	}
	m.pledges[pledge.ID] = pledge
	return nil
}

func (m *MockPledgeRepository) Delete(ctx context.Context, tx usecase.Transaction, companyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pledges[id]; !ok || p.CompanyID != companyID {
		return domain.ErrPledgeNotFound
	}
	delete(m.pledges, id)
	return nil
}

func (m *MockPledgeRepository) List(ctx context.Context, companyID string, status domain.PledgeStatus, limit, offset int) ([]*domain.Pledge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Pledge
	for _, p := range m.pledges {
		if p.CompanyID != companyID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// MockReceiptRepository is an in-memory ReceiptRepository.
type MockReceiptRepository struct {
	mu       sync.RWMutex
	receipts map[string]*domain.Receipt
}

func NewMockReceiptRepository() *MockReceiptRepository {
	return &MockReceiptRepository{receipts: make(map[string]*domain.Receipt)}
}

func (m *MockReceiptRepository) Seed(receipts ...*domain.Receipt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range receipts {
		m.receipts[r.ID] = r
	}
}

func (m *MockReceiptRepository) Create(ctx context.Context, tx usecase.Transaction, receipt *domain.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts[receipt.ID] = receipt
	return nil
}

func (m *MockReceiptRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.receipts[id]; ok && r.CompanyID == companyID {
		return r, nil
	}
	return nil, domain.ErrReceiptNotFound
}

func (m *MockReceiptRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.Receipt, error) {
	return m.GetByID(ctx, companyID, id)
}

func (m *MockReceiptRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.ReceiptStatus, coaStatus domain.PostingStatus, updatedBy string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.receipts[id]
	if !ok {
		return domain.ErrReceiptNotFound
	}
	r.Status = status
	r.CoaStatus = coaStatus
	r.UpdatedBy = updatedBy
	r.UpdatedAt = updatedAt
	return nil
}

func (m *MockReceiptRepository) ReplaceItems(ctx context.Context, tx usecase.Transaction, receipt *domain.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.receipts[receipt.ID]; !ok {
		return domain.ErrReceiptNotFound
	}
	m.receipts[receipt.ID] = receipt
	return nil
}

func (m *MockReceiptRepository) Delete(ctx context.Context, tx usecase.Transaction, companyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.receipts[id]; !ok || r.CompanyID != companyID {
		return domain.ErrReceiptNotFound
	}
	delete(m.receipts, id)
	return nil
}

func (m *MockReceiptRepository) List(ctx context.Context, companyID string, status domain.ReceiptStatus, limit, offset int) ([]*domain.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Receipt
	for _, r := range m.receipts {
		if r.CompanyID != companyID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *MockReceiptRepository) ListByPledge(ctx context.Context, companyID, pledgeID string) ([]*domain.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Receipt
	for _, r := range m.receipts {
		if r.CompanyID != companyID {
			continue
		}
		for _, item := range r.Items {
			if item.PledgeID == pledgeID {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (m *MockReceiptRepository) SumPaidPrincipal(ctx context.Context, tx usecase.Transaction, companyID, pledgeID string, statuses []domain.ReceiptStatus) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[domain.ReceiptStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}
	sum := decimal.Zero
	for _, r := range m.receipts {
		if r.CompanyID != companyID || !wanted[r.Status] {
			continue
		}
		for _, item := range r.Items {
			if item.PledgeID == pledgeID {
				sum = sum.Add(item.PaidPrincipal)
			}
		}
	}
	return sum, nil
}

// MockBankPledgeRepository is an in-memory BankPledgeRepository.
type MockBankPledgeRepository struct {
	mu          sync.RWMutex
	bankPledges map[string]*domain.BankPledge
	redemptions map[string]*domain.BankRedemption
}

func NewMockBankPledgeRepository() *MockBankPledgeRepository {
	return &MockBankPledgeRepository{
		bankPledges: make(map[string]*domain.BankPledge),
		redemptions: make(map[string]*domain.BankRedemption),
	}
}

func (m *MockBankPledgeRepository) Seed(bps ...*domain.BankPledge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, bp := range bps {
		m.bankPledges[bp.ID] = bp
	}
}

func (m *MockBankPledgeRepository) Create(ctx context.Context, tx usecase.Transaction, bp *domain.BankPledge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bankPledges[bp.ID] = bp
	return nil
}

func (m *MockBankPledgeRepository) GetByID(ctx context.Context, companyID, id string) (*domain.BankPledge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if bp, ok := m.bankPledges[id]; ok && bp.CompanyID == companyID {
		return bp, nil
	}
	return nil, domain.ErrBankPledgeNotFound
}

func (m *MockBankPledgeRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.BankPledge, error) {
	return m.GetByID(ctx, companyID, id)
}

func (m *MockBankPledgeRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.BankPledgeStatus, coaStatus domain.PostingStatus, updatedBy string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bp, ok := m.bankPledges[id]
	if !ok {
		return domain.ErrBankPledgeNotFound
	}
	bp.Status = status
	bp.CoaStatus = coaStatus
	bp.UpdatedBy = updatedBy
	bp.UpdatedAt = updatedAt
	return nil
}

func (m *MockBankPledgeRepository) List(ctx context.Context, companyID string, status domain.BankPledgeStatus, limit, offset int) ([]*domain.BankPledge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.BankPledge
	for _, bp := range m.bankPledges {
		if bp.CompanyID != companyID {
			continue
		}
		if status != "" && bp.Status != status {
			continue
		}
		out = append(out, bp)
	}
	return out, nil
}

func (m *MockBankPledgeRepository) CreateRedemption(ctx context.Context, tx usecase.Transaction, red *domain.BankRedemption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redemptions[red.ID] = red
	return nil
}

func (m *MockBankPledgeRepository) GetRedemptionByBankPledge(ctx context.Context, companyID, bankPledgeID string) (*domain.BankRedemption, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, red := range m.redemptions {
		if red.CompanyID == companyID && red.BankPledgeID == bankPledgeID {
			return red, nil
		}
	}
	return nil, domain.ErrBankPledgeNotFound
}

// MockExpenseRepository is an in-memory ExpenseRepository.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.ExpenseTransaction
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{expenses: make(map[string]*domain.ExpenseTransaction)}
}

func (m *MockExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, exp *domain.ExpenseTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[exp.ID] = exp
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, companyID, id string) (*domain.ExpenseTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[id]; ok && e.CompanyID == companyID {
		return e, nil
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) Delete(ctx context.Context, tx usecase.Transaction, companyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.expenses[id]; !ok || e.CompanyID != companyID {
		return domain.ErrExpenseNotFound
	}
	delete(m.expenses, id)
	return nil
}

func (m *MockExpenseRepository) List(ctx context.Context, companyID string, from, to *time.Time, limit, offset int) ([]*domain.ExpenseTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.ExpenseTransaction
	for _, e := range m.expenses {
		if e.CompanyID != companyID {
			continue
		}
		if from != nil && e.TransactionDate.Before(*from) {
			continue
		}
		if to != nil && e.TransactionDate.After(*to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// MockVoucherRepository is an in-memory VoucherRepository.
type MockVoucherRepository struct {
	mu       sync.RWMutex
	vouchers map[string]*domain.Voucher
}

func NewMockVoucherRepository() *MockVoucherRepository {
	return &MockVoucherRepository{vouchers: make(map[string]*domain.Voucher)}
}

func (m *MockVoucherRepository) Create(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vouchers[voucher.ID] = voucher
	return nil
}

func (m *MockVoucherRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Voucher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vouchers[id]; ok && v.CompanyID == companyID {
		return v, nil
	}
	return nil, domain.ErrVoucherNotFound
}

func (m *MockVoucherRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.Voucher, error) {
	return m.GetByID(ctx, companyID, id)
}

func (m *MockVoucherRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.VoucherStatus, updatedBy string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vouchers[id]
	if !ok {
		return domain.ErrVoucherNotFound
	}
	v.Status = status
	v.UpdatedBy = updatedBy
	v.UpdatedAt = updatedAt
	return nil
}

func (m *MockVoucherRepository) List(ctx context.Context, companyID string, limit, offset int) ([]*domain.Voucher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Voucher
	for _, v := range m.vouchers {
		if v.CompanyID == companyID {
			out = append(out, v)
		}
	}
	return out, nil
}
