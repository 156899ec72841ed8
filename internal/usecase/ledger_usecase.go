package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/domain"
)

// LedgerEngine turns validated posting lines into ledger entries inside a
// caller-owned transaction. Event use cases share one engine so every
// business event posts and reverses the same way.
type LedgerEngine struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
}

// NewLedgerEngine creates a new LedgerEngine.
func NewLedgerEngine(accountRepo AccountRepository, entryRepo EntryRepository, idGen IDGenerator) *LedgerEngine {
	return &LedgerEngine{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
	}
}

// Post validates the lines, resolves role references to concrete accounts
// (creating conventional accounts on first use), locks every touched account
// in deterministic order, writes one entry per line and applies the balance
// deltas. Must run inside the caller's transaction.
func (e *LedgerEngine) Post(
	ctx context.Context,
	tx Transaction,
	companyID, userID string,
	ref domain.Reference,
	lines []domain.PostingLine,
	now time.Time,
) ([]*domain.LedgerEntry, error) {
	if err := domain.ValidateLines(lines); err != nil {
		return nil, err
	}

	accounts, err := e.resolveAccounts(ctx, tx, companyID, lines, now)
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(lines))
	for _, line := range lines {
		account := accounts[accountKey(line.Account)]
		if !account.Active {
			return nil, fmt.Errorf("%w: %s %s", domain.ErrAccountInactive, account.Code, account.Name)
		}

		entry := &domain.LedgerEntry{
			ID:          e.idGen.Generate(),
			CompanyID:   companyID,
			AccountID:   account.ID,
			Side:        line.Side,
			Amount:      line.Amount,
			Description: line.Description,
			Reference:   ref,
			CreatedBy:   userID,
			CreatedAt:   now,
		}

		if err := e.entryRepo.Create(ctx, tx, entry); err != nil {
			return nil, err
		}

		newBalance := account.Apply(line.Side, line.Amount)
		if err := e.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Reverse writes a mirrored entry for every live entry under ref and marks
// the originals reversed. Reversing an already-reversed reference is a
// conflict; a reference with no entries is not found. Must run inside the
// caller's transaction.
func (e *LedgerEngine) Reverse(
	ctx context.Context,
	tx Transaction,
	companyID, userID string,
	ref domain.Reference,
	reason string,
	now time.Time,
) ([]*domain.LedgerEntry, error) {
	originals, err := e.entryRepo.GetByReferenceForUpdate(ctx, tx, companyID, ref)
	if err != nil {
		return nil, err
	}
	if len(originals) == 0 {
		return nil, domain.ErrNoEntriesToReverse
	}
	for _, orig := range originals {
		if orig.Reversed {
			return nil, domain.ErrAlreadyReversed
		}
	}

	accountIDs := make([]string, 0, len(originals))
	seen := make(map[string]bool)
	for _, orig := range originals {
		if !seen[orig.AccountID] {
			seen[orig.AccountID] = true
			accountIDs = append(accountIDs, orig.AccountID)
		}
	}
	sort.Strings(accountIDs)

	accounts, err := e.accountRepo.GetByIDsForUpdate(ctx, tx, companyID, accountIDs)
	if err != nil {
		return nil, err
	}
	if len(accounts) != len(accountIDs) {
		return nil, domain.ErrAccountNotFound
	}

	accountMap := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		accountMap[a.ID] = a
	}

	mirrors := make([]*domain.LedgerEntry, 0, len(originals))
	originalIDs := make([]string, 0, len(originals))

	for _, orig := range originals {
		originalIDs = append(originalIDs, orig.ID)
		origID := orig.ID

		mirror := &domain.LedgerEntry{
			ID:          e.idGen.Generate(),
			CompanyID:   companyID,
			AccountID:   orig.AccountID,
			Side:        orig.Side.Opposite(),
			Amount:      orig.Amount,
			Description: reversalDescription(reason, orig.Description),
			Reference:   ref,
			Reversed:    true,
			ReversalOf:  &origID,
			CreatedBy:   userID,
			CreatedAt:   now,
		}

		if err := e.entryRepo.Create(ctx, tx, mirror); err != nil {
			return nil, err
		}

		account := accountMap[orig.AccountID]
		newBalance := account.Apply(mirror.Side, mirror.Amount)
		if err := e.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
			return nil, err
		}

		mirrors = append(mirrors, mirror)
	}

	if err := e.entryRepo.MarkReversed(ctx, tx, originalIDs); err != nil {
		return nil, err
	}

	return mirrors, nil
}

// resolveAccounts locks every account the lines touch. Role references are
// materialized on first use; explicit ids must already exist. Locks are
// acquired in a deterministic order (role codes first, then explicit ids,
// each sorted) so concurrent postings cannot deadlock.
func (e *LedgerEngine) resolveAccounts(
	ctx context.Context,
	tx Transaction,
	companyID string,
	lines []domain.PostingLine,
	now time.Time,
) (map[string]*domain.Account, error) {
	var roles []domain.AccountRole
	var ids []string
	seenRole := make(map[domain.AccountRole]bool)
	seenID := make(map[string]bool)

	for _, line := range lines {
		if line.Account.AccountID != "" {
			if !seenID[line.Account.AccountID] {
				seenID[line.Account.AccountID] = true
				ids = append(ids, line.Account.AccountID)
			}
			continue
		}
		if !seenRole[line.Account.Role] {
			seenRole[line.Account.Role] = true
			roles = append(roles, line.Account.Role)
		}
	}

	defs := make(map[domain.AccountRole]domain.AccountDefinition, len(roles))
	for _, role := range roles {
		def, err := domain.AccountRef{Role: role}.Definition()
		if err != nil {
			return nil, err
		}
		defs[role] = def
	}

	sort.Slice(roles, func(i, j int) bool { return defs[roles[i]].Code < defs[roles[j]].Code })
	sort.Strings(ids)

	accounts := make(map[string]*domain.Account, len(roles)+len(ids))

	for _, role := range roles {
		account, err := e.accountRepo.GetOrCreateByCodeForUpdate(ctx, tx, companyID, defs[role], e.idGen.Generate(), now)
		if err != nil {
			return nil, err
		}
		accounts[accountKey(domain.AccountRef{Role: role})] = account
	}

	if len(ids) > 0 {
		locked, err := e.accountRepo.GetByIDsForUpdate(ctx, tx, companyID, ids)
		if err != nil {
			return nil, err
		}
		if len(locked) != len(ids) {
			return nil, domain.ErrAccountNotFound
		}
		for _, account := range locked {
			accounts[accountKey(domain.AccountRef{AccountID: account.ID})] = account
		}
	}

	return accounts, nil
}

func accountKey(ref domain.AccountRef) string {
	if ref.AccountID != "" {
		return "id:" + ref.AccountID
	}
	return "role:" + string(ref.Role)
}

func reversalDescription(reason, original string) string {
	if reason != "" {
		return fmt.Sprintf("Reversal (%s): %s", reason, original)
	}
	return "Reversal: " + original
}

// LedgerUseCase serves ledger-wide queries: trial balance, consistency
// checks and entry listings.
type LedgerUseCase struct {
	entryRepo   EntryRepository
	accountRepo AccountRepository
	cache       Cache
}

// NewLedgerUseCase creates a new LedgerUseCase. A nil cache disables report
// caching.
func NewLedgerUseCase(entryRepo EntryRepository, accountRepo AccountRepository, cache Cache) *LedgerUseCase {
	return &LedgerUseCase{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		cache:       cache,
	}
}

// TrialBalance aggregates per-account debit and credit totals. A balanced
// ledger's signed balances net to zero; reversal mirrors cancel out rather
// than disappear, so gross debit and credit columns still show the history.
// The current report is cached briefly; it is a point-in-time view, not a
// posting surface, so slight staleness is acceptable. Historical reports
// (asOf set) replay filtered entries and bypass the cache.
func (uc *LedgerUseCase) TrialBalance(ctx context.Context, companyID string, asOf *time.Time) ([]*domain.TrialBalanceRow, error) {
	if asOf != nil {
		return uc.entryRepo.TrialBalance(ctx, companyID, asOf)
	}

	cacheKey := "trial-balance:" + companyID

	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, cacheKey); err == nil && len(data) > 0 {
			var rows []*domain.TrialBalanceRow
			if json.Unmarshal(data, &rows) == nil {
				return rows, nil
			}
		}
	}

	rows, err := uc.entryRepo.TrialBalance(ctx, companyID, nil)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(rows); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, data, TrialBalanceCacheTTL)
		}
	}

	return rows, nil
}

// CheckConsistency verifies the mechanical ledger invariant: total debits
// equal total credits across all entries. A broken check means corrupted
// data, not a user error.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context, companyID string) (bool, error) {
	rows, err := uc.entryRepo.TrialBalance(ctx, companyID, nil)
	if err != nil {
		return false, err
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, row := range rows {
		debits = debits.Add(row.DebitTotal)
		credits = credits.Add(row.CreditTotal)
	}

	if debits.Sub(credits).Abs().GreaterThan(domain.BalanceTolerance) {
		return false, fmt.Errorf("%w: debits %s, credits %s", domain.ErrTrialBalanceBroken, debits, credits)
	}

	return true, nil
}

// ListEntriesByAccountInput represents input for listing an account's entries.
type ListEntriesByAccountInput struct {
	CompanyID string
	AccountID string
	Limit     int
	Offset    int
}

// ListEntriesByAccount lists ledger entries for one account, newest first.
func (uc *LedgerUseCase) ListEntriesByAccount(ctx context.Context, input ListEntriesByAccountInput) ([]*domain.LedgerEntry, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.entryRepo.ListByAccount(ctx, input.CompanyID, input.AccountID, input.Limit, input.Offset)
}

// GetEntriesByReference returns every entry posted under a business event.
func (uc *LedgerUseCase) GetEntriesByReference(ctx context.Context, companyID string, ref domain.Reference) ([]*domain.LedgerEntry, error) {
	return uc.entryRepo.GetByReference(ctx, companyID, ref)
}
