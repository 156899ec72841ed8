package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kovai/pawnbook/internal/adapter/http/dto"
	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/infrastructure/metrics"
	"github.com/kovai/pawnbook/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	TrialBalance(ctx context.Context, companyID string, asOf *time.Time) ([]*domain.TrialBalanceRow, error)
	CheckConsistency(ctx context.Context, companyID string) (bool, error)
	ListEntriesByAccount(ctx context.Context, input usecase.ListEntriesByAccountInput) ([]*domain.LedgerEntry, error)
	GetEntriesByReference(ctx context.Context, companyID string, ref domain.Reference) ([]*domain.LedgerEntry, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledgerUC LedgerService
	metrics  *metrics.Metrics
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, m *metrics.Metrics) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, metrics: m}
}

// TrialBalance returns per-account debit and credit totals with grand
// totals, the standard close-of-day report.
func (h *LedgerHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	rows, err := h.ledgerUC.TrialBalance(r.Context(), companyID, parseTimeQuery(r, "as_of"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build trial balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromDomain(rows))
}

// CheckConsistency checks that total debits equal total credits.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	consistent, err := h.ledgerUC.CheckConsistency(r.Context(), companyID)
	if err != nil {
		if errors.Is(err, domain.ErrTrialBalanceBroken) {
			h.metrics.ConsistencyChecks.WithLabelValues("broken").Inc()
			writeJSON(w, http.StatusConflict, map[string]any{
				"status":     "inconsistent",
				"consistent": false,
				"message":    err.Error(),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	h.metrics.ConsistencyChecks.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "consistent",
		"consistent": consistent,
	})
}

// ListByAccount lists ledger entries for one account, newest first.
func (h *LedgerHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	entries, err := h.ledgerUC.ListEntriesByAccount(r.Context(), usecase.ListEntriesByAccountInput{
		CompanyID: companyID,
		AccountID: chi.URLParam(r, "id"),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// ListByReference lists every entry posted under one business event,
// identified by reference type and ID query parameters.
func (h *LedgerHandler) ListByReference(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	refType := r.URL.Query().Get("reference_type")
	refID := r.URL.Query().Get("reference_id")
	if refType == "" || refID == "" {
		writeError(w, http.StatusBadRequest, "missing reference", "reference_type and reference_id are required")
		return
	}

	entries, err := h.ledgerUC.GetEntriesByReference(r.Context(), companyID, domain.Reference{
		Type: domain.ReferenceType(refType),
		ID:   refID,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
