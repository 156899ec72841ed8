package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kovai/pawnbook/internal/adapter/http/dto"
	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/infrastructure/metrics"
	"github.com/kovai/pawnbook/internal/usecase"
)

// ChartService defines the behavior needed by AccountHandler.
type ChartService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, companyID, id string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error)
	DeleteAccount(ctx context.Context, companyID, id string) error
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	SeedDefaultChart(ctx context.Context, companyID string) ([]*domain.Account, error)
}

// AccountHandler handles chart of accounts HTTP requests.
type AccountHandler struct {
	chartUC ChartService
	metrics *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(chartUC ChartService, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{chartUC: chartUC, metrics: m}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.chartUC.CreateAccount(r.Context(), req.ToUseCaseInput(companyID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	h.metrics.AccountsCreated.Inc()
	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	account, err := h.chartUC.GetAccount(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Update updates an account's descriptive fields.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	var req dto.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.chartUC.UpdateAccount(r.Context(), req.ToUseCaseInput(companyID, chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Delete removes an unused account. Deleting an account referenced by ledger
// entries is rejected and leaves the account as it was.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	if err := h.chartUC.DeleteAccount(r.Context(), companyID, chi.URLParam(r, "id")); err != nil {
		writeError(w, mapDomainError(err), "failed to delete account", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	accounts, err := h.chartUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		CompanyID:  companyID,
		ActiveOnly: r.URL.Query().Get("active") == "true",
		Limit:      parseIntQuery(r, "limit", 50),
		Offset:     parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Seed installs the default pawn-shop chart of accounts. Safe to call on a
// company that already has accounts; existing codes are left alone.
func (h *AccountHandler) Seed(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	accounts, err := h.chartUC.SeedDefaultChart(r.Context(), companyID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to seed chart of accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}
