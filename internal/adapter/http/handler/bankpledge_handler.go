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

// BankPledgeService defines the behavior needed by BankPledgeHandler.
type BankPledgeService interface {
	TransferToBank(ctx context.Context, input usecase.TransferToBankInput) (*domain.BankPledge, error)
	RedeemFromBank(ctx context.Context, input usecase.RedeemFromBankInput) (*domain.BankRedemption, error)
	CancelBankPledge(ctx context.Context, companyID, userID, bankPledgeID, reason string) error
	GetBankPledge(ctx context.Context, companyID, id string) (*domain.BankPledge, error)
	ListBankPledges(ctx context.Context, input usecase.ListBankPledgesInput) ([]*domain.BankPledge, error)
}

// BankPledgeHandler handles bank pledge HTTP requests.
type BankPledgeHandler struct {
	bankUC  BankPledgeService
	metrics *metrics.Metrics
}

// NewBankPledgeHandler creates a new BankPledgeHandler.
func NewBankPledgeHandler(bankUC BankPledgeService, m *metrics.Metrics) *BankPledgeHandler {
	return &BankPledgeHandler{bankUC: bankUC, metrics: m}
}

// Transfer moves an active pledge's collateral to a bank for refinancing.
func (h *BankPledgeHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	companyID, userID, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	var req dto.TransferToBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	bp, err := h.bankUC.TransferToBank(r.Context(), req.ToUseCaseInput(companyID, userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to transfer pledge to bank", err.Error())
		return
	}

	h.metrics.BankTransfers.Inc()
	writeJSON(w, http.StatusCreated, dto.BankPledgeFromDomain(bp))
}

// Redeem pays the bank back and settles the bank pledge.
func (h *BankPledgeHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	companyID, userID, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	var req dto.RedeemFromBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	red, err := h.bankUC.RedeemFromBank(r.Context(), req.ToUseCaseInput(companyID, userID, chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to redeem bank pledge", err.Error())
		return
	}

	h.metrics.BankRedemptions.Inc()
	writeJSON(w, http.StatusOK, dto.BankRedemptionFromDomain(red))
}

// Cancel reverses a bank transfer booked in error, restoring the pledge.
func (h *BankPledgeHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	companyID, userID, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	var req dto.VoidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.bankUC.CancelBankPledge(r.Context(), companyID, userID, chi.URLParam(r, "id"), req.Reason); err != nil {
		writeError(w, mapDomainError(err), "failed to cancel bank pledge", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get retrieves a bank pledge by ID.
func (h *BankPledgeHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	bp, err := h.bankUC.GetBankPledge(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get bank pledge", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BankPledgeFromDomain(bp))
}

// List lists bank pledges with optional status filtering.
func (h *BankPledgeHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	pledges, err := h.bankUC.ListBankPledges(r.Context(), usecase.ListBankPledgesInput{
		CompanyID: companyID,
		Status:    domain.BankPledgeStatus(r.URL.Query().Get("status")),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list bank pledges", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BankPledgesFromDomain(pledges))
}
