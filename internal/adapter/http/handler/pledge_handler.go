package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/adapter/http/dto"
	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/infrastructure/metrics"
	"github.com/kovai/pawnbook/internal/usecase"
)

// PledgeService defines the behavior needed by PledgeHandler.
type PledgeService interface {
	CreatePledge(ctx context.Context, input usecase.CreatePledgeInput) (*domain.Pledge, error)
	GetPledge(ctx context.Context, companyID, id string) (*domain.Pledge, decimal.Decimal, error)
	ListPledges(ctx context.Context, input usecase.ListPledgesInput) ([]*domain.Pledge, error)
	DeletePledge(ctx context.Context, companyID, userID, id string) error
}

// PledgeHandler handles pledge HTTP requests.
type PledgeHandler struct {
	pledgeUC PledgeService
	metrics  *metrics.Metrics
}

// NewPledgeHandler creates a new PledgeHandler.
func NewPledgeHandler(pledgeUC PledgeService, m *metrics.Metrics) *PledgeHandler {
	return &PledgeHandler{pledgeUC: pledgeUC, metrics: m}
}

// Create records a new pledge and posts its disbursement entries.
func (h *PledgeHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID, userID, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	var req dto.CreatePledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	pledge, err := h.pledgeUC.CreatePledge(r.Context(), req.ToUseCaseInput(companyID, userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create pledge", err.Error())
		return
	}

	h.metrics.PledgesCreated.Inc()
	writeJSON(w, http.StatusCreated, dto.PledgeFromDomain(pledge, pledge.LoanAmount))
}

// Get retrieves a pledge with its outstanding principal.
func (h *PledgeHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	pledge, outstanding, err := h.pledgeUC.GetPledge(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get pledge", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PledgeFromDomain(pledge, outstanding))
}

// List lists pledges with optional status filtering.
func (h *PledgeHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	pledges, err := h.pledgeUC.ListPledges(r.Context(), usecase.ListPledgesInput{
		CompanyID: companyID,
		Status:    domain.PledgeStatus(r.URL.Query().Get("status")),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list pledges", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PledgesFromDomain(pledges))
}

// Delete removes a pledge that has no posted receipts and reverses its
// disbursement entries.
func (h *PledgeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	companyID, userID, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	if err := h.pledgeUC.DeletePledge(r.Context(), companyID, userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, mapDomainError(err), "failed to delete pledge", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
