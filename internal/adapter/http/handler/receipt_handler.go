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

// ReceiptService defines the behavior needed by ReceiptHandler.
type ReceiptService interface {
	CreateDraftReceipt(ctx context.Context, input usecase.CreateReceiptInput) (*domain.Receipt, error)
	UpdateDraftReceipt(ctx context.Context, input usecase.UpdateReceiptInput) (*domain.Receipt, error)
	PostReceipt(ctx context.Context, companyID, userID, receiptID string) (*domain.Receipt, error)
	VoidReceipt(ctx context.Context, companyID, userID, receiptID, reason string) (*domain.Receipt, error)
	DeleteDraftReceipt(ctx context.Context, companyID, userID, receiptID string) error
	GetReceipt(ctx context.Context, companyID, id string) (*domain.Receipt, error)
	ListReceipts(ctx context.Context, input usecase.ListReceiptsInput) ([]*domain.Receipt, error)
}

// ReceiptHandler handles receipt HTTP requests.
type ReceiptHandler struct {
	receiptUC ReceiptService
	metrics   *metrics.Metrics
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptUC ReceiptService, m *metrics.Metrics) *ReceiptHandler {
	return &ReceiptHandler{receiptUC: receiptUC, metrics: m}
}

// Create records a draft receipt. Nothing touches the ledger until posting.
func (h *ReceiptHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID, userID, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	var req dto.CreateReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	receipt, err := h.receiptUC.CreateDraftReceipt(r.Context(), req.ToUseCaseInput(companyID, userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create receipt", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ReceiptFromDomain(receipt))
}

// Update replaces the items on a draft receipt.
func (h *ReceiptHandler) Update(w http.ResponseWriter, r *http.Request) {
	companyID, userID, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	var req dto.UpdateReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	receipt, err := h.receiptUC.UpdateDraftReceipt(r.Context(), req.ToUseCaseInput(companyID, userID, chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update receipt", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReceiptFromDomain(receipt))
}

// Post books the receipt's ledger entries and advances pledge statuses.
func (h *ReceiptHandler) Post(w http.ResponseWriter, r *http.Request) {
	companyID, userID, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	receipt, err := h.receiptUC.PostReceipt(r.Context(), companyID, userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post receipt", err.Error())
		return
	}

	h.metrics.ReceiptsPosted.Inc()
	writeJSON(w, http.StatusOK, dto.ReceiptFromDomain(receipt))
}

// Void reverses a posted receipt's entries and restores pledge statuses.
func (h *ReceiptHandler) Void(w http.ResponseWriter, r *http.Request) {
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

	receipt, err := h.receiptUC.VoidReceipt(r.Context(), companyID, userID, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to void receipt", err.Error())
		return
	}

	h.metrics.ReceiptsVoided.Inc()
	writeJSON(w, http.StatusOK, dto.ReceiptFromDomain(receipt))
}

// Delete removes a draft receipt.
func (h *ReceiptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	companyID, userID, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	if err := h.receiptUC.DeleteDraftReceipt(r.Context(), companyID, userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, mapDomainError(err), "failed to delete receipt", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get retrieves a receipt with its items.
func (h *ReceiptHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	receipt, err := h.receiptUC.GetReceipt(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get receipt", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReceiptFromDomain(receipt))
}

// List lists receipts with optional status filtering.
func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	receipts, err := h.receiptUC.ListReceipts(r.Context(), usecase.ListReceiptsInput{
		CompanyID: companyID,
		Status:    domain.ReceiptStatus(r.URL.Query().Get("status")),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list receipts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReceiptsFromDomain(receipts))
}
