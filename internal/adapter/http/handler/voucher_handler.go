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

// VoucherService defines the behavior needed by VoucherHandler.
type VoucherService interface {
	CreateVoucher(ctx context.Context, input usecase.CreateVoucherInput) (*domain.Voucher, error)
	ReverseVoucher(ctx context.Context, companyID, userID, voucherID, reason string) (*domain.Voucher, error)
	GetVoucher(ctx context.Context, companyID, id string) (*domain.Voucher, error)
	ListVouchers(ctx context.Context, input usecase.ListVouchersInput) ([]*domain.Voucher, error)
}

// VoucherHandler handles manual voucher HTTP requests.
type VoucherHandler struct {
	voucherUC VoucherService
	metrics   *metrics.Metrics
}

// NewVoucherHandler creates a new VoucherHandler.
func NewVoucherHandler(voucherUC VoucherService, m *metrics.Metrics) *VoucherHandler {
	return &VoucherHandler{voucherUC: voucherUC, metrics: m}
}

// Create posts a manual journal voucher.
func (h *VoucherHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID, userID, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	var req dto.CreateVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	voucher, err := h.voucherUC.CreateVoucher(r.Context(), req.ToUseCaseInput(companyID, userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create voucher", err.Error())
		return
	}

	h.metrics.VouchersPosted.Inc()
	writeJSON(w, http.StatusCreated, dto.VoucherFromDomain(voucher))
}

// Reverse mirrors a posted voucher's entries.
func (h *VoucherHandler) Reverse(w http.ResponseWriter, r *http.Request) {
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

	voucher, err := h.voucherUC.ReverseVoucher(r.Context(), companyID, userID, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reverse voucher", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VoucherFromDomain(voucher))
}

// Get retrieves a voucher with its lines.
func (h *VoucherHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	voucher, err := h.voucherUC.GetVoucher(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get voucher", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VoucherFromDomain(voucher))
}

// List lists vouchers with pagination.
func (h *VoucherHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	vouchers, err := h.voucherUC.ListVouchers(r.Context(), usecase.ListVouchersInput{
		CompanyID: companyID,
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list vouchers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VouchersFromDomain(vouchers))
}
