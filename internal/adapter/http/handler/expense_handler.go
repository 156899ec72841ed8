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

// ExpenseService defines the behavior needed by ExpenseHandler.
type ExpenseService interface {
	CreateExpense(ctx context.Context, input usecase.CreateExpenseInput) (*domain.ExpenseTransaction, error)
	DeleteExpense(ctx context.Context, companyID, userID, id string) error
	GetExpense(ctx context.Context, companyID, id string) (*domain.ExpenseTransaction, error)
	ListExpenses(ctx context.Context, input usecase.ListExpensesInput) ([]*domain.ExpenseTransaction, error)
}

// ExpenseHandler handles expense HTTP requests.
type ExpenseHandler struct {
	expenseUC ExpenseService
	metrics   *metrics.Metrics
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC ExpenseService, m *metrics.Metrics) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC, metrics: m}
}

// Create records an expense and posts both legs atomically.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID, userID, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	var req dto.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	exp, err := h.expenseUC.CreateExpense(r.Context(), req.ToUseCaseInput(companyID, userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create expense", err.Error())
		return
	}

	h.metrics.ExpensesRecorded.Inc()
	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(exp))
}

// Delete reverses an expense's entries and removes the record.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	companyID, userID, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	if err := h.expenseUC.DeleteExpense(r.Context(), companyID, userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, mapDomainError(err), "failed to delete expense", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get retrieves an expense by ID.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	exp, err := h.expenseUC.GetExpense(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get expense", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(exp))
}

// List lists expenses within an optional date range. Dates are RFC 3339
// query parameters "from" and "to".
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := scope(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing company", "")
		return
	}

	expenses, err := h.expenseUC.ListExpenses(r.Context(), usecase.ListExpensesInput{
		CompanyID: companyID,
		From:      parseTimeQuery(r, "from"),
		To:        parseTimeQuery(r, "to"),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list expenses", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpensesFromDomain(expenses))
}
