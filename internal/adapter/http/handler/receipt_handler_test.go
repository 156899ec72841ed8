package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kovai/pawnbook/internal/adapter/http/dto"
	"github.com/kovai/pawnbook/internal/domain"
	"github.com/kovai/pawnbook/internal/usecase"
)

type receiptServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateReceiptInput) (*domain.Receipt, error)
	updateFn func(ctx context.Context, input usecase.UpdateReceiptInput) (*domain.Receipt, error)
	postFn   func(ctx context.Context, companyID, userID, receiptID string) (*domain.Receipt, error)
	voidFn   func(ctx context.Context, companyID, userID, receiptID, reason string) (*domain.Receipt, error)
	deleteFn func(ctx context.Context, companyID, userID, receiptID string) error
	getFn    func(ctx context.Context, companyID, id string) (*domain.Receipt, error)
	listFn   func(ctx context.Context, input usecase.ListReceiptsInput) ([]*domain.Receipt, error)
}

func (s *receiptServiceStub) CreateDraftReceipt(ctx context.Context, input usecase.CreateReceiptInput) (*domain.Receipt, error) {
	return s.createFn(ctx, input)
}

func (s *receiptServiceStub) UpdateDraftReceipt(ctx context.Context, input usecase.UpdateReceiptInput) (*domain.Receipt, error) {
	return s.updateFn(ctx, input)
}

func (s *receiptServiceStub) PostReceipt(ctx context.Context, companyID, userID, receiptID string) (*domain.Receipt, error) {
	return s.postFn(ctx, companyID, userID, receiptID)
}

func (s *receiptServiceStub) VoidReceipt(ctx context.Context, companyID, userID, receiptID, reason string) (*domain.Receipt, error) {
	return s.voidFn(ctx, companyID, userID, receiptID, reason)
}

func (s *receiptServiceStub) DeleteDraftReceipt(ctx context.Context, companyID, userID, receiptID string) error {
	return s.deleteFn(ctx, companyID, userID, receiptID)
}

func (s *receiptServiceStub) GetReceipt(ctx context.Context, companyID, id string) (*domain.Receipt, error) {
	return s.getFn(ctx, companyID, id)
}

func (s *receiptServiceStub) ListReceipts(ctx context.Context, input usecase.ListReceiptsInput) ([]*domain.Receipt, error) {
	return s.listFn(ctx, input)
}

func TestReceiptHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateReceiptInput
	handler := NewReceiptHandler(&receiptServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateReceiptInput) (*domain.Receipt, error) {
			captured = input
			return &domain.Receipt{ID: "rcpt-1", Status: domain.ReceiptStatusDraft}, nil
		},
	}, testMetrics)

	body, _ := json.Marshal(dto.CreateReceiptRequest{
		CustomerID:  "cust-1",
		PaymentMode: "Cash",
		Items: []dto.ReceiptItemRequest{
			{
				PledgeID:      "pl-1",
				PaidPrincipal: decimal.NewFromInt(1000),
				PaidInterest:  decimal.NewFromInt(150),
				PaymentType:   "Partial",
			},
		},
	})

	req := withScope(httptest.NewRequest(http.MethodPost, "/receipts", bytes.NewReader(body)), "co-1", "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.CompanyID != "co-1" || captured.UserID != "user-1" {
		t.Fatalf("expected scope to propagate, got %+v", captured)
	}
	if len(captured.Items) != 1 || captured.Items[0].PaymentType != domain.PaymentPartial {
		t.Fatalf("expected item input to convert, got %+v", captured.Items)
	}
}

func TestReceiptHandler_Post_Success(t *testing.T) {
	handler := NewReceiptHandler(&receiptServiceStub{
		postFn: func(ctx context.Context, companyID, userID, receiptID string) (*domain.Receipt, error) {
			if receiptID != "rcpt-1" {
				t.Fatalf("expected receipt rcpt-1, got %s", receiptID)
			}
			return &domain.Receipt{ID: receiptID, Status: domain.ReceiptStatusPosted}, nil
		},
	}, testMetrics)

	req := withScope(httptest.NewRequest(http.MethodPost, "/receipts/rcpt-1/post", nil), "co-1", "user-1")
	req = setChiURLParam(req, "id", "rcpt-1")
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ReceiptResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "Posted" {
		t.Fatalf("expected Posted status, got %s", resp.Status)
	}
}

func TestReceiptHandler_Post_NotDraft(t *testing.T) {
	handler := NewReceiptHandler(&receiptServiceStub{
		postFn: func(ctx context.Context, companyID, userID, receiptID string) (*domain.Receipt, error) {
			return nil, domain.ErrReceiptNotDraft
		},
	}, testMetrics)

	req := withScope(httptest.NewRequest(http.MethodPost, "/receipts/rcpt-1/post", nil), "co-1", "user-1")
	req = setChiURLParam(req, "id", "rcpt-1")
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestReceiptHandler_Void_PassesReason(t *testing.T) {
	var gotReason string
	handler := NewReceiptHandler(&receiptServiceStub{
		voidFn: func(ctx context.Context, companyID, userID, receiptID, reason string) (*domain.Receipt, error) {
			gotReason = reason
			return &domain.Receipt{ID: receiptID, Status: domain.ReceiptStatusVoid}, nil
		},
	}, testMetrics)

	body, _ := json.Marshal(dto.VoidRequest{Reason: "posted against wrong pledge"})
	req := withScope(httptest.NewRequest(http.MethodPost, "/receipts/rcpt-1/void", bytes.NewReader(body)), "co-1", "user-1")
	req = setChiURLParam(req, "id", "rcpt-1")
	rec := httptest.NewRecorder()

	handler.Void(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotReason != "posted against wrong pledge" {
		t.Fatalf("expected reason to propagate, got %q", gotReason)
	}
}

func TestReceiptHandler_Get_NotFound(t *testing.T) {
	handler := NewReceiptHandler(&receiptServiceStub{
		getFn: func(ctx context.Context, companyID, id string) (*domain.Receipt, error) {
			return nil, domain.ErrReceiptNotFound
		},
	}, testMetrics)

	req := withScope(httptest.NewRequest(http.MethodGet, "/receipts/missing", nil), "co-1", "")
	req = setChiURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestReceiptHandler_List_StatusFilter(t *testing.T) {
	handler := NewReceiptHandler(&receiptServiceStub{
		listFn: func(ctx context.Context, input usecase.ListReceiptsInput) ([]*domain.Receipt, error) {
			if input.Status != domain.ReceiptStatusPosted {
				t.Fatalf("expected Posted filter, got %q", input.Status)
			}
			return []*domain.Receipt{{ID: "rcpt-1"}}, nil
		},
	}, testMetrics)

	req := withScope(httptest.NewRequest(http.MethodGet, "/receipts?status=Posted", nil), "co-1", "")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
