package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ajay05krish/BankingApplication/internal/domain"
	"github.com/Ajay05krish/BankingApplication/internal/service"
)

type fakeTransactionService struct {
	transferOutcome *service.TransferOutcome
	transferErr     error
	reverseErr      error
	transaction     *domain.TransferTransaction
	details         []domain.TransactionDetail
	recorded        []domain.TransactionDetail
}

func (s *fakeTransactionService) Transfer(ctx context.Context, fromID, toID uuid.UUID, amount int64) (*service.TransferOutcome, error) {
	if s.transferErr != nil {
		return nil, s.transferErr
	}
	return s.transferOutcome, nil
}

func (s *fakeTransactionService) Reverse(ctx context.Context, transactionID uuid.UUID, reason string) error {
	return s.reverseErr
}

func (s *fakeTransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.TransferTransaction, error) {
	if s.transaction == nil {
		return nil, domain.ErrTransactionNotFound
	}
	return s.transaction, nil
}

func (s *fakeTransactionService) History(ctx context.Context, accountID uuid.UUID) ([]domain.TransferTransaction, error) {
	if s.transaction == nil {
		return nil, nil
	}
	return []domain.TransferTransaction{*s.transaction}, nil
}

func (s *fakeTransactionService) Statement(ctx context.Context, accountID uuid.UUID) ([]domain.TransactionDetail, error) {
	return s.details, nil
}

func (s *fakeTransactionService) RecordDetail(ctx context.Context, d *domain.TransactionDetail) error {
	d.ID = int64(len(s.recorded) + 1)
	s.recorded = append(s.recorded, *d)
	return nil
}

func TestTransactionHandler_Transfer(t *testing.T) {
	txnID := uuid.New()
	svc := &fakeTransactionService{
		transferOutcome: &service.TransferOutcome{
			TransactionID: txnID,
			Status:        domain.TransferStatusSuccess,
			Message:       "Transfer completed successfully.",
		},
	}
	h := NewTransactionHandler(svc)

	body := `{"from_account":"` + uuid.NewString() + `","to_account":"` + uuid.NewString() + `","amount":"40.00"}`
	rec := httptest.NewRecorder()
	h.Transfer(rec, httptest.NewRequest(http.MethodPut, "/api/transaction/transfer", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, txnID.String(), data["transaction_id"])
	assert.Equal(t, "success", data["status"])
}

func TestTransactionHandler_TransferFailedLegIsStillOK(t *testing.T) {
	svc := &fakeTransactionService{
		transferOutcome: &service.TransferOutcome{
			TransactionID: uuid.New(),
			Status:        domain.TransferStatusFailed,
			Message:       "Transfer failed: withdraw leg: insufficient funds",
		},
	}
	h := NewTransactionHandler(svc)

	body := `{"from_account":"` + uuid.NewString() + `","to_account":"` + uuid.NewString() + `","amount":"40.00"}`
	rec := httptest.NewRecorder()
	h.Transfer(rec, httptest.NewRequest(http.MethodPut, "/api/transaction/transfer", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, "a failed transfer is an outcome, not an HTTP error")
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "failed", data["status"])
	assert.Contains(t, data["message"], "Transfer failed")
}

func TestTransactionHandler_TransferErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown account",
			body:       `{"from_account":"` + uuid.NewString() + `","to_account":"` + uuid.NewString() + `","amount":"40.00"}`,
			svcErr:     domain.ErrAccountNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "ACCOUNT_NOT_FOUND",
		},
		{
			name:       "account store unreachable",
			body:       `{"from_account":"` + uuid.NewString() + `","to_account":"` + uuid.NewString() + `","amount":"40.00"}`,
			svcErr:     domain.ErrRemoteCall,
			wantStatus: http.StatusBadGateway,
			wantCode:   "ACCOUNT_STORE_UNAVAILABLE",
		},
		{
			name:       "malformed account id",
			body:       `{"from_account":"nope","to_account":"` + uuid.NewString() + `","amount":"40.00"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "malformed amount",
			body:       `{"from_account":"` + uuid.NewString() + `","to_account":"` + uuid.NewString() + `","amount":"4.005"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewTransactionHandler(&fakeTransactionService{transferErr: tc.svcErr})

			rec := httptest.NewRecorder()
			h.Transfer(rec, httptest.NewRequest(http.MethodPut, "/api/transaction/transfer", strings.NewReader(tc.body)))

			require.Equal(t, tc.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestTransactionHandler_Reverse(t *testing.T) {
	tests := []struct {
		name       string
		reverseErr error
		wantStatus int
		wantCode   string
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "already reversed", reverseErr: domain.ErrAlreadyReversed, wantStatus: http.StatusConflict, wantCode: "ALREADY_REVERSED"},
		{name: "not reversible", reverseErr: domain.ErrNotReversible, wantStatus: http.StatusUnprocessableEntity, wantCode: "NOT_REVERSIBLE"},
		{name: "unknown transaction", reverseErr: domain.ErrTransactionNotFound, wantStatus: http.StatusNotFound, wantCode: "TRANSACTION_NOT_FOUND"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewTransactionHandler(&fakeTransactionService{reverseErr: tc.reverseErr})

			body := `{"transaction_id":"` + uuid.NewString() + `","reason":"customer dispute"}`
			rec := httptest.NewRecorder()
			h.Reverse(rec, httptest.NewRequest(http.MethodPut, "/api/transaction/reverse", strings.NewReader(body)))

			require.Equal(t, tc.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			if tc.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tc.wantCode, resp.Error.Code)
				return
			}
			data := resp.Data.(map[string]any)
			assert.Equal(t, true, data["reversed"])
		})
	}
}

func TestTransactionHandler_GetByID(t *testing.T) {
	reason := "deposit leg: account store rejected request"
	txn := &domain.TransferTransaction{
		ID:              uuid.New(),
		FromAccount:     uuid.New(),
		ToAccount:       uuid.New(),
		Amount:          4000,
		TransactionType: domain.TransferTypeAccountToAccount,
		Status:          domain.TransferStatusFailed,
		FailureReason:   &reason,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	h := NewTransactionHandler(&fakeTransactionService{transaction: txn})

	req := httptest.NewRequest(http.MethodGet, "/api/transaction/x", nil)
	req.SetPathValue("id", txn.ID.String())
	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "40.00", data["amount"])
	assert.Equal(t, "failed", data["status"])
	assert.Equal(t, reason, data["failure_reason"])
}

func TestTransactionHandler_RecordDetail(t *testing.T) {
	svc := &fakeTransactionService{}
	h := NewTransactionHandler(svc)

	body := `{"account_number":"` + uuid.NewString() + `","transaction_type":"Deposit","amount":"25.00","status":"Success"}`
	rec := httptest.NewRecorder()
	h.RecordDetail(rec, httptest.NewRequest(http.MethodPost, "/api/transaction/details", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.recorded, 1)
	assert.Equal(t, int64(2500), svc.recorded[0].Amount)
	assert.Equal(t, domain.DetailTypeDeposit, svc.recorded[0].TransactionType)
}

func TestTransactionHandler_RecordDetailValidation(t *testing.T) {
	h := NewTransactionHandler(&fakeTransactionService{})

	body := `{"account_number":"` + uuid.NewString() + `","transaction_type":"Transfer","amount":"25.00"}`
	rec := httptest.NewRecorder()
	h.RecordDetail(rec, httptest.NewRequest(http.MethodPost, "/api/transaction/details", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
}
