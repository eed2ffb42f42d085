package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Ajay05krish/BankingApplication/internal/domain"
	"github.com/Ajay05krish/BankingApplication/internal/service"
)

type transactionService interface {
	Transfer(ctx context.Context, fromID, toID uuid.UUID, amount int64) (*service.TransferOutcome, error)
	Reverse(ctx context.Context, transactionID uuid.UUID, reason string) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.TransferTransaction, error)
	History(ctx context.Context, accountID uuid.UUID) ([]domain.TransferTransaction, error)
	Statement(ctx context.Context, accountID uuid.UUID) ([]domain.TransactionDetail, error)
	RecordDetail(ctx context.Context, d *domain.TransactionDetail) error
}

type TransactionHandler struct {
	transactions transactionService
}

func NewTransactionHandler(transactions transactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

type transferRequest struct {
	FromAccount string `json:"from_account"`
	ToAccount   string `json:"to_account"`
	Amount      string `json:"amount"`
}

type transferOutcomeResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var errs []FieldError
	fromID, err := uuid.Parse(req.FromAccount)
	if err != nil {
		errs = append(errs, FieldError{Field: "from_account", Message: "must be a UUID"})
	}
	toID, err := uuid.Parse(req.ToAccount)
	if err != nil {
		errs = append(errs, FieldError{Field: "to_account", Message: "must be a UUID"})
	}
	amount, err := domain.MinorUnits(req.Amount)
	if err != nil {
		errs = append(errs, FieldError{Field: "amount", Message: "must be a decimal amount"})
	}
	if len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	outcome, err := h.transactions.Transfer(r.Context(), fromID, toID, amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	// A failed leg is a terminal outcome for the caller, not a fault.
	RespondSuccess(w, http.StatusOK, transferOutcomeResponse{
		TransactionID: outcome.TransactionID.String(),
		Status:        string(outcome.Status),
		Message:       outcome.Message,
	})
}

type reverseRequest struct {
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason"`
}

func (h *TransactionHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	var req reverseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	transactionID, err := uuid.Parse(req.TransactionID)
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "transaction_id", Message: "must be a UUID"}})
		return
	}

	if err := h.transactions.Reverse(r.Context(), transactionID, req.Reason); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]any{
		"transaction_id": transactionID.String(),
		"reversed":       true,
	})
}

type transferTransactionResponse struct {
	ID              string    `json:"id"`
	FromAccount     string    `json:"from_account"`
	ToAccount       string    `json:"to_account"`
	Amount          string    `json:"amount"`
	TransactionType string    `json:"transaction_type"`
	Status          string    `json:"status"`
	Reversed        bool      `json:"reversed"`
	ReversalReason  *string   `json:"reversal_reason,omitempty"`
	FailureReason   *string   `json:"failure_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func toTransferResponse(t *domain.TransferTransaction) transferTransactionResponse {
	return transferTransactionResponse{
		ID:              t.ID.String(),
		FromAccount:     t.FromAccount.String(),
		ToAccount:       t.ToAccount.String(),
		Amount:          domain.FormatAmount(t.Amount),
		TransactionType: t.TransactionType,
		Status:          string(t.Status),
		Reversed:        t.Reversed,
		ReversalReason:  t.ReversalReason,
		FailureReason:   t.FailureReason,
		CreatedAt:       t.CreatedAt,
	}
}

func (h *TransactionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	t, err := h.transactions.GetTransaction(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toTransferResponse(t))
}

func (h *TransactionHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseIDParam(w, r, "accountNumber")
	if !ok {
		return
	}

	transfers, err := h.transactions.History(r.Context(), accountID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	out := make([]transferTransactionResponse, 0, len(transfers))
	for i := range transfers {
		out = append(out, toTransferResponse(&transfers[i]))
	}
	RespondSuccess(w, http.StatusOK, out)
}

type transactionDetailResponse struct {
	ID              int64     `json:"id"`
	AccountNumber   string    `json:"account_number"`
	TransactionType string    `json:"transaction_type"`
	Amount          string    `json:"amount"`
	TransactionDate time.Time `json:"transaction_date"`
	Status          string    `json:"status"`
}

func (h *TransactionHandler) Statement(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseIDParam(w, r, "accountNumber")
	if !ok {
		return
	}

	details, err := h.transactions.Statement(r.Context(), accountID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	out := make([]transactionDetailResponse, 0, len(details))
	for _, d := range details {
		out = append(out, transactionDetailResponse{
			ID:              d.ID,
			AccountNumber:   d.AccountNumber.String(),
			TransactionType: string(d.TransactionType),
			Amount:          domain.FormatAmount(d.Amount),
			TransactionDate: d.TransactionDate,
			Status:          d.Status,
		})
	}
	RespondSuccess(w, http.StatusOK, out)
}

type recordDetailRequest struct {
	AccountNumber   string    `json:"account_number"`
	TransactionType string    `json:"transaction_type"`
	Amount          string    `json:"amount"`
	TransactionDate time.Time `json:"transaction_date"`
	Status          string    `json:"status"`
}

// RecordDetail accepts statement lines from the bank service's detail
// recorder.
func (h *TransactionHandler) RecordDetail(w http.ResponseWriter, r *http.Request) {
	var req recordDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var errs []FieldError
	accountID, err := uuid.Parse(req.AccountNumber)
	if err != nil {
		errs = append(errs, FieldError{Field: "account_number", Message: "must be a UUID"})
	}
	detailType := domain.DetailType(req.TransactionType)
	if detailType != domain.DetailTypeDeposit && detailType != domain.DetailTypeWithdraw {
		errs = append(errs, FieldError{Field: "transaction_type", Message: "must be Deposit or Withdraw"})
	}
	amount, err := domain.MinorUnits(req.Amount)
	if err != nil {
		errs = append(errs, FieldError{Field: "amount", Message: "must be a decimal amount"})
	}
	if len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	detail := &domain.TransactionDetail{
		AccountNumber:   accountID,
		TransactionType: detailType,
		Amount:          amount,
		TransactionDate: req.TransactionDate,
		Status:          req.Status,
	}
	if err := h.transactions.RecordDetail(r.Context(), detail); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, map[string]int64{"id": detail.ID})
}
