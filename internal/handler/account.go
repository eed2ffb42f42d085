package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Ajay05krish/BankingApplication/internal/domain"
)

type bankService interface {
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	Deposit(ctx context.Context, id uuid.UUID, amount int64) (int64, error)
	Withdraw(ctx context.Context, id uuid.UUID, amount int64) (int64, error)
}

type AccountHandler struct {
	bank bankService
}

func NewAccountHandler(bank bankService) *AccountHandler {
	return &AccountHandler{bank: bank}
}

type createAccountRequest struct {
	HolderName    string  `json:"holder_name"`
	AccountType   string  `json:"account_type"`
	Balance       string  `json:"balance"`
	PanCardNumber *string `json:"pan_card_number"`
	Address       *string `json:"address"`
}

func (r createAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.HolderName == "" {
		errs = append(errs, FieldError{Field: "holder_name", Message: "required"})
	}
	if !domain.AccountType(r.AccountType).IsValid() {
		errs = append(errs, FieldError{Field: "account_type", Message: "must be savings or current"})
	}
	if r.Balance == "" {
		errs = append(errs, FieldError{Field: "balance", Message: "required"})
	}
	return errs
}

type accountResponse struct {
	ID          string    `json:"id"`
	HolderName  string    `json:"holder_name"`
	AccountType string    `json:"account_type"`
	Balance     string    `json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
}

type balanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

type amountRequest struct {
	Amount string `json:"amount"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:          a.ID.String(),
		HolderName:  a.HolderName,
		AccountType: string(a.AccountType),
		Balance:     domain.FormatAmount(a.Balance),
		CreatedAt:   a.CreatedAt,
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	balance, err := domain.MinorUnits(req.Balance)
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "balance", Message: "must be a decimal amount"}})
		return
	}

	account, err := h.bank.CreateAccount(r.Context(), &domain.Account{
		HolderName:    req.HolderName,
		AccountType:   domain.AccountType(req.AccountType),
		Balance:       balance,
		PanCardNumber: req.PanCardNumber,
		Address:       req.Address,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountResponse(account))
}

func (h *AccountHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	account, err := h.bank.GetAccount(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountResponse(account))
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.bank.ListAccounts(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountResponse(&accounts[i]))
	}
	RespondSuccess(w, http.StatusOK, out)
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.mutateBalance(w, r, h.bank.Deposit)
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.mutateBalance(w, r, h.bank.Withdraw)
}

func (h *AccountHandler) mutateBalance(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID, int64) (int64, error)) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	amount, err := domain.MinorUnits(req.Amount)
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "amount", Message: "must be a decimal amount"}})
		return
	}

	newBalance, err := op(r.Context(), id, amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, balanceResponse{
		AccountID: id.String(),
		Balance:   domain.FormatAmount(newBalance),
	})
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: name, Message: "must be a UUID"}})
		return uuid.Nil, false
	}
	return id, true
}
