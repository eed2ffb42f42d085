package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/Ajay05krish/BankingApplication/internal/domain"
	"github.com/Ajay05krish/BankingApplication/internal/logging"
)

// BankClient reaches the account store over HTTP. Every call carries a
// bounded timeout; transport errors and 5xx responses are retried with
// exponential backoff up to the retry budget, 4xx responses are mapped to
// domain errors and never retried.
//
// Whether the store's withdraw/deposit are safe to repeat is not something
// this client assumes: each mutating call carries one client-generated
// Idempotency-Key, reused across its retries, and the bank service replays
// the original response when it sees a key again.
type BankClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
}

func NewBankClient(baseURL string, callTimeout time.Duration, maxRetries int) *BankClient {
	return &BankClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: callTimeout},
		maxRetries: uint64(maxRetries),
	}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type accountPayload struct {
	ID          string    `json:"id"`
	HolderName  string    `json:"holder_name"`
	AccountType string    `json:"account_type"`
	Balance     string    `json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
}

type balancePayload struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

type amountPayload struct {
	Amount string `json:"amount"`
}

func (c *BankClient) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var data accountPayload
	path := fmt.Sprintf("/account/%s", id)
	if err := c.call(ctx, http.MethodGet, path, nil, "", &data); err != nil {
		return nil, fmt.Errorf("GetAccount: %w", err)
	}

	accountID, err := uuid.Parse(data.ID)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: parse id: %w", err)
	}
	balance, err := domain.MinorUnits(data.Balance)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: parse balance: %w", err)
	}

	return &domain.Account{
		ID:          accountID,
		HolderName:  data.HolderName,
		AccountType: domain.AccountType(data.AccountType),
		Balance:     balance,
		CreatedAt:   data.CreatedAt,
	}, nil
}

func (c *BankClient) Withdraw(ctx context.Context, id uuid.UUID, amount int64) (int64, error) {
	balance, err := c.mutate(ctx, id, "withdraw", amount)
	if err != nil {
		return 0, fmt.Errorf("Withdraw: %w", err)
	}
	return balance, nil
}

func (c *BankClient) Deposit(ctx context.Context, id uuid.UUID, amount int64) (int64, error) {
	balance, err := c.mutate(ctx, id, "deposit", amount)
	if err != nil {
		return 0, fmt.Errorf("Deposit: %w", err)
	}
	return balance, nil
}

func (c *BankClient) mutate(ctx context.Context, id uuid.UUID, op string, amount int64) (int64, error) {
	body := amountPayload{Amount: domain.FormatAmount(amount)}
	path := fmt.Sprintf("/account/%s/%s", id, op)

	var data balancePayload
	if err := c.call(ctx, http.MethodPut, path, body, uuid.NewString(), &data); err != nil {
		return 0, err
	}

	balance, err := domain.MinorUnits(data.Balance)
	if err != nil {
		return 0, fmt.Errorf("parse balance: %w", err)
	}
	return balance, nil
}

// call performs one logical request with the retry policy applied. The same
// idempotency key is sent on every attempt of a mutating call.
func (c *BankClient) call(ctx context.Context, method, path string, body any, idempotencyKey string, out any) error {
	log := logging.FromContext(ctx)

	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("call: marshal: %w", err)
		}
	}

	attempt := 0
	op := func() error {
		attempt++
		return c.attempt(ctx, method, path, encoded, idempotencyKey, out)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	err := backoff.Retry(op, policy)
	if err == nil {
		return nil
	}

	if mapped := mapAPIError(err); mapped != nil {
		return mapped
	}

	log.Error("account store call exhausted retries",
		"method", method,
		"path", path,
		"attempts", attempt,
		"error", err,
	)
	return fmt.Errorf("%w: %v", domain.ErrRemoteCall, err)
}

func (c *BankClient) attempt(ctx context.Context, method, path string, body []byte, idempotencyKey string, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("attempt: build request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("attempt: send: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("attempt: read body: %w", err)
	}

	var envelope apiEnvelope
	if jsonErr := json.Unmarshal(raw, &envelope); jsonErr != nil {
		if resp.StatusCode >= 500 {
			return fmt.Errorf("attempt: status %d: %s", resp.StatusCode, string(raw))
		}
		return backoff.Permanent(fmt.Errorf("attempt: status %d: malformed response: %w", resp.StatusCode, jsonErr))
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("attempt: status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		code := ""
		if envelope.Error != nil {
			code = envelope.Error.Code
		}
		return backoff.Permanent(&remoteAPIError{status: resp.StatusCode, code: code})
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return backoff.Permanent(fmt.Errorf("attempt: decode data: %w", err))
		}
	}
	return nil
}

type remoteAPIError struct {
	status int
	code   string
}

func (e *remoteAPIError) Error() string {
	return fmt.Sprintf("account store rejected request: status %d code %s", e.status, e.code)
}

func mapAPIError(err error) error {
	var apiErr *remoteAPIError
	if !errors.As(err, &apiErr) {
		return nil
	}

	switch apiErr.code {
	case "ACCOUNT_NOT_FOUND", "RESOURCE_NOT_FOUND":
		return domain.ErrAccountNotFound
	case "INSUFFICIENT_FUNDS":
		return domain.ErrInsufficientFunds
	case "INVALID_AMOUNT":
		return domain.ErrInvalidAmount
	default:
		return fmt.Errorf("%w: %v", domain.ErrRemoteCall, apiErr)
	}
}
