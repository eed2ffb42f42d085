package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Ajay05krish/BankingApplication/internal/domain"
)

// DetailRecorder ships statement details to the transaction service from a
// bounded worker pool. Recording is fire and forget: a successful balance
// mutation is never rolled back or delayed because a detail could not be
// delivered, and a full queue drops the detail with a logged warning rather
// than blocking the mutator.
type DetailRecorder struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	workers    int
	jobs       chan domain.TransactionDetail
	logger     *slog.Logger
	wg         sync.WaitGroup
}

func NewDetailRecorder(baseURL string, workers, queueSize int, callTimeout time.Duration, maxRetries int, logger *slog.Logger) *DetailRecorder {
	return &DetailRecorder{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: callTimeout},
		maxRetries: uint64(maxRetries),
		workers:    workers,
		jobs:       make(chan domain.TransactionDetail, queueSize),
		logger:     logger,
	}
}

// Start launches the worker pool. Workers drain the queue until ctx is
// cancelled; Wait blocks until they exit.
func (r *DetailRecorder) Start(ctx context.Context) {
	r.logger.Info("detail recorder started", "workers", r.workers, "queue_size", cap(r.jobs))

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case detail := <-r.jobs:
					r.deliver(ctx, detail)
				}
			}
		}()
	}
}

func (r *DetailRecorder) Wait() {
	r.wg.Wait()
}

// Record enqueues a detail without blocking. Backpressure is a drop: losing a
// statement line is preferable to stalling a deposit or withdrawal.
func (r *DetailRecorder) Record(detail domain.TransactionDetail) {
	select {
	case r.jobs <- detail:
	default:
		r.logger.Warn("detail queue full, dropping statement entry",
			"account_id", detail.AccountNumber,
			"type", detail.TransactionType,
		)
	}
}

type detailPayload struct {
	AccountNumber   string    `json:"account_number"`
	TransactionType string    `json:"transaction_type"`
	Amount          string    `json:"amount"`
	TransactionDate time.Time `json:"transaction_date"`
	Status          string    `json:"status"`
}

func (r *DetailRecorder) deliver(ctx context.Context, detail domain.TransactionDetail) {
	op := func() error {
		return r.post(ctx, detail)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), r.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		r.logger.Error("failed to deliver statement detail",
			"account_id", detail.AccountNumber,
			"type", detail.TransactionType,
			"error", err,
		)
	}
}

func (r *DetailRecorder) post(ctx context.Context, detail domain.TransactionDetail) error {
	payload := detailPayload{
		AccountNumber:   detail.AccountNumber.String(),
		TransactionType: string(detail.TransactionType),
		Amount:          domain.FormatAmount(detail.Amount),
		TransactionDate: detail.TransactionDate,
		Status:          detail.Status,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("post: marshal: %w", err))
	}

	url := r.baseURL + "/api/transaction/details"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("post: build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("post: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(err)
		}
		return err
	}

	return nil
}
