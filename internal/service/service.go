package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Ajay05krish/BankingApplication/internal/domain"
)

type transactionRepo interface {
	Create(ctx context.Context, t *domain.TransferTransaction) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransferStatus, failureReason *string) error
	MarkReversed(ctx context.Context, id uuid.UUID, reason *string) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TransferTransaction, error)
	GetByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.TransferTransaction, error)
}

type detailRepo interface {
	Create(ctx context.Context, d *domain.TransactionDetail) error
	GetByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.TransactionDetail, error)
}

// ledgerClient is the remote account store: the balances themselves live in
// the bank service and are only reachable through these calls.
type ledgerClient interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	Withdraw(ctx context.Context, id uuid.UUID, amount int64) (int64, error)
	Deposit(ctx context.Context, id uuid.UUID, amount int64) (int64, error)
}

// Service hosts the transfer orchestrator and the reversal engine, and fronts
// the transaction ledger for reads.
type Service struct {
	transactions transactionRepo
	details      detailRepo
	ledger       ledgerClient
}

func NewService(transactions transactionRepo, details detailRepo, ledger ledgerClient) *Service {
	return &Service{
		transactions: transactions,
		details:      details,
		ledger:       ledger,
	}
}

func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.TransferTransaction, error) {
	t, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetTransaction: %w", err)
	}
	return t, nil
}

// History lists every transfer touching the account, in insertion order.
func (s *Service) History(ctx context.Context, accountID uuid.UUID) ([]domain.TransferTransaction, error) {
	transfers, err := s.transactions.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}
	return transfers, nil
}

// Statement lists the account's deposit/withdraw detail lines, in insertion
// order. Read-only passthrough over the detail store.
func (s *Service) Statement(ctx context.Context, accountID uuid.UUID) ([]domain.TransactionDetail, error) {
	details, err := s.details.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("Statement: %w", err)
	}
	return details, nil
}

// RecordDetail ingests a statement line shipped over by the bank service's
// detail recorder.
func (s *Service) RecordDetail(ctx context.Context, d *domain.TransactionDetail) error {
	if d.Amount <= 0 {
		return fmt.Errorf("RecordDetail: %w", domain.ErrInvalidAmount)
	}
	if err := s.details.Create(ctx, d); err != nil {
		return fmt.Errorf("RecordDetail: %w", err)
	}
	return nil
}
