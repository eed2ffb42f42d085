package bank

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Ajay05krish/BankingApplication/internal/domain"
	"github.com/Ajay05krish/BankingApplication/internal/logging"
)

type accountStore interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, newBalance int64) error
}

type detailRecorder interface {
	Record(detail domain.TransactionDetail)
}

// Service is the balance mutator: the single path through which an account's
// balance changes. A per-account lock is held across the read-modify-write so
// concurrent deposits, withdrawals, and transfer legs against one account are
// linearized; different accounts never contend.
type Service struct {
	accounts accountStore
	recorder detailRecorder
	locker   *accountLocker
}

func NewService(accounts accountStore, recorder detailRecorder) *Service {
	return &Service{
		accounts: accounts,
		recorder: recorder,
		locker:   newAccountLocker(),
	}
}

func (s *Service) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if account.Balance < 0 {
		return nil, fmt.Errorf("CreateAccount: %w", domain.ErrNegativeBalance)
	}
	if !account.AccountType.IsValid() {
		return nil, fmt.Errorf("CreateAccount: %w", domain.ErrInvalidAccountType)
	}

	account.ID = uuid.New()
	account.CreatedAt = time.Now().UTC()

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	log := logging.FromContext(ctx)
	log.Info("account created", "account_id", account.ID, "holder", account.HolderName)
	return account, nil
}

func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	return a, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}
	return accounts, nil
}

// Deposit credits the account and returns the new balance. On success a
// statement detail is handed to the recorder; recording is best effort and
// can neither fail nor delay the deposit.
func (s *Service) Deposit(ctx context.Context, id uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("Deposit: %w", domain.ErrInvalidAmount)
	}

	mu := s.locker.forAccount(id)
	mu.Lock()
	defer mu.Unlock()

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("Deposit: %w", err)
	}

	newBalance := account.Balance + amount
	if err := s.accounts.UpdateBalance(ctx, id, newBalance); err != nil {
		return 0, fmt.Errorf("Deposit: %w", err)
	}

	s.recorder.Record(domain.TransactionDetail{
		AccountNumber:   id,
		TransactionType: domain.DetailTypeDeposit,
		Amount:          amount,
		TransactionDate: time.Now().UTC(),
		Status:          "Success",
	})

	log := logging.FromContext(ctx)
	log.Info("deposit applied", "account_id", id, "amount", amount, "balance", newBalance)
	return newBalance, nil
}

// Withdraw debits the account if funds suffice and returns the new balance.
// The balance check and the debit happen under the same per-account lock, so
// the balance can never go negative.
func (s *Service) Withdraw(ctx context.Context, id uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("Withdraw: %w", domain.ErrInvalidAmount)
	}

	mu := s.locker.forAccount(id)
	mu.Lock()
	defer mu.Unlock()

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("Withdraw: %w", err)
	}

	if account.Balance < amount {
		return 0, fmt.Errorf("Withdraw: %w", domain.ErrInsufficientFunds)
	}

	newBalance := account.Balance - amount
	if err := s.accounts.UpdateBalance(ctx, id, newBalance); err != nil {
		return 0, fmt.Errorf("Withdraw: %w", err)
	}

	s.recorder.Record(domain.TransactionDetail{
		AccountNumber:   id,
		TransactionType: domain.DetailTypeWithdraw,
		Amount:          amount,
		TransactionDate: time.Now().UTC(),
		Status:          "Success",
	})

	log := logging.FromContext(ctx)
	log.Info("withdrawal applied", "account_id", id, "amount", amount, "balance", newBalance)
	return newBalance, nil
}
