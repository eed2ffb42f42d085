package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Ajay05krish/BankingApplication/internal/domain"
	"github.com/Ajay05krish/BankingApplication/internal/logging"
)

type TransferOutcome struct {
	TransactionID uuid.UUID
	Status        domain.TransferStatus
	Message       string
}

// Transfer moves amount from one account to another as two independent remote
// calls against the account store, with no distributed transaction between
// them. Both legs are dispatched concurrently and both outcomes are awaited
// before the status decision: both succeed means success, either fails means
// failed. A successful withdraw paired with a failed deposit leaves the source
// debited with no matching credit; that window is deliberate and is only
// recoverable later through Reverse, never compensated here.
//
// A failed leg is an outcome, not an error: the error return covers
// validation, unknown accounts, and ledger persistence failures only.
func (s *Service) Transfer(ctx context.Context, fromID, toID uuid.UUID, amount int64) (*TransferOutcome, error) {
	log := logging.FromContext(ctx)

	if amount <= 0 {
		return nil, fmt.Errorf("Transfer: %w", domain.ErrInvalidAmount)
	}

	// Both endpoints must exist before a record of intent is written.
	// Self-transfer is permitted; the two legs still run independently.
	if err := s.resolveAccounts(ctx, fromID, toID); err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	now := time.Now().UTC()
	txn := &domain.TransferTransaction{
		ID:              uuid.New(),
		FromAccount:     fromID,
		ToAccount:       toID,
		Amount:          amount,
		TransactionType: domain.TransferTypeAccountToAccount,
		Status:          domain.TransferStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("Transfer: create record: %w", err)
	}

	log.Info("transfer initiated",
		"transaction_id", txn.ID,
		"from_account", fromID,
		"to_account", toID,
		"amount", amount,
	)

	// Once the legs are in flight a caller-side cancellation must not
	// un-issue them, so they run on a context detached from cancellation.
	// Per-call timeouts are enforced by the ledger client.
	legCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.Go(func() error {
		if _, err := s.ledger.Withdraw(legCtx, fromID, amount); err != nil {
			return fmt.Errorf("withdraw leg: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := s.ledger.Deposit(legCtx, toID, amount); err != nil {
			return fmt.Errorf("deposit leg: %w", err)
		}
		return nil
	})

	legErr := g.Wait()

	status := domain.TransferStatusSuccess
	var failureReason *string
	message := "Transfer completed successfully."
	if legErr != nil {
		status = domain.TransferStatusFailed
		reason := legErr.Error()
		failureReason = &reason
		message = "Transfer failed: " + reason

		log.Error("transfer leg failed", "transaction_id", txn.ID, "error", legErr)
	}

	if err := s.transactions.UpdateStatus(legCtx, txn.ID, status, failureReason); err != nil {
		return nil, fmt.Errorf("Transfer: persist status: %w", err)
	}

	if legErr == nil {
		log.Info("transfer completed", "transaction_id", txn.ID)
	}

	return &TransferOutcome{
		TransactionID: txn.ID,
		Status:        status,
		Message:       message,
	}, nil
}

func (s *Service) resolveAccounts(ctx context.Context, fromID, toID uuid.UUID) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := s.ledger.GetAccount(gctx, fromID); err != nil {
			return fmt.Errorf("resolveAccounts: source %s: %w", fromID, err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := s.ledger.GetAccount(gctx, toID); err != nil {
			return fmt.Errorf("resolveAccounts: destination %s: %w", toID, err)
		}
		return nil
	})
	return g.Wait()
}
