package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Ajay05krish/BankingApplication/internal/domain"
)

const transferColumns = `id, from_account, to_account, amount, transaction_type,
	status, reversed, reversal_reason, failure_reason, created_at, updated_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.TransferTransaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transfer_transactions (
			id, from_account, to_account, amount, transaction_type,
			status, reversed, reversal_reason, failure_reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.FromAccount, t.ToAccount, t.Amount, t.TransactionType,
		t.Status, t.Reversed, t.ReversalReason, t.FailureReason, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// UpdateStatus moves a pending transaction to its terminal status. The same
// row is updated in place; no second row is ever written for a transfer.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransferStatus, failureReason *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transfer_transactions
		SET status = $1, failure_reason = $2, updated_at = $3
		WHERE id = $4`,
		status, failureReason, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	return checkUpdated(res, "UpdateStatus")
}

func (r *TransactionRepository) MarkReversed(ctx context.Context, id uuid.UUID, reason *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transfer_transactions
		SET reversed = TRUE, reversal_reason = $1, updated_at = $2
		WHERE id = $3 AND reversed = FALSE`,
		reason, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("MarkReversed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("MarkReversed: rows affected: %w", err)
	}
	if rows == 0 {
		// Zero rows is either an unknown transaction or the reversed guard
		// rejecting a second mark; tell the two apart for the caller.
		var reversed bool
		err := r.db.QueryRowContext(ctx,
			`SELECT reversed FROM transfer_transactions WHERE id = $1`, id,
		).Scan(&reversed)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("MarkReversed: %w", domain.ErrTransactionNotFound)
		}
		if err != nil {
			return fmt.Errorf("MarkReversed: %w", err)
		}
		return fmt.Errorf("MarkReversed: %w", domain.ErrAlreadyReversed)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TransferTransaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transferColumns+` FROM transfer_transactions WHERE id = $1`, id,
	)
	t, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return t, nil
}

// GetByAccount returns every transfer touching the account on either side,
// oldest first.
func (r *TransactionRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.TransferTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transferColumns+` FROM transfer_transactions
		WHERE from_account = $1 OR to_account = $1
		ORDER BY created_at`, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByAccount: %w", err)
	}
	defer rows.Close()

	var transfers []domain.TransferTransaction
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByAccount: scan: %w", err)
		}
		transfers = append(transfers, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByAccount: rows: %w", err)
	}
	return transfers, nil
}

func checkUpdated(res sql.Result, op string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrTransactionNotFound)
	}
	return nil
}

func scanTransfer(s scanner) (*domain.TransferTransaction, error) {
	var t domain.TransferTransaction
	err := s.Scan(
		&t.ID, &t.FromAccount, &t.ToAccount, &t.Amount, &t.TransactionType,
		&t.Status, &t.Reversed, &t.ReversalReason, &t.FailureReason,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
