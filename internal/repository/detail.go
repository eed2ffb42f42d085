package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Ajay05krish/BankingApplication/internal/domain"
)

const detailColumns = `id, account_number, transaction_type, amount,
	transaction_date, status`

// DetailRepository stores per-account statement lines. Rows are append-only;
// the serial id preserves insertion order for statements.
type DetailRepository struct {
	db *sql.DB
}

func NewDetailRepository(db *sql.DB) *DetailRepository {
	return &DetailRepository{db: db}
}

func (r *DetailRepository) Create(ctx context.Context, d *domain.TransactionDetail) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO transaction_details (
			account_number, transaction_type, amount, transaction_date, status
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		d.AccountNumber, d.TransactionType, d.Amount, d.TransactionDate, d.Status,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *DetailRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.TransactionDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+detailColumns+` FROM transaction_details
		WHERE account_number = $1
		ORDER BY id`, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByAccount: %w", err)
	}
	defer rows.Close()

	var details []domain.TransactionDetail
	for rows.Next() {
		var d domain.TransactionDetail
		if err := scanDetail(rows, &d); err != nil {
			return nil, fmt.Errorf("GetByAccount: scan: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByAccount: rows: %w", err)
	}
	return details, nil
}

func scanDetail(s scanner, d *domain.TransactionDetail) error {
	return s.Scan(
		&d.ID, &d.AccountNumber, &d.TransactionType, &d.Amount,
		&d.TransactionDate, &d.Status,
	)
}
