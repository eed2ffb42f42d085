package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/Ajay05krish/BankingApplication/internal/domain"
	"github.com/google/uuid"
)

func SeedTestAccount(t *testing.T, db *sql.DB, holderName string, balance int64) *domain.Account {
	t.Helper()

	a := &domain.Account{
		ID:          uuid.New(),
		HolderName:  holderName,
		AccountType: domain.AccountTypeSavings,
		Balance:     balance,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, holder_name, account_type, balance, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.HolderName, a.AccountType, a.Balance, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test account %s: %v", holderName, err)
	}
	return a
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %s: %v", accountID, err)
	}
	return balance
}

func SeedTransfer(t *testing.T, db *sql.DB, from, to uuid.UUID, amount int64, status domain.TransferStatus) *domain.TransferTransaction {
	t.Helper()

	now := time.Now().UTC()
	txn := &domain.TransferTransaction{
		ID:              uuid.New(),
		FromAccount:     from,
		ToAccount:       to,
		Amount:          amount,
		TransactionType: domain.TransferTypeAccountToAccount,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := db.Exec(
		`INSERT INTO transfer_transactions (id, from_account, to_account, amount, transaction_type, status, reversed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $8)`,
		txn.ID, txn.FromAccount, txn.ToAccount, txn.Amount, txn.TransactionType, txn.Status, txn.CreatedAt, txn.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed transfer %s: %v", txn.ID, err)
	}
	return txn
}

func CountDetails(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM transaction_details WHERE account_number = $1`, accountID).Scan(&count)
	if err != nil {
		t.Fatalf("count details for account %s: %v", accountID, err)
	}
	return count
}
