package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransferStatus string

const (
	TransferStatusPending TransferStatus = "pending"
	TransferStatusSuccess TransferStatus = "success"
	TransferStatusFailed  TransferStatus = "failed"
)

// TransferTypeAccountToAccount is the only transfer type issued by the
// orchestrator today.
const TransferTypeAccountToAccount = "account-to-account"

// TransferTransaction is the durable record of a two-leg transfer. It is
// created in pending state before either leg is dispatched, moved to a
// terminal status once both legs resolve, and mutated again only when the
// reversal engine sets Reversed.
//
// Reversed implies Status == success; a transaction is reversible at most once.
type TransferTransaction struct {
	ID              uuid.UUID
	FromAccount     uuid.UUID
	ToAccount       uuid.UUID
	Amount          int64
	TransactionType string
	Status          TransferStatus
	Reversed        bool
	ReversalReason  *string
	FailureReason   *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type DetailType string

const (
	DetailTypeDeposit  DetailType = "Deposit"
	DetailTypeWithdraw DetailType = "Withdraw"
)

// TransactionDetail is a single-account statement line, written once per
// deposit/withdraw and immutable afterwards. Rows arrive from the bank
// service's detail recorder, best effort.
type TransactionDetail struct {
	ID              int64
	AccountNumber   uuid.UUID
	TransactionType DetailType
	Amount          int64
	TransactionDate time.Time
	Status          string
}
