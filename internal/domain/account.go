package domain

import (
	"time"

	"github.com/google/uuid"
)

type AccountType string

const (
	AccountTypeSavings AccountType = "savings"
	AccountTypeCurrent AccountType = "current"
)

func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeSavings, AccountTypeCurrent:
		return true
	default:
		return false
	}
}

// Account is the bank service's view of a customer account. Balance is held
// in minor units and is never negative; all mutations go through the balance
// mutator, which serializes them per account.
type Account struct {
	ID            uuid.UUID
	HolderName    string
	AccountType   AccountType
	Balance       int64
	PanCardNumber *string
	Address       *string
	CreatedAt     time.Time
}
