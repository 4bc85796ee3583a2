// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// TransactionType defines the kind of a ledger event.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
)

// Valid reports whether the type is one of the two supported kinds.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdraw
}

// Transaction represents one immutable monetary event in the ledger log.
// Records are never mutated or reordered after insertion; log position is
// the only ordering guarantee.
type Transaction struct {
	ID        int64           `db:"id" json:"id"`               // Log position, assigned by storage
	UserID    int64           `db:"user_id" json:"user_id"`     // External identity, not validated against a registry
	Type      TransactionType `db:"type" json:"type"`           // deposit or withdraw
	Amount    decimal.Decimal `db:"amount" json:"amount"`       // Strictly positive, quantized to 2 fractional digits
	Timestamp time.Time       `db:"timestamp" json:"timestamp"` // Wall-clock capture time, second precision
}

// NewTransaction creates a new Transaction stamped with the current time.
// The amount is expected to have passed ParseAmount already; the log
// performs no re-validation.
func NewTransaction(userID int64, txType TransactionType, amount decimal.Decimal) *Transaction {
	return &Transaction{
		UserID:    userID,
		Type:      txType,
		Amount:    amount,
		Timestamp: time.Now().Truncate(time.Second),
	}
}
