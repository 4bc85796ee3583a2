// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"caseledger/internal/domain"
)

// TransactionRepository defines the interface for the append-only
// transaction log.
type TransactionRepository interface {
	// Append adds one immutable record to the end of the log using the
	// provided DBExecutor and fills in its assigned log position.
	Append(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// DeleteByUser removes every record for the given user, preserving the
	// relative order of all remaining records. Deleting a user with no
	// records is a no-op, not an error.
	DeleteByUser(ctx context.Context, q DBExecutor, userID int64) error
	// ListAll returns the full log in insertion order. It is the sole
	// input of the summary recomputation.
	ListAll(ctx context.Context, q DBExecutor) ([]domain.Transaction, error)
	// ListByUser returns up to limit of the user's records, most recent
	// first.
	ListByUser(ctx context.Context, q DBExecutor, userID int64, limit int) ([]domain.Transaction, error)
}
