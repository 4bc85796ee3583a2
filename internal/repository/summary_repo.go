// internal/repository/summary_repo.go
package repository

import (
	"context"

	"caseledger/internal/domain"
)

// SummaryRepository defines the interface for the materialized per-user
// projection. The projection is only ever replaced wholesale, inside the
// same transaction as the log mutation that invalidated it.
type SummaryRepository interface {
	// ReplaceAll deletes every stored summary row and inserts the given
	// set, which callers supply sorted by user ID ascending.
	ReplaceAll(ctx context.Context, q DBExecutor, summaries []domain.UserSummary) error
	// GetByUser retrieves one user's summary row. Returns util.ErrNotFound
	// when the user has no row (i.e. no transactions in the log).
	GetByUser(ctx context.Context, q DBExecutor, userID int64) (*domain.UserSummary, error)
}
