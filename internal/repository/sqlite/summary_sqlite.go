// internal/repository/sqlite/summary_sqlite.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"caseledger/internal/domain"
	"caseledger/internal/repository"
	"caseledger/internal/util"
)

// summaryRow mirrors a user_summaries table row.
type summaryRow struct {
	UserID      int64           `db:"user_id"`
	Deposits    decimal.Decimal `db:"deposits"`
	Withdrawals decimal.Decimal `db:"withdrawals"`
	Balance     decimal.Decimal `db:"balance"`
	ROIPercent  decimal.Decimal `db:"roi_percent"`
	UpdatedAt   string          `db:"updated_at"`
}

func (r summaryRow) toDomain() (*domain.UserSummary, error) {
	ts, err := time.ParseInLocation(timeLayout, r.UpdatedAt, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: bad updated_at for user %d: %v", util.ErrStorageIO, r.UserID, err)
	}
	return &domain.UserSummary{
		UserID:      r.UserID,
		Deposits:    r.Deposits,
		Withdrawals: r.Withdrawals,
		Balance:     r.Balance,
		ROIPercent:  r.ROIPercent,
		UpdatedAt:   ts,
	}, nil
}

// SummaryRepository implements repository.SummaryRepository for the SQLite
// ledger store.
type SummaryRepository struct{}

// NewSummaryRepository creates a new SummaryRepository.
func NewSummaryRepository(db *sqlx.DB) repository.SummaryRepository {
	return &SummaryRepository{}
}

// ReplaceAll rewrites the whole projection table from the given summary
// set. Callers run this inside the same transaction as the log mutation,
// so the log and the projection can never be observed out of step.
func (r *SummaryRepository) ReplaceAll(ctx context.Context, q repository.DBExecutor, summaries []domain.UserSummary) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM user_summaries`); err != nil {
		return fmt.Errorf("%w: failed to clear summary table: %v", util.ErrStorageIO, err)
	}

	query := `INSERT INTO user_summaries (user_id, deposits, withdrawals, balance, roi_percent, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	for _, s := range summaries {
		_, err := q.ExecContext(ctx, query,
			s.UserID,
			s.Deposits.StringFixed(2),
			s.Withdrawals.StringFixed(2),
			s.Balance.StringFixed(2),
			s.ROIPercent.StringFixed(2),
			s.UpdatedAt.Format(timeLayout),
		)
		if err != nil {
			return fmt.Errorf("%w: failed to write summary for user %d: %v", util.ErrStorageIO, s.UserID, err)
		}
	}
	return nil
}

// GetByUser retrieves one user's summary row, or util.ErrNotFound when the
// user has no transactions in the log.
func (r *SummaryRepository) GetByUser(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.UserSummary, error) {
	var row summaryRow
	query := `SELECT user_id, deposits, withdrawals, balance, roi_percent, updated_at
              FROM user_summaries WHERE user_id = ?`
	err := q.GetContext(ctx, &row, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read summary for user %d: %v", util.ErrStorageIO, userID, err)
	}
	return row.toDomain()
}
