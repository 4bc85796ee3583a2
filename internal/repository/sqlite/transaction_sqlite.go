// internal/repository/sqlite/transaction_sqlite.go
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"caseledger/internal/domain"
	"caseledger/internal/repository"
	"caseledger/internal/util"
)

// timeLayout is the storage format for all timestamps, second precision.
const timeLayout = "2006-01-02 15:04:05"

// transactionRow mirrors a transactions table row. Amounts and timestamps
// are stored as text, so rows are converted to domain values after scanning.
type transactionRow struct {
	ID        int64           `db:"id"`
	UserID    int64           `db:"user_id"`
	Type      string          `db:"type"`
	Amount    decimal.Decimal `db:"amount"`
	Timestamp string          `db:"timestamp"`
}

func (r transactionRow) toDomain() (domain.Transaction, error) {
	ts, err := time.ParseInLocation(timeLayout, r.Timestamp, time.Local)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: bad timestamp in row %d: %v", util.ErrStorageIO, r.ID, err)
	}
	return domain.Transaction{
		ID:        r.ID,
		UserID:    r.UserID,
		Type:      domain.TransactionType(r.Type),
		Amount:    r.Amount,
		Timestamp: ts,
	}, nil
}

// TransactionRepository implements repository.TransactionRepository for the
// SQLite ledger store.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// Append inserts one record at the end of the log using the provided
// DBExecutor and records its assigned position.
func (r *TransactionRepository) Append(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (user_id, type, amount, timestamp)
              VALUES (?, ?, ?, ?) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.UserID,
		string(transaction.Type),
		transaction.Amount.StringFixed(2),
		transaction.Timestamp.Format(timeLayout),
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("%w: failed to append transaction: %v", util.ErrStorageIO, err)
	}
	return nil
}

// DeleteByUser removes every record belonging to the user. Remaining rows
// keep their ids, so the relative order of other users' records is
// untouched.
func (r *TransactionRepository) DeleteByUser(ctx context.Context, q repository.DBExecutor, userID int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("%w: failed to delete transactions for user %d: %v", util.ErrStorageIO, userID, err)
	}
	return nil
}

// ListAll returns the full log in insertion order.
func (r *TransactionRepository) ListAll(ctx context.Context, q repository.DBExecutor) ([]domain.Transaction, error) {
	rows := []transactionRow{}
	query := `SELECT id, user_id, type, amount, timestamp FROM transactions ORDER BY id`
	if err := q.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: failed to read transaction log: %v", util.ErrStorageIO, err)
	}
	return rowsToDomain(rows)
}

// ListByUser returns up to limit of the user's records, most recent first.
func (r *TransactionRepository) ListByUser(ctx context.Context, q repository.DBExecutor, userID int64, limit int) ([]domain.Transaction, error) {
	rows := []transactionRow{}
	query := `SELECT id, user_id, type, amount, timestamp
              FROM transactions
              WHERE user_id = ?
              ORDER BY id DESC
              LIMIT ?`
	if err := q.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("%w: failed to read history for user %d: %v", util.ErrStorageIO, userID, err)
	}
	return rowsToDomain(rows)
}

func rowsToDomain(rows []transactionRow) ([]domain.Transaction, error) {
	transactions := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}
