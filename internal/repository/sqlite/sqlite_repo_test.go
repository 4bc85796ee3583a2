// internal/repository/sqlite/sqlite_repo_test.go
package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseledger/internal/domain"
	"caseledger/internal/repository/sqlite"
	"caseledger/internal/util"
	"caseledger/pkg/db"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	store, err := db.NewSQLiteDB(db.Config{Path: filepath.Join(t.TempDir(), "ledger_test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func appendTx(t *testing.T, store *sqlx.DB, userID int64, kind domain.TransactionType, amount string) *domain.Transaction {
	t.Helper()

	repo := sqlite.NewTransactionRepository(store)
	tx := domain.NewTransaction(userID, kind, decimal.RequireFromString(amount))
	require.NoError(t, repo.Append(context.Background(), store, tx))
	return tx
}

func TestTransactionRepository_AppendAssignsPositions(t *testing.T) {
	store := newTestDB(t)

	first := appendTx(t, store, 1, domain.TransactionTypeDeposit, "10.00")
	second := appendTx(t, store, 1, domain.TransactionTypeWithdraw, "4.00")

	assert.Positive(t, first.ID)
	assert.Greater(t, second.ID, first.ID, "log positions grow with insertion order")
}

func TestTransactionRepository_ListAllInsertionOrder(t *testing.T) {
	store := newTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewTransactionRepository(store)

	appendTx(t, store, 1, domain.TransactionTypeDeposit, "10.00")
	appendTx(t, store, 2, domain.TransactionTypeDeposit, "20.00")
	appendTx(t, store, 1, domain.TransactionTypeWithdraw, "5.00")

	all, err := repo.ListAll(ctx, store)
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, int64(1), all[0].UserID)
	assert.Equal(t, int64(2), all[1].UserID)
	assert.Equal(t, domain.TransactionTypeWithdraw, all[2].Type)
	assert.Equal(t, "10.00", all[0].Amount.StringFixed(2))
}

func TestTransactionRepository_DeleteByUserPreservesOrder(t *testing.T) {
	store := newTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewTransactionRepository(store)

	appendTx(t, store, 1, domain.TransactionTypeDeposit, "1.00")
	appendTx(t, store, 2, domain.TransactionTypeDeposit, "2.00")
	appendTx(t, store, 1, domain.TransactionTypeDeposit, "3.00")
	appendTx(t, store, 2, domain.TransactionTypeWithdraw, "4.00")

	require.NoError(t, repo.DeleteByUser(ctx, store, 1))

	all, err := repo.ListAll(ctx, store)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2.00", all[0].Amount.StringFixed(2))
	assert.Equal(t, "4.00", all[1].Amount.StringFixed(2))
	assert.Less(t, all[0].ID, all[1].ID)
}

func TestTransactionRepository_DeleteByUserIdempotent(t *testing.T) {
	store := newTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewTransactionRepository(store)

	require.NoError(t, repo.DeleteByUser(ctx, store, 12345))
	require.NoError(t, repo.DeleteByUser(ctx, store, 12345))
}

func TestTransactionRepository_ListByUserMostRecentFirst(t *testing.T) {
	store := newTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewTransactionRepository(store)

	appendTx(t, store, 42, domain.TransactionTypeDeposit, "1000.00")
	appendTx(t, store, 7, domain.TransactionTypeDeposit, "99.00")
	appendTx(t, store, 42, domain.TransactionTypeWithdraw, "300.00")

	history, err := repo.ListByUser(ctx, store, 42, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, domain.TransactionTypeWithdraw, history[0].Type)
	assert.Equal(t, domain.TransactionTypeDeposit, history[1].Type)
}

func TestTransactionRepository_ListByUserLimit(t *testing.T) {
	store := newTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewTransactionRepository(store)

	for i := 0; i < 5; i++ {
		appendTx(t, store, 42, domain.TransactionTypeDeposit, "1.00")
	}

	history, err := repo.ListByUser(ctx, store, 42, 3)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestTransactionRepository_TimestampRoundTrip(t *testing.T) {
	store := newTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewTransactionRepository(store)

	tx := appendTx(t, store, 1, domain.TransactionTypeDeposit, "10.00")

	all, err := repo.ListAll(ctx, store)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, tx.Timestamp.Equal(all[0].Timestamp), "second-precision timestamps survive storage")
}

func TestSummaryRepository_ReplaceAllAndGetByUser(t *testing.T) {
	store := newTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewSummaryRepository(store)

	now := time.Now().Truncate(time.Second)
	summaries := []domain.UserSummary{
		{
			UserID:      42,
			Deposits:    decimal.RequireFromString("1000.00"),
			Withdrawals: decimal.RequireFromString("300.00"),
			Balance:     decimal.RequireFromString("700.00"),
			ROIPercent:  decimal.RequireFromString("-70.00"),
			UpdatedAt:   now,
		},
	}
	require.NoError(t, repo.ReplaceAll(ctx, store, summaries))

	got, err := repo.GetByUser(ctx, store, 42)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", got.Deposits.StringFixed(2))
	assert.Equal(t, "300.00", got.Withdrawals.StringFixed(2))
	assert.Equal(t, "700.00", got.Balance.StringFixed(2))
	assert.Equal(t, "-70.00", got.ROIPercent.StringFixed(2))
	assert.True(t, now.Equal(got.UpdatedAt))
}

func TestSummaryRepository_ReplaceAllDropsStaleRows(t *testing.T) {
	store := newTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewSummaryRepository(store)

	now := time.Now().Truncate(time.Second)
	row := func(userID int64) domain.UserSummary {
		return domain.UserSummary{
			UserID:      userID,
			Deposits:    decimal.RequireFromString("1.00"),
			Withdrawals: decimal.Zero,
			Balance:     decimal.RequireFromString("1.00"),
			ROIPercent:  decimal.RequireFromString("-100.00"),
			UpdatedAt:   now,
		}
	}

	require.NoError(t, repo.ReplaceAll(ctx, store, []domain.UserSummary{row(1), row(2)}))
	require.NoError(t, repo.ReplaceAll(ctx, store, []domain.UserSummary{row(2)}))

	_, err := repo.GetByUser(ctx, store, 1)
	assert.ErrorIs(t, err, util.ErrNotFound, "replaced projection only holds current users")

	_, err = repo.GetByUser(ctx, store, 2)
	assert.NoError(t, err)
}

func TestSummaryRepository_GetByUserNotFound(t *testing.T) {
	store := newTestDB(t)

	repo := sqlite.NewSummaryRepository(store)
	_, err := repo.GetByUser(context.Background(), store, 99)
	assert.ErrorIs(t, err, util.ErrNotFound)
}
