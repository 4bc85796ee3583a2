// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"caseledger/internal/domain"
	"caseledger/internal/repository"
	"caseledger/internal/util"
	"caseledger/pkg/db"
)

// DefaultHistoryLimit bounds history queries when the caller does not ask
// for a specific limit.
const DefaultHistoryLimit = 10

// LedgerService defines the ledger's external operations. Every mutation
// appends to (or shrinks) the transaction log, recomputes the full summary
// projection from that log, and persists both atomically before returning.
type LedgerService interface {
	// AddTransaction records one deposit or withdrawal and returns the
	// user's freshly recomputed summary alongside the stored record.
	AddTransaction(ctx context.Context, userID int64, kind domain.TransactionType, amount decimal.Decimal) (*domain.UserSummary, *domain.Transaction, error)
	// ResetUser deletes all of a user's transactions and, through
	// recomputation, their summary row. Idempotent.
	ResetUser(ctx context.Context, userID int64) error
	// GetUserStats returns the user's materialized aggregate, or the zero
	// aggregate when the user has no transactions. Never an error for an
	// unknown user.
	GetUserStats(ctx context.Context, userID int64) (*domain.UserSummary, error)
	// GetUserHistory returns up to limit of the user's transactions, most
	// recent first. limit <= 0 means DefaultHistoryLimit.
	GetUserHistory(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error)
	// ExportSnapshot returns the raw bytes of the full durable store.
	ExportSnapshot(ctx context.Context) ([]byte, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbBeginner  db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor  repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	txRepo      repository.TransactionRepository
	summaryRepo repository.SummaryRepository
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc

	// mu serializes the mutate -> recompute -> persist sequence. Callers
	// may invoke the ledger concurrently; mutations never interleave.
	mu sync.Mutex
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	txRepo repository.TransactionRepository,
	summaryRepo repository.SummaryRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) LedgerService {
	return &ledgerService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		txRepo:      txRepo,
		summaryRepo: summaryRepo,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// AddTransaction appends one monetary event to the log and rebuilds the
// projection, all inside a single storage transaction.
func (s *ledgerService) AddTransaction(ctx context.Context, userID int64, kind domain.TransactionType, amount decimal.Decimal) (*domain.UserSummary, *domain.Transaction, error) {
	if !kind.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", util.ErrInvalidKind, kind)
	}
	// The amount parser is the validation gate, but a zero value can still
	// arrive through direct API use.
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: amount must be positive", util.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("add transaction: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("add transaction: transaction controller does not implement DBExecutor")
	}

	transaction := domain.NewTransaction(userID, kind, amount)
	if err := s.txRepo.Append(ctx, txExecutor, transaction); err != nil {
		return nil, nil, fmt.Errorf("add transaction: %w", err)
	}

	summaries, err := s.rebuildSummaries(ctx, txExecutor)
	if err != nil {
		return nil, nil, fmt.Errorf("add transaction: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("add transaction: failed to commit transaction: %w", err)
	}

	for i := range summaries {
		if summaries[i].UserID == userID {
			return &summaries[i], transaction, nil
		}
	}
	// Unreachable in practice: the record just appended guarantees a row.
	return domain.NewEmptySummary(userID), transaction, nil
}

// ResetUser removes every transaction of the user and rebuilds the
// projection. Recomputation only emits rows for users with remaining
// transactions, so the user's summary row disappears with the log entries.
func (s *ledgerService) ResetUser(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("reset user: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("reset user: transaction controller does not implement DBExecutor")
	}

	if err := s.txRepo.DeleteByUser(ctx, txExecutor, userID); err != nil {
		return fmt.Errorf("reset user: %w", err)
	}

	if _, err := s.rebuildSummaries(ctx, txExecutor); err != nil {
		return fmt.Errorf("reset user: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("reset user: failed to commit transaction: %w", err)
	}
	return nil
}

// rebuildSummaries replays the full log and rewrites the projection table
// using the given executor. Must run inside the mutation's transaction.
func (s *ledgerService) rebuildSummaries(ctx context.Context, q repository.DBExecutor) ([]domain.UserSummary, error) {
	transactions, err := s.txRepo.ListAll(ctx, q)
	if err != nil {
		return nil, err
	}
	summaries := domain.BuildSummaries(transactions, time.Now().Truncate(time.Second))
	if err := s.summaryRepo.ReplaceAll(ctx, q, summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// GetUserStats reads the already-materialized projection; it never triggers
// a recomputation.
func (s *ledgerService) GetUserStats(ctx context.Context, userID int64) (*domain.UserSummary, error) {
	summary, err := s.summaryRepo.GetByUser(ctx, s.dbExecutor, userID)
	if util.IsError(err, util.ErrNotFound) {
		return domain.NewEmptySummary(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return summary, nil
}

// GetUserHistory reads the log directly; the summary holds no per-event
// detail.
func (s *ledgerService) GetUserHistory(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	transactions, err := s.txRepo.ListByUser(ctx, s.dbExecutor, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get user history: %w", err)
	}
	return transactions, nil
}

// ExportSnapshot produces a consistent byte-for-byte copy of the durable
// store. VACUUM INTO writes a compacted copy without closing the live
// connection; taking the writer lock guarantees the copy reflects a fully
// persisted state, never a mid-mutation one.
func (s *ledgerService) ExportSnapshot(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("ledger-export-%d.db", time.Now().UnixNano()))
	defer os.Remove(tmpPath)

	if _, err := s.dbExecutor.ExecContext(ctx, `VACUUM INTO ?`, tmpPath); err != nil {
		return nil, fmt.Errorf("%w: export snapshot failed: %v", util.ErrStorageIO, err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read snapshot file: %v", util.ErrStorageIO, err)
	}
	return data, nil
}
