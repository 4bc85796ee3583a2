// internal/domain/summary.go
package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// UserSummary is the per-user aggregate derived entirely from the
// transaction log. It is always rebuilt in full, never patched in place.
type UserSummary struct {
	UserID      int64           `db:"user_id" json:"user_id"`
	Deposits    decimal.Decimal `db:"deposits" json:"deposits"`
	Withdrawals decimal.Decimal `db:"withdrawals" json:"withdrawals"`
	Balance     decimal.Decimal `db:"balance" json:"balance"`         // deposits - withdrawals, may be negative
	ROIPercent  decimal.Decimal `db:"roi_percent" json:"roi_percent"` // (withdrawals-deposits)/deposits*100, 0 when deposits is 0
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// NewEmptySummary returns the zero aggregate reported for a user with no
// transactions. "No history" is a valid state, not a failure.
func NewEmptySummary(userID int64) *UserSummary {
	return &UserSummary{
		UserID:      userID,
		Deposits:    decimal.Zero,
		Withdrawals: decimal.Zero,
		Balance:     decimal.Zero,
		ROIPercent:  decimal.Zero,
	}
}

// PnL is the user's realized profit or loss: withdrawals minus deposits.
func (s *UserSummary) PnL() decimal.Decimal {
	return s.Withdrawals.Sub(s.Deposits)
}

// BuildSummaries replays the full transaction log and derives one summary
// row per distinct user, sorted by user ID ascending. Every row is stamped
// with the same recomputation time. The function is pure and deterministic:
// the same log content always yields the same summary set.
//
// ROI is rounded to 2 decimal places (half away from zero) at the point of
// storage; sums of 2-decimal amounts need no further rounding under exact
// decimal arithmetic. A user with zero deposits reports ROI 0 rather than
// dividing by zero.
func BuildSummaries(transactions []Transaction, now time.Time) []UserSummary {
	type totals struct {
		deposits    decimal.Decimal
		withdrawals decimal.Decimal
	}

	byUser := make(map[int64]*totals)
	for _, tx := range transactions {
		t, ok := byUser[tx.UserID]
		if !ok {
			t = &totals{deposits: decimal.Zero, withdrawals: decimal.Zero}
			byUser[tx.UserID] = t
		}
		switch tx.Type {
		case TransactionTypeDeposit:
			t.deposits = t.deposits.Add(tx.Amount)
		case TransactionTypeWithdraw:
			t.withdrawals = t.withdrawals.Add(tx.Amount)
		}
	}

	userIDs := make([]int64, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	summaries := make([]UserSummary, 0, len(userIDs))
	for _, id := range userIDs {
		t := byUser[id]
		roi := decimal.Zero
		if t.deposits.IsPositive() {
			roi = t.withdrawals.Sub(t.deposits).
				Div(t.deposits).
				Mul(decimal.NewFromInt(100)).
				Round(2)
		}
		summaries = append(summaries, UserSummary{
			UserID:      id,
			Deposits:    t.deposits,
			Withdrawals: t.withdrawals,
			Balance:     t.deposits.Sub(t.withdrawals),
			ROIPercent:  roi,
			UpdatedAt:   now,
		})
	}
	return summaries
}
