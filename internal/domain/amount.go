// internal/domain/amount.go
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"caseledger/internal/util"
)

// ParseAmount parses user-entered amount text into an exact decimal.
// It accepts either a comma or a dot as the decimal separator and trims
// surrounding whitespace. The value must be strictly positive; the result
// is quantized to exactly 2 fractional digits, rounding half away from
// zero (so "0.005" becomes 0.01).
//
// This is the single validation gate for the ledger's amount invariant:
// the transaction log performs no re-validation of its own.
func ParseAmount(raw string) (decimal.Decimal, error) {
	normalized := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a decimal numeral", util.ErrInvalidAmount, raw)
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, fmt.Errorf("%w: amount must be positive", util.ErrInvalidAmount)
	}
	return value.Round(2), nil
}
