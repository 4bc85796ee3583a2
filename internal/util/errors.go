// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input provided")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrStorageIO     = errors.New("storage read/write failure")
)

// IsError reports whether err matches the given sentinel anywhere in its
// wrap chain.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
