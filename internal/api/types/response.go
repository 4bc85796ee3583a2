// internal/api/types/response.go
package types

// HistoryResponse defines the envelope for bounded, most-recent-first
// history listings. T is the type of the listed items.
type HistoryResponse[T any] struct {
	Data  []T `json:"data"`
	Limit int `json:"limit"`
	Count int `json:"count"`
}
