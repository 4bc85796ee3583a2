// internal/api/handler/ledger.go
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"caseledger/internal/api/types"
	"caseledger/internal/domain"
	"caseledger/internal/service"
	"caseledger/internal/util"
)

// DefaultTimeout bounds request handling at the router level.
const DefaultTimeout = 15 * time.Second

// LedgerHandler handles HTTP requests against the ledger.
type LedgerHandler struct {
	service      service.LedgerService
	logger       *slog.Logger
	historyLimit int
	exportName   string
}

// NewLedgerHandler creates a new LedgerHandler. historyLimit is the limit
// applied to history queries that do not specify one; exportName is the
// filename offered for snapshot downloads.
func NewLedgerHandler(svc service.LedgerService, logger *slog.Logger, historyLimit int, exportName string) *LedgerHandler {
	return &LedgerHandler{
		service:      svc,
		logger:       logger,
		historyLimit: historyLimit,
		exportName:   exportName,
	}
}

func (h *LedgerHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func (h *LedgerHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidAmount), util.IsError(err, util.ErrInvalidKind), util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrStorageIO):
		// The ledger is unchanged from the caller's perspective; log the
		// fault and report a server error.
		h.logger.Error("Storage failure", "error", err)
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, map[string]string{"error": message})
}

func userIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
}

// AddTransactionRequest represents the request body for recording a
// deposit or withdrawal. Amount is a string so that comma decimal
// separators pass through the amount parser unchanged.
type AddTransactionRequest struct {
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
}

// AddTransaction handles recording one monetary event.
// POST /users/{userID}/transactions
func (h *LedgerHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, fmt.Errorf("%w: bad user id", util.ErrInvalidInput))
		return
	}

	var req AddTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, fmt.Errorf("%w: malformed request body", util.ErrInvalidInput))
		return
	}

	kind := domain.TransactionType(req.Kind)
	if !kind.Valid() {
		h.respondWithError(w, fmt.Errorf("%w: %q", util.ErrInvalidKind, req.Kind))
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	summary, transaction, err := h.service.AddTransaction(r.Context(), userID, kind, amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Transaction recorded",
		"user_id":     userID,
		"kind":        transaction.Type,
		"amount":      transaction.Amount,
		"timestamp":   transaction.Timestamp,
		"new_balance": summary.Balance,
	})
}

// GetUserStats handles the aggregate statistics request.
// GET /users/{userID}/stats
func (h *LedgerHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, fmt.Errorf("%w: bad user id", util.ErrInvalidInput))
		return
	}

	summary, err := h.service.GetUserStats(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	pnl := summary.PnL()
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":     summary.UserID,
		"deposits":    summary.Deposits,
		"withdrawals": summary.Withdrawals,
		"balance":     summary.Balance,
		"roi_percent": summary.ROIPercent,
		"pnl":         pnl,
		"profitable":  pnl.Sign() >= 0,
	})
}

// GetUserHistory handles the bounded history request.
// GET /users/{userID}/history?limit=N
func (h *LedgerHandler) GetUserHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, fmt.Errorf("%w: bad user id", util.ErrInvalidInput))
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = h.historyLimit
	}

	transactions, err := h.service.GetUserHistory(r.Context(), userID, limit)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.HistoryResponse[domain.Transaction]{
		Data:  transactions,
		Limit: limit,
		Count: len(transactions),
	})
}

// ResetUser handles deletion of all of a user's transactions.
// DELETE /users/{userID}
func (h *LedgerHandler) ResetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, fmt.Errorf("%w: bad user id", util.ErrInvalidInput))
		return
	}

	if err := h.service.ResetUser(r.Context(), userID); err != nil {
		h.respondWithError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportSnapshot handles download of the raw durable store.
// GET /export
func (h *LedgerHandler) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportSnapshot(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", h.exportName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
