package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/akashreddykandula/spendWise/internal/core"
	"github.com/akashreddykandula/spendWise/internal/storage"
)

type createTransactionRequest struct {
	// AmountCents is authoritative. Amount accepts a decimal string
	// ("12.50") for clients that do not want to convert.
	AmountCents int64  `json:"amountCents"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	PaymentMode string `json:"paymentMode"`
	Date        string `json:"date"`
}

type transactionDTO struct {
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	AmountCents int64  `json:"amountCents"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	PaymentMode string `json:"paymentMode"`
	Date        string `json:"date"`
}

type listTransactionsResponse struct {
	Owner        string           `json:"owner"`
	Transactions []transactionDTO `json:"transactions"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "missing "+OwnerHeader+" header")
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cents := req.AmountCents
	if req.Amount != "" {
		parsed, err := core.ParseDecimalToCents(req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid amount: "+req.Amount)
			return
		}
		cents = parsed
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	tx := core.Transaction{
		Owner:       owner,
		Amount:      core.Money{Cents: cents},
		Type:        core.TxType(req.Type),
		Category:    req.Category,
		PaymentMode: req.PaymentMode,
		Date:        date,
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.service.CreateTransaction(r.Context(), tx)
	if err != nil {
		if errors.Is(err, storage.ErrReadOnly) {
			writeError(w, http.StatusMethodNotAllowed, "backend is read-only")
			return
		}
		slog.ErrorContext(r.Context(), "Create transaction failed", "owner", owner, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	tx.ID = id
	s.structured.LogTransactionCreated(r.Context(), owner, id, string(tx.Type), tx.Category, tx.Amount.Cents)
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "missing "+OwnerHeader+" header")
		return
	}

	window, ok, msg := parseWindow(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	txs, err := s.service.ListTransactions(r.Context(), owner, window)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "owner", owner, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	resp := listTransactionsResponse{
		Owner:        owner,
		Transactions: make([]transactionDTO, 0, len(txs)),
	}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, toTransactionDTO(tx))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "missing "+OwnerHeader+" header")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	if err := s.service.DeleteTransaction(r.Context(), owner, id); err != nil {
		switch {
		case errors.Is(err, storage.ErrTransactionNotFound):
			writeError(w, http.StatusNotFound, "transaction not found")
		case errors.Is(err, storage.ErrReadOnly):
			writeError(w, http.StatusMethodNotAllowed, "backend is read-only")
		default:
			slog.ErrorContext(r.Context(), "Delete transaction failed", "owner", owner, "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toTransactionDTO(tx core.Transaction) transactionDTO {
	return transactionDTO{
		ID:          tx.ID,
		Owner:       tx.Owner,
		AmountCents: tx.Amount.Cents,
		Type:        string(tx.Type),
		Category:    tx.Category,
		PaymentMode: tx.PaymentMode,
		Date:        tx.Date.Format("2006-01-02"),
	}
}
