package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/yashx007/Finance-App/internal/core"
)

// transactionRequest tracks amount presence during decode. A zero Money
// cannot distinguish "amount": 0 from an absent field, and absence must be
// rejected as an invalid payload.
type transactionRequest struct {
	Date        string      `json:"date"`
	Amount      *core.Money `json:"amount"`
	Category    string      `json:"category"`
	Status      string      `json:"status"`
	UserID      string      `json:"user_id"`
	UserProfile string      `json:"user_profile"`
}

func (r transactionRequest) transaction() (core.Transaction, error) {
	if r.Amount == nil {
		return core.Transaction{}, fmt.Errorf("%w: amount is required", core.ErrInvalidPayload)
	}
	return core.Transaction{
		Date:        r.Date,
		Amount:      *r.Amount,
		Category:    r.Category,
		Status:      r.Status,
		UserID:      r.UserID,
		UserProfile: r.UserProfile,
	}, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f := core.FilterFromValues(r.URL.Query())
	txs, err := s.transactions.List(r.Context(), f)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list error", "error", err)
		writeError(w, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.transactions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tx, err := req.transaction()
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := s.transactions.Create(r.Context(), tx)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateDashboards()
	slog.InfoContext(r.Context(), "Transaction created",
		"id", created.ID, "category", created.Category, "amount_cents", created.Amount.Cents)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var patch core.TransactionPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.transactions.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateDashboards()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.transactions.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateDashboards()
	slog.InfoContext(r.Context(), "Transaction deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
}
