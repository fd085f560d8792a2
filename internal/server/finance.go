package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mbenson/tracker/internal/models"
)

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListTransactions(scopeFrom(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var tx models.Transaction
	if !decodeBody(w, r, &tx) {
		return
	}
	created, err := s.store.CreateTransaction(scopeFrom(r), tx)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var patch models.TransactionPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	updated, err := s.store.UpdateTransaction(scopeFrom(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTransaction(scopeFrom(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
