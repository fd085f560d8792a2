package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mbenson/tracker/internal/models"
)

func (s *Server) listTimeBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := s.store.ListTimeBlocks(scopeFrom(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if blocks == nil {
		blocks = []models.TimeBlock{}
	}
	writeJSON(w, http.StatusOK, blocks)
}

func (s *Server) createTimeBlock(w http.ResponseWriter, r *http.Request) {
	var block models.TimeBlock
	if !decodeBody(w, r, &block) {
		return
	}
	created, err := s.store.CreateTimeBlock(scopeFrom(r), block)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateTimeBlock(w http.ResponseWriter, r *http.Request) {
	var patch models.TimeBlockPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	updated, err := s.store.UpdateTimeBlock(scopeFrom(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteTimeBlock(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTimeBlock(scopeFrom(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
