package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mbenson/tracker/internal/models"
)

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := s.store.ListHabits(scopeFrom(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	writeJSON(w, http.StatusOK, habits)
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var habit models.Habit
	if !decodeBody(w, r, &habit) {
		return
	}
	created, err := s.store.CreateHabit(scopeFrom(r), habit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	var patch models.HabitPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	updated, err := s.store.UpdateHabit(scopeFrom(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteHabit(scopeFrom(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
