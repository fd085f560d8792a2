// Package server exposes the resource store over REST. Routes are
// /api/{tasks,habits,finance,planner}; every request is scoped by the
// identity header and operates only on that user's records.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbenson/tracker/internal/identity"
	"github.com/mbenson/tracker/internal/logger"
	"github.com/mbenson/tracker/internal/storage"
)

type Server struct {
	store    storage.Provider
	resolver identity.Resolver
	http     *http.Server
}

// New wires the API over the given store. When allowAnonymous is set,
// requests without an identity header fall back to the shared default scope
// instead of being rejected.
func New(store storage.Provider, allowAnonymous bool) *Server {
	return &Server{
		store:    store,
		resolver: identity.Resolver{AllowAnonymous: allowAnonymous},
	}
}

// Routes builds the router. Exposed separately so tests can drive handlers
// through httptest without binding a port.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.withScope)
			s.resourceRoutes(r)
		})
	})

	return r
}

func (s *Server) resourceRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.listTasks)
		r.Post("/", s.createTask)
		r.Put("/{id}", s.updateTask)
		r.Delete("/{id}", s.deleteTask)
	})
	r.Route("/habits", func(r chi.Router) {
		r.Get("/", s.listHabits)
		r.Post("/", s.createHabit)
		r.Put("/{id}", s.updateHabit)
		r.Delete("/{id}", s.deleteHabit)
	})
	r.Route("/finance", func(r chi.Router) {
		r.Get("/", s.listTransactions)
		r.Post("/", s.createTransaction)
		r.Put("/{id}", s.updateTransaction)
		r.Delete("/{id}", s.deleteTransaction)
	})
	r.Route("/planner", func(r chi.Router) {
		r.Get("/", s.listTimeBlocks)
		r.Post("/", s.createTimeBlock)
		r.Put("/{id}", s.updateTimeBlock)
		r.Delete("/{id}", s.deleteTimeBlock)
	})
}

// ListenAndServe blocks until the server stops or ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	logger.Info("api server listening", "port", port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
