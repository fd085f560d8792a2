package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mbenson/tracker/internal/constants"
	"github.com/mbenson/tracker/internal/identity"
	"github.com/mbenson/tracker/internal/logger"
)

type contextKey string

const scopeKey contextKey = "scope"

// withScope resolves the user scope from the request and stashes it in the
// context. A missing identity is rejected before any handler runs.
func (s *Server) withScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, err := s.resolver.Resolve(r)
		if err != nil {
			if errors.Is(err, identity.ErrMissingIdentity) {
				writeError(w, http.StatusUnauthorized, "missing "+constants.HeaderUserID+" header")
				return
			}
			writeError(w, http.StatusInternalServerError, "identity resolution failed")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), scopeKey, scope)))
	})
}

func scopeFrom(r *http.Request) string {
	scope, _ := r.Context().Value(scopeKey).(string)
	return scope
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+constants.HeaderUserID)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
