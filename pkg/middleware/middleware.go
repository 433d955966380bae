package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/mexilacteos/itdesk/pkg/composables"
)

// ProvidePool makes the database pool available to downstream handlers via
// the request context.
func ProvidePool(pool *pgxpool.Pool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(composables.WithPool(r.Context(), pool)))
		})
	}
}

// ProvideActor resolves the acting identity from the X-Actor-ID and
// X-Actor-Name headers. Authentication itself is the caller's concern; a
// request without a valid actor id is rejected.
func ProvideActor() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := uuid.Parse(r.Header.Get("X-Actor-ID"))
			if err != nil {
				http.Error(w, "missing or invalid X-Actor-ID header", http.StatusUnauthorized)
				return
			}
			actor := composables.Actor{UserID: userID, Name: r.Header.Get("X-Actor-Name")}
			next.ServeHTTP(w, r.WithContext(composables.WithActor(r.Context(), actor)))
		})
	}
}

// LogRequests logs method, path, status and duration for every request.
func LogRequests(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   sw.status,
				"duration": time.Since(start).String(),
			}).Info("request")
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
