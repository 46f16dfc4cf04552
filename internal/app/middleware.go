package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/finboard/finboard/pkg/session"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const RequestIdHeader = "X-Request-Id"

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router) {
	r.Use(requestIdMiddleware)
	r.Use(loggingMiddleware)
	r.Use(sessionMiddleware)
}

func requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(RequestIdHeader)
		if id == "" {
			id = uuid.NewString()
			req.Header.Set(RequestIdHeader, id)
		}
		w.Header().Set(RequestIdHeader, id)
		next.ServeHTTP(w, req)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, req)
		log.WithFields(log.Fields{
			"requestId": req.Header.Get(RequestIdHeader),
			"method":    req.Method,
			"path":      req.URL.Path,
			"status":    recorder.status,
			"duration":  time.Since(start),
		}).Info("request handled")
	})
}

// sessionMiddleware attaches the caller's bearer token as the request session. Without the header
// the stored login is used.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		header := req.Header.Get("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") && strings.TrimSpace(token) != "" {
			log.Trace("using bearer token from request")
			ctx := session.WithSession(req.Context(), session.FromToken(strings.TrimSpace(token), ""))
			req = req.WithContext(ctx)
		}
		next.ServeHTTP(w, req)
	})
}
