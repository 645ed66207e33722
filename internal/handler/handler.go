package handler

import (
	"net/http"
	"strings"

	"github.com/showcase/backend/internal/repository"
)

// Handler holds the cross-cutting endpoints and middleware that need
// configuration: health checks and CORS.
type Handler struct {
	db             repository.DB
	allowedOrigins map[string]bool
	allowAny       bool
}

// New creates a Handler. allowedOrigins lists the origins permitted to call
// the API from a browser; "*" allows any origin without credentials.
func New(db repository.DB, allowedOrigins []string) *Handler {
	h := &Handler{db: db, allowedOrigins: make(map[string]bool, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			h.allowAny = true
		default:
			h.allowedOrigins[o] = true
		}
	}
	return h
}

func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		w.Header().Add("Vary", "Origin")

		switch {
		case origin == "":
		case h.allowedOrigins[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		case h.allowAny:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
