package web

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

var requestIDPattern = regexp.MustCompile(`^[a-zA-Z0-9\-]{1,64}$`)

// requestID keeps a terminal-supplied X-Request-ID when it is a short token and
// otherwise assigns a UUID. The id lives under chi's RequestIDKey, so the access log
// and error bodies read it with middleware.GetReqID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if !requestIDPattern.MatchString(id) {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessLog writes one uncoloured line per request through the standard logger.
var accessLog = middleware.RequestLogger(&middleware.DefaultLogFormatter{
	Logger:  log.Default(),
	NoColor: true,
})

// recoverer answers a panicking handler with the JSON error envelope.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				if rv == http.ErrAbortHandler {
					panic(rv)
				}
				log.Printf("panic [%s] %s %s: %v\n%s", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, rv, debug.Stack())
				writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
