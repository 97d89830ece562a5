package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/ideaboard/ideaboard/shared/logger"
)

const RequestIDHeader = "X-Request-Id"

// RequestID tags every request with an id, reusing a valid incoming one,
// and attaches it to the request logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := logger.WithContext(r.Context(), "request_id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
