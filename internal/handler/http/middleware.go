package http

import (
	"net/http"
	"strings"

	"github.com/Karaba21/Innowave/pkg/httputil"
	"github.com/Karaba21/Innowave/pkg/logger"
)

// SessionHeader carries the shopper's session identifier. Carts are keyed
// by this value.
const SessionHeader = "X-Session-ID"

// ContentTypeJSON rejects bodied requests that do not declare JSON.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.ErrorBody{
					Error: "Content-Type must be application/json",
					Code:  "UNSUPPORTED_MEDIA_TYPE",
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SessionIDFromHeader requires the session header and stores its value in
// the request context for handlers and log enrichment.
func SessionIDFromHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionHeader)
		if sessionID == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
				Error: SessionHeader + " header is required",
				Code:  "INVALID_INPUT",
			})
			return
		}
		ctx := logger.WithSessionID(r.Context(), sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(r *http.Request) string {
	return logger.SessionIDFromContext(r.Context())
}
