// Package middleware holds the HTTP middleware: trace-ID injection and
// bearer-token authentication.
package middleware

import (
	"net/http"

	"github.com/careerforge/pitch-api/internal/api/shared"
)

// TraceID attaches a trace ID to every request's context and echoes it
// in the X-Trace-ID response header.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		w.Header().Set("X-Trace-ID", shared.GetTraceID(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
