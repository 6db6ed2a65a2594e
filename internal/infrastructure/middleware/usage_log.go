package middleware

import (
	"net/http"

	"merchant-data-gateway/internal/application"
	"merchant-data-gateway/internal/domain"
)

// statusRecorder captures the status code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// UsageLogging records every API-key-authenticated call after the handler
// has produced its response. The write happens in the background and can
// never delay or fail the response itself.
func UsageLogging(usage *application.UsageLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if key := domain.APIKeyFromContext(r.Context()); key != nil {
				usage.Record(key.ID, r.URL.Path, r.Method, rec.status)
			}
		})
	}
}
