package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/api/responses"
	"github.com/storeops-app/admin-backend/pkg/logger"
)

const correlationIDHeader = "X-Correlation-Id"

// CorrelationID echoes the caller's correlation id, or generates one when the
// header is absent. Every response envelope and log line carries it.
func CorrelationID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			correlationID := r.Header.Get(correlationIDHeader)
			if correlationID == "" {
				correlationID = uuid.NewString()
			}

			w.Header().Set(correlationIDHeader, correlationID)

			ctx := responses.WithCorrelationID(r.Context(), correlationID)
			if logg != nil {
				ctx = logg.WithCorrelationID(ctx, correlationID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
