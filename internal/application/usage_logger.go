package application

import (
	"context"
	"time"

	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const usageWriteTimeout = 5 * time.Second

// UsageLogger records proxied calls against the API key that made them.
// Writes happen after the response has been sent, in the background;
// failures are logged and dropped so observability never becomes
// load-bearing.
type UsageLogger struct {
	logs   ports.UsageLogRepository
	logger zerolog.Logger
}

// NewUsageLogger creates a new usage logger
func NewUsageLogger(logs ports.UsageLogRepository, logger zerolog.Logger) *UsageLogger {
	return &UsageLogger{
		logs:   logs,
		logger: logger,
	}
}

// Record persists one usage entry asynchronously. It returns immediately.
func (l *UsageLogger) Record(apiKeyID string, endpoint string, method string, statusCode int) {
	entry := &domain.UsageLog{
		ID:         uuid.NewString(),
		APIKeyID:   apiKeyID,
		Endpoint:   endpoint,
		Method:     method,
		StatusCode: statusCode,
		CreatedAt:  time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), usageWriteTimeout)
		defer cancel()
		if err := l.logs.Insert(ctx, entry); err != nil {
			l.logger.Warn().Err(err).Str("keyId", apiKeyID).Msg("Failed to log API usage")
		}
	}()
}
