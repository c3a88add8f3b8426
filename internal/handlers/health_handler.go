package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store  pinger
	redis  redis.Cmdable
	logger *zap.Logger
}

// NewHealthHandler reports the store and, when configured, Redis. A nil redis client is
// reported as disabled.
func NewHealthHandler(store pinger, redisClient redis.Cmdable, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{store: store, redis: redisClient, logger: logger}
}

// Health
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status := map[string]string{"status": "healthy", "store": "up", "redis": "disabled"}
	code := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("[HEALTH] store ping failed", zap.Error(err))
		status["store"] = "down"
		status["status"] = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	if h.redis != nil {
		status["redis"] = "up"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			h.logger.Warn("[HEALTH] redis ping failed", zap.Error(err))
			status["redis"] = "down"
			status["status"] = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}

	respond(w, code, status)
}
