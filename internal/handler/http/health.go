package http

import (
	resp "ChannelTrack-Backend/internal/lib/api/response"
	"ChannelTrack-Backend/internal/repository"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthHandler обработчик health checks
type HealthHandler struct {
	storage repository.Storage
	log     *zap.Logger
}

// NewHealthHandler создает новый health handler
func NewHealthHandler(storage repository.Storage, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		log:     log,
	}
}

// HealthResponse структура ответа health check
type HealthResponse struct {
	resp.Response
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	DatabaseStatus string    `json:"database_status"`
	Uptime         string    `json:"uptime,omitempty"`
}

var startTime = time.Now()

// Health основной health check endpoint
//
//	@Summary	Liveness probe with storage check
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := h.storage.Ping(ctx); err != nil {
		dbStatus = "unhealthy"
		h.log.Error("database health check failed", zap.Error(err))
	}

	response := HealthResponse{
		Response:       resp.OK(),
		Status:         "healthy",
		Timestamp:      time.Now().UTC(),
		DatabaseStatus: dbStatus,
		Uptime:         time.Since(startTime).String(),
	}
	statusCode := http.StatusOK

	if dbStatus == "unhealthy" {
		response.Response = resp.Error("database unavailable")
		response.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
		h.log.Warn("health check failed", zap.String("database_status", dbStatus))
	}

	resp.NewJSON(w, r, statusCode, response)
}

// Ready readiness probe endpoint
//
//	@Summary	Readiness probe
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	resp.NewJSON(w, r, http.StatusOK, HealthResponse{
		Response:  resp.OK(),
		Status:    "ready",
		Timestamp: time.Now().UTC(),
	})
}
