// Package http contains the operational HTTP endpoints of the download domain
package http

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/deps"
	"github.com/magicxor/ytdl-inline-bot/pkg/httputil"
)

// HealthCheckTimeout bounds all component checks of one request
const HealthCheckTimeout = 5 * time.Second

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// Component is a named dependency reported by the health endpoint
type Component struct {
	Name    string
	Checker deps.HealthChecker
	// Message is reported when the checker fails
	Message string
}

// HealthHandler handles HTTP health check requests
type HealthHandler struct {
	components []Component
	logger     zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(components []Component, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		components: components,
		logger:     logger,
	}
}

// Handle handles the health check request for fasthttp
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	checkCtx, cancel := context.WithTimeout(context.Background(), HealthCheckTimeout)
	defer cancel()

	components := h.checkComponents(checkCtx)
	status := determineOverallStatus(components)

	response := HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Components: components,
	}

	logEvent := h.logger.Debug()
	if status == HealthStatusUnhealthy {
		logEvent = h.logger.Warn()
	} else if status == HealthStatusDegraded {
		logEvent = h.logger.Info()
	}
	logEvent.
		Str("status", string(status)).
		Interface("components", components).
		Msg("Health check completed")

	httputil.WriteHealthResponse(ctx, response, status != HealthStatusUnhealthy)
}

func (h *HealthHandler) checkComponents(ctx context.Context) []ComponentHealth {
	components := make([]ComponentHealth, 0, len(h.components))

	for _, c := range h.components {
		healthy := c.Checker != nil && c.Checker.HealthCheck(ctx)
		msg := ""
		if !healthy {
			msg = c.Message
		}

		components = append(components, ComponentHealth{
			Name:    c.Name,
			Healthy: healthy,
			Message: msg,
		})
	}

	return components
}

// determineOverallStatus determines overall health status based on component health
func determineOverallStatus(components []ComponentHealth) HealthStatus {
	allHealthy := true
	anyHealthy := false

	for _, component := range components {
		if !component.Healthy {
			allHealthy = false
		} else {
			anyHealthy = true
		}
	}

	if allHealthy {
		return HealthStatusHealthy
	} else if anyHealthy {
		return HealthStatusDegraded
	}

	return HealthStatusUnhealthy
}
