package handlers

import (
	"net/http"
	"time"

	"github.com/upb/resource-api/config"
	"github.com/upb/resource-api/oidc"
	"github.com/upb/resource-api/utils"
	"go.uber.org/zap"
)

// Health formats for GET /api/health
const (
	HealthFormatText = "text"
	HealthFormatJSON = "json"
)

// KeyStatsProvider reports the state of the cached signing keys
type KeyStatsProvider interface {
	CacheStats() oidc.CacheStats
}

// APIHealthResponse is the JSON variant of GET /api/health
type APIHealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ActuatorHealthResponse represents GET /actuator/health
type ActuatorHealthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth describes one checked component
type ComponentHealth struct {
	Status  string                 `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// InfoResponse represents GET /actuator/info
type InfoResponse struct {
	App AppInfo `json:"app"`
}

// AppInfo identifies the running service
type AppInfo struct {
	Name        string `json:"name"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

// HealthHandler handles health and info endpoints
type HealthHandler struct {
	service     config.ServiceConfig
	environment string
	keys        KeyStatsProvider
	logger      *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. keys may be nil, in which case
// /actuator/health reports DOWN.
func NewHealthHandler(service config.ServiceConfig, environment string, keys KeyStatsProvider, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		service:     service,
		environment: environment,
		keys:        keys,
		logger:      logger,
	}
}

// HandleAPIHealth handles GET /api/health
func (h *HealthHandler) HandleAPIHealth(w http.ResponseWriter, r *http.Request) {
	var err error
	if h.service.HealthFormat == HealthFormatJSON {
		err = utils.WriteJSON(w, http.StatusOK, APIHealthResponse{Status: "OK", Service: h.service.Name})
	} else {
		err = utils.WriteText(w, http.StatusOK, "OK")
	}
	if err != nil {
		h.logger.Error("failed to write health response", zap.Error(err))
	}
}

// HandleActuatorHealth handles GET /actuator/health.
// The service is UP only while it holds at least one issuer signing key.
func (h *HealthHandler) HandleActuatorHealth(w http.ResponseWriter, r *http.Request) {
	jwks := ComponentHealth{Status: "DOWN"}
	if h.keys != nil {
		stats := h.keys.CacheStats()
		jwks.Details = map[string]interface{}{
			"jwks_uri": stats.JWKSURI,
			"keys":     stats.KeyCount,
		}
		if !stats.LastRefresh.IsZero() {
			jwks.Details["last_refresh"] = stats.LastRefresh.UTC().Format(time.RFC3339)
		}
		if stats.KeyCount > 0 {
			jwks.Status = "UP"
		}
	}

	status := http.StatusOK
	if jwks.Status != "UP" {
		status = http.StatusServiceUnavailable
		h.logger.Warn("health check failed: no issuer signing keys cached")
	}

	response := ActuatorHealthResponse{
		Status:     jwks.Status,
		Components: map[string]ComponentHealth{"jwks": jwks},
	}
	if err := utils.WriteJSON(w, status, response); err != nil {
		h.logger.Error("failed to write actuator health response", zap.Error(err))
	}
}

// HandleActuatorInfo handles GET /actuator/info
func (h *HealthHandler) HandleActuatorInfo(w http.ResponseWriter, r *http.Request) {
	response := InfoResponse{
		App: AppInfo{
			Name:        h.service.Name,
			Environment: h.environment,
			Version:     h.service.Version,
		},
	}
	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("failed to write info response", zap.Error(err))
	}
}
