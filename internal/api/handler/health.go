package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HealthHandler serves the liveness probe and version endpoint.
type HealthHandler struct {
	env     string
	version string
	now     func() time.Time
}

func NewHealthHandler(env, version string) *HealthHandler {
	return &HealthHandler{env: env, version: version, now: time.Now}
}

type livenessResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
	Version     string    `json:"version"`
}

type versionResponse struct {
	Version     string `json:"version"`
	APIVersion  string `json:"apiVersion"`
	Environment string `json:"environment"`
}

// Liveness godoc
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  livenessResponse
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, livenessResponse{
		Status:      "OK",
		Timestamp:   h.now().UTC(),
		Environment: h.env,
		Version:     h.version,
	})
}

// Version godoc
//
// @Summary  API version
// @Tags     health
// @Produce  json
// @Success  200  {object}  versionResponse
// @Router   /api/version [get]
func (h *HealthHandler) Version(c echo.Context) error {
	return c.JSON(http.StatusOK, versionResponse{
		Version:     h.version,
		APIVersion:  "v1",
		Environment: h.env,
	})
}

// DependencyCheck is one named readiness check, e.g. a database ping.
type DependencyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// ReadinessHandler handles GET /health/ready and reports every dependency.
// Check errors are logged, never returned in the body.
type ReadinessHandler struct {
	checks  []DependencyCheck
	timeout time.Duration
	log     zerolog.Logger
}

func NewReadinessHandler(log zerolog.Logger, checks ...DependencyCheck) *ReadinessHandler {
	return &ReadinessHandler{checks: checks, timeout: 3 * time.Second, log: log}
}

type dependencyStatus struct {
	Status string `json:"status"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness godoc
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health/ready [get]
func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true
	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.log.Warn().Err(err).Str("dependency", check.Name).Msg("readiness check failed")
			deps[check.Name] = dependencyStatus{Status: "unhealthy"}
			healthy = false
			continue
		}
		deps[check.Name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
