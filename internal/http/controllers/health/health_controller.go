// Package health contiene el controller para health checks.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/socialjohn/internal/http/helpers"
	"github.com/dropDatabas3/socialjohn/internal/observability/logger"
)

// Check es un componente que sabe responder si está vivo (store, cache).
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthController maneja /healthz y /readyz.
type HealthController struct {
	version string
	checks  []Check
	timeout time.Duration
}

func NewHealthController(version string, checks ...Check) *HealthController {
	return &HealthController{version: version, checks: checks, timeout: 2 * time.Second}
}

type response struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	Components map[string]string `json:"components,omitempty"`
}

// Healthz: liveness, no toca dependencias.
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, response{Status: "ok", Version: c.version})
}

// Readyz hace ping a cada dependencia; 503 si alguna falla.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	res := response{Status: "ok", Version: c.version, Components: map[string]string{}}
	status := http.StatusOK
	for _, ch := range c.checks {
		if err := ch.Ping(ctx); err != nil {
			logger.From(ctx).Warn("readiness check failed", logger.Component(ch.Name), logger.Err(err))
			res.Components[ch.Name] = "down"
			res.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		res.Components[ch.Name] = "up"
	}
	helpers.WriteJSON(w, status, res)
}
