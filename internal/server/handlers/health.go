package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/information-sharing-networks/newsposts/internal/logger"
	"github.com/information-sharing-networks/newsposts/internal/newsposts"
)

// readinessTimeout bounds each dependency check
const readinessTimeout = 2 * time.Second

// Check reports whether a dependency is usable.
// A Required check that fails makes the service not ready; other failures only mark it degraded.
type Check struct {
	Name     string
	Required bool
	Probe    func(ctx context.Context) error
}

// ReadinessResponse is returned by /health/ready
type ReadinessResponse struct {
	Status string            `json:"status" example:"ready" enums:"ready,degraded,not ready"`
	Checks map[string]string `json:"checks"`
}

// HandleHealth godoc
//
//	@Summary		Health (liveness) Check
//	@Description	Check if the HTTP service is alive and responding.
//	@Tags			Common
//	@Produce		plain
//
//	@Success		200	{string}	string	"OK"
//
//	@Router			/health/live [get]
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// HandleReadiness godoc
//
//	@Summary		Readiness Check
//	@Description	Checks the database (required) and the post cache (optional).
//	@Tags			Common
//	@Produce		json
//	@Success		200	{object}	ReadinessResponse	"ready or degraded"
//	@Failure		503	{object}	ReadinessResponse	"not ready"
//	@Router			/health/ready [get]
func HandleReadiness(checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := ReadinessResponse{Status: "ready", Checks: make(map[string]string, len(checks))}
		statusCode := http.StatusOK

		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			err := c.Probe(ctx)
			cancel()

			if err == nil {
				response.Checks[c.Name] = "ok"
				continue
			}

			logger.ContextRequestLogger(r.Context()).Warn("readiness check failed",
				slog.String("check", c.Name),
				slog.String("error", err.Error()),
			)
			response.Checks[c.Name] = "unavailable"

			if c.Required {
				response.Status = "not ready"
				statusCode = http.StatusServiceUnavailable
			} else if statusCode == http.StatusOK {
				response.Status = "degraded"
			}
		}

		newsposts.RespondWithJSONPayload(w, statusCode, response)
	}
}
