package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

const healthTimeout = 3 * time.Second

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{Status: "healthy"}
	status := http.StatusOK
	for name, check := range s.checks {
		if err := check.HealthCheck(ctx); err != nil {
			log.WithError(err).WithField("check", name).Warn("health check failed")
			if resp.Checks == nil {
				resp.Checks = map[string]string{}
			}
			resp.Checks[name] = err.Error()
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
