package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/brewery-api/internal/storage/db"
	"github.com/tuanvumaihuynh/brewery-api/pkg/zerror"
)

var errDatabaseUnavailable = zerror.NewServiceUnavailable("DATABASE_UNAVAILABLE", "database unavailable")

type healthResponse struct {
	Status string `json:"status"`
}

type healthHandler struct {
	healthChecker db.HealthChecker
}

func newHealthHandler(healthChecker db.HealthChecker) *healthHandler {
	return &healthHandler{healthChecker: healthChecker}
}

func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request) error {
	healthy, err := h.healthChecker.IsHealthy(r.Context())
	if err != nil {
		return errDatabaseUnavailable.WrapParent(fmt.Errorf("health checker is healthy: %w", err))
	}
	if !healthy {
		return errDatabaseUnavailable
	}

	return writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
