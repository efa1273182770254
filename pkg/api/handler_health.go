package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/respmask/pkg/version"
)

const (
	healthStatusHealthy   = "healthy"
	healthStatusUnhealthy = "unhealthy"
)

// healthHandler handles GET /health.
// The database is only checked when one is configured.
func (s *Server) healthHandler(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stats := s.cfg.Stats()
	checks := map[string]HealthCheck{
		"policy": {
			Status:  healthStatusHealthy,
			Message: fmt.Sprintf("%d properties, %d handlers enabled", stats.Properties, stats.EnabledHandlers),
		},
	}
	status := healthStatusHealthy

	if s.dbClient != nil {
		if dbHealth, err := s.dbClient.Health(reqCtx); err != nil {
			status = healthStatusUnhealthy
			checks["database"] = HealthCheck{Status: healthStatusUnhealthy, Message: err.Error()}
		} else {
			msg := fmt.Sprintf("schema v%d, %d stored properties", dbHealth.SchemaVersion, dbHealth.StoredProperties)
			checks["database"] = HealthCheck{Status: healthStatusHealthy, Message: msg}
		}
	}

	httpStatus := http.StatusOK
	if status == healthStatusUnhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, &HealthResponse{
		Status:  status,
		Version: version.GitCommit,
		Checks:  checks,
	})
}
