package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

// ReadyCheck probes one dependency for the readiness endpoint.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Health runs a database round trip. Used by GET {prefix}/health.
func (tc *TaskController) Health(c *gin.Context) {
	if err := tc.svc.Ping(c.Request.Context()); err != nil {
		fail(c, http.StatusInternalServerError, "Database unreachable")
		return
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:            "healthy",
		StatusCodeMessage: "Database is reachable",
		Data:              []any{},
	})
}

// Ready returns 200 if the database and every configured dependency are reachable.
// Used by K8s readiness probes.
func (tc *TaskController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()
	if err := tc.svc.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
		return
	}
	for _, rc := range tc.readyChecks {
		if err := rc.Check(ctx); err != nil {
			tc.log.Warn(ctx, "Readiness check failed", "check", rc.Name, "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": rc.Name + " unavailable"})
			return
		}
	}
	c.String(http.StatusOK, "OK")
}
