package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/health"
)

// Health godoc
// @Summary      Health check
// @Description  Reports the status of every backing service. Optional services only degrade the report.
// @Tags         health
// @Produce      json
// @Success      200  {object}  health.Health
// @Failure      503  {object}  health.Health
// @Router       /health [get]
func healthHandler(registry *health.CheckerRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeHealth(c, registry.Check(c.Request.Context()))
	}
}

// Liveness godoc
// @Summary      Liveness check
// @Description  Answers as long as the process serves HTTP
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health/live [get]
func livenessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": health.StatusHealthy})
}

// Readiness godoc
// @Summary      Readiness check
// @Description  Checks the critical backing services only
// @Tags         health
// @Produce      json
// @Success      200  {object}  health.Health
// @Failure      503  {object}  health.Health
// @Router       /health/ready [get]
func readinessHandler(registry *health.CheckerRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeHealth(c, registry.Ready(c.Request.Context()))
	}
}

func writeHealth(c *gin.Context, report health.Health) {
	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
