package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
)

const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID extracts or generates a correlation ID, echoes it in the
// response and stores it in the request context for logging and publishing.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		c.Header(CorrelationIDHeader, correlationID)
		c.Request = c.Request.WithContext(logger.WithCorrelationID(c.Request.Context(), correlationID))

		c.Next()
	}
}
