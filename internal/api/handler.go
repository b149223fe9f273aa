package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jeremy-gibrat/hello-world-cloud/pkg/errors"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
)

// BaseHandler turns errors into the shared JSON error body.
type BaseHandler struct {
	Logger logger.Logger
}

func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.Logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)
	} else {
		h.Logger.WarnwCtx(c.Request.Context(), "Request rejected", "error", err, "path", c.Request.URL.Path)
	}

	c.JSON(status, apperrors.ToErrorResponse(err))
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.ErrValidation.WithMessage("invalid user id").WithDetail("id", c.Param("id"))
	}
	return id, nil
}

func bindError(err error) *apperrors.Error {
	return apperrors.ErrValidation.WithMessage(err.Error()).WithCause(err)
}

// disabled answers every request with 503 for a feature turned off in config.
func disabled(h *BaseHandler, feature string) gin.HandlerFunc {
	err := apperrors.ErrFeatureDisabled.WithMessage(feature + " is disabled")
	return func(c *gin.Context) {
		h.HandleError(c, err)
	}
}
