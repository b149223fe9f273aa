package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/models"
)

type MessageService interface {
	Send(ctx context.Context, text string) (models.SendMessageResponse, error)
	Received() []string
}

// MessageHandler bridges HTTP to the message broker.
type MessageHandler struct {
	BaseHandler
	Service MessageService
}

func NewMessageHandler(service MessageService, log logger.Logger) *MessageHandler {
	return &MessageHandler{BaseHandler: BaseHandler{Logger: log}, Service: service}
}

// SendMessage godoc
// @Summary      Publish a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        request  body      models.SendMessageRequest  true  "Message"
// @Success      200      {object}  models.SendMessageResponse
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Failure      503      {object}  map[string]string
// @Router       /api/messages/send [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleError(c, bindError(err))
		return
	}

	res, err := h.Service.Send(c.Request.Context(), req.Message)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ReceivedMessages godoc
// @Summary      List received messages
// @Description  Returns the most recent messages consumed from the queue, oldest first
// @Tags         messages
// @Produce      json
// @Success      200  {array}   string
// @Failure      503  {object}  map[string]string
// @Router       /api/messages/received [get]
func (h *MessageHandler) ReceivedMessages(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Received())
}
