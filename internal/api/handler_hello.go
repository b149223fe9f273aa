package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/models"
)

const helloMessage = "Hello World from the backend!"

// Hello godoc
// @Summary      Greeting
// @Description  Returns the greeting shown by the frontend
// @Tags         hello
// @Produce      json
// @Success      200  {object}  models.MessageResponse
// @Router       /api/hello [get]
func helloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.MessageResponse{Message: helloMessage})
}
