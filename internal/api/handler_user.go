package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/models"
)

// UserService is the user use-case layer consumed by the handlers.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (models.User, error)
	Create(ctx context.Context, req models.CreateUserRequest) (models.User, error)
	Update(ctx context.Context, id int64, req models.UpdateUserRequest) (models.User, error)
	Delete(ctx context.Context, id int64) (models.MessageResponse, error)
	Count(ctx context.Context) (models.CountResponse, error)
	Seed(ctx context.Context) (models.SeedResponse, error)
}

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	BaseHandler
	Service UserService
}

func NewUserHandler(service UserService, log logger.Logger) *UserHandler {
	return &UserHandler{BaseHandler: BaseHandler{Logger: log}, Service: service}
}

// ListUsers godoc
// @Summary      List all users
// @Description  Returns every user ordered by id
// @Tags         users
// @Produce      json
// @Success      200  {array}   models.User
// @Failure      500  {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  models.User
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	user, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser godoc
// @Summary      Create a new user
// @Description  Creates a user and mirrors it into the search index
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateUserRequest  true  "Create user request"
// @Success      201      {object}  models.User
// @Failure      400      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleError(c, bindError(err))
		return
	}

	user, err := h.Service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary      Update an existing user
// @Description  Replaces the name and, when given, the email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true  "User ID"
// @Param        request  body      models.UpdateUserRequest  true  "Update user request"
// @Success      200      {object}  models.User
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleError(c, bindError(err))
		return
	}

	user, err := h.Service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	res, err := h.Service.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CountUsers godoc
// @Summary      Count users
// @Tags         users
// @Produce      json
// @Success      200  {object}  models.CountResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/users/count [get]
func (h *UserHandler) CountUsers(c *gin.Context) {
	res, err := h.Service.Count(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// InitData godoc
// @Summary      Insert sample users
// @Description  Inserts three sample users if and only if the table is empty
// @Tags         users
// @Produce      json
// @Success      200  {object}  models.SeedResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/users/init [post]
func (h *UserHandler) InitData(c *gin.Context) {
	res, err := h.Service.Seed(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
