package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/health"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/middleware"
)

// RouterDeps are the collaborators behind the routes. A nil Search or
// Messages service registers its routes as disabled (503).
type RouterDeps struct {
	Users    UserService
	Search   SearchService
	Messages MessageService
	Health   *health.CheckerRegistry
	Logger   logger.Logger
}

// NewRouter creates and configures the Gin router.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.CORS())
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Metrics())

	registry := deps.Health
	if registry == nil {
		registry = health.NewCheckerRegistry()
	}
	r.GET("/health", healthHandler(registry))
	r.GET("/health/live", livenessHandler)
	r.GET("/health/ready", readinessHandler(registry))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.GET("/hello", helloHandler)

	users := NewUserHandler(deps.Users, deps.Logger)
	userRoutes := api.Group("/users")
	{
		userRoutes.GET("", users.ListUsers)
		userRoutes.POST("", users.CreateUser)
		userRoutes.GET("/count", users.CountUsers)
		userRoutes.POST("/init", users.InitData)
		userRoutes.GET("/:id", users.GetUser)
		userRoutes.PUT("/:id", users.UpdateUser)
		userRoutes.DELETE("/:id", users.DeleteUser)
	}

	searchRoutes := api.Group("/elasticsearch")
	if deps.Search != nil {
		h := NewSearchHandler(deps.Search, deps.Logger)
		searchRoutes.GET("/search/:index", h.Search)
		searchRoutes.POST("/index/:index", h.IndexDocument)
		searchRoutes.GET("/indices", h.ListIndices)
	} else {
		off := disabled(&BaseHandler{Logger: deps.Logger}, "search")
		searchRoutes.GET("/search/:index", off)
		searchRoutes.POST("/index/:index", off)
		searchRoutes.GET("/indices", off)
	}

	messageRoutes := api.Group("/messages")
	if deps.Messages != nil {
		h := NewMessageHandler(deps.Messages, deps.Logger)
		messageRoutes.POST("/send", h.SendMessage)
		messageRoutes.GET("/received", h.ReceivedMessages)
	} else {
		off := disabled(&BaseHandler{Logger: deps.Logger}, "messaging")
		messageRoutes.POST("/send", off)
		messageRoutes.GET("/received", off)
	}

	return r
}
