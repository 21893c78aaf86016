package handlers

import (
	"pumpbank/internal/logger"
	"pumpbank/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "pumpbank/docs"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Minimal WebSocket connection (HTTP upgrade) — same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerPumpRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerPumpRoutes(api *gin.RouterGroup) {
	pumps := api.Group("/pumps")
	{
		pumps.GET("/state", h.getState)
		pumps.GET("/profile", h.getProfile)
		// Body example: {"ms":1200}
		pumps.POST("/cycle-time", h.setCycleTime)
		pumps.POST("/interval", h.setInterval)
		pumps.POST("/checkpoint", h.checkpoint)
		pumps.POST("/reset", h.resetProfile)
		pumps.POST("/pause", h.pause)
		pumps.POST("/resume", h.resume)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
