package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dealflowhq/dealflow-backend/internal/handlers"
	"github.com/dealflowhq/dealflow-backend/internal/middleware"
	"github.com/dealflowhq/dealflow-backend/internal/types"
)

type RouterConfig struct {
	AuthMiddleware   *middleware.AuthMiddleware
	AuthHandler      *handlers.AuthHandler
	UserHandler      *handlers.UserHandler
	PropertyHandler  *handlers.PropertyHandler
	LeadHandler      *handlers.LeadHandler
	DealHandler      *handlers.DealHandler
	DashboardHandler *handlers.DashboardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	adminOnly := cfg.AuthMiddleware.RequireRole(types.RoleAdmin)

	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)

	// Users
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.GET("/users", adminOnly, cfg.UserHandler.List)

	// Properties
	protected.POST("/properties", cfg.PropertyHandler.Create)
	protected.GET("/properties", cfg.PropertyHandler.List)
	protected.GET("/properties/:id", cfg.PropertyHandler.Get)
	protected.PUT("/properties/:id", cfg.PropertyHandler.Update)
	protected.PUT("/properties/:id/status", cfg.PropertyHandler.UpdateStatus)
	protected.DELETE("/properties/:id", adminOnly, cfg.PropertyHandler.Delete)

	// Leads
	protected.POST("/leads", cfg.LeadHandler.Create)
	protected.GET("/leads", cfg.LeadHandler.List)
	protected.GET("/leads/:id", cfg.LeadHandler.Get)
	protected.PUT("/leads/:id", cfg.LeadHandler.Update)
	protected.PUT("/leads/:id/status", cfg.LeadHandler.UpdateStatus)
	protected.DELETE("/leads/:id", adminOnly, cfg.LeadHandler.Delete)

	// Deals
	protected.POST("/deals", cfg.DealHandler.Create)
	protected.GET("/deals", cfg.DealHandler.List)
	protected.GET("/deals/:id", cfg.DealHandler.Get)
	protected.PUT("/deals/:id", cfg.DealHandler.Update)
	protected.PUT("/deals/:id/status", cfg.DealHandler.UpdateStatus)
	protected.DELETE("/deals/:id", adminOnly, cfg.DealHandler.Delete)

	// Dashboard
	protected.GET("/dashboard", cfg.DashboardHandler.Get)
	protected.GET("/dashboard/stats", cfg.DashboardHandler.Stats)
	protected.GET("/dashboard/recent-activity", cfg.DashboardHandler.RecentActivity)
	protected.GET("/dashboard/status-distribution", cfg.DashboardHandler.StatusDistribution)
	protected.GET("/dashboard/monthly-revenue", cfg.DashboardHandler.MonthlyRevenue)

	return router
}
