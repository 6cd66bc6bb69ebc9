package app

import (
	"github.com/gin-gonic/gin"

	"github.com/dealflowhq/dealflow-backend/internal/server"
)

func wireRouter(handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:   middleware.Auth,
		AuthHandler:      handlers.Auth,
		UserHandler:      handlers.User,
		PropertyHandler:  handlers.Property,
		LeadHandler:      handlers.Lead,
		DealHandler:      handlers.Deal,
		DashboardHandler: handlers.Dashboard,
	})
}
