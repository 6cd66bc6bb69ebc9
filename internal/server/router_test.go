package server

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dealflowhq/dealflow-backend/internal/handlers"
	"github.com/dealflowhq/dealflow-backend/internal/middleware"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterConfig{
		AuthMiddleware:   &middleware.AuthMiddleware{},
		AuthHandler:      handlers.NewAuthHandler(nil),
		UserHandler:      handlers.NewUserHandler(nil),
		PropertyHandler:  handlers.NewPropertyHandler(nil),
		LeadHandler:      handlers.NewLeadHandler(nil),
		DealHandler:      handlers.NewDealHandler(nil),
		DashboardHandler: handlers.NewDashboardHandler(nil),
	})
}

func routeSet(router *gin.Engine) map[string]bool {
	set := make(map[string]bool)
	for _, r := range router.Routes() {
		set[r.Method+" "+r.Path] = true
	}
	return set
}

func TestRouterStatusRoutesUsePut(t *testing.T) {
	routes := routeSet(newTestRouter())

	for _, path := range []string{
		"/api/properties/:id/status",
		"/api/leads/:id/status",
		"/api/deals/:id/status",
	} {
		require.True(t, routes[http.MethodPut+" "+path], "missing PUT %s", path)
		require.False(t, routes[http.MethodPatch+" "+path], "unexpected PATCH %s", path)
	}
}

func TestRouterDashboardSectionRoutes(t *testing.T) {
	routes := routeSet(newTestRouter())

	for _, path := range []string{
		"/api/dashboard",
		"/api/dashboard/stats",
		"/api/dashboard/recent-activity",
		"/api/dashboard/status-distribution",
		"/api/dashboard/monthly-revenue",
	} {
		require.True(t, routes[http.MethodGet+" "+path], "missing GET %s", path)
	}
}
