package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dealflowhq/dealflow-backend/internal/domain/dashboard"
	"github.com/dealflowhq/dealflow-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func dashboardQuery(c *gin.Context) services.DashboardQuery {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "6"))
	activityLimit, _ := strconv.Atoi(c.DefaultQuery("activity_limit", "10"))
	return services.DashboardQuery{Months: months, ActivityLimit: activityLimit}
}

func (dh *DashboardHandler) compute(c *gin.Context) (*dashboard.Dashboard, bool) {
	result, err := dh.dashboardService.Get(c.Request.Context(), dashboardQuery(c))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return result, true
}

// Get returns every rollup in one payload.
func (dh *DashboardHandler) Get(c *gin.Context) {
	if result, ok := dh.compute(c); ok {
		c.JSON(http.StatusOK, result)
	}
}

func (dh *DashboardHandler) Stats(c *gin.Context) {
	if result, ok := dh.compute(c); ok {
		c.JSON(http.StatusOK, result.Summary)
	}
}

func (dh *DashboardHandler) StatusDistribution(c *gin.Context) {
	if result, ok := dh.compute(c); ok {
		c.JSON(http.StatusOK, result.Distributions)
	}
}

func (dh *DashboardHandler) MonthlyRevenue(c *gin.Context) {
	if result, ok := dh.compute(c); ok {
		c.JSON(http.StatusOK, result.MonthlyRevenue)
	}
}

func (dh *DashboardHandler) RecentActivity(c *gin.Context) {
	if result, ok := dh.compute(c); ok {
		c.JSON(http.StatusOK, result.RecentActivity)
	}
}
