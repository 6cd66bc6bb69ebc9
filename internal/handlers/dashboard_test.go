package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dealflowhq/dealflow-backend/internal/domain/dashboard"
	"github.com/dealflowhq/dealflow-backend/internal/services"
)

type stubDashboardService struct {
	lastQuery services.DashboardQuery
	result    *dashboard.Dashboard
	err       error
}

func (s *stubDashboardService) Get(_ context.Context, q services.DashboardQuery) (*dashboard.Dashboard, error) {
	s.lastQuery = q
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newDashboardRig(result *dashboard.Dashboard) (*stubDashboardService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	stub := &stubDashboardService{result: result}
	dh := NewDashboardHandler(stub)
	router := gin.New()
	router.GET("/dashboard", dh.Get)
	router.GET("/dashboard/stats", dh.Stats)
	router.GET("/dashboard/recent-activity", dh.RecentActivity)
	router.GET("/dashboard/status-distribution", dh.StatusDistribution)
	router.GET("/dashboard/monthly-revenue", dh.MonthlyRevenue)
	return stub, router
}

func cannedDashboard() *dashboard.Dashboard {
	return &dashboard.Dashboard{
		MonthlyRevenue: []dashboard.MonthRevenue{
			{Month: "2026-07", Revenue: decimal.RequireFromString("12500")},
			{Month: "2026-08", Revenue: decimal.Zero},
		},
		Summary: dashboard.Summary{
			TotalProperties:     3,
			TotalDeals:          2,
			TotalRevenue:        decimal.RequireFromString("12500"),
			CurrentMonthRevenue: decimal.Zero,
		},
	}
}

func getJSON(t *testing.T, router *gin.Engine, path string, out any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestDashboardStatsReturnsSummarySection(t *testing.T) {
	_, router := newDashboardRig(cannedDashboard())

	var got dashboard.Summary
	getJSON(t, router, "/dashboard/stats", &got)
	require.Equal(t, 3, got.TotalProperties)
	require.Equal(t, 2, got.TotalDeals)
	require.True(t, got.TotalRevenue.Equal(decimal.RequireFromString("12500")))
}

func TestDashboardMonthlyRevenueReturnsSeries(t *testing.T) {
	stub, router := newDashboardRig(cannedDashboard())

	var got []dashboard.MonthRevenue
	getJSON(t, router, "/dashboard/monthly-revenue?months=12", &got)
	require.Len(t, got, 2)
	require.Equal(t, "2026-07", got[0].Month)
	require.Equal(t, 12, stub.lastQuery.Months)
}

func TestDashboardSectionRoutesDefaultQuery(t *testing.T) {
	stub, router := newDashboardRig(cannedDashboard())

	var dist dashboard.Distributions
	getJSON(t, router, "/dashboard/status-distribution", &dist)
	require.Equal(t, 6, stub.lastQuery.Months)
	require.Equal(t, 10, stub.lastQuery.ActivityLimit)

	var activity []dashboard.Activity
	getJSON(t, router, "/dashboard/recent-activity?activity_limit=5", &activity)
	require.Equal(t, 5, stub.lastQuery.ActivityLimit)
}
