package dto

import "github.com/rawa-tech/zagros-erp/internal/models"

// DashboardResponse captures the aggregated dashboard payload: the stat cards
// across the top plus the monthly revenue chart.
type DashboardResponse struct {
	Cards DashboardCards        `json:"cards"`
	Chart []models.MonthlySales `json:"chart"`
}

// DashboardCards mirrors the summary cards of the dashboard page.
type DashboardCards struct {
	ProductCount  int     `json:"productCount"`
	LowStockCount int     `json:"lowStockCount"`
	CustomerCount int     `json:"customerCount"`
	PendingOrders int     `json:"pendingOrders"`
	TodaySales    float64 `json:"todaySales"`
	TodayOrders   int     `json:"todayOrders"`
}
