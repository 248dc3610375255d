package model

import (
	"time"
)

// MetricCard is one dashboard card: a current-period value compared against the
// previous calendar month. Formatted carries the signed percentage string
// rendered server-side ("+12.5%", "-3.0%").
type MetricCard struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Formatted     string  `json:"formatted"`
}

// DashboardResponse aggregates period-over-period cards plus standing totals
type DashboardResponse struct {
	Revenue       MetricCard       `json:"revenue"`
	Orders        MetricCard       `json:"orders"`
	NewCustomers  MetricCard       `json:"new_customers"`
	DebtTotal     float64          `json:"debt_total"`
	LowStockCount int64            `json:"low_stock_count"`
	TopProducts   []ProductRanking `json:"top_products"`
	PeriodStart   time.Time        `json:"period_start"`
	PeriodEnd     time.Time        `json:"period_end"`
	PreviousStart time.Time        `json:"previous_start"`
	PreviousEnd   time.Time        `json:"previous_end"`
}

// ProductRanking represents a ranked product based on accumulated sold quantities
type ProductRanking struct {
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name"`
	ProductCode   string  `json:"product_code"`
	TotalQuantity int     `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
}
