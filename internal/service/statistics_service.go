package service

import (
	"context"
	"fmt"
	"time"

	"salesdesk-backend/internal/model"
	"salesdesk-backend/internal/repository"
)

type StatisticsService interface {
	GetDashboard(ctx context.Context, now time.Time) (model.DashboardResponse, error)
}

type statisticsService struct {
	statsRepo   repository.StatisticsRepository
	productRepo repository.ProductRepository
	// loc anchors the calendar-month windows; month boundaries shift with
	// the reference timezone
	loc *time.Location
}

func NewStatisticsService(statsRepo repository.StatisticsRepository, productRepo repository.ProductRepository, loc *time.Location) StatisticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &statisticsService{statsRepo: statsRepo, productRepo: productRepo, loc: loc}
}

// ComputeChange derives the period-over-period movement of a metric.
// previous == 0 is treated as +100% when anything appeared, 0% when both
// periods are empty. Formatted always carries an explicit sign with one
// decimal place ("+50.0%", "-3.0%").
func ComputeChange(current, previous float64) model.MetricCard {
	change := current - previous

	var pct float64
	switch {
	case previous == 0 && current == 0:
		pct = 0
	case previous == 0:
		pct = 100
	default:
		pct = change / previous * 100
	}

	return model.MetricCard{
		Current:       current,
		Previous:      previous,
		Change:        change,
		ChangePercent: pct,
		Formatted:     fmt.Sprintf("%+.1f%%", pct),
	}
}

// MonthWindows returns [currentStart, currentEnd) and [previousStart,
// previousEnd) where the current window is the month containing now
// (month-to-date) and the previous window is the whole preceding calendar
// month, both in the reference timezone.
func MonthWindows(now time.Time, loc *time.Location) (curStart, curEnd, prevStart, prevEnd time.Time) {
	local := now.In(loc)
	curStart = time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	curEnd = local
	prevStart = curStart.AddDate(0, -1, 0)
	prevEnd = curStart
	return
}

func (s *statisticsService) GetDashboard(ctx context.Context, now time.Time) (model.DashboardResponse, error) {
	curStart, curEnd, prevStart, prevEnd := MonthWindows(now, s.loc)

	curRevenue, err := s.statsRepo.RevenueBetween(ctx, curStart, curEnd)
	if err != nil {
		return model.DashboardResponse{}, err
	}
	prevRevenue, err := s.statsRepo.RevenueBetween(ctx, prevStart, prevEnd)
	if err != nil {
		return model.DashboardResponse{}, err
	}

	curOrders, err := s.statsRepo.OrderCountBetween(ctx, curStart, curEnd)
	if err != nil {
		return model.DashboardResponse{}, err
	}
	prevOrders, err := s.statsRepo.OrderCountBetween(ctx, prevStart, prevEnd)
	if err != nil {
		return model.DashboardResponse{}, err
	}

	curCustomers, err := s.statsRepo.NewCustomersBetween(ctx, curStart, curEnd)
	if err != nil {
		return model.DashboardResponse{}, err
	}
	prevCustomers, err := s.statsRepo.NewCustomersBetween(ctx, prevStart, prevEnd)
	if err != nil {
		return model.DashboardResponse{}, err
	}

	debtTotal, err := s.statsRepo.DebtTotal(ctx)
	if err != nil {
		return model.DashboardResponse{}, err
	}

	lowStockCount, err := s.productRepo.CountLowStock(ctx)
	if err != nil {
		return model.DashboardResponse{}, err
	}

	topProducts, err := s.statsRepo.TopProducts(ctx, curStart, curEnd, 5)
	if err != nil {
		return model.DashboardResponse{}, err
	}

	return model.DashboardResponse{
		Revenue:       ComputeChange(curRevenue, prevRevenue),
		Orders:        ComputeChange(float64(curOrders), float64(prevOrders)),
		NewCustomers:  ComputeChange(float64(curCustomers), float64(prevCustomers)),
		DebtTotal:     debtTotal,
		LowStockCount: lowStockCount,
		TopProducts:   topProducts,
		PeriodStart:   curStart,
		PeriodEnd:     curEnd,
		PreviousStart: prevStart,
		PreviousEnd:   prevEnd,
	}, nil
}
