package service

import (
	"context"
	"testing"
	"time"

	"salesdesk-backend/internal/model"
	"salesdesk-backend/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestComputeChange(t *testing.T) {
	cases := []struct {
		name      string
		current   float64
		previous  float64
		wantPct   float64
		formatted string
	}{
		{"growth", 150, 100, 50, "+50.0%"},
		{"decline", 50, 100, -50, "-50.0%"},
		{"flat", 100, 100, 0, "+0.0%"},
		{"from zero", 10, 0, 100, "+100.0%"},
		{"both zero", 0, 0, 0, "+0.0%"},
		{"to zero", 0, 80, -100, "-100.0%"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			card := ComputeChange(tc.current, tc.previous)
			require.Equal(t, tc.current, card.Current)
			require.Equal(t, tc.previous, card.Previous)
			require.Equal(t, tc.current-tc.previous, card.Change)
			require.InDelta(t, tc.wantPct, card.ChangePercent, 0.0001)
			require.Equal(t, tc.formatted, card.Formatted)
		})
	}
}

func TestMonthWindows(t *testing.T) {
	now := time.Date(2026, time.March, 15, 14, 30, 0, 0, time.UTC)

	curStart, curEnd, prevStart, prevEnd := MonthWindows(now, time.UTC)

	require.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), curStart)
	require.Equal(t, now, curEnd)
	require.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), prevStart)
	require.Equal(t, curStart, prevEnd)
}

func TestMonthWindowsAcrossYearBoundary(t *testing.T) {
	now := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)

	curStart, _, prevStart, prevEnd := MonthWindows(now, time.UTC)

	require.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), curStart)
	require.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), prevStart)
	require.Equal(t, curStart, prevEnd)
}

type fakeStatsRepo struct {
	revenue   map[time.Time]float64
	orders    map[time.Time]int64
	customers map[time.Time]int64
	debt      float64
	top       []model.ProductRanking
}

func (f *fakeStatsRepo) RevenueBetween(_ context.Context, start, _ time.Time) (float64, error) {
	return f.revenue[start], nil
}

func (f *fakeStatsRepo) OrderCountBetween(_ context.Context, start, _ time.Time) (int64, error) {
	return f.orders[start], nil
}

func (f *fakeStatsRepo) NewCustomersBetween(_ context.Context, start, _ time.Time) (int64, error) {
	return f.customers[start], nil
}

func (f *fakeStatsRepo) DebtTotal(_ context.Context) (float64, error) {
	return f.debt, nil
}

func (f *fakeStatsRepo) TopProducts(_ context.Context, _, _ time.Time, limit int) ([]model.ProductRanking, error) {
	if len(f.top) > limit {
		return f.top[:limit], nil
	}
	return f.top, nil
}

type fakeLowStockCounter struct {
	repository.ProductRepository
	count int64
}

func (f *fakeLowStockCounter) CountLowStock(_ context.Context) (int64, error) {
	return f.count, nil
}

func TestGetDashboardComparesMonths(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	curStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	prevStart := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	statsRepo := &fakeStatsRepo{
		revenue:   map[time.Time]float64{curStart: 150, prevStart: 100},
		orders:    map[time.Time]int64{curStart: 30, prevStart: 20},
		customers: map[time.Time]int64{curStart: 5, prevStart: 10},
		debt:      42000,
		top: []model.ProductRanking{
			{ProductCode: "SKU-001", TotalQuantity: 12},
		},
	}

	svc := NewStatisticsService(statsRepo, &fakeLowStockCounter{count: 3}, time.UTC)

	dash, err := svc.GetDashboard(context.Background(), now)
	require.NoError(t, err)

	require.Equal(t, "+50.0%", dash.Revenue.Formatted)
	require.Equal(t, "+50.0%", dash.Orders.Formatted)
	require.Equal(t, "-50.0%", dash.NewCustomers.Formatted)
	require.Equal(t, 42000.0, dash.DebtTotal)
	require.EqualValues(t, 3, dash.LowStockCount)
	require.Len(t, dash.TopProducts, 1)
	require.Equal(t, curStart, dash.PeriodStart)
	require.Equal(t, prevStart, dash.PreviousStart)
}
