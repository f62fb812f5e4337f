package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/dto"
)

func seedClosedTrade(repo *fakeTradeRepo, id, userID, symbol string, entry, exit float64, exitAt time.Time) {
	repo.trades[id] = entity.Trade{
		ID: id, UserID: userID, Symbol: symbol, Direction: entity.DirectionLong,
		EntryPrice: entry, Quantity: 10, EntryDate: exitAt.Add(-time.Hour),
		ExitPrice: &exit, ExitDate: &exitAt, Status: entity.TradeClosed,
	}
}

func TestAnalyticsSummary(t *testing.T) {
	t.Parallel()

	repo := newFakeTradeRepo()
	svc := NewAnalyticsService(repo, testLogger())

	exitAt := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)
	seedClosedTrade(repo, "t1", "u1", "AAPL", 100, 120, exitAt) // +200
	seedClosedTrade(repo, "t2", "u1", "TSLA", 100, 90, exitAt)  // -100

	summary, err := svc.Summary(context.Background(), "u1", dto.AnalyticsFilter{})
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.ClosedCount)
	assert.InDelta(t, 50.0, summary.WinRate, 1e-9)
	assert.InDelta(t, 100.0, summary.TotalGross, 1e-9)
}

func TestAnalyticsMemoizationAndInvalidation(t *testing.T) {
	t.Parallel()

	repo := newFakeTradeRepo()
	svc := NewAnalyticsService(repo, testLogger())

	exitAt := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)
	seedClosedTrade(repo, "t1", "u1", "AAPL", 100, 120, exitAt)

	first, err := svc.Summary(context.Background(), "u1", dto.AnalyticsFilter{})
	assert.NoError(t, err)
	assert.Equal(t, 1, first.ClosedCount)

	// A mutation behind the cache's back is not visible until invalidation.
	seedClosedTrade(repo, "t2", "u1", "TSLA", 100, 90, exitAt)
	cached, err := svc.Summary(context.Background(), "u1", dto.AnalyticsFilter{})
	assert.NoError(t, err)
	assert.Equal(t, 1, cached.ClosedCount)

	svc.InvalidateUser("u1")
	fresh, err := svc.Summary(context.Background(), "u1", dto.AnalyticsFilter{})
	assert.NoError(t, err)
	assert.Equal(t, 2, fresh.ClosedCount)
}

func TestAnalyticsMonthFilter(t *testing.T) {
	t.Parallel()

	repo := newFakeTradeRepo()
	svc := NewAnalyticsService(repo, testLogger())

	june := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)
	july := time.Date(2025, 7, 3, 15, 0, 0, 0, time.UTC)
	seedClosedTrade(repo, "t1", "u1", "AAPL", 100, 120, june)
	seedClosedTrade(repo, "t2", "u1", "TSLA", 100, 90, july)

	summary, err := svc.Summary(context.Background(), "u1", dto.AnalyticsFilter{Month: "2025-06"})
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.ClosedCount)

	_, err = svc.Summary(context.Background(), "u1", dto.AnalyticsFilter{Month: "June"})
	assert.Error(t, err)
}

func TestAnalyticsSeriesDimensions(t *testing.T) {
	t.Parallel()

	repo := newFakeTradeRepo()
	svc := NewAnalyticsService(repo, testLogger())

	exitAt := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)
	seedClosedTrade(repo, "t1", "u1", "AAPL", 100, 120, exitAt)

	for _, dim := range []string{"day", "weekday", "hour", "symbol", "strategy", "emotion", "mistake"} {
		resp, err := svc.Series(context.Background(), "u1", dim, dto.AnalyticsFilter{})
		assert.NoError(t, err, dim)
		assert.Equal(t, dim, resp.Dimension)
	}

	_, err := svc.Series(context.Background(), "u1", "astrology", dto.AnalyticsFilter{})
	assert.Error(t, err)
}
