package pnl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trading-journal/internal/entity"
)

func TestByStrategyDoubleCountsMultiTagTrades(t *testing.T) {
	t.Parallel()

	exitAt := time.Date(2025, 5, 6, 10, 0, 0, 0, time.UTC)
	trade := closedTrade(entity.DirectionLong, 100, 120, 10, 0, exitAt) // +200
	trade.Strategies = []string{"Breakout", "Scalp"}

	buckets := ByStrategy([]entity.Trade{trade})
	assert.Len(t, buckets, 2)

	var sum float64
	for _, b := range buckets {
		assert.InDelta(t, 200.0, b.PnL, 1e-9)
		assert.Equal(t, 1, b.Count)
		sum += b.PnL
	}
	// Sum across multi-tag buckets exceeds portfolio P&L. Expected.
	assert.InDelta(t, 400.0, sum, 1e-9)
}

func TestBySymbolSortedByPnLDescending(t *testing.T) {
	t.Parallel()

	exitAt := time.Date(2025, 5, 6, 10, 0, 0, 0, time.UTC)
	a := closedTrade(entity.DirectionLong, 100, 105, 10, 0, exitAt) // +50
	a.Symbol = "AAPL"
	b := closedTrade(entity.DirectionLong, 100, 130, 10, 0, exitAt) // +300
	b.Symbol = "TSLA"
	c := closedTrade(entity.DirectionLong, 100, 90, 10, 0, exitAt) // -100
	c.Symbol = "MSFT"

	buckets := BySymbol([]entity.Trade{a, b, c})
	assert.Equal(t, []string{"TSLA", "AAPL", "MSFT"}, []string{buckets[0].Key, buckets[1].Key, buckets[2].Key})
	assert.InDelta(t, 100.0, buckets[0].WinRate, 1e-9)
	assert.Zero(t, buckets[2].WinRate)
}

func TestByWeekdayNaturalOrder(t *testing.T) {
	t.Parallel()

	// Monday and Wednesday entries.
	mon := time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)
	wed := time.Date(2025, 5, 7, 14, 0, 0, 0, time.UTC)

	t1 := closedTrade(entity.DirectionLong, 10, 11, 1, 0, mon.Add(time.Hour))
	t1.EntryDate = mon
	t2 := closedTrade(entity.DirectionLong, 10, 12, 1, 0, wed.Add(time.Hour))
	t2.EntryDate = wed

	buckets := ByWeekday([]entity.Trade{t2, t1})
	assert.Equal(t, "Monday", buckets[0].Key)
	assert.Equal(t, "Wednesday", buckets[1].Key)
}

func TestByHourAndByDay(t *testing.T) {
	t.Parallel()

	at := func(day, hour int) time.Time {
		return time.Date(2025, 5, day, hour, 15, 0, 0, time.UTC)
	}

	t1 := closedTrade(entity.DirectionLong, 10, 11, 1, 0, at(2, 16))
	t1.EntryDate = at(2, 9)
	t2 := closedTrade(entity.DirectionLong, 10, 9, 1, 0, at(1, 16))
	t2.EntryDate = at(1, 15)

	hours := ByHour([]entity.Trade{t1, t2})
	assert.Equal(t, "09", hours[0].Key)
	assert.Equal(t, "15", hours[1].Key)

	days := ByDay([]entity.Trade{t1, t2})
	assert.Equal(t, "2025-05-01", days[0].Key)
	assert.Equal(t, "2025-05-02", days[1].Key)
	assert.InDelta(t, -1.0, days[0].PnL, 1e-9)
}

func TestBucketsSkipOpenTrades(t *testing.T) {
	t.Parallel()

	open := entity.Trade{
		Symbol:     "NVDA",
		Status:     entity.TradeOpen,
		EntryPrice: 100,
		Quantity:   1,
		EntryDate:  time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
		Strategies: []string{"Swing"},
	}
	assert.Empty(t, BySymbol([]entity.Trade{open}))
	assert.Empty(t, ByStrategy([]entity.Trade{open}))
}
