package dto

import (
	"fmt"
	"time"

	"trading-journal/internal/pnl"
)

// AnalyticsFilter narrows the trade set feeding a dashboard view. Month, when
// set ("2006-01"), overrides From/To.
type AnalyticsFilter struct {
	From  *time.Time `query:"from"`
	To    *time.Time `query:"to"`
	Month string     `query:"month"`
}

// CacheKey renders a stable key for memoizing the filtered view.
func (f AnalyticsFilter) CacheKey() string {
	from, to := "", ""
	if f.From != nil {
		from = f.From.Format(time.RFC3339)
	}
	if f.To != nil {
		to = f.To.Format(time.RFC3339)
	}
	return fmt.Sprintf("%s|%s|%s", from, to, f.Month)
}

// SummaryResponse is the headline dashboard block.
type SummaryResponse struct {
	pnl.Stats
}

// SeriesResponse is a chart-ready bucketed breakdown.
type SeriesResponse struct {
	Dimension string       `json:"dimension"`
	Buckets   []pnl.Bucket `json:"buckets"`
}

// EquityCurveResponse is the cumulative net P&L series.
type EquityCurveResponse struct {
	Points []pnl.EquityPoint `json:"points"`
}
