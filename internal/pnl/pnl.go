// Package pnl computes profit/loss metrics over journaled trades. All
// functions are pure and total: malformed trades degrade to zero contribution
// rather than erroring.
package pnl

import (
	"math"
	"sort"
	"time"

	"trading-journal/internal/entity"
	"trading-journal/pkg/common"
)

// RatioUndefined is returned for reward/risk and profit factor when there are
// wins but no losses, signaling "no downside observed" to the dashboard.
const RatioUndefined = 99.0

// Gross returns the profit/loss from price movement alone, before fees.
// Open trades contribute 0 by convention. Option trades are valued per unit;
// the contract lot size is applied only by CapitalUsed.
func Gross(t *entity.Trade) float64 {
	if !t.IsClosed() {
		return 0
	}
	entryTotal := t.EntryPrice * t.Quantity
	exitTotal := *t.ExitPrice * t.Quantity
	if t.Direction == entity.DirectionShort {
		return entryTotal - exitTotal
	}
	return exitTotal - entryTotal
}

// Net returns gross P&L minus fees. For an open trade this is -fees.
func Net(t *entity.Trade) float64 {
	return Gross(t) - t.Fees
}

// CapitalUsed returns the notional capital committed at entry. Option trades
// are scaled by the contract lot size.
func CapitalUsed(t *entity.Trade) float64 {
	capital := t.EntryPrice * t.Quantity
	if t.AssetType == entity.AssetOption {
		capital *= common.OptionLotSize
	}
	return capital
}

// Stats summarizes realized performance over a trade collection.
type Stats struct {
	ClosedCount  int     `json:"closed_count"`
	OpenCount    int     `json:"open_count"`
	WinCount     int     `json:"win_count"`
	LossCount    int     `json:"loss_count"`
	WinRate      float64 `json:"win_rate"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	RewardRisk   float64 `json:"reward_risk"`
	ProfitFactor float64 `json:"profit_factor"`
	TotalGross   float64 `json:"total_gross"`
	TotalNet     float64 `json:"total_net"`
	TotalFees    float64 `json:"total_fees"`
}

// Compute aggregates closed trades into summary statistics. Trades with
// exactly zero gross P&L count as neither win nor loss.
func Compute(trades []entity.Trade) Stats {
	var s Stats
	var winSum, lossSum float64

	for i := range trades {
		t := &trades[i]
		if !t.IsClosed() {
			s.OpenCount++
			continue
		}
		s.ClosedCount++
		gross := Gross(t)
		s.TotalGross += gross
		s.TotalNet += Net(t)
		s.TotalFees += t.Fees
		switch {
		case gross > 0:
			s.WinCount++
			winSum += gross
		case gross < 0:
			s.LossCount++
			lossSum += math.Abs(gross)
		}
	}

	if s.ClosedCount > 0 {
		s.WinRate = float64(s.WinCount) / float64(s.ClosedCount) * 100
	}
	if s.WinCount > 0 {
		s.AvgWin = winSum / float64(s.WinCount)
	}
	if s.LossCount > 0 {
		s.AvgLoss = lossSum / float64(s.LossCount)
	}
	s.RewardRisk = safeRatio(s.AvgWin, s.AvgLoss, s.WinCount)
	s.ProfitFactor = safeRatio(winSum, lossSum, s.WinCount)
	return s
}

// safeRatio divides win by loss with the zero-loss sentinel rule.
func safeRatio(win, loss float64, winCount int) float64 {
	if loss == 0 {
		if winCount > 0 {
			return RatioUndefined
		}
		return 0
	}
	return win / loss
}

// EquityPoint is one step of the cumulative net P&L curve.
type EquityPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// EquityCurve returns the running cumulative net P&L of closed trades,
// ordered by exit date ascending, one point per trade.
func EquityCurve(trades []entity.Trade) []EquityPoint {
	closed := make([]*entity.Trade, 0, len(trades))
	for i := range trades {
		if trades[i].IsClosed() {
			closed = append(closed, &trades[i])
		}
	}
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].ExitDate.Before(*closed[j].ExitDate)
	})

	points := make([]EquityPoint, 0, len(closed))
	var running float64
	for _, t := range closed {
		running += Net(t)
		points = append(points, EquityPoint{Date: *t.ExitDate, Value: running})
	}
	return points
}
