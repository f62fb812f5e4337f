package pnl

import (
	"fmt"
	"sort"

	"trading-journal/internal/entity"
)

// Bucket is one row of a grouped performance breakdown.
type Bucket struct {
	Key      string  `json:"key"`
	Count    int     `json:"count"`
	WinCount int     `json:"win_count"`
	PnL      float64 `json:"pnl"`
	WinRate  float64 `json:"win_rate"`
}

// accumulate folds one closed trade into the bucket keyed by key.
func accumulate(buckets map[string]*Bucket, key string, gross float64) {
	b, ok := buckets[key]
	if !ok {
		b = &Bucket{Key: key}
		buckets[key] = b
	}
	b.Count++
	if gross > 0 {
		b.WinCount++
	}
	b.PnL += gross
}

func finish(buckets map[string]*Bucket) []Bucket {
	out := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Count > 0 {
			b.WinRate = float64(b.WinCount) / float64(b.Count) * 100
		}
		out = append(out, *b)
	}
	return out
}

// byPnLDesc orders buckets from most to least profitable, key ascending on ties.
func byPnLDesc(buckets []Bucket) []Bucket {
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].PnL != buckets[j].PnL {
			return buckets[i].PnL > buckets[j].PnL
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

func byKeyAsc(buckets []Bucket) []Bucket {
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

// groupBy buckets closed trades by the keys that keyFn derives from each
// trade. A trade carrying several keys (multi-valued tags) contributes its
// full P&L to every bucket, so bucket sums may exceed portfolio P&L.
func groupBy(trades []entity.Trade, keyFn func(*entity.Trade) []string) map[string]*Bucket {
	buckets := make(map[string]*Bucket)
	for i := range trades {
		t := &trades[i]
		if !t.IsClosed() {
			continue
		}
		gross := Gross(t)
		for _, key := range keyFn(t) {
			accumulate(buckets, key, gross)
		}
	}
	return buckets
}

// BySymbol breaks performance down per ticker, most profitable first.
func BySymbol(trades []entity.Trade) []Bucket {
	return byPnLDesc(finish(groupBy(trades, func(t *entity.Trade) []string {
		return []string{t.Symbol}
	})))
}

// ByStrategy breaks performance down per strategy tag, most profitable first.
func ByStrategy(trades []entity.Trade) []Bucket {
	return byPnLDesc(finish(groupBy(trades, func(t *entity.Trade) []string {
		return t.Strategies
	})))
}

// ByEmotion breaks performance down per emotion tag, most profitable first.
func ByEmotion(trades []entity.Trade) []Bucket {
	return byPnLDesc(finish(groupBy(trades, func(t *entity.Trade) []string {
		return t.Emotions
	})))
}

// ByMistake breaks performance down per mistake tag, most profitable first.
func ByMistake(trades []entity.Trade) []Bucket {
	return byPnLDesc(finish(groupBy(trades, func(t *entity.Trade) []string {
		return t.Mistakes
	})))
}

// ByWeekday buckets by the weekday of the entry date, Sunday through Saturday.
func ByWeekday(trades []entity.Trade) []Bucket {
	buckets := groupBy(trades, func(t *entity.Trade) []string {
		return []string{fmt.Sprintf("%d-%s", int(t.EntryDate.Weekday()), t.EntryDate.Weekday().String())}
	})
	out := finish(buckets)
	out = byKeyAsc(out)
	// Strip the ordering prefix from the display key.
	for i := range out {
		out[i].Key = out[i].Key[2:]
	}
	return out
}

// ByHour buckets by the hour of the entry date, 00 through 23.
func ByHour(trades []entity.Trade) []Bucket {
	return byKeyAsc(finish(groupBy(trades, func(t *entity.Trade) []string {
		return []string{fmt.Sprintf("%02d", t.EntryDate.Hour())}
	})))
}

// ByDay buckets by the calendar day of the exit date, ascending.
func ByDay(trades []entity.Trade) []Bucket {
	return byKeyAsc(finish(groupBy(trades, func(t *entity.Trade) []string {
		return []string{t.ExitDate.Format("2006-01-02")}
	})))
}
