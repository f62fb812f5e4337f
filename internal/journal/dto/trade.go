package dto

import (
	"time"

	"trading-journal/internal/entity"
)

// CreateTradeRequest is the payload for logging a new trade. Supplying exit
// price and date closes the trade immediately.
type CreateTradeRequest struct {
	Symbol    string `json:"symbol"`
	AssetType string `json:"asset_type"`

	StrikePrice    *float64   `json:"strike_price,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	OptionType     *string    `json:"option_type,omitempty"`

	Direction  string    `json:"direction"`
	EntryPrice float64   `json:"entry_price"`
	Quantity   float64   `json:"quantity"`
	EntryDate  time.Time `json:"entry_date"`

	ExitPrice *float64   `json:"exit_price,omitempty"`
	ExitDate  *time.Time `json:"exit_date,omitempty"`

	Fees  float64 `json:"fees"`
	Notes string  `json:"notes"`

	Strategies  []string `json:"strategies"`
	Emotions    []string `json:"emotions"`
	Mistakes    []string `json:"mistakes"`
	Screenshots []string `json:"screenshots"`
}

// UpdateTradeRequest carries a full replacement of the editable trade fields.
type UpdateTradeRequest = CreateTradeRequest

// CloseTradeRequest realizes an open trade.
type CloseTradeRequest struct {
	ExitPrice float64    `json:"exit_price"`
	ExitDate  *time.Time `json:"exit_date,omitempty"`
	Fees      *float64   `json:"fees,omitempty"`
}

// TradeResponse is a trade enriched with derived P&L figures.
type TradeResponse struct {
	entity.Trade
	GrossPnL    float64 `json:"gross_pnl"`
	NetPnL      float64 `json:"net_pnl"`
	CapitalUsed float64 `json:"capital_used"`
}

// ListTradesFilter narrows trade queries.
type ListTradesFilter struct {
	Symbol string     `query:"symbol"`
	Status string     `query:"status"`
	From   *time.Time `query:"from"`
	To     *time.Time `query:"to"`
}
