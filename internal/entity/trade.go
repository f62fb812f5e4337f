package entity

import (
	"time"

	"gorm.io/datatypes"
)

// AssetType classifies the traded instrument.
type AssetType string

const (
	AssetStock  AssetType = "STOCK"
	AssetOption AssetType = "OPTION"
)

// OptionType is the option contract kind, set only for OPTION trades.
type OptionType string

const (
	OptionCall OptionType = "CALL"
	OptionPut  OptionType = "PUT"
)

// TradeDirection is the position side.
type TradeDirection string

const (
	DirectionLong  TradeDirection = "LONG"
	DirectionShort TradeDirection = "SHORT"
)

// TradeStatus tracks the trade lifecycle.
type TradeStatus string

const (
	TradeOpen   TradeStatus = "OPEN"
	TradeClosed TradeStatus = "CLOSED"
)

// Trade is a single journaled trade.
type Trade struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"index;not null" json:"user_id"`

	Symbol    string    `gorm:"not null" json:"symbol"`
	AssetType AssetType `gorm:"not null;default:STOCK" json:"asset_type"`

	// Option details, nil for stock trades.
	StrikePrice    *float64    `json:"strike_price,omitempty"`
	ExpirationDate *time.Time  `json:"expiration_date,omitempty"`
	OptionType     *OptionType `json:"option_type,omitempty"`

	Direction  TradeDirection `gorm:"not null" json:"direction"`
	EntryPrice float64        `gorm:"not null" json:"entry_price"`
	Quantity   float64        `gorm:"not null" json:"quantity"`
	EntryDate  time.Time      `gorm:"not null" json:"entry_date"`

	ExitPrice *float64    `json:"exit_price,omitempty"`
	ExitDate  *time.Time  `json:"exit_date,omitempty"`
	Status    TradeStatus `gorm:"not null;default:OPEN" json:"status"`

	Fees  float64 `gorm:"not null;default:0" json:"fees"`
	Notes string  `json:"notes"`

	Strategies  datatypes.JSONSlice[string] `json:"strategies"`
	Emotions    datatypes.JSONSlice[string] `json:"emotions"`
	Mistakes    datatypes.JSONSlice[string] `json:"mistakes"`
	Screenshots datatypes.JSONSlice[string] `json:"screenshots"`

	// AI coaching review, populated on demand.
	AIScore         *int       `json:"ai_score,omitempty"`
	AIWell          string     `json:"ai_well,omitempty"`
	AIWrong         string     `json:"ai_wrong,omitempty"`
	AIImprovement   string     `json:"ai_improvement,omitempty"`
	AIRuleViolation *bool      `json:"ai_rule_violation,omitempty"`
	AIGeneratedAt   *time.Time `json:"ai_generated_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Trade) TableName() string {
	return "trades"
}

// IsClosed reports whether the trade has fully realized. A CLOSED status with
// missing exit fields is treated as open so downstream math stays total.
func (t *Trade) IsClosed() bool {
	return t.Status == TradeClosed && t.ExitPrice != nil && t.ExitDate != nil
}
