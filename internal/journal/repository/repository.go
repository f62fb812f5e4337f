package repository

import (
	"context"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/dto"
)

// AIRepository defines the interface for the coaching-advisory backend.
type AIRepository interface {
	// ReviewTrade produces a structured coaching review of one closed trade.
	ReviewTrade(ctx context.Context, trade *entity.Trade) (*dto.TradeReviewResult, error)
	// SummarizeWeek produces free-form coaching text over a week of trades.
	SummarizeWeek(ctx context.Context, trades []entity.Trade) (string, error)
	// Ask answers a natural-language question over the user's trade history.
	Ask(ctx context.Context, question string, trades []entity.Trade) (string, error)
}
