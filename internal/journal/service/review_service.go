package service

import (
	"context"
	"fmt"
	"time"

	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/repository"
	"trading-journal/pkg/logger"
	"trading-journal/pkg/utils"
)

// ReviewService produces AI coaching content and attaches single-trade
// reviews to their trades.
type ReviewService interface {
	ReviewTrade(ctx context.Context, userID, tradeID string) (*dto.TradeReviewResponse, error)
	WeeklySummary(ctx context.Context, userID string, weekOf time.Time) (*dto.WeeklySummaryResponse, error)
	Ask(ctx context.Context, userID string, req *dto.AskRequest) (*dto.AskResponse, error)
}

// NewReviewService creates a new review service.
func NewReviewService(tradeRepo repository.TradeRepository, aiRepo repository.AIRepository, invalidator AnalyticsInvalidator, logger *logger.Logger) ReviewService {
	return &reviewService{
		tradeRepo:   tradeRepo,
		aiRepo:      aiRepo,
		invalidator: invalidator,
		logger:      logger,
	}
}

type reviewService struct {
	tradeRepo   repository.TradeRepository
	aiRepo      repository.AIRepository
	invalidator AnalyticsInvalidator
	logger      *logger.Logger
}

// ReviewTrade generates a structured review for one trade and persists it on
// the trade record.
func (s *reviewService) ReviewTrade(ctx context.Context, userID, tradeID string) (*dto.TradeReviewResponse, error) {
	trade, err := s.tradeRepo.FindByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.UserID != userID {
		return nil, fmt.Errorf("trade %s does not belong to the caller", tradeID)
	}

	result, err := s.aiRepo.ReviewTrade(ctx, trade)
	if err != nil {
		s.logger.Error("Failed to generate trade review", logger.ErrorField(err), logger.StringField("trade_id", tradeID))
		return nil, err
	}

	now := time.Now()
	trade.AIScore = &result.Score
	trade.AIWell = result.Well
	trade.AIWrong = result.Wrong
	trade.AIImprovement = result.Improvement
	trade.AIRuleViolation = &result.RuleViolation
	trade.AIGeneratedAt = &now

	if err := s.tradeRepo.Upsert(ctx, trade); err != nil {
		s.logger.Error("Failed to persist trade review", logger.ErrorField(err), logger.StringField("trade_id", tradeID))
		return nil, err
	}
	s.invalidator.InvalidateUser(userID)

	s.logger.Info("Trade review generated",
		logger.StringField("trade_id", tradeID),
		logger.IntField("score", result.Score))

	return &dto.TradeReviewResponse{
		TradeID:       tradeID,
		Score:         result.Score,
		Well:          result.Well,
		Wrong:         result.Wrong,
		RuleViolation: result.RuleViolation,
		Improvement:   result.Improvement,
		GeneratedAt:   now,
	}, nil
}

// WeeklySummary generates free-form coaching text over the calendar week
// containing weekOf.
func (s *reviewService) WeeklySummary(ctx context.Context, userID string, weekOf time.Time) (*dto.WeeklySummaryResponse, error) {
	start, end := utils.WeekRange(weekOf)
	trades, err := s.tradeRepo.FindByUser(ctx, userID, repository.TradeFilter{From: &start, To: &end})
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return &dto.WeeklySummaryResponse{
			WeekStart: start,
			WeekEnd:   end,
			Summary:   "No trades journaled this week.",
		}, nil
	}

	summary, err := s.aiRepo.SummarizeWeek(ctx, trades)
	if err != nil {
		s.logger.Error("Failed to generate weekly summary", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}

	return &dto.WeeklySummaryResponse{
		WeekStart: start,
		WeekEnd:   end,
		Trades:    len(trades),
		Summary:   summary,
	}, nil
}

// Ask answers a natural-language question over the full trade history.
func (s *reviewService) Ask(ctx context.Context, userID string, req *dto.AskRequest) (*dto.AskResponse, error) {
	if req.Question == "" {
		return nil, fmt.Errorf("question is required")
	}

	trades, err := s.tradeRepo.FindByUser(ctx, userID, repository.TradeFilter{})
	if err != nil {
		return nil, err
	}

	answer, err := s.aiRepo.Ask(ctx, req.Question, trades)
	if err != nil {
		s.logger.Error("Failed to answer journal question", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}
	return &dto.AskResponse{Answer: answer}, nil
}
