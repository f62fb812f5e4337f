package service

import (
	"context"
	"fmt"
	"time"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/repository"
	"trading-journal/internal/pnl"
	"trading-journal/pkg/logger"
	"trading-journal/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
)

// AnalyticsService computes dashboard views over a user's trades. Views are
// pure functions of (trades, filter) memoized per user and invalidated on any
// trade mutation.
type AnalyticsService interface {
	Summary(ctx context.Context, userID string, filter dto.AnalyticsFilter) (*dto.SummaryResponse, error)
	EquityCurve(ctx context.Context, userID string, filter dto.AnalyticsFilter) (*dto.EquityCurveResponse, error)
	Series(ctx context.Context, userID, dimension string, filter dto.AnalyticsFilter) (*dto.SeriesResponse, error)
	InvalidateUser(userID string)
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(tradeRepo repository.TradeRepository, logger *logger.Logger) AnalyticsService {
	return &analyticsService{
		tradeRepo: tradeRepo,
		logger:    logger,
		cache:     gocache.New(5*time.Minute, 10*time.Minute),
	}
}

type analyticsService struct {
	tradeRepo repository.TradeRepository
	logger    *logger.Logger
	cache     *gocache.Cache
}

// Summary returns the headline statistics for the filtered trade set.
func (s *analyticsService) Summary(ctx context.Context, userID string, filter dto.AnalyticsFilter) (*dto.SummaryResponse, error) {
	key := cacheKey(userID, "summary", filter)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*dto.SummaryResponse), nil
	}

	trades, err := s.loadTrades(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.SummaryResponse{Stats: pnl.Compute(trades)}
	s.cache.SetDefault(key, resp)
	return resp, nil
}

// EquityCurve returns the cumulative net P&L series for the filtered set.
func (s *analyticsService) EquityCurve(ctx context.Context, userID string, filter dto.AnalyticsFilter) (*dto.EquityCurveResponse, error) {
	key := cacheKey(userID, "equity", filter)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*dto.EquityCurveResponse), nil
	}

	trades, err := s.loadTrades(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.EquityCurveResponse{Points: pnl.EquityCurve(trades)}
	s.cache.SetDefault(key, resp)
	return resp, nil
}

// Series returns a bucketed breakdown along the named dimension.
func (s *analyticsService) Series(ctx context.Context, userID, dimension string, filter dto.AnalyticsFilter) (*dto.SeriesResponse, error) {
	group, err := bucketFn(dimension)
	if err != nil {
		return nil, err
	}

	key := cacheKey(userID, dimension, filter)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*dto.SeriesResponse), nil
	}

	trades, err := s.loadTrades(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.SeriesResponse{Dimension: dimension, Buckets: group(trades)}
	s.cache.SetDefault(key, resp)
	return resp, nil
}

// InvalidateUser drops every memoized view for the user.
func (s *analyticsService) InvalidateUser(userID string) {
	prefix := userID + ":"
	for key := range s.cache.Items() {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			s.cache.Delete(key)
		}
	}
}

func (s *analyticsService) loadTrades(ctx context.Context, userID string, filter dto.AnalyticsFilter) ([]entity.Trade, error) {
	from, to := filter.From, filter.To
	if filter.Month != "" {
		monthStart, err := time.Parse("2006-01", filter.Month)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q, want YYYY-MM", filter.Month)
		}
		start, end := utils.MonthRange(monthStart)
		from, to = &start, &end
	}

	trades, err := s.tradeRepo.FindByUser(ctx, userID, repository.TradeFilter{From: from, To: to})
	if err != nil {
		s.logger.Error("Failed to load trades for analytics", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}
	return trades, nil
}

func bucketFn(dimension string) (func([]entity.Trade) []pnl.Bucket, error) {
	switch dimension {
	case "day":
		return pnl.ByDay, nil
	case "weekday":
		return pnl.ByWeekday, nil
	case "hour":
		return pnl.ByHour, nil
	case "symbol":
		return pnl.BySymbol, nil
	case "strategy":
		return pnl.ByStrategy, nil
	case "emotion":
		return pnl.ByEmotion, nil
	case "mistake":
		return pnl.ByMistake, nil
	default:
		return nil, fmt.Errorf("unknown analytics dimension %q", dimension)
	}
}

func cacheKey(userID, view string, filter dto.AnalyticsFilter) string {
	return fmt.Sprintf("%s:%s:%s", userID, view, filter.CacheKey())
}
