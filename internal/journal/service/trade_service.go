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

	"github.com/google/uuid"
)

// TradeService defines the interface for managing journaled trades.
type TradeService interface {
	CreateTrade(ctx context.Context, userID string, req *dto.CreateTradeRequest) (*dto.TradeResponse, error)
	GetTrade(ctx context.Context, userID, id string) (*dto.TradeResponse, error)
	ListTrades(ctx context.Context, userID string, filter *dto.ListTradesFilter) ([]*dto.TradeResponse, error)
	UpdateTrade(ctx context.Context, userID, id string, req *dto.UpdateTradeRequest) (*dto.TradeResponse, error)
	CloseTrade(ctx context.Context, userID, id string, req *dto.CloseTradeRequest) (*dto.TradeResponse, error)
	DeleteTrade(ctx context.Context, userID, id string) error
	ListAllTrades(ctx context.Context) ([]*dto.TradeResponse, error)
}

// AnalyticsInvalidator drops memoized dashboard views after a trade mutation.
type AnalyticsInvalidator interface {
	InvalidateUser(userID string)
}

// NewTradeService creates a new trade service.
func NewTradeService(tradeRepo repository.TradeRepository, invalidator AnalyticsInvalidator, logger *logger.Logger) TradeService {
	return &tradeService{
		tradeRepo:   tradeRepo,
		invalidator: invalidator,
		logger:      logger,
	}
}

type tradeService struct {
	tradeRepo   repository.TradeRepository
	invalidator AnalyticsInvalidator
	logger      *logger.Logger
}

// CreateTrade validates and persists a new trade. A trade created with exit
// price and date is immediately CLOSED.
func (s *tradeService) CreateTrade(ctx context.Context, userID string, req *dto.CreateTradeRequest) (*dto.TradeResponse, error) {
	trade, err := tradeFromRequest(req)
	if err != nil {
		return nil, err
	}
	trade.ID = uuid.NewString()
	trade.UserID = userID

	if err := s.tradeRepo.Upsert(ctx, trade); err != nil {
		s.logger.Error("Failed to create trade", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}
	s.invalidator.InvalidateUser(userID)

	s.logger.Info("Trade created", logger.StringField("trade_id", trade.ID), logger.StringField("symbol", trade.Symbol))
	return tradeResponse(trade), nil
}

// GetTrade retrieves one trade, enforcing ownership.
func (s *tradeService) GetTrade(ctx context.Context, userID, id string) (*dto.TradeResponse, error) {
	trade, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return tradeResponse(trade), nil
}

// ListTrades retrieves the caller's trades, newest entry first.
func (s *tradeService) ListTrades(ctx context.Context, userID string, filter *dto.ListTradesFilter) ([]*dto.TradeResponse, error) {
	repoFilter := repository.TradeFilter{
		Symbol: filter.Symbol,
		Status: filter.Status,
		From:   filter.From,
		To:     filter.To,
	}
	trades, err := s.tradeRepo.FindByUser(ctx, userID, repoFilter)
	if err != nil {
		s.logger.Error("Failed to list trades", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}

	responses := make([]*dto.TradeResponse, 0, len(trades))
	for i := range trades {
		responses = append(responses, tradeResponse(&trades[i]))
	}
	return responses, nil
}

// UpdateTrade replaces the editable fields of an existing trade.
func (s *tradeService) UpdateTrade(ctx context.Context, userID, id string, req *dto.UpdateTradeRequest) (*dto.TradeResponse, error) {
	existing, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated, err := tradeFromRequest(req)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	// An AI review survives edits until regenerated.
	updated.AIScore = existing.AIScore
	updated.AIWell = existing.AIWell
	updated.AIWrong = existing.AIWrong
	updated.AIImprovement = existing.AIImprovement
	updated.AIRuleViolation = existing.AIRuleViolation
	updated.AIGeneratedAt = existing.AIGeneratedAt

	if err := s.tradeRepo.Upsert(ctx, updated); err != nil {
		s.logger.Error("Failed to update trade", logger.ErrorField(err), logger.StringField("trade_id", id))
		return nil, err
	}
	s.invalidator.InvalidateUser(userID)

	return tradeResponse(updated), nil
}

// CloseTrade realizes an open trade by setting its exit fields.
func (s *tradeService) CloseTrade(ctx context.Context, userID, id string, req *dto.CloseTradeRequest) (*dto.TradeResponse, error) {
	trade, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if trade.Status == entity.TradeClosed {
		return nil, fmt.Errorf("trade %s is already closed", id)
	}
	if req.ExitPrice <= 0 {
		return nil, fmt.Errorf("exit price must be positive")
	}

	exitDate := time.Now()
	if req.ExitDate != nil {
		exitDate = *req.ExitDate
	}
	trade.ExitPrice = &req.ExitPrice
	trade.ExitDate = &exitDate
	trade.Status = entity.TradeClosed
	if req.Fees != nil {
		trade.Fees = *req.Fees
	}

	if err := s.tradeRepo.Upsert(ctx, trade); err != nil {
		s.logger.Error("Failed to close trade", logger.ErrorField(err), logger.StringField("trade_id", id))
		return nil, err
	}
	s.invalidator.InvalidateUser(userID)

	s.logger.Info("Trade closed", logger.StringField("trade_id", id))
	return tradeResponse(trade), nil
}

// DeleteTrade removes a trade, enforcing ownership.
func (s *tradeService) DeleteTrade(ctx context.Context, userID, id string) error {
	if _, err := s.findOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.tradeRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete trade", logger.ErrorField(err), logger.StringField("trade_id", id))
		return err
	}
	s.invalidator.InvalidateUser(userID)

	s.logger.Info("Trade deleted", logger.StringField("trade_id", id))
	return nil
}

// ListAllTrades retrieves every trade across all users. Admin only.
func (s *tradeService) ListAllTrades(ctx context.Context) ([]*dto.TradeResponse, error) {
	trades, err := s.tradeRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list all trades", logger.ErrorField(err))
		return nil, err
	}
	responses := make([]*dto.TradeResponse, 0, len(trades))
	for i := range trades {
		responses = append(responses, tradeResponse(&trades[i]))
	}
	return responses, nil
}

func (s *tradeService) findOwned(ctx context.Context, userID, id string) (*entity.Trade, error) {
	trade, err := s.tradeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trade.UserID != userID {
		return nil, fmt.Errorf("trade %s does not belong to the caller", id)
	}
	return trade, nil
}

// tradeFromRequest validates the request and builds the entity.
func tradeFromRequest(req *dto.CreateTradeRequest) (*entity.Trade, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if req.EntryPrice <= 0 {
		return nil, fmt.Errorf("entry price must be positive")
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if req.Fees < 0 {
		return nil, fmt.Errorf("fees cannot be negative")
	}
	if req.EntryDate.IsZero() {
		return nil, fmt.Errorf("entry date is required")
	}

	direction := entity.TradeDirection(req.Direction)
	if direction != entity.DirectionLong && direction != entity.DirectionShort {
		return nil, fmt.Errorf("direction must be LONG or SHORT")
	}

	assetType := entity.AssetType(req.AssetType)
	if assetType == "" {
		assetType = entity.AssetStock
	}
	if assetType != entity.AssetStock && assetType != entity.AssetOption {
		return nil, fmt.Errorf("asset type must be STOCK or OPTION")
	}

	var optionType *entity.OptionType
	if req.OptionType != nil {
		ot := entity.OptionType(*req.OptionType)
		if ot != entity.OptionCall && ot != entity.OptionPut {
			return nil, fmt.Errorf("option type must be CALL or PUT")
		}
		optionType = &ot
	}

	trade := &entity.Trade{
		Symbol:         req.Symbol,
		AssetType:      assetType,
		StrikePrice:    req.StrikePrice,
		ExpirationDate: req.ExpirationDate,
		OptionType:     optionType,
		Direction:      direction,
		EntryPrice:     req.EntryPrice,
		Quantity:       req.Quantity,
		EntryDate:      req.EntryDate,
		Fees:           req.Fees,
		Notes:          req.Notes,
		Strategies:     req.Strategies,
		Emotions:       req.Emotions,
		Mistakes:       req.Mistakes,
		Screenshots:    req.Screenshots,
		Status:         entity.TradeOpen,
	}

	if req.ExitPrice != nil {
		if *req.ExitPrice <= 0 {
			return nil, fmt.Errorf("exit price must be positive")
		}
		exitDate := time.Now()
		if req.ExitDate != nil {
			exitDate = *req.ExitDate
		}
		trade.ExitPrice = req.ExitPrice
		trade.ExitDate = &exitDate
		trade.Status = entity.TradeClosed
	}

	return trade, nil
}

func tradeResponse(t *entity.Trade) *dto.TradeResponse {
	return &dto.TradeResponse{
		Trade:       *t,
		GrossPnL:    pnl.Gross(t),
		NetPnL:      pnl.Net(t),
		CapitalUsed: pnl.CapitalUsed(t),
	}
}
