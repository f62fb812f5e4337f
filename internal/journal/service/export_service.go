package service

import (
	"context"
	"strconv"
	"strings"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/repository"
	"trading-journal/internal/pnl"
	"trading-journal/pkg/logger"

	"github.com/gocarina/gocsv"
)

// TradeCSVRow is one exported trade. Field order defines the CSV header.
type TradeCSVRow struct {
	ID         string `csv:"id"`
	Symbol     string `csv:"symbol"`
	Type       string `csv:"type"`
	Side       string `csv:"side"`
	Status     string `csv:"status"`
	EntryDate  string `csv:"entry_date"`
	ExitDate   string `csv:"exit_date"`
	EntryPrice string `csv:"entry_price"`
	ExitPrice  string `csv:"exit_price"`
	Quantity   string `csv:"quantity"`
	Fees       string `csv:"fees"`
	GrossPnL   string `csv:"gross_pnl"`
	NetPnL     string `csv:"net_pnl"`
	Strategies string `csv:"strategies"`
	Emotions   string `csv:"emotions"`
	Mistakes   string `csv:"mistakes"`
	AIScore    string `csv:"ai_score"`
}

// UserCSVRow is one exported profile. Field order defines the CSV header.
type UserCSVRow struct {
	ID     string `csv:"id"`
	Name   string `csv:"name"`
	Email  string `csv:"email"`
	Mobile string `csv:"mobile"`
	Role   string `csv:"role"`
	Status string `csv:"status"`
	Paid   string `csv:"paid"`
	Plan   string `csv:"plan"`
	Joined string `csv:"joined"`
}

// ExportService renders trades and profiles as flat CSV files.
type ExportService interface {
	ExportTrades(ctx context.Context, userID string) ([]byte, error)
	ExportUsers(ctx context.Context) ([]byte, error)
}

// NewExportService creates a new export service.
func NewExportService(tradeRepo repository.TradeRepository, userRepo repository.UserRepository, logger *logger.Logger) ExportService {
	return &exportService{
		tradeRepo: tradeRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

type exportService struct {
	tradeRepo repository.TradeRepository
	userRepo  repository.UserRepository
	logger    *logger.Logger
}

// ExportTrades renders the caller's trades, one row per trade.
func (s *exportService) ExportTrades(ctx context.Context, userID string) ([]byte, error) {
	trades, err := s.tradeRepo.FindByUser(ctx, userID, repository.TradeFilter{})
	if err != nil {
		s.logger.Error("Failed to load trades for export", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}

	rows := make([]TradeCSVRow, 0, len(trades))
	for i := range trades {
		rows = append(rows, tradeCSVRow(&trades[i]))
	}
	return gocsv.MarshalBytes(&rows)
}

// ExportUsers renders every profile. Admin only.
func (s *exportService) ExportUsers(ctx context.Context) ([]byte, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load users for export", logger.ErrorField(err))
		return nil, err
	}

	rows := make([]UserCSVRow, 0, len(users))
	for i := range users {
		u := &users[i]
		rows = append(rows, UserCSVRow{
			ID:     u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Mobile: u.Mobile,
			Role:   string(u.Role),
			Status: string(u.Status),
			Paid:   strconv.FormatBool(u.Paid),
			Plan:   u.Plan,
			Joined: u.CreatedAt.Format("2006-01-02"),
		})
	}
	return gocsv.MarshalBytes(&rows)
}

func tradeCSVRow(t *entity.Trade) TradeCSVRow {
	row := TradeCSVRow{
		ID:         t.ID,
		Symbol:     t.Symbol,
		Type:       string(t.AssetType),
		Side:       string(t.Direction),
		Status:     string(t.Status),
		EntryDate:  t.EntryDate.Format("2006-01-02 15:04:05"),
		EntryPrice: formatFloat(t.EntryPrice),
		Quantity:   formatFloat(t.Quantity),
		Fees:       formatFloat(t.Fees),
		GrossPnL:   formatFloat(pnl.Gross(t)),
		NetPnL:     formatFloat(pnl.Net(t)),
		Strategies: strings.Join(t.Strategies, ";"),
		Emotions:   strings.Join(t.Emotions, ";"),
		Mistakes:   strings.Join(t.Mistakes, ";"),
	}
	if t.ExitDate != nil {
		row.ExitDate = t.ExitDate.Format("2006-01-02 15:04:05")
	}
	if t.ExitPrice != nil {
		row.ExitPrice = formatFloat(*t.ExitPrice)
	}
	if t.AIScore != nil {
		row.AIScore = strconv.Itoa(*t.AIScore)
	}
	return row
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
