package repository

import (
	"context"
	"time"

	"trading-journal/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TradeFilter narrows trade listings at the query level.
type TradeFilter struct {
	Symbol string
	Status string
	From   *time.Time
	To     *time.Time
}

// TradeRepository defines the interface for trade data operations.
type TradeRepository interface {
	Upsert(ctx context.Context, trade *entity.Trade) error
	FindByID(ctx context.Context, id string) (*entity.Trade, error)
	FindByUser(ctx context.Context, userID string, filter TradeFilter) ([]entity.Trade, error)
	FindAll(ctx context.Context) ([]entity.Trade, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, trades []entity.Trade) error
}

// NewTradeRepository creates a new GORM-based trade repository.
func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

type tradeRepository struct {
	db *gorm.DB
}

// Upsert inserts the trade or replaces the existing record with the same id.
// Last write wins per record.
func (r *tradeRepository) Upsert(ctx context.Context, trade *entity.Trade) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(trade).Error
}

// FindByID retrieves a trade by its id.
func (r *tradeRepository) FindByID(ctx context.Context, id string) (*entity.Trade, error) {
	var trade entity.Trade
	if err := r.db.WithContext(ctx).First(&trade, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trade, nil
}

// FindByUser retrieves the trades owned by userID, newest entry first.
func (r *tradeRepository) FindByUser(ctx context.Context, userID string, filter TradeFilter) ([]entity.Trade, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Symbol != "" {
		q = q.Where("symbol = ?", filter.Symbol)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		q = q.Where("entry_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("entry_date < ?", *filter.To)
	}

	var trades []entity.Trade
	if err := q.Order("entry_date DESC").Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

// FindAll retrieves every trade across all users. Admin only.
func (r *tradeRepository) FindAll(ctx context.Context) ([]entity.Trade, error) {
	var trades []entity.Trade
	if err := r.db.WithContext(ctx).Order("entry_date DESC").Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

// Delete removes a trade by id.
func (r *tradeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Trade{}, "id = ?", id).Error
}

// ReplaceAll swaps the entire trades table for the given set in one
// transaction. Used by vault pull and sync-key import.
func (r *tradeRepository) ReplaceAll(ctx context.Context, trades []entity.Trade) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity.Trade{}).Error; err != nil {
			return err
		}
		if len(trades) == 0 {
			return nil
		}
		return tx.CreateInBatches(trades, 200).Error
	})
}
