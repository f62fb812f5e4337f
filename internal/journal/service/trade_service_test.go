package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/dto"
)

func newTradeService(repo *fakeTradeRepo) TradeService {
	return NewTradeService(repo, noopInvalidator{}, testLogger())
}

func validCreateRequest() *dto.CreateTradeRequest {
	return &dto.CreateTradeRequest{
		Symbol:     "AAPL",
		Direction:  "LONG",
		EntryPrice: 100,
		Quantity:   10,
		EntryDate:  time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		Fees:       5,
		Strategies: []string{"Breakout"},
	}
}

func TestCreateTradeOpenByDefault(t *testing.T) {
	t.Parallel()

	svc := newTradeService(newFakeTradeRepo())
	resp, err := svc.CreateTrade(context.Background(), "user-1", validCreateRequest())
	assert.NoError(t, err)
	assert.Equal(t, entity.TradeOpen, resp.Status)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "user-1", resp.UserID)
	assert.InDelta(t, 0.0, resp.GrossPnL, 1e-9)
	assert.InDelta(t, -5.0, resp.NetPnL, 1e-9)
}

func TestCreateTradeImmediatelyClosed(t *testing.T) {
	t.Parallel()

	req := validCreateRequest()
	exit := 120.0
	exitAt := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)
	req.ExitPrice = &exit
	req.ExitDate = &exitAt

	svc := newTradeService(newFakeTradeRepo())
	resp, err := svc.CreateTrade(context.Background(), "user-1", req)
	assert.NoError(t, err)
	assert.Equal(t, entity.TradeClosed, resp.Status)
	assert.InDelta(t, 200.0, resp.GrossPnL, 1e-9)
	assert.InDelta(t, 195.0, resp.NetPnL, 1e-9)
}

func TestCreateTradeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*dto.CreateTradeRequest)
	}{
		{"missing_symbol", func(r *dto.CreateTradeRequest) { r.Symbol = "" }},
		{"zero_entry_price", func(r *dto.CreateTradeRequest) { r.EntryPrice = 0 }},
		{"negative_quantity", func(r *dto.CreateTradeRequest) { r.Quantity = -1 }},
		{"negative_fees", func(r *dto.CreateTradeRequest) { r.Fees = -1 }},
		{"bad_direction", func(r *dto.CreateTradeRequest) { r.Direction = "SIDEWAYS" }},
		{"zero_entry_date", func(r *dto.CreateTradeRequest) { r.EntryDate = time.Time{} }},
		{"bad_asset_type", func(r *dto.CreateTradeRequest) { r.AssetType = "CRYPTO" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := validCreateRequest()
			tt.mutate(req)
			svc := newTradeService(newFakeTradeRepo())
			_, err := svc.CreateTrade(context.Background(), "user-1", req)
			assert.Error(t, err)
		})
	}
}

func TestCloseTrade(t *testing.T) {
	t.Parallel()

	repo := newFakeTradeRepo()
	svc := newTradeService(repo)

	created, err := svc.CreateTrade(context.Background(), "user-1", validCreateRequest())
	assert.NoError(t, err)

	closed, err := svc.CloseTrade(context.Background(), "user-1", created.ID, &dto.CloseTradeRequest{ExitPrice: 110})
	assert.NoError(t, err)
	assert.Equal(t, entity.TradeClosed, closed.Status)
	assert.InDelta(t, 100.0, closed.GrossPnL, 1e-9)

	// Closing twice fails.
	_, err = svc.CloseTrade(context.Background(), "user-1", created.ID, &dto.CloseTradeRequest{ExitPrice: 120})
	assert.Error(t, err)
}

func TestTradeOwnershipEnforced(t *testing.T) {
	t.Parallel()

	repo := newFakeTradeRepo()
	svc := newTradeService(repo)

	created, err := svc.CreateTrade(context.Background(), "user-1", validCreateRequest())
	assert.NoError(t, err)

	_, err = svc.GetTrade(context.Background(), "user-2", created.ID)
	assert.Error(t, err)

	err = svc.DeleteTrade(context.Background(), "user-2", created.ID)
	assert.Error(t, err)

	// The owner still sees it.
	got, err := svc.GetTrade(context.Background(), "user-1", created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUpdateTradePreservesReview(t *testing.T) {
	t.Parallel()

	repo := newFakeTradeRepo()
	svc := newTradeService(repo)

	created, err := svc.CreateTrade(context.Background(), "user-1", validCreateRequest())
	assert.NoError(t, err)

	// Attach a review directly, as the review service would.
	stored, _ := repo.FindByID(context.Background(), created.ID)
	score := 7
	stored.AIScore = &score
	assert.NoError(t, repo.Upsert(context.Background(), stored))

	req := validCreateRequest()
	req.Notes = "revised"
	updated, err := svc.UpdateTrade(context.Background(), "user-1", created.ID, req)
	assert.NoError(t, err)
	assert.Equal(t, "revised", updated.Notes)
	if assert.NotNil(t, updated.AIScore) {
		assert.Equal(t, 7, *updated.AIScore)
	}
}
