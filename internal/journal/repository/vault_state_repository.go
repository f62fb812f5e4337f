package repository

import (
	"context"
	"errors"

	"trading-journal/internal/entity"

	"gorm.io/gorm"
)

// VaultStateRepository tracks the local snapshot version counter.
type VaultStateRepository interface {
	Get(ctx context.Context) (*entity.VaultState, error)
	Save(ctx context.Context, state *entity.VaultState) error
}

// NewVaultStateRepository creates a new GORM-based vault state repository.
func NewVaultStateRepository(db *gorm.DB) VaultStateRepository {
	return &vaultStateRepository{db: db}
}

type vaultStateRepository struct {
	db *gorm.DB
}

// Get returns the single vault state row, creating a zero-version row on
// first use.
func (r *vaultStateRepository) Get(ctx context.Context) (*entity.VaultState, error) {
	var state entity.VaultState
	err := r.db.WithContext(ctx).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state = entity.VaultState{ID: 1}
		if err := r.db.WithContext(ctx).Create(&state).Error; err != nil {
			return nil, err
		}
		return &state, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Save persists the vault state row.
func (r *vaultStateRepository) Save(ctx context.Context, state *entity.VaultState) error {
	return r.db.WithContext(ctx).Save(state).Error
}
