package entity

import "time"

// VaultState is the single-row record tracking the last snapshot pushed to or
// pulled from the cloud vault. Version increases monotonically; a push carrying
// a version at or below the stored one is stale and rejected.
type VaultState struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Version  int64     `gorm:"not null;default:0" json:"version"`
	SyncedAt time.Time `json:"synced_at"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (VaultState) TableName() string {
	return "vault_state"
}
