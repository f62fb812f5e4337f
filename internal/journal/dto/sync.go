package dto

import (
	"time"

	"trading-journal/internal/entity"
)

// VaultUser is a profile as stored in a snapshot. The API view of a profile
// hides the password hash; a snapshot must carry it or a restore would lock
// every account out.
type VaultUser struct {
	entity.User
	PasswordHash string `json:"password_hash"`
}

// NewVaultUser wraps a profile for snapshot serialization.
func NewVaultUser(u entity.User) VaultUser {
	return VaultUser{User: u, PasswordHash: u.PasswordHash}
}

// Unwrap restores the profile entity, password hash included.
func (u VaultUser) Unwrap() entity.User {
	user := u.User
	user.PasswordHash = u.PasswordHash
	return user
}

// VaultSnapshot is the single JSON blob pushed to and pulled from the cloud
// drive. Version is a monotonic counter; a push with a version at or below
// the remote one is rejected as stale.
type VaultSnapshot struct {
	Version  int64          `json:"version"`
	SyncedAt time.Time      `json:"synced_at"`
	Users    []VaultUser    `json:"users"`
	Trades   []entity.Trade `json:"trades"`
}

// VaultStatusResponse reports local and remote snapshot state.
type VaultStatusResponse struct {
	LocalVersion   int64      `json:"local_version"`
	LocalSyncedAt  *time.Time `json:"local_synced_at,omitempty"`
	RemoteVersion  int64      `json:"remote_version"`
	RemoteSyncedAt *time.Time `json:"remote_synced_at,omitempty"`
	RemoteNewer    bool       `json:"remote_newer"`
}

// PushResponse reports the version written by a vault push.
type PushResponse struct {
	Version  int64     `json:"version"`
	SyncedAt time.Time `json:"synced_at"`
}

// SyncKeyResponse carries the clipboard-transferable dataset string.
type SyncKeyResponse struct {
	Key string `json:"key"`
}

// ImportSyncKeyRequest replaces the caller's dataset with the decoded one.
type ImportSyncKeyRequest struct {
	Key string `json:"key"`
}

// ImportResult reports what an import replaced.
type ImportResult struct {
	Users  int `json:"users"`
	Trades int `json:"trades"`
}
