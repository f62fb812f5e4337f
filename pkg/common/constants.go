package common

import "time"

const (
	// VaultFileName is the single snapshot blob kept in the cloud drive folder.
	VaultFileName = "TradeJournal_Vault.json"

	// RedisKeySessionPrefix prefixes session-token keys.
	RedisKeySessionPrefix = "session:"
	// RedisKeyVaultStatus caches the most recently polled remote vault metadata.
	RedisKeyVaultStatus = "vault:status"

	// SessionTTL is how long a login session stays valid without re-login.
	SessionTTL = 24 * time.Hour

	// OptionLotSize is the contract multiplier applied to option capital-used
	// figures. Gross P&L stays per unit.
	OptionLotSize = 100
)
