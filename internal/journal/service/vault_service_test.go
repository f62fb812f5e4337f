package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/repository"
	"trading-journal/pkg/common"
	"trading-journal/pkg/telegram"
)

type vaultFixture struct {
	svc    VaultService
	trades *fakeTradeRepo
	users  *fakeUserRepo
	state  *fakeVaultStateRepo
	drive  *fakeDriveRepo
	redis  *redis.Client
}

func newVaultFixture(t *testing.T) *vaultFixture {
	f := &vaultFixture{
		trades: newFakeTradeRepo(),
		users:  newFakeUserRepo(),
		state:  &fakeVaultStateRepo{state: entity.VaultState{ID: 1}},
		drive:  &fakeDriveRepo{},
		redis:  testRedis(t),
	}
	f.svc = NewVaultService(f.trades, f.users, f.state, f.drive, f.redis, telegram.NoopNotifier{}, 30*time.Second, testLogger())
	return f
}

func seedDataset(tradeRepo *fakeTradeRepo, userRepo *fakeUserRepo) {
	_ = userRepo.Upsert(context.Background(), &entity.User{ID: "u1", DisplayID: "TJ-1", Email: "u1@example.com", PasswordHash: "x"})
	exit := 120.0
	exitAt := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)
	_ = tradeRepo.Upsert(context.Background(), &entity.Trade{
		ID: "t1", UserID: "u1", Symbol: "AAPL", Direction: entity.DirectionLong,
		EntryPrice: 100, Quantity: 10, EntryDate: exitAt.Add(-time.Hour),
		ExitPrice: &exit, ExitDate: &exitAt, Status: entity.TradeClosed,
	})
	_ = tradeRepo.Upsert(context.Background(), &entity.Trade{
		ID: "t2", UserID: "u1", Symbol: "TSLA", Direction: entity.DirectionShort,
		EntryPrice: 200, Quantity: 5, EntryDate: exitAt, Status: entity.TradeOpen,
	})
}

func TestVaultPushIncrementsVersion(t *testing.T) {
	t.Parallel()

	f := newVaultFixture(t)
	seedDataset(f.trades, f.users)

	resp, err := f.svc.Push(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), resp.Version)

	state, _ := f.state.Get(context.Background())
	assert.Equal(t, int64(1), state.Version)

	var snapshot dto.VaultSnapshot
	assert.NoError(t, json.Unmarshal(f.drive.content, &snapshot))
	assert.Equal(t, int64(1), snapshot.Version)
	assert.Len(t, snapshot.Users, 1)
	assert.Len(t, snapshot.Trades, 2)

	resp, err = f.svc.Push(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(2), resp.Version)
}

func TestVaultPushRejectsStaleLocal(t *testing.T) {
	t.Parallel()

	f := newVaultFixture(t)
	seedDataset(f.trades, f.users)

	// Another device already pushed version 5.
	f.drive.info = &repository.VaultFileInfo{FileID: "vault-file", Version: 5, ModifiedTime: time.Now()}

	_, err := f.svc.Push(context.Background())
	assert.ErrorIs(t, err, ErrStaleSnapshot)
}

func TestVaultPullReplacesLocalDataset(t *testing.T) {
	t.Parallel()

	f := newVaultFixture(t)

	// Local has one stray trade that must disappear after the pull.
	_ = f.trades.Upsert(context.Background(), &entity.Trade{ID: "stray", UserID: "u9", Symbol: "X", EntryDate: time.Now()})

	snapshot := dto.VaultSnapshot{
		Version:  3,
		SyncedAt: time.Now().UTC(),
		Users:    []dto.VaultUser{dto.NewVaultUser(entity.User{ID: "u1", DisplayID: "TJ-1", Email: "u1@example.com", PasswordHash: "x"})},
		Trades:   []entity.Trade{{ID: "t1", UserID: "u1", Symbol: "AAPL", EntryDate: time.Now()}},
	}
	content, _ := json.Marshal(snapshot)
	assert.NoError(t, f.drive.Upload(context.Background(), content, snapshot.Version))

	result, err := f.svc.Pull(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Users)
	assert.Equal(t, 1, result.Trades)

	state, _ := f.state.Get(context.Background())
	assert.Equal(t, int64(3), state.Version)

	trades, _ := f.trades.FindAll(context.Background())
	assert.Len(t, trades, 1)
	assert.Equal(t, "t1", trades[0].ID)

	// The password hash must survive the round trip even though the API view
	// of a profile never exposes it.
	restored, err := f.users.FindByID(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, "x", restored.PasswordHash)
}

func TestVaultPullRejectsOlderSnapshot(t *testing.T) {
	t.Parallel()

	f := newVaultFixture(t)
	f.state.state.Version = 7

	snapshot := dto.VaultSnapshot{Version: 4, SyncedAt: time.Now().UTC()}
	content, _ := json.Marshal(snapshot)
	assert.NoError(t, f.drive.Upload(context.Background(), content, snapshot.Version))

	_, err := f.svc.Pull(context.Background())
	assert.Error(t, err)
}

func TestVaultStatusColdCache(t *testing.T) {
	t.Parallel()

	f := newVaultFixture(t)
	f.drive.info = &repository.VaultFileInfo{FileID: "vault-file", Version: 5, ModifiedTime: time.Now().UTC()}

	resp, err := f.svc.Status(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(0), resp.LocalVersion)
	assert.Equal(t, int64(5), resp.RemoteVersion)
	assert.True(t, resp.RemoteNewer)
	assert.Equal(t, 1, f.drive.statCount())

	// The live Stat must have primed the cache.
	cached, err := f.redis.Get(context.Background(), common.RedisKeyVaultStatus).Result()
	assert.NoError(t, err)
	var info repository.VaultFileInfo
	assert.NoError(t, json.Unmarshal([]byte(cached), &info))
	assert.Equal(t, int64(5), info.Version)
}

func TestVaultStatusServesCachedRemote(t *testing.T) {
	t.Parallel()

	f := newVaultFixture(t)

	cached, _ := json.Marshal(repository.VaultFileInfo{FileID: "vault-file", Version: 9, ModifiedTime: time.Now().UTC()})
	assert.NoError(t, f.redis.Set(context.Background(), common.RedisKeyVaultStatus, cached, time.Minute).Err())

	resp, err := f.svc.Status(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(9), resp.RemoteVersion)
	assert.True(t, resp.RemoteNewer)
	assert.Zero(t, f.drive.statCount())
}

func TestVaultStatusRemoteNotNewer(t *testing.T) {
	t.Parallel()

	f := newVaultFixture(t)
	f.state.state.Version = 5
	f.state.state.SyncedAt = time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)
	f.drive.info = &repository.VaultFileInfo{FileID: "vault-file", Version: 5, ModifiedTime: time.Now().UTC()}

	resp, err := f.svc.Status(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(5), resp.LocalVersion)
	assert.Equal(t, int64(5), resp.RemoteVersion)
	assert.False(t, resp.RemoteNewer)
	assert.NotNil(t, resp.LocalSyncedAt)
}

func TestVaultMonitorCachesStatus(t *testing.T) {
	t.Parallel()

	f := newVaultFixture(t)
	f.drive.info = &repository.VaultFileInfo{FileID: "vault-file", Version: 2, ModifiedTime: time.Now().UTC()}

	svc := NewVaultService(f.trades, f.users, f.state, f.drive, f.redis, telegram.NoopNotifier{}, 10*time.Millisecond, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.NoError(t, svc.StartMonitor(ctx))
	assert.Eventually(t, func() bool {
		cached, err := f.redis.Get(context.Background(), common.RedisKeyVaultStatus).Result()
		return err == nil && cached != ""
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSyncKeyRoundTrip(t *testing.T) {
	t.Parallel()

	source := newVaultFixture(t)
	seedDataset(source.trades, source.users)

	exported, err := source.svc.ExportSyncKey(context.Background())
	assert.NoError(t, err)
	assert.NotEmpty(t, exported.Key)

	// A second device imports the key; its dataset is overwritten wholesale.
	target := newVaultFixture(t)
	_ = target.trades.Upsert(context.Background(), &entity.Trade{ID: "old", UserID: "u9", Symbol: "OLD", EntryDate: time.Now()})

	result, err := target.svc.ImportSyncKey(context.Background(), &dto.ImportSyncKeyRequest{Key: exported.Key})
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Users)
	assert.Equal(t, 2, result.Trades)

	trades, _ := target.trades.FindAll(context.Background())
	assert.Len(t, trades, 2)
	users, _ := target.users.FindAll(context.Background())
	assert.Len(t, users, 1)
}

func TestImportSyncKeyRejectsGarbage(t *testing.T) {
	t.Parallel()

	f := newVaultFixture(t)

	_, err := f.svc.ImportSyncKey(context.Background(), &dto.ImportSyncKeyRequest{Key: "not base64 @@@"})
	assert.Error(t, err)

	_, err = f.svc.ImportSyncKey(context.Background(), &dto.ImportSyncKeyRequest{Key: "bm90IGpzb24="})
	assert.Error(t, err)
}
