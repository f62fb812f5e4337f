package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/repository"
	"trading-journal/pkg/common"
	"trading-journal/pkg/logger"
	"trading-journal/pkg/telegram"
	"trading-journal/pkg/utils"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// ErrStaleSnapshot is returned when a push carries a version at or below the
// remote snapshot's version.
var ErrStaleSnapshot = errors.New("remote vault snapshot is newer; pull before pushing")

// VaultService owns the cloud snapshot sync and the clipboard sync key.
type VaultService interface {
	Push(ctx context.Context) (*dto.PushResponse, error)
	Pull(ctx context.Context) (*dto.ImportResult, error)
	Status(ctx context.Context) (*dto.VaultStatusResponse, error)
	ExportSyncKey(ctx context.Context) (*dto.SyncKeyResponse, error)
	ImportSyncKey(ctx context.Context, req *dto.ImportSyncKeyRequest) (*dto.ImportResult, error)
	StartMonitor(ctx context.Context) error
}

// NewVaultService creates a new vault service.
func NewVaultService(
	tradeRepo repository.TradeRepository,
	userRepo repository.UserRepository,
	stateRepo repository.VaultStateRepository,
	driveRepo repository.DriveRepository,
	redisClient *redis.Client,
	notifier telegram.Notifier,
	pollInterval time.Duration,
	logger *logger.Logger,
) VaultService {
	return &vaultService{
		tradeRepo:    tradeRepo,
		userRepo:     userRepo,
		stateRepo:    stateRepo,
		driveRepo:    driveRepo,
		redisClient:  redisClient,
		notifier:     notifier,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

type vaultService struct {
	tradeRepo    repository.TradeRepository
	userRepo     repository.UserRepository
	stateRepo    repository.VaultStateRepository
	driveRepo    repository.DriveRepository
	redisClient  *redis.Client
	notifier     telegram.Notifier
	pollInterval time.Duration
	logger       *logger.Logger
	cron         *cron.Cron
}

// Push serializes the full dataset and uploads it as the next snapshot
// version. A push is rejected when the remote already carries an equal or
// newer version.
func (s *vaultService) Push(ctx context.Context) (*dto.PushResponse, error) {
	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	remote, err := s.driveRepo.Stat(ctx)
	if err != nil {
		return nil, err
	}
	nextVersion := state.Version + 1
	if remote != nil && remote.Version >= nextVersion {
		return nil, fmt.Errorf("%w (remote version %d, local version %d)", ErrStaleSnapshot, remote.Version, state.Version)
	}

	snapshot, err := s.buildSnapshot(ctx, nextVersion)
	if err != nil {
		return nil, err
	}
	content, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vault snapshot: %w", err)
	}

	if err := s.driveRepo.Upload(ctx, content, nextVersion); err != nil {
		s.logger.Error("Vault push failed", logger.ErrorField(err))
		return nil, err
	}

	state.Version = nextVersion
	state.SyncedAt = snapshot.SyncedAt
	if err := s.stateRepo.Save(ctx, state); err != nil {
		return nil, err
	}

	if err := s.notifier.SendMessage(fmt.Sprintf("*Vault pushed*\nVersion: %d\nUsers: %d\nTrades: %d",
		nextVersion, len(snapshot.Users), len(snapshot.Trades))); err != nil {
		s.logger.Warn("Failed to notify admin of vault push", logger.ErrorField(err))
	}

	s.logger.Info("Vault snapshot pushed", logger.Field("version", nextVersion))
	return &dto.PushResponse{Version: nextVersion, SyncedAt: snapshot.SyncedAt}, nil
}

// Pull downloads the remote snapshot and replaces the local dataset when the
// remote version is newer. No merge: the snapshot wins wholesale.
func (s *vaultService) Pull(ctx context.Context) (*dto.ImportResult, error) {
	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	content, info, err := s.driveRepo.Download(ctx)
	if err != nil {
		s.logger.Error("Vault pull failed", logger.ErrorField(err))
		return nil, err
	}

	var snapshot dto.VaultSnapshot
	if err := json.Unmarshal(content, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode vault snapshot: %w", err)
	}
	if snapshot.Version <= state.Version {
		return nil, fmt.Errorf("remote snapshot version %d is not newer than local version %d", snapshot.Version, state.Version)
	}

	result, err := s.restore(ctx, &snapshot)
	if err != nil {
		return nil, err
	}

	state.Version = snapshot.Version
	state.SyncedAt = snapshot.SyncedAt
	if err := s.stateRepo.Save(ctx, state); err != nil {
		return nil, err
	}

	s.logger.Info("Vault snapshot pulled",
		logger.Field("version", snapshot.Version),
		logger.Field("file_modified", info.ModifiedTime))
	return result, nil
}

// Status compares the local version counter with the remote metadata.
func (s *vaultService) Status(ctx context.Context) (*dto.VaultStatusResponse, error) {
	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.VaultStatusResponse{LocalVersion: state.Version}
	if !state.SyncedAt.IsZero() {
		t := state.SyncedAt
		resp.LocalSyncedAt = &t
	}

	remote, err := s.remoteStatus(ctx)
	if err != nil {
		return nil, err
	}
	if remote != nil {
		resp.RemoteVersion = remote.Version
		resp.RemoteSyncedAt = &remote.ModifiedTime
		resp.RemoteNewer = remote.Version > state.Version
	}
	return resp, nil
}

// ExportSyncKey serializes the full dataset into a clipboard-transferable
// string.
func (s *vaultService) ExportSyncKey(ctx context.Context) (*dto.SyncKeyResponse, error) {
	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.buildSnapshot(ctx, state.Version)
	if err != nil {
		return nil, err
	}

	content, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync key: %w", err)
	}
	return &dto.SyncKeyResponse{Key: base64.StdEncoding.EncodeToString(content)}, nil
}

// ImportSyncKey parses a sync key and replaces the local dataset with its
// contents. Overwrite-all semantics, no merge.
func (s *vaultService) ImportSyncKey(ctx context.Context, req *dto.ImportSyncKeyRequest) (*dto.ImportResult, error) {
	content, err := base64.StdEncoding.DecodeString(req.Key)
	if err != nil {
		return nil, fmt.Errorf("invalid sync key encoding: %w", err)
	}

	var snapshot dto.VaultSnapshot
	if err := json.Unmarshal(content, &snapshot); err != nil {
		return nil, fmt.Errorf("invalid sync key payload: %w", err)
	}

	result, err := s.restore(ctx, &snapshot)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sync key imported",
		logger.IntField("users", result.Users),
		logger.IntField("trades", result.Trades))
	return result, nil
}

// StartMonitor polls the remote vault metadata every poll interval and caches
// it in Redis for cheap status reads. Stops when ctx is canceled.
func (s *vaultService) StartMonitor(ctx context.Context) error {
	s.cron = cron.New()
	spec := fmt.Sprintf("@every %s", s.pollInterval)
	_, err := s.cron.AddFunc(spec, func() {
		utils.GoSafe(s.logger, func() {
			pollCtx, cancel := context.WithTimeout(ctx, s.pollInterval)
			defer cancel()
			if _, err := s.remoteStat(pollCtx); err != nil {
				s.logger.Warn("Vault status poll failed", logger.ErrorField(err))
			}
		})
	})
	if err != nil {
		return fmt.Errorf("failed to schedule vault monitor: %w", err)
	}
	s.cron.Start()

	utils.GoSafe(s.logger, func() {
		<-ctx.Done()
		s.cron.Stop()
		s.logger.Info("Vault monitor stopped")
	})

	s.logger.Info("Vault monitor started", logger.Field("interval", s.pollInterval))
	return nil
}

// remoteStatus reads the cached remote metadata, falling back to a live Stat
// when the cache is cold.
func (s *vaultService) remoteStatus(ctx context.Context) (*repository.VaultFileInfo, error) {
	cached, err := s.redisClient.Get(ctx, common.RedisKeyVaultStatus).Result()
	if err == nil {
		var info repository.VaultFileInfo
		if err := json.Unmarshal([]byte(cached), &info); err == nil {
			return &info, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}
	return s.remoteStat(ctx)
}

// remoteStat performs a live Stat and refreshes the Redis cache.
func (s *vaultService) remoteStat(ctx context.Context) (*repository.VaultFileInfo, error) {
	info, err := s.driveRepo.Stat(ctx)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}
	if encoded, err := json.Marshal(info); err == nil {
		if err := s.redisClient.Set(ctx, common.RedisKeyVaultStatus, encoded, 2*s.pollInterval).Err(); err != nil {
			s.logger.Warn("Failed to cache vault status", logger.ErrorField(err))
		}
	}
	return info, nil
}

func (s *vaultService) buildSnapshot(ctx context.Context, version int64) (*dto.VaultSnapshot, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	trades, err := s.tradeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	vaultUsers := make([]dto.VaultUser, 0, len(users))
	for _, u := range users {
		vaultUsers = append(vaultUsers, dto.NewVaultUser(u))
	}
	return &dto.VaultSnapshot{
		Version:  version,
		SyncedAt: time.Now().UTC(),
		Users:    vaultUsers,
		Trades:   trades,
	}, nil
}

func (s *vaultService) restore(ctx context.Context, snapshot *dto.VaultSnapshot) (*dto.ImportResult, error) {
	users := make([]entity.User, 0, len(snapshot.Users))
	for _, u := range snapshot.Users {
		users = append(users, u.Unwrap())
	}
	if err := s.userRepo.ReplaceAll(ctx, users); err != nil {
		return nil, err
	}
	if err := s.tradeRepo.ReplaceAll(ctx, snapshot.Trades); err != nil {
		return nil, err
	}
	return &dto.ImportResult{Users: len(snapshot.Users), Trades: len(snapshot.Trades)}, nil
}
