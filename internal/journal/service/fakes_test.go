package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/repository"
	"trading-journal/pkg/logger"
)

func testLogger() *logger.Logger {
	l, err := logger.New("error", "json")
	if err != nil {
		panic(err)
	}
	return l
}

// testRedis backs a real client with an in-process miniredis so session and
// cache paths run against actual Redis commands.
func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// fakeTradeRepo is an in-memory TradeRepository.
type fakeTradeRepo struct {
	mu     sync.Mutex
	trades map[string]entity.Trade
}

func newFakeTradeRepo() *fakeTradeRepo {
	return &fakeTradeRepo{trades: make(map[string]entity.Trade)}
}

func (r *fakeTradeRepo) Upsert(_ context.Context, trade *entity.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trades[trade.ID] = *trade
	return nil
}

func (r *fakeTradeRepo) FindByID(_ context.Context, id string) (*entity.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	trade, ok := r.trades[id]
	if !ok {
		return nil, fmt.Errorf("trade %s not found", id)
	}
	return &trade, nil
}

func (r *fakeTradeRepo) FindByUser(_ context.Context, userID string, filter repository.TradeFilter) ([]entity.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Trade
	for _, t := range r.trades {
		if t.UserID != userID {
			continue
		}
		if filter.Symbol != "" && t.Symbol != filter.Symbol {
			continue
		}
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		if filter.From != nil && t.EntryDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !t.EntryDate.Before(*filter.To) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.After(out[j].EntryDate) })
	return out, nil
}

func (r *fakeTradeRepo) FindAll(_ context.Context) ([]entity.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Trade, 0, len(r.trades))
	for _, t := range r.trades {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTradeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trades, id)
	return nil
}

func (r *fakeTradeRepo) ReplaceAll(_ context.Context, trades []entity.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trades = make(map[string]entity.Trade, len(trades))
	for _, t := range trades {
		r.trades[t.ID] = t
	}
	return nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]entity.User)}
}

func (r *fakeUserRepo) Upsert(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}
	return &user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) ReplaceAll(_ context.Context, users []entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = make(map[string]entity.User, len(users))
	for _, u := range users {
		r.users[u.ID] = u
	}
	return nil
}

// fakeVaultStateRepo is an in-memory VaultStateRepository.
type fakeVaultStateRepo struct {
	mu    sync.Mutex
	state entity.VaultState
}

func (r *fakeVaultStateRepo) Get(_ context.Context) (*entity.VaultState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := r.state
	return &state, nil
}

func (r *fakeVaultStateRepo) Save(_ context.Context, state *entity.VaultState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = *state
	return nil
}

// fakeDriveRepo is an in-memory DriveRepository.
type fakeDriveRepo struct {
	mu        sync.Mutex
	content   []byte
	info      *repository.VaultFileInfo
	statCalls int
}

func (r *fakeDriveRepo) Stat(_ context.Context) (*repository.VaultFileInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statCalls++
	if r.info == nil {
		return nil, nil
	}
	info := *r.info
	return &info, nil
}

func (r *fakeDriveRepo) statCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statCalls
}

func (r *fakeDriveRepo) Upload(_ context.Context, content []byte, version int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content = append([]byte(nil), content...)
	r.info = &repository.VaultFileInfo{
		FileID:       "vault-file",
		Version:      version,
		ModifiedTime: time.Now(),
	}
	return nil
}

func (r *fakeDriveRepo) Download(_ context.Context) ([]byte, *repository.VaultFileInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.info == nil {
		return nil, nil, fmt.Errorf("no vault snapshot found in cloud drive")
	}
	info := *r.info
	return append([]byte(nil), r.content...), &info, nil
}

// recordingNotifier captures admin notifications.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) SendMessage(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return nil
}

// noopInvalidator satisfies AnalyticsInvalidator for tests.
type noopInvalidator struct{}

func (noopInvalidator) InvalidateUser(string) {}
