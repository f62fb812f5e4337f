package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/config"
	"trading-journal/internal/journal/dto"
)

type userFixture struct {
	svc      UserService
	userRepo *fakeUserRepo
	notifier *recordingNotifier
}

func newUserFixture(t *testing.T) *userFixture {
	userRepo := newFakeUserRepo()
	notifier := &recordingNotifier{}
	cfg := &config.Config{}
	cfg.Plans.DurationsDays = map[string]int{"monthly": 30, "yearly": 365}
	return &userFixture{
		svc:      NewUserService(userRepo, testRedis(t), notifier, cfg, testLogger()),
		userRepo: userRepo,
		notifier: notifier,
	}
}

func TestRegisterCreatesPendingAccount(t *testing.T) {
	t.Parallel()

	f := newUserFixture(t)
	resp, err := f.svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "Trader@Example.com",
		Password: "hunter22!",
		Name:     "Alex",
		Plan:     "monthly",
	})
	require.NoError(t, err)

	assert.Equal(t, "trader@example.com", resp.Email)
	assert.Equal(t, string(entity.UserPending), resp.Status)
	assert.Equal(t, string(entity.RoleUser), resp.Role)
	assert.False(t, resp.Paid)
	assert.NotEmpty(t, resp.DisplayID)
	assert.NotEmpty(t, resp.ReferralCode)

	stored, err := f.userRepo.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22!", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, &dto.RegisterRequest{Email: "not-an-email", Password: "hunter22!"})
	assert.Error(t, err)

	_, err = f.svc.Register(ctx, &dto.RegisterRequest{Email: "a@b.com", Password: "short"})
	assert.Error(t, err)

	_, err = f.svc.Register(ctx, &dto.RegisterRequest{Email: "a@b.com", Password: "hunter22!"})
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, &dto.RegisterRequest{Email: "A@B.com", Password: "hunter22!"})
	assert.Error(t, err, "duplicate email must be rejected case-insensitively")
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	f := newUserFixture(t)
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, &dto.RegisterRequest{Email: "trader@example.com", Password: "hunter22!"})
	require.NoError(t, err)

	login, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "Trader@Example.com", Password: "hunter22!"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, registered.ID, login.User.ID)

	user, err := f.svc.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	require.NoError(t, f.svc.Logout(ctx, login.Token))
	_, err = f.svc.Authenticate(ctx, login.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "hunter22!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Register(ctx, &dto.RegisterRequest{Email: "trader@example.com", Password: "hunter22!"})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "trader@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRejectsUnknownToken(t *testing.T) {
	t.Parallel()

	f := newUserFixture(t)
	_, err := f.svc.Authenticate(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestApprovalLifecycle(t *testing.T) {
	t.Parallel()

	f := newUserFixture(t)
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, &dto.RegisterRequest{
		Email:    "trader@example.com",
		Password: "hunter22!",
		Plan:     "monthly",
	})
	require.NoError(t, err)

	submitted, err := f.svc.SubmitPaymentProof(ctx, registered.ID, &dto.PaymentProofRequest{PaymentProof: "https://img.example/proof.png"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.UserWaitingApproval), submitted.Status)
	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "trader@example.com")

	approved, err := f.svc.ApproveUser(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.UserApproved), approved.Status)
	assert.True(t, approved.Paid)
	require.NotNil(t, approved.ExpiryDate)
	wantExpiry := time.Now().AddDate(0, 0, 30)
	assert.WithinDuration(t, wantExpiry, *approved.ExpiryDate, time.Minute)
}

func TestRejectUser(t *testing.T) {
	t.Parallel()

	f := newUserFixture(t)
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, &dto.RegisterRequest{Email: "trader@example.com", Password: "hunter22!"})
	require.NoError(t, err)

	rejected, err := f.svc.RejectUser(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.UserRejected), rejected.Status)
	assert.False(t, rejected.Paid)
}

func TestSubmitPaymentProofRequiresImage(t *testing.T) {
	t.Parallel()

	f := newUserFixture(t)
	_, err := f.svc.SubmitPaymentProof(context.Background(), "u1", &dto.PaymentProofRequest{})
	assert.Error(t, err)
}
