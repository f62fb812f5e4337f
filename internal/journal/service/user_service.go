package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/config"
	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/repository"
	"trading-journal/pkg/common"
	"trading-journal/pkg/logger"
	"trading-journal/pkg/telegram"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned on a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrSessionExpired is returned when a session token is unknown or expired.
var ErrSessionExpired = errors.New("session expired or invalid")

// UserService manages accounts, sessions, and the approval lifecycle.
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*entity.User, error)
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	SubmitPaymentProof(ctx context.Context, userID string, req *dto.PaymentProofRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	ApproveUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	RejectUser(ctx context.Context, userID string) (*dto.UserResponse, error)
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, redisClient *redis.Client, notifier telegram.Notifier, cfg *config.Config, logger *logger.Logger) UserService {
	return &userService{
		userRepo:    userRepo,
		redisClient: redisClient,
		notifier:    notifier,
		cfg:         cfg,
		logger:      logger,
	}
}

type userService struct {
	userRepo    repository.UserRepository
	redisClient *redis.Client
	notifier    telegram.Notifier
	cfg         *config.Config
	logger      *logger.Logger
}

// Register creates a new PENDING account.
func (s *userService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("an account with email %s already exists", email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.NewString(),
		DisplayID:    newDisplayID(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Mobile:       req.Mobile,
		Role:         entity.RoleUser,
		Status:       entity.UserPending,
		Plan:         req.Plan,
		ReferralCode: newReferralCode(),
		ReferredBy:   req.ReferredBy,
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		s.logger.Error("Failed to register user", logger.ErrorField(err), logger.StringField("email", email))
		return nil, err
	}

	s.logger.Info("User registered", logger.StringField("user_id", user.ID), logger.StringField("email", email))
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Login verifies credentials and issues an opaque session token stored in
// Redis with a TTL.
func (s *userService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token := newSessionToken()
	key := common.RedisKeySessionPrefix + token
	if err := s.redisClient.Set(ctx, key, user.ID, common.SessionTTL).Err(); err != nil {
		s.logger.Error("Failed to store session", logger.ErrorField(err))
		return nil, err
	}

	s.logger.Info("User logged in", logger.StringField("user_id", user.ID))
	return &dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

// Logout invalidates the session token.
func (s *userService) Logout(ctx context.Context, token string) error {
	return s.redisClient.Del(ctx, common.RedisKeySessionPrefix+token).Err()
}

// Authenticate resolves a session token to its user.
func (s *userService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	userID, err := s.redisClient.Get(ctx, common.RedisKeySessionPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	return s.userRepo.FindByID(ctx, userID)
}

// GetProfile returns the caller's profile.
func (s *userService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// SubmitPaymentProof attaches the proof image and moves the account to
// WAITING_APPROVAL. The admin is notified.
func (s *userService) SubmitPaymentProof(ctx context.Context, userID string, req *dto.PaymentProofRequest) (*dto.UserResponse, error) {
	if req.PaymentProof == "" {
		return nil, fmt.Errorf("payment proof is required")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PaymentProof = req.PaymentProof
	user.Status = entity.UserWaitingApproval

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		s.logger.Error("Failed to save payment proof", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}

	if err := s.notifier.SendMessage(fmt.Sprintf("*Payment proof submitted*\nUser: %s (%s)\nPlan: %s", user.Name, user.Email, user.Plan)); err != nil {
		// Notification failure must not fail the submission.
		s.logger.Warn("Failed to notify admin of payment proof", logger.ErrorField(err))
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// ListUsers returns every profile. Admin only.
func (s *userService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", logger.ErrorField(err))
		return nil, err
	}
	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.NewUserResponse(&users[i]))
	}
	return responses, nil
}

// ApproveUser marks the account APPROVED and paid, with expiry derived from
// its plan.
func (s *userService) ApproveUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Status = entity.UserApproved
	user.Paid = true
	if days, ok := s.cfg.Plans.DurationsDays[user.Plan]; ok {
		expiry := time.Now().AddDate(0, 0, days)
		user.ExpiryDate = &expiry
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		s.logger.Error("Failed to approve user", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}

	s.logger.Info("User approved", logger.StringField("user_id", userID), logger.StringField("plan", user.Plan))
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// RejectUser marks the account REJECTED.
func (s *userService) RejectUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Status = entity.UserRejected
	user.Paid = false

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		s.logger.Error("Failed to reject user", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}

	s.logger.Info("User rejected", logger.StringField("user_id", userID))
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func newSessionToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func newDisplayID() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return "TJ-" + strings.ToUpper(hex.EncodeToString(buf))
}

func newReferralCode() string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return strings.ToUpper(hex.EncodeToString(buf))
}
