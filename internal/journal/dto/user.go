package dto

import (
	"time"

	"trading-journal/internal/entity"
)

// RegisterRequest creates a new account in PENDING status.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Mobile     string `json:"mobile"`
	Plan       string `json:"plan"`
	ReferredBy string `json:"referred_by"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the opaque session token and the profile.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// PaymentProofRequest attaches an uploaded proof image reference to the profile.
type PaymentProofRequest struct {
	PaymentProof string `json:"payment_proof"`
}

// UserResponse is the public view of a profile.
type UserResponse struct {
	ID           string     `json:"id"`
	DisplayID    string     `json:"display_id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Mobile       string     `json:"mobile"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	Paid         bool       `json:"paid"`
	Plan         string     `json:"plan"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	ReferralCode string     `json:"referral_code"`
	ReferredBy   string     `json:"referred_by,omitempty"`
	PaymentProof string     `json:"payment_proof,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewUserResponse maps a profile entity to its public view.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		DisplayID:    u.DisplayID,
		Email:        u.Email,
		Name:         u.Name,
		Mobile:       u.Mobile,
		Role:         string(u.Role),
		Status:       string(u.Status),
		Paid:         u.Paid,
		Plan:         u.Plan,
		ExpiryDate:   u.ExpiryDate,
		ReferralCode: u.ReferralCode,
		ReferredBy:   u.ReferredBy,
		PaymentProof: u.PaymentProof,
		CreatedAt:    u.CreatedAt,
	}
}
