package entity

import "time"

// UserRole separates regular traders from the admin.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// UserStatus tracks the account approval lifecycle.
type UserStatus string

const (
	UserPending         UserStatus = "PENDING"
	UserWaitingApproval UserStatus = "WAITING_APPROVAL"
	UserApproved        UserStatus = "APPROVED"
	UserRejected        UserStatus = "REJECTED"
)

// User is an account profile stored in the profiles table.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	DisplayID    string `gorm:"uniqueIndex;not null" json:"display_id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`

	Role   UserRole   `gorm:"not null;default:USER" json:"role"`
	Status UserStatus `gorm:"not null;default:PENDING" json:"status"`

	Paid       bool       `gorm:"not null;default:false" json:"paid"`
	Plan       string     `json:"plan"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`

	ReferralCode string `json:"referral_code"`
	ReferredBy   string `json:"referred_by"`

	// PaymentProof is a reference to the uploaded proof image.
	PaymentProof string `json:"payment_proof,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "profiles"
}
