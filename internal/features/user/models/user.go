package models

import "time"

// Role is the user's role in the collection workflow.
type Role string

const (
	RoleResident  Role = "resident"
	RoleCollector Role = "collector"
	RoleAdmin     Role = "admin"
)

// BankDetails holds the payout account for cash redemptions.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
}

// CategoryWeight is one entry of a user's lifetime per-category recycling
// record, written by the collection backend when pickups are archived.
type CategoryWeight struct {
	Category string  `json:"category"`
	WeightKg float64 `json:"weight_kg"`
}

// User represents an account in the recycling rewards system.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`

	// ZointBalance is the redeemable reward-point balance.
	ZointBalance int64 `json:"zoint_balance"`

	// Lifetime totals archived before the current session's pickups;
	// the impact aggregator adds session weight on top, never into these.
	LifetimeRecycledKg float64          `json:"lifetime_recycled_kg,omitempty"`
	LifetimeBreakdown  []CategoryWeight `json:"lifetime_breakdown,omitempty"`

	Bank *BankDetails `json:"bank,omitempty"`

	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserResponse is the public view of a user, without credentials.
type UserResponse struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	Phone              string           `json:"phone"`
	Role               Role             `json:"role"`
	AvatarURL          string           `json:"avatar_url,omitempty"`
	ZointBalance       int64            `json:"zoint_balance"`
	LifetimeRecycledKg float64          `json:"lifetime_recycled_kg,omitempty"`
	LifetimeBreakdown  []CategoryWeight `json:"lifetime_breakdown,omitempty"`
	Bank               *BankDetails     `json:"bank,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

// ProfileUpdate carries partial profile edits; nil fields are left unchanged.
type ProfileUpdate struct {
	Name      *string      `json:"name,omitempty" binding:"omitempty,min=1,max=64"`
	Email     *string      `json:"email,omitempty" binding:"omitempty,email"`
	Phone     *string      `json:"phone,omitempty"`
	AvatarURL *string      `json:"avatar_url,omitempty" binding:"omitempty,url"`
	Bank      *BankDetails `json:"bank,omitempty"`
}

// InitiatePasswordChange starts the two-step password change.
type InitiatePasswordChange struct {
	CurrentPassword string `json:"current_password" binding:"required"`
}

// ConfirmPasswordChange completes the two-step password change.
type ConfirmPasswordChange struct {
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}
