package models

import (
	"time"

	"gorm.io/gorm"
)

// OTP is a one-time email verification code
type OTP struct {
	gorm.Model
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Email       string    `gorm:"size:191;index" json:"email"`
	Code        string    `gorm:"size:6;not null" json:"-"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	IsUsed      bool      `gorm:"default:false" json:"is_used"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
}
