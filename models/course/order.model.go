package course

import (
	"time"

	"gorm.io/gorm"
)

const (
	OrderPending = "PENDING"
	OrderPaid    = "PAID"
	OrderFailed  = "FAILED"
)

// Order records a checkout attempt for a course
type Order struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"not null;index;uniqueIndex:idx_order_user_key"`
	CourseID       uint       `json:"course_id" gorm:"not null;index"`
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency" gorm:"size:8"`
	Status         string     `json:"status" gorm:"size:20;default:'PENDING';index"` // PENDING, PAID, FAILED
	Gateway        string     `json:"gateway" gorm:"size:32"`
	GatewayRef     string     `json:"gateway_ref"`
	IdempotencyKey *string    `json:"idempotency_key,omitempty" gorm:"size:100;uniqueIndex:idx_order_user_key"`
	FailureReason  string     `json:"failure_reason,omitempty"`
	PaidAt         *time.Time `json:"paid_at"`
	Course         *Course    `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
