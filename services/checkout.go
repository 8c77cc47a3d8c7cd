package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	courseModels "kaifacademy/models/course"

	"gorm.io/gorm"
)

// ChargeRequest is what a gateway needs to take one payment
type ChargeRequest struct {
	OrderID     uint
	UserID      uint
	CourseID    uint
	Amount      float64
	Currency    string
	Description string
}

// ChargeResult is the gateway verdict. A declined payment is a result with Success false, not an error.
type ChargeResult struct {
	Success       bool
	Reference     string
	FailureReason string
}

// PaymentGateway takes payments for orders
type PaymentGateway interface {
	Name() string
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

type CheckoutInput struct {
	UserID         uint
	CourseID       uint
	IdempotencyKey string
	Currency       string
}

// CheckoutResult carries the order and, once paid, the enrollment. Replayed is true when an
// order with the same idempotency key already existed and was returned unchanged.
type CheckoutResult struct {
	Order      *courseModels.Order      `json:"order"`
	Enrollment *courseModels.Enrollment `json:"enrollment,omitempty"`
	Replayed   bool                     `json:"replayed"`
}

// Checkout records an order for the course, charges the gateway and enrolls the user on success.
// A failed charge returns the FAILED order together with ErrPaymentFailed.
func Checkout(ctx context.Context, db *gorm.DB, gateway PaymentGateway, in CheckoutInput) (*CheckoutResult, error) {
	course, err := findPublishedCourse(db, in.CourseID)
	if err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" {
		if existing, err := findOrderByKey(db, in.UserID, in.IdempotencyKey); err == nil {
			return replay(db, existing, in.CourseID)
		} else if !errors.Is(err, ErrOrderNotFound) {
			return nil, err
		}
	}

	enrolled, err := IsEnrolled(db, in.UserID, in.CourseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	order := courseModels.Order{
		UserID:   in.UserID,
		CourseID: in.CourseID,
		Amount:   course.Price,
		Currency: in.Currency,
		Status:   courseModels.OrderPending,
		Gateway:  gateway.Name(),
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		order.IdempotencyKey = &key
	}
	if err := db.Create(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) && in.IdempotencyKey != "" {
			existing, findErr := findOrderByKey(db, in.UserID, in.IdempotencyKey)
			if findErr != nil {
				return nil, findErr
			}
			return replay(db, existing, in.CourseID)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	var result *ChargeResult
	if course.Price <= 0 {
		order.Gateway = "free"
		result = &ChargeResult{Success: true}
	} else {
		result, err = gateway.Charge(ctx, ChargeRequest{
			OrderID:     order.ID,
			UserID:      in.UserID,
			CourseID:    in.CourseID,
			Amount:      course.Price,
			Currency:    in.Currency,
			Description: course.Title,
		})
		if err != nil {
			log.Printf("[CHECKOUT] Gateway %s error for order %d: %v", gateway.Name(), order.ID, err)
			result = &ChargeResult{Success: false, FailureReason: err.Error()}
		}
	}

	if !result.Success {
		if err := db.Model(&order).Updates(map[string]interface{}{
			"status":         courseModels.OrderFailed,
			"gateway_ref":    result.Reference,
			"failure_reason": result.FailureReason,
		}).Error; err != nil {
			return nil, fmt.Errorf("mark order %d failed: %w", order.ID, err)
		}
		order.Status = courseModels.OrderFailed
		order.GatewayRef = result.Reference
		order.FailureReason = result.FailureReason
		order.Course = course
		return &CheckoutResult{Order: &order}, ErrPaymentFailed
	}

	paidAt := time.Now()
	if err := db.Model(&order).Updates(map[string]interface{}{
		"status":      courseModels.OrderPaid,
		"gateway":     order.Gateway,
		"gateway_ref": result.Reference,
		"paid_at":     paidAt,
	}).Error; err != nil {
		return nil, fmt.Errorf("mark order %d paid: %w", order.ID, err)
	}
	order.Status = courseModels.OrderPaid
	order.GatewayRef = result.Reference
	order.PaidAt = &paidAt

	enrollment, err := EnrollUser(db, in.UserID, in.CourseID)
	if errors.Is(err, ErrAlreadyEnrolled) {
		enrollment, err = FindEnrollment(db, in.UserID, in.CourseID)
	}
	if err != nil {
		return nil, err
	}
	order.Course = course
	return &CheckoutResult{Order: &order, Enrollment: enrollment}, nil
}

// ListOrders returns the user's orders, newest first
func ListOrders(db *gorm.DB, userID uint) ([]courseModels.Order, error) {
	var orders []courseModels.Order
	if err := db.Where("user_id = ?", userID).
		Preload("Course", func(tx *gorm.DB) *gorm.DB {
			return tx.Unscoped().Select("id", "title", "price", "thumbnail")
		}).
		Order("created_at desc, id desc").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func findOrderByKey(db *gorm.DB, userID uint, key string) (*courseModels.Order, error) {
	var order courseModels.Order
	err := db.Where("user_id = ? AND idempotency_key = ?", userID, key).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	return &order, nil
}

// replay returns a stored order again. The key must have been used for the same course.
func replay(db *gorm.DB, order *courseModels.Order, courseID uint) (*CheckoutResult, error) {
	if order.CourseID != courseID {
		return nil, ErrIdempotencyKeyUsed
	}
	result := &CheckoutResult{Order: order, Replayed: true}
	if order.Status == courseModels.OrderPaid {
		enrollment, err := FindEnrollment(db, order.UserID, order.CourseID)
		if err != nil && !errors.Is(err, ErrNotEnrolled) {
			return nil, err
		}
		result.Enrollment = enrollment
	}
	return result, nil
}
