package services

import (
	"context"
	"errors"
	"testing"

	"kaifacademy/models"
	courseModels "kaifacademy/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutPaid(t *testing.T) {
	db := setup(t)
	student := createUser(t, db, "sana", models.RoleStudent)
	course := createCourse(t, db, "AWS", 1499, true)
	gateway := &fakeGateway{}

	result, err := Checkout(context.Background(), db, gateway, CheckoutInput{
		UserID: student.ID, CourseID: course.ID, IdempotencyKey: "order-1", Currency: "INR",
	})
	require.NoError(t, err)
	assert.False(t, result.Replayed)
	assert.Equal(t, courseModels.OrderPaid, result.Order.Status)
	assert.InDelta(t, 1499, result.Order.Amount, 0.001)
	assert.NotNil(t, result.Order.PaidAt)
	require.NotNil(t, result.Enrollment)
	assert.Equal(t, course.ID, result.Enrollment.CourseID)
	assert.Equal(t, 1, gateway.calls())

	replayed, err := Checkout(context.Background(), db, gateway, CheckoutInput{
		UserID: student.ID, CourseID: course.ID, IdempotencyKey: "order-1", Currency: "INR",
	})
	require.NoError(t, err)
	assert.True(t, replayed.Replayed)
	assert.Equal(t, result.Order.ID, replayed.Order.ID)
	require.NotNil(t, replayed.Enrollment)
	assert.Equal(t, 1, gateway.calls())

	// a new key for a course already owned is refused
	_, err = Checkout(context.Background(), db, gateway, CheckoutInput{
		UserID: student.ID, CourseID: course.ID, IdempotencyKey: "order-2",
	})
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	orders, err := ListOrders(db, student.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].Course)
	assert.Equal(t, "AWS", orders[0].Course.Title)
}

func TestCheckoutDeclined(t *testing.T) {
	tests := []struct {
		name       string
		gateway    *fakeGateway
		wantReason string
	}{
		{"declined", &fakeGateway{decline: "insufficient funds"}, "insufficient funds"},
		{"gateway error", &fakeGateway{err: errors.New("connection reset")}, "connection reset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setup(t)
			student := createUser(t, db, "kiran", models.RoleStudent)
			course := createCourse(t, db, "GCP", 999, true)

			result, err := Checkout(context.Background(), db, tt.gateway, CheckoutInput{UserID: student.ID, CourseID: course.ID})
			assert.ErrorIs(t, err, ErrPaymentFailed)
			require.NotNil(t, result)
			assert.Equal(t, courseModels.OrderFailed, result.Order.Status)
			assert.Equal(t, tt.wantReason, result.Order.FailureReason)
			assert.Nil(t, result.Enrollment)

			enrolled, err := IsEnrolled(db, student.ID, course.ID)
			require.NoError(t, err)
			assert.False(t, enrolled)

			var stored courseModels.Order
			require.NoError(t, db.First(&stored, result.Order.ID).Error)
			assert.Equal(t, courseModels.OrderFailed, stored.Status)
		})
	}
}

func TestCheckoutFreeCourse(t *testing.T) {
	db := setup(t)
	student := createUser(t, db, "om", models.RoleStudent)
	course := createCourse(t, db, "Intro to Git", 0, true)
	gateway := &fakeGateway{decline: "should not be called"}

	result, err := Checkout(context.Background(), db, gateway, CheckoutInput{UserID: student.ID, CourseID: course.ID})
	require.NoError(t, err)
	assert.Equal(t, courseModels.OrderPaid, result.Order.Status)
	assert.Equal(t, "free", result.Order.Gateway)
	assert.Equal(t, 0, gateway.calls())
	assert.NotNil(t, result.Enrollment)
}

func TestCheckoutUnpublished(t *testing.T) {
	db := setup(t)
	student := createUser(t, db, "jay", models.RoleStudent)
	course := createCourse(t, db, "Hidden", 100, false)

	_, err := Checkout(context.Background(), db, &fakeGateway{}, CheckoutInput{UserID: student.ID, CourseID: course.ID})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCheckoutKeyReusedForAnotherCourse(t *testing.T) {
	db := setup(t)
	student := createUser(t, db, "zoya", models.RoleStudent)
	first := createCourse(t, db, "Docker", 799, true)
	second := createCourse(t, db, "Kubernetes", 899, true)
	gateway := &fakeGateway{}

	_, err := Checkout(context.Background(), db, gateway, CheckoutInput{UserID: student.ID, CourseID: first.ID, IdempotencyKey: "k"})
	require.NoError(t, err)

	result, err := Checkout(context.Background(), db, gateway, CheckoutInput{UserID: student.ID, CourseID: second.ID, IdempotencyKey: "k"})
	assert.ErrorIs(t, err, ErrIdempotencyKeyUsed)
	assert.Nil(t, result)
	assert.Equal(t, 1, gateway.calls())

	enrolled, err := IsEnrolled(db, student.ID, second.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	// the same key is still free for another user
	other := createUser(t, db, "arjun", models.RoleStudent)
	result, err = Checkout(context.Background(), db, gateway, CheckoutInput{UserID: other.ID, CourseID: second.ID, IdempotencyKey: "k"})
	require.NoError(t, err)
	assert.False(t, result.Replayed)
}
