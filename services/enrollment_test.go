package services

import (
	"testing"

	"kaifacademy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollUser(t *testing.T) {
	db := setup(t)
	student := createUser(t, db, "asha", models.RoleStudent)
	published := createCourse(t, db, "Go Basics", 499, true)
	draft := createCourse(t, db, "Draft Course", 0, false)

	enrollment, err := EnrollUser(db, student.ID, published.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, enrollment.Progress)
	assert.Nil(t, enrollment.CompletedAt)
	assert.False(t, enrollment.EnrolledAt.IsZero())

	_, err = EnrollUser(db, student.ID, published.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	_, err = EnrollUser(db, student.ID, draft.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = EnrollUser(db, student.ID, 9999)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	var count int64
	require.NoError(t, db.Table("enrollments").Where("user_id = ?", student.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnrollWithoutPayment(t *testing.T) {
	db := setup(t)
	student := createUser(t, db, "ravi", models.RoleStudent)
	paid := createCourse(t, db, "Paid Course", 999, true)
	free := createCourse(t, db, "Free Course", 0, true)

	_, err := EnrollWithoutPayment(db, student.ID, paid.ID, true)
	assert.ErrorIs(t, err, ErrPaymentRequired)

	_, err = EnrollWithoutPayment(db, student.ID, free.ID, true)
	assert.NoError(t, err)

	_, err = EnrollWithoutPayment(db, student.ID, paid.ID, false)
	assert.NoError(t, err)
}

func TestListEnrollments(t *testing.T) {
	db := setup(t)
	student := createUser(t, db, "meera", models.RoleStudent)
	course := createCourse(t, db, "Python", 0, true)
	lessons := addLessons(t, db, course.ID, 4)
	enroll(t, db, student.ID, course.ID)
	completeLessons(t, db, student.ID, lessons[:1])

	list, err := ListEnrollments(db, student.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 4, list[0].TotalLessons)
	assert.EqualValues(t, 1, list[0].CompletedLessons)
	assert.Equal(t, 25, list[0].ProgressPercentage)
	require.NotNil(t, list[0].Course)
	assert.Equal(t, "Python", list[0].Course.Title)
}

func TestCourseEnrollments(t *testing.T) {
	db := setup(t)
	course := createCourse(t, db, "SQL", 0, true)
	lessons := addLessons(t, db, course.ID, 1)
	done := createUser(t, db, "done", models.RoleStudent)
	pending := createUser(t, db, "pending", models.RoleStudent)
	enroll(t, db, done.ID, course.ID)
	enroll(t, db, pending.ID, course.ID)
	completeLessons(t, db, done.ID, lessons)

	all, total, err := CourseEnrollments(db, course.ID, nil, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	completed := true
	finished, total, err := CourseEnrollments(db, course.ID, &completed, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, finished, 1)
	assert.Equal(t, "done@example.com", finished[0].UserEmail)
}
