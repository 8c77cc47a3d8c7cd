package services

import (
	"testing"

	"kaifacademy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminStats(t *testing.T) {
	db := setup(t)
	createUser(t, db, "admin", models.RoleAdmin)
	alice := createUser(t, db, "alice", models.RoleStudent)
	bob := createUser(t, db, "bob", models.RoleStudent)

	web := createCourse(t, db, "Web", 1000, true)
	data := createCourse(t, db, "Data", 500, true)
	createCourse(t, db, "Draft", 300, false)
	lessons := addLessons(t, db, web.ID, 1)

	enroll(t, db, alice.ID, web.ID)
	enroll(t, db, bob.ID, web.ID)
	enroll(t, db, alice.ID, data.ID)
	completeLessons(t, db, alice.ID, lessons)
	_, _, err := IssueCertificate(db, alice.ID, web.ID)
	require.NoError(t, err)

	stats, err := AdminStats(db)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalStudents)
	assert.EqualValues(t, 2, stats.TotalCourses)
	assert.EqualValues(t, 3, stats.TotalEnrollments)
	assert.EqualValues(t, 1, stats.CompletedEnrollments)
	assert.EqualValues(t, 3, stats.EnrollmentsThisMonth)
	assert.EqualValues(t, 1, stats.CertificatesIssued)
	assert.InDelta(t, 2500, stats.EstimatedRevenue, 0.001)
	assert.InDelta(t, 0, stats.CollectedRevenue, 0.001)

	assert.Len(t, stats.RecentStudents, 2)
	require.NotEmpty(t, stats.TopCourses)
	assert.Equal(t, "Web", stats.TopCourses[0].Title)
	assert.EqualValues(t, 2, stats.TopCourses[0].TotalStudents)
	assert.InDelta(t, 2000, stats.TopCourses[0].EstimatedRevenue, 0.001)
}
