package services

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"kaifacademy/models"
	courseModels "kaifacademy/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCertificateNumber(t *testing.T) {
	a := NewCertificateNumber(7)
	b := NewCertificateNumber(7)
	assert.True(t, strings.HasPrefix(a, "KTA-7-"))
	assert.Len(t, a, len("KTA-7-")+12)
	assert.NotEqual(t, a, b)
}

func TestIssueCertificate(t *testing.T) {
	db := setup(t)
	student := createUser(t, db, "tara", models.RoleStudent)
	course := createCourse(t, db, "Go Concurrency", 0, true)
	lessons := addLessons(t, db, course.ID, 2)

	_, _, err := IssueCertificate(db, student.ID, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	enroll(t, db, student.ID, course.ID)
	completeLessons(t, db, student.ID, lessons[:1])

	_, _, err = IssueCertificate(db, student.ID, course.ID)
	assert.ErrorIs(t, err, ErrCourseNotCompleted)

	completeLessons(t, db, student.ID, lessons[1:])

	cert, created, err := IssueCertificate(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, strings.HasPrefix(cert.CertificateNumber, "KTA-"))

	var snapshot courseModels.CertificateSnapshot
	require.NoError(t, json.Unmarshal(cert.Snapshot, &snapshot))
	assert.Equal(t, "tara", snapshot.StudentName)
	assert.Equal(t, "Go Concurrency", snapshot.CourseTitle)

	again, created, err := IssueCertificate(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, cert.ID, again.ID)
	assert.Equal(t, cert.CertificateNumber, again.CertificateNumber)

	var count int64
	require.NoError(t, db.Model(&courseModels.Certificate{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetCertificate(t *testing.T) {
	db := setup(t)
	student := createUser(t, db, "dev", models.RoleStudent)
	course := createCourse(t, db, "Linux", 0, true)
	lessons := addLessons(t, db, course.ID, 1)
	enroll(t, db, student.ID, course.ID)
	completeLessons(t, db, student.ID, lessons)

	cert, _, err := IssueCertificate(db, student.ID, course.ID)
	require.NoError(t, err)

	for _, ref := range []string{cert.CertificateNumber, strconv.FormatUint(uint64(cert.ID), 10)} {
		found, err := GetCertificate(db, ref)
		require.NoError(t, err, ref)
		assert.Equal(t, cert.ID, found.ID)
		require.NotNil(t, found.Course)
		assert.Equal(t, "Linux", found.Course.Title)
	}

	_, err = GetCertificate(db, "KTA-0-DOESNOTEXIST")
	assert.ErrorIs(t, err, ErrCertificateMissing)

	list, err := ListCertificates(db, student.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, cert.CertificateNumber, list[0].CertificateNumber)
}
