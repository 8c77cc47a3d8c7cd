package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"kaifacademy/models"
	courseModels "kaifacademy/models/course"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CertificateWithCourse is a certificate with the course summary shown on the certificate page
type CertificateWithCourse struct {
	courseModels.Certificate
	Course *CourseSummary `json:"course"`
}

// CourseSummary is the short description of a course attached to certificates and orders
type CourseSummary struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Level    string `json:"level"`
	Duration int    `json:"duration"`
}

func summarizeCourse(c courseModels.Course) *CourseSummary {
	return &CourseSummary{ID: c.ID, Title: c.Title, Category: c.Category, Level: c.Level, Duration: c.Duration}
}

// NewCertificateNumber returns a unique, human readable certificate number
func NewCertificateNumber(courseID uint) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("KTA-%d-%s", courseID, token[:12])
}

// IssueCertificate issues the completion certificate for userID in courseID. It is idempotent: once a
// certificate exists it is returned unchanged and the boolean result is false.
func IssueCertificate(db *gorm.DB, userID, courseID uint) (*courseModels.Certificate, bool, error) {
	enrollment, err := FindEnrollment(db, userID, courseID)
	if err != nil {
		return nil, false, err
	}
	if enrollment.Progress < 100 {
		return nil, false, ErrCourseNotCompleted
	}

	existing, err := findCertificate(db, userID, courseID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrCertificateMissing) {
		return nil, false, err
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, false, fmt.Errorf("load user: %w", err)
	}
	course, err := findCourse(db, courseID)
	if err != nil {
		return nil, false, err
	}

	snapshot, err := json.Marshal(courseModels.CertificateSnapshot{
		StudentName:  user.Name,
		StudentEmail: user.Email,
		CourseTitle:  course.Title,
		Category:     course.Category,
		Level:        course.Level,
		Duration:     course.Duration,
	})
	if err != nil {
		return nil, false, fmt.Errorf("encode certificate snapshot: %w", err)
	}

	certificate := courseModels.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: NewCertificateNumber(courseID),
		IssuedAt:          time.Now(),
		Snapshot:          datatypes.JSON(snapshot),
	}
	if err := db.Create(&certificate).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, findErr := findCertificate(db, userID, courseID)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create certificate: %w", err)
	}
	return &certificate, true, nil
}

// ListCertificates returns the user's certificates, newest first
func ListCertificates(db *gorm.DB, userID uint) ([]CertificateWithCourse, error) {
	var certificates []courseModels.Certificate
	if err := db.Where("user_id = ?", userID).Order("issued_at desc, id desc").Find(&certificates).Error; err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		result[i] = CertificateWithCourse{Certificate: cert}
		var course courseModels.Course
		if err := db.Unscoped().First(&course, cert.CourseID).Error; err == nil {
			result[i].Course = summarizeCourse(course)
		}
	}
	return result, nil
}

// GetCertificate looks a certificate up by id or by certificate number
func GetCertificate(db *gorm.DB, ref string) (*CertificateWithCourse, error) {
	var cert courseModels.Certificate
	query := db.Where("certificate_number = ?", ref)
	if id, ok := parseID(ref); ok {
		query = db.Where("id = ? OR certificate_number = ?", id, ref)
	}
	err := query.First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCertificateMissing
	}
	if err != nil {
		return nil, fmt.Errorf("load certificate: %w", err)
	}

	result := &CertificateWithCourse{Certificate: cert}
	var course courseModels.Course
	if err := db.Unscoped().First(&course, cert.CourseID).Error; err == nil {
		result.Course = summarizeCourse(course)
	}
	return result, nil
}

func findCertificate(db *gorm.DB, userID, courseID uint) (*courseModels.Certificate, error) {
	var cert courseModels.Certificate
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCertificateMissing
	}
	if err != nil {
		return nil, fmt.Errorf("load certificate: %w", err)
	}
	return &cert, nil
}
