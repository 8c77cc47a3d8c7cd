package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion
type Certificate struct {
	gorm.Model
	UserID            uint           `json:"user_id" gorm:"uniqueIndex:idx_certificate_user_course;not null"`
	CourseID          uint           `json:"course_id" gorm:"uniqueIndex:idx_certificate_user_course;not null;index"`
	CertificateNumber string         `json:"certificate_number" gorm:"uniqueIndex;size:64"`
	IssuedAt          time.Time      `json:"issued_at"`
	Snapshot          datatypes.JSON `json:"snapshot"` // student and course details at issue time
}

// CertificateSnapshot is stored in Certificate.Snapshot
type CertificateSnapshot struct {
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	CourseTitle  string `json:"course_title"`
	Category     string `json:"category"`
	Level        string `json:"level"`
	Duration     int    `json:"duration"`
}
