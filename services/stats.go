package services

import (
	"fmt"
	"log"
	"time"

	"kaifacademy/models"
	courseModels "kaifacademy/models/course"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

const (
	recentStudentsLimit = 10
	topCoursesLimit     = 5
)

// DashboardStats is the admin dashboard payload
type DashboardStats struct {
	TotalStudents        int64           `json:"total_students"`
	TotalCourses         int64           `json:"total_courses"`
	TotalEnrollments     int64           `json:"total_enrollments"`
	CompletedEnrollments int64           `json:"completed_enrollments"`
	EnrollmentsThisMonth int64           `json:"enrollments_this_month"`
	CertificatesIssued   int64           `json:"certificates_issued"`
	EstimatedRevenue     float64         `json:"estimated_revenue"`
	CollectedRevenue     float64         `json:"collected_revenue"`
	RecentStudents       []RecentStudent `json:"recent_students"`
	TopCourses           []TopCourse     `json:"top_courses"`
}

type RecentStudent struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	CreatedAt       time.Time `json:"created_at"`
	EnrolledCourses int64     `json:"enrolled_courses"`
}

type TopCourse struct {
	ID               uint    `json:"id"`
	Title            string  `json:"title"`
	Price            float64 `json:"price"`
	TotalStudents    int64   `json:"total_students"`
	EstimatedRevenue float64 `json:"estimated_revenue"`
}

// AdminStats aggregates the dashboard counters
func AdminStats(db *gorm.DB) (*DashboardStats, error) {
	stats := &DashboardStats{}

	counts := []struct {
		query *gorm.DB
		dest  *int64
		name  string
	}{
		{db.Model(&models.User{}).Where("role = ?", models.RoleStudent), &stats.TotalStudents, "students"},
		{db.Model(&courseModels.Course{}).Where("is_published = ?", true), &stats.TotalCourses, "courses"},
		{db.Model(&courseModels.Enrollment{}), &stats.TotalEnrollments, "enrollments"},
		{db.Model(&courseModels.Enrollment{}).Where("progress >= ?", 100), &stats.CompletedEnrollments, "completed enrollments"},
		{db.Model(&courseModels.Enrollment{}).Where("enrolled_at >= ?", now.BeginningOfMonth()), &stats.EnrollmentsThisMonth, "monthly enrollments"},
		{db.Model(&courseModels.Certificate{}), &stats.CertificatesIssued, "certificates"},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", c.name, err)
		}
	}

	stats.EstimatedRevenue = EstimatedRevenue(db)
	stats.CollectedRevenue = CollectedRevenue(db)

	recent, err := recentStudents(db)
	if err != nil {
		return nil, err
	}
	stats.RecentStudents = recent

	top, err := topCourses(db)
	if err != nil {
		return nil, err
	}
	stats.TopCourses = top

	return stats, nil
}

// EstimatedRevenue sums the course price over all enrollments. Failures degrade to zero.
func EstimatedRevenue(db *gorm.DB) float64 {
	var total float64
	err := db.Model(&courseModels.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Select("COALESCE(SUM(courses.price), 0)").
		Scan(&total).Error
	if err != nil {
		log.Printf("[ADMIN-STATS] Error calculating revenue: %v", err)
		return 0
	}
	return total
}

// CollectedRevenue sums paid orders. Failures degrade to zero.
func CollectedRevenue(db *gorm.DB) float64 {
	var total float64
	err := db.Model(&courseModels.Order{}).
		Where("status = ?", courseModels.OrderPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		log.Printf("[ADMIN-STATS] Error calculating collected revenue: %v", err)
		return 0
	}
	return total
}

func recentStudents(db *gorm.DB) ([]RecentStudent, error) {
	var students []models.User
	if err := db.Where("role = ?", models.RoleStudent).
		Order("created_at desc, id desc").
		Limit(recentStudentsLimit).
		Find(&students).Error; err != nil {
		return nil, fmt.Errorf("recent students: %w", err)
	}

	result := make([]RecentStudent, len(students))
	for i, s := range students {
		var enrolled int64
		if err := db.Model(&courseModels.Enrollment{}).Where("user_id = ?", s.ID).Count(&enrolled).Error; err != nil {
			return nil, fmt.Errorf("count student enrollments: %w", err)
		}
		result[i] = RecentStudent{
			ID:              s.ID,
			Name:            s.Name,
			Email:           s.Email,
			CreatedAt:       s.CreatedAt,
			EnrolledCourses: enrolled,
		}
	}
	return result, nil
}

func topCourses(db *gorm.DB) ([]TopCourse, error) {
	var rows []TopCourse
	err := db.Model(&courseModels.Course{}).
		Select("courses.id, courses.title, courses.price, COUNT(enrollments.id) AS total_students").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id AND enrollments.deleted_at IS NULL").
		Where("courses.is_published = ?", true).
		Group("courses.id, courses.title, courses.price").
		Order("total_students desc, courses.id asc").
		Limit(topCoursesLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top courses: %w", err)
	}
	for i := range rows {
		rows[i].EstimatedRevenue = rows[i].Price * float64(rows[i].TotalStudents)
	}
	return rows, nil
}
