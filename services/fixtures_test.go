package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"kaifacademy/database/databasetest"
	"kaifacademy/models"
	courseModels "kaifacademy/models/course"

	"gorm.io/gorm"
)

func setup(t *testing.T) *gorm.DB {
	t.Helper()
	return databasetest.ConnectTestDb(t)
}

func createUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "not-a-real-hash",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return user
}

func createCourse(t *testing.T, db *gorm.DB, title string, price float64, published bool) *courseModels.Course {
	t.Helper()
	course, err := CreateCourse(db, CourseInput{
		Title:       title,
		Description: title + " description",
		Price:       price,
		Category:    "Web Development",
		Level:       courseModels.LevelBeginner,
		Duration:    10,
		IsPublished: published,
	})
	if err != nil {
		t.Fatalf("createCourse() failed: %v", err)
	}
	return course
}

// addLessons creates one module holding n lessons, the first of which is a preview
func addLessons(t *testing.T, db *gorm.DB, courseID uint, n int) []courseModels.Lesson {
	t.Helper()
	module, err := CreateModule(db, courseID, ModuleInput{Title: fmt.Sprintf("Module for course %d", courseID)})
	if err != nil {
		t.Fatalf("addLessons() module failed: %v", err)
	}
	lessons := make([]courseModels.Lesson, 0, n)
	for i := 0; i < n; i++ {
		lesson, err := CreateLesson(db, module.ID, LessonInput{
			Title:     fmt.Sprintf("Lesson %d", i+1),
			Content:   "<p>body</p>",
			VideoURL:  "https://videos.example.com/lesson.mp4",
			Duration:  10,
			Type:      courseModels.LessonTypeVideo,
			IsPreview: i == 0,
		})
		if err != nil {
			t.Fatalf("addLessons() lesson failed: %v", err)
		}
		lessons = append(lessons, *lesson)
	}
	return lessons
}

func enroll(t *testing.T, db *gorm.DB, userID, courseID uint) *courseModels.Enrollment {
	t.Helper()
	enrollment, err := EnrollUser(db, userID, courseID)
	if err != nil {
		t.Fatalf("enroll() failed: %v", err)
	}
	return enrollment
}

func completeLessons(t *testing.T, db *gorm.DB, userID uint, lessons []courseModels.Lesson) *courseModels.Enrollment {
	t.Helper()
	done := true
	var enrollment *courseModels.Enrollment
	for _, l := range lessons {
		var err error
		if _, enrollment, err = RecordProgress(db, userID, l.ID, ProgressInput{Completed: &done}); err != nil {
			t.Fatalf("completeLessons() failed: %v", err)
		}
	}
	return enrollment
}

// fakeGateway approves or declines every charge and remembers the requests
type fakeGateway struct {
	mu      sync.Mutex
	decline string
	err     error
	charges []ChargeRequest
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.charges = append(g.charges, req)
	if g.err != nil {
		return nil, g.err
	}
	if g.decline != "" {
		return &ChargeResult{Success: false, Reference: "fake-declined", FailureReason: g.decline}, nil
	}
	return &ChargeResult{Success: true, Reference: fmt.Sprintf("fake-%d", req.OrderID)}, nil
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.charges)
}
