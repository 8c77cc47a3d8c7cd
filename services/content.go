package services

import (
	"errors"
	"fmt"

	"kaifacademy/models"
	courseModels "kaifacademy/models/course"

	"gorm.io/gorm"
)

// LessonWithProgress is a lesson together with the caller's progress row, nil when untouched
type LessonWithProgress struct {
	courseModels.Lesson
	Progress *courseModels.Progress `json:"progress"`
}

type ModuleWithProgress struct {
	courseModels.Module
	Lessons []LessonWithProgress `json:"lessons"`
}

// CourseContentView is the player page payload
type CourseContentView struct {
	Course     courseModels.Course      `json:"course"`
	Modules    []ModuleWithProgress     `json:"modules"`
	Enrollment *courseModels.Enrollment `json:"enrollment"`
}

// CanAccessLesson is the lesson gate: previews are open, everything else needs enrollment or the admin role
func CanAccessLesson(isPreview, enrolled, isAdmin bool) bool {
	return isPreview || enrolled || isAdmin
}

// CourseContent returns the full lesson tree of a course with the caller's progress.
// Only enrolled users and admins may see it.
func CourseContent(db *gorm.DB, user models.User, courseID uint) (*CourseContentView, error) {
	course, err := findCourse(db, courseID)
	if err != nil {
		return nil, err
	}

	enrollment, err := FindEnrollment(db, user.ID, courseID)
	switch {
	case errors.Is(err, ErrNotEnrolled):
		if !user.IsAdmin() {
			return nil, ErrAccessDenied
		}
		enrollment = nil
	case err != nil:
		return nil, err
	}

	modules, err := CourseProgressTree(db, user.ID, courseID)
	if err != nil {
		return nil, err
	}
	return &CourseContentView{Course: *course, Modules: modules, Enrollment: enrollment}, nil
}

// CourseProgressTree returns modules then lessons in order, each lesson carrying userID's progress row
func CourseProgressTree(db *gorm.DB, userID, courseID uint) ([]ModuleWithProgress, error) {
	var modules []courseModels.Module
	if err := db.Where("course_id = ?", courseID).
		Preload("Lessons", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order asc, id asc")
		}).
		Order("sort_order asc, id asc").
		Find(&modules).Error; err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}

	var lessonIDs []uint
	for _, m := range modules {
		for _, l := range m.Lessons {
			lessonIDs = append(lessonIDs, l.ID)
		}
	}

	progressByLesson := map[uint]*courseModels.Progress{}
	if len(lessonIDs) > 0 {
		var rows []courseModels.Progress
		if err := db.Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("load progress: %w", err)
		}
		for i := range rows {
			progressByLesson[rows[i].LessonID] = &rows[i]
		}
	}

	result := make([]ModuleWithProgress, len(modules))
	for i, m := range modules {
		lessons := make([]LessonWithProgress, len(m.Lessons))
		for j, l := range m.Lessons {
			lessons[j] = LessonWithProgress{Lesson: l, Progress: progressByLesson[l.ID]}
		}
		m.Lessons = nil
		result[i] = ModuleWithProgress{Module: m, Lessons: lessons}
	}
	return result, nil
}

// LessonRef is a neighbour lesson used for previous/next navigation
type LessonRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type LessonView struct {
	Lesson      courseModels.Lesson    `json:"lesson"`
	CourseID    uint                   `json:"course_id"`
	CourseTitle string                 `json:"course_title"`
	Progress    *courseModels.Progress `json:"progress"`
	IsEnrolled  bool                   `json:"is_enrolled"`
	Previous    *LessonRef             `json:"previous"`
	Next        *LessonRef             `json:"next"`
}

// GetLesson loads a single lesson for the viewer, nil for anonymous callers.
// Non-preview lessons return ErrLoginRequired without a viewer and ErrAccessDenied
// when the viewer is neither enrolled nor an admin.
func GetLesson(db *gorm.DB, lessonID uint, viewer *models.User) (*LessonView, error) {
	lesson, err := findLesson(db, lessonID)
	if err != nil {
		return nil, err
	}
	courseID := lesson.Module.CourseID
	course, err := findCourse(db, courseID)
	if err != nil {
		return nil, err
	}

	view := &LessonView{CourseID: courseID, CourseTitle: course.Title}
	isAdmin := false
	if viewer != nil {
		isAdmin = viewer.IsAdmin()
		if view.IsEnrolled, err = IsEnrolled(db, viewer.ID, courseID); err != nil {
			return nil, err
		}
	}

	if !lesson.IsPreview && viewer == nil {
		return nil, ErrLoginRequired
	}
	if !CanAccessLesson(lesson.IsPreview, view.IsEnrolled, isAdmin) {
		return nil, ErrAccessDenied
	}

	if viewer != nil {
		var progress courseModels.Progress
		err := db.Where("user_id = ? AND lesson_id = ?", viewer.ID, lessonID).First(&progress).Error
		if err == nil {
			view.Progress = &progress
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load progress: %w", err)
		}
	}

	var siblings []courseModels.Lesson
	if err := db.Select("id", "title", "sort_order").
		Where("module_id = ?", lesson.ModuleID).
		Order("sort_order asc, id asc").
		Find(&siblings).Error; err != nil {
		return nil, fmt.Errorf("load module lessons: %w", err)
	}
	for i, s := range siblings {
		if s.ID != lesson.ID {
			continue
		}
		if i > 0 {
			view.Previous = &LessonRef{ID: siblings[i-1].ID, Title: siblings[i-1].Title}
		}
		if i < len(siblings)-1 {
			view.Next = &LessonRef{ID: siblings[i+1].ID, Title: siblings[i+1].Title}
		}
		break
	}

	lesson.Module.Lessons = nil
	view.Lesson = *lesson
	return view, nil
}
