package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	courseModels "kaifacademy/models/course"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// CourseFilter narrows the public catalog listing
type CourseFilter struct {
	Category           string
	Level              string
	Featured           *bool
	Page               int
	Limit              int
	IncludeUnpublished bool
	Published          *bool // only honoured together with IncludeUnpublished
}

func (f *CourseFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

// CourseListItem is a catalog entry with its aggregate counters
type CourseListItem struct {
	courseModels.Course
	TotalStudents int64   `json:"total_students"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

// Pagination is returned alongside every paged listing
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

// ListCourses returns one page of courses, newest first
func ListCourses(db *gorm.DB, f CourseFilter) ([]CourseListItem, Pagination, error) {
	f.normalize()

	query := db.Model(&courseModels.Course{})
	switch {
	case !f.IncludeUnpublished:
		query = query.Where("is_published = ?", true)
	case f.Published != nil:
		query = query.Where("is_published = ?", *f.Published)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Level != "" {
		query = query.Where("level = ?", f.Level)
	}
	if f.Featured != nil {
		query = query.Where("is_featured = ?", *f.Featured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("count courses: %w", err)
	}

	var courses []courseModels.Course
	if err := query.Order("created_at desc, id desc").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&courses).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("list courses: %w", err)
	}

	page := Pagination{Total: total, Page: f.Page, Limit: f.Limit, Pages: (total + int64(f.Limit) - 1) / int64(f.Limit)}
	if len(courses) == 0 {
		return []CourseListItem{}, page, nil
	}

	ids := make([]uint, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}

	var studentRows []struct {
		CourseID uint
		Total    int64
	}
	if err := db.Model(&courseModels.Enrollment{}).
		Select("course_id, COUNT(*) AS total").
		Where("course_id IN ?", ids).
		Group("course_id").
		Scan(&studentRows).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("count students: %w", err)
	}
	students := make(map[uint]int64, len(studentRows))
	for _, r := range studentRows {
		students[r.CourseID] = r.Total
	}

	var reviewRows []struct {
		CourseID uint
		Rating   int
	}
	if err := db.Model(&courseModels.Review{}).
		Select("course_id, rating").
		Where("course_id IN ?", ids).
		Scan(&reviewRows).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("load ratings: %w", err)
	}
	ratings := make(map[uint][]int)
	for _, r := range reviewRows {
		ratings[r.CourseID] = append(ratings[r.CourseID], r.Rating)
	}

	items := make([]CourseListItem, len(courses))
	for i, c := range courses {
		summary := SummarizeRatings(ratings[c.ID])
		items[i] = CourseListItem{
			Course:        c,
			TotalStudents: students[c.ID],
			AverageRating: summary.AverageRating,
			TotalReviews:  summary.TotalReviews,
		}
	}
	return items, page, nil
}

// CourseDetail is the public course page payload
type CourseDetail struct {
	courseModels.Course
	TotalStudents      int64                 `json:"total_students"`
	TotalLessons       int                   `json:"total_lessons"`
	TotalDuration      int                   `json:"total_duration"` // minutes, sum of lesson durations
	AverageRating      float64               `json:"average_rating"`
	TotalReviews       int                   `json:"total_reviews"`
	RatingDistribution map[int]int           `json:"rating_distribution"`
	Reviews            []courseModels.Review `json:"reviews"`
	IsEnrolled         bool                  `json:"is_enrolled"`
}

// GetCourseDetail loads a published course with its ordered outline. Lesson bodies are left out;
// they are served by the content endpoints. viewerID is nil for anonymous callers.
func GetCourseDetail(db *gorm.DB, courseID uint, viewerID *uint) (*CourseDetail, error) {
	var course courseModels.Course
	err := db.Where("id = ? AND is_published = ?", courseID, true).
		Preload("Modules", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order asc, id asc")
		}).
		Preload("Modules.Lessons", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "created_at", "updated_at", "module_id", "title", "description", "duration", "sort_order", "type", "is_preview").
				Order("sort_order asc, id asc")
		}).
		First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}

	detail := &CourseDetail{Course: course}
	for _, m := range course.Modules {
		detail.TotalLessons += len(m.Lessons)
		for _, l := range m.Lessons {
			detail.TotalDuration += l.Duration
		}
	}

	if err := db.Model(&courseModels.Enrollment{}).Where("course_id = ?", courseID).Count(&detail.TotalStudents).Error; err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}

	summary, err := CourseRatingSummary(db, courseID)
	if err != nil {
		return nil, err
	}
	detail.AverageRating = summary.AverageRating
	detail.TotalReviews = summary.TotalReviews
	detail.RatingDistribution = summary.RatingDistribution

	if detail.Reviews, err = recentReviews(db, courseID); err != nil {
		return nil, err
	}

	if viewerID != nil {
		if detail.IsEnrolled, err = IsEnrolled(db, *viewerID, courseID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// CourseInput is the full set of fields accepted when creating a course
type CourseInput struct {
	Title         string
	Description   string
	ShortDesc     string
	Thumbnail     string
	Price         float64
	OriginalPrice *float64
	Category      string
	Level         string
	Duration      int
	Language      string
	Tags          []string
	IsPublished   bool
	IsFeatured    bool
}

// CourseUpdate holds the fields of a partial course update. Nil fields are left untouched.
type CourseUpdate struct {
	Title         *string
	Description   *string
	ShortDesc     *string
	Thumbnail     *string
	Price         *float64
	OriginalPrice *float64
	Category      *string
	Level         *string
	Duration      *int
	Language      *string
	Tags          *[]string
	IsPublished   *bool
	IsFeatured    *bool
}

func encodeTags(tags []string) (datatypes.JSON, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func CreateCourse(db *gorm.DB, in CourseInput) (*courseModels.Course, error) {
	tags, err := encodeTags(in.Tags)
	if err != nil {
		return nil, err
	}
	level := in.Level
	if level == "" {
		level = courseModels.LevelBeginner
	}
	language := in.Language
	if language == "" {
		language = "Hindi"
	}

	course := courseModels.Course{
		Title:         in.Title,
		Description:   in.Description,
		ShortDesc:     in.ShortDesc,
		Thumbnail:     in.Thumbnail,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Category:      in.Category,
		Level:         level,
		Duration:      in.Duration,
		Language:      language,
		Tags:          tags,
		IsPublished:   in.IsPublished,
		IsFeatured:    in.IsFeatured,
	}
	if err := db.Create(&course).Error; err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return &course, nil
}

func UpdateCourse(db *gorm.DB, courseID uint, in CourseUpdate) (*courseModels.Course, error) {
	course, err := findCourse(db, courseID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	setString := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	setString("title", in.Title)
	setString("description", in.Description)
	setString("short_desc", in.ShortDesc)
	setString("thumbnail", in.Thumbnail)
	setString("category", in.Category)
	setString("level", in.Level)
	setString("language", in.Language)
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.OriginalPrice != nil {
		updates["original_price"] = *in.OriginalPrice
	}
	if in.Duration != nil {
		updates["duration"] = *in.Duration
	}
	if in.IsPublished != nil {
		updates["is_published"] = *in.IsPublished
	}
	if in.IsFeatured != nil {
		updates["is_featured"] = *in.IsFeatured
	}
	if in.Tags != nil {
		tags, err := encodeTags(*in.Tags)
		if err != nil {
			return nil, err
		}
		updates["tags"] = tags
	}

	if len(updates) > 0 {
		if err := db.Model(course).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update course %d: %w", courseID, err)
		}
	}
	return findCourse(db, courseID)
}

// DeleteCourse soft-deletes the course. Enrollments, reviews and certificates are kept.
func DeleteCourse(db *gorm.DB, courseID uint) error {
	course, err := findCourse(db, courseID)
	if err != nil {
		return err
	}
	if err := db.Delete(course).Error; err != nil {
		return fmt.Errorf("delete course %d: %w", courseID, err)
	}
	return nil
}

type ModuleInput struct {
	Title       string
	Description string
	Order       *int
}

// CreateModule appends a module to the course. Without an explicit order it goes last.
func CreateModule(db *gorm.DB, courseID uint, in ModuleInput) (*courseModels.Module, error) {
	if _, err := findCourse(db, courseID); err != nil {
		return nil, err
	}

	order := 0
	if in.Order != nil {
		order = *in.Order
	} else {
		var last int
		if err := db.Model(&courseModels.Module{}).Where("course_id = ?", courseID).
			Select("COALESCE(MAX(sort_order), -1)").Scan(&last).Error; err != nil {
			return nil, fmt.Errorf("next module order: %w", err)
		}
		order = last + 1
	}

	module := courseModels.Module{CourseID: courseID, Title: in.Title, Description: in.Description, Order: order}
	if err := db.Create(&module).Error; err != nil {
		return nil, fmt.Errorf("create module: %w", err)
	}
	return &module, nil
}

func UpdateModule(db *gorm.DB, moduleID uint, title, description *string, order *int) (*courseModels.Module, error) {
	module, err := findModule(db, moduleID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if title != nil {
		updates["title"] = *title
	}
	if description != nil {
		updates["description"] = *description
	}
	if order != nil {
		updates["sort_order"] = *order
	}
	if len(updates) > 0 {
		if err := db.Model(module).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update module %d: %w", moduleID, err)
		}
	}
	return findModule(db, moduleID)
}

// DeleteModule soft-deletes the module and its lessons
func DeleteModule(db *gorm.DB, moduleID uint) error {
	module, err := findModule(db, moduleID)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", moduleID).Delete(&courseModels.Lesson{}).Error; err != nil {
			return fmt.Errorf("delete lessons of module %d: %w", moduleID, err)
		}
		if err := tx.Delete(module).Error; err != nil {
			return fmt.Errorf("delete module %d: %w", moduleID, err)
		}
		return nil
	})
}

type LessonInput struct {
	Title       string
	Description string
	Content     string
	VideoURL    string
	Duration    int
	Order       *int
	Type        string
	IsPreview   bool
}

type LessonUpdate struct {
	Title       *string
	Description *string
	Content     *string
	VideoURL    *string
	Duration    *int
	Order       *int
	Type        *string
	IsPreview   *bool
}

// CreateLesson appends a lesson to the module. Without an explicit order it goes last.
func CreateLesson(db *gorm.DB, moduleID uint, in LessonInput) (*courseModels.Lesson, error) {
	if _, err := findModule(db, moduleID); err != nil {
		return nil, err
	}

	order := 0
	if in.Order != nil {
		order = *in.Order
	} else {
		var last int
		if err := db.Model(&courseModels.Lesson{}).Where("module_id = ?", moduleID).
			Select("COALESCE(MAX(sort_order), -1)").Scan(&last).Error; err != nil {
			return nil, fmt.Errorf("next lesson order: %w", err)
		}
		order = last + 1
	}
	lessonType := in.Type
	if lessonType == "" {
		lessonType = courseModels.LessonTypeVideo
	}

	lesson := courseModels.Lesson{
		ModuleID:    moduleID,
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		VideoURL:    in.VideoURL,
		Duration:    in.Duration,
		Order:       order,
		Type:        lessonType,
		IsPreview:   in.IsPreview,
	}
	if err := db.Create(&lesson).Error; err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	return &lesson, nil
}

func UpdateLesson(db *gorm.DB, lessonID uint, in LessonUpdate) (*courseModels.Lesson, error) {
	lesson, err := findLesson(db, lessonID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Content != nil {
		updates["content"] = *in.Content
	}
	if in.VideoURL != nil {
		updates["video_url"] = *in.VideoURL
	}
	if in.Duration != nil {
		updates["duration"] = *in.Duration
	}
	if in.Order != nil {
		updates["sort_order"] = *in.Order
	}
	if in.Type != nil {
		updates["type"] = *in.Type
	}
	if in.IsPreview != nil {
		updates["is_preview"] = *in.IsPreview
	}
	if len(updates) > 0 {
		if err := db.Model(&courseModels.Lesson{}).Where("id = ?", lesson.ID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update lesson %d: %w", lessonID, err)
		}
	}
	return findLesson(db, lessonID)
}

func DeleteLesson(db *gorm.DB, lessonID uint) error {
	if _, err := findLesson(db, lessonID); err != nil {
		return err
	}
	if err := db.Delete(&courseModels.Lesson{}, lessonID).Error; err != nil {
		return fmt.Errorf("delete lesson %d: %w", lessonID, err)
	}
	return nil
}

func findModule(db *gorm.DB, moduleID uint) (*courseModels.Module, error) {
	var module courseModels.Module
	err := db.First(&module, moduleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrModuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load module %d: %w", moduleID, err)
	}
	return &module, nil
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
