package services

import (
	"testing"

	"kaifacademy/models"
	courseModels "kaifacademy/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCourses(t *testing.T) {
	db := setup(t)
	createCourse(t, db, "Draft", 0, false)
	web := createCourse(t, db, "Web", 0, true)
	_, err := CreateCourse(db, CourseInput{Title: "Pandas", Category: "Data Science", Level: courseModels.LevelAdvanced, IsPublished: true, IsFeatured: true})
	require.NoError(t, err)

	student := createUser(t, db, "lena", models.RoleStudent)
	enroll(t, db, student.ID, web.ID)
	_, _, err = UpsertReview(db, student.ID, web.ID, 4, "")
	require.NoError(t, err)

	items, page, err := ListCourses(db, CourseFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, DefaultPageSize, page.Limit)
	assert.EqualValues(t, 1, page.Pages)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.True(t, item.IsPublished)
		if item.ID == web.ID {
			assert.EqualValues(t, 1, item.TotalStudents)
			assert.Equal(t, 1, item.TotalReviews)
			assert.InDelta(t, 4.0, item.AverageRating, 0.0001)
		}
	}

	featured := true
	tests := []struct {
		name   string
		filter CourseFilter
		want   int64
	}{
		{"category", CourseFilter{Category: "Data Science"}, 1},
		{"level", CourseFilter{Level: courseModels.LevelBeginner}, 1},
		{"featured", CourseFilter{Featured: &featured}, 1},
		{"admin sees drafts", CourseFilter{IncludeUnpublished: true}, 3},
		{"admin drafts only", CourseFilter{IncludeUnpublished: true, Published: new(bool)}, 1},
		{"page size capped", CourseFilter{Limit: 1000}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, page, err := ListCourses(db, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Total)
			assert.LessOrEqual(t, page.Limit, MaxPageSize)
		})
	}
}

func TestGetCourseDetail(t *testing.T) {
	db := setup(t)
	course := createCourse(t, db, "Flutter", 0, true)
	lessons := addLessons(t, db, course.ID, 3)
	student := createUser(t, db, "omar", models.RoleStudent)
	enroll(t, db, student.ID, course.ID)

	detail, err := GetCourseDetail(db, course.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.TotalLessons)
	assert.Equal(t, 30, detail.TotalDuration)
	assert.EqualValues(t, 1, detail.TotalStudents)
	assert.False(t, detail.IsEnrolled)
	require.Len(t, detail.Modules, 1)
	require.Len(t, detail.Modules[0].Lessons, 3)
	for i, l := range detail.Modules[0].Lessons {
		assert.Equal(t, lessons[i].ID, l.ID)
		assert.Empty(t, l.Content)
		assert.Empty(t, l.VideoURL)
	}

	detail, err = GetCourseDetail(db, course.ID, &student.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsEnrolled)

	draft := createCourse(t, db, "Unreleased", 0, false)
	_, err = GetCourseDetail(db, draft.ID, nil)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseAuthoring(t *testing.T) {
	db := setup(t)
	course := createCourse(t, db, "Java", 0, false)

	title := "Java 21"
	published := true
	tags := []string{"jvm", "backend"}
	updated, err := UpdateCourse(db, course.ID, CourseUpdate{Title: &title, IsPublished: &published, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "Java 21", updated.Title)
	assert.True(t, updated.IsPublished)
	assert.JSONEq(t, `["jvm","backend"]`, string(updated.Tags))

	first, err := CreateModule(db, course.ID, ModuleInput{Title: "One"})
	require.NoError(t, err)
	second, err := CreateModule(db, course.ID, ModuleInput{Title: "Two"})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)

	lesson, err := CreateLesson(db, second.ID, LessonInput{Title: "Text lesson", Type: courseModels.LessonTypeText, Content: "hello"})
	require.NoError(t, err)
	preview := true
	lessonUpdate, err := UpdateLesson(db, lesson.ID, LessonUpdate{IsPreview: &preview})
	require.NoError(t, err)
	assert.True(t, lessonUpdate.IsPreview)

	require.NoError(t, DeleteModule(db, second.ID))
	_, err = GetLesson(db, lesson.ID, nil)
	assert.ErrorIs(t, err, ErrLessonNotFound)

	require.NoError(t, DeleteCourse(db, course.ID))
	_, err = CreateModule(db, course.ID, ModuleInput{Title: "Three"})
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = CreateLesson(db, 4242, LessonInput{Title: "Orphan"})
	assert.ErrorIs(t, err, ErrModuleNotFound)
}
