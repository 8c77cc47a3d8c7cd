package routers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"kaifacademy/config"
	"kaifacademy/database/databasetest"
	"kaifacademy/models"
	courseModels "kaifacademy/models/course"
	"kaifacademy/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
	Data    json.RawMessage   `json:"data"`
}

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	previous := config.AppConfig
	config.AppConfig = &config.Config{
		Env:         "test",
		CorsOrigins: "*",
		JWTKey:      "test-secret",
		SaltRound:   4,
		Currency:    "INR",
	}
	t.Cleanup(func() {
		config.AppConfig = previous
	})

	db := databasetest.ConnectTestDb(t)
	return NewWithGateway(config.AppConfig, &utils.SimulatedGateway{}), db
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("doRequest() marshal failed: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("doRequest() %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("doRequest() %s %s bad JSON %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, env
}

func decode(t *testing.T, env envelope, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("decode() failed on %s: %v", env.Data, err)
	}
}

func signup(t *testing.T, app *fiber.App, name string) string {
	t.Helper()
	status, env := doRequest(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name":     name,
		"email":    name + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var data struct {
		Token string `json:"token"`
	}
	decode(t, env, &data)
	return data.Token
}

func adminToken(t *testing.T, app *fiber.App, db *gorm.DB) string {
	t.Helper()
	token := signup(t, app, "admin")
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "admin@example.com").Update("role", models.RoleAdmin).Error)
	return token
}

func TestAuthFlow(t *testing.T) {
	app, db := setup(t)
	signup(t, app, "priya")

	status, env := doRequest(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name": "priya", "email": "priya@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, env.Status)

	status, env = doRequest(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{"name": "x", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")

	status, env = doRequest(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"email": "priya@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, status)
	var login struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, env, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, models.RoleStudent, login.User.Role)

	status, env = doRequest(t, app, http.MethodGet, "/auth/login/history", login.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var history struct {
		History []models.LoginTracking `json:"history"`
	}
	decode(t, env, &history)
	assert.Len(t, history.History, 1)

	status, _ = doRequest(t, app, http.MethodPut, "/auth/change/password", login.Token, fiber.Map{
		"currentPassword": "password123", "newPassword": "newpassword1", "cnfPassword": "newpassword1",
	})
	assert.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"email": "priya@example.com", "password": "newpassword1"})
	assert.Equal(t, http.StatusOK, status)

	var otp models.OTP
	require.NoError(t, db.Where("email = ?", "priya@example.com").Order("id desc").First(&otp).Error)
	status, _ = doRequest(t, app, http.MethodPatch, "/auth/verify/otp", "", fiber.Map{"email": "priya@example.com", "code": otp.Code})
	assert.Equal(t, http.StatusOK, status)
	var user models.User
	require.NoError(t, db.Where("email = ?", "priya@example.com").First(&user).Error)
	assert.True(t, user.IsVerified)
}

func TestLoginLockout(t *testing.T) {
	app, _ := setup(t)
	signup(t, app, "vikram")

	wrong := fiber.Map{"email": "vikram@example.com", "password": "wrong-password"}
	for i := 0; i < 3; i++ {
		status, _ := doRequest(t, app, http.MethodPost, "/auth/login", "", wrong)
		assert.Equal(t, http.StatusUnauthorized, status)
	}

	status, _ := doRequest(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"email": "vikram@example.com", "password": "password123"})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestProtectedRoutes(t *testing.T) {
	app, db := setup(t)
	student := signup(t, app, "student")
	admin := adminToken(t, app, db)

	status, env := doRequest(t, app, http.MethodGet, "/enrollments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Status)
	assert.NotEmpty(t, env.Error)

	status, _ = doRequest(t, app, http.MethodGet, "/enrollments", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doRequest(t, app, http.MethodGet, "/admin/stats", student, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doRequest(t, app, http.MethodGet, "/admin/stats", admin, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doRequest(t, app, http.MethodGet, "/courses/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, app, http.MethodGet, "/courses/999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, app, http.MethodGet, "/no/such/route", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLearningFlow(t *testing.T) {
	app, db := setup(t)
	admin := adminToken(t, app, db)
	student := signup(t, app, "anaya")
	stranger := signup(t, app, "stranger")

	// author a course with one module and two lessons
	status, env := doRequest(t, app, http.MethodPost, "/courses", admin, fiber.Map{
		"title": "Go for Backend", "description": "APIs in Go", "price": 0, "category": "Backend", "isPublished": true,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var course struct {
		ID uint `json:"ID"`
	}
	decode(t, env, &course)

	status, env = doRequest(t, app, http.MethodPost, fmt.Sprintf("/courses/%d/modules", course.ID), admin, fiber.Map{"title": "Basics"})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var module struct {
		ID uint `json:"ID"`
	}
	decode(t, env, &module)

	lessonIDs := make([]uint, 0, 2)
	for i, preview := range []bool{true, false} {
		status, env = doRequest(t, app, http.MethodPost, fmt.Sprintf("/modules/%d/lessons", module.ID), admin, fiber.Map{
			"title": fmt.Sprintf("Lesson %d", i+1), "type": "TEXT", "content": "text body", "isPreview": preview, "duration": 10,
		})
		require.Equal(t, http.StatusCreated, status, env.Message)
		var lesson struct {
			ID uint `json:"ID"`
		}
		decode(t, env, &lesson)
		lessonIDs = append(lessonIDs, lesson.ID)
	}

	status, _ = doRequest(t, app, http.MethodPost, "/courses", student, fiber.Map{"title": "Nope", "description": "nope nope", "category": "x"})
	assert.Equal(t, http.StatusForbidden, status)

	// catalog and lesson gate
	status, env = doRequest(t, app, http.MethodGet, "/courses", "", nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doRequest(t, app, http.MethodGet, fmt.Sprintf("/lessons/%d", lessonIDs[0]), "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, app, http.MethodGet, fmt.Sprintf("/lessons/%d", lessonIDs[1]), "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = doRequest(t, app, http.MethodGet, fmt.Sprintf("/lessons/%d", lessonIDs[1]), stranger, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// enroll
	status, _ = doRequest(t, app, http.MethodPost, "/enrollments", student, fiber.Map{"courseId": course.ID})
	require.Equal(t, http.StatusCreated, status)
	status, _ = doRequest(t, app, http.MethodPost, "/enrollments", student, fiber.Map{"courseId": course.ID})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, app, http.MethodGet, fmt.Sprintf("/lessons/%d", lessonIDs[1]), student, nil)
	assert.Equal(t, http.StatusOK, status)

	// certificate before completion
	status, _ = doRequest(t, app, http.MethodPost, "/certificates", stranger, fiber.Map{"courseId": course.ID})
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = doRequest(t, app, http.MethodPost, "/certificates", student, fiber.Map{"courseId": course.ID})
	assert.Equal(t, http.StatusBadRequest, status)

	// progress
	var progress struct {
		CourseProgress int `json:"courseProgress"`
	}
	for i, id := range lessonIDs {
		status, env = doRequest(t, app, http.MethodPost, "/progress", student, fiber.Map{"lessonId": id, "completed": true, "watchTime": 60})
		require.Equal(t, http.StatusOK, status, env.Message)
		decode(t, env, &progress)
		assert.Equal(t, []int{50, 100}[i], progress.CourseProgress)
	}

	status, _ = doRequest(t, app, http.MethodGet, fmt.Sprintf("/progress/%d", course.ID), student, nil)
	assert.Equal(t, http.StatusOK, status)

	// certificate
	status, env = doRequest(t, app, http.MethodPost, "/certificates", student, fiber.Map{"courseId": course.ID})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var cert struct {
		CertificateNumber string `json:"certificate_number"`
	}
	decode(t, env, &cert)
	status, _ = doRequest(t, app, http.MethodPost, "/certificates", student, fiber.Map{"courseId": course.ID})
	assert.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, app, http.MethodGet, "/certificates/"+cert.CertificateNumber, "", nil)
	assert.Equal(t, http.StatusOK, status)

	// reviews
	status, env = doRequest(t, app, http.MethodPost, "/reviews", student, fiber.Map{"courseId": course.ID, "rating": 6})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "rating")
	status, _ = doRequest(t, app, http.MethodPost, "/reviews", stranger, fiber.Map{"courseId": course.ID, "rating": 5})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = doRequest(t, app, http.MethodPost, "/reviews", student, fiber.Map{"courseId": course.ID, "rating": 5, "comment": "great"})
	assert.Equal(t, http.StatusCreated, status)
	status, _ = doRequest(t, app, http.MethodPost, "/reviews", student, fiber.Map{"courseId": course.ID, "rating": 4})
	assert.Equal(t, http.StatusOK, status)

	status, env = doRequest(t, app, http.MethodGet, fmt.Sprintf("/reviews/%d", course.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	var reviews struct {
		AverageRating float64 `json:"averageRating"`
		TotalReviews  int     `json:"totalReviews"`
	}
	decode(t, env, &reviews)
	assert.Equal(t, 1, reviews.TotalReviews)
	assert.InDelta(t, 4.0, reviews.AverageRating, 0.0001)

	// admin dashboard
	status, env = doRequest(t, app, http.MethodGet, "/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, status)
	var stats struct {
		TotalStudents      int64 `json:"total_students"`
		TotalEnrollments   int64 `json:"total_enrollments"`
		CertificatesIssued int64 `json:"certificates_issued"`
	}
	decode(t, env, &stats)
	assert.EqualValues(t, 2, stats.TotalStudents)
	assert.EqualValues(t, 1, stats.TotalEnrollments)
	assert.EqualValues(t, 1, stats.CertificatesIssued)

	status, _ = doRequest(t, app, http.MethodGet, fmt.Sprintf("/admin/courses/%d/enrollments", course.ID), admin, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestCheckoutRoute(t *testing.T) {
	app, db := setup(t)
	admin := adminToken(t, app, db)
	student := signup(t, app, "rahul")

	status, env := doRequest(t, app, http.MethodPost, "/courses", admin, fiber.Map{
		"title": "Paid Course", "description": "costs money", "price": 499, "category": "Backend", "isPublished": true,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var course struct {
		ID uint `json:"ID"`
	}
	decode(t, env, &course)

	order := fiber.Map{"courseId": course.ID, "idempotencyKey": "checkout-1"}
	status, env = doRequest(t, app, http.MethodPost, "/orders", student, order)
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = doRequest(t, app, http.MethodPost, "/orders", student, order)
	require.Equal(t, http.StatusOK, status, env.Message)
	var replay struct {
		Replayed bool `json:"replayed"`
	}
	decode(t, env, &replay)
	assert.True(t, replay.Replayed)

	status, env = doRequest(t, app, http.MethodGet, "/orders", student, nil)
	require.Equal(t, http.StatusOK, status)
	var orders []struct {
		Status string `json:"status"`
	}
	decode(t, env, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, "PAID", orders[0].Status)

	status, _ = doRequest(t, app, http.MethodGet, "/enrollments", student, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestCheckoutKeyReuse(t *testing.T) {
	app, db := setup(t)
	admin := adminToken(t, app, db)
	student := signup(t, app, "farah")

	var ids []uint
	for _, title := range []string{"Rust Basics", "Rust Async"} {
		status, env := doRequest(t, app, http.MethodPost, "/courses", admin, fiber.Map{
			"title": title, "description": "systems", "price": 299, "category": "Backend", "isPublished": true,
		})
		require.Equal(t, http.StatusCreated, status, env.Message)
		var course struct {
			ID uint `json:"ID"`
		}
		decode(t, env, &course)
		ids = append(ids, course.ID)
	}

	status, env := doRequest(t, app, http.MethodPost, "/orders", student, fiber.Map{"courseId": ids[0], "idempotencyKey": "same-key"})
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = doRequest(t, app, http.MethodPost, "/orders", student, fiber.Map{"courseId": ids[1], "idempotencyKey": "same-key"})
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, env.Status)

	status, env = doRequest(t, app, http.MethodGet, "/orders", student, nil)
	require.Equal(t, http.StatusOK, status)
	var orders []struct {
		CourseID uint `json:"course_id"`
	}
	decode(t, env, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, ids[0], orders[0].CourseID)
}

func TestConcurrentCheckout(t *testing.T) {
	app, db := setup(t)
	admin := adminToken(t, app, db)

	status, env := doRequest(t, app, http.MethodPost, "/courses", admin, fiber.Map{
		"title": "Go Concurrency", "description": "channels", "price": 599, "category": "Backend", "isPublished": true,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var course struct {
		ID uint `json:"ID"`
	}
	decode(t, env, &course)

	const buyers = 6
	tokens := make([]string, buyers)
	for i := range tokens {
		tokens[i] = signup(t, app, fmt.Sprintf("buyer%d", i))
	}

	payload, err := json.Marshal(fiber.Map{"courseId": course.ID})
	require.NoError(t, err)

	var wg sync.WaitGroup
	statuses := make([]int, buyers)
	errs := make([]error, buyers)
	for i, token := range tokens {
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req, -1)
			if err != nil {
				errs[i] = err
				return
			}
			resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i, token)
	}
	wg.Wait()

	for i := range tokens {
		require.NoError(t, errs[i])
		assert.Equal(t, http.StatusCreated, statuses[i], "buyer %d", i)
	}

	var paid int64
	require.NoError(t, db.Model(&courseModels.Order{}).Where("course_id = ? AND status = ?", course.ID, courseModels.OrderPaid).Count(&paid).Error)
	assert.Equal(t, int64(buyers), paid)
}
