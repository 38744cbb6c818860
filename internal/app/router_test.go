package app

import (
	"bytes"
	"encoding/json"
	"miniudemy_backend/internal/config"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/pkg/database"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t      *testing.T
	router http.Handler
}

func newTestApp(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: gin.TestMode},
		JWT:       config.JWTConfig{Secret: "router-test-secret", ExpireTime: time.Hour},
		Storage:   config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{MaxRequests: 1000, WindowMinutes: 1},
	}
	a := New(cfg, db, nil, session.NewMemoryStore())
	return &client{t: t, router: a.Router}
}

func (c *client) do(method, path, token string, body interface{}) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (c *client) register(email, role string) string {
	c.t.Helper()
	code, env := c.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": "secret123", "name": "Tester", "role": role,
	})
	require.Equal(c.t, http.StatusCreated, code, env.Message)

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(c.t, res.Token)
	return res.Token
}

func decodeID(t *testing.T, env envelope) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))
	require.NotEmpty(t, v.ID)
	return v.ID
}

func TestHealthCheck(t *testing.T) {
	c := newTestApp(t)
	code, env := c.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Message)
	assert.JSONEq(t, `{"status":"ok","components":{"database":"up","redis":"disabled"}}`, string(env.Data))
}

func TestAuthFlow(t *testing.T) {
	c := newTestApp(t)
	token := c.register("Student@Example.com", "STUDENT")

	code, _ := c.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "student@example.com", "password": "secret123", "name": "Tester",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = c.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "student@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := c.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	var me struct {
		Email    string `json:"email"`
		Role     string `json:"role"`
		Password string `json:"password"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "student@example.com", me.Email)
	assert.Equal(t, "STUDENT", me.Role)
	assert.Empty(t, me.Password)

	code, _ = c.do(http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestStudentCannotCreateCourse(t *testing.T) {
	c := newTestApp(t)
	token := c.register("s@example.com", "STUDENT")

	code, _ := c.do(http.MethodPost, "/api/courses", token, gin.H{
		"title": "Go", "description": "A long enough description",
	})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestCourseLifecycle(t *testing.T) {
	c := newTestApp(t)
	instructor := c.register("instructor@example.com", "INSTRUCTOR")
	student := c.register("student@example.com", "STUDENT")

	code, env := c.do(http.MethodPost, "/api/courses", instructor, gin.H{
		"title": "Go in Practice", "description": "Building services with Go", "price": 99,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	courseID := decodeID(t, env)

	lessonIDs := make([]string, 0, 3)
	for i, free := range []bool{true, false, false} {
		code, env = c.do(http.MethodPost, "/api/lessons", instructor, gin.H{
			"title": "Lesson", "order": i + 1, "free": free, "courseId": courseID,
		})
		require.Equal(t, http.StatusCreated, code, env.Message)
		lessonIDs = append(lessonIDs, decodeID(t, env))
	}

	code, _ = c.do(http.MethodPost, "/api/lessons", instructor, gin.H{
		"title": "Dup", "order": 2, "courseId": courseID,
	})
	assert.Equal(t, http.StatusConflict, code)

	// 未发布时对外不可见
	code, env = c.do(http.MethodGet, "/api/courses", "", nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Zero(t, page.Total)

	code, _ = c.do(http.MethodGet, "/api/courses/"+courseID, student, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = c.do(http.MethodGet, "/api/courses/"+courseID, instructor, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodPost, "/api/enrollments", student, gin.H{"courseId": courseID})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = c.do(http.MethodPut, "/api/courses/"+courseID, instructor, gin.H{"published": true})
	require.Equal(t, http.StatusOK, code)

	code, env = c.do(http.MethodGet, "/api/courses?limit=5", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Total)

	// 课时访问控制
	code, _ = c.do(http.MethodGet, "/api/lessons/"+lessonIDs[0], "", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodGet, "/api/lessons/"+lessonIDs[1], "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = c.do(http.MethodGet, "/api/lessons/"+lessonIDs[1], student, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = c.do(http.MethodPost, "/api/enrollments", student, gin.H{"courseId": courseID})
	require.Equal(t, http.StatusCreated, code)
	code, _ = c.do(http.MethodPost, "/api/enrollments", student, gin.H{"courseId": courseID})
	assert.Equal(t, http.StatusConflict, code)

	code, env = c.do(http.MethodGet, "/api/lessons/"+lessonIDs[1], student, nil)
	require.Equal(t, http.StatusOK, code)
	var view struct {
		PrevLessonID *string `json:"prevLessonId"`
		NextLessonID *string `json:"nextLessonId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.NotNil(t, view.PrevLessonID)
	require.NotNil(t, view.NextLessonID)
	assert.Equal(t, lessonIDs[0], *view.PrevLessonID)
	assert.Equal(t, lessonIDs[2], *view.NextLessonID)

	// 学习进度
	code, _ = c.do(http.MethodPost, "/api/enrollments/progress", student, gin.H{"lessonId": lessonIDs[0]})
	require.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodPost, "/api/enrollments/progress", student, gin.H{"lessonId": lessonIDs[0]})
	require.Equal(t, http.StatusOK, code)

	code, env = c.do(http.MethodGet, "/api/enrollments/my", student, nil)
	require.Equal(t, http.StatusOK, code)
	var mine []struct {
		ProgressPercent int `json:"progressPercent"`
		Progress        []struct {
			LessonID string `json:"lessonId"`
		} `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, 33, mine[0].ProgressPercent)
	assert.Len(t, mine[0].Progress, 1)

	// 评价
	code, _ = c.do(http.MethodPost, "/api/enrollments/review", student, gin.H{"courseId": courseID, "rating": 6})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = c.do(http.MethodPost, "/api/enrollments/review", student, gin.H{"courseId": courseID, "rating": 4})
	require.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodPost, "/api/enrollments/review", student, gin.H{"courseId": courseID, "rating": 5, "comment": "Great"})
	require.Equal(t, http.StatusOK, code)

	code, env = c.do(http.MethodGet, "/api/courses/"+courseID+"/rating", "", nil)
	require.Equal(t, http.StatusOK, code)
	var rating struct {
		AvgRating float64 `json:"avgRating"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rating))
	assert.InDelta(t, 5.0, rating.AvgRating, 0.001)

	// 非所有者不能修改
	other := c.register("other@example.com", "INSTRUCTOR")
	code, _ = c.do(http.MethodDelete, "/api/courses/"+courseID, other, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = c.do(http.MethodDelete, "/api/courses/"+courseID, instructor, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodGet, "/api/lessons/course/"+courseID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUnknownRoutesAndCategories(t *testing.T) {
	c := newTestApp(t)

	code, env := c.do(http.MethodGet, "/api/courses/categories/all", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "[]", string(env.Data))

	code, _ = c.do(http.MethodGet, "/api/courses/missing/rating", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
