package service

import (
	"context"
	"miniudemy_backend/internal/config"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/repository"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/pkg/database"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db          *gorm.DB
	store       *session.MemoryStore
	auth        *AuthService
	access      *AccessService
	enrollments *EnrollmentService
	reviews     *ReviewService
	courses     *CourseService
	lessons     *LessonService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}
	store := session.NewMemoryStore()

	f := &fixture{db: db, store: store}
	f.auth = NewAuthService(userRepo, store, cfg)
	f.access = NewAccessService(courseRepo, enrollmentRepo)
	f.enrollments = NewEnrollmentService(db, courseRepo, lessonRepo, enrollmentRepo, progressRepo)
	f.reviews = NewReviewService(db, courseRepo, enrollmentRepo, reviewRepo)
	f.courses = NewCourseService(db, courseRepo, categoryRepo, f.reviews)
	f.lessons = NewLessonService(db, lessonRepo, courseRepo, f.access, nil)
	return f
}

func (f *fixture) user(t *testing.T, email string, role model.UserRole) (*model.User, *session.Session) {
	t.Helper()
	u := &model.User{Email: email, Password: "x", Name: email, Role: role}
	require.NoError(t, f.db.Create(u).Error)
	return u, &session.Session{UserID: u.ID, Role: role, TokenID: model.GenerateUUID(), ExpiresAt: time.Now().Add(time.Hour)}
}

func (f *fixture) course(t *testing.T, instructorID string, published bool) *model.Course {
	t.Helper()
	c := &model.Course{
		Title:        "Course",
		Description:  "A course description",
		Level:        model.Beginner,
		Published:    published,
		InstructorID: instructorID,
	}
	require.NoError(t, f.db.Create(c).Error)
	return c
}

func (f *fixture) lesson(t *testing.T, courseID string, order int, free bool) *model.Lesson {
	t.Helper()
	l := &model.Lesson{Title: "Lesson", Order: order, Free: free, CourseID: courseID}
	require.NoError(t, f.db.Create(l).Error)
	return l
}

func (f *fixture) enroll(t *testing.T, s *session.Session, courseID string) *model.Enrollment {
	t.Helper()
	e, err := f.enrollments.Enroll(context.Background(), s, courseID)
	require.NoError(t, err)
	return e
}
