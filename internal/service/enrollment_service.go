package service

import (
	"context"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/repository"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/internal/util"
	"miniudemy_backend/pkg/logger"
	"miniudemy_backend/pkg/monitoring"
	"miniudemy_backend/pkg/tracing"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	DB             *gorm.DB
	CourseRepo     *repository.CourseRepository
	LessonRepo     *repository.LessonRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository

	now func() time.Time
}

func NewEnrollmentService(
	db *gorm.DB,
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
) *EnrollmentService {
	return &EnrollmentService{
		DB:             db,
		CourseRepo:     courseRepo,
		LessonRepo:     lessonRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		now:            time.Now,
	}
}

// Enroll 为主体选课，课程必须已发布且尚未选过
func (s *EnrollmentService) Enroll(ctx context.Context, principal *session.Session, courseID string) (enrollment *model.Enrollment, err error) {
	if principal == nil {
		return nil, util.ErrTokenMissing
	}
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, util.ErrCourseIDMissing
	}

	ctx, span := tracing.Start(ctx, "enrollment.enroll",
		attribute.String("user.id", principal.UserID),
		attribute.String("course.id", courseID))
	defer func() { tracing.End(span, err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.CourseRepo.WithTx(tx).FindByID(ctx, courseID)
		if err != nil {
			return err
		}
		if !course.Published {
			return util.ErrCourseNotPublished
		}

		enrollments := s.EnrollmentRepo.WithTx(tx)
		exists, err := enrollments.Exists(ctx, principal.UserID, courseID)
		if err != nil {
			return err
		}
		if exists {
			return util.ErrAlreadyEnrolled
		}

		enrollment = &model.Enrollment{UserID: principal.UserID, CourseID: courseID}
		return enrollments.Create(ctx, enrollment)
	})
	if err != nil {
		return nil, err
	}

	monitoring.EnrollmentsTotal.Inc()
	logger.Log.Info("enrolled",
		zap.String("userId", principal.UserID),
		zap.String("courseId", courseID),
		zap.String("enrollmentId", enrollment.ID))
	return enrollment, nil
}

// RecordCompletion 标记课时完成；重复调用只刷新完成时间
func (s *EnrollmentService) RecordCompletion(ctx context.Context, principal *session.Session, lessonID string) (progress *model.LessonProgress, err error) {
	if principal == nil {
		return nil, util.ErrTokenMissing
	}
	lessonID = strings.TrimSpace(lessonID)
	if lessonID == "" {
		return nil, util.ErrLessonIDMissing
	}

	ctx, span := tracing.Start(ctx, "enrollment.record_completion",
		attribute.String("user.id", principal.UserID),
		attribute.String("lesson.id", lessonID))
	defer func() { tracing.End(span, err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lesson, err := s.LessonRepo.WithTx(tx).FindByID(ctx, lessonID)
		if err != nil {
			return err
		}

		enrollment, err := s.EnrollmentRepo.WithTx(tx).Find(ctx, principal.UserID, lesson.CourseID)
		if err != nil {
			return err
		}

		progress, err = s.ProgressRepo.WithTx(tx).MarkCompleted(ctx, enrollment.ID, lesson.ID, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	monitoring.LessonCompletionsTotal.Inc()
	logger.Log.Info("lesson completed",
		zap.String("userId", principal.UserID),
		zap.String("lessonId", lessonID))
	return progress, nil
}

// ListMyEnrollments 主体的全部选课及完成百分比，最新选课在前
func (s *EnrollmentService) ListMyEnrollments(ctx context.Context, principal *session.Session) ([]model.EnrollmentView, error) {
	if principal == nil {
		return nil, util.ErrTokenMissing
	}
	views, err := s.EnrollmentRepo.ListViews(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].ProgressPercent = ComputeProgressPercent(views[i].Progress, views[i].Course.LessonCount)
	}
	return views, nil
}
