package service

import (
	"context"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/repository"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/internal/util"
	"miniudemy_backend/pkg/monitoring"
	"miniudemy_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// AccessService 判断主体能否查看某个课时的完整内容
// 每次调用都重新查询，不做缓存
type AccessService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewAccessService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *AccessService {
	return &AccessService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// CanAccessLesson 免费课时对所有人开放；讲师可访问自己的课程；其余情况需要选课
func (s *AccessService) CanAccessLesson(ctx context.Context, principal *session.Session, lesson *model.Lesson) (bool, error) {
	err := s.AuthorizeLesson(ctx, principal, lesson)
	switch {
	case err == nil:
		return true, nil
	case util.IsKind(err, util.KindAuthentication), util.IsKind(err, util.KindAuthorization):
		return false, nil
	default:
		return false, err
	}
}

// AuthorizeLesson 匿名访问收费课时返回 Authentication 错误，未选课返回 Authorization 错误
func (s *AccessService) AuthorizeLesson(ctx context.Context, principal *session.Session, lesson *model.Lesson) (err error) {
	ctx, span := tracing.Start(ctx, "access.authorize_lesson", attribute.String("lesson.id", lesson.ID))
	defer func() {
		if err != nil && util.KindOf(err) != util.KindInternal {
			monitoring.LessonAccessDenied.WithLabelValues(string(util.KindOf(err))).Inc()
		}
		tracing.End(span, err)
	}()

	if lesson.Free {
		return nil
	}
	if principal == nil {
		return util.ErrTokenMissing
	}

	instructorID, err := s.instructorOf(ctx, lesson)
	if err != nil {
		return err
	}
	if instructorID == principal.UserID {
		return nil
	}

	enrolled, err := s.EnrollmentRepo.Exists(ctx, principal.UserID, lesson.CourseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return util.ErrLessonForbidden
	}
	return nil
}

func (s *AccessService) instructorOf(ctx context.Context, lesson *model.Lesson) (string, error) {
	if lesson.Course != nil {
		return lesson.Course.InstructorID, nil
	}
	course, err := s.CourseRepo.FindByID(ctx, lesson.CourseID)
	if err != nil {
		return "", err
	}
	return course.InstructorID, nil
}
