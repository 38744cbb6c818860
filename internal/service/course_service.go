package service

import (
	"context"
	"miniudemy_backend/internal/dto"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/repository"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/internal/util"
	"miniudemy_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	DB           *gorm.DB
	CourseRepo   *repository.CourseRepository
	CategoryRepo *repository.CategoryRepository
	Reviews      *ReviewService
}

func NewCourseService(
	db *gorm.DB,
	courseRepo *repository.CourseRepository,
	categoryRepo *repository.CategoryRepository,
	reviews *ReviewService,
) *CourseService {
	return &CourseService{
		DB:           db,
		CourseRepo:   courseRepo,
		CategoryRepo: categoryRepo,
		Reviews:      reviews,
	}
}

// List 已发布课程的分页列表
func (s *CourseService) List(ctx context.Context, filter dto.CourseFilter) ([]model.CourseSummary, int64, error) {
	courses, total, err := s.CourseRepo.ListPublished(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if err := s.fillRatings(ctx, courses); err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// Detail 未发布课程只对讲师本人和管理员可见，其他人得到 NotFound
func (s *CourseService) Detail(ctx context.Context, principal *session.Session, id string) (*model.CourseDetail, error) {
	detail, err := s.CourseRepo.Detail(ctx, id, util.CourseReviewLimit)
	if err != nil {
		return nil, err
	}
	if !detail.Published && !principal.CanManage(detail.Instructor.ID) {
		return nil, util.ErrCourseNotFound
	}

	avg, err := s.Reviews.AverageRating(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.AvgRating = avg
	return detail, nil
}

// MyCourses 当前讲师自己的课程，包括未发布的
func (s *CourseService) MyCourses(ctx context.Context, principal *session.Session) ([]model.CourseSummary, error) {
	if err := requireInstructor(principal); err != nil {
		return nil, err
	}
	courses, err := s.CourseRepo.ListByInstructor(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.fillRatings(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *CourseService) Categories(ctx context.Context) ([]model.CategoryWithCount, error) {
	return s.CategoryRepo.ListWithCounts(ctx)
}

func (s *CourseService) Create(ctx context.Context, principal *session.Session, in dto.CreateCourseInput) (*model.Course, error) {
	if err := requireInstructor(principal); err != nil {
		return nil, err
	}

	course := &model.Course{
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		Level:        in.Level,
		Thumbnail:    in.Thumbnail,
		InstructorID: principal.UserID,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categoryIDs := dedupe(in.CategoryIDs)
		if len(categoryIDs) > 0 {
			n, err := s.CategoryRepo.WithTx(tx).CountByIDs(ctx, categoryIDs)
			if err != nil {
				return err
			}
			if n != int64(len(categoryIDs)) {
				return util.NewValidationError("unknown category id")
			}
		}
		return s.CourseRepo.WithTx(tx).Create(ctx, course, categoryIDs)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("course created", zap.String("courseId", course.ID), zap.String("instructorId", course.InstructorID))
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, principal *session.Session, id string, in dto.UpdateCourseInput) (*model.Course, error) {
	if principal == nil {
		return nil, util.ErrTokenMissing
	}

	var course *model.Course
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courses := s.CourseRepo.WithTx(tx)
		existing, err := courses.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !principal.CanManage(existing.InstructorID) {
			return util.ErrNotCourseOwner
		}

		if err := courses.Update(ctx, id, courseUpdates(in)); err != nil {
			return err
		}
		course, err = courses.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

// Delete 删除课程及其课时、选课、进度、评价和分类关联
func (s *CourseService) Delete(ctx context.Context, principal *session.Session, id string) error {
	if principal == nil {
		return util.ErrTokenMissing
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courses := s.CourseRepo.WithTx(tx)
		existing, err := courses.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !principal.CanManage(existing.InstructorID) {
			return util.ErrNotCourseOwner
		}
		return courses.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.Log.Info("course deleted", zap.String("courseId", id), zap.String("by", principal.UserID))
	return nil
}

func (s *CourseService) fillRatings(ctx context.Context, courses []model.CourseSummary) error {
	ids := make([]string, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	avgs, err := s.Reviews.AverageRatings(ctx, ids)
	if err != nil {
		return err
	}
	for i := range courses {
		courses[i].AvgRating = avgs[courses[i].ID]
	}
	return nil
}

func courseUpdates(in dto.UpdateCourseInput) map[string]interface{} {
	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.Level != nil {
		fields["level"] = *in.Level
	}
	if in.Thumbnail != nil {
		fields["thumbnail"] = *in.Thumbnail
	}
	if in.Published != nil {
		fields["published"] = *in.Published
	}
	return fields
}

// requireInstructor 讲师或管理员
func requireInstructor(principal *session.Session) error {
	if principal == nil {
		return util.ErrTokenMissing
	}
	if principal.Role != model.Instructor && principal.Role != model.Admin {
		return util.ErrInstructorRequired
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
