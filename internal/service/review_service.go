package service

import (
	"context"
	"miniudemy_backend/internal/dto"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/repository"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/internal/util"
	"miniudemy_backend/pkg/logger"
	"miniudemy_backend/pkg/monitoring"
	"miniudemy_backend/pkg/tracing"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReviewService struct {
	DB             *gorm.DB
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ReviewRepo     *repository.ReviewRepository
}

func NewReviewService(
	db *gorm.DB,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	reviewRepo *repository.ReviewRepository,
) *ReviewService {
	return &ReviewService{
		DB:             db,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		ReviewRepo:     reviewRepo,
	}
}

// SubmitReview 已选课的用户提交或覆盖自己对课程的评价
// 先检查选课再校验评分，未选课的用户总是得到 Authorization 错误
func (s *ReviewService) SubmitReview(ctx context.Context, principal *session.Session, req dto.ReviewRequest) (review *model.Review, err error) {
	if principal == nil {
		return nil, util.ErrTokenMissing
	}
	courseID := strings.TrimSpace(req.CourseID)
	if courseID == "" {
		return nil, util.ErrCourseIDMissing
	}

	ctx, span := tracing.Start(ctx, "review.submit",
		attribute.String("user.id", principal.UserID),
		attribute.String("course.id", courseID))
	defer func() { tracing.End(span, err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.CourseRepo.WithTx(tx).FindByID(ctx, courseID); err != nil {
			return err
		}
		if _, err := s.EnrollmentRepo.WithTx(tx).Find(ctx, principal.UserID, courseID); err != nil {
			if util.IsKind(err, util.KindAuthorization) {
				return util.ErrReviewForbidden
			}
			return err
		}

		in, err := dto.NewReviewInputFromRequest(req)
		if err != nil {
			return err
		}

		review, err = s.save(ctx, tx, principal, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	monitoring.ReviewsSubmittedTotal.Inc()
	logger.Log.Info("review submitted",
		zap.String("userId", principal.UserID),
		zap.String("courseId", courseID),
		zap.Int("rating", review.Rating))
	return review, nil
}

func (s *ReviewService) save(ctx context.Context, tx *gorm.DB, principal *session.Session, in dto.ReviewInput) (*model.Review, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.ReviewRepo.WithTx(tx).Upsert(ctx, &model.Review{
		UserID:   principal.UserID,
		CourseID: in.CourseID,
		Rating:   in.Rating,
		Comment:  in.Comment,
	})
}

// AverageRating 课程平均分，没有评价时为 0
func (s *ReviewService) AverageRating(ctx context.Context, courseID string) (float64, error) {
	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		return 0, err
	}
	return s.ReviewRepo.Average(ctx, courseID)
}

// AverageRatings 批量计算，没有评价的课程为 0
func (s *ReviewService) AverageRatings(ctx context.Context, courseIDs []string) (map[string]float64, error) {
	avgs, err := s.ReviewRepo.Averages(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range courseIDs {
		if _, ok := avgs[id]; !ok {
			avgs[id] = 0
		}
	}
	return avgs, nil
}
