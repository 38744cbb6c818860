package repository

import (
	"context"
	"miniudemy_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) WithTx(tx *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: tx}
}

// Upsert 每个用户对每门课程只保留一条评价，再次提交覆盖评分与评论
func (r *ReviewRepository) Upsert(ctx context.Context, review *model.Review) (*model.Review, error) {
	db := r.DB.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(review).Error
	if err != nil {
		return nil, err
	}

	var saved model.Review
	err = db.Where("user_id = ? AND course_id = ?", review.UserID, review.CourseID).First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Average 课程平均分，没有评价时为 0
func (r *ReviewRepository) Average(ctx context.Context, courseID string) (float64, error) {
	var avg float64
	err := r.DB.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("course_id = ?", courseID).
		Scan(&avg).Error
	return avg, err
}

type averageRow struct {
	CourseID  string
	AvgRating float64
}

// Averages 批量计算平均分，没有评价的课程不出现在结果中
func (r *ReviewRepository) Averages(ctx context.Context, courseIDs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	var rows []averageRow
	err := r.DB.WithContext(ctx).Model(&model.Review{}).
		Select("course_id, AVG(rating) AS avg_rating").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CourseID] = row.AvgRating
	}
	return out, nil
}

// Latest 最新的 limit 条评价及作者
func (r *ReviewRepository) Latest(ctx context.Context, courseID string, limit int) ([]model.ReviewView, error) {
	db := r.DB.WithContext(ctx)

	var reviews []model.Review
	err := db.Where("course_id = ?", courseID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, len(reviews))
	for i, rv := range reviews {
		userIDs[i] = rv.UserID
	}
	users, err := userSummaries(db, uniqueStrings(userIDs))
	if err != nil {
		return nil, err
	}

	out := make([]model.ReviewView, len(reviews))
	for i, rv := range reviews {
		out[i] = model.ReviewView{
			ID:        rv.ID,
			Rating:    rv.Rating,
			Comment:   rv.Comment,
			CreatedAt: rv.CreatedAt,
			User:      users[rv.UserID],
		}
	}
	return out, nil
}
