package repository

import (
	"context"
	"miniudemy_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

// MarkCompleted 按 (enrollment, lesson) 写入或刷新完成记录，重复调用只更新时间
func (r *ProgressRepository) MarkCompleted(ctx context.Context, enrollmentID, lessonID string, at time.Time) (*model.LessonProgress, error) {
	db := r.DB.WithContext(ctx)

	row := model.LessonProgress{
		EnrollmentID: enrollmentID,
		LessonID:     lessonID,
		Completed:    true,
		CompletedAt:  &at,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	var saved model.LessonProgress
	err = db.Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ForEnrollments 批量读取进度记录，按选课 ID 分组
func (r *ProgressRepository) ForEnrollments(ctx context.Context, enrollmentIDs []string) (map[string][]model.LessonProgress, error) {
	out := make(map[string][]model.LessonProgress, len(enrollmentIDs))
	if len(enrollmentIDs) == 0 {
		return out, nil
	}
	var rows []model.LessonProgress
	err := r.DB.WithContext(ctx).
		Where("enrollment_id IN ?", enrollmentIDs).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.EnrollmentID] = append(out[p.EnrollmentID], p)
	}
	return out, nil
}

func (r *ProgressRepository) CountRows(ctx context.Context, enrollmentID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.LessonProgress{}).
		Where("enrollment_id = ?", enrollmentID).
		Count(&n).Error
	return n, err
}
