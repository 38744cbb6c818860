package repository

import (
	"context"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/util"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) WithTx(tx *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: tx}
}

// Create 同一课程内 order 重复时返回 ErrLessonOrderTaken
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	err := r.DB.WithContext(ctx).Create(lesson).Error
	return translate(err, nil, util.ErrLessonOrderTaken)
}

func (r *LessonRepository) FindByID(ctx context.Context, id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&lesson).Error
	if err != nil {
		return nil, translate(err, util.ErrLessonNotFound, nil)
	}
	return &lesson, nil
}

// FindWithCourse 同时加载所属课程，用于访问控制判断讲师身份
func (r *LessonRepository) FindWithCourse(ctx context.Context, id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).Preload("Course").Where("id = ?", id).First(&lesson).Error
	if err != nil {
		return nil, translate(err, util.ErrLessonNotFound, nil)
	}
	return &lesson, nil
}

func (r *LessonRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	err := r.DB.WithContext(ctx).Model(&model.Lesson{}).Where("id = ?", id).Updates(fields).Error
	return translate(err, nil, util.ErrLessonOrderTaken)
}

// Delete 删除课时及其进度记录，需在事务中调用
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	db := r.DB.WithContext(ctx)
	if err := db.Where("lesson_id = ?", id).Delete(&model.LessonProgress{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Lesson{}).Error
}

// ListSummaries 课程目录，按 order 升序，不含正文与视频地址
func (r *LessonRepository) ListSummaries(ctx context.Context, courseID string) ([]model.LessonSummary, error) {
	rows := []model.LessonSummary{}
	err := r.DB.WithContext(ctx).Model(&model.Lesson{}).
		Select("id, title, duration, sort_order, free").
		Where("course_id = ?", courseID).
		Order("sort_order ASC").
		Scan(&rows).Error
	return rows, err
}

// Neighbors 返回同一课程中紧邻 order 的前后课时 ID，不存在时为 nil
func (r *LessonRepository) Neighbors(ctx context.Context, courseID string, order int) (prev, next *string, err error) {
	db := r.DB.WithContext(ctx)

	var ids []string
	err = db.Model(&model.Lesson{}).
		Where("course_id = ? AND sort_order < ?", courseID, order).
		Order("sort_order DESC").
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, nil, err
	}
	if len(ids) > 0 {
		prev = &ids[0]
	}

	var after []string
	err = db.Model(&model.Lesson{}).
		Where("course_id = ? AND sort_order > ?", courseID, order).
		Order("sort_order ASC").
		Limit(1).
		Pluck("id", &after).Error
	if err != nil {
		return nil, nil, err
	}
	if len(after) > 0 {
		next = &after[0]
	}
	return prev, next, nil
}

func (r *LessonRepository) CountByCourses(ctx context.Context, courseIDs []string) (map[string]int64, error) {
	return countBy(r.DB.WithContext(ctx), &model.Lesson{}, "course_id", courseIDs)
}

// ListByCourse 完整课时记录，供导入脚本按顺序写入视频地址
func (r *LessonRepository) ListByCourse(ctx context.Context, courseID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order ASC").
		Find(&lessons).Error
	return lessons, err
}
