package repository

import (
	"context"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/util"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) WithTx(tx *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: tx}
}

// Create 并发重复插入被唯一索引拒绝时同样返回 ErrAlreadyEnrolled
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	err := r.DB.WithContext(ctx).Create(enrollment).Error
	return translate(err, nil, util.ErrAlreadyEnrolled)
}

// Find 未选课时返回 ErrNotEnrolled
func (r *EnrollmentRepository) Find(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, translate(err, util.ErrNotEnrolled, nil)
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&n).Error
	return n > 0, err
}

type enrolledCourseRow struct {
	ID           string
	Title        string
	Thumbnail    *string
	Level        model.CourseLevel
	InstructorID string
}

// ListViews 用户的全部选课，最新在前；ProgressPercent 由调用方计算
func (r *EnrollmentRepository) ListViews(ctx context.Context, userID string) ([]model.EnrollmentView, error) {
	db := r.DB.WithContext(ctx)

	var enrollments []model.Enrollment
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}

	views := make([]model.EnrollmentView, 0, len(enrollments))
	if len(enrollments) == 0 {
		return views, nil
	}

	enrollmentIDs := make([]string, len(enrollments))
	courseIDs := make([]string, len(enrollments))
	for i, e := range enrollments {
		enrollmentIDs[i] = e.ID
		courseIDs[i] = e.CourseID
	}

	var courses []enrolledCourseRow
	err = db.Model(&model.Course{}).
		Select("id, title, thumbnail, level, instructor_id").
		Where("id IN ?", courseIDs).
		Scan(&courses).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[string]enrolledCourseRow, len(courses))
	instructorIDs := make([]string, 0, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
		instructorIDs = append(instructorIDs, c.InstructorID)
	}

	instructors, err := userSummaries(db, uniqueStrings(instructorIDs))
	if err != nil {
		return nil, err
	}
	lessonCounts, err := countBy(db, &model.Lesson{}, "course_id", courseIDs)
	if err != nil {
		return nil, err
	}
	progress, err := NewProgressRepository(r.DB).ForEnrollments(ctx, enrollmentIDs)
	if err != nil {
		return nil, err
	}

	for _, e := range enrollments {
		c := byID[e.CourseID]
		rows := progress[e.ID]
		if rows == nil {
			rows = []model.LessonProgress{}
		}
		views = append(views, model.EnrollmentView{
			ID:        e.ID,
			CreatedAt: e.CreatedAt,
			Course: model.EnrolledCourse{
				ID:          c.ID,
				Title:       c.Title,
				Thumbnail:   c.Thumbnail,
				Level:       c.Level,
				Instructor:  instructors[c.InstructorID],
				LessonCount: lessonCounts[e.CourseID],
			},
			Progress: rows,
		})
	}
	return views, nil
}
