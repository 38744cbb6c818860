package repository

import (
	"context"
	"miniudemy_backend/internal/dto"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/util"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) WithTx(tx *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: tx}
}

// Create 创建课程及分类关联，需在事务中调用
func (r *CourseRepository) Create(ctx context.Context, course *model.Course, categoryIDs []string) error {
	db := r.DB.WithContext(ctx)
	if err := db.Create(course).Error; err != nil {
		return translate(err, nil, util.ErrCourseExists)
	}
	categoryIDs = uniqueStrings(categoryIDs)
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]model.CourseCategory, len(categoryIDs))
	for i, id := range categoryIDs {
		links[i] = model.CourseCategory{CourseID: course.ID, CategoryID: id}
	}
	return db.Create(&links).Error
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&course).Error
	if err != nil {
		return nil, translate(err, util.ErrCourseNotFound, nil)
	}
	return &course, nil
}

// Update 只写入 fields 中给出的列
func (r *CourseRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&model.Course{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除课程及其全部下属数据，需在事务中调用
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	db := r.DB.WithContext(ctx)

	enrollments := db.Model(&model.Enrollment{}).Select("id").Where("course_id = ?", id)
	lessons := db.Model(&model.Lesson{}).Select("id").Where("course_id = ?", id)

	steps := []func() error{
		func() error {
			return db.Where("enrollment_id IN (?) OR lesson_id IN (?)", enrollments, lessons).
				Delete(&model.LessonProgress{}).Error
		},
		func() error { return db.Where("course_id = ?", id).Delete(&model.Enrollment{}).Error },
		func() error { return db.Where("course_id = ?", id).Delete(&model.Review{}).Error },
		func() error { return db.Where("course_id = ?", id).Delete(&model.Lesson{}).Error },
		func() error { return db.Where("course_id = ?", id).Delete(&model.CourseCategory{}).Error },
		func() error { return db.Where("id = ?", id).Delete(&model.Course{}).Error },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// ListPublished 已发布课程分页列表，按创建时间倒序
func (r *CourseRepository) ListPublished(ctx context.Context, filter dto.CourseFilter) ([]model.CourseSummary, int64, error) {
	db := r.DB.WithContext(ctx)

	query := func() *gorm.DB {
		q := db.Model(&model.Course{}).Where("published = ?", true)
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			q = q.Where("(LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?))", like, like)
		}
		if filter.Level != "" {
			q = q.Where("level = ?", filter.Level)
		}
		if filter.CategoryID != "" {
			q = q.Where("id IN (?)", db.Model(&model.CourseCategory{}).
				Select("course_id").
				Where("category_id = ?", filter.CategoryID))
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := query().
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}

	summaries, err := r.summaries(ctx, courses)
	return summaries, total, err
}

// ListByInstructor 讲师自己的全部课程，包括未发布的
func (r *CourseRepository) ListByInstructor(ctx context.Context, instructorID string) ([]model.CourseSummary, error) {
	db := r.DB.WithContext(ctx)
	var courses []model.Course
	err := db.Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return r.summaries(ctx, courses)
}

// Detail 课程详情，reviewLimit 为附带的最新评价条数
func (r *CourseRepository) Detail(ctx context.Context, id string, reviewLimit int) (*model.CourseDetail, error) {
	db := r.DB.WithContext(ctx)

	var course model.Course
	if err := db.Where("id = ?", id).First(&course).Error; err != nil {
		return nil, translate(err, util.ErrCourseNotFound, nil)
	}

	summaries, err := r.summaries(ctx, []model.Course{course})
	if err != nil {
		return nil, err
	}

	lessons, err := NewLessonRepository(r.DB).ListSummaries(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := NewReviewRepository(r.DB).Latest(ctx, id, reviewLimit)
	if err != nil {
		return nil, err
	}

	return &model.CourseDetail{
		CourseSummary: summaries[0],
		Lessons:       lessons,
		Reviews:       reviews,
	}, nil
}

// summaries 批量补齐讲师、分类与计数，平均分由调用方填充
func (r *CourseRepository) summaries(ctx context.Context, courses []model.Course) ([]model.CourseSummary, error) {
	db := r.DB.WithContext(ctx)
	out := make([]model.CourseSummary, 0, len(courses))
	if len(courses) == 0 {
		return out, nil
	}

	ids := make([]string, len(courses))
	instructorIDs := make([]string, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
		instructorIDs[i] = c.InstructorID
	}

	instructors, err := userSummaries(db, uniqueStrings(instructorIDs))
	if err != nil {
		return nil, err
	}
	categories, err := NewCategoryRepository(r.DB).ForCourses(ctx, ids)
	if err != nil {
		return nil, err
	}
	enrollments, err := countBy(db, &model.Enrollment{}, "course_id", ids)
	if err != nil {
		return nil, err
	}
	lessons, err := countBy(db, &model.Lesson{}, "course_id", ids)
	if err != nil {
		return nil, err
	}
	reviews, err := countBy(db, &model.Review{}, "course_id", ids)
	if err != nil {
		return nil, err
	}

	for _, c := range courses {
		cats := categories[c.ID]
		if cats == nil {
			cats = []model.Category{}
		}
		out = append(out, model.CourseSummary{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Price:       c.Price,
			Level:       c.Level,
			Thumbnail:   c.Thumbnail,
			Published:   c.Published,
			CreatedAt:   c.CreatedAt,
			Instructor:  instructors[c.InstructorID],
			Categories:  cats,
			Counts: model.CourseCounts{
				Enrollments: enrollments[c.ID],
				Lessons:     lessons[c.ID],
				Reviews:     reviews[c.ID],
			},
		})
	}
	return out, nil
}
